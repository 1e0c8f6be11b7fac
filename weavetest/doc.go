/*
Package weavetest provides keys, stores and an in memory ledger for tests of
programs built on the runtime.
*/
package weavetest
