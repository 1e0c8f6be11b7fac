/*
Package gconf stores configuration singletons in the ledger database.

A configuration is saved once at genesis, under a key derived from the name
of the package that owns it, and loaded whenever the ledger is opened again.
Values are validated before they are written.
*/
package gconf
