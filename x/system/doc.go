/*
Package system implements the program that owns every wallet. It creates
accounts on behalf of other programs and moves native lamports between
wallets.
*/
package system
