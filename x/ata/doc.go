/*
Package ata implements the associated account program. Every (wallet, mint)
pair has exactly one canonical token account whose address is derived from
the wallet, the token program and the mint. Anyone may pay to create it, the
wallet always owns it.
*/
package ata
