/*
Package token implements the token custody program. A mint defines a fungible
asset, a token account holds a balance of one mint on behalf of an owner.
Balances only move through Transfer, which the owner of the source account
authorizes either with a signature or, for a derived address, with the seeds
passed to the invoking program's Invoke call.
*/
package token
