/*
Package escrow implements an atomic swap escrow.

A maker deposits amount_to_give of mint A into a vault and asks for
amount_to_receive of mint B. The vault is the associated token account of the
escrow record, which lives at a program derived address:

  escrow = derive(["escrow", maker, bump], escrow program)
  vault  = derive([escrow, token program, mint A], associated account program)

A taker settles with Take: mint B moves from the taker to the maker, the vault
is drained to the taker and both vault and record are closed with their
reserves returned to the maker. The maker cancels with Refund, which drains
the vault back and closes both accounts the same way.

Take and Refund trust nothing they are given. Each re-derives the escrow and
vault addresses and checks every token account before moving any balance.
Once either succeeds the record is gone, so any later Take or Refund on the
same escrow fails the ownership check.
*/
package escrow
