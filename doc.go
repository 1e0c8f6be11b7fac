/*
Package tokenswap defines the types shared by the runtime and the programs it
executes: addresses, program-derived addresses, accounts, instructions,
transactions and the Program interface.

A program never trusts an account it is handed. Every account arrives as an
attacker-chosen reference, so programs re-derive expected addresses with
CreateProgramAddress and cross-check stored state before they move any
balance. Program-derived addresses lie off the ed25519 curve and have no
private key. A program authorizes spending from one by passing the exact seed
tuple that produced it to Invoker.Invoke.

We pass context through context.Context between the runtime and programs. To
do so, this package defines some common keys to store info, such as the logger
and the rent parameters. There should exist two functions for every XYZ of
type T that we want to support in Context:

  WithXYZ(Context, T) Context
  GetXYZ(Context) T
*/
package tokenswap
