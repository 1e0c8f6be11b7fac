/*
Package app wires the built-in programs into a runtime and loads the ledger
from a genesis file.

The genesis file carries the chain id and a set of app options. Each
component reads its own key from the options, see tokenswap.Options.
*/
package app
