/*
Package runtime executes signed transactions against a key value store.

Every transaction runs inside a cache wrap of the store. Instructions are
dispatched to registered programs and may invoke other programs. After each
program returns, the runtime checks that it only touched what it was allowed
to touch:

  - lamports are neither created nor destroyed
  - only the owning program debits lamports or changes data
  - the owner changes only from the owning program and only with zeroed data
  - accounts passed as read only are unchanged

The first failure discards the cache wrap, so a failed transaction leaves no
trace in the store.
*/
package runtime
