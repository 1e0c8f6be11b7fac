// Package crypto holds the ed25519 keys that sign transactions and a file
// backed keyring for the command line client.
package crypto
