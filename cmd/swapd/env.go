package main

import (
	"flag"
	"os"
	"path/filepath"
)

// env returns the value of an environment variable if provided (even if empty)
// or a fallback value.
func env(name, fallback string) string {
	if v, ok := os.LookupEnv(name); ok {
		return v
	}
	return fallback
}

// flHome registers the home directory flag shared by all commands.
func flHome(fl *flag.FlagSet) *string {
	return fl.String("home", env("SWAPD_HOME", filepath.Join(os.Getenv("HOME"), ".swapd")),
		"Directory holding the configuration, the keys and the ledger state. You can use SWAPD_HOME environment variable to set it.")
}
