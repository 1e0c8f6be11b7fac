package main

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/runtime"
)

const configFile = "config.toml"

// Config is the content of config.toml in the home directory.
type Config struct {
	// LogLevel is one of debug, info, error or none.
	LogLevel string `toml:"log_level"`
	// LogFile is relative to the home directory. The file is rotated once
	// it grows past LogMaxSizeMB.
	LogFile      string         `toml:"log_file"`
	LogMaxSizeMB int            `toml:"log_max_size_mb"`
	Ledger       runtime.Config `toml:"ledger"`
}

// DefaultConfig is written by init when the home directory has no config.
func DefaultConfig() Config {
	return Config{
		LogLevel:     "info",
		LogFile:      "swapd.log",
		LogMaxSizeMB: 10,
		Ledger:       runtime.DefaultConfig(),
	}
}

// loadConfig reads config.toml on top of the defaults. A missing file
// leaves the defaults.
func loadConfig(home string) (Config, error) {
	conf := DefaultConfig()
	path := filepath.Join(home, configFile)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return conf, nil
	}
	if _, err := toml.DecodeFile(path, &conf); err != nil {
		return conf, errors.Wrapf(errors.ErrInvalidInput, "cannot decode %s: %s", path, err)
	}
	return conf, nil
}

// writeConfig stores conf unless a config file already exists.
func writeConfig(home string, conf Config) error {
	path := filepath.Join(home, configFile)
	fd, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if os.IsExist(err) {
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "create config")
	}
	defer fd.Close()
	if err := toml.NewEncoder(fd).Encode(conf); err != nil {
		return errors.Wrap(err, "encode config")
	}
	return errors.Wrap(fd.Close(), "close config")
}
