package main

import (
	"fmt"
	"os"

	"github.com/jmegroup/adlib/internal/config"
)

// loadSettings layers the config file over the environment over built-in defaults.
// Command flags are applied on top by each command.
func loadSettings() (config.Config, error) {
	var cfg config.Config
	if configFile != "" {
		fileCfg, err := config.LoadConfig(configFile)
		if err != nil {
			return config.Config{}, err
		}
		cfg = *fileCfg
	}

	cfg = cfg.MergeWithDefaults(config.FromEnv())
	cfg = cfg.MergeWithDefaults(config.Defaults())
	if verbose {
		cfg.Verbose = true
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// override returns flag when it was set, otherwise current.
func override(flag, current string) string {
	if flag != "" {
		return flag
	}
	return current
}

func progressf(cfg config.Config, format string, args ...any) {
	if cfg.Verbose {
		_, _ = fmt.Fprintf(os.Stderr, format, args...)
	}
}
