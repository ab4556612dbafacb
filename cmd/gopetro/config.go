// Configuration for the gopetro runner: where the external engines live.
// Library packages never read config themselves; everything resolved here
// is passed down explicitly.
package main

import (
	"errors"

	"github.com/spf13/viper"
)

// Config keys of gopetro.yaml. Every key can also come from the
// environment as GOPETRO_<KEY> (e.g. GOPETRO_MELTS_COMMAND).
const (
	cfgMeltsCommand  = "melts_command"
	cfgJuliaCommand  = "julia_command"
	cfgFerricCommand = "ferric_command"
	cfgWorkDir       = "workdir"
)

// cfg holds the loaded configuration; set by loadConfig before any
// subcommand runs.
var cfg *viper.Viper

func loadConfig() error {
	cfg = viper.New()
	cfg.SetDefault(cfgMeltsCommand, "alphamelts")
	cfg.SetDefault(cfgJuliaCommand, "julia")
	cfg.SetDefault(cfgFerricCommand, "ferric-convert")
	cfg.SetDefault(cfgWorkDir, "")
	cfg.SetEnvPrefix("GOPETRO")
	cfg.AutomaticEnv()
	if configFile != "" {
		cfg.SetConfigFile(configFile)
	} else {
		cfg.SetConfigName("gopetro")
		cfg.SetConfigType("yaml")
		cfg.AddConfigPath(".")
		cfg.AddConfigPath("$HOME/.config/gopetro")
	}
	err := cfg.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		//running with defaults is fine, unless a file was named
		if errors.As(err, &notFound) && configFile == "" {
			return nil
		}
		return err
	}
	return nil
}
