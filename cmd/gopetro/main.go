// Package main provides the gopetro runner: the reproduction pipeline of
// the study as subcommands, wiring the spreadsheet tables through the
// external ferric-iron converter and the phase-equilibrium engines.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Exit codes: 0 success, 1 user error, 2 system/engine error.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

const version = "v0.1.0"

// configFile is set by the --config flag.
var configFile string

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitSysError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "gopetro",
	Short: "gopetro reproduces the phase-equilibrium datasets of the study",
	Long: `gopetro reproduces the phase-equilibrium datasets behind the study:
it reads the experiment spreadsheet, attaches the ferric iron column via
the external oxybarometer calibration, runs each thermodynamic model's
engine over all rows, and writes one result spreadsheet per model.

The external engines (alphaMELTS, the MAGEMin Julia bridge, and the
ferric converter) are not distributed with gopetro; point it at them
with a gopetro.yaml config file or the GOPETRO_* environment variables.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfig()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("gopetro", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default: ./gopetro.yaml or ~/.config/gopetro/gopetro.yaml)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(equilibrateCmd)
	rootCmd.AddCommand(ferricCmd)
	rootCmd.AddCommand(summarizeCmd)
	rootCmd.AddCommand(checkCmd)
}

//userErr prints the message and exits with the user-error code.
func userErr(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(exitUserError)
}

//sysErr prints the message and exits with the system-error code.
func sysErr(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(exitSysError)
}
