// Check command: verify the external engines are reachable before
// spending an afternoon on a batch.
package main

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the external engines and the language bridge are installed",
	Run: func(cmd *cobra.Command, args []string) {
		ok := true
		ok = report("alphaMELTS", cfg.GetString(cfgMeltsCommand)) && ok
		ok = report("Julia (MAGEMin bridge)", cfg.GetString(cfgJuliaCommand)) && ok
		ok = report("ferric converter", cfg.GetString(cfgFerricCommand)) && ok
		if !ok {
			fmt.Fprintln(os.Stderr, "check: some engines are missing; set their commands in gopetro.yaml")
			os.Exit(exitSysError)
		}
	},
}

func report(what, command string) bool {
	path, err := exec.LookPath(command)
	if err != nil {
		fmt.Printf("%-24s MISSING (%s)\n", what, command)
		return false
	}
	fmt.Printf("%-24s ok (%s)\n", what, path)
	return true
}
