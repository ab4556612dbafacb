// Equilibrate command: the per-model batch over the experiment table.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	petro "gopetro"
	"gopetro/meq"
)

var (
	eqInput     string
	eqModels    []string
	eqOutDir    string
	eqSuffix    string
	eqKeepFiles bool
	eqNoCapture bool
)

var equilibrateCmd = &cobra.Command{
	Use:   "equilibrate",
	Short: "Run every thermodynamic model over the experiment table",
	Long: `Equilibrate reads the experiment spreadsheet, zero-fills missing
oxides (and only oxides), and runs each named model's engine over all
rows, writing <model><suffix> per model plus a manifest.json into the
output directory. The input must already carry the Fe3Fet_Liq column;
run "gopetro ferric" first if it doesn't.`,
	Run: func(cmd *cobra.Command, args []string) {
		if eqInput == "" {
			userErr("equilibrate: --input is required")
		}
		for _, m := range eqModels {
			if !meq.IsModel(m) {
				userErr("equilibrate: unknown model %q (known: %s)", m, strings.Join(meq.Models(), ", "))
			}
		}
		f, err := petro.ReadSheet(eqInput)
		if err != nil {
			userErr("equilibrate: %v", err)
		}
		if !f.HasCol(petro.ColFe3Fet) {
			userErr("equilibrate: %s has no %s column; run \"gopetro ferric\" first", eqInput, petro.ColFe3Fet)
		}
		if n := f.ZeroMissingOxides(); n > 0 {
			fmt.Fprintf(os.Stderr, "equilibrate: zero-filled %d missing oxide cells\n", n)
		}
		if err := f.CheckRuns(); err != nil {
			userErr("equilibrate: %s not fit to run: %v", eqInput, err)
		}
		Q := new(meq.Calc)
		Q.SetDefaults()
		Q.Suffix = eqSuffix
		Q.OutDir = eqOutDir
		Q.WorkDir = cfg.GetString(cfgWorkDir)
		Q.KeepFiles = eqKeepFiles
		Q.MeltsCommand = cfg.GetString(cfgMeltsCommand)
		Q.JuliaCommand = cfg.GetString(cfgJuliaCommand)
		if eqNoCapture {
			Q.Capture = ""
		}
		M, err := meq.EquilibrateAll(f, eqModels, Q, eqInput)
		if err != nil {
			sysErr("equilibrate: %v", err)
		}
		fmt.Printf("run %s: %d rows through %d models\n", M.RunID, M.Rows, len(M.Models))
		for _, m := range M.Models {
			fmt.Printf("  %-14s %-10s %s (%.1f s)\n", m.Model, m.Engine, m.Output, m.Seconds)
		}
	},
}

func init() {
	equilibrateCmd.Flags().StringVar(&eqInput, "input", "", "experiment spreadsheet (.xlsx or .csv)")
	equilibrateCmd.Flags().StringSliceVar(&eqModels, "models", meq.DefaultModels, "models to run")
	equilibrateCmd.Flags().StringVar(&eqOutDir, "outdir", ".", "directory for the per-model outputs and the manifest")
	equilibrateCmd.Flags().StringVar(&eqSuffix, "suffix", "_outputs.xlsx", "per-model output file suffix")
	equilibrateCmd.Flags().BoolVar(&eqKeepFiles, "keep-files", false, "keep the engine input and scratch files")
	equilibrateCmd.Flags().BoolVar(&eqNoCapture, "no-capture", false, "discard the engines' console output instead of capturing it")
}
