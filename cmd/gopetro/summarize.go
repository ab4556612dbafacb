// Summarize command: distributions of result quantities across models.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	petro "gopetro"
	"gopetro/histo"
	"gopetro/meq"
)

var (
	suOutDir     string
	suModels     []string
	suQuantities []string
	suDividers   []float64
	suSuffix     string
	suOut        string
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize",
	Short: "Summarize per-model outputs as histograms",
	Long: `Summarize reads the per-model output spreadsheets of a finished
batch and bins the named result quantities into one histogram per model
and quantity, written as JSON. Data products only; the figures are made
elsewhere.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(suDividers) < 2 {
			userErr("summarize: --dividers needs at least two values")
		}
		M, err := histo.NewMatrix(suModels, suQuantities, suDividers)
		if err != nil {
			userErr("summarize: %v", err)
		}
		for _, model := range suModels {
			path := filepath.Join(suOutDir, model+suSuffix)
			f, err := petro.ReadSheet(path)
			if err != nil {
				userErr("summarize: %s: %v", model, err)
			}
			if err := M.AddFrame(model, f); err != nil {
				sysErr("summarize: %s: %v", model, err)
			}
		}
		b, err := json.MarshalIndent(M, "", "  ")
		if err != nil {
			sysErr("summarize: %v", err)
		}
		if err := os.WriteFile(suOut, b, 0644); err != nil {
			sysErr("summarize: %v", err)
		}
		fmt.Printf("%d models x %d quantities binned into %s\n", len(suModels), len(suQuantities), suOut)
	},
}

func init() {
	summarizeCmd.Flags().StringVar(&suOutDir, "outdir", ".", "directory with the per-model output spreadsheets")
	summarizeCmd.Flags().StringSliceVar(&suModels, "models", meq.DefaultModels, "models to summarize")
	summarizeCmd.Flags().StringSliceVar(&suQuantities, "quantities", []string{"mass_liquid"}, "result columns to bin")
	summarizeCmd.Flags().Float64SliceVar(&suDividers, "dividers", []float64{0, 25, 50, 75, 100}, "bin dividers, sorted")
	summarizeCmd.Flags().StringVar(&suSuffix, "suffix", "_outputs.xlsx", "per-model output file suffix")
	summarizeCmd.Flags().StringVar(&suOut, "out", "histograms.json", "output JSON file")
}
