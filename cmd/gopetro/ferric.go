// Ferric command: attach the Fe3+/FeT column via the external calibration.
package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	petro "gopetro"
	"gopetro/oxy"
)

var (
	feInput       string
	feOut         string
	feCalibration string
	feKeepFiles   bool
)

var ferricCmd = &cobra.Command{
	Use:   "ferric",
	Short: "Convert measured fO2 to the Fe3Fet_Liq column",
	Long: `Ferric reads the experiment spreadsheet and attaches the molar
Fe3+/FeT column, converting each row's measured oxygen fugacity with the
named calibration of the external geothermobarometry toolkit. The
conversion is deterministic: the same rows and calibration always give
the same column.`,
	Run: func(cmd *cobra.Command, args []string) {
		if feInput == "" {
			userErr("ferric: --input is required")
		}
		if !oxy.IsCalibration(feCalibration) {
			userErr("ferric: unknown calibration %q (known: %s)", feCalibration, strings.Join(oxy.Calibrations, ", "))
		}
		out := feOut
		if out == "" {
			ext := filepath.Ext(feInput)
			out = strings.TrimSuffix(feInput, ext) + "_fe3" + ext
		}
		f, err := petro.ReadSheet(feInput)
		if err != nil {
			userErr("ferric: %v", err)
		}
		f.ZeroMissingOxides()
		conv, err := oxy.NewToolHandle(feCalibration)
		if err != nil {
			userErr("ferric: %v", err)
		}
		conv.SetCommand(cfg.GetString(cfgFerricCommand))
		if dir := cfg.GetString(cfgWorkDir); dir != "" {
			conv.SetWorkDir(dir)
		} else {
			conv.SetWorkDir(filepath.Dir(out))
		}
		conv.SetKeepFiles(feKeepFiles)
		if err := oxy.Convert(f, conv); err != nil {
			sysErr("ferric: %v", err)
		}
		if err := petro.WriteSheet(out, f); err != nil {
			sysErr("ferric: %v", err)
		}
		fmt.Printf("%s: %d rows converted with %s, written to %s\n", feInput, f.Rows(), feCalibration, out)
	},
}

func init() {
	ferricCmd.Flags().StringVar(&feInput, "input", "", "experiment spreadsheet (.xlsx or .csv)")
	ferricCmd.Flags().StringVar(&feOut, "out", "", "output spreadsheet (default: <input>_fe3.<ext>)")
	ferricCmd.Flags().StringVar(&feCalibration, "calibration", oxy.DefaultCalibration, "fO2 calibration to apply")
	ferricCmd.Flags().BoolVar(&feKeepFiles, "keep-files", false, "keep the converter work files")
}
