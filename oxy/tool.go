/*
 * tool.go, part of goPetro.
 *
 * Copyright 2024 the goPetro authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */
//In order to use this part of the library you need the geothermobarometry
//toolkit's converter command, obtained from its distributors. Please cite
//the toolkit and the calibration you apply.

package oxy

import (
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"

	petro "gopetro"
	"gopetro/runlog"
)

// ToolHandle reaches a named calibration through the external converter
// command: the rows go out as a CSV work file, the command computes the
// Fe3+/FeT fraction for each, and the column comes back from the CSV it
// writes. One invocation converts a whole frame.
type ToolHandle struct {
	command     string
	calibration string
	workdir     string
	inputname   string
	capture     string
	keep        bool
}

// NewToolHandle returns a handle for the given calibration, or an error
// if the calibration is not recognized.
func NewToolHandle(calibration string) (*ToolHandle, error) {
	if !IsCalibration(calibration) {
		return nil, Error{ErrUnknownCalibration, calibration, fmt.Sprintf("known: %v", Calibrations), []string{"NewToolHandle"}, true}
	}
	O := new(ToolHandle)
	O.SetDefaults()
	O.calibration = calibration
	return O, nil
}

//ToolHandle methods

func (O *ToolHandle) Command() string {
	return O.command
}

func (O *ToolHandle) SetCommand(name string) {
	O.command = name
}

func (O *ToolHandle) SetName(name string) {
	O.inputname = name
}

func (O *ToolHandle) SetWorkDir(dir string) {
	O.workdir = dir
}

// SetCapture sets the console capture suffix (see gopetro/runlog); empty
// discards the converter's console output.
func (O *ToolHandle) SetCapture(suffix string) {
	O.capture = suffix
}

// SetKeepFiles keeps the work files after a successful conversion.
func (O *ToolHandle) SetKeepFiles(keep bool) {
	O.keep = keep
}

// SetDefaults sets the command to "ferric-convert" (expected in PATH),
// the work directory to the current one and the calibration to the
// default one. The defaults are not part of the API and may change.
func (O *ToolHandle) SetDefaults() {
	O.command = "ferric-convert"
	O.workdir = "."
	O.calibration = DefaultCalibration
	O.inputname = "gopetro_ferric"
}

// Calibration returns the calibration this handle applies.
func (O *ToolHandle) Calibration() string {
	return O.calibration
}

func (O *ToolHandle) inputFile() string {
	return filepath.Join(O.workdir, O.inputname+"_in.csv")
}

func (O *ToolHandle) outputFile() string {
	return filepath.Join(O.workdir, O.inputname+"_out.csv")
}

// ConvertFrame converts every row of f in one invocation and returns the
// Fe3+/FeT column, in row order.
func (O *ToolHandle) ConvertFrame(f *petro.Frame) ([]float64, error) {
	//the toolkit wants Kelvin and kbar; the frame speaks Celsius and GPa
	if err := O.writeInput(f); err != nil {
		return nil, errDecorate(err, "ConvertFrame")
	}
	if err := O.run(); err != nil {
		return nil, errDecorate(err, "ConvertFrame")
	}
	vals, err := O.readOutput(f.Rows())
	if err != nil {
		return nil, errDecorate(err, "ConvertFrame")
	}
	if !O.keep {
		os.Remove(O.inputFile())
		os.Remove(O.outputFile())
	}
	return vals, nil
}

// FerricFraction converts a single row, satisfying Converter. Batch
// callers should let Convert use ConvertFrame instead: this spawns one
// process per call.
func (O *ToolHandle) FerricFraction(comp petro.Composition, tC, pGPa, logfO2 float64) (float64, error) {
	names := []string{petro.ColTC, petro.ColPGPa, petro.ColLogfO2}
	for ox := range comp {
		names = append(names, ox+petro.LiqSuffix)
	}
	F := petro.NewFrame(1, names)
	F.SetFloat(0, petro.ColTC, tC)
	F.SetFloat(0, petro.ColPGPa, pGPa)
	F.SetFloat(0, petro.ColLogfO2, logfO2)
	for ox, v := range comp {
		F.SetFloat(0, ox+petro.LiqSuffix, v)
	}
	vals, err := O.ConvertFrame(F)
	if err != nil {
		return math.NaN(), errDecorate(err, "FerricFraction")
	}
	if len(vals) != 1 {
		return math.NaN(), Error{ErrRowsDropped, O.calibration, fmt.Sprintf("%d values for one row", len(vals)), []string{"FerricFraction"}, true}
	}
	return vals[0], nil
}

//the work file: the liquid oxides plus T_K, P_kbar and logfO2, the
//toolkit's own units and column conventions.
func (O *ToolHandle) writeInput(f *petro.Frame) error {
	work := petro.NewFrame(f.Rows(), nil)
	for _, ox := range petro.LiquidOxides {
		name := ox + petro.LiqSuffix
		if !f.HasCol(name) {
			continue
		}
		col, _ := f.Col(name)
		if err := work.AddCol(name, col); err != nil {
			return Error{ErrCantInput, O.calibration, err.Error(), []string{"writeInput"}, true}
		}
	}
	tc, err := f.Col(petro.ColTC)
	if err != nil {
		return Error{ErrCantInput, O.calibration, err.Error(), []string{"writeInput"}, true}
	}
	for i, v := range tc {
		tc[i] = petro.CtoK(v)
	}
	p, err := f.Col(petro.ColPGPa)
	if err != nil {
		return Error{ErrCantInput, O.calibration, err.Error(), []string{"writeInput"}, true}
	}
	for i, v := range p {
		p[i] = v * petro.GPa2Kbar
	}
	fo2, err := f.Col(petro.ColLogfO2)
	if err != nil {
		return Error{ErrCantInput, O.calibration, err.Error(), []string{"writeInput"}, true}
	}
	work.AddCol("T_K", tc)
	work.AddCol("P_kbar", p)
	work.AddCol(petro.ColLogfO2, fo2)
	if err := petro.WriteSheet(O.inputFile(), work); err != nil {
		return Error{ErrCantInput, O.calibration, err.Error(), []string{"writeInput"}, true}
	}
	return nil
}

func (O *ToolHandle) run() error {
	cmd := exec.Command(O.command, "--model", O.calibration,
		"--input", filepath.Base(O.inputFile()), "--output", filepath.Base(O.outputFile()))
	cmd.Dir = O.workdir
	var W *runlog.Writer
	if O.capture != "" {
		var err error
		W, err = runlog.NewWriter(filepath.Join(O.workdir, O.inputname+O.capture))
		if err != nil {
			return errDecorate(err, "run")
		}
		W.Banner("ferric conversion, calibration %s", O.calibration)
		W.Attach(cmd)
	}
	err := cmd.Run()
	W.Close()
	if err != nil {
		return Error{ErrNotRunning, O.calibration, err.Error() + ", command: " + O.command, []string{"exec.Run", "run"}, true}
	}
	return nil
}

func (O *ToolHandle) readOutput(rows int) ([]float64, error) {
	F, err := petro.ReadSheet(O.outputFile())
	if err != nil {
		return nil, Error{ErrNoResults, O.calibration, err.Error(), []string{"readOutput"}, true}
	}
	if F.Rows() != rows {
		return nil, Error{ErrRowsDropped, O.calibration, fmt.Sprintf("%d rows in, %d out", rows, F.Rows()), []string{"readOutput"}, true}
	}
	vals, err := F.Col(petro.ColFe3Fet)
	if err != nil {
		return nil, Error{ErrNoResults, O.calibration, "output lacks the Fe3Fet_Liq column", []string{"readOutput"}, true}
	}
	for i, v := range vals {
		if math.IsNaN(v) || v < 0 || v > 1 {
			return nil, Error{ErrNoResults, O.calibration, fmt.Sprintf("row %d: fraction %v out of [0,1]", i, v), []string{"readOutput"}, true}
		}
	}
	return vals, nil
}
