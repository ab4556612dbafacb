/*
 * melts.go, part of goPetro.
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
//In order to use this part of the library you need the alphaMELTS console
//program, which must be obtained from its distributors. Please cite the
//MELTS references if you use it.

package meq

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	petro "gopetro"
	"gopetro/runlog"
)

//the engine output tables Results parses, one of each per row directory.
const (
	meltsPhaseTable  = "Phase_mass_tbl.txt"
	meltsLiquidTable = "Liquid_comp_tbl.txt"
)

// MeltsHandle drives the alphaMELTS console program, one run per
// experimental row. The calculation-mode version (1.0.2, 1.1.0, 1.2.0 or
// pMELTS) selects the thermodynamic model.
type MeltsHandle struct {
	command   string
	inputname string
	workdir   string
	version   string
	envfile   string
	rows      int
	capture   string
	keep      bool
	done      chan error
}

// NewMeltsHandle returns a handle for the given calculation-mode version.
func NewMeltsHandle(version string) *MeltsHandle {
	O := new(MeltsHandle)
	O.SetDefaults()
	O.version = version
	return O
}

//MeltsHandle methods

func (O *MeltsHandle) Command() string {
	return O.command
}

func (O *MeltsHandle) SetCommand(name string) {
	O.command = name
}

func (O *MeltsHandle) SetName(name string) {
	O.inputname = name
}

func (O *MeltsHandle) SetWorkDir(dir string) {
	O.workdir = dir
}

// SetDefaults sets the command to "alphamelts" (expected in PATH), the
// work directory to the current one, and the version to 1.2.0. The
// defaults are not part of the API and may change.
func (O *MeltsHandle) SetDefaults() {
	O.command = "alphamelts"
	O.workdir = "."
	O.version = "1.2.0"
}

func (O *MeltsHandle) rowDir(i int) string {
	return filepath.Join(O.workdir, fmt.Sprintf("%s_row%d", O.inputname, i))
}

// BuildInput writes, for every row of f, a .melts file with the bulk
// composition (iron split into FeO/Fe2O3 from Fe3Fet_Liq), temperature in
// Celsius and pressure in bar, in its own per-row directory, plus the
// shared settings and batch files. Rows that fail petro's CheckRuns are
// refused up front.
func (O *MeltsHandle) BuildInput(f *petro.Frame, Q *Calc) error {
	if O.inputname == "" {
		O.inputname = "gopetro"
	}
	if Q != nil {
		O.capture = Q.Capture
		O.keep = Q.KeepFiles
	}
	O.rows = f.Rows()
	if O.rows == 0 {
		return nil
	}
	if err := f.CheckRuns(); err != nil {
		return Error{ErrCantInput, MELTS, O.inputname, err.Error(), []string{"BuildInput"}, true}
	}
	if !f.HasCol(petro.ColFe3Fet) {
		return Error{ErrMissingFerric, MELTS, O.inputname, "", []string{"BuildInput"}, true}
	}
	O.envfile = filepath.Join(O.workdir, O.inputname+"_env.txt")
	if err := O.writeEnvFile(); err != nil {
		return errDecorate(err, "BuildInput")
	}
	exps, _ := f.Label(petro.Experiment)
	cits, _ := f.Label(petro.Citation)
	for i := 0; i < O.rows; i++ {
		if err := os.MkdirAll(O.rowDir(i), 0755); err != nil {
			return Error{ErrCantInput, MELTS, O.inputname, err.Error(), []string{"BuildInput"}, true}
		}
		if err := O.writeMeltsFile(f, i, exps[i], cits[i]); err != nil {
			return errDecorate(err, "BuildInput")
		}
		if err := O.writeBatchFile(i); err != nil {
			return errDecorate(err, "BuildInput")
		}
	}
	return nil
}

//the settings file shared by all rows. Isobaric, no fractionation: the
//study equilibrates each run at its reported conditions.
func (O *MeltsHandle) writeEnvFile() error {
	env, err := os.Create(O.envfile)
	if err != nil {
		return Error{ErrCantInput, MELTS, O.inputname, err.Error(), []string{"writeEnvFile"}, true}
	}
	defer env.Close()
	version := "MELTS"
	if O.version == "pMELTS" {
		version = "pMELTS"
	}
	fmt.Fprintln(env, "! settings generated by goPetro")
	fmt.Fprintf(env, "ALPHAMELTS_VERSION %s\n", version)
	if version != "pMELTS" {
		fmt.Fprintf(env, "ALPHAMELTS_MELTS_VERSION %s\n", O.version)
	}
	fmt.Fprintln(env, "ALPHAMELTS_MODE isobaric")
	fmt.Fprintln(env, "ALPHAMELTS_SAVE_ALL true")
	fmt.Fprintln(env, "ALPHAMELTS_SKIP_FAILURE true")
	return nil
}

func (O *MeltsHandle) writeMeltsFile(f *petro.Frame, i int, exp, cit string) error {
	comp, err := f.Composition(i)
	if err != nil {
		return Error{ErrCantInput, MELTS, O.inputname, err.Error(), []string{"writeMeltsFile"}, true}
	}
	fe3, err := f.Float(i, petro.ColFe3Fet)
	if err != nil {
		return Error{ErrCantInput, MELTS, O.inputname, err.Error(), []string{"writeMeltsFile"}, true}
	}
	split, err := comp.SplitIron(fe3)
	if err != nil {
		return Error{ErrCantInput, MELTS, O.inputname, err.Error(), []string{"writeMeltsFile"}, true}
	}
	tc, _ := f.Float(i, petro.ColTC)
	pgpa, _ := f.Float(i, petro.ColPGPa)
	file, err := os.Create(filepath.Join(O.rowDir(i), O.inputname+".melts"))
	if err != nil {
		return Error{ErrCantInput, MELTS, O.inputname, err.Error(), []string{"writeMeltsFile"}, true}
	}
	defer file.Close()
	fmt.Fprintf(file, "Title: %s (%s)\n", exp, cit)
	//the oxides go in suite order, with FeOt replaced by its split
	for _, ox := range petro.LiquidOxides {
		if ox == "FeOt" {
			fmt.Fprintf(file, "Initial Composition: FeO %.6f\n", split["FeO"])
			fmt.Fprintf(file, "Initial Composition: Fe2O3 %.6f\n", split["Fe2O3"])
			continue
		}
		if v, ok := split[ox]; ok && !math.IsNaN(v) {
			fmt.Fprintf(file, "Initial Composition: %s %.6f\n", ox, v)
		}
	}
	fmt.Fprintf(file, "Initial Temperature: %.2f %.2f 0.00\n", tc, tc)
	fmt.Fprintf(file, "Initial Pressure: %.2f %.2f 0.00\n", pgpa*petro.GPa2Bar, pgpa*petro.GPa2Bar)
	fmt.Fprintln(file, "Mode: Fractionate None")
	return nil
}

//the console-menu answers: load the melts file, execute, quit.
func (O *MeltsHandle) writeBatchFile(i int) error {
	b, err := os.Create(filepath.Join(O.rowDir(i), O.inputname+".command"))
	if err != nil {
		return Error{ErrCantInput, MELTS, O.inputname, err.Error(), []string{"writeBatchFile"}, true}
	}
	defer b.Close()
	fmt.Fprintf(b, "1\n%s.melts\n4\n1\n0\n", O.inputname)
	return nil
}

// Run runs alphaMELTS over the prepared inputs, one process per row,
// strictly in row order. It waits or not for completion depending on
// wait; if it didn't wait, Results will.
func (O *MeltsHandle) Run(wait bool) error {
	if !wait {
		O.done = make(chan error, 1)
		go func() { O.done <- O.runAll() }()
		return nil
	}
	return O.runAll()
}

func (O *MeltsHandle) runAll() error {
	env, err := filepath.Abs(O.envfile)
	if err != nil {
		return Error{ErrNotRunning, MELTS, O.inputname, err.Error(), []string{"runAll"}, true}
	}
	for i := 0; i < O.rows; i++ {
		cmd := exec.Command(O.command, "-f", env, "-b", O.inputname+".command")
		cmd.Dir = O.rowDir(i)
		var W *runlog.Writer
		if O.capture != "" {
			W, err = runlog.NewWriter(filepath.Join(O.workdir, fmt.Sprintf("%s_row%d%s", O.inputname, i, O.capture)))
			if err != nil {
				return errDecorate(err, "runAll")
			}
			W.Banner("%s %s row %d", MELTS, O.version, i)
			W.Attach(cmd)
		}
		err = cmd.Run()
		W.Close()
		if err != nil {
			return Error{ErrNotRunning, MELTS, fmt.Sprintf("%s row %d", O.inputname, i), err.Error() + ", command: " + O.command, []string{"exec.Run", "runAll"}, true}
		}
	}
	return nil
}

// Results parses the per-row phase-mass and liquid-composition tables
// into one frame, one row per input row. Pressure comes back in GPa,
// temperature in Celsius; phase masses appear as mass_<phase> columns and
// the residual liquid composition as the usual _Liq oxide columns.
func (O *MeltsHandle) Results() (*petro.Frame, error) {
	if O.done != nil {
		err := <-O.done
		O.done = nil
		if err != nil {
			return nil, errDecorate(err, "Results")
		}
	}
	if O.rows == 0 {
		return petro.NewFrame(0, nil), nil
	}
	var order []string
	rows := make([]map[string]float64, O.rows)
	for i := 0; i < O.rows; i++ {
		vals := make(map[string]float64)
		err := O.parseRow(i, vals, &order)
		if err != nil {
			return nil, errDecorate(err, "Results")
		}
		rows[i] = vals
	}
	F := petro.NewFrame(O.rows, order)
	for i, vals := range rows {
		for name, v := range vals {
			F.SetFloat(i, name, v)
		}
	}
	O.cleanup()
	return F, nil
}

func (O *MeltsHandle) parseRow(i int, vals map[string]float64, order *[]string) error {
	dir := O.rowDir(i)
	phead, pvals, err := parseMeltsTable(filepath.Join(dir, meltsPhaseTable))
	if err != nil {
		return Error{ErrNoResults, MELTS, fmt.Sprintf("%s row %d", O.inputname, i), err.Error(), []string{"parseRow"}, true}
	}
	add := func(name string, v float64) {
		if _, seen := vals[name]; !seen {
			if !isInString(*order, name) {
				*order = append(*order, name)
			}
			vals[name] = v
		}
	}
	for j, h := range phead {
		switch h {
		case "Pressure":
			add(petro.ColPGPa, pvals[j]*petro.Bar2GPa)
		case "Temperature":
			add(petro.ColTC, pvals[j])
		case "mass":
			add("mass_total", pvals[j])
		default:
			//phase columns come suffixed by an index (liquid_0...)
			add("mass_"+strings.TrimSuffix(h, "_0"), pvals[j])
		}
	}
	lhead, lvals, err := parseMeltsTable(filepath.Join(dir, meltsLiquidTable))
	if err != nil {
		return Error{ErrNoResults, MELTS, fmt.Sprintf("%s row %d", O.inputname, i), err.Error(), []string{"parseRow"}, true}
	}
	for j, h := range lhead {
		if h == "Pressure" || h == "Temperature" || h == "mass" {
			continue
		}
		add(h+petro.LiqSuffix, lvals[j])
	}
	return nil
}

//parseMeltsTable reads an alphaMELTS output table: lines are skipped
//until one starting with "Pressure", which is the header; the next
//non-empty line holds the values.
func parseMeltsTable(path string) ([]string, []float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	var header []string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if header == nil {
			if fields[0] == "Pressure" {
				header = fields
			}
			continue
		}
		if len(fields) != len(header) {
			return nil, nil, fmt.Errorf("table %s: %d values for %d columns", path, len(fields), len(header))
		}
		vals := make([]float64, len(fields))
		for j, v := range fields {
			vals[j], err = strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, nil, fmt.Errorf("table %s: bad value %q", path, v)
			}
		}
		return header, vals, nil
	}
	return nil, nil, fmt.Errorf("table %s: no data found", path)
}

func (O *MeltsHandle) cleanup() {
	if O.keep {
		return
	}
	for i := 0; i < O.rows; i++ {
		os.RemoveAll(O.rowDir(i))
	}
	os.Remove(O.envfile)
}

//Same helper as everywhere else.
func isInString(container []string, test string) bool {
	for _, i := range container {
		if test == i {
			return true
		}
	}
	return false
}
