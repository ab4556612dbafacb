/*
 * magemin.go, part of goPetro.
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
//In order to use this part of the library you need a Julia runtime with
//the MAGEMin_C package installed; the minimizer itself is reached through
//that bridge. Please cite the MAGEMin references if you use it.

package meq

import (
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	petro "gopetro"
	"gopetro/runlog"
)

//the oxide order MAGEMin's igneous databases expect, iron already split.
var mageminOxides = []string{"SiO2", "Al2O3", "CaO", "MgO", "FeO", "Fe2O3", "K2O", "Na2O", "TiO2", "Cr2O3", "MnO", "H2O"}

// MAGEMinHandle drives the MAGEMin Gibbs-energy minimizer through its
// Julia bridge: BuildInput writes the batch input table plus a generated
// driver script selecting the thermodynamic database, Run hands the
// driver to the Julia runtime, Results reads the CSV the driver emits.
// Unlike alphaMELTS this is one process for the whole batch; the driver
// itself minimizes the rows in order.
type MAGEMinHandle struct {
	command   string //the julia executable
	inputname string
	workdir   string
	db        string //ig, igad or mb
	rows      int
	capture   string
	keep      bool
	done      chan error
}

// NewMAGEMinHandle returns a handle for the given thermodynamic database.
func NewMAGEMinHandle(db string) *MAGEMinHandle {
	O := new(MAGEMinHandle)
	O.SetDefaults()
	O.db = db
	return O
}

//MAGEMinHandle methods

func (O *MAGEMinHandle) Command() string {
	return O.command
}

func (O *MAGEMinHandle) SetCommand(name string) {
	O.command = name
}

func (O *MAGEMinHandle) SetName(name string) {
	O.inputname = name
}

func (O *MAGEMinHandle) SetWorkDir(dir string) {
	O.workdir = dir
}

// SetDefaults sets the command to "julia" (expected in PATH), the work
// directory to the current one and the database to "ig". The defaults
// are not part of the API and may change.
func (O *MAGEMinHandle) SetDefaults() {
	O.command = "julia"
	O.workdir = "."
	O.db = "ig"
}

func (O *MAGEMinHandle) inputFile() string {
	return filepath.Join(O.workdir, O.inputname+"_input.csv")
}

func (O *MAGEMinHandle) driverFile() string {
	return filepath.Join(O.workdir, O.inputname+"_driver.jl")
}

func (O *MAGEMinHandle) resultsFile() string {
	return filepath.Join(O.workdir, O.inputname+"_results.csv")
}

// BuildInput writes the batch input table (pressure in GPa, temperature
// in Celsius, composition in wt% with iron split from Fe3Fet_Liq) and the
// Julia driver for the handle's database.
func (O *MAGEMinHandle) BuildInput(f *petro.Frame, Q *Calc) error {
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
		return Error{ErrCantInput, MAGEMin, O.inputname, err.Error(), []string{"BuildInput"}, true}
	}
	if !f.HasCol(petro.ColFe3Fet) {
		return Error{ErrMissingFerric, MAGEMin, O.inputname, "", []string{"BuildInput"}, true}
	}
	if err := O.writeInputCSV(f); err != nil {
		return errDecorate(err, "BuildInput")
	}
	if err := O.writeDriver(); err != nil {
		return errDecorate(err, "BuildInput")
	}
	return nil
}

func (O *MAGEMinHandle) writeInputCSV(f *petro.Frame) error {
	file, err := os.Create(O.inputFile())
	if err != nil {
		return Error{ErrCantInput, MAGEMin, O.inputname, err.Error(), []string{"writeInputCSV"}, true}
	}
	defer file.Close()
	fmt.Fprintf(file, "%s,%s,%s\n", petro.ColPGPa, petro.ColTC, strings.Join(mageminOxides, ","))
	for i := 0; i < O.rows; i++ {
		comp, err := f.Composition(i)
		if err != nil {
			return Error{ErrCantInput, MAGEMin, O.inputname, err.Error(), []string{"writeInputCSV"}, true}
		}
		fe3, _ := f.Float(i, petro.ColFe3Fet)
		split, err := comp.SplitIron(fe3)
		if err != nil {
			return Error{ErrCantInput, MAGEMin, O.inputname, err.Error(), []string{"writeInputCSV"}, true}
		}
		tc, _ := f.Float(i, petro.ColTC)
		pgpa, _ := f.Float(i, petro.ColPGPa)
		fields := []string{
			fmt.Sprintf("%g", pgpa),
			fmt.Sprintf("%g", tc),
		}
		for _, ox := range mageminOxides {
			v := split[ox]
			if math.IsNaN(v) {
				v = 0
			}
			fields = append(fields, fmt.Sprintf("%.6f", v))
		}
		fmt.Fprintln(file, strings.Join(fields, ","))
	}
	return nil
}

//The generated driver: read the input table, minimize every row against
//the selected database, write one wide CSV with the stable-phase
//fractions (union over rows; a phase absent from a row gets 0) and the
//system Gibbs energy.
func (O *MAGEMinHandle) writeDriver() error {
	d, err := os.Create(O.driverFile())
	if err != nil {
		return Error{ErrCantInput, MAGEMin, O.inputname, err.Error(), []string{"writeDriver"}, true}
	}
	defer d.Close()
	fmt.Fprintf(d, `# generated by goPetro, do not edit
using MAGEMin_C
using DelimitedFiles

raw, head = readdlm(%q, ',', Float64; header=true)
head = vec(String.(head))
Pkbar = raw[:, 1] .* 10.0
T = raw[:, 2]
Xoxides = head[3:end]
X = [collect(raw[i, 3:end]) for i in 1:size(raw, 1)]

data = Initialize_MAGEMin(%q, verbose=false)
out = multi_point_minimization(Pkbar, T, data, X=X, Xoxides=Xoxides, sys_in="wt")
Finalize_MAGEMin(data)

phases = String[]
for o in out, ph in o.ph
    ph in phases || push!(phases, ph)
end
open(%q, "w") do io
    println(io, join(vcat(["P_GPa", "T_C"], "frac_" .* phases, ["G_J_mol"]), ","))
    for (i, o) in enumerate(out)
        fr = [(j = findfirst(==(ph), o.ph); j === nothing ? 0.0 : o.ph_frac[j]) for ph in phases]
        println(io, join(vcat([raw[i, 1], T[i]], fr, [o.G_system]), ","))
    end
end
`, filepath.Base(O.inputFile()), O.db, filepath.Base(O.resultsFile()))
	return nil
}

// Run hands the generated driver to the Julia runtime. It waits or not
// for completion depending on wait; if it didn't wait, Results will.
func (O *MAGEMinHandle) Run(wait bool) error {
	if !wait {
		O.done = make(chan error, 1)
		go func() { O.done <- O.runJulia() }()
		return nil
	}
	return O.runJulia()
}

func (O *MAGEMinHandle) runJulia() error {
	if O.rows == 0 {
		return nil
	}
	cmd := exec.Command(O.command, filepath.Base(O.driverFile()))
	cmd.Dir = O.workdir
	var W *runlog.Writer
	if O.capture != "" {
		var err error
		W, err = runlog.NewWriter(filepath.Join(O.workdir, O.inputname+O.capture))
		if err != nil {
			return errDecorate(err, "runJulia")
		}
		W.Banner("%s %s, %d rows", MAGEMin, O.db, O.rows)
		W.Attach(cmd)
	}
	err := cmd.Run()
	W.Close()
	if err != nil {
		return Error{ErrNotRunning, MAGEMin, O.inputname, err.Error() + ", command: " + O.command, []string{"exec.Run", "runJulia"}, true}
	}
	return nil
}

// Results reads the CSV the driver emitted into a frame, one row per
// input row.
func (O *MAGEMinHandle) Results() (*petro.Frame, error) {
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
	F, err := petro.ReadSheet(O.resultsFile())
	if err != nil {
		return nil, Error{ErrNoResults, MAGEMin, O.inputname, err.Error(), []string{"Results"}, true}
	}
	if F.Rows() != O.rows {
		return nil, Error{ErrRowsDropped, MAGEMin, O.inputname, fmt.Sprintf("%d rows in, %d out", O.rows, F.Rows()), []string{"Results"}, true}
	}
	O.cleanup()
	return F, nil
}

func (O *MAGEMinHandle) cleanup() {
	if O.keep {
		return
	}
	os.Remove(O.inputFile())
	os.Remove(O.driverFile())
	os.Remove(O.resultsFile())
}
