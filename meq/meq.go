/*
 * meq.go, part of goPetro.
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

package meq

import (
	"fmt"
	"sort"

	petro "gopetro"
)

//This allows to run equilibrium calculations with the different external
//engines behind one interface, so the per-model loop doesn't care which
//program does the thermodynamics.

// Handle is the common face of the external equilibration engines. A
// Handle is good for one batch: BuildInput prepares one engine input per
// experimental run, Run executes them strictly in row order, Results
// recovers the combined output table.
type Handle interface {

	//Sets the name for the job, used to name input, work and
	//output files.
	SetName(name string)

	//Sets the directory where input and scratch files go.
	SetWorkDir(dir string)

	//BuildInput builds the engine inputs for every row of f,
	//according to the options in Q. The frame must carry the
	//Fe3Fet_Liq column; the engines get iron as FeO/Fe2O3, never
	//as a total.
	BuildInput(f *petro.Frame, Q *Calc) error

	//Run runs the engine over the prepared inputs, row by row.
	//It waits or not for completion depending on wait; if it
	//didn't wait, Results will.
	Run(wait bool) error

	//Results parses the engine output into one frame with exactly
	//one row per input row. It returns an error if the engine did
	//not produce output for some row.
	Results() (*petro.Frame, error)
}

// Calc holds the options for a batch of equilibrium calculations. The
// zero value is not usable; call SetDefaults first.
type Calc struct {
	//Output file suffix; the per-model file is <model><Suffix>.
	Suffix string
	//Console capture suffix for the engines' stdout/stderr, e.g.
	//"_console.zst". The extension picks the compressor (see
	//gopetro/runlog). Empty means the output is discarded.
	Capture string
	//Keep the engine input and scratch files after a successful run.
	KeepFiles bool
	//Directory for per-model output files and the manifest.
	OutDir string
	//Directory for engine input and scratch files. Empty means OutDir.
	WorkDir string
	//Command for the melt-thermodynamics console program.
	MeltsCommand string
	//Command for the Julia runtime that bridges to the Gibbs minimizer.
	JuliaCommand string
	//Handles overrides the engine lookup, mostly for testing. Nil
	//means NewHandle.
	Handles func(model string, Q *Calc) (Handle, error)
}

// SetDefaults sets the default suffix, capture and engine commands. As
// with the engines' own defaults, these are not part of the API and may
// change.
func (Q *Calc) SetDefaults() {
	Q.Suffix = "_outputs.xlsx"
	Q.Capture = "_console.zst"
	Q.OutDir = "."
	Q.MeltsCommand = "alphamelts"
	Q.JuliaCommand = "julia"
}

//The engines.
const (
	MELTS   = "alphaMELTS"
	MAGEMin = "MAGEMin"
)

//modelInfo ties a model identifier to its engine and the engine-side
//parameter selecting it: the calculation-mode version for alphaMELTS,
//the thermodynamic database for MAGEMin.
type modelInfo struct {
	engine string
	param  string
}

var models = map[string]modelInfo{
	"MELTSv1.0.2": {MELTS, "1.0.2"},
	"MELTSv1.1.0": {MELTS, "1.1.0"},
	"MELTSv1.2.0": {MELTS, "1.2.0"},
	"pMELTS":      {MELTS, "pMELTS"},
	"Holland2018": {MAGEMin, "ig"},
	"Weller2024":  {MAGEMin, "igad"},
	"Green2025":   {MAGEMin, "mb"},
}

// DefaultModels are the five models of the study, in the order the
// published figures use them.
var DefaultModels = []string{"MELTSv1.0.2", "MELTSv1.2.0", "Holland2018", "Weller2024", "Green2025"}

// IsModel reports whether name is a known model identifier.
func IsModel(name string) bool {
	_, ok := models[name]
	return ok
}

// Models returns the known model identifiers, sorted.
func Models() []string {
	r := make([]string, 0, len(models))
	for k := range models {
		r = append(r, k)
	}
	sort.Strings(r)
	return r
}

// Engine returns the engine behind a model identifier.
func Engine(model string) (string, error) {
	m, ok := models[model]
	if !ok {
		return "", Error{ErrUnknownModel, "", model, "", []string{"Engine"}, true}
	}
	return m.engine, nil
}

// NewHandle returns a ready Handle for the given model, with the engine
// commands taken from Q. Unknown model identifiers are rejected here,
// before anything touches the disk.
func NewHandle(model string, Q *Calc) (Handle, error) {
	m, ok := models[model]
	if !ok {
		return nil, Error{ErrUnknownModel, "", model, fmt.Sprintf("known: %v", Models()), []string{"NewHandle"}, true}
	}
	switch m.engine {
	case MELTS:
		h := NewMeltsHandle(m.param)
		if Q != nil && Q.MeltsCommand != "" {
			h.SetCommand(Q.MeltsCommand)
		}
		return h, nil
	default:
		h := NewMAGEMinHandle(m.param)
		if Q != nil && Q.JuliaCommand != "" {
			h.SetCommand(Q.JuliaCommand)
		}
		return h, nil
	}
}

//Errors

// Error is the error type for the engine adapters. It implements
// petro.EngineError.
type Error struct {
	message   string
	engine    string //which engine, or empty if none applies
	inputname string
	extra     string //any additional info, e.g. the underlying error
	deco      []string
	critical  bool
}

func (err Error) Error() string {
	s := fmt.Sprintf("meq error: %s, engine: %s, input: %s", err.message, err.engine, err.inputname)
	if err.extra != "" {
		s += " (" + err.extra + ")"
	}
	return s
}

// Decorate adds new information to the error
func (E Error) Decorate(deco string) []string {
	//The receiver is not a pointer, but deco is a slice, so the append
	//reaches the caller's copy.
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

// Engine returns the engine associated to the error, if any.
func (err Error) Engine() string { return err.engine }

// InputName returns the input or model name associated to the error.
func (err Error) InputName() string { return err.inputname }

// Critical returns true if the error is critical, false otherwise
func (err Error) Critical() bool { return err.critical }

const (
	ErrUnknownModel   = "Unknown thermodynamic model"
	ErrMissingFerric  = "Frame lacks the Fe3Fet_Liq column; run the ferric conversion first"
	ErrCantInput      = "Can't build engine input"
	ErrNotRunning     = "Engine did not run"
	ErrNoResults      = "Can't recover engine results"
	ErrRowsDropped    = "Engine returned a different number of rows than it was given"
	ErrProbableProblem = "Engine output present but the run may not have ended properly"
)

//errDecorate is a helper that asserts that err implements petro.Error and
//decorates it with the caller's name before returning it. Calling it with
//anything else panics.
func errDecorate(err error, caller string) error {
	err2 := err.(petro.Error)
	err2.Decorate(caller)
	return err2
}
