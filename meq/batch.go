/*
 * batch.go, part of goPetro.
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
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	petro "gopetro"
)

// Manifest records what a batch did: which input, which models, how many
// rows, and where each model's output went. It is written as
// manifest.json next to the output files.
type Manifest struct {
	RunID   string     `json:"run_id"`
	Input   string     `json:"input,omitempty"`
	Created time.Time  `json:"created"`
	Rows    int        `json:"rows"`
	Models  []ModelRun `json:"models"`
}

// ModelRun is the per-model entry of a Manifest.
type ModelRun struct {
	Model   string  `json:"model"`
	Engine  string  `json:"engine"`
	Output  string  `json:"output"`
	Rows    int     `json:"rows"`
	Seconds float64 `json:"seconds"`
}

// Write writes the manifest as JSON to the given directory, as
// manifest.json.
func (M *Manifest) Write(dir string) error {
	b, err := json.MarshalIndent(M, "", "  ")
	if err != nil {
		return Error{"Can't marshal manifest", "", M.RunID, err.Error(), []string{"Manifest.Write"}, false}
	}
	if err := os.WriteFile(filepath.Join(dir, "manifest.json"), b, 0644); err != nil {
		return Error{"Can't write manifest", "", M.RunID, err.Error(), []string{"Manifest.Write"}, false}
	}
	return nil
}

// EquilibrateAll runs every named model over the frame, strictly in
// sequence, writing one spreadsheet per model (<model><Suffix> in
// Q.OutDir) that carries the engine's result columns plus the frame's
// identifier columns, copied verbatim. Unknown model identifiers are
// rejected before any engine starts. A model failure aborts the batch
// with a decorated error and no retry; the files of the models that
// already ran stay on disk. On success the manifest is also written to
// Q.OutDir, and returned.
//
// Input is the name recorded in the manifest for provenance; it is not
// read here, the frame is the data.
func EquilibrateAll(f *petro.Frame, modelNames []string, Q *Calc, input string) (*Manifest, error) {
	if Q == nil {
		Q = new(Calc)
		Q.SetDefaults()
	}
	if len(modelNames) == 0 {
		modelNames = DefaultModels
	}
	newHandle := Q.Handles
	if newHandle == nil {
		newHandle = NewHandle
	}
	//every model is resolved before the first engine starts, so a typo
	//in the last model doesn't cost the minutes of the first four.
	handles := make([]Handle, len(modelNames))
	for i, m := range modelNames {
		h, err := newHandle(m, Q)
		if err != nil {
			return nil, errDecorate(err, "EquilibrateAll")
		}
		handles[i] = h
	}
	if err := os.MkdirAll(Q.OutDir, 0755); err != nil {
		return nil, Error{"Can't create output directory", "", Q.OutDir, err.Error(), []string{"EquilibrateAll"}, true}
	}
	workdir := Q.WorkDir
	if workdir == "" {
		workdir = Q.OutDir
	}
	M := &Manifest{
		RunID:   uuid.NewString(),
		Input:   input,
		Created: time.Now(),
		Rows:    f.Rows(),
	}
	for i, model := range modelNames {
		h := handles[i]
		h.SetName(model)
		h.SetWorkDir(workdir)
		start := time.Now()
		res, err := equilibrateOne(f, h, Q)
		if err != nil {
			return nil, errDecorate(err, "EquilibrateAll "+model)
		}
		out := filepath.Join(Q.OutDir, model+Q.Suffix)
		if err := petro.WriteSheet(out, res); err != nil {
			return nil, errDecorate(err, "EquilibrateAll "+model)
		}
		engine, _ := Engine(model)
		M.Models = append(M.Models, ModelRun{
			Model:   model,
			Engine:  engine,
			Output:  filepath.Base(out),
			Rows:    res.Rows(),
			Seconds: time.Since(start).Seconds(),
		})
		log.Printf("meq: %s done, %d rows in %.1f s", model, res.Rows(), time.Since(start).Seconds())
	}
	if err := M.Write(Q.OutDir); err != nil {
		return nil, errDecorate(err, "EquilibrateAll")
	}
	return M, nil
}

func equilibrateOne(f *petro.Frame, h Handle, Q *Calc) (*petro.Frame, error) {
	if err := h.BuildInput(f, Q); err != nil {
		return nil, errDecorate(err, "equilibrateOne")
	}
	if err := h.Run(true); err != nil {
		return nil, errDecorate(err, "equilibrateOne")
	}
	res, err := h.Results()
	if err != nil {
		return nil, errDecorate(err, "equilibrateOne")
	}
	//no silent row drops, ever
	if res.Rows() != f.Rows() {
		return nil, Error{ErrRowsDropped, "", "", "", []string{"equilibrateOne"}, true}
	}
	if err := f.CopyLabels(res); err != nil {
		return nil, errDecorate(err, "equilibrateOne")
	}
	return res, nil
}
