/*
 * batch_test.go, part of goPetro.
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
	"os"
	"path/filepath"
	"testing"

	petro "gopetro"
)

//fakeHandle stands in for an engine: it "equilibrates" by returning a
//fixed phase-proportion column per input row. It fails on demand, to
//exercise the abort policy.
type fakeHandle struct {
	name string
	rows int
	fail bool
}

func (F *fakeHandle) SetName(name string)   { F.name = name }
func (F *fakeHandle) SetWorkDir(dir string) {}

func (F *fakeHandle) BuildInput(f *petro.Frame, Q *Calc) error {
	F.rows = f.Rows()
	return nil
}

func (F *fakeHandle) Run(wait bool) error {
	if F.fail {
		return Error{ErrNotRunning, "fake", F.name, "told to fail", []string{"Run"}, true}
	}
	return nil
}

func (F *fakeHandle) Results() (*petro.Frame, error) {
	res := petro.NewFrame(F.rows, []string{"mass_liquid"})
	for i := 0; i < F.rows; i++ {
		res.SetFloat(i, "mass_liquid", 85.23)
	}
	return res, nil
}

//TestEquilibrateAll is the end-to-end scenario: one E1/C1 row through the
//batch for MELTSv1.2.0 must come out as exactly one row in
//MELTSv1.2.0_outputs.xlsx, with the identifiers carried verbatim next to
//the engine's phase columns.
func TestEquilibrateAll(Te *testing.T) {
	dir := Te.TempDir()
	Q := new(Calc)
	Q.SetDefaults()
	Q.OutDir = dir
	Q.Handles = func(model string, Q *Calc) (Handle, error) {
		if !IsModel(model) {
			return nil, Error{ErrUnknownModel, "", model, "", []string{"Handles"}, true}
		}
		return &fakeHandle{}, nil
	}
	F := oneRowFrame()
	M, err := EquilibrateAll(F, []string{"MELTSv1.2.0"}, Q, "runs.xlsx")
	if err != nil {
		Te.Fatal(err)
	}
	if M.Rows != 1 || len(M.Models) != 1 {
		Te.Errorf("manifest: %d rows, %d models", M.Rows, len(M.Models))
	}
	out := filepath.Join(dir, "MELTSv1.2.0_outputs.xlsx")
	res, err := petro.ReadSheet(out)
	if err != nil {
		Te.Fatal(err)
	}
	if res.Rows() != 1 {
		Te.Fatalf("%d output rows, want 1", res.Rows())
	}
	exp, err := res.Label(petro.Experiment)
	if err != nil {
		Te.Fatal("output missing the Experiment column")
	}
	cit, err := res.Label(petro.Citation)
	if err != nil {
		Te.Fatal("output missing the Citation column")
	}
	if exp[0] != "E1" || cit[0] != "C1" {
		Te.Errorf("identifiers not copied: %q, %q", exp[0], cit[0])
	}
	if !res.HasCol("mass_liquid") {
		Te.Error("output missing the engine's phase column")
	}
	//and the manifest must be on disk too
	b, err := os.ReadFile(filepath.Join(dir, "manifest.json"))
	if err != nil {
		Te.Fatal(err)
	}
	var M2 Manifest
	if err := json.Unmarshal(b, &M2); err != nil {
		Te.Fatal(err)
	}
	if M2.RunID != M.RunID || M2.Models[0].Output != "MELTSv1.2.0_outputs.xlsx" {
		Te.Errorf("manifest did not roundtrip: %+v", M2)
	}
}

//an unknown model must abort before any engine runs or file is written.
func TestEquilibrateAllUnknownModel(Te *testing.T) {
	dir := Te.TempDir()
	Q := new(Calc)
	Q.SetDefaults()
	Q.OutDir = dir
	Q.Handles = func(model string, Q *Calc) (Handle, error) {
		if !IsModel(model) {
			return nil, Error{ErrUnknownModel, "", model, "", []string{"Handles"}, true}
		}
		return &fakeHandle{}, nil
	}
	F := oneRowFrame()
	_, err := EquilibrateAll(F, []string{"MELTSv1.2.0", "NotAModel"}, Q, "")
	if err == nil {
		Te.Fatal("batch accepted an unknown model")
	}
	if files, _ := os.ReadDir(dir); len(files) != 0 {
		Te.Error("files written despite the early abort")
	}
}

//a failing model aborts the batch, but earlier outputs stay on disk.
func TestEquilibrateAllAbort(Te *testing.T) {
	dir := Te.TempDir()
	Q := new(Calc)
	Q.SetDefaults()
	Q.OutDir = dir
	Q.Handles = func(model string, Q *Calc) (Handle, error) {
		return &fakeHandle{fail: model == "Holland2018"}, nil
	}
	F := oneRowFrame()
	_, err := EquilibrateAll(F, []string{"MELTSv1.2.0", "Holland2018", "Weller2024"}, Q, "")
	if err == nil {
		Te.Fatal("batch did not propagate the engine failure")
	}
	if _, err := os.Stat(filepath.Join(dir, "MELTSv1.2.0_outputs.xlsx")); err != nil {
		Te.Error("output of the model that ran before the failure is gone")
	}
	if _, err := os.Stat(filepath.Join(dir, "Weller2024_outputs.xlsx")); err == nil {
		Te.Error("output exists for a model after the failure; the batch should have stopped")
	}
	if _, err := os.Stat(filepath.Join(dir, "manifest.json")); err == nil {
		Te.Error("manifest written for an aborted batch")
	}
}

//an empty frame writes header-only sheets and a zero-row manifest.
func TestEquilibrateAllEmpty(Te *testing.T) {
	dir := Te.TempDir()
	Q := new(Calc)
	Q.SetDefaults()
	Q.OutDir = dir
	Q.Handles = func(model string, Q *Calc) (Handle, error) { return &fakeHandle{}, nil }
	F := petro.NewFrame(0, nil)
	F.SetLabel(petro.Experiment, nil)
	F.SetLabel(petro.Citation, nil)
	M, err := EquilibrateAll(F, []string{"MELTSv1.2.0"}, Q, "")
	if err != nil {
		Te.Fatal(err)
	}
	if M.Rows != 0 {
		Te.Errorf("manifest records %d rows, want 0", M.Rows)
	}
	res, err := petro.ReadSheet(filepath.Join(dir, "MELTSv1.2.0_outputs.xlsx"))
	if err != nil {
		Te.Fatal(err)
	}
	if res.Rows() != 0 {
		Te.Errorf("%d rows in the header-only sheet", res.Rows())
	}
}
