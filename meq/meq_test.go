/*
 * meq_test.go, part of goPetro.
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
	"os"
	"path/filepath"
	"strings"
	"testing"

	petro "gopetro"
)

//the one-row frame of the end-to-end scenario: E1/C1 at 1.0 GPa, 1200 C,
//logfO2 -8, full oxide suite, ferric fraction already attached.
func oneRowFrame() *petro.Frame {
	oxides := map[string]float64{"SiO2": 51.2, "TiO2": 0.93, "Al2O3": 17.5, "Cr2O3": 0.04,
		"FeOt": 8.61, "MnO": 0.17, "MgO": 6.95, "CaO": 11.2, "Na2O": 2.9, "K2O": 0.31,
		"P2O5": 0.11, "H2O": 1.2}
	names := []string{petro.ColTC, petro.ColPGPa, petro.ColLogfO2, petro.ColFe3Fet}
	for ox := range oxides {
		names = append(names, ox+petro.LiqSuffix)
	}
	F := petro.NewFrame(1, names)
	F.SetFloat(0, petro.ColTC, 1200)
	F.SetFloat(0, petro.ColPGPa, 1.0)
	F.SetFloat(0, petro.ColLogfO2, -8)
	F.SetFloat(0, petro.ColFe3Fet, 0.21)
	for ox, v := range oxides {
		F.SetFloat(0, ox+petro.LiqSuffix, v)
	}
	F.SetLabel(petro.Experiment, []string{"E1"})
	F.SetLabel(petro.Citation, []string{"C1"})
	return F
}

func TestModelRegistry(Te *testing.T) {
	for _, m := range DefaultModels {
		if !IsModel(m) {
			Te.Errorf("default model %s not registered", m)
		}
	}
	if IsModel("MELTSv9.9.9") {
		Te.Error("registry accepted a made-up model")
	}
	if _, err := NewHandle("rhyolite-MELTS", nil); err == nil {
		Te.Error("NewHandle accepted an unknown model identifier")
	}
	e, err := Engine("Weller2024")
	if err != nil {
		Te.Error(err)
	}
	if e != MAGEMin {
		Te.Errorf("Weller2024 resolved to engine %s", e)
	}
}

//TestMeltsBuildInput prepares an alphaMELTS input for the one-row frame
//and checks the files it writes, the way one checks inputs for programs
//one can't run in a test.
func TestMeltsBuildInput(Te *testing.T) {
	dir := Te.TempDir()
	Q := new(Calc)
	Q.SetDefaults()
	Q.Capture = "" //no engine runs in this test, so nothing to capture
	O := NewMeltsHandle("1.2.0")
	O.SetName("MELTSv1.2.0")
	O.SetWorkDir(dir)
	F := oneRowFrame()
	if err := O.BuildInput(F, Q); err != nil {
		Te.Fatal(err)
	}
	melts, err := os.ReadFile(filepath.Join(dir, "MELTSv1.2.0_row0", "MELTSv1.2.0.melts"))
	if err != nil {
		Te.Fatal(err)
	}
	s := string(melts)
	fmt.Println(s)
	if !strings.Contains(s, "Title: E1 (C1)") {
		Te.Error("melts file missing the run title")
	}
	//iron must arrive split, never as a total
	if strings.Contains(s, "FeOt") {
		Te.Error("melts file contains FeOt; the engine wants FeO/Fe2O3")
	}
	if !strings.Contains(s, "Initial Composition: FeO ") || !strings.Contains(s, "Initial Composition: Fe2O3 ") {
		Te.Error("melts file missing the FeO/Fe2O3 split")
	}
	//1.0 GPa is 10000 bar
	if !strings.Contains(s, "Initial Pressure: 10000.00") {
		Te.Error("pressure not converted to bar")
	}
	if !strings.Contains(s, "Initial Temperature: 1200.00") {
		Te.Error("temperature wrong in melts file")
	}
	env, err := os.ReadFile(filepath.Join(dir, "MELTSv1.2.0_env.txt"))
	if err != nil {
		Te.Fatal(err)
	}
	if !strings.Contains(string(env), "ALPHAMELTS_MELTS_VERSION 1.2.0") {
		Te.Error("settings file does not select version 1.2.0")
	}
}

//a frame without the ferric column must be refused before anything runs.
func TestMeltsBuildInputNoFerric(Te *testing.T) {
	F := petro.NewFrame(1, []string{petro.ColTC, petro.ColPGPa, petro.ColLogfO2, "SiO2" + petro.LiqSuffix})
	F.SetFloat(0, petro.ColTC, 1200)
	F.SetFloat(0, petro.ColPGPa, 1.0)
	F.SetFloat(0, petro.ColLogfO2, -8)
	F.SetFloat(0, "SiO2"+petro.LiqSuffix, 51.2)
	F.SetLabel(petro.Experiment, []string{"E1"})
	F.SetLabel(petro.Citation, []string{"C1"})
	O := NewMeltsHandle("1.2.0")
	O.SetWorkDir(Te.TempDir())
	err := O.BuildInput(F, nil)
	if err == nil {
		Te.Fatal("BuildInput accepted a frame without Fe3Fet_Liq")
	}
	if !strings.Contains(err.Error(), "Fe3Fet_Liq") {
		Te.Errorf("unhelpful error: %v", err)
	}
}

//TestMeltsResults feeds the parser hand-written engine output tables.
func TestMeltsResults(Te *testing.T) {
	dir := Te.TempDir()
	O := NewMeltsHandle("1.2.0")
	O.SetName("m")
	O.SetWorkDir(dir)
	F := oneRowFrame()
	Q := new(Calc)
	Q.SetDefaults()
	Q.Capture = ""
	Q.KeepFiles = true
	if err := O.BuildInput(F, Q); err != nil {
		Te.Fatal(err)
	}
	rowdir := filepath.Join(dir, "m_row0")
	phase := "Title: E1 (C1)\n\n" +
		"Pressure Temperature mass liquid_0 olivine_0 clinopyroxene_0\n" +
		"10000.00 1200.00 100.000000 85.23 8.10 6.67\n"
	liquid := "Title: E1 (C1)\n\n" +
		"Pressure Temperature mass SiO2 TiO2 Al2O3 FeO Fe2O3 MgO CaO Na2O K2O\n" +
		"10000.00 1200.00 85.23 52.10 1.02 18.11 6.10 1.05 5.44 10.02 3.30 0.36\n"
	if err := os.WriteFile(filepath.Join(rowdir, meltsPhaseTable), []byte(phase), 0644); err != nil {
		Te.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(rowdir, meltsLiquidTable), []byte(liquid), 0644); err != nil {
		Te.Fatal(err)
	}
	res, err := O.Results()
	if err != nil {
		Te.Fatal(err)
	}
	if res.Rows() != 1 {
		Te.Fatalf("%d result rows, want 1", res.Rows())
	}
	p, err := res.Float(0, petro.ColPGPa)
	if err != nil {
		Te.Error(err)
	}
	if p != 1.0 {
		Te.Errorf("pressure not converted back to GPa: %v", p)
	}
	ol, err := res.Float(0, "mass_olivine")
	if err != nil {
		Te.Error(err)
	}
	if ol != 8.10 {
		Te.Errorf("olivine mass: got %v, want 8.10", ol)
	}
	si, err := res.Float(0, "SiO2"+petro.LiqSuffix)
	if err != nil {
		Te.Error(err)
	}
	if si != 52.10 {
		Te.Errorf("residual liquid SiO2: got %v, want 52.10", si)
	}
}

//TestMAGEMinBuildInput checks the batch table and the generated driver.
func TestMAGEMinBuildInput(Te *testing.T) {
	dir := Te.TempDir()
	O := NewMAGEMinHandle("igad")
	O.SetName("Weller2024")
	O.SetWorkDir(dir)
	F := oneRowFrame()
	if err := O.BuildInput(F, nil); err != nil {
		Te.Fatal(err)
	}
	in, err := os.ReadFile(filepath.Join(dir, "Weller2024_input.csv"))
	if err != nil {
		Te.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(in)), "\n")
	if len(lines) != 2 {
		Te.Fatalf("input table has %d lines, want header+1", len(lines))
	}
	if !strings.HasPrefix(lines[0], "P_GPa,T_C,SiO2,") {
		Te.Errorf("unexpected input header: %s", lines[0])
	}
	if strings.Contains(lines[0], "FeOt") {
		Te.Error("input table carries FeOt; the minimizer wants FeO/Fe2O3")
	}
	drv, err := os.ReadFile(filepath.Join(dir, "Weller2024_driver.jl"))
	if err != nil {
		Te.Fatal(err)
	}
	d := string(drv)
	if !strings.Contains(d, `Initialize_MAGEMin("igad"`) {
		Te.Error("driver does not select the igad database")
	}
	if !strings.Contains(d, "multi_point_minimization") {
		Te.Error("driver missing the minimization call")
	}
	if !strings.Contains(d, `"Weller2024_results.csv"`) {
		Te.Error("driver does not write the expected results file")
	}
}

//TestMAGEMinResults round-trips a driver-shaped results file.
func TestMAGEMinResults(Te *testing.T) {
	dir := Te.TempDir()
	O := NewMAGEMinHandle("ig")
	O.SetName("Holland2018")
	O.SetWorkDir(dir)
	F := oneRowFrame()
	Q := new(Calc)
	Q.SetDefaults()
	Q.Capture = ""
	Q.KeepFiles = true
	if err := O.BuildInput(F, Q); err != nil {
		Te.Fatal(err)
	}
	results := "P_GPa,T_C,frac_liq,frac_ol,frac_cpx,G_J_mol\n" +
		"1.0,1200,0.8523,0.081,0.0667,-1.234e6\n"
	if err := os.WriteFile(filepath.Join(dir, "Holland2018_results.csv"), []byte(results), 0644); err != nil {
		Te.Fatal(err)
	}
	res, err := O.Results()
	if err != nil {
		Te.Fatal(err)
	}
	if res.Rows() != 1 {
		Te.Fatalf("%d result rows, want 1", res.Rows())
	}
	liq, err := res.Float(0, "frac_liq")
	if err != nil {
		Te.Error(err)
	}
	if liq != 0.8523 {
		Te.Errorf("liquid fraction: got %v, want 0.8523", liq)
	}
}

//a results file with the wrong number of rows must be refused.
func TestMAGEMinRowDrop(Te *testing.T) {
	dir := Te.TempDir()
	O := NewMAGEMinHandle("ig")
	O.SetName("Holland2018")
	O.SetWorkDir(dir)
	F := oneRowFrame()
	if err := O.BuildInput(F, nil); err != nil {
		Te.Fatal(err)
	}
	results := "P_GPa,T_C,frac_liq\n1.0,1200,0.85\n1.0,1200,0.85\n"
	if err := os.WriteFile(filepath.Join(dir, "Holland2018_results.csv"), []byte(results), 0644); err != nil {
		Te.Fatal(err)
	}
	if _, err := O.Results(); err == nil {
		Te.Error("Results accepted a row-count mismatch")
	}
}
