/*
 * histo_test.go, part of goPetro.
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

package histo

import (
	"encoding/json"
	"math"
	"testing"

	petro "gopetro"
)

func resultFrame(liq ...float64) *petro.Frame {
	F := petro.NewFrame(len(liq), []string{"mass_liquid", "SiO2" + petro.LiqSuffix})
	for i, v := range liq {
		F.SetFloat(i, "mass_liquid", v)
		F.SetFloat(i, "SiO2"+petro.LiqSuffix, 50+v/10)
	}
	return F
}

func TestMatrix(Te *testing.T) {
	models := []string{"MELTSv1.2.0", "Holland2018"}
	quantities := []string{"mass_liquid", "mass_olivine"}
	dividers := []float64{0, 25, 50, 75, 100}
	M, err := NewMatrix(models, quantities, dividers)
	if err != nil {
		Te.Fatal(err)
	}
	if err := M.AddFrame("MELTSv1.2.0", resultFrame(85.2, 61.0, 40.3)); err != nil {
		Te.Fatal(err)
	}
	if err := M.AddFrame("Holland2018", resultFrame(91.0)); err != nil {
		Te.Fatal(err)
	}
	D, err := M.View("MELTSv1.2.0", "mass_liquid")
	if err != nil {
		Te.Fatal(err)
	}
	if D.Total() != 3 {
		Te.Errorf("%d points in the MELTS liquid histogram, want 3", D.Total())
	}
	//85.2 and 61.0 land in [75,100) and [50,75), 40.3 in [25,50)
	bins := D.View()
	if bins[1] != 1 || bins[2] != 1 || bins[3] != 1 {
		Te.Errorf("unexpected binning: %v", bins)
	}
	//the frame has no olivine column, so that histogram stays empty
	ol, _ := M.View("MELTSv1.2.0", "mass_olivine")
	if ol.Total() != 0 {
		Te.Error("olivine histogram fed from a frame without the column")
	}
	if _, err := M.View("pMELTS", "mass_liquid"); err == nil {
		Te.Error("View accepted a model not in the matrix")
	}
}

func TestNormalize(Te *testing.T) {
	D := NewData([]float64{0, 50, 100})
	D.AddData(10, 20, 80, 90)
	D.Normalize()
	if math.Abs(D.Sum()-1) > 1e-12 {
		Te.Errorf("normalized sum: %v", D.Sum())
	}
	//normalizing twice must be a no-op
	D.Normalize()
	if math.Abs(D.Sum()-1) > 1e-12 {
		Te.Errorf("double normalize broke the histogram: %v", D.Sum())
	}
	D.UnNormalize()
	if D.Sum() != 4 {
		Te.Errorf("unnormalized sum: %v", D.Sum())
	}
	//adding to a normalized histogram keeps it normalized
	D.Normalize()
	D.AddData(55)
	if !D.Normalized() || math.Abs(D.Sum()-1) > 1e-12 {
		Te.Errorf("AddData lost the normalization: %v", D.Sum())
	}
}

func TestMatrixJSON(Te *testing.T) {
	M, err := NewMatrix([]string{"Weller2024"}, []string{"mass_liquid"}, []float64{0, 50, 100})
	if err != nil {
		Te.Fatal(err)
	}
	M.AddFrame("Weller2024", resultFrame(85.2, 30.0))
	b, err := json.Marshal(M)
	if err != nil {
		Te.Fatal(err)
	}
	var M2 Matrix
	if err := json.Unmarshal(b, &M2); err != nil {
		Te.Fatal(err)
	}
	a, _ := M.View("Weller2024", "mass_liquid")
	c, err := M2.View("Weller2024", "mass_liquid")
	if err != nil {
		Te.Fatal(err)
	}
	if a.Total() != c.Total() || a.Sum() != c.Sum() {
		Te.Error("matrix did not roundtrip through JSON")
	}
}

func TestRebin(Te *testing.T) {
	D := NewData([]float64{0, 10})
	D.Rebin([]float64{0, 25, 50, 75, 100}, []float64{85.2, 61.0, 40.3, 150.0, -3.0})
	//the two out-of-range values are dropped
	if D.Total() != 3 {
		Te.Errorf("%d points after rebin, want 3", D.Total())
	}
	if D.Sum() != 3 {
		Te.Errorf("bin sum %v after rebin, want 3", D.Sum())
	}
}
