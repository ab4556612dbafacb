/*
 * oxides.go, part of goPetro.
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

package petro

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

//LiquidOxides is the oxide suite of a liquid bulk composition, in the order
//the engines and the source spreadsheets use. FeOt is total iron reported
//as FeO; the FeO/Fe2O3 split is derived from Fe3Fet_Liq when an engine
//needs it.
var LiquidOxides = []string{"SiO2", "TiO2", "Al2O3", "Cr2O3", "FeOt", "MnO", "MgO", "CaO", "Na2O", "K2O", "P2O5", "H2O", "CO2"}

//A map for assigning molar mass to oxides, in g/mol.
//FeOt uses the FeO mass, as totals are reported on an FeO basis.
var oxideMass = map[string]float64{
	"SiO2":  60.084,
	"TiO2":  79.866,
	"Al2O3": 101.961,
	"Cr2O3": 151.990,
	"FeOt":  71.844,
	"FeO":   71.844,
	"Fe2O3": 159.688,
	"MnO":   70.937,
	"MgO":   40.304,
	"CaO":   56.077,
	"Na2O":  61.979,
	"K2O":   94.196,
	"P2O5":  141.944,
	"H2O":   18.015,
	"CO2":   44.009,
}

//mass ratio for recasting FeO as Fe2O3: M(Fe2O3)/(2*M(FeO))
const feO2Fe2O3 = 159.688 / (2 * 71.844)

// OxideMass returns the molar mass of the given oxide in g/mol, or an error
// if the oxide is not in the table.
func OxideMass(oxide string) (float64, error) {
	m, ok := oxideMass[oxide]
	if !ok {
		return 0, newPError("OxideMass: unknown oxide %s", oxide)
	}
	return m, nil
}

// A Composition is a liquid bulk composition in oxide wt%, keyed by bare
// oxide name (SiO2, not SiO2_Liq). Absent oxides count as zero.
type Composition map[string]float64

// Total returns the wt% sum of the composition.
func (C Composition) Total() float64 {
	t := 0.0
	for _, v := range C {
		t += v
	}
	return t
}

// MolFractions converts the composition from oxide wt% to oxide mol
// fractions. Oxides missing from the mass table cause an error.
func (C Composition) MolFractions() (Composition, error) {
	mols := make(Composition, len(C))
	keys := make([]string, 0, len(C))
	vals := make([]float64, 0, len(C))
	for k, v := range C {
		m, ok := oxideMass[k]
		if !ok {
			return nil, newPError("MolFractions: unknown oxide %s", k)
		}
		keys = append(keys, k)
		vals = append(vals, v/m)
	}
	t := floats.Sum(vals)
	if t <= 0 {
		return nil, newPError("MolFractions: empty composition")
	}
	for i, k := range keys {
		mols[k] = vals[i] / t
	}
	return mols, nil
}

// SplitIron recasts total iron (FeOt, wt%) into separate FeO and Fe2O3 wt%
// entries from the given molar Fe3+/FeT fraction. The returned composition
// has no FeOt key. This is stoichiometric bookkeeping only; the fraction
// itself comes from an external oxybarometer calibration (see gopetro/oxy).
func (C Composition) SplitIron(fe3fet float64) (Composition, error) {
	if fe3fet < 0 || fe3fet > 1 || math.IsNaN(fe3fet) {
		return nil, newPError("SplitIron: Fe3+/FeT fraction %v out of [0,1]", fe3fet)
	}
	ret := make(Composition, len(C)+1)
	for k, v := range C {
		if k == "FeOt" {
			continue
		}
		ret[k] = v
	}
	feot := C["FeOt"]
	ret["FeO"] = feot * (1 - fe3fet)
	ret["Fe2O3"] = feot * fe3fet * feO2Fe2O3
	return ret, nil
}
