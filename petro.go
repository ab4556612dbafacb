/*
 * petro.go, part of goPetro.
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

import "strings"

//Canonical column names for the experiment table. The liquid oxides carry
//the _Liq suffix; the spreadsheet readers map bare oxide names onto these.
const (
	ColTC      = "T_C"
	ColPGPa    = "P_GPa"
	ColLogfO2  = "logfO2"
	ColFe3Fet  = "Fe3Fet_Liq"
	LiqSuffix  = "_Liq"
	Experiment = "Experiment"
	Citation   = "Citation"
)

// RunColumns are the condition columns every experimental run must carry.
// A NaN in any of them means the run cannot be fed to an engine.
var RunColumns = []string{ColTC, ColPGPa, ColLogfO2}

// LabelColumns are the identifier columns carried verbatim from input to
// every per-model output.
var LabelColumns = []string{Experiment, Citation}

//aliases for condition and identifier headers seen in the source
//spreadsheets. Keys are lowercase.
var headerAlias = map[string]string{
	"t_c":        ColTC,
	"tc":         ColTC,
	"t (c)":      ColTC,
	"temp_c":     ColTC,
	"p_gpa":      ColPGPa,
	"p (gpa)":    ColPGPa,
	"logfo2":     ColLogfO2,
	"log fo2":    ColLogfO2,
	"log10fo2":   ColLogfO2,
	"fe3fet_liq": ColFe3Fet,
	"fe3fet":     ColFe3Fet,
	"fe3/fet":    ColFe3Fet,
	"experiment": Experiment,
	"citation":   Citation,
}

// CanonicalColumn maps a spreadsheet header onto the canonical column name.
// Bare oxide names (SiO2) and suffixed ones (SiO2_Liq) both map to the
// suffixed form; condition and identifier headers are matched case
// insensitively; anything unrecognized is returned trimmed but otherwise
// untouched, so engine-defined result columns pass through.
func CanonicalColumn(header string) string {
	h := strings.TrimSpace(header)
	if h == "" {
		return h
	}
	low := strings.ToLower(h)
	if c, ok := headerAlias[low]; ok {
		return c
	}
	for _, ox := range LiquidOxides {
		oxlow := strings.ToLower(ox)
		if low == oxlow || low == oxlow+strings.ToLower(LiqSuffix) {
			return ox + LiqSuffix
		}
	}
	return h
}

// IsOxideColumn reports whether name is one of the liquid oxide columns,
// in either bare or _Liq-suffixed form.
func IsOxideColumn(name string) bool {
	base := strings.TrimSuffix(name, LiqSuffix)
	for _, ox := range LiquidOxides {
		if base == ox {
			return true
		}
	}
	return false
}

// IsLabelColumn reports whether name is one of the identifier columns.
func IsLabelColumn(name string) bool {
	for _, l := range LabelColumns {
		if name == l {
			return true
		}
	}
	return false
}
