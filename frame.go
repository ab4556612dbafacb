/*
 * frame.go, part of goPetro.
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
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Frame is the experiment table: one row per experimental run. Numeric
// columns are named views into a gonum Dense block; identifier columns
// (Experiment, Citation) are kept as string slices alongside. A missing
// numeric value is NaN until an explicit fill policy is applied.
type Frame struct {
	names      []string //numeric column names, in column order
	data       *mat.Dense
	labelNames []string
	labels     map[string][]string
	rows       int
}

// NewFrame returns a rows-sized frame with the given numeric columns, all
// cells set to NaN, and no label columns.
func NewFrame(rows int, numeric []string) *Frame {
	F := new(Frame)
	F.rows = rows
	F.names = make([]string, len(numeric))
	copy(F.names, numeric)
	F.labels = make(map[string][]string)
	if len(numeric) > 0 {
		//gonum panics on zero-sized matrices, so an empty frame still
		//gets a one-row block; F.rows bounds every access.
		d := make([]float64, maxInt(rows, 1)*len(numeric))
		for i := range d {
			d[i] = math.NaN()
		}
		F.data = mat.NewDense(maxInt(rows, 1), len(numeric), d)
	}
	return F
}

// Rows returns the number of rows in the frame.
func (F *Frame) Rows() int {
	return F.rows
}

// Names returns a copy of the numeric column names, in column order.
func (F *Frame) Names() []string {
	r := make([]string, len(F.names))
	copy(r, F.names)
	return r
}

// LabelNames returns a copy of the label column names, in column order.
func (F *Frame) LabelNames() []string {
	r := make([]string, len(F.labelNames))
	copy(r, F.labelNames)
	return r
}

// HasCol reports whether the frame has a numeric column with that name.
func (F *Frame) HasCol(name string) bool {
	return F.colIndex(name) >= 0
}

// HasLabel reports whether the frame has a label column with that name.
func (F *Frame) HasLabel(name string) bool {
	_, ok := F.labels[name]
	return ok
}

func (F *Frame) colIndex(name string) int {
	for i, v := range F.names {
		if v == name {
			return i
		}
	}
	return -1
}

// Col returns a copy of the named numeric column. The dst slice, if given
// and large enough, is used to avoid the allocation.
func (F *Frame) Col(name string, dst ...[]float64) ([]float64, error) {
	j := F.colIndex(name)
	if j < 0 {
		return nil, newPError("Col: no column %s in frame", name)
	}
	var d []float64
	if len(dst) > 0 && len(dst[0]) >= F.rows {
		d = dst[0][:F.rows]
	} else {
		d = make([]float64, F.rows)
	}
	for i := 0; i < F.rows; i++ {
		d[i] = F.data.At(i, j)
	}
	return d, nil
}

// Float returns the value at row i of the named numeric column.
func (F *Frame) Float(i int, name string) (float64, error) {
	j := F.colIndex(name)
	if j < 0 {
		return 0, newPError("Float: no column %s in frame", name)
	}
	if i < 0 || i >= F.rows {
		return 0, newPError("Float: row %d out of range (%d rows)", i, F.rows)
	}
	return F.data.At(i, j), nil
}

// SetFloat sets the value at row i of the named numeric column.
func (F *Frame) SetFloat(i int, name string, v float64) error {
	j := F.colIndex(name)
	if j < 0 {
		return newPError("SetFloat: no column %s in frame", name)
	}
	if i < 0 || i >= F.rows {
		return newPError("SetFloat: row %d out of range (%d rows)", i, F.rows)
	}
	F.data.Set(i, j, v)
	return nil
}

// SetCol overwrites the named numeric column with vals, which must match
// the frame's row count.
func (F *Frame) SetCol(name string, vals []float64) error {
	j := F.colIndex(name)
	if j < 0 {
		return newPError("SetCol: no column %s in frame", name)
	}
	if len(vals) != F.rows {
		return newPError("SetCol: %d values given for %d rows", len(vals), F.rows)
	}
	for i, v := range vals {
		F.data.Set(i, j, v)
	}
	return nil
}

// AddCol appends a new numeric column with the given values, which must
// match the frame's row count.
func (F *Frame) AddCol(name string, vals []float64) error {
	if F.colIndex(name) >= 0 {
		return newPError("AddCol: column %s already in frame", name)
	}
	if len(vals) != F.rows {
		return newPError("AddCol: %d values given for %d rows", len(vals), F.rows)
	}
	old := F.data
	F.names = append(F.names, name)
	F.data = mat.NewDense(maxInt(F.rows, 1), len(F.names), nil)
	if old != nil {
		r, c := old.Dims()
		F.data.Slice(0, maxInt(r, 1), 0, c).(*mat.Dense).Copy(old)
	}
	if F.rows > 0 {
		F.data.SetCol(len(F.names)-1, vals)
	}
	return nil
}

// Label returns a copy of the named label column.
func (F *Frame) Label(name string) ([]string, error) {
	l, ok := F.labels[name]
	if !ok {
		return nil, newPError("Label: no label column %s in frame", name)
	}
	r := make([]string, len(l))
	copy(r, l)
	return r, nil
}

// SetLabel sets (or adds) a label column. Vals must match the row count.
func (F *Frame) SetLabel(name string, vals []string) error {
	if len(vals) != F.rows {
		return newPError("SetLabel: %d values given for %d rows", len(vals), F.rows)
	}
	if _, ok := F.labels[name]; !ok {
		F.labelNames = append(F.labelNames, name)
	}
	v := make([]string, len(vals))
	copy(v, vals)
	F.labels[name] = v
	return nil
}

// CopyLabels copies every label column of F into dst, verbatim, row for
// row. The identifier columns of an engine result frame come from here,
// never from the engine. Errors if the row counts differ.
func (F *Frame) CopyLabels(dst *Frame) error {
	if dst.rows != F.rows {
		return newPError("CopyLabels: source has %d rows, destination %d", F.rows, dst.rows)
	}
	for _, name := range F.labelNames {
		if err := dst.SetLabel(name, F.labels[name]); err != nil {
			return errDecorate(err, "CopyLabels")
		}
	}
	return nil
}

// Composition returns the liquid bulk composition of row i, in oxide wt%
// keyed by bare oxide name. NaN cells are skipped, so an unfilled oxide
// is simply absent from the returned map.
func (F *Frame) Composition(i int) (Composition, error) {
	if i < 0 || i >= F.rows {
		return nil, newPError("Composition: row %d out of range (%d rows)", i, F.rows)
	}
	C := make(Composition)
	for j, name := range F.names {
		if !IsOxideColumn(name) {
			continue
		}
		v := F.data.At(i, j)
		if math.IsNaN(v) {
			continue
		}
		C[strings.TrimSuffix(name, LiqSuffix)] = v
	}
	return C, nil
}

// ZeroMissingOxides replaces NaN with 0 in the oxide columns only, and
// returns the number of cells filled. "Not measured" conventionally means
// "below detection" for an oxide, so zero is a defensible default there.
// It is not one for temperature, pressure, fO2 or an identifier: those
// stay NaN/empty and are caught by CheckRuns instead.
func (F *Frame) ZeroMissingOxides() int {
	n := 0
	for j, name := range F.names {
		if !IsOxideColumn(name) {
			continue
		}
		for i := 0; i < F.rows; i++ {
			if math.IsNaN(F.data.At(i, j)) {
				F.data.Set(i, j, 0)
				n++
			}
		}
	}
	return n
}

// CheckRuns verifies that every row can be fed to an engine: no NaN in
// the condition columns (T_C, P_GPa, logfO2) and no empty identifier.
// It returns an error naming every offending row and column, or nil.
func (F *Frame) CheckRuns() error {
	var bad []string
	for _, name := range RunColumns {
		j := F.colIndex(name)
		if j < 0 {
			bad = append(bad, fmt.Sprintf("column %s missing", name))
			continue
		}
		for i := 0; i < F.rows; i++ {
			if math.IsNaN(F.data.At(i, j)) {
				bad = append(bad, fmt.Sprintf("row %d: %s missing", i, name))
			}
		}
	}
	for _, name := range LabelColumns {
		l, ok := F.labels[name]
		if !ok {
			bad = append(bad, fmt.Sprintf("label column %s missing", name))
			continue
		}
		for i, v := range l {
			if strings.TrimSpace(v) == "" {
				bad = append(bad, fmt.Sprintf("row %d: empty %s", i, name))
			}
		}
	}
	if bad != nil {
		return newPError("CheckRuns: %s", strings.Join(bad, "; "))
	}
	return nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
