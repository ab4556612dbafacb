/*
 * histo.go, part of goPetro.
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

//Package histo summarizes equilibrium results as distributions: a matrix
//of histograms, models in the rows and result quantities (phase masses,
//residual-liquid oxides) in the columns, all sharing one set of dividers
//so the models can be compared bin by bin. These are data products only;
//plotting them is somebody else's job.
package histo

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	petro "gopetro"
)

// Matrix is a models-by-quantities matrix of histograms with shared
// dividers.
type Matrix struct {
	models     []string
	quantities []string
	d          []*Data //row-major, one row per model
	dividers   []float64
}

// NewMatrix returns a matrix with one empty histogram per model and
// quantity, all using the given dividers.
func NewMatrix(models, quantities []string, dividers []float64) (*Matrix, error) {
	if len(dividers) < 2 {
		return nil, fmt.Errorf("goPetro/histo.NewMatrix: need at least 2 dividers, got %d", len(dividers))
	}
	if !sort.Float64sAreSorted(dividers) {
		return nil, fmt.Errorf("goPetro/histo.NewMatrix: dividers not sorted")
	}
	M := new(Matrix)
	M.models = append([]string{}, models...)
	M.quantities = append([]string{}, quantities...)
	M.dividers = append([]float64{}, dividers...)
	M.d = make([]*Data, len(models)*len(quantities))
	for i := range M.d {
		M.d[i] = NewData(M.dividers)
	}
	return M, nil
}

func (M *Matrix) Dims() (int, int) {
	return len(M.models), len(M.quantities)
}

func (M *Matrix) index(model, quantity string) (int, error) {
	r := -1
	for i, m := range M.models {
		if m == model {
			r = i
			break
		}
	}
	if r < 0 {
		return 0, fmt.Errorf("goPetro/histo: no model %s in matrix", model)
	}
	for j, q := range M.quantities {
		if q == quantity {
			return len(M.quantities)*r + j, nil
		}
	}
	return 0, fmt.Errorf("goPetro/histo: no quantity %s in matrix", quantity)
}

// View returns the histogram for the given model and quantity.
func (M *Matrix) View(model, quantity string) (*Data, error) {
	i, err := M.index(model, quantity)
	if err != nil {
		return nil, err
	}
	return M.d[i], nil
}

// AddFrame feeds a model's result frame into that model's row: for every
// quantity the frame has a column for, the non-NaN values are added.
// Quantities the frame lacks are skipped, values outside the dividers are
// dropped, as in any histogram.
func (M *Matrix) AddFrame(model string, f *petro.Frame) error {
	for _, q := range M.quantities {
		if !f.HasCol(q) {
			continue
		}
		i, err := M.index(model, q)
		if err != nil {
			return err
		}
		col, err := f.Col(q)
		if err != nil {
			return err
		}
		for _, v := range col {
			if !math.IsNaN(v) {
				M.d[i].AddData(v)
			}
		}
	}
	return nil
}

// NormalizeAll normalizes every histogram in the matrix.
func (M *Matrix) NormalizeAll() {
	for _, v := range M.d {
		v.Normalize()
	}
}

func (M *Matrix) String() string {
	t := make([]string, 0, len(M.d)+1)
	t = append(t, fmt.Sprintf("models:%v quantities:%v", M.models, M.quantities))
	for i, m := range M.models {
		for j, q := range M.quantities {
			t = append(t, fmt.Sprintf("%s/%s: %s", m, q, M.d[len(M.quantities)*i+j].String()))
		}
	}
	return strings.Join(t, "\n")
}

func (M *Matrix) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Models     []string  `json:"models"`
		Quantities []string  `json:"quantities"`
		D          []*Data   `json:"data"`
		Dividers   []float64 `json:"dividers"`
	}{
		Models:     M.models,
		Quantities: M.quantities,
		D:          M.d,
		Dividers:   M.dividers,
	})
}

func (M *Matrix) UnmarshalJSON(b []byte) error {
	var a struct {
		Models     []string  `json:"models"`
		Quantities []string  `json:"quantities"`
		D          []*Data   `json:"data"`
		Dividers   []float64 `json:"dividers"`
	}
	err := json.Unmarshal(b, &a)
	if err != nil {
		return err
	}
	if len(a.D) != len(a.Models)*len(a.Quantities) {
		return fmt.Errorf("goPetro/histo: %d histograms for %d models x %d quantities", len(a.D), len(a.Models), len(a.Quantities))
	}
	M.models = a.Models
	M.quantities = a.Quantities
	M.d = a.D
	M.dividers = a.Dividers
	return nil
}

// Data is one histogram.
type Data struct {
	normalized bool
	total      int
	dividers   []float64
	histo      []float64
}

// NewData returns an empty histogram over the given dividers.
func NewData(dividers []float64) *Data {
	D := new(Data)
	//copied, so nobody changes them from outside
	D.dividers = append([]float64{}, dividers...)
	D.histo = make([]float64, len(dividers)-1)
	return D
}

// AddData adds the given data point(s) to the histogram. Points outside
// the dividers are dropped (and still counted in the total).
func (D *Data) AddData(point ...float64) {
	norma := D.normalized
	if norma {
		D.UnNormalize()
	}
	for _, v := range point {
		for j := 0; j < len(D.dividers)-1; j++ {
			if D.dividers[j] <= v && v < D.dividers[j+1] {
				D.histo[j]++
				break
			}
		}
	}
	D.total += len(point)
	if norma {
		D.Normalize()
	}
}

// Rebin recomputes the histogram over new dividers from raw values,
// dropping values off either end, with gonum doing the binning.
func (D *Data) Rebin(dividers, rawdata []float64) {
	sort.Float64s(rawdata)
	//stat.Histogram panics on out-of-range values instead of omitting
	//them, so they go before the call.
	maxi := sort.SearchFloat64s(rawdata, dividers[len(dividers)-1])
	mini := sort.SearchFloat64s(rawdata, dividers[0])
	rawdata = rawdata[mini:maxi]
	D.dividers = append([]float64{}, dividers...)
	D.total = len(rawdata)
	D.normalized = false
	D.histo = stat.Histogram(nil, dividers, rawdata, nil)
}

// Normalized returns true if the histogram is normalized.
func (D *Data) Normalized() bool {
	return D.normalized
}

// Normalize normalizes the histogram.
func (D *Data) Normalize() {
	D.normaunnorma(true)
}

// UnNormalize un-normalizes the histogram.
func (D *Data) UnNormalize() {
	D.normaunnorma(false)
}

func (D *Data) normaunnorma(normalize bool) {
	if D.total <= 0 || D.normalized == normalize {
		return
	}
	n := float64(D.total)
	if normalize {
		n = 1 / n
	}
	D.normalized = normalize
	floats.Scale(n, D.histo)
}

// Total returns the number of data points fed to the histogram,
// including dropped out-of-range ones.
func (D *Data) Total() int {
	return D.total
}

// Sum returns the sum over the bins.
func (D *Data) Sum() float64 {
	return floats.Sum(D.histo)
}

// View returns the bins themselves, not a copy.
func (D *Data) View() []float64 {
	return D.histo
}

// CopyDividers copies the dividers of the histogram. The dst slice, if
// given and large enough, is used to avoid the allocation.
func (D *Data) CopyDividers(dst ...[]float64) []float64 {
	var d []float64
	if len(dst) > 0 && len(dst[0]) >= len(D.dividers) {
		d = dst[0][:len(D.dividers)]
	} else {
		d = make([]float64, len(D.dividers))
	}
	return floats.ScaleTo(d, 1, D.dividers)
}

func (D *Data) String() string {
	ret := fmt.Sprintf("Normalized: %v, TotalData: %d\n", D.normalized, D.total)
	d := make([]string, 0, len(D.histo))
	h := make([]string, 0, len(D.histo))
	for i, v := range D.histo {
		d = append(d, fmt.Sprintf("%4.2f-%4.2f", D.dividers[i], D.dividers[i+1]))
		h = append(h, fmt.Sprintf("%9.3f", v))
	}
	return ret + fmt.Sprintf("%s\n%s", strings.Join(d, " "), strings.Join(h, " "))
}

func (D *Data) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Normalized bool      `json:"normalized"`
		Total      int       `json:"total"`
		Dividers   []float64 `json:"dividers"`
		Histo      []float64 `json:"histo"`
	}{
		Normalized: D.normalized,
		Total:      D.total,
		Dividers:   D.dividers,
		Histo:      D.histo,
	})
}

func (D *Data) UnmarshalJSON(b []byte) error {
	var a struct {
		Normalized bool      `json:"normalized"`
		Total      int       `json:"total"`
		Dividers   []float64 `json:"dividers"`
		Histo      []float64 `json:"histo"`
	}
	err := json.Unmarshal(b, &a)
	if err != nil {
		return err
	}
	D.normalized = a.Normalized
	D.total = a.Total
	D.dividers = a.Dividers
	D.histo = a.Histo
	return nil
}
