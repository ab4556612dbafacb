/*
 * files.go, part of goPetro.
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
	"encoding/csv"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

//The study's tables travel as spreadsheets, xlsx for the published
//supplementary files and csv for everything generated along the way.
//Both go through the same raw [][]string stage, so the header
//normalization and the numeric/label column split live in one place.

// ReadSheet reads a spreadsheet into a Frame, dispatching on the file
// extension: .xlsx (first sheet) or .csv. Headers are normalized with
// CanonicalColumn. A column where any non-empty cell fails to parse as a
// number becomes a label column; in numeric columns an empty cell becomes
// NaN, not zero.
func ReadSheet(path string) (*Frame, error) {
	var raw [][]string
	var err error
	switch {
	case strings.HasSuffix(strings.ToLower(path), ".xlsx"):
		raw, err = readRawXLSX(path)
	case strings.HasSuffix(strings.ToLower(path), ".csv"):
		raw, err = readRawCSV(path)
	default:
		return nil, newPError("ReadSheet: unsupported format for %s (want .xlsx or .csv)", path)
	}
	if err != nil {
		return nil, errDecorate(err, "ReadSheet "+path)
	}
	F, err := frameFromRaw(raw)
	if err != nil {
		return nil, errDecorate(err, "ReadSheet "+path)
	}
	return F, nil
}

// WriteSheet writes a Frame to a spreadsheet, dispatching on the file
// extension like ReadSheet. Label columns come first, then the numeric
// columns in frame order; NaN cells are written empty. xlsx output is a
// single sheet named "Output".
func WriteSheet(path string, F *Frame) error {
	raw := rawFromFrame(F)
	var err error
	switch {
	case strings.HasSuffix(strings.ToLower(path), ".xlsx"):
		err = writeRawXLSX(path, raw)
	case strings.HasSuffix(strings.ToLower(path), ".csv"):
		err = writeRawCSV(path, raw)
	default:
		return newPError("WriteSheet: unsupported format for %s (want .xlsx or .csv)", path)
	}
	if err != nil {
		return errDecorate(err, "WriteSheet "+path)
	}
	return nil
}

func readRawCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, newPError("readRawCSV: %s", err.Error())
	}
	defer f.Close()
	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1 //ragged rows are padded below
	raw, err := r.ReadAll()
	if err != nil {
		return nil, newPError("readRawCSV: %s", err.Error())
	}
	return raw, nil
}

func writeRawCSV(path string, raw [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return newPError("writeRawCSV: %s", err.Error())
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := w.WriteAll(raw); err != nil {
		return newPError("writeRawCSV: %s", err.Error())
	}
	w.Flush()
	return w.Error()
}

func readRawXLSX(path string) ([][]string, error) {
	x, err := excelize.OpenFile(path)
	if err != nil {
		return nil, newPError("readRawXLSX: %s", err.Error())
	}
	defer x.Close()
	sheets := x.GetSheetList()
	if len(sheets) == 0 {
		return nil, newPError("readRawXLSX: no sheets in %s", path)
	}
	raw, err := x.GetRows(sheets[0])
	if err != nil {
		return nil, newPError("readRawXLSX: %s", err.Error())
	}
	return raw, nil
}

func writeRawXLSX(path string, raw [][]string) error {
	x := excelize.NewFile()
	defer x.Close()
	const sheet = "Output"
	index, err := x.NewSheet(sheet)
	if err != nil {
		return newPError("writeRawXLSX: %s", err.Error())
	}
	x.SetActiveSheet(index)
	x.DeleteSheet("Sheet1")
	for i, row := range raw {
		for j, c := range row {
			axis, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return newPError("writeRawXLSX: %s", err.Error())
			}
			//numbers go in as numbers so the sheet stays usable
			if v, errf := strconv.ParseFloat(c, 64); errf == nil && i > 0 {
				err = x.SetCellValue(sheet, axis, v)
			} else {
				err = x.SetCellValue(sheet, axis, c)
			}
			if err != nil {
				return newPError("writeRawXLSX: %s", err.Error())
			}
		}
	}
	if err := x.SaveAs(path); err != nil {
		return newPError("writeRawXLSX: %s", err.Error())
	}
	return nil
}

//frameFromRaw turns a header row plus data rows into a Frame. The split
//between numeric and label columns is decided per column: if every
//non-empty cell parses as a float, the column is numeric.
func frameFromRaw(raw [][]string) (*Frame, error) {
	if len(raw) == 0 {
		return nil, newPError("frameFromRaw: empty sheet")
	}
	header := raw[0]
	rows := len(raw) - 1
	ncols := len(header)
	names := make([]string, ncols)
	for j, h := range header {
		names[j] = CanonicalColumn(h)
	}
	cell := func(i, j int) string {
		if j >= len(raw[i+1]) {
			return ""
		}
		return strings.TrimSpace(raw[i+1][j])
	}
	numeric := make([]bool, ncols)
	for j := 0; j < ncols; j++ {
		if IsLabelColumn(names[j]) {
			continue
		}
		numeric[j] = true
		for i := 0; i < rows; i++ {
			c := cell(i, j)
			if c == "" {
				continue
			}
			if _, err := strconv.ParseFloat(c, 64); err != nil {
				numeric[j] = false
				break
			}
		}
	}
	var numNames []string
	for j, n := range names {
		if numeric[j] {
			numNames = append(numNames, n)
		}
	}
	F := NewFrame(rows, numNames)
	for j, name := range names {
		if numeric[j] {
			vals := make([]float64, rows)
			for i := 0; i < rows; i++ {
				c := cell(i, j)
				if c == "" {
					vals[i] = math.NaN()
					continue
				}
				vals[i], _ = strconv.ParseFloat(c, 64)
			}
			if err := F.SetCol(name, vals); err != nil {
				return nil, errDecorate(err, "frameFromRaw")
			}
		} else {
			vals := make([]string, rows)
			for i := 0; i < rows; i++ {
				vals[i] = cell(i, j)
			}
			if err := F.SetLabel(name, vals); err != nil {
				return nil, errDecorate(err, "frameFromRaw")
			}
		}
	}
	return F, nil
}

func rawFromFrame(F *Frame) [][]string {
	labels := F.LabelNames()
	nums := F.Names()
	header := append(append([]string{}, labels...), nums...)
	lcols := make([][]string, len(labels))
	for j, l := range labels {
		lcols[j], _ = F.Label(l)
	}
	raw := make([][]string, 0, F.Rows()+1)
	raw = append(raw, header)
	for i := 0; i < F.Rows(); i++ {
		row := make([]string, 0, len(header))
		for _, col := range lcols {
			row = append(row, col[i])
		}
		for _, n := range nums {
			v, _ := F.Float(i, n)
			if math.IsNaN(v) {
				row = append(row, "")
			} else {
				row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
			}
		}
		raw = append(raw, row)
	}
	return raw
}
