/*
 * oxy.go, part of goPetro.
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

//Package oxy organizes the oxygen-fugacity to ferric-iron conversion of
//the experiment table. The conversion itself is a published calibration
//implemented by an external geothermobarometry toolkit; this package only
//invokes it and puts the resulting Fe3Fet_Liq column where the engines
//expect it. No oxybarometer math lives here.
package oxy

import (
	"fmt"

	petro "gopetro"
)

// Converter converts one measured oxygen fugacity into a molar Fe3+/FeT
// fraction, for a liquid of the given composition at the given
// conditions. Implementations are parameterized by a named calibration
// and must be deterministic: identical inputs, identical fraction.
type Converter interface {
	FerricFraction(comp petro.Composition, tC, pGPa, logfO2 float64) (float64, error)

	//Calibration returns the name of the calibration the converter
	//applies, e.g. "Kress1991".
	Calibration() string
}

// FrameConverter is the whole-table fast path: converters backed by an
// external process implement it so a batch costs one invocation, not one
// per row.
type FrameConverter interface {
	Converter
	ConvertFrame(f *petro.Frame) ([]float64, error)
}

// Calibrations are the recognized fO2-to-iron-partitioning calibrations.
var Calibrations = []string{"Kress1991", "Jayasuriya2004", "Borisov2018", "ONeill2018"}

// DefaultCalibration is the calibration the study uses unless told
// otherwise.
const DefaultCalibration = "Kress1991"

// IsCalibration reports whether name is a recognized calibration.
func IsCalibration(name string) bool {
	for _, c := range Calibrations {
		if c == name {
			return true
		}
	}
	return false
}

// Convert attaches the Fe3Fet_Liq column to f, converting every row with
// conv. An existing Fe3Fet_Liq column is overwritten. The frame must pass
// petro's CheckRuns: a run without a measured fO2 has nothing to convert.
func Convert(f *petro.Frame, conv Converter) error {
	if err := f.CheckRuns(); err != nil {
		return Error{ErrBadFrame, conv.Calibration(), err.Error(), []string{"Convert"}, true}
	}
	var vals []float64
	var err error
	if fc, ok := conv.(FrameConverter); ok {
		vals, err = fc.ConvertFrame(f)
		if err != nil {
			return errDecorate(err, "Convert")
		}
		if len(vals) != f.Rows() {
			return Error{ErrRowsDropped, conv.Calibration(), fmt.Sprintf("%d rows in, %d out", f.Rows(), len(vals)), []string{"Convert"}, true}
		}
	} else {
		vals = make([]float64, f.Rows())
		for i := 0; i < f.Rows(); i++ {
			comp, err := f.Composition(i)
			if err != nil {
				return errDecorate(err, "Convert")
			}
			tc, _ := f.Float(i, petro.ColTC)
			p, _ := f.Float(i, petro.ColPGPa)
			fo2, _ := f.Float(i, petro.ColLogfO2)
			vals[i], err = conv.FerricFraction(comp, tc, p, fo2)
			if err != nil {
				return errDecorate(err, fmt.Sprintf("Convert row %d", i))
			}
		}
	}
	if f.HasCol(petro.ColFe3Fet) {
		err = f.SetCol(petro.ColFe3Fet, vals)
	} else {
		err = f.AddCol(petro.ColFe3Fet, vals)
	}
	if err != nil {
		return errDecorate(err, "Convert")
	}
	return nil
}

//Errors

// Error is the error type for the conversion adapters. It implements
// petro.Error.
type Error struct {
	message     string
	calibration string
	extra       string
	deco        []string
	critical    bool
}

func (err Error) Error() string {
	s := fmt.Sprintf("oxy error: %s, calibration: %s", err.message, err.calibration)
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

// Calibration returns the calibration associated to the error, if any.
func (err Error) Calibration() string { return err.calibration }

// Critical returns true if the error is critical, false otherwise
func (err Error) Critical() bool { return err.critical }

const (
	ErrUnknownCalibration = "Unknown fO2 calibration"
	ErrBadFrame           = "Frame not fit for conversion"
	ErrCantInput          = "Can't build converter input"
	ErrNotRunning         = "Converter did not run"
	ErrNoResults          = "Can't recover converter results"
	ErrRowsDropped        = "Converter returned a different number of rows than it was given"
)

//errDecorate is a helper that asserts that err implements petro.Error and
//decorates it with the caller's name before returning it. Calling it with
//anything else panics.
func errDecorate(err error, caller string) error {
	err2 := err.(petro.Error)
	err2.Decorate(caller)
	return err2
}
