/*
 * interfaces.go, part of goPetro.
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

import "fmt"

// Error is the interface for errors that all packages in this library implement. The Decorate method allows to add and retrieve info from the
// error, without changing it's type or wrapping it around something else.
type Error interface {
	Error() string
	Decorate(string) []string //Decorate adds information when the error is passed up. Each call also returns the current decoration slice. If passed an empty string, it only returns the current value without adding anything. The slice should contain the names of the functions in the calling stack, plus, for each function, any relevant extra information in the format "FunctionName: Extra info".
}

// EngineError is the interface for errors produced while driving one of the
// external computational engines. Critical distinguishes failures of the
// engine itself from recoverable bookkeeping problems.
type EngineError interface {
	Error
	Critical() bool
	Engine() string
	InputName() string
}

// PError is the concrete error type for the petro package itself.
type PError struct {
	message string
	deco    []string
}

func (err PError) Error() string { return err.message }

// Decorate adds new information to the error
func (err PError) Decorate(deco string) []string {
	//The receiver is not a pointer, but since deco is a slice, and hence a pointer itself,
	//the append still reaches the caller's copy.
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

// errDecorate asserts that err implements Error and decorates it with the
// caller's name before returning it. Calling it with an error that doesn't
// implement Error is a bug, and panics.
func errDecorate(err error, caller string) error {
	err2 := err.(Error)
	err2.Decorate(caller)
	return err2
}

func newPError(format string, args ...interface{}) PError {
	return PError{message: fmt.Sprintf(format, args...)}
}
