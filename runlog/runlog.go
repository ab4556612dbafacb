/*
 * runlog.go, part of goPetro.
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

//Package runlog captures the console output of the external engines to
//sidecar files. The engines are talkative (thousands of lines per run) so
//the capture is compressed; the compressor is chosen by the file name
//extension: .zst for zstd, .gz for gzip, anything else is written plain.
package runlog

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/klauspost/compress/zstd"
)

//Writer writes a compressed console capture file.
type Writer struct {
	f        *os.File
	h        io.WriteCloser
	filename string
	open     bool
}

// NewWriter creates the capture file at name, picking the compressor from
// the extension.
func NewWriter(name string) (*Writer, error) {
	W := new(Writer)
	var err error
	W.f, err = os.Create(name)
	if err != nil {
		return nil, Error{UnableToOpen + ": " + err.Error(), name, []string{"NewWriter"}, true}
	}
	switch {
	case strings.HasSuffix(name, ".zst"):
		W.h, err = zstd.NewWriter(W.f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	case strings.HasSuffix(name, ".gz"):
		W.h = gzip.NewWriter(W.f)
	default:
		W.h = nopCloser{W.f}
	}
	if err != nil {
		W.f.Close()
		return nil, Error{"Can't set up compressor: " + err.Error(), name, []string{"NewWriter"}, true}
	}
	W.filename = name
	W.open = true
	return W, nil
}

func (W *Writer) Write(p []byte) (int, error) {
	if !W.open {
		return 0, Error{NotOpen, W.filename, []string{"Write"}, true}
	}
	return W.h.Write(p)
}

// Attach points the stdout and stderr of cmd at the capture.
func (W *Writer) Attach(cmd *exec.Cmd) {
	cmd.Stdout = W
	cmd.Stderr = W
}

// Banner writes a marker line to the capture, to separate the output of
// consecutive runs sent to the same file.
func (W *Writer) Banner(format string, args ...interface{}) {
	fmt.Fprintf(W, "==== "+format+" ====\n", args...)
}

func (W *Writer) Close() error {
	if W == nil || !W.open {
		return nil
	}
	W.open = false
	err := W.h.Close()
	err2 := W.f.Close()
	if err != nil {
		return err
	}
	return err2
}

//the plain case: don't let the Writer's Close reach the file twice.
type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

//Reader reads a capture file back, decompressing by extension.
type Reader struct {
	f *os.File
	h io.ReadCloser
	*bufio.Reader
	filename string
}

//zstd.Decoder doesn't implement io.ReadCloser (Close returns nothing),
//same workaround as everyone's.
type zstdCloser struct {
	closeql func()
	*zstd.Decoder
}

func (z zstdCloser) Close() error {
	z.closeql()
	return nil
}

// NewReader opens a capture file written by NewWriter.
func NewReader(name string) (*Reader, error) {
	R := new(Reader)
	var err error
	R.f, err = os.Open(name)
	if err != nil {
		return nil, Error{UnableToOpen + ": " + err.Error(), name, []string{"NewReader"}, true}
	}
	switch {
	case strings.HasSuffix(name, ".zst"):
		d, err := zstd.NewReader(R.f)
		if err != nil {
			R.f.Close()
			return nil, Error{"Can't set up decompressor: " + err.Error(), name, []string{"NewReader"}, true}
		}
		R.h = zstdCloser{d.Close, d}
	case strings.HasSuffix(name, ".gz"):
		g, err := gzip.NewReader(R.f)
		if err != nil {
			R.f.Close()
			return nil, Error{"Can't set up decompressor: " + err.Error(), name, []string{"NewReader"}, true}
		}
		R.h = g
	default:
		R.h = R.f
	}
	R.Reader = bufio.NewReader(R.h)
	R.filename = name
	return R, nil
}

func (R *Reader) Close() error {
	if R == nil {
		return nil
	}
	err := R.h.Close()
	if R.h != io.ReadCloser(R.f) {
		R.f.Close()
	}
	return err
}

//Errors

// Error is the error type for capture files. It implements petro.Error.
type Error struct {
	message  string
	filename string
	deco     []string
	critical bool
}

func (err Error) Error() string {
	return fmt.Sprintf("runlog file %s error: %s", err.filename, err.message)
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

// FileName returns the capture file associated to the error
func (err Error) FileName() string { return err.filename }

// Critical returns true if the error is critical, false otherwise
func (err Error) Critical() bool { return err.critical }

const (
	UnableToOpen = "Unable to open file"
	NotOpen      = "Capture not open for writing"
)
