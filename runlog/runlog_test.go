/*
 * runlog_test.go, part of goPetro.
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

package runlog

import (
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

//TestRoundtrip writes a capture through each compressor and reads it back.
func TestRoundtrip(Te *testing.T) {
	dir := Te.TempDir()
	payload := strings.Repeat("Quad. spin. iter. 37: rNorm 1.3e-4 Liquidus at 1207.33 C\n", 200)
	for _, name := range []string{"capture.zst", "capture.gz", "capture.log"} {
		path := filepath.Join(dir, name)
		W, err := NewWriter(path)
		if err != nil {
			Te.Fatal(err)
		}
		W.Banner("model %s, row %d", "MELTSv1.2.0", 0)
		if _, err := W.Write([]byte(payload)); err != nil {
			Te.Error(err)
		}
		if err := W.Close(); err != nil {
			Te.Error(err)
		}
		R, err := NewReader(path)
		if err != nil {
			Te.Fatal(err)
		}
		got, err := io.ReadAll(R)
		if err != nil {
			Te.Error(err)
		}
		R.Close()
		want := "==== model MELTSv1.2.0, row 0 ====\n" + payload
		if string(got) != want {
			Te.Errorf("%s: capture did not roundtrip (%d bytes vs %d)", name, len(got), len(want))
		}
		fmt.Println(name, "roundtripped", len(got), "bytes")
	}
}

//a capture attached to a command gets the command's console output.
func TestAttach(Te *testing.T) {
	path := filepath.Join(Te.TempDir(), "echo.zst")
	W, err := NewWriter(path)
	if err != nil {
		Te.Fatal(err)
	}
	cmd := exec.Command("sh", "-c", "echo equilibrium reached")
	W.Attach(cmd)
	if err := cmd.Run(); err != nil {
		Te.Error(err)
	}
	W.Close()
	R, err := NewReader(path)
	if err != nil {
		Te.Fatal(err)
	}
	defer R.Close()
	got, _ := io.ReadAll(R)
	if !strings.Contains(string(got), "equilibrium reached") {
		Te.Errorf("capture missing command output: %q", string(got))
	}
}

func TestWriteAfterClose(Te *testing.T) {
	path := filepath.Join(Te.TempDir(), "c.gz")
	W, err := NewWriter(path)
	if err != nil {
		Te.Fatal(err)
	}
	W.Close()
	if _, err := W.Write([]byte("late")); err == nil {
		Te.Error("Write on a closed capture did not fail")
	}
}
