// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package header

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/embeddedgo/fwtools/progtool/internal/crc"
	"github.com/embeddedgo/fwtools/progtool/internal/header"
	"github.com/embeddedgo/fwtools/progtool/internal/image"
	"github.com/embeddedgo/fwtools/progtool/internal/stamp"
)

const base = 0x08004000

func options() stamp.Options {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return stamp.Options{Log: log}
}

func writeProgram(t *testing.T, name string, n int) {
	t.Helper()
	img := image.New()
	img.Put(base, make([]byte, n))
	if n >= header.Current.Size() {
		h := header.Header{Type: header.TypeProgram, ISRVector: base + 0x40}
		if err := header.Write(img, base, header.Current, h); err != nil {
			t.Fatal(err)
		}
	}
	if err := img.WriteFile(name); err != nil {
		t.Fatal(err)
	}
}

func TestRun(t *testing.T) {
	in := filepath.Join(t.TempDir(), "app.hex")
	writeProgram(t, in, 0x80)
	h, err := run(in, in, options())
	if err != nil {
		t.Fatal(err)
	}
	img, err := image.ReadFile(in)
	if err != nil {
		t.Fatal(err)
	}
	got, sum, err := stamp.Check(img, base, header.Current, crc.STM32)
	if err != nil {
		t.Fatal(err)
	}
	if got != h {
		t.Errorf("file holds %v, want %v", got, h)
	}
	if err := got.Validate(0x80, sum); err != nil {
		t.Error(err)
	}
}

func TestRunErrors(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.hex")
	if _, err := run(filepath.Join(dir, "missing.hex"), out, options()); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("run(missing) error = %v, want fs.ErrNotExist", err)
	}
	if _, err := run(dir, out, options()); err == nil {
		t.Error("run(directory) succeeded")
	}

	short := filepath.Join(dir, "short.hex")
	writeProgram(t, short, 8)
	_, err := run(short, out, options())
	var de *header.DecodeError
	if !errors.As(err, &de) {
		t.Errorf("run(short) error = %v, want *header.DecodeError", err)
	}
	if _, err := os.Stat(out); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("output written after errors: %v", err)
	}
}
