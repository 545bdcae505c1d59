// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package info

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/embeddedgo/fwtools/progtool/internal/header"
	"github.com/embeddedgo/fwtools/progtool/internal/image"
	"github.com/embeddedgo/fwtools/progtool/internal/progtab"
	"github.com/embeddedgo/fwtools/progtool/internal/stamp"
)

func program(t *testing.T, base uint32) *image.Image {
	t.Helper()
	img := image.New()
	h := header.Header{Type: header.TypeProgram, ISRVector: base + 0x40, PID: 1}
	if err := header.Write(img, base, header.Current, h); err != nil {
		t.Fatal(err)
	}
	img.Put(base+0x40, []byte("some program code"))
	log := logrus.New()
	log.SetOutput(io.Discard)
	if _, err := stamp.Stamp(img, stamp.Options{Log: log}); err != nil {
		t.Fatal(err)
	}
	return img
}

func TestPrintProgram(t *testing.T) {
	img := program(t, 0x08004000)
	var buf bytes.Buffer
	if !Print(&buf, img, header.Current, progtab.Table{}) {
		t.Fatalf("stamped program reported invalid:\n%s", buf.String())
	}
	if !strings.Contains(buf.String(), "valid") {
		t.Errorf("output misses the verdict:\n%s", buf.String())
	}

	img.Put(0x08004040, []byte{'S'})
	buf.Reset()
	if Print(&buf, img, header.Current, progtab.Table{}) {
		t.Errorf("modified program reported valid:\n%s", buf.String())
	}
	if !strings.Contains(buf.String(), "computed") {
		t.Errorf("output misses the CRC error:\n%s", buf.String())
	}
}

func TestPrintTable(t *testing.T) {
	build := image.New()
	build.Put(0x08000000, make([]byte, 0x208))
	build.SetStart(0x08000101)
	tab := progtab.Table{Addr: 0x08000200, Slots: 2}
	if _, err := progtab.Merge(build, program(t, 0x08004000), tab); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	Print(&buf, build, header.Current, tab)
	out := buf.String()
	for _, want := range []string{
		"table:   0x08000200 (2 slots)",
		"slot 0:  0x08004000",
		"slot 1:  empty",
		"start:   0x08000101",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output misses %q:\n%s", want, out)
		}
	}
	if n := strings.Count(out, "  valid\n"); n != 1 {
		t.Errorf("%d valid headers reported, want 1:\n%s", n, out)
	}
}

func TestPrintEmpty(t *testing.T) {
	var buf bytes.Buffer
	if Print(&buf, image.New(), header.Current, progtab.Table{}) {
		t.Error("empty image reported valid")
	}
}
