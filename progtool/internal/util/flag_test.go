// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package util

import (
	"flag"
	"io"
	"testing"
)

func TestFlags(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var pid, key OptInt
	var addr Uint32
	fs.Var(&pid, "pid", "")
	fs.Var(&key, "key", "")
	fs.Var(&addr, "table", "")
	if err := fs.Parse([]string{"-pid", "0x10", "-table", "0x08000200"}); err != nil {
		t.Fatal(err)
	}
	if p := pid.Ptr(); p == nil || *p != 16 {
		t.Errorf("pid = %v, want 16", p)
	}
	if key.Ptr() != nil {
		t.Error("unset flag returned a value")
	}
	if addr != 0x08000200 {
		t.Errorf("table = %#x", uint32(addr))
	}

	for _, args := range [][]string{
		{"-pid", "ten"},
		{"-table", "0x100000000"},
		{"-table", "-1"},
	} {
		if err := fs.Parse(args); err == nil {
			t.Errorf("Parse(%q) succeeded", args)
		}
	}
}

func TestOutFile(t *testing.T) {
	tests := []struct {
		in, out, want string
	}{
		{"app.hex", "", "app.bin"},
		{"app", "", "app.bin"},
		{"app.hex", "x.img", "x.img"},
	}
	for _, tt := range tests {
		if got := OutFile(tt.in, ".hex", tt.out, ".bin"); got != tt.want {
			t.Errorf("OutFile(%q, %q) = %q, want %q", tt.in, tt.out, got, tt.want)
		}
	}
}

func TestHex32(t *testing.T) {
	if s := Hex32(0x08004000).String(); s != "0x8004000" {
		t.Errorf("Hex32.String() = %q", s)
	}
}
