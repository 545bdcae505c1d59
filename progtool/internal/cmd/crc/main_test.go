// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package crc

import (
	"testing"

	"github.com/embeddedgo/fwtools/progtool/internal/crc"
)

func TestFormat(t *testing.T) {
	m8 := crc.STM32
	m8.Width = 8
	m12 := crc.STM32
	m12.Width = 12
	tests := []struct {
		m    crc.Model
		sum  uint32
		want string
	}{
		{crc.STM32, 0xB3C8CBE8, "0xb3c8cbe8"},
		{crc.STM32, 0x0000002B, "0x0000002b"},
		{m8, 0x07, "0x07"},
		{m12, 0x0AB, "0x0ab"},
	}
	for _, tt := range tests {
		if got := format(tt.m, tt.sum); got != tt.want {
			t.Errorf("format(width %d, %#x) = %q, want %q", tt.m.Width, tt.sum, got, tt.want)
		}
	}
}
