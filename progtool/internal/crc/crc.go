// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package crc implements a table driven CRC parameterized by a Rocksoft style
// model. Data is fed as 32-bit little-endian words, most significant byte
// first, the way the STM32 CRC peripheral consumes memory, so the result of
// STM32 matches the CRC the bootloader computes in hardware.
package crc

import (
	"fmt"
	"math/bits"
)

// Model describes a CRC algorithm.
type Model struct {
	Width  uint   // register width in bits (8 to 32)
	Poly   uint32 // polynomial without the top bit
	Init   uint32 // initial register value
	RefIn  bool   // reflect every input byte
	RefOut bool   // reflect the final register
	XorOut uint32 // xored with the final register
}

// STM32 models the CRC unit of the STM32F1/F2/F4 microcontrollers.
var STM32 = Model{
	Width: 32,
	Poly:  0x04C11DB7,
	Init:  0xFFFFFFFF,
}

func (m Model) mask() uint32 {
	return uint32(uint64(1)<<m.Width - 1)
}

// Table holds the lookup table and the register of a CRC computation.
type Table struct {
	m   Model
	reg uint32
	tab [256]uint32
}

// New builds the lookup table for m.
func New(m Model) (*Table, error) {
	if m.Width < 8 || m.Width > 32 {
		return nil, fmt.Errorf("crc: unsupported width %d", m.Width)
	}
	t := &Table{m: m}
	mask := m.mask()
	top := uint32(1) << (m.Width - 1)
	for i := range t.tab {
		r := uint32(i) << (m.Width - 8)
		for k := 0; k < 8; k++ {
			if r&top != 0 {
				r = r<<1 ^ m.Poly
			} else {
				r <<= 1
			}
		}
		t.tab[i] = r & mask
	}
	t.reg = m.Init & mask
	return t, nil
}

// Model returns the model the table was built for.
func (t *Table) Model() Model {
	return t.m
}

// Compute feeds p to the CRC and returns the resulting checksum. If reset is
// true the register is set to the initial value first, otherwise the
// computation continues from the previous call. A trailing partial word is
// padded with zeros.
func (t *Table) Compute(p []byte, reset bool) uint32 {
	m := &t.m
	mask := m.mask()
	shift := m.Width - 8
	if reset {
		t.reg = m.Init & mask
	}
	reg := t.reg
	for len(p) != 0 {
		var w [4]byte
		n := copy(w[:], p)
		p = p[n:]
		for k := 3; k >= 0; k-- {
			b := w[k]
			if m.RefIn {
				b = bits.Reverse8(b)
			}
			reg = (t.tab[byte(reg>>shift)^b] ^ reg<<8) & mask
		}
	}
	t.reg = reg
	if m.RefOut {
		reg = bits.Reverse32(reg) >> (32 - m.Width)
	}
	return (reg ^ m.XorOut) & mask
}

// Checksum returns the CRC of p computed using model m.
func Checksum(m Model, p []byte) (uint32, error) {
	t, err := New(m)
	if err != nil {
		return 0, err
	}
	return t.Compute(p, true), nil
}
