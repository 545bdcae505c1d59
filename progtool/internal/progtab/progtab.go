// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package progtab manages the table of program header pointers stored in the
// bootstrap image and merges programs into the bootstrap.
package progtab

import (
	"encoding/binary"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/embeddedgo/fwtools/progtool/internal/image"
	"github.com/embeddedgo/fwtools/progtool/internal/util"
)

// SlotSize is the size of one table entry.
const SlotSize = 4

// Table describes the location and capacity of a program table.
type Table struct {
	Addr  uint32 // address of the first slot
	Slots int    // number of slots
	Empty uint32 // value of an unused slot
}

// Legacy is the table of the STM32F107 bootstrap.
var Legacy = Table{Addr: 0x08000200, Slots: 2, Empty: 0}

func (t Table) check() error {
	if t.Slots <= 0 {
		return fmt.Errorf("progtab: bad number of slots: %d", t.Slots)
	}
	if uint64(t.Addr)+uint64(t.Slots)*SlotSize > 1<<32 {
		return fmt.Errorf("progtab: table at %#x with %d slots exceeds 4 GiB", t.Addr, t.Slots)
	}
	return nil
}

// Read returns the content of the table stored in img.
func (t Table) Read(img *image.Image) ([]uint32, error) {
	if err := t.check(); err != nil {
		return nil, err
	}
	buf, err := img.Get(t.Addr, uint32(t.Slots*SlotSize))
	if err != nil {
		return nil, err
	}
	slots := make([]uint32, t.Slots)
	for i := range slots {
		slots[i] = binary.LittleEndian.Uint32(buf[i*SlotSize:])
	}
	return slots, nil
}

// Write stores slots in img.
func (t Table) Write(img *image.Image, slots []uint32) error {
	if err := t.check(); err != nil {
		return err
	}
	if len(slots) != t.Slots {
		return fmt.Errorf("progtab: %d slots given, table has %d", len(slots), t.Slots)
	}
	buf := make([]byte, 0, t.Slots*SlotSize)
	for _, s := range slots {
		buf = binary.LittleEndian.AppendUint32(buf, s)
	}
	img.Put(t.Addr, buf)
	return nil
}

// Free returns the index of the first unused slot or -1 if the table is full.
func (t Table) Free(slots []uint32) int {
	for i, s := range slots {
		if s == t.Empty {
			return i
		}
	}
	return -1
}

// TableFullError is returned by Merge if there is no free slot left.
type TableFullError struct {
	Addr  uint32
	Slots int
}

func (e *TableFullError) Error() string {
	return fmt.Sprintf(
		"progtab: program table at %#x is full (%d slots), too many programs",
		e.Addr, e.Slots,
	)
}

// Merge adds the program prog to the bootstrap image build and stores the
// address of the program header (the lowest address of prog) in the first
// free slot of the table t. The start address of build is kept and the one
// of prog is dropped. Merge returns the index of the used slot. On error
// build is left unchanged. prog is never modified.
//
// Merge does not detect programs that are merged twice or that overlap the
// table.
func Merge(build, prog *image.Image, t Table) (int, error) {
	hdr, err := prog.MinAddr()
	if err != nil {
		return -1, err
	}
	merged := build.Clone()
	merged.Merge(prog, true)
	slots, err := t.Read(merged)
	if err != nil {
		return -1, err
	}
	k := t.Free(slots)
	if k < 0 {
		return -1, &TableFullError{t.Addr, t.Slots}
	}
	slots[k] = hdr
	if err := t.Write(merged, slots); err != nil {
		return -1, err
	}
	build.Merge(merged, true)
	return k, nil
}

// MergeFiles merges the program from the Intel HEX file progName into the
// bootstrap image read from buildName and writes the result to out. Nothing
// is written on error.
func MergeFiles(buildName, progName, out string, t Table, log logrus.FieldLogger) (int, error) {
	build, err := image.ReadFile(buildName)
	if err != nil {
		return -1, err
	}
	prog, err := image.ReadFile(progName)
	if err != nil {
		return -1, err
	}
	k, err := Merge(build, prog, t)
	if err != nil {
		return k, err
	}
	hdr, _ := prog.MinAddr()
	log.WithFields(logrus.Fields{
		"slot":   k,
		"header": util.Hex32(hdr),
		"table":  util.Hex32(t.Addr),
	}).Debug("program added")
	return k, build.WriteFile(out)
}
