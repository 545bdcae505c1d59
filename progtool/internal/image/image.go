// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package image implements a sparse, address indexed memory image that can be
// read from and written to the Intel HEX format.
package image

import (
	"bytes"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/google/renameio/v2"
	"github.com/marcinbor85/gohex"
)

// Image is a sparse memory image. Addresses absent from the image read as the
// Pad byte if HasPad is set.
type Image struct {
	mem      map[uint32]byte
	start    uint32
	hasStart bool

	Pad       byte // fills gaps in Get
	HasPad    bool // if false Get reports gaps as *RangeError
	RecordLen byte // data bytes per record written by Dump
}

// Segment is a contiguous run of bytes.
type Segment struct {
	Addr uint32
	Data []byte
}

// New returns an empty image that pads gaps with 0xff and dumps 16 byte
// records.
func New() *Image {
	return &Image{
		mem:       make(map[uint32]byte),
		Pad:       0xff,
		HasPad:    true,
		RecordLen: 16,
	}
}

// Load parses the Intel HEX records read from r. Malformed records and
// record checksum mismatches are reported as *FormatError. So are Start
// Segment Address records (type 03) because the entry point they declare
// cannot be preserved.
func Load(r io.Reader) (*Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if err := checkRecordTypes(data); err != nil {
		return nil, &FormatError{err}
	}
	hm := gohex.NewMemory()
	if err := hm.ParseIntelHex(bytes.NewReader(data)); err != nil {
		return nil, &FormatError{err}
	}
	img := New()
	for _, s := range hm.GetDataSegments() {
		img.Put(s.Address, s.Data)
	}
	if a, ok := hm.GetStartAddress(); ok {
		img.SetStart(a)
	}
	return img, nil
}

const startSegmentRecord = "03"

// checkRecordTypes rejects the record types the parser would silently skip.
func checkRecordTypes(data []byte) error {
	for n, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if len(line) >= 9 && line[0] == ':' && line[7:9] == startSegmentRecord {
			return fmt.Errorf("line %d: start segment address records are not supported", n+1)
		}
	}
	return nil
}

// ReadFile loads the Intel HEX file name.
func ReadFile(name string) (*Image, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

// Clone returns a deep copy of img.
func (img *Image) Clone() *Image {
	c := *img
	c.mem = maps.Clone(img.mem)
	return &c
}

// Len returns the number of occupied addresses.
func (img *Image) Len() int {
	return len(img.mem)
}

// Start returns the start (entry) address if the image declares one.
func (img *Image) Start() (addr uint32, ok bool) {
	return img.start, img.hasStart
}

func (img *Image) SetStart(addr uint32) {
	img.start = addr
	img.hasStart = true
}

func (img *Image) ClearStart() {
	img.start = 0
	img.hasStart = false
}

// MinAddr returns the lowest occupied address.
func (img *Image) MinAddr() (uint32, error) {
	if len(img.mem) == 0 {
		return 0, ErrEmpty
	}
	min := ^uint32(0)
	for a := range img.mem {
		if a < min {
			min = a
		}
	}
	return min, nil
}

// MaxAddr returns the highest occupied address.
func (img *Image) MaxAddr() (uint32, error) {
	if len(img.mem) == 0 {
		return 0, ErrEmpty
	}
	var max uint32
	for a := range img.mem {
		if a > max {
			max = a
		}
	}
	return max, nil
}

// Get returns n bytes starting at addr.
func (img *Image) Get(addr, n uint32) ([]byte, error) {
	buf := make([]byte, n)
	for i := range buf {
		a := addr + uint32(i)
		b, ok := img.mem[a]
		if !ok {
			if !img.HasPad {
				return nil, &RangeError{a}
			}
			b = img.Pad
		}
		buf[i] = b
	}
	return buf, nil
}

// Put writes p at addr overwriting any existing content.
func (img *Image) Put(addr uint32, p []byte) {
	for i, b := range p {
		img.mem[addr+uint32(i)] = b
	}
}

// Merge overlays every byte of src onto img. The start address of img is
// kept if keepStart is true or src does not declare one.
func (img *Image) Merge(src *Image, keepStart bool) {
	maps.Copy(img.mem, src.mem)
	if !keepStart && src.hasStart {
		img.SetStart(src.start)
	}
}

// Bytes returns the content from start to the highest occupied address with
// unoccupied addresses set to pad. It returns an empty slice if start is
// above the highest address.
func (img *Image) Bytes(start uint32, pad byte) ([]byte, error) {
	max, err := img.MaxAddr()
	if err != nil {
		return nil, err
	}
	if start > max {
		return []byte{}, nil
	}
	buf := make([]byte, uint64(max)-uint64(start)+1)
	for i := range buf {
		b, ok := img.mem[start+uint32(i)]
		if !ok {
			b = pad
		}
		buf[i] = b
	}
	return buf, nil
}

// Segments returns the content of the image as contiguous runs sorted by
// address.
func (img *Image) Segments() []Segment {
	var ss []Segment
	for _, a := range slices.Sorted(maps.Keys(img.mem)) {
		if n := len(ss); n != 0 {
			s := &ss[n-1]
			if s.Addr+uint32(len(s.Data)) == a {
				s.Data = append(s.Data, img.mem[a])
				continue
			}
		}
		ss = append(ss, Segment{a, []byte{img.mem[a]}})
	}
	return ss
}

// Dump writes the image as Intel HEX records in ascending address order.
func (img *Image) Dump(w io.Writer) error {
	hm := gohex.NewMemory()
	for _, s := range img.Segments() {
		if err := hm.AddBinary(s.Addr, s.Data); err != nil {
			return err
		}
	}
	if img.hasStart {
		hm.SetStartAddress(img.start)
	}
	return hm.DumpIntelHex(w, img.RecordLen)
}

// WriteFile dumps the image to the named file. The file is replaced
// atomically so a failed write leaves the previous content in place.
func (img *Image) WriteFile(name string) error {
	var buf bytes.Buffer
	if err := img.Dump(&buf); err != nil {
		return err
	}
	return renameio.WriteFile(name, buf.Bytes(), 0o666)
}
