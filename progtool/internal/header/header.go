// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package header encodes and decodes the program header the bootstrap reads
// from the base address of every program.
//
// The header carries no version tag so the caller must know which layout the
// program was built with.
package header

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/embeddedgo/fwtools/progtool/internal/image"
)

// Layout selects the binary layout of the header.
type Layout int

const (
	Legacy  Layout = iota + 1 // crc, len, type, isr_vector, pid (14 bytes)
	Current                   // Legacy + max_len, key, hw_id (24 bytes)
)

var layoutNames = map[Layout]string{
	Legacy:  "legacy",
	Current: "current",
}

// Size returns the encoded size of the header or 0 for an unknown layout.
func (l Layout) Size() int {
	switch l {
	case Legacy:
		return binary.Size(legacyHeader{})
	case Current:
		return binary.Size(currentHeader{})
	}
	return 0
}

func (l Layout) String() string {
	if s, ok := layoutNames[l]; ok {
		return s
	}
	return fmt.Sprintf("Layout(%d)", int(l))
}

// Set implements flag.Value.
func (l *Layout) Set(s string) error {
	nl, err := ParseLayout(s)
	if err != nil {
		return err
	}
	*l = nl
	return nil
}

func ParseLayout(s string) (Layout, error) {
	for l, name := range layoutNames {
		if name == s {
			return l, nil
		}
	}
	return 0, fmt.Errorf("unknown header layout %q", s)
}

// CRCSize is the size of the crc field that starts every header. The CRC
// covers the program from the first byte after this field.
const CRCSize = 4

// TypeProgram is the type tag of a header that describes a program.
const TypeProgram = 0x01

// Header is the decoded program header.
type Header struct {
	CRC       uint32 // CRC of the program without the crc field
	Len       uint32 // size of the header and program
	Type      uint8  // header type, TypeProgram
	ISRVector uint32 // address of the interrupt vector table
	PID       uint8  // program ID, 0 is the bootstrap
	MaxLen    uint32 // size of the flash reserved for the program
	Key       uint32 // key needed to unlock and update the program
	HWID      uint16 // hardware the program can run on
}

type legacyHeader struct {
	CRC       uint32
	Len       uint32
	Type      uint8
	ISRVector uint32
	PID       uint8
}

type currentHeader struct {
	CRC       uint32
	Len       uint32
	Type      uint8
	ISRVector uint32
	PID       uint8
	MaxLen    uint32
	Key       uint32
	HWID      uint16
}

// Decode decodes buf using the layout l. The length of buf must be equal to
// l.Size().
func Decode(buf []byte, l Layout) (Header, error) {
	size := l.Size()
	if size == 0 {
		return Header{}, &DecodeError{l, len(buf), "unknown layout"}
	}
	if len(buf) != size {
		return Header{}, &DecodeError{
			l, len(buf), fmt.Sprintf("want %d bytes", size),
		}
	}
	r := bytes.NewReader(buf)
	if l == Legacy {
		var lh legacyHeader
		if err := binary.Read(r, binary.LittleEndian, &lh); err != nil {
			return Header{}, &DecodeError{l, len(buf), err.Error()}
		}
		return Header{
			CRC:       lh.CRC,
			Len:       lh.Len,
			Type:      lh.Type,
			ISRVector: lh.ISRVector,
			PID:       lh.PID,
		}, nil
	}
	var ch currentHeader
	if err := binary.Read(r, binary.LittleEndian, &ch); err != nil {
		return Header{}, &DecodeError{l, len(buf), err.Error()}
	}
	return Header{
		CRC:       ch.CRC,
		Len:       ch.Len,
		Type:      ch.Type,
		ISRVector: ch.ISRVector,
		PID:       ch.PID,
		MaxLen:    ch.MaxLen,
		Key:       ch.Key,
		HWID:      ch.HWID,
	}, nil
}

// Encode encodes h using the layout l. The legacy layout cannot carry the
// MaxLen, Key and HWID fields so they must be zero.
func Encode(h Header, l Layout) ([]byte, error) {
	buf := bytes.NewBuffer(make([]byte, 0, l.Size()))
	switch l {
	case Legacy:
		switch {
		case h.MaxLen != 0:
			return nil, &EncodeError{"max_len", int64(h.MaxLen), "not in the legacy layout"}
		case h.Key != 0:
			return nil, &EncodeError{"key", int64(h.Key), "not in the legacy layout"}
		case h.HWID != 0:
			return nil, &EncodeError{"hw_id", int64(h.HWID), "not in the legacy layout"}
		}
		binary.Write(buf, binary.LittleEndian, legacyHeader{
			h.CRC, h.Len, h.Type, h.ISRVector, h.PID,
		})
	case Current:
		binary.Write(buf, binary.LittleEndian, currentHeader{
			h.CRC, h.Len, h.Type, h.ISRVector, h.PID, h.MaxLen, h.Key, h.HWID,
		})
	default:
		return nil, &EncodeError{"layout", int64(l), "unknown layout"}
	}
	return buf.Bytes(), nil
}

func checkRange(field string, v, limit int64) error {
	if v < 0 || v >= limit {
		return &EncodeError{field, v, fmt.Sprintf("out of range [0,%d)", limit)}
	}
	return nil
}

// SetPID sets the PID field if 0 <= pid < 256.
func (h *Header) SetPID(pid int64) error {
	if err := checkRange("pid", pid, 1<<8); err != nil {
		return err
	}
	h.PID = uint8(pid)
	return nil
}

// SetKey sets the Key field if key fits in 32 bits.
func (h *Header) SetKey(key int64) error {
	if err := checkRange("key", key, 1<<32); err != nil {
		return err
	}
	h.Key = uint32(key)
	return nil
}

// SetHWID sets the HWID field if id fits in 16 bits.
func (h *Header) SetHWID(id int64) error {
	if err := checkRange("hw_id", id, 1<<16); err != nil {
		return err
	}
	h.HWID = uint16(id)
	return nil
}

// Validate performs the checks the bootstrap does before it boots a program.
// The extent is the number of bytes the program occupies and crc is the
// checksum computed over it.
func (h Header) Validate(extent, crc uint32) error {
	switch {
	case h.Len == 0:
		return fmt.Errorf("%w: zero length", ErrInvalid)
	case h.Type != TypeProgram:
		return fmt.Errorf("%w: type 0x%02x is not a program", ErrInvalid, h.Type)
	case h.Len != extent:
		return fmt.Errorf("%w: len %d, program occupies %d bytes", ErrInvalid, h.Len, extent)
	case h.CRC != crc:
		return fmt.Errorf("%w: crc 0x%08x, computed 0x%08x", ErrInvalid, h.CRC, crc)
	}
	return nil
}

// Read decodes the header located at base in img.
func Read(img *image.Image, base uint32, l Layout) (Header, error) {
	buf, err := img.Get(base, uint32(l.Size()))
	if err != nil {
		return Header{}, err
	}
	return Decode(buf, l)
}

// Write encodes h and stores it at base in img. The image is left unchanged
// if the header cannot be encoded.
func Write(img *image.Image, base uint32, l Layout, h Header) error {
	buf, err := Encode(h, l)
	if err != nil {
		return err
	}
	img.Put(base, buf)
	return nil
}

func (h Header) String() string {
	return fmt.Sprintf(
		"crc=0x%08x len=%d type=0x%02x isr_vector=0x%08x pid=%d max_len=%d key=%#x hw_id=%d",
		h.CRC, h.Len, h.Type, h.ISRVector, h.PID, h.MaxLen, h.Key, h.HWID,
	)
}
