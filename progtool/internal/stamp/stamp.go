// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package stamp updates the header of a program image so it describes the
// program that follows it.
package stamp

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/embeddedgo/fwtools/progtool/internal/crc"
	"github.com/embeddedgo/fwtools/progtool/internal/header"
	"github.com/embeddedgo/fwtools/progtool/internal/image"
	"github.com/embeddedgo/fwtools/progtool/internal/util"
)

// Pad fills the gaps of the program in the CRC computation. It is the value
// of erased Flash.
const Pad = 0xff

// Options control the header stamping. Nil PID, Key and HWID leave the
// corresponding fields unchanged.
type Options struct {
	Layout header.Layout // defaults to header.Current
	PID    *int64        // applied only if 0 <= *PID < 256
	Key    *int64
	HWID   *int64
	Model  crc.Model          // defaults to crc.STM32
	Log    logrus.FieldLogger // defaults to logrus.StandardLogger()
}

func (o *Options) layout() header.Layout {
	if o.Layout == 0 {
		return header.Current
	}
	return o.Layout
}

func (o *Options) model() crc.Model {
	if o.Model.Width == 0 {
		return crc.STM32
	}
	return o.Model
}

func (o *Options) log() logrus.FieldLogger {
	if o.Log == nil {
		return logrus.StandardLogger()
	}
	return o.Log
}

// Stamp updates the header found at the lowest address of img. It sets the
// len field to the extent of the image, applies the overrides from o and
// finally computes the CRC over the whole image except the crc field. The
// image is not modified if an error is returned.
func Stamp(img *image.Image, o Options) (header.Header, error) {
	log := o.log()
	l := o.layout()
	base, err := img.MinAddr()
	if err != nil {
		return header.Header{}, err
	}
	max, err := img.MaxAddr()
	if err != nil {
		return header.Header{}, err
	}
	if n := uint64(max) - uint64(base) + 1; n < uint64(l.Size()) {
		return header.Header{}, &header.DecodeError{
			Layout: l,
			Len:    int(n),
			Reason: "image is shorter than the header",
		}
	}
	h, err := header.Read(img, base, l)
	if err != nil {
		return header.Header{}, err
	}
	h.Len = max - base + 1

	if o.PID != nil {
		if err := h.SetPID(*o.PID); err != nil {
			log.WithField("pid", *o.PID).Warn("program ID out of range [0,256), ignored")
		}
	}
	if o.Key != nil {
		if l == header.Legacy {
			log.Warn("the legacy header has no key field, -key ignored")
		} else if err := h.SetKey(*o.Key); err != nil {
			return header.Header{}, err
		}
	}
	if o.HWID != nil {
		if l == header.Legacy {
			log.Warn("the legacy header has no hw_id field, -hw ignored")
		} else if err := h.SetHWID(*o.HWID); err != nil {
			return header.Header{}, err
		}
	}

	tab, err := crc.New(o.model())
	if err != nil {
		return header.Header{}, err
	}
	// The CRC covers the header so it must be written before the body is
	// extracted. Work on a copy to leave img intact on error.
	work := img.Clone()
	if err := header.Write(work, base, l, h); err != nil {
		return header.Header{}, err
	}
	body, err := work.Bytes(base+header.CRCSize, Pad)
	if err != nil {
		return header.Header{}, err
	}
	h.CRC = tab.Compute(body, true)
	if err := header.Write(work, base, l, h); err != nil {
		return header.Header{}, err
	}
	img.Merge(work, true)

	log.WithFields(logrus.Fields{
		"addr": util.Hex32(base),
		"len":  h.Len,
		"crc":  util.Hex32(h.CRC),
		"pid":  h.PID,
	}).Debug("header stamped")
	return h, nil
}

// File stamps the header of the Intel HEX file in and writes the result to
// out, which may be the same file. Nothing is written if stamping fails.
func File(in, out string, o Options) (header.Header, error) {
	img, err := image.ReadFile(in)
	if err != nil {
		return header.Header{}, err
	}
	h, err := Stamp(img, o)
	if err != nil {
		return h, err
	}
	return h, img.WriteFile(out)
}

// Check decodes the header at base and computes the CRC over the region the
// header describes: from the byte following the crc field up to base+Len-1.
func Check(img *image.Image, base uint32, l header.Layout, m crc.Model) (h header.Header, sum uint32, err error) {
	h, err = header.Read(img, base, l)
	if err != nil {
		return
	}
	max, err := img.MaxAddr()
	if err != nil {
		return
	}
	if uint64(base)+uint64(h.Len) > uint64(max)+1 {
		err = fmt.Errorf(
			"header at %#x: len %d exceeds the image end %#x", base, h.Len, max,
		)
		return
	}
	tab, err := crc.New(m)
	if err != nil {
		return
	}
	var body []byte
	if h.Len > header.CRCSize {
		body, err = img.Get(base+header.CRCSize, h.Len-header.CRCSize)
		if err != nil {
			return
		}
	}
	sum = tab.Compute(body, true)
	return
}
