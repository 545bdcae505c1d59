// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package util

import (
	"strconv"
)

// OptInt is a flag.Value that remembers whether it was set. It accepts any
// Go integer literal (0x10, 0b101, 0o17, 1_000).
type OptInt struct {
	v   int64
	set bool
}

func (o *OptInt) String() string {
	if o == nil || !o.set {
		return ""
	}
	return strconv.FormatInt(o.v, 10)
}

func (o *OptInt) Set(s string) error {
	v, err := strconv.ParseInt(s, 0, 64)
	if err != nil {
		return err
	}
	o.v, o.set = v, true
	return nil
}

// Ptr returns nil if the flag was not set.
func (o *OptInt) Ptr() *int64 {
	if !o.set {
		return nil
	}
	v := o.v
	return &v
}

// Uint32 is a flag.Value for addresses and 32-bit words.
type Uint32 uint32

func (u *Uint32) String() string {
	if u == nil {
		return "0"
	}
	return "0x" + strconv.FormatUint(uint64(*u), 16)
}

func (u *Uint32) Set(s string) error {
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return err
	}
	*u = Uint32(v)
	return nil
}

// Hex32 formats a 32-bit value in hex, e.g. for log fields.
type Hex32 uint32

func (h Hex32) String() string {
	return "0x" + strconv.FormatUint(uint64(h), 16)
}
