// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package image

import (
	"errors"
	"fmt"
)

// ErrEmpty is returned by operations that need at least one occupied address.
var ErrEmpty = errors.New("image: empty image")

// FormatError reports a malformed Intel HEX input.
type FormatError struct {
	Err error
}

func (e *FormatError) Error() string {
	return "image: bad Intel HEX data: " + e.Err.Error()
}

func (e *FormatError) Unwrap() error { return e.Err }

// RangeError reports a read of an unoccupied address from an image without
// padding.
type RangeError struct {
	Addr uint32
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("image: no data at %#x", e.Addr)
}
