// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package header

import (
	"errors"
	"fmt"
)

// ErrInvalid is wrapped by the errors returned from Header.Validate.
var ErrInvalid = errors.New("invalid program header")

// DecodeError reports a buffer that cannot be decoded as a header.
type DecodeError struct {
	Layout Layout
	Len    int
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf(
		"header: cannot decode %d bytes as %s header: %s",
		e.Len, e.Layout, e.Reason,
	)
}

// EncodeError reports a field value that does not fit in the header.
type EncodeError struct {
	Field  string
	Value  int64
	Reason string
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("header: %s=%d: %s", e.Field, e.Value, e.Reason)
}
