// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bin

import (
	"flag"
	"fmt"
	"os"

	"github.com/embeddedgo/fwtools/progtool/internal/image"
	"github.com/embeddedgo/fwtools/progtool/internal/util"
)

const Descr = "convert an Intel HEX image to a binary image"

func Main(cmd string, args []string) {
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(
			os.Stderr,
			"Usage:\n  %s [OPTIONS] HEX [BIN]\nOptions:\n",
			cmd,
		)
		fs.PrintDefaults()
	}
	pad := fs.Uint(
		"pad", 0xff,
		"pad `byte` used to fill gaps in the image",
	)
	var start util.Uint32
	fs.Var(
		&start, "start",
		"first `address` written to BIN (default: the lowest image address)",
	)
	fs.Parse(args)
	if fs.NArg() < 1 || fs.NArg() > 2 {
		fs.Usage()
		os.Exit(1)
	}
	if *pad > 0xff {
		util.Fatal("%s: pad byte %#x does not fit in a byte", cmd, *pad)
	}
	in := fs.Arg(0)
	out := util.OutFile(in, ".hex", fs.Arg(1), ".bin")
	util.MustExist(in)
	img, err := image.ReadFile(in)
	util.FatalErr(cmd, err)
	min, err := img.MinAddr()
	util.FatalErr(cmd, err)
	if start == 0 {
		start = util.Uint32(min)
	} else if uint32(start) > min {
		util.Warn("%s: %d bytes below %#x skipped", cmd, uint32(start)-min, uint32(start))
	}
	data, err := img.Bytes(uint32(start), byte(*pad))
	util.FatalErr(cmd, err)
	if uint32(start) < min {
		gap := make([]byte, min-uint32(start))
		for i := range gap {
			gap[i] = byte(*pad)
		}
		data = append(gap, data...)
	}
	util.FatalErr(cmd, os.WriteFile(out, data, 0o666))
}
