// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package crc

import (
	"flag"
	"fmt"
	"os"

	"github.com/embeddedgo/fwtools/progtool/internal/crc"
	"github.com/embeddedgo/fwtools/progtool/internal/image"
	"github.com/embeddedgo/fwtools/progtool/internal/util"
)

const Descr = "compute the CRC of a file the way the STM32 CRC unit does"

func Main(cmd string, args []string) {
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(
			os.Stderr,
			"Usage:\n  %s [OPTIONS] FILE\n"+
				"The file is read as 32-bit little-endian words.\nOptions:\n",
			cmd,
		)
		fs.PrintDefaults()
	}
	m := crc.STM32
	width := fs.Uint("width", m.Width, "CRC width in `bits` (8 to 32)")
	poly := util.Uint32(m.Poly)
	initVal := util.Uint32(m.Init)
	xorOut := util.Uint32(m.XorOut)
	fs.Var(&poly, "poly", "`polynomial`")
	fs.Var(&initVal, "init", "initial register `value`")
	fs.Var(&xorOut, "xorout", "`value` xored with the result")
	fs.BoolVar(&m.RefIn, "refin", m.RefIn, "reflect input bytes")
	fs.BoolVar(&m.RefOut, "refout", m.RefOut, "reflect the result")
	isHex := fs.Bool("hex", false, "FILE is an Intel HEX image, gaps are filled with 0xff")
	fs.Parse(args)
	if fs.NArg() != 1 {
		fs.Usage()
		os.Exit(1)
	}
	m.Width = *width
	m.Poly = uint32(poly)
	m.Init = uint32(initVal)
	m.XorOut = uint32(xorOut)

	name := fs.Arg(0)
	util.MustExist(name)
	var data []byte
	if *isHex {
		img, err := image.ReadFile(name)
		util.FatalErr(cmd, err)
		min, err := img.MinAddr()
		util.FatalErr(cmd, err)
		data, err = img.Bytes(min, 0xff)
		util.FatalErr(cmd, err)
	} else {
		var err error
		data, err = os.ReadFile(name)
		util.FatalErr(cmd, err)
	}
	sum, err := crc.Checksum(m, data)
	util.FatalErr(cmd, err)
	fmt.Println(format(m, sum))
}

// format prints sum with as many hex digits as the CRC width needs.
func format(m crc.Model, sum uint32) string {
	return fmt.Sprintf("0x%0*x", int(m.Width+3)/4, sum)
}
