// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package info

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/embeddedgo/fwtools/progtool/internal/crc"
	"github.com/embeddedgo/fwtools/progtool/internal/header"
	"github.com/embeddedgo/fwtools/progtool/internal/image"
	"github.com/embeddedgo/fwtools/progtool/internal/progtab"
	"github.com/embeddedgo/fwtools/progtool/internal/stamp"
	"github.com/embeddedgo/fwtools/progtool/internal/util"
)

const Descr = "print and verify the program header and the program table"

func Main(cmd string, args []string) {
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(
			os.Stderr,
			"Usage:\n  %s [OPTIONS] HEX\nOptions:\n",
			cmd,
		)
		fs.PrintDefaults()
	}
	layout := header.Current
	fs.Var(&layout, "layout", "header `layout`: legacy or current")
	tab := progtab.Legacy
	var addr util.Uint32
	empty := util.Uint32(tab.Empty)
	fs.Var(&addr, "table", "`address` of the program table (0: no table)")
	fs.IntVar(&tab.Slots, "slots", tab.Slots, "`number` of slots in the program table")
	fs.Var(&empty, "empty", "value of an unused table `slot`")
	fs.Parse(args)
	if fs.NArg() != 1 {
		fs.Usage()
		os.Exit(1)
	}
	tab.Addr = uint32(addr)
	tab.Empty = uint32(empty)
	util.MustExist(fs.Arg(0))
	img, err := image.ReadFile(fs.Arg(0))
	util.FatalErr(cmd, err)
	if !Print(os.Stdout, img, layout, tab) {
		os.Exit(1)
	}
}

// Print writes a description of img to w. If tab.Addr is not zero the
// program table and the headers it points to are printed too. Print reports
// whether all described headers are valid.
func Print(w io.Writer, img *image.Image, l header.Layout, tab progtab.Table) bool {
	min, err := img.MinAddr()
	if err != nil {
		fmt.Fprintln(w, err)
		return false
	}
	max, _ := img.MaxAddr()
	fmt.Fprintf(w, "image:   0x%08x-0x%08x (%d bytes used)\n", min, max, img.Len())
	if a, ok := img.Start(); ok {
		fmt.Fprintf(w, "start:   0x%08x\n", a)
	}
	if tab.Addr == 0 {
		return printHeader(w, img, min, l, max-min+1)
	}
	// The bootstrap header describes the bootstrap only, not the whole image.
	ok := printHeader(w, img, min, l, 0)
	slots, err := tab.Read(img)
	if err != nil {
		fmt.Fprintln(w, err)
		return false
	}
	fmt.Fprintf(w, "table:   0x%08x (%d slots)\n", tab.Addr, tab.Slots)
	for i, s := range slots {
		if s == tab.Empty {
			fmt.Fprintf(w, "slot %d:  empty\n", i)
			continue
		}
		fmt.Fprintf(w, "slot %d:  0x%08x\n", i, s)
		if !printHeader(w, img, s, l, 0) {
			ok = false
		}
	}
	return ok
}

// printHeader prints the header at base and checks it. Zero extent means the
// program size is taken from the header itself.
func printHeader(w io.Writer, img *image.Image, base uint32, l header.Layout, extent uint32) bool {
	h, sum, err := stamp.Check(img, base, l, crc.STM32)
	if err != nil {
		fmt.Fprintf(w, "  header: %v\n", err)
		return false
	}
	fmt.Fprintf(w, "  header: %s\n", h)
	if extent == 0 {
		extent = h.Len
	}
	if err := h.Validate(extent, sum); err != nil {
		fmt.Fprintf(w, "  %v\n", err)
		return false
	}
	fmt.Fprintln(w, "  valid")
	return true
}
