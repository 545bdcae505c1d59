// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package header

import (
	"flag"
	"fmt"
	"os"

	"github.com/embeddedgo/fwtools/progtool/internal/header"
	"github.com/embeddedgo/fwtools/progtool/internal/stamp"
	"github.com/embeddedgo/fwtools/progtool/internal/util"
)

const Descr = "update the length and CRC in the header of a program image"

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
	var pid, key, hw util.OptInt
	fs.Var(&pid, "pid", "set the program `ID` (ignored unless 0 <= ID < 256)")
	fs.Var(&key, "key", "set the program update `key`")
	fs.Var(&hw, "hw", "set the hardware `ID`")
	layout := header.Current
	fs.Var(&layout, "layout", "header `layout`: legacy or current")
	out := fs.String("o", "", "write the result to `file` instead of HEX")
	verbose := fs.Bool("v", false, "print the resulting header")
	fs.Parse(args)
	if fs.NArg() != 1 {
		fs.Usage()
		os.Exit(1)
	}
	util.Verbose(*verbose)
	in := fs.Arg(0)
	if *out == "" {
		*out = in
	}
	h, err := run(in, *out, stamp.Options{
		Layout: layout,
		PID:    pid.Ptr(),
		Key:    key.Ptr(),
		HWID:   hw.Ptr(),
		Log:    util.Log,
	})
	util.FatalErr(cmd, err)
	util.Log.Debug(h)
}

func run(in, out string, o stamp.Options) (header.Header, error) {
	if err := util.CheckFiles(in); err != nil {
		return header.Header{}, err
	}
	return stamp.File(in, out, o)
}
