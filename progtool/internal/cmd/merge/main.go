// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package merge

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/embeddedgo/fwtools/progtool/internal/progtab"
	"github.com/embeddedgo/fwtools/progtool/internal/util"
)

const Descr = "add a program image to the bootstrap image"

func Main(cmd string, args []string) {
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(
			os.Stderr,
			"Usage:\n  %s [OPTIONS] BUILD_HEX PROGRAM_HEX\n"+
				"BUILD_HEX starts as the bootstrap image and is overwritten with the result.\n"+
				"Options:\n",
			cmd,
		)
		fs.PrintDefaults()
	}
	tab := progtab.Legacy
	addr := util.Uint32(tab.Addr)
	empty := util.Uint32(tab.Empty)
	fs.Var(&addr, "table", "`address` of the program table")
	fs.IntVar(&tab.Slots, "slots", tab.Slots, "`number` of slots in the program table")
	fs.Var(&empty, "empty", "value of an unused table `slot`")
	out := fs.String("o", "", "write the result to `file` instead of BUILD_HEX")
	verbose := fs.Bool("v", false, "verbose output")
	fs.Parse(args)
	if fs.NArg() != 2 {
		fs.Usage()
		os.Exit(1)
	}
	util.Verbose(*verbose)
	tab.Addr = uint32(addr)
	tab.Empty = uint32(empty)
	build, prog := fs.Arg(0), fs.Arg(1)
	if *out == "" {
		*out = build
	}
	k, err := run(build, prog, *out, tab)
	util.FatalErr(cmd, err)
	util.Log.WithField("slot", k).Debugf("%s added to %s", prog, *out)
}

func run(build, prog, out string, tab progtab.Table) (int, error) {
	if err := util.CheckFiles(build, prog); err != nil {
		return -1, err
	}
	k, err := progtab.MergeFiles(build, prog, out, tab, util.Log)
	var tfe *progtab.TableFullError
	if errors.As(err, &tfe) {
		return k, fmt.Errorf(
			"bootstrap program table full (%d slots), cannot add %s: %w",
			tfe.Slots, prog, err,
		)
	}
	return k, err
}
