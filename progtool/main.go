// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Progtool prepares program images for the multi-program bootstrap: it
// stamps program headers and merges programs into the bootstrap image.
package main

import (
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/embeddedgo/fwtools/progtool/internal/cmd/bin"
	"github.com/embeddedgo/fwtools/progtool/internal/cmd/crc"
	"github.com/embeddedgo/fwtools/progtool/internal/cmd/header"
	"github.com/embeddedgo/fwtools/progtool/internal/cmd/info"
	"github.com/embeddedgo/fwtools/progtool/internal/cmd/merge"
)

type tool struct {
	descr string
	main  func(cmd string, args []string)
}

var tools = map[string]tool{
	"bin":    {bin.Descr, bin.Main},
	"crc":    {crc.Descr, crc.Main},
	"header": {header.Descr, header.Main},
	"info":   {info.Descr, info.Main},
	"merge":  {merge.Descr, merge.Main},
}

func printToolList() {
	names := slices.Sorted(maps.Keys(tools))
	maxLen := 0
	for _, k := range names {
		if maxLen < len(k) {
			maxLen = len(k)
		}
	}
	uw := os.Stderr
	uw.WriteString("Usage:\n  progtool COMMAND [ARGUMENTS]\n\n")
	uw.WriteString("Available commands:\n")
	for _, name := range names {
		fmt.Fprintf(uw, "  %*s  %s\n", maxLen, name, tools[name].descr)
	}
}

func main() {
	if len(os.Args) < 2 || os.Args[1] == "-h" {
		printToolList()
		return
	}
	tool, ok := tools[os.Args[1]]
	if !ok {
		printToolList()
		os.Exit(1)
	}
	tool.main(os.Args[1], os.Args[2:])
}
