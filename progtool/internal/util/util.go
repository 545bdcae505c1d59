// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package util

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log is the logger used by all commands. It writes to stderr without
// timestamps.
var Log = &logrus.Logger{
	Out: os.Stderr,
	Formatter: &logrus.TextFormatter{
		DisableTimestamp:       true,
		DisableLevelTruncation: true,
	},
	Hooks:    make(logrus.LevelHooks),
	Level:    logrus.InfoLevel,
	ExitFunc: os.Exit,
}

// Verbose enables debug messages.
func Verbose(on bool) {
	if on {
		Log.SetLevel(logrus.DebugLevel)
	}
}

func Warn(f string, args ...any) {
	Log.Warnf(f, args...)
}

func Fatal(f string, args ...any) {
	Log.Fatalf(f, args...)
}

// FatalErr prints an error description and exits the program if the
// err != nil.
func FatalErr(what string, err error) {
	if err == nil {
		return
	}
	var pe *fs.PathError
	if errors.Is(err, fs.ErrNotExist) && errors.As(err, &pe) {
		err = errors.New("unable to open " + pe.Path)
	}
	s := err.Error()
	if what != "" {
		s = what + ": " + s
	}
	Log.Fatal(s)
}

// CheckFiles returns an error if any of the named files does not exist or
// is not a regular file.
func CheckFiles(names ...string) error {
	for _, name := range names {
		fi, err := os.Stat(name)
		if err != nil {
			return err
		}
		if !fi.Mode().IsRegular() {
			return errors.New(name + " is not a regular file")
		}
	}
	return nil
}

// MustExist exits the program if any of the named files does not exist or
// is not a regular file.
func MustExist(names ...string) {
	FatalErr("", CheckFiles(names...))
}

// OutFile returns outName or, if it is empty, inName with inSuffix replaced
// by outSuffix.
func OutFile(inName, inSuffix, outName, outSuffix string) string {
	if outName == "" {
		outName = strings.TrimSuffix(inName, inSuffix) + outSuffix
	}
	return outName
}
