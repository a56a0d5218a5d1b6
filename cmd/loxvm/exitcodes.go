package main

import (
	"github.com/google/subcommands"

	"loxvm/compiler"
	"loxvm/vm"
)

// Exit codes, matching the sysexits.h conventions the interpreter's
// error kinds map onto: 0 success, 65 (DATAERR) on a CompileError, 70
// (SOFTWARE) on a RuntimeError, 64 (USAGE) on argument misuse.
// subcommands.ExitUsageError is a different, library-internal value
// (2) and does not satisfy that last code, so argument-misuse paths
// use exitUsage explicitly instead.
const (
	exitUsage    subcommands.ExitStatus = 64
	exitDataErr  subcommands.ExitStatus = 65
	exitSoftware subcommands.ExitStatus = 70
)

// exitStatusFor classifies an error from compiling or running a
// program into its corresponding exit code.
func exitStatusFor(err error) subcommands.ExitStatus {
	if err == nil {
		return subcommands.ExitSuccess
	}
	switch err.(type) {
	case compiler.CompileError:
		return exitDataErr
	case vm.RuntimeError:
		return exitSoftware
	default:
		return exitSoftware
	}
}
