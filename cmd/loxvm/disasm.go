package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"loxvm/compiler"
)

// disasmCmd dumps a source file's compiled chunk in human-readable
// form to stdout.
type disasmCmd struct{}

func (*disasmCmd) Name() string     { return "disasm" }
func (*disasmCmd) Synopsis() string { return "compile a source file and print its disassembly" }
func (*disasmCmd) Usage() string {
	return `disasm FILE:
  Compile FILE and print its bytecode disassembly to stdout.
`
}
func (*disasmCmd) SetFlags(*flag.FlagSet) {}

func (*disasmCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	args := f.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "💥 file not provided")
		return exitUsage
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 failed to read file: %v\n", err)
		return exitUsage
	}

	c, _, err := compiler.Compile(string(data))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitStatusFor(err)
	}

	fmt.Print(c.Disassemble(args[0]))
	return subcommands.ExitSuccess
}
