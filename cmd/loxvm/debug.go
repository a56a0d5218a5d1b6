package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"loxvm/compiler"
	"loxvm/config"
	"loxvm/debugger"
	"loxvm/vm"
)

// debugCmd opens the tcell/tview step debugger over a compiled file:
// an external collaborator that steps a vm.VM from the outside rather
// than part of the interpreter core itself.
type debugCmd struct {
	configPath string
}

func (*debugCmd) Name() string     { return "debug" }
func (*debugCmd) Synopsis() string { return "step a compiled file in an interactive TUI debugger" }
func (*debugCmd) Usage() string {
	return `debug FILE:
  Compile FILE and open the step debugger.
`
}

func (d *debugCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&d.configPath, "config", config.DefaultPath(), "path to an optional loxvm.toml")
}

func (d *debugCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
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

	c, h, err := compiler.Compile(string(data))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitStatusFor(err)
	}

	cfg, err := config.Load(d.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 failed to load config: %v\n", err)
		return exitUsage
	}

	var programOutput bytes.Buffer
	machine := vm.New(c, h, &programOutput, cfg.ToVMOptions())
	tui := debugger.NewTUI(debugger.New(machine, &programOutput))
	if err := tui.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "💥 debugger error: %v\n", err)
		return exitSoftware
	}
	return subcommands.ExitSuccess
}
