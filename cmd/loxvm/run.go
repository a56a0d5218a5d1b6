package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"loxvm/config"
	"loxvm/vm"
)

// runCmd executes a source file to completion. This is the explicit
// subcommand form; `loxvm FILE` with no subcommand name reaches the
// same behavior through runFile, directly.
type runCmd struct {
	configPath string
}

func (*runCmd) Name() string     { return "run" }
func (*runCmd) Synopsis() string { return "compile and run a source file" }
func (*runCmd) Usage() string {
	return `run FILE:
  Compile and execute FILE, writing print output to stdout.
`
}

func (r *runCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&r.configPath, "config", config.DefaultPath(), "path to an optional loxvm.toml")
}

func (r *runCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	args := f.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "💥 file not provided")
		return exitUsage
	}
	return runFile(args[0], r.configPath)
}

// runFile compiles and executes path to completion, writing print
// output to stdout. It is the single path both `loxvm FILE` and
// `loxvm run FILE` funnel through.
func runFile(path, configPath string) subcommands.ExitStatus {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 failed to read file: %v\n", err)
		return exitUsage
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 failed to load config: %v\n", err)
		return exitUsage
	}

	if err := vm.Interpret(string(data), os.Stdout, cfg.ToVMOptions()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitStatusFor(err)
	}
	return subcommands.ExitSuccess
}
