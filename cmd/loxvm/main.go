// Command loxvm compiles and runs programs in the core scripting
// language. Its fixed external contract is: no arguments starts a
// REPL, one argument runs that file, and anything else is a usage
// error. `disasm` and `debug` are additional named subcommands for
// inspecting a compiled file, reached only by naming them explicitly
// so they never shadow a file argument.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/google/subcommands"

	"loxvm/config"
)

// namedSubcommands are the names main dispatches to subcommands.Execute
// instead of treating as a bare file argument.
var namedSubcommands = map[string]bool{
	"help": true, "flags": true, "commands": true,
	"run": true, "repl": true, "disasm": true, "debug": true,
}

func main() {
	args := os.Args[1:]

	switch {
	case len(args) == 0:
		os.Exit(int(runREPL(config.DefaultPath())))

	case len(args) == 1 && !namedSubcommands[args[0]]:
		os.Exit(int(runFile(args[0], config.DefaultPath())))

	case len(args) > 0 && namedSubcommands[args[0]]:
		subcommands.Register(subcommands.HelpCommand(), "")
		subcommands.Register(subcommands.FlagsCommand(), "")
		subcommands.Register(subcommands.CommandsCommand(), "")
		subcommands.Register(&runCmd{}, "")
		subcommands.Register(&replCmd{}, "")
		subcommands.Register(&disasmCmd{}, "")
		subcommands.Register(&debugCmd{}, "")

		flag.Parse()
		os.Exit(int(subcommands.Execute(context.Background())))

	default:
		os.Exit(int(exitUsage))
	}
}
