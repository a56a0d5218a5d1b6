package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/google/subcommands"
	"golang.org/x/term"

	"loxvm/chunk"
	"loxvm/compiler"
	"loxvm/config"
	"loxvm/scanner"
	"loxvm/token"
	"loxvm/value"
	"loxvm/vm"
)

// replCmd is an interactive read-compile-run loop. This is the
// explicit subcommand form; bare `loxvm` with no arguments reaches
// the same behavior through runREPL, directly.
type replCmd struct {
	configPath string
}

func (*replCmd) Name() string     { return "repl" }
func (*replCmd) Synopsis() string { return "start an interactive read-compile-run loop" }
func (*replCmd) Usage() string {
	return `repl:
  Start an interactive session. Ctrl-D or "exit" quits.
`
}

func (r *replCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&r.configPath, "config", config.DefaultPath(), "path to an optional loxvm.toml")
}

func (r *replCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	return runREPL(r.configPath)
}

// runREPL starts an interactive read-compile-run loop. One vm.VM
// persists across lines so a `var` defined on one line is still
// visible on the next, while each line is compiled into its own chunk
// via compiler.CompileInto, sharing that VM's heap.
func runREPL(configPath string) subcommands.ExitStatus {
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 failed to load config: %v\n", err)
		return exitUsage
	}

	rl, err := readline.New(">>> ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 failed to start readline: %v\n", err)
		return exitSoftware
	}
	defer rl.Close()

	if term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Println("loxvm REPL — Ctrl-D or \"exit\" to quit")
	}

	heap := value.NewHeap()
	machine := vm.New(chunk.New(), heap, os.Stdout, cfg.ToVMOptions())

	var buffer strings.Builder
	for {
		if buffer.Len() == 0 {
			rl.SetPrompt(">>> ")
		} else {
			rl.SetPrompt("... ")
		}

		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			buffer.Reset()
			continue
		}
		if err != nil {
			return subcommands.ExitSuccess
		}

		if strings.TrimSpace(line) == "exit" && buffer.Len() == 0 {
			return subcommands.ExitSuccess
		}

		if buffer.Len() > 0 {
			buffer.WriteByte('\n')
		}
		buffer.WriteString(line)
		source := buffer.String()

		if !sourceLooksComplete(source) {
			continue
		}

		c, err := compiler.CompileInto(source, heap)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			buffer.Reset()
			continue
		}

		machine.Load(c)
		if err := machine.Run(); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
		buffer.Reset()
	}
}

// sourceLooksComplete reports whether source has a fair chance of
// compiling as-is, so the REPL can tell "finish typing this
// statement" apart from a genuine syntax error. This grammar has no
// block statements, so the "come back for more" signals are a
// dangling operator, '(' or ',', a keyword that expects more input,
// or a scan error (such as an unterminated string), at the end of the
// buffer.
func sourceLooksComplete(source string) bool {
	s := scanAll(source)
	if len(s) == 0 {
		return true
	}
	last := s[len(s)-1]
	switch last.Kind {
	case token.PLUS, token.MINUS, token.STAR, token.SLASH,
		token.BANG, token.BANG_EQUAL, token.ASSIGN, token.EQUAL_EQUAL,
		token.GREATER, token.GREATER_EQUAL, token.LESS, token.LESS_EQUAL,
		token.COMMA, token.LPAREN,
		token.AND, token.OR, token.IF, token.ELSE, token.WHILE, token.FOR,
		token.FUN, token.VAR, token.PRINT, token.RETURN, token.CLASS:
		return false
	case token.ILLEGAL:
		// An unterminated string consumes the rest of the input and
		// scans as one trailing ILLEGAL token; give the user another
		// line rather than erroring.
		return false
	}
	return true
}

// scanAll tokenizes source for sourceLooksComplete's lookahead,
// swallowing scan errors (each becomes an ILLEGAL token) — a
// half-typed string still needs to count as "not ready yet", not a
// hard failure.
func scanAll(source string) []token.Token {
	sc := scanner.New(source)
	var tokens []token.Token
	for {
		tok, err := sc.Next()
		if err != nil {
			tokens = append(tokens, token.Token{Kind: token.ILLEGAL})
			continue
		}
		if tok.Kind == token.EOF {
			break
		}
		tokens = append(tokens, tok)
	}
	return tokens
}
