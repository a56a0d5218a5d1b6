// Package debugger is a thin external collaborator over vm.VM: it
// single-steps a compiled chunk and lets an operator inspect the
// stack and disassembly between steps, limited to the commands a
// stack VM with no addresses/registers/call-stack actually needs.
package debugger

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"

	"loxvm/vm"
)

// Debugger wraps a vm.VM with breakpoint tracking and a text command
// interface. It never runs the VM itself in a tight loop; each
// "step"/"continue" command advances it by calling vm.VM.Step.
type Debugger struct {
	VM          *vm.VM
	Breakpoints *BreakpointManager

	LastCommand string
	Output      strings.Builder

	// Program captures the stepped VM's `print` output, so the TUI can
	// interleave it with command output instead of writing over the
	// terminal the TUI itself occupies.
	Program *bytes.Buffer
}

// New wraps machine for step debugging. machine must have been
// constructed with a *bytes.Buffer output writer; pass that same
// buffer as program so its `print` output surfaces in the TUI.
func New(machine *vm.VM, program *bytes.Buffer) *Debugger {
	return &Debugger{
		VM:          machine,
		Breakpoints: NewBreakpointManager(),
		Program:     program,
	}
}

// Printf and Println accumulate into Output so the TUI can drain it
// after each command instead of writing directly to the terminal it
// occupies.
func (d *Debugger) Printf(format string, args ...any) { fmt.Fprintf(&d.Output, format, args...) }
func (d *Debugger) Println(args ...any)               { fmt.Fprintln(&d.Output, args...) }

// GetOutput returns and clears both the accumulated command output
// and anything the VM printed since the last call.
func (d *Debugger) GetOutput() string {
	s := d.Output.String()
	d.Output.Reset()
	if d.Program != nil {
		s += d.Program.String()
		d.Program.Reset()
	}
	return s
}

// ExecuteCommand parses and runs one command line. An empty line
// repeats the last command, a convenience for stepping repeatedly
// without retyping "step" each time.
func (d *Debugger) ExecuteCommand(line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		line = d.LastCommand
	}
	if line == "" {
		return nil
	}
	d.LastCommand = line

	parts := strings.Fields(line)
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "step", "s":
		return d.cmdStep()
	case "continue", "c":
		return d.cmdContinue()
	case "break", "b":
		return d.cmdBreak(args)
	case "delete", "d":
		return d.cmdDelete(args)
	case "stack", "p":
		return d.cmdStack()
	case "disasm", "l":
		return d.cmdDisasm()
	case "yank", "y":
		return d.cmdYank()
	case "help", "h", "?":
		return d.cmdHelp()
	default:
		return fmt.Errorf("unknown command: %s (type 'help' for available commands)", cmd)
	}
}

func (d *Debugger) cmdStep() error {
	if d.VM.Done() {
		d.Println("program already finished")
		return nil
	}
	done, err := d.VM.Step()
	if err != nil {
		return err
	}
	if done {
		d.Println("program finished")
	}
	return nil
}

// cmdContinue steps until a breakpoint, a RuntimeError, or program end.
func (d *Debugger) cmdContinue() error {
	for {
		if d.VM.Done() {
			d.Println("program finished")
			return nil
		}
		if bp, ok := d.Breakpoints.At(d.VM.Pos()); ok {
			d.Printf("breakpoint %d hit at position %d\n", bp.ID, bp.Pos)
			return nil
		}
		done, err := d.VM.Step()
		if err != nil {
			return err
		}
		if done {
			d.Println("program finished")
			return nil
		}
	}
}

func (d *Debugger) cmdBreak(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: break <position>")
	}
	pos, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid position %q: %w", args[0], err)
	}
	bp := d.Breakpoints.Add(pos)
	d.Printf("breakpoint %d set at position %d\n", bp.ID, bp.Pos)
	return nil
}

func (d *Debugger) cmdDelete(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: delete <id>")
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid id %q: %w", args[0], err)
	}
	if err := d.Breakpoints.Delete(id); err != nil {
		return err
	}
	d.Printf("breakpoint %d deleted\n", id)
	return nil
}

func (d *Debugger) cmdStack() error {
	stack := d.VM.Stack()
	if len(stack) == 0 {
		d.Println("(empty)")
		return nil
	}
	for i := len(stack) - 1; i >= 0; i-- {
		d.Printf("%3d: %s\n", i, stack[i].String(d.VM.Heap()))
	}
	return nil
}

func (d *Debugger) cmdDisasm() error {
	d.Println(d.VM.Chunk().Disassemble("program"))
	return nil
}

// cmdYank copies the chunk's disassembly to the OS clipboard — a
// genuinely optional convenience, not load-bearing for any stepping
// behavior.
func (d *Debugger) cmdYank() error {
	text := d.VM.Chunk().Disassemble("program")
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("failed to copy disassembly to clipboard: %w", err)
	}
	d.Println("disassembly copied to clipboard")
	return nil
}

func (d *Debugger) cmdHelp() error {
	d.Println("step (s), continue (c), break (b) <pos>, delete (d) <id>, stack (p), disasm (l), yank (y), help (h)")
	return nil
}
