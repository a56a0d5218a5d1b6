// Package vm implements the fetch-decode-execute loop that walks a
// compiled chunk.Chunk and mutates a value.Value stack, the runtime
// half of the pipeline the compiler package's single-pass parser
// feeds into.
package vm

import (
	"fmt"
	"io"

	"loxvm/chunk"
	"loxvm/compiler"
	"loxvm/value"
)

// Options configures a VM's behavior; populated from a loaded config
// file rather than hardcoded, so a debugger or CLI flag can turn
// tracing on without rebuilding the binary.
type Options struct {
	// TraceExecution prints the stack and the instruction about to run
	// before every step.
	TraceExecution bool
	// MaxStack bounds the operand stack; zero means unbounded. A
	// program that would exceed it fails with a RuntimeError rather
	// than growing the Go slice without limit.
	MaxStack int
}

// VM is a stack-based interpreter over a single Chunk. It borrows the
// Chunk and Heap for the duration of Run and owns its operand stack.
type VM struct {
	chunk *chunk.Chunk
	heap  *value.Heap
	stack []value.Value
	out   io.Writer

	globals map[string]value.Value

	opts Options

	pos     int
	opIndex int
	done    bool
}

// New constructs a VM over chunk c and heap h. out receives `print`
// output; callers typically pass os.Stdout.
func New(c *chunk.Chunk, h *value.Heap, out io.Writer, opts Options) *VM {
	return &VM{
		chunk:   c,
		heap:    h,
		out:     out,
		globals: make(map[string]value.Value),
		opts:    opts,
	}
}

// Chunk, Heap, and Stack expose the VM's borrowed/owned state to
// external collaborators that step a VM from the outside and render
// its disassembly/stack between steps.
func (vm *VM) Chunk() *chunk.Chunk    { return vm.chunk }
func (vm *VM) Heap() *value.Heap      { return vm.heap }
func (vm *VM) Stack() []value.Value   { return vm.stack }
func (vm *VM) Pos() int               { return vm.pos }
func (vm *VM) Done() bool             { return vm.done }

// Load swaps in a freshly compiled chunk, resetting the cursor and
// operand stack but keeping globals (and the heap they may reference)
// intact. This lets a long-lived VM run a new chunk per line — a
// variable bound on one line stays visible on the next — instead of
// starting over each time. c must have been compiled into this VM's
// Heap(); loading a chunk compiled into a different heap would leave
// any Obj-handle globals pointing at the wrong heap.
func (vm *VM) Load(c *chunk.Chunk) {
	vm.chunk = c
	vm.stack = vm.stack[:0]
	vm.pos = 0
	vm.opIndex = 0
	vm.done = false
}

func (vm *VM) push(v value.Value) error {
	if vm.opts.MaxStack > 0 && len(vm.stack) >= vm.opts.MaxStack {
		return RuntimeError{Overflow: true}
	}
	vm.stack = append(vm.stack, v)
	return nil
}

// pop removes and returns the top of the stack, or a RuntimeError if
// the stack is empty. Underflow is an invariant violation (a compiler
// bug), not a program-level error, but it is still reported as a
// RuntimeError rather than a Go panic so a host program can recover
// from it.
func (vm *VM) pop(line int) (value.Value, error) {
	if len(vm.stack) == 0 {
		return value.Value{}, RuntimeError{Underflow: true, Line: line}
	}
	idx := len(vm.stack) - 1
	v := vm.stack[idx]
	vm.stack = vm.stack[:idx]
	return v, nil
}

func (vm *VM) peek(offsetFromTop int) (value.Value, bool) {
	idx := len(vm.stack) - 1 - offsetFromTop
	if idx < 0 {
		return value.Value{}, false
	}
	return vm.stack[idx], true
}

// Run drives the VM to completion by repeatedly calling Step. It
// returns the first RuntimeError encountered, halting immediately.
func (vm *VM) Run() error {
	for {
		done, err := vm.Step()
		if err != nil || done {
			return err
		}
	}
}

// Step decodes and executes exactly one instruction, advancing the
// VM's internal instruction pointer. It returns done=true once a
// Return opcode has executed; a debugger can call Step directly to
// single-step a program instead of running it to completion.
func (vm *VM) Step() (done bool, err error) {
	if vm.done {
		return true, nil
	}

	line, _ := vm.chunk.GetLine(vm.opIndex)

	op, next, err := chunk.ReadAt(vm.chunk.Code, vm.pos)
	if err != nil {
		return false, err
	}

	if vm.opts.TraceExecution {
		vm.traceStep(vm.pos, op)
	}

	if err := vm.execute(op, line); err != nil {
		return false, err
	}
	if op.Code == chunk.OpReturn {
		vm.done = true
		return true, nil
	}

	vm.pos = next
	vm.opIndex++
	return false, nil
}

func (vm *VM) traceStep(pos int, op chunk.Op) {
	fmt.Fprintf(vm.out, "          ")
	for _, v := range vm.stack {
		fmt.Fprintf(vm.out, "[ %s ]", v.String(vm.heap))
	}
	fmt.Fprintln(vm.out)
	fmt.Fprintf(vm.out, "%04d %s\n", pos, op.Code)
}

func (vm *VM) execute(op chunk.Op, line int) error {
	switch op.Code {
	case chunk.OpReturn:
		return nil

	case chunk.OpConstSmall, chunk.OpConstLarge:
		return vm.push(vm.chunk.Constants[op.Operand])

	case chunk.OpNil:
		return vm.push(value.Nil)
	case chunk.OpTrue:
		return vm.push(value.Boolean(true))
	case chunk.OpFalse:
		return vm.push(value.Boolean(false))

	case chunk.OpPop:
		_, err := vm.pop(line)
		return err

	case chunk.OpPrint:
		v, err := vm.pop(line)
		if err != nil {
			return err
		}
		fmt.Fprintln(vm.out, v.String(vm.heap))
		return nil

	case chunk.OpNegate:
		return vm.negate(line)
	case chunk.OpNot:
		return vm.not(line)

	case chunk.OpAdd:
		return vm.add(line)
	case chunk.OpSubtract:
		return vm.arithmetic(line, func(a, b float64) float64 { return a - b })
	case chunk.OpMultiply:
		return vm.arithmetic(line, func(a, b float64) float64 { return a * b })
	case chunk.OpDivide:
		return vm.arithmetic(line, func(a, b float64) float64 { return a / b })

	case chunk.OpEqual:
		return vm.equal(line)
	case chunk.OpGreater:
		return vm.compare(line, func(a, b float64) bool { return a > b })
	case chunk.OpLess:
		return vm.compare(line, func(a, b float64) bool { return a < b })

	case chunk.OpDefineGlobalSmall, chunk.OpDefineGlobalLarge:
		v, err := vm.pop(line)
		if err != nil {
			return err
		}
		vm.globals[vm.chunk.Names[op.Operand]] = v
		return nil

	case chunk.OpGetGlobalSmall, chunk.OpGetGlobalLarge:
		name := vm.chunk.Names[op.Operand]
		v, ok := vm.globals[name]
		if !ok {
			return RuntimeError{UndefinedGlobal: name, Line: line}
		}
		return vm.push(v)

	case chunk.OpSetGlobalSmall, chunk.OpSetGlobalLarge:
		name := vm.chunk.Names[op.Operand]
		if _, ok := vm.globals[name]; !ok {
			return RuntimeError{UndefinedGlobal: name, Line: line}
		}
		v, ok := vm.peek(0)
		if !ok {
			return RuntimeError{Underflow: true, Line: line}
		}
		vm.globals[name] = v
		return nil

	default:
		return chunk.CorruptBytecodeError{Detail: fmt.Sprintf("unimplemented opcode %s", op.Code)}
	}
}

// negate implements Negate: peek top, replace Number(x) with
// Number(-x) in place, else NotANumber without disturbing the stack.
func (vm *VM) negate(line int) error {
	v, ok := vm.peek(0)
	if !ok {
		return RuntimeError{Underflow: true, Line: line}
	}
	if !v.IsNumber() {
		te := TypeError{Kind: NotANumber, Got: v, Heap: vm.heap}
		return RuntimeError{Type: &te, Line: line}
	}
	vm.stack[len(vm.stack)-1] = value.Num(-v.Number)
	return nil
}

// not implements Not: Bool(b) -> Bool(!b), Nil -> Bool(true), any
// other type is NotBoolLike — `!` on a Number is a hard error here,
// not a truthy-coerce.
func (vm *VM) not(line int) error {
	v, ok := vm.peek(0)
	if !ok {
		return RuntimeError{Underflow: true, Line: line}
	}
	switch {
	case v.IsBool():
		vm.stack[len(vm.stack)-1] = value.Boolean(!v.Bool)
		return nil
	case v.IsNil():
		vm.stack[len(vm.stack)-1] = value.Boolean(true)
		return nil
	default:
		te := TypeError{Kind: NotBoolLike, Got: v, Heap: vm.heap}
		return RuntimeError{Type: &te, Line: line}
	}
}

// add implements the one polymorphic binary op: Number+Number adds,
// Str+Str concatenates via the Heap, anything else restores the
// operands and fails with NotANumber.
func (vm *VM) add(line int) error {
	b, a, err := vm.popTwo(line)
	if err != nil {
		return err
	}
	switch {
	case a.IsNumber() && b.IsNumber():
		return vm.push(value.Num(a.Number + b.Number))
	case a.IsObj() && b.IsObj():
		return vm.push(value.Object(vm.heap.Concat(a.Obj, b.Obj)))
	default:
		vm.stack = append(vm.stack, a, b) // restore in original order
		te := TypeError{Kind: NotANumber, Got: b, Heap: vm.heap}
		return RuntimeError{Type: &te, Line: line}
	}
}

// arithmetic implements Subtract/Multiply/Divide: both operands must
// be Number, else the stack is restored and NotANumber is raised.
// Division by zero is not special-cased; it follows IEEE-754 and
// yields inf/nan.
func (vm *VM) arithmetic(line int, op func(a, b float64) float64) error {
	b, a, err := vm.popTwo(line)
	if err != nil {
		return err
	}
	if !a.IsNumber() || !b.IsNumber() {
		vm.stack = append(vm.stack, a, b)
		bad := a
		if a.IsNumber() {
			bad = b
		}
		te := TypeError{Kind: NotANumber, Got: bad, Heap: vm.heap}
		return RuntimeError{Type: &te, Line: line}
	}
	return vm.push(value.Num(op(a.Number, b.Number)))
}

// equal implements Equal: structural equality across any pair of
// values, always defined (never a type error — cross-type comparisons
// are simply false).
func (vm *VM) equal(line int) error {
	b, a, err := vm.popTwo(line)
	if err != nil {
		return err
	}
	return vm.push(value.Boolean(value.Equal(vm.heap, a, b)))
}

// compare implements Greater/Less: both operands must be Number.
func (vm *VM) compare(line int, op func(a, b float64) bool) error {
	b, a, err := vm.popTwo(line)
	if err != nil {
		return err
	}
	if !a.IsNumber() || !b.IsNumber() {
		vm.stack = append(vm.stack, a, b)
		bad := a
		if a.IsNumber() {
			bad = b
		}
		te := TypeError{Kind: NotANumber, Got: bad, Heap: vm.heap}
		return RuntimeError{Type: &te, Line: line}
	}
	return vm.push(value.Boolean(op(a.Number, b.Number)))
}

// popTwo pops b then a, returning them in (b, a) order so that
// callers compute a <op> b with the operands the way they appeared on
// the stack: ... a b <op>.
func (vm *VM) popTwo(line int) (b, a value.Value, err error) {
	b, err = vm.pop(line)
	if err != nil {
		return value.Value{}, value.Value{}, err
	}
	a, err = vm.pop(line)
	if err != nil {
		return value.Value{}, value.Value{}, err
	}
	return b, a, nil
}

// Interpret is a convenience entry point: compile then run over a
// fresh VM sharing the compiled chunk's heap.
func Interpret(source string, out io.Writer, opts Options) error {
	c, h, err := compiler.Compile(source)
	if err != nil {
		return err
	}
	return New(c, h, out, opts).Run()
}
