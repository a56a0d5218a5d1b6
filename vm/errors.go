package vm

import (
	"fmt"

	"loxvm/value"
)

// TypeErrorKind distinguishes the shapes of type mismatch the VM can
// hit at an operand. `!` on a Number is a NotBoolLike error, not a
// silent coercion.
type TypeErrorKind int

const (
	NotANumber TypeErrorKind = iota
	NotBoolLike
)

// TypeError reports an operand of the wrong Type reaching an opcode
// that requires a specific one.
type TypeError struct {
	Kind TypeErrorKind
	Got  value.Value
	Heap *value.Heap
}

func (e TypeError) Error() string {
	switch e.Kind {
	case NotBoolLike:
		return fmt.Sprintf("operand must be a boolean, got %s", e.Got.Type)
	default:
		return fmt.Sprintf("operand must be a number, got %s", e.Got.Type)
	}
}

// RuntimeError is the VM's single failure type: a stack underflow (an
// instruction ran with fewer operands on the stack than it needs,
// which is an invariant violation rather than a program error), a
// typed operand mismatch, or a reference to a global that was never
// defined.
type RuntimeError struct {
	Underflow bool
	// Overflow reports that a push would grow the stack past
	// Options.MaxStack, an optional operator-configured cap on stack
	// growth.
	Overflow        bool
	Type            *TypeError
	UndefinedGlobal string
	Line            int
}

func (e RuntimeError) Error() string {
	switch {
	case e.Underflow:
		return fmt.Sprintf("💥 RuntimeError [line %d]: stack underflow", e.Line)
	case e.Overflow:
		return fmt.Sprintf("💥 RuntimeError [line %d]: stack overflow", e.Line)
	case e.Type != nil:
		return fmt.Sprintf("💥 RuntimeError [line %d]: %s", e.Line, e.Type)
	case e.UndefinedGlobal != "":
		return fmt.Sprintf("💥 RuntimeError [line %d]: undefined variable '%s'", e.Line, e.UndefinedGlobal)
	default:
		return fmt.Sprintf("💥 RuntimeError [line %d]: unknown failure", e.Line)
	}
}
