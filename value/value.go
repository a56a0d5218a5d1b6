// Package value implements the runtime data model shared by the
// compiler's constant pool and the VM's stack: a tagged Value union
// plus a Heap owning reference-typed Objects.
package value

import (
	"fmt"
	"strconv"
)

// Type tags a Value's active variant.
type Type int

const (
	TypeNil Type = iota
	TypeBool
	TypeNumber
	TypeObj
)

func (t Type) String() string {
	switch t {
	case TypeNil:
		return "nil"
	case TypeBool:
		return "bool"
	case TypeNumber:
		return "number"
	case TypeObj:
		return "object"
	default:
		return "unknown"
	}
}

// Value is a copyable, tagged runtime datum: a number, a bool, nil, or
// a handle into a Heap. Exactly one of the typed fields is
// meaningful, selected by Type.
type Value struct {
	Type   Type
	Number float64
	Bool   bool
	Obj    ObjHandle
}

// Nil is the singular nil value.
var Nil = Value{Type: TypeNil}

// Num constructs a Number value.
func Num(n float64) Value { return Value{Type: TypeNumber, Number: n} }

// Boolean constructs a Bool value.
func Boolean(b bool) Value { return Value{Type: TypeBool, Bool: b} }

// Object constructs an Obj value from a heap handle.
func Object(h ObjHandle) Value { return Value{Type: TypeObj, Obj: h} }

func (v Value) IsNil() bool    { return v.Type == TypeNil }
func (v Value) IsBool() bool   { return v.Type == TypeBool }
func (v Value) IsNumber() bool { return v.Type == TypeNumber }
func (v Value) IsObj() bool    { return v.Type == TypeObj }

// IsFalsey reports whether the value is falsey: nil and false are
// falsey, everything else is truthy. The VM's Not opcode does not
// consult it; Not accepts only Bool and Nil operands and rejects any
// other type with NotBoolLike.
func (v Value) IsFalsey() bool {
	return v.Type == TypeNil || (v.Type == TypeBool && !v.Bool)
}

// Equal implements the VM's structural equality: numbers/bools/nil
// compare by value, Obj handles compare by the equality of the
// object they reference (via the owning Heap), and values of
// different Type are never equal.
func Equal(heap *Heap, a, b Value) bool {
	if a.Type != b.Type {
		return false
	}
	switch a.Type {
	case TypeNil:
		return true
	case TypeBool:
		return a.Bool == b.Bool
	case TypeNumber:
		return a.Number == b.Number
	case TypeObj:
		return heap.Equal(a.Obj, b.Obj)
	default:
		return false
	}
}

// String renders a Value the way the `print` opcode writes it to
// standard output: shortest round-tripping decimal for numbers, bare
// "true"/"false"/"nil", and the dereferenced string for Obj handles.
func (v Value) String(heap *Heap) string {
	switch v.Type {
	case TypeNil:
		return "nil"
	case TypeBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case TypeNumber:
		return strconv.FormatFloat(v.Number, 'g', -1, 64)
	case TypeObj:
		if heap == nil {
			return "<obj>"
		}
		return heap.Get(v.Obj).String()
	default:
		return fmt.Sprintf("<invalid value type %d>", v.Type)
	}
}
