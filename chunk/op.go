// Package chunk implements the compiled unit the compiler emits into
// and the VM executes from: a byte-addressable instruction stream, a
// constant pool, a names pool, and a run-length line table.
package chunk

import "fmt"

// Code is the one-byte opcode tag at the head of every instruction.
type Code byte

const (
	OpReturn Code = 0x00

	OpConstSmall Code = 0x01 // 1-byte constant-pool index
	OpConstLarge Code = 0x02 // 3-byte little-endian constant-pool index

	OpNegate Code = 0x03

	OpAdd      Code = 0x04
	OpSubtract Code = 0x05
	OpMultiply Code = 0x06
	OpDivide   Code = 0x07

	OpNil   Code = 0x08
	OpTrue  Code = 0x09
	OpFalse Code = 0x0A

	OpNot Code = 0x0B

	OpEqual   Code = 0x0C
	OpGreater Code = 0x0D
	OpLess    Code = 0x0E

	OpPrint Code = 0x0F
	OpPop   Code = 0x10

	// Global-variable opcodes. Each comes in a small (1-byte operand)
	// and large (3-byte LE operand) form, chosen the same way as
	// Const, except the operand indexes the names pool rather than
	// the constant pool.
	OpDefineGlobalSmall Code = 0x11
	OpDefineGlobalLarge Code = 0x12
	OpGetGlobalSmall    Code = 0x13
	OpGetGlobalLarge    Code = 0x14
	OpSetGlobalSmall    Code = 0x15
	OpSetGlobalLarge    Code = 0x16
)

var names = map[Code]string{
	OpReturn:            "RETURN",
	OpConstSmall:        "CONST_SMALL",
	OpConstLarge:        "CONST_LARGE",
	OpNegate:            "NEGATE",
	OpAdd:               "ADD",
	OpSubtract:          "SUBTRACT",
	OpMultiply:          "MULTIPLY",
	OpDivide:            "DIVIDE",
	OpNil:               "NIL",
	OpTrue:              "TRUE",
	OpFalse:             "FALSE",
	OpNot:               "NOT",
	OpEqual:             "EQUAL",
	OpGreater:           "GREATER",
	OpLess:              "LESS",
	OpPrint:             "PRINT",
	OpPop:               "POP",
	OpDefineGlobalSmall: "DEFINE_GLOBAL_SMALL",
	OpDefineGlobalLarge: "DEFINE_GLOBAL_LARGE",
	OpGetGlobalSmall:    "GET_GLOBAL_SMALL",
	OpGetGlobalLarge:    "GET_GLOBAL_LARGE",
	OpSetGlobalSmall:    "SET_GLOBAL_SMALL",
	OpSetGlobalLarge:    "SET_GLOBAL_LARGE",
}

func (c Code) String() string {
	if n, ok := names[c]; ok {
		return n
	}
	return fmt.Sprintf("Code(0x%02X)", byte(c))
}

// operandWidths gives the number of operand bytes following each
// opcode byte. Opcodes absent from this map take no operand.
var operandWidths = map[Code]int{
	OpConstSmall:        1,
	OpConstLarge:        3,
	OpDefineGlobalSmall: 1,
	OpDefineGlobalLarge: 3,
	OpGetGlobalSmall:    1,
	OpGetGlobalLarge:    3,
	OpSetGlobalSmall:    1,
	OpSetGlobalLarge:    3,
}

// cost is 1 (the opcode byte) plus this opcode's operand width, i.e.
// the total number of bytes an instruction occupies in the code
// buffer.
func (c Code) cost() int {
	return 1 + operandWidths[c]
}

// smallLargePair maps each "small" opcode to its "large" sibling, used
// by ConstFor/GlobalOpFor to pick the right encoding for an index.
var smallLargePair = map[Code]Code{
	OpConstSmall:        OpConstLarge,
	OpDefineGlobalSmall: OpDefineGlobalLarge,
	OpGetGlobalSmall:    OpGetGlobalLarge,
	OpSetGlobalSmall:    OpSetGlobalLarge,
}

// maxSmallIndex is the largest pool index that fits in the 1-byte
// "small" operand form.
const maxSmallIndex = 0xFF

// Op is the decoded, operand-carrying form of one instruction: the
// opcode plus (when applicable) its pool index. Variants with no
// operand leave Operand at zero.
type Op struct {
	Code    Code
	Operand int
}

// ConstFor chooses OpConstSmall when index fits in a byte, else
// OpConstLarge.
func ConstFor(index int) Op { return indexedFor(OpConstSmall, index) }

// GlobalOpFor chooses between the small and large encodings of a
// global-variable opcode (Define/Get/Set) based on the names-pool
// index, mirroring ConstFor.
func GlobalOpFor(small Code, index int) Op { return indexedFor(small, index) }

func indexedFor(small Code, index int) Op {
	if index <= maxSmallIndex {
		return Op{Code: small, Operand: index}
	}
	return Op{Code: smallLargePair[small], Operand: index}
}

// Simple constructs a no-operand Op.
func Simple(code Code) Op { return Op{Code: code} }

// WriteTo appends this instruction's encoded bytes (opcode followed
// by little-endian operand bytes) to buf and returns the extended
// slice.
func (op Op) WriteTo(buf []byte) []byte {
	buf = append(buf, byte(op.Code))
	switch operandWidths[op.Code] {
	case 1:
		buf = append(buf, byte(op.Operand))
	case 3:
		buf = append(buf, byte(op.Operand), byte(op.Operand>>8), byte(op.Operand>>16))
	}
	return buf
}

// CorruptBytecodeError indicates the code buffer contains a byte that
// is not a recognized opcode, or is truncated mid-instruction. This
// is a data-integrity invariant violation — it can only happen if
// something other than the compiler produced the buffer.
type CorruptBytecodeError struct {
	Pos    int
	Detail string
}

func (e CorruptBytecodeError) Error() string {
	return fmt.Sprintf("💥 corrupt bytecode at position %d: %s", e.Pos, e.Detail)
}

// ReadAt decodes the single instruction beginning at code[pos] and
// returns it along with the position immediately after it.
func ReadAt(code []byte, pos int) (Op, int, error) {
	if pos < 0 || pos >= len(code) {
		return Op{}, pos, CorruptBytecodeError{Pos: pos, Detail: "position out of range"}
	}
	op := Op{Code: Code(code[pos])}
	width, known := operandWidths[op.Code]
	if _, isOp := names[op.Code]; !isOp {
		return Op{}, pos, CorruptBytecodeError{Pos: pos, Detail: fmt.Sprintf("unknown opcode byte 0x%02X", code[pos])}
	}
	if !known {
		width = 0
	}
	end := pos + 1 + width
	if end > len(code) {
		return Op{}, pos, CorruptBytecodeError{Pos: pos, Detail: "truncated operand"}
	}
	switch width {
	case 1:
		op.Operand = int(code[pos+1])
	case 3:
		op.Operand = int(code[pos+1]) | int(code[pos+2])<<8 | int(code[pos+3])<<16
	}
	return op, end, nil
}

// ReadAll decodes every instruction in code in order, walking forward
// by each instruction's cost. It is the inverse of writing a sequence
// of Ops with WriteTo back to back.
func ReadAll(code []byte) ([]Op, error) {
	var ops []Op
	pos := 0
	for pos < len(code) {
		op, next, err := ReadAt(code, pos)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
		pos = next
	}
	return ops, nil
}
