package chunk

import (
	"fmt"
	"strings"

	"loxvm/value"
)

// lineRun is one entry of the run-length-encoded line table: Count
// consecutive opcodes all originated on Line.
type lineRun struct {
	Count int
	Line  int
}

// Chunk is the compiled unit: a byte-addressable instruction stream,
// the constant pool its ConstSmall/ConstLarge operands index into,
// the names pool Define/Get/SetGlobal index into, and a run-length
// line table mapping opcode position back to source line.
//
// A Chunk is built incrementally by the compiler via Emit/AddConstant
// /AddName, then treated as read-only by the VM.
type Chunk struct {
	Code      []byte
	Constants []value.Value
	Names     []string
	lines     []lineRun
	opCount   int // number of opcodes emitted so far, for the line table
}

// New returns an empty Chunk ready for the compiler to append to.
func New() *Chunk {
	return &Chunk{}
}

// AddConstant appends v to the constant pool and returns its index,
// for use with ConstFor.
func (c *Chunk) AddConstant(v value.Value) int {
	c.Constants = append(c.Constants, v)
	return len(c.Constants) - 1
}

// AddName appends a variable name to the names pool and returns its
// index, for use with GlobalOpFor. Unlike AddConstant, callers
// typically want to reuse an existing index for a repeated name; that
// policy lives in the compiler, not here — AddName always appends.
func (c *Chunk) AddName(name string) int {
	c.Names = append(c.Names, name)
	return len(c.Names) - 1
}

// Emit appends op's encoded bytes to Code and records line in the
// line table. Returns the position of the opcode byte just written.
func (c *Chunk) Emit(op Op, line int) int {
	pos := len(c.Code)
	c.Code = op.WriteTo(c.Code)
	c.recordLine(line)
	return pos
}

func (c *Chunk) recordLine(line int) {
	c.opCount++
	if len(c.lines) > 0 && c.lines[len(c.lines)-1].Line == line {
		c.lines[len(c.lines)-1].Count++
		return
	}
	c.lines = append(c.lines, lineRun{Count: 1, Line: line})
}

// GetLine returns the source line the opIndex'th emitted opcode
// (0-based, in emission order) originated from, by walking the
// run-length table accumulating counts.
func (c *Chunk) GetLine(opIndex int) (int, bool) {
	remaining := opIndex
	for _, run := range c.lines {
		if remaining < run.Count {
			return run.Line, true
		}
		remaining -= run.Count
	}
	return 0, false
}

// OpCount returns the number of opcodes emitted so far; used by
// tests to verify the line table invariant sum(lines[i].Count) ==
// opCount.
func (c *Chunk) OpCount() int { return c.opCount }

// Disassemble renders every instruction in Code as one
// human-readable line: its byte offset, source line, mnemonic, and
// (for Const/global ops) the resolved operand value or name. A Chunk
// holds no heap, so string constants render as "<obj>".
func (c *Chunk) Disassemble(name string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "== %s ==\n", name)

	ops, err := ReadAll(c.Code)
	if err != nil {
		fmt.Fprintf(&b, "%v\n", err)
		return b.String()
	}

	pos := 0
	for i, op := range ops {
		line, ok := c.GetLine(i)
		lineStr := "   |"
		if ok {
			lineStr = fmt.Sprintf("%4d", line)
		}
		fmt.Fprintf(&b, "%04d %s %s", pos, lineStr, op.Code)
		c.describeOperand(&b, op)
		b.WriteByte('\n')
		pos += op.Code.cost()
	}
	return b.String()
}

func (c *Chunk) describeOperand(b *strings.Builder, op Op) {
	switch op.Code {
	case OpConstSmall, OpConstLarge:
		if op.Operand < len(c.Constants) {
			fmt.Fprintf(b, " %d '%s'", op.Operand, c.Constants[op.Operand].String(nil))
		}
	case OpDefineGlobalSmall, OpDefineGlobalLarge, OpGetGlobalSmall, OpGetGlobalLarge, OpSetGlobalSmall, OpSetGlobalLarge:
		if op.Operand < len(c.Names) {
			fmt.Fprintf(b, " %d '%s'", op.Operand, c.Names[op.Operand])
		}
	}
}
