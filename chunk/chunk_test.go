package chunk

import (
	"reflect"
	"testing"

	"loxvm/value"
)

func TestOpWriteToEncoding(t *testing.T) {
	tests := []struct {
		op       Op
		expected []byte
	}{
		{Simple(OpReturn), []byte{byte(OpReturn)}},
		{Simple(OpAdd), []byte{byte(OpAdd)}},
		{Simple(OpPop), []byte{byte(OpPop)}},
		{Op{Code: OpConstSmall, Operand: 5}, []byte{byte(OpConstSmall), 5}},
		{Op{Code: OpConstLarge, Operand: 65000}, []byte{byte(OpConstLarge), 0xE8, 0xFD, 0x00}},
	}

	for _, tt := range tests {
		got := tt.op.WriteTo(nil)
		if !reflect.DeepEqual(got, tt.expected) {
			t.Errorf("WriteTo(%v) - got: %v, want: %v", tt.op, got, tt.expected)
		}
	}
}

func TestReadAtDecodesEveryOp(t *testing.T) {
	ops := []Op{
		Simple(OpReturn), Simple(OpNegate), Simple(OpAdd), Simple(OpSubtract),
		Simple(OpMultiply), Simple(OpDivide), Simple(OpNil), Simple(OpTrue),
		Simple(OpFalse), Simple(OpNot), Simple(OpEqual), Simple(OpGreater),
		Simple(OpLess), Simple(OpPrint), Simple(OpPop),
		{Code: OpConstSmall, Operand: 200},
		{Code: OpConstLarge, Operand: 1 << 20},
		{Code: OpDefineGlobalSmall, Operand: 3},
		{Code: OpDefineGlobalLarge, Operand: 300},
		{Code: OpGetGlobalSmall, Operand: 7},
		{Code: OpGetGlobalLarge, Operand: 70000},
		{Code: OpSetGlobalSmall, Operand: 1},
		{Code: OpSetGlobalLarge, Operand: 1 << 16},
	}

	var buf []byte
	for _, op := range ops {
		buf = op.WriteTo(buf)
	}

	decoded, err := ReadAll(buf)
	if err != nil {
		t.Fatalf("ReadAll() error: %v", err)
	}
	if !reflect.DeepEqual(decoded, ops) {
		t.Errorf("ReadAll() - got: %+v, want: %+v", decoded, ops)
	}
}

func TestReadAtRejectsUnknownOpcode(t *testing.T) {
	_, _, err := ReadAt([]byte{0x7F}, 0)
	if err == nil {
		t.Fatal("expected an error for an unknown opcode byte")
	}
	if _, ok := err.(CorruptBytecodeError); !ok {
		t.Errorf("expected CorruptBytecodeError, got %T", err)
	}
}

func TestConstForChoosesWidthByIndex(t *testing.T) {
	tests := []struct {
		index    int
		expected Code
	}{
		{0, OpConstSmall},
		{255, OpConstSmall},
		{256, OpConstLarge},
		{1 << 20, OpConstLarge},
	}

	for _, tt := range tests {
		op := ConstFor(tt.index)
		if op.Code != tt.expected {
			t.Errorf("ConstFor(%d).Code - got: %v, want: %v", tt.index, op.Code, tt.expected)
		}
		if op.Operand != tt.index {
			t.Errorf("ConstFor(%d).Operand - got: %d, want: %d", tt.index, op.Operand, tt.index)
		}
	}
}

func TestChunkLineTableMatchesEmitOrder(t *testing.T) {
	c := New()
	c.Emit(Simple(OpNil), 1)
	c.Emit(Simple(OpNil), 1)
	c.Emit(Simple(OpTrue), 2)
	c.Emit(Simple(OpReturn), 2)

	tests := []struct {
		index        int
		expectedLine int
	}{
		{0, 1}, {1, 1}, {2, 2}, {3, 2},
	}

	for _, tt := range tests {
		line, ok := c.GetLine(tt.index)
		if !ok {
			t.Fatalf("GetLine(%d) - expected a line to be found", tt.index)
		}
		if line != tt.expectedLine {
			t.Errorf("GetLine(%d) - got: %d, want: %d", tt.index, line, tt.expectedLine)
		}
	}

	total := 0
	for _, run := range c.lines {
		total += run.Count
	}
	if total != c.OpCount() {
		t.Errorf("sum of line run counts - got: %d, want: %d", total, c.OpCount())
	}
}

func TestChunkAddConstantAndName(t *testing.T) {
	c := New()
	idx := c.AddConstant(value.Num(42))
	if c.Constants[idx].Number != 42 {
		t.Errorf("AddConstant - constant not stored at returned index")
	}

	nameIdx := c.AddName("x")
	if c.Names[nameIdx] != "x" {
		t.Errorf("AddName - name not stored at returned index")
	}
}
