package value

import "testing"

func TestIsFalsey(t *testing.T) {
	tests := []struct {
		v        Value
		expected bool
	}{
		{Nil, true},
		{Boolean(false), true},
		{Boolean(true), false},
		{Num(0), false},
		{Num(1), false},
	}

	for _, tt := range tests {
		if got := tt.v.IsFalsey(); got != tt.expected {
			t.Errorf("IsFalsey(%v) - got: %v, want: %v", tt.v, got, tt.expected)
		}
	}
}

func TestEqualAcrossTypesIsAlwaysFalse(t *testing.T) {
	heap := NewHeap()
	handle := heap.Intern("1")
	pairs := []struct{ a, b Value }{
		{Num(1), Boolean(true)},
		{Num(1), Object(handle)},
		{Nil, Boolean(false)},
	}

	for _, p := range pairs {
		if Equal(heap, p.a, p.b) {
			t.Errorf("Equal(%v, %v) - got: true, want: false", p.a, p.b)
		}
	}
}

func TestEqualObjDereferencesToObjectEquality(t *testing.T) {
	heap := NewHeap()
	a := Object(heap.Intern("foo"))
	b := Object(heap.Intern("foo"))

	if a.Obj == b.Obj {
		t.Fatal("expected distinct handles for separately interned equal strings")
	}
	if !Equal(heap, a, b) {
		t.Error("Equal() - got: false, want: true for handles referencing equal strings")
	}
}

func TestValueString(t *testing.T) {
	heap := NewHeap()
	strHandle := heap.Intern("foobar")

	tests := []struct {
		v        Value
		expected string
	}{
		{Nil, "nil"},
		{Boolean(true), "true"},
		{Boolean(false), "false"},
		{Num(7), "7"},
		{Num(-2), "-2"},
		{Object(strHandle), "foobar"},
	}

	for _, tt := range tests {
		if got := tt.v.String(heap); got != tt.expected {
			t.Errorf("Value.String() - got: %q, want: %q", got, tt.expected)
		}
	}
}

func TestHeapConcat(t *testing.T) {
	heap := NewHeap()
	foo := heap.Intern("foo")
	bar := heap.Intern("bar")
	result := heap.Concat(foo, bar)

	if got := heap.Get(result).Str; got != "foobar" {
		t.Errorf("Heap.Concat() - got: %q, want: %q", got, "foobar")
	}
}
