package value

// ObjHandle is an opaque, non-owning index into a Heap's object
// arena. Handles are Copy and carry no lifetime of their own; the
// Heap that produced a handle outlives every value that references
// it for the duration of a run.
type ObjHandle int

// HeapObject is a heap-resident, reference-typed runtime datum. The
// core language has exactly one kind: interned/concatenated strings.
type HeapObject struct {
	Str string
}

func (o *HeapObject) String() string { return o.Str }

// Heap is an arena owning every Object allocated during a program's
// lifetime. Objects are appended and never removed or reclaimed, so a
// handle is simply a stable index into objects.
type Heap struct {
	objects []HeapObject
}

// NewHeap returns an empty Heap.
func NewHeap() *Heap {
	return &Heap{}
}

// Intern allocates a new Str object and returns a handle to it. Two
// calls with the same string content get distinct handles; Equal, not
// handle identity, is how the VM compares them.
func (h *Heap) Intern(s string) ObjHandle {
	h.objects = append(h.objects, HeapObject{Str: s})
	return ObjHandle(len(h.objects) - 1)
}

// Get dereferences a handle to its Object. The handle must have been
// produced by this Heap; out-of-range handles indicate a compiler or
// VM bug, not a program error, so this panics rather than returning
// an error.
func (h *Heap) Get(handle ObjHandle) *HeapObject {
	return &h.objects[handle]
}

// Equal compares two handles by the equality of the objects they
// reference, not by handle identity.
func (h *Heap) Equal(a, b ObjHandle) bool {
	return h.Get(a).Str == h.Get(b).Str
}

// Concat allocates a new Str object holding the concatenation of the
// two operand strings, implementing the VM's `Add` rule for
// Str+Str.
func (h *Heap) Concat(a, b ObjHandle) ObjHandle {
	return h.Intern(h.Get(a).Str + h.Get(b).Str)
}

// Len returns the number of objects retained by the heap so far.
// Exposed for tests.
func (h *Heap) Len() int { return len(h.objects) }
