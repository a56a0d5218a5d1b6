package debugger

import "fmt"

// Breakpoint pauses the debugger when the VM's instruction pointer
// reaches Pos, adapted from the arm-emulator debugger's address-keyed
// breakpoints (spec has no addresses — a chunk's byte offset plays
// the same role).
type Breakpoint struct {
	ID  int
	Pos int
}

// BreakpointManager owns the set of active breakpoints, keyed by
// chunk byte position so a lookup at each step is O(1).
type BreakpointManager struct {
	breakpoints map[int]*Breakpoint
	nextID      int
}

func NewBreakpointManager() *BreakpointManager {
	return &BreakpointManager{
		breakpoints: make(map[int]*Breakpoint),
		nextID:      1,
	}
}

// Add sets a breakpoint at pos, replacing any existing one there.
func (bm *BreakpointManager) Add(pos int) *Breakpoint {
	bp := &Breakpoint{ID: bm.nextID, Pos: pos}
	bm.nextID++
	bm.breakpoints[pos] = bp
	return bp
}

// Delete removes the breakpoint with the given ID, if any.
func (bm *BreakpointManager) Delete(id int) error {
	for pos, bp := range bm.breakpoints {
		if bp.ID == id {
			delete(bm.breakpoints, pos)
			return nil
		}
	}
	return fmt.Errorf("no breakpoint with id %d", id)
}

// At reports whether pos carries a breakpoint.
func (bm *BreakpointManager) At(pos int) (*Breakpoint, bool) {
	bp, ok := bm.breakpoints[pos]
	return bp, ok
}

// All returns every active breakpoint, in no particular order.
func (bm *BreakpointManager) All() []*Breakpoint {
	out := make([]*Breakpoint, 0, len(bm.breakpoints))
	for _, bp := range bm.breakpoints {
		out = append(out, bp)
	}
	return out
}
