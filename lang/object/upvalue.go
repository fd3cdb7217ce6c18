package object

import "github.com/mna/lox/lang/value"

// Upvalue mediates a closure's access to a variable that belongs to an
// enclosing function's stack frame. It starts open, sharing a live stack
// slot (Location points into the VM's value stack); once the slot is about
// to go out of scope, the VM closes it (spec.md §3): the slot's value is
// copied into Closed and Location is redirected to point at that field. The
// transition happens exactly once and never changes the Upvalue's identity,
// so every closure sharing it observes the same value thereafter.
//
// Next threads open upvalues into the VM's sorted singly-linked list (deepest
// stack slot first), per spec.md §4.7's capture_upvalue/close_upvalues.
type Upvalue struct {
	value.Header
	Location *value.Value
	Closed   value.Value
	Next     *Upvalue

	// Slot records the stack index Location refers to while open, so the VM
	// can keep its open-upvalue list ordered and decide which upvalues a
	// CLOSE_UPVALUE/frame pop must close without comparing raw pointers.
	// Meaningless once Close has run.
	Slot int
}

var _ value.Obj = (*Upvalue)(nil)

// NewOpenUpvalue returns an Upvalue sharing the given stack slot.
func NewOpenUpvalue(slot *value.Value, slotIndex int) *Upvalue {
	return &Upvalue{Header: value.Header{Type: value.ObjUpvalue}, Location: slot, Slot: slotIndex}
}

// Close lifts the upvalue's value off the stack and onto the heap, and
// redirects Location to the now-owned Closed field.
func (u *Upvalue) Close() {
	u.Closed = *u.Location
	u.Location = &u.Closed
}

func (u *Upvalue) String() string { return "upvalue" }
