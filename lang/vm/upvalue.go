package vm

import "github.com/mna/lox/lang/object"

// captureUpvalue implements capture_upvalue (spec.md §4.7): the VM's open
// upvalues form a singly-linked list sorted by stack slot, deepest first, so
// two closures capturing the same local share one Upvalue.
func (vm *VM) captureUpvalue(slot int) *object.Upvalue {
	var prev *object.Upvalue
	cur := vm.openUpvalues
	for cur != nil && cur.Slot > slot {
		prev = cur
		cur = cur.Next
	}
	if cur != nil && cur.Slot == slot {
		return cur
	}

	created := vm.alloc.NewOpenUpvalue(&vm.stack[slot], slot)
	created.Next = cur
	if prev == nil {
		vm.openUpvalues = created
	} else {
		prev.Next = created
	}
	return created
}

// closeUpvalues implements close_upvalues (spec.md §4.7): every open upvalue
// at or above last has its value lifted onto the heap and is unlinked from
// the VM's open list, since the stack slots it referenced are about to be
// popped or reused.
func (vm *VM) closeUpvalues(last int) {
	for vm.openUpvalues != nil && vm.openUpvalues.Slot >= last {
		uv := vm.openUpvalues
		uv.Close()
		vm.openUpvalues = uv.Next
	}
}
