package vm

import (
	"github.com/mna/lox/lang/object"
	"github.com/mna/lox/lang/value"
)

// getProperty implements OP_GET_PROPERTY (spec.md §4.7): a field read wins
// over a method of the same name; a method not shadowed by a field is
// bound into a BoundMethod rather than called immediately.
func (vm *VM) getProperty(name *value.String) bool {
	receiver := vm.peek(0)
	if !receiver.IsObj() {
		vm.runtimeError("Only instances have properties.")
		return false
	}
	inst, ok := receiver.AsObj().(*object.Instance)
	if !ok {
		vm.runtimeError("Only instances have properties.")
		return false
	}

	if v, ok := inst.Fields.Get(name); ok {
		vm.pop() // instance
		vm.push(v)
		return true
	}

	method, ok := inst.Class.FindMethod(name)
	if !ok {
		vm.runtimeError("Undefined property '%s'.", name)
		return false
	}
	bound := vm.alloc.NewBoundMethod(receiver, method)
	vm.pop() // instance
	vm.push(value.FromObj(bound))
	return true
}

// setProperty implements OP_SET_PROPERTY: lox instances are open, so a
// write always succeeds, creating the field if absent.
func (vm *VM) setProperty(name *value.String) bool {
	receiver := vm.peek(1)
	if !receiver.IsObj() {
		vm.runtimeError("Only instances have fields.")
		return false
	}
	inst, ok := receiver.AsObj().(*object.Instance)
	if !ok {
		vm.runtimeError("Only instances have fields.")
		return false
	}

	v := vm.pop()
	inst.Fields.Set(name, v)
	vm.pop() // instance
	vm.push(v)
	return true
}

// getSuper implements OP_GET_SUPER: resolves name on the superclass bound
// over the receiver left on the stack beneath it (spec.md §4.5.6/§4.7).
func (vm *VM) getSuper(name *value.String) bool {
	superclass := vm.pop().AsObj().(*object.Class)
	receiver := vm.pop()

	method, ok := superclass.FindMethod(name)
	if !ok {
		vm.runtimeError("Undefined property '%s'.", name)
		return false
	}
	bound := vm.alloc.NewBoundMethod(receiver, method)
	vm.push(value.FromObj(bound))
	return true
}

// superInvoke implements OP_SUPER_INVOKE: the INVOKE fast path specialized
// to a known superclass, skipping the BoundMethod allocation.
func (vm *VM) superInvoke(name *value.String, argc int) bool {
	superclass := vm.pop().AsObj().(*object.Class)
	return vm.invokeFromClass(superclass, name, argc)
}
