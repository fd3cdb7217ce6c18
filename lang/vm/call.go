package vm

import (
	"fmt"

	"github.com/mna/lox/lang/object"
	"github.com/mna/lox/lang/value"
)

// callValue implements call_value (spec.md §4.7): dispatch on the callee's
// object kind. Returns false if a runtime error was raised (runtimeError
// has already been called).
func (vm *VM) callValue(callee value.Value, argc int) bool {
	if !callee.IsObj() {
		vm.runtimeError("Can only call functions and classes.")
		return false
	}

	switch c := callee.AsObj().(type) {
	case *object.Closure:
		return vm.call(c, argc)
	case *object.NativeFn:
		return vm.callNative(c, argc)
	case *object.Class:
		return vm.instantiate(c, argc)
	case *object.BoundMethod:
		// Write the receiver into the callable slot so `this` lands in slot 0.
		vm.stack[vm.stackTop-argc-1] = c.Receiver
		return vm.call(c.Method, argc)
	default:
		vm.runtimeError("Can only call functions and classes.")
		return false
	}
}

// call pushes a new frame for closure, checking arity (spec.md §4.7).
func (vm *VM) call(closure *object.Closure, argc int) bool {
	if argc != closure.Function.Arity {
		vm.runtimeError("Expected %d arguments but got %d.", closure.Function.Arity, argc)
		return false
	}
	if vm.frameCount >= FramesMax {
		vm.runtimeError("Stack overflow.")
		return false
	}

	f := &vm.frames[vm.frameCount]
	vm.frameCount++
	f.closure = closure
	f.ip = 0
	f.slots = vm.stackTop - argc - 1
	return true
}

func (vm *VM) callNative(n *object.NativeFn, argc int) bool {
	if n.Arity >= 0 && argc != n.Arity {
		vm.runtimeError("Expected %d arguments but got %d.", n.Arity, argc)
		return false
	}

	args := vm.stack[vm.stackTop-argc : vm.stackTop]
	result, err := n.Fn(args)
	vm.stackTop -= argc + 1
	if err != nil {
		// Native functions cannot raise a structured runtime error (spec.md
		// §7): they signal failure on stderr and yield nil.
		fmt.Fprintln(vm.stderr, err.Error())
		vm.push(value.Nil)
		return true
	}
	vm.push(result)
	return true
}

// instantiate implements the Class branch of call_value: construct a new
// Instance, replace the callable slot with it, and invoke `init` if present.
func (vm *VM) instantiate(class *object.Class, argc int) bool {
	inst := vm.alloc.NewInstance(class)
	vm.stack[vm.stackTop-argc-1] = value.FromObj(inst)

	if init, ok := class.FindMethod(vm.internedInitName()); ok {
		return vm.call(init, argc)
	}
	if argc != 0 {
		vm.runtimeError("Expected 0 arguments but got %d.", argc)
		return false
	}
	return true
}

// invoke implements the INVOKE fast path (spec.md §4.7): equivalent to
// GET_PROPERTY name followed by CALL argc, except when name resolves to a
// field rather than a method, in which case that field value is called.
func (vm *VM) invoke(name *value.String, argc int) bool {
	receiver := vm.peek(argc)
	if !receiver.IsObj() {
		vm.runtimeError("Only instances have methods.")
		return false
	}
	inst, ok := receiver.AsObj().(*object.Instance)
	if !ok {
		vm.runtimeError("Only instances have methods.")
		return false
	}

	if field, ok := inst.Fields.Get(name); ok {
		vm.stack[vm.stackTop-argc-1] = field
		return vm.callValue(field, argc)
	}
	return vm.invokeFromClass(inst.Class, name, argc)
}

func (vm *VM) invokeFromClass(class *object.Class, name *value.String, argc int) bool {
	method, ok := class.FindMethod(name)
	if !ok {
		vm.runtimeError("Undefined property '%s'.", name)
		return false
	}
	return vm.call(method, argc)
}

// internedInitName returns the canonical interned "init" string, used to
// look up a class's initializer. It interns the name through
// alloc.NewString on every call; the VM keeps no copy of it.
func (vm *VM) internedInitName() *value.String {
	return vm.alloc.NewString([]byte(initMethodName))
}
