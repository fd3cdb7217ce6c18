package vm

import (
	"fmt"

	"github.com/mna/lox/lang/chunk"
	"github.com/mna/lox/lang/object"
	"github.com/mna/lox/lang/value"
)

// run is the fetch-dispatch loop (spec.md §4.7): one opcode at a time,
// reading operands out of the current frame's chunk via the frame's own ip,
// until OP_RETURN unwinds the last frame or a runtime error aborts
// execution. There is no suspension point inside a single step: a step
// either completes or the whole interpreter stops (spec.md §5's scheduling
// model).
func (vm *VM) run() Result {
	for {
		if vm.MaxSteps > 0 {
			vm.steps++
			if vm.steps > vm.MaxSteps {
				vm.runtimeError("Step limit exceeded.")
				return ResultRuntimeError
			}
		}

		f := vm.currentFrame()
		instr := chunk.Op(f.readByte())

		switch instr {
		case chunk.OpConstant:
			vm.push(f.readConstant())

		case chunk.OpNil:
			vm.push(value.Nil)
		case chunk.OpTrue:
			vm.push(value.Bool(true))
		case chunk.OpFalse:
			vm.push(value.Bool(false))

		case chunk.OpPop:
			vm.pop()

		case chunk.OpGetLocal:
			slot := int(f.readByte())
			vm.push(vm.stack[f.slots+slot])
		case chunk.OpSetLocal:
			slot := int(f.readByte())
			vm.stack[f.slots+slot] = vm.peek(0)

		case chunk.OpGetGlobal:
			name := f.readString()
			v, ok := vm.globals.Get(name)
			if !ok {
				vm.runtimeError("Undefined variable '%s'.", name)
				return ResultRuntimeError
			}
			vm.push(v)
		case chunk.OpSetGlobal:
			name := f.readString()
			if vm.globals.Set(name, vm.peek(0)) {
				vm.globals.Delete(name)
				vm.runtimeError("Undefined variable '%s'.", name)
				return ResultRuntimeError
			}
		case chunk.OpDefineGlobal:
			name := f.readString()
			vm.globals.Set(name, vm.peek(0))
			vm.pop()

		case chunk.OpGetUpvalue:
			slot := int(f.readByte())
			vm.push(*f.closure.Upvalues[slot].Location)
		case chunk.OpSetUpvalue:
			slot := int(f.readByte())
			*f.closure.Upvalues[slot].Location = vm.peek(0)

		case chunk.OpGetProperty:
			name := f.readString()
			if !vm.getProperty(name) {
				return ResultRuntimeError
			}
		case chunk.OpSetProperty:
			name := f.readString()
			if !vm.setProperty(name) {
				return ResultRuntimeError
			}
		case chunk.OpGetSuper:
			name := f.readString()
			if !vm.getSuper(name) {
				return ResultRuntimeError
			}

		case chunk.OpEqual:
			b := vm.pop()
			a := vm.pop()
			vm.push(value.Bool(a.Equals(b)))
		case chunk.OpGreater:
			if !vm.binaryNumberOp(func(a, b float64) value.Value { return value.Bool(a > b) }) {
				return ResultRuntimeError
			}
		case chunk.OpLess:
			if !vm.binaryNumberOp(func(a, b float64) value.Value { return value.Bool(a < b) }) {
				return ResultRuntimeError
			}

		case chunk.OpAdd:
			if !vm.add() {
				return ResultRuntimeError
			}
		case chunk.OpSubtract:
			if !vm.binaryNumberOp(func(a, b float64) value.Value { return value.Number(a - b) }) {
				return ResultRuntimeError
			}
		case chunk.OpMultiply:
			if !vm.binaryNumberOp(func(a, b float64) value.Value { return value.Number(a * b) }) {
				return ResultRuntimeError
			}
		case chunk.OpDivide:
			if !vm.binaryNumberOp(func(a, b float64) value.Value { return value.Number(a / b) }) {
				return ResultRuntimeError
			}

		case chunk.OpNot:
			vm.push(value.Bool(!vm.pop().Truthy()))
		case chunk.OpNegate:
			if !vm.peek(0).IsNumber() {
				vm.runtimeError("Operand must be a number.")
				return ResultRuntimeError
			}
			vm.push(value.Number(-vm.pop().AsNumber()))

		case chunk.OpPrint:
			fmt.Fprintln(vm.stdout, vm.pop().String())

		case chunk.OpJump:
			offset := int(f.readShort())
			f.ip += offset
		case chunk.OpJumpIfFalse:
			offset := int(f.readShort())
			if !vm.peek(0).Truthy() {
				f.ip += offset
			}
		case chunk.OpLoop:
			offset := int(f.readShort())
			f.ip -= offset

		case chunk.OpCall:
			argc := int(f.readByte())
			if !vm.callValue(vm.peek(argc), argc) {
				return ResultRuntimeError
			}
		case chunk.OpInvoke:
			name := f.readString()
			argc := int(f.readByte())
			if !vm.invoke(name, argc) {
				return ResultRuntimeError
			}
		case chunk.OpSuperInvoke:
			name := f.readString()
			argc := int(f.readByte())
			if !vm.superInvoke(name, argc) {
				return ResultRuntimeError
			}

		case chunk.OpClosure:
			fn := f.readConstant().AsObj().(*object.Function)
			closure := vm.alloc.NewClosure(fn)
			vm.push(value.FromObj(closure))
			for i := 0; i < fn.UpvalueCount; i++ {
				isLocal := f.readByte()
				index := int(f.readByte())
				if isLocal != 0 {
					closure.Upvalues[i] = vm.captureUpvalue(f.slots + index)
				} else {
					closure.Upvalues[i] = f.closure.Upvalues[index]
				}
			}
		case chunk.OpCloseUpvalue:
			vm.closeUpvalues(vm.stackTop - 1)
			vm.pop()

		case chunk.OpReturn:
			result := vm.pop()
			vm.closeUpvalues(f.slots)
			vm.frameCount--
			if vm.frameCount == 0 {
				vm.pop() // the top-level script closure itself
				return ResultOK
			}
			vm.stackTop = f.slots
			vm.push(result)

		case chunk.OpClass:
			name := f.readString()
			vm.push(value.FromObj(vm.alloc.NewClass(name)))
		case chunk.OpInherit:
			superVal := vm.peek(1)
			if !superVal.IsObj() {
				vm.runtimeError("Superclass must be a class.")
				return ResultRuntimeError
			}
			superclass, ok := superVal.AsObj().(*object.Class)
			if !ok {
				vm.runtimeError("Superclass must be a class.")
				return ResultRuntimeError
			}
			subclass := vm.peek(0).AsObj().(*object.Class)
			superclass.Methods.CopyAllInto(subclass.Methods)
			vm.pop() // the subclass; the superclass local remains beneath it
		case chunk.OpMethod:
			name := f.readString()
			method := vm.peek(0).AsObj().(*object.Closure)
			class := vm.peek(1).AsObj().(*object.Class)
			class.Methods.Set(name, value.FromObj(method))
			vm.pop()

		default:
			vm.runtimeError("Unknown opcode %d.", instr)
			return ResultRuntimeError
		}
	}
}

// binaryNumberOp implements the numeric binary operators that have no
// string-operand alternative (spec.md §4.7): both operands must be numbers.
func (vm *VM) binaryNumberOp(op func(a, b float64) value.Value) bool {
	if !vm.peek(0).IsNumber() || !vm.peek(1).IsNumber() {
		vm.runtimeError("Operands must be numbers.")
		return false
	}
	b := vm.pop().AsNumber()
	a := vm.pop().AsNumber()
	vm.push(op(a, b))
	return true
}

// add implements OP_ADD's two-shape rule (spec.md §3/§4.7): number + number
// sums, string + string concatenates (via the interner, so two concatenated
// literals that happen to spell an already-interned string collapse to the
// existing object), anything else is a type error.
func (vm *VM) add() bool {
	b, a := vm.peek(0), vm.peek(1)
	switch {
	case a.IsNumber() && b.IsNumber():
		vm.pop()
		vm.pop()
		vm.push(value.Number(a.AsNumber() + b.AsNumber()))
		return true
	case isString(a) && isString(b):
		vm.pop()
		vm.pop()
		concat := append(append([]byte{}, asString(a).Data...), asString(b).Data...)
		vm.push(value.FromObj(vm.alloc.NewString(concat)))
		return true
	default:
		vm.runtimeError("Operands for operator '+' not supported.")
		return false
	}
}

func isString(v value.Value) bool {
	if !v.IsObj() {
		return false
	}
	_, ok := v.AsObj().(*value.String)
	return ok
}

func asString(v value.Value) *value.String { return v.AsObj().(*value.String) }
