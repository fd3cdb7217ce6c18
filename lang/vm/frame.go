package vm

import (
	"github.com/mna/lox/lang/object"
	"github.com/mna/lox/lang/value"
)

// frame is a CallFrame (spec.md GLOSSARY): the per-invocation record holding
// the instruction pointer and the stack base. slots is the index into
// vm.stack of slot 0 for this invocation, so slot 0 is always the
// receiver/callable per spec.md §4.7's call convention.
type frame struct {
	closure *object.Closure
	ip      int
	slots   int
}

func (vm *VM) currentFrame() *frame { return &vm.frames[vm.frameCount-1] }

func (f *frame) readByte() byte {
	b := f.closure.Function.Chunk.Code[f.ip]
	f.ip++
	return b
}

func (f *frame) readShort() uint16 {
	hi := f.closure.Function.Chunk.Code[f.ip]
	lo := f.closure.Function.Chunk.Code[f.ip+1]
	f.ip += 2
	return uint16(hi)<<8 | uint16(lo)
}

func (f *frame) readConstant() value.Value {
	return f.closure.Function.Chunk.Constants[f.readByte()]
}

func (f *frame) readString() *value.String {
	return f.readConstant().AsObj().(*value.String)
}
