// Package object implements the heap object kinds from spec.md §3 that sit
// above the bare String type already defined in package value: Function,
// Upvalue, Closure, NativeFn, Class, Instance, and BoundMethod. It is
// grounded in the teacher's lang/machine/function.go (Function/Module split),
// lang/machine/cell.go (the open/closed duality modeled here by Upvalue), and
// lang/machine/frame.go (the receiver-in-slot-0 calling convention BoundMethod
// and Class construction rely on).
package object

import (
	"fmt"

	"github.com/mna/lox/lang/chunk"
	"github.com/mna/lox/lang/value"
)

// Function is a compiled function prototype: its arity, the number of
// upvalues its closures must allocate, and its chunk. A Function is produced
// once, at the end of compiling a function declaration or the top-level
// script, and never mutated afterward (spec.md §3's lifecycle invariant).
type Function struct {
	value.Header
	Arity        int
	UpvalueCount int
	Chunk        *chunk.Chunk
	Name         *value.String // nil for the top-level script
}

var _ value.Obj = (*Function)(nil)

// NewFunction returns an empty Function prototype ready for the compiler to
// emit into its Chunk.
func NewFunction() *Function {
	return &Function{
		Header: value.Header{Type: value.ObjFunction},
		Chunk:  chunk.New(),
	}
}

func (f *Function) String() string {
	if f.Name == nil {
		return "<script>"
	}
	return fmt.Sprintf("<fn %s>", f.Name)
}

// UpvalueCountOf satisfies the small interface chunk.Disassemble uses to
// print CLOSURE operands without importing package object (which would
// create an import cycle, since Function.Chunk is a *chunk.Chunk).
func (f *Function) UpvalueCountOf() int { return f.UpvalueCount }
