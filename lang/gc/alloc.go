package gc

import (
	"github.com/mna/lox/lang/object"
	"github.com/mna/lox/lang/value"
)

// Approximate per-kind byte costs charged against bytes_allocated. These
// mirror the reference implementation's sizeof(ObjWhatever) accounting
// closely enough to make the stress-GC threshold arithmetic meaningful;
// exact numbers are not externally observable (spec.md never pins a byte
// count, only the threshold-crossing behavior).
const (
	sizeString      = 24
	sizeFunction    = 64
	sizeUpvalue     = 24
	sizeClosureBase = 32
	sizeUpvalueSlot = 8
	sizeNativeFn    = 40
	sizeClass       = 40
	sizeInstance    = 40
	sizeBoundMethod = 24
)

// NewString interns data and registers the result with the collector if it
// was not already present. Per spec.md §4.8, interning is content-addressed:
// asking for bytes already interned returns the existing *value.String
// without allocating or touching bytes_allocated again.
//
// Intern only ever places s in the interner's *weak* table, so between
// Intern returning and the caller rooting s permanently (a VM stack push, a
// chunk constant, ...) s is not reachable from anything a collection marks.
// register may itself trigger that collection (stress mode, or crossing
// next_gc_threshold); pinning s as a temp root across the call keeps it
// alive through its own allocation instead of being evicted by RemoveWeak
// and swept before the caller ever sees it.
func (a *Allocator) NewString(data []byte) *value.String {
	s, isNew := a.interner.Intern(data)
	if isNew {
		a.pinTemp(value.FromObj(s))
		a.register(s, sizeString+int64(len(data)))
		a.unpinTemp()
	}
	return s
}

// NewFunction allocates and registers an empty function prototype.
func (a *Allocator) NewFunction() *object.Function {
	fn := object.NewFunction()
	a.register(fn, sizeFunction)
	return fn
}

// NewOpenUpvalue allocates and registers an Upvalue open over the given
// stack slot index.
func (a *Allocator) NewOpenUpvalue(slot *value.Value, slotIndex int) *object.Upvalue {
	uv := object.NewOpenUpvalue(slot, slotIndex)
	a.register(uv, sizeUpvalue)
	return uv
}

// NewClosure allocates and registers a Closure over fn.
func (a *Allocator) NewClosure(fn *object.Function) *object.Closure {
	cl := object.NewClosure(fn)
	a.register(cl, sizeClosureBase+sizeUpvalueSlot*int64(len(cl.Upvalues)))
	return cl
}

// NewNativeFn allocates and registers a native callback.
func (a *Allocator) NewNativeFn(name string, arity int, fn func(args []value.Value) (value.Value, error)) *object.NativeFn {
	n := object.NewNativeFn(name, arity, fn)
	a.register(n, sizeNativeFn)
	return n
}

// NewClass allocates and registers a Class.
func (a *Allocator) NewClass(name *value.String) *object.Class {
	c := object.NewClass(name)
	a.register(c, sizeClass)
	return c
}

// NewInstance allocates and registers an Instance of class.
func (a *Allocator) NewInstance(class *object.Class) *object.Instance {
	inst := object.NewInstance(class)
	a.register(inst, sizeInstance)
	return inst
}

// NewBoundMethod allocates and registers a BoundMethod.
func (a *Allocator) NewBoundMethod(receiver value.Value, method *object.Closure) *object.BoundMethod {
	b := object.NewBoundMethod(receiver, method)
	a.register(b, sizeBoundMethod)
	return b
}
