package object

import "github.com/mna/lox/lang/value"

// Closure pairs a Function prototype with the specific Upvalue bindings
// captured at the moment of its creation (spec.md's GLOSSARY). The closure
// owns the Upvalues slice, not the Upvalues themselves — those may be shared
// with other closures that captured the same enclosing local.
type Closure struct {
	value.Header
	Function *Function
	Upvalues []*Upvalue
}

var _ value.Obj = (*Closure)(nil)

// NewClosure allocates a Closure over fn with len(fn.UpvalueCount) upvalue
// slots, initially nil (filled in by the VM's CLOSURE instruction handler as
// it resolves each captured binding).
func NewClosure(fn *Function) *Closure {
	return &Closure{
		Header:   value.Header{Type: value.ObjClosure},
		Function: fn,
		Upvalues: make([]*Upvalue, fn.UpvalueCount),
	}
}

func (c *Closure) String() string { return c.Function.String() }

// Name returns the closure's function name, used in VM stack traces
// (spec.md §6's "[line N] in <name>()").
func (c *Closure) Name() string {
	if c.Function.Name == nil {
		return "script"
	}
	return c.Function.Name.String()
}
