package object

import "github.com/mna/lox/lang/value"

// NativeFn is a host-implemented callback exposed to lox programs as a
// callable value (spec.md §3's NativeFn object kind). Per spec.md §7, native
// functions cannot raise a structured runtime error: a non-nil error return
// means the native signals failure by printing to stderr and yielding nil,
// which is the VM call_value's responsibility, not the native's.
type NativeFn struct {
	value.Header
	Name string
	Arity int // -1 means variadic / not arity-checked
	Fn    func(args []value.Value) (value.Value, error)
}

var _ value.Obj = (*NativeFn)(nil)

func NewNativeFn(name string, arity int, fn func(args []value.Value) (value.Value, error)) *NativeFn {
	return &NativeFn{Header: value.Header{Type: value.ObjNative}, Name: name, Arity: arity, Fn: fn}
}

func (n *NativeFn) String() string { return "<native fn>" }
