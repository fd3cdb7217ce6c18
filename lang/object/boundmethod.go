package object

import "github.com/mna/lox/lang/value"

// BoundMethod pairs an Instance (the receiver) with one of its class's
// Closures, produced by a GET_PROPERTY that resolves to a method rather than
// a field (spec.md §4.5.6). Calling it must push Receiver into the callee's
// slot 0 in place of the BoundMethod value itself, so `this` resolves inside
// the method body.
type BoundMethod struct {
	value.Header
	Receiver value.Value
	Method   *Closure
}

var _ value.Obj = (*BoundMethod)(nil)

func NewBoundMethod(receiver value.Value, method *Closure) *BoundMethod {
	return &BoundMethod{Header: value.Header{Type: value.ObjBoundMethod}, Receiver: receiver, Method: method}
}

func (b *BoundMethod) String() string { return b.Method.String() }
