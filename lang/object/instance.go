package object

import (
	"github.com/mna/lox/lang/table"
	"github.com/mna/lox/lang/value"
)

// Instance is a runtime object of a Class: a bag of fields keyed by interned
// name, created by CALLing the class (spec.md §4.5.6's "calling a class
// value creates an instance"). Fields are resolved dynamically through
// GET_PROPERTY/SET_PROPERTY; there is no fixed layout the compiler can bake
// into a slot index, unlike locals.
type Instance struct {
	value.Header
	Class  *Class
	Fields *table.Table
}

var _ value.Obj = (*Instance)(nil)

func NewInstance(class *Class) *Instance {
	return &Instance{Header: value.Header{Type: value.ObjInstance}, Class: class, Fields: table.New()}
}

func (i *Instance) String() string { return i.Class.Name.String() + " instance" }
