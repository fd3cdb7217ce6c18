package object

import (
	"github.com/mna/lox/lang/table"
	"github.com/mna/lox/lang/value"
)

// Class is a lox class: its name and a table mapping method name to Closure.
// Per spec.md §4.5.6, INHERIT copies a superclass's methods into the
// subclass's table at class-declaration time (shallow copy, not a live
// delegation chain), so method lookup at a Class never needs to walk a
// superclass pointer.
type Class struct {
	value.Header
	Name    *value.String
	Methods *table.Table
}

var _ value.Obj = (*Class)(nil)

func NewClass(name *value.String) *Class {
	return &Class{Header: value.Header{Type: value.ObjClass}, Name: name, Methods: table.New()}
}

func (c *Class) String() string { return c.Name.String() }

// FindMethod looks up name as an interned method name; the caller is
// responsible for interning name first so pointer identity, not content, is
// compared, matching every other Table lookup in the system.
func (c *Class) FindMethod(name *value.String) (*Closure, bool) {
	v, ok := c.Methods.Get(name)
	if !ok {
		return nil, false
	}
	return v.AsObj().(*Closure), true
}
