// Package value implements the tagged-union Value representation described
// in spec.md §3/§4.1: nil, boolean, IEEE-754 double, or a reference to a
// heap-allocated object. It also defines the Obj interface and GC Header
// shared by every heap object kind (spec.md §3's "common header"), and the
// canonical interned String object, since the table and interner packages
// both need to name string keys without importing the higher-level object
// kinds (Function, Closure, Class, ...) defined in package object.
//
// Two representations satisfy spec.md §4.1 identically: a tagged struct, or
// NaN-boxing. This package takes the tagged-struct route, which is the
// idiomatic Go choice and keeps GC root-marking straightforward (no bit
// tricks to undo when tracing).
package value

import (
	"fmt"
	"math"
	"strconv"
)

// Kind identifies which alternative of the Value union is populated.
type Kind uint8

const (
	KindNil Kind = iota
	KindBool
	KindNumber
	KindObj
)

// A Value is any value the machine can hold on its stack or in a variable:
// nil, a boolean, a double, or a reference to a heap Obj.
type Value struct {
	kind Kind
	num  float64 // also stores the boolean as 0/1
	obj  Obj
}

// Nil is the singular nil value.
var Nil = Value{kind: KindNil}

// Bool returns the Value wrapping the given boolean.
func Bool(b bool) Value {
	if b {
		return Value{kind: KindBool, num: 1}
	}
	return Value{kind: KindBool, num: 0}
}

// Number returns the Value wrapping the given double.
func Number(n float64) Value { return Value{kind: KindNumber, num: n} }

// FromObj returns the Value referencing the given heap object. It panics if
// obj is nil; use value.Nil for the absence of a value.
func FromObj(obj Obj) Value {
	if obj == nil {
		panic("value: FromObj called with a nil Obj")
	}
	return Value{kind: KindObj, obj: obj}
}

func (v Value) IsNil() bool    { return v.kind == KindNil }
func (v Value) IsBool() bool   { return v.kind == KindBool }
func (v Value) IsNumber() bool { return v.kind == KindNumber }
func (v Value) IsObj() bool    { return v.kind == KindObj }

// AsBool returns the boolean payload. It is only meaningful if IsBool.
func (v Value) AsBool() bool { return v.num != 0 }

// AsNumber returns the double payload. It is only meaningful if IsNumber.
func (v Value) AsNumber() float64 { return v.num }

// AsObj returns the heap object reference. It is only meaningful if IsObj.
func (v Value) AsObj() Obj { return v.obj }

// Truthy implements spec.md §3's truthiness rule: nil and false are falsey,
// everything else (including 0 and the empty string) is truthy.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindNil:
		return false
	case KindBool:
		return v.AsBool()
	default:
		return true
	}
}

// Equals implements spec.md §3's equality rule: different kinds are never
// equal, NaN never equals itself, booleans/numbers compare by value, and
// objects compare by identity except strings (which are interned, so
// identity equality already implies content equality).
func (v Value) Equals(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNil:
		return true
	case KindBool:
		return v.AsBool() == o.AsBool()
	case KindNumber:
		return v.num == o.num // Go's == already yields false for NaN vs NaN
	case KindObj:
		return v.obj == o.obj
	default:
		return false
	}
}

// String renders the printable form of the value per spec.md §6. Printing of
// heap objects is delegated to the Obj's own String method; every concrete
// object kind in package object implements the specific forms spec.md §6
// lists (function, native, class, instance, bound method).
func (v Value) String() string {
	switch v.kind {
	case KindNil:
		return "nil"
	case KindBool:
		if v.AsBool() {
			return "true"
		}
		return "false"
	case KindNumber:
		return formatNumber(v.num)
	case KindObj:
		return v.obj.String()
	default:
		return fmt.Sprintf("<invalid value kind %d>", v.kind)
	}
}

// formatNumber mimics a %g-equivalent formatter (spec.md §6), using Go's
// shortest round-tripping representation and special-casing the infinities
// and NaN the same way the reference implementation's libc printf would.
func formatNumber(n float64) string {
	switch {
	case math.IsNaN(n):
		return "nan"
	case math.IsInf(n, 1):
		return "inf"
	case math.IsInf(n, -1):
		return "-inf"
	default:
		return strconv.FormatFloat(n, 'g', -1, 64)
	}
}

// Obj is implemented by every heap-allocated object kind: String, Function,
// Upvalue, Closure, NativeFn, Class, Instance, BoundMethod (spec.md §3's
// object table). Header is embedded by each concrete kind to give the GC a
// uniform way to mark objects and thread them into the sweep list.
type Obj interface {
	String() string
	ObjType() ObjType

	// Header returns the object's common GC header. Exported because Obj
	// implementations live in package object, outside this package.
	Header() *Header
}

// ObjType tags the dynamic kind of an Obj, mainly for error messages and the
// "Type()" sense alluded to in spec.md's value-kind discussion.
type ObjType uint8

const (
	ObjString ObjType = iota
	ObjFunction
	ObjUpvalue
	ObjClosure
	ObjNative
	ObjClass
	ObjInstance
	ObjBoundMethod
)

func (t ObjType) String() string {
	switch t {
	case ObjString:
		return "string"
	case ObjFunction:
		return "function"
	case ObjUpvalue:
		return "upvalue"
	case ObjClosure:
		return "closure"
	case ObjNative:
		return "native function"
	case ObjClass:
		return "class"
	case ObjInstance:
		return "instance"
	case ObjBoundMethod:
		return "bound method"
	default:
		return "unknown"
	}
}

// Header is the common object header from spec.md §3: a type tag, the GC
// mark bit, and the intrusive next-in-heap-list link used by sweep. Size
// records the byte cost charged against bytes_allocated at allocation time
// (spec.md §4.7's reallocate contract), so sweep can reverse the charge for
// an object it frees without recomputing a per-kind size. Every concrete Obj
// embeds a Header and gets Header()/ObjType() for free.
type Header struct {
	Type   ObjType
	Marked bool
	Next   Obj
	Size   int64
}

func (h *Header) Header() *Header  { return h }
func (h *Header) ObjType() ObjType { return h.Type }
