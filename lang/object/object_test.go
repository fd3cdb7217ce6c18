package object_test

import (
	"testing"

	"github.com/mna/lox/lang/object"
	"github.com/mna/lox/lang/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFunctionString(t *testing.T) {
	script := object.NewFunction()
	assert.Equal(t, "<script>", script.String())

	named := object.NewFunction()
	named.Name = value.NewString([]byte("add"))
	assert.Equal(t, "<fn add>", named.String())
}

func TestClosureNameFallsBackToScript(t *testing.T) {
	fn := object.NewFunction()
	cl := object.NewClosure(fn)
	assert.Equal(t, "script", cl.Name())

	fn.Name = value.NewString([]byte("main"))
	assert.Equal(t, "main", cl.Name())
	assert.Equal(t, "<fn main>", cl.String())
}

func TestClosureAllocatesUpvalueSlots(t *testing.T) {
	fn := object.NewFunction()
	fn.UpvalueCount = 3
	cl := object.NewClosure(fn)
	assert.Len(t, cl.Upvalues, 3)
	for _, uv := range cl.Upvalues {
		assert.Nil(t, uv)
	}
}

func TestUpvalueOpenThenClose(t *testing.T) {
	slot := value.Number(7)
	uv := object.NewOpenUpvalue(&slot, 0)
	assert.Equal(t, &slot, uv.Location)

	slot = value.Number(42)
	uv.Close()
	assert.Equal(t, value.Number(42), uv.Closed)
	assert.Equal(t, &uv.Closed, uv.Location)

	// Mutating the original stack slot no longer affects the closed upvalue.
	slot = value.Number(99)
	assert.Equal(t, value.Number(42), *uv.Location)
}

func TestNativeFnString(t *testing.T) {
	fn := object.NewNativeFn("clock", 0, func(args []value.Value) (value.Value, error) {
		return value.Number(0), nil
	})
	assert.Equal(t, "<native fn>", fn.String())
}

func TestClassFindMethod(t *testing.T) {
	name := value.NewString([]byte("Animal"))
	class := object.NewClass(name)
	assert.Equal(t, "Animal", class.String())

	_, ok := class.FindMethod(value.NewString([]byte("speak")))
	assert.False(t, ok)

	fn := object.NewFunction()
	fn.Name = value.NewString([]byte("speak"))
	method := object.NewClosure(fn)
	class.Methods.Set(value.NewString([]byte("speak")), value.FromObj(method))

	got, ok := class.FindMethod(value.NewString([]byte("speak")))
	require.True(t, ok)
	assert.Same(t, method, got)
}

func TestInstanceStringAndFields(t *testing.T) {
	class := object.NewClass(value.NewString([]byte("Point")))
	inst := object.NewInstance(class)
	assert.Equal(t, "Point instance", inst.String())

	inst.Fields.Set(value.NewString([]byte("x")), value.Number(1))
	v, ok := inst.Fields.Get(value.NewString([]byte("x")))
	require.True(t, ok)
	assert.Equal(t, value.Number(1), v)
}

func TestBoundMethodString(t *testing.T) {
	class := object.NewClass(value.NewString([]byte("Point")))
	inst := object.NewInstance(class)
	fn := object.NewFunction()
	fn.Name = value.NewString([]byte("dist"))
	method := object.NewClosure(fn)

	bound := object.NewBoundMethod(value.FromObj(inst), method)
	assert.Equal(t, "<fn dist>", bound.String())
	assert.Equal(t, value.FromObj(inst), bound.Receiver)
}
