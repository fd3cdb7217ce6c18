package gc_test

import (
	"testing"

	"github.com/mna/lox/lang/gc"
	"github.com/mna/lox/lang/table"
	"github.com/mna/lox/lang/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRoots lets a test pin an arbitrary set of values as GC roots.
type fakeRoots struct{ values []value.Value }

func (f *fakeRoots) MarkRoots(mark func(value.Value)) {
	for _, v := range f.values {
		mark(v)
	}
}

func TestCollectSweepsUnreachableObjects(t *testing.T) {
	a := gc.New(table.NewInterner())
	roots := &fakeRoots{}
	a.AddRoot(roots)

	kept := a.NewString([]byte("kept"))
	a.NewString([]byte("gone")) // nothing roots this one

	roots.values = []value.Value{value.FromObj(kept)}
	a.Collect()

	assert.Equal(t, int64(1), a.LiveObjects())
}

func TestStressModeCollectsOnEveryAllocation(t *testing.T) {
	a := gc.New(table.NewInterner())
	a.SetStressMode(true)
	roots := &fakeRoots{}
	a.AddRoot(roots)

	a.NewString([]byte("one"))
	assert.Equal(t, int64(1), a.LiveObjects(), "a new string survives the collection its own allocation triggers")
	assert.Equal(t, 1, a.Collections)
}

func TestClosureTracesFunctionAndUpvalues(t *testing.T) {
	a := gc.New(table.NewInterner())
	roots := &fakeRoots{}
	a.AddRoot(roots)

	fn := a.NewFunction()
	fn.UpvalueCount = 1
	cl := a.NewClosure(fn)
	slot := value.Number(1)
	uv := a.NewOpenUpvalue(&slot, 0)
	cl.Upvalues[0] = uv

	roots.values = []value.Value{value.FromObj(cl)}
	a.Collect()

	assert.True(t, fn.Marked == false, "sweep clears the mark bit on survivors")
	assert.Equal(t, int64(3), a.LiveObjects(), "closure, function, and upvalue all survive")
}

func TestInstanceTracesClassAndFields(t *testing.T) {
	a := gc.New(table.NewInterner())
	roots := &fakeRoots{}
	a.AddRoot(roots)

	name := a.NewString([]byte("Point"))
	class := a.NewClass(name)
	inst := a.NewInstance(class)
	fieldVal := a.NewString([]byte("value"))
	inst.Fields.Set(a.NewString([]byte("label")), value.FromObj(fieldVal))

	roots.values = []value.Value{value.FromObj(inst)}
	a.Collect()

	// inst, its class, the class name, the field key, and the field value.
	assert.Equal(t, int64(5), a.LiveObjects())
}

func TestWeakInternerEntryEvictedWhenUnreferenced(t *testing.T) {
	interner := table.NewInterner()
	a := gc.New(interner)
	roots := &fakeRoots{}
	a.AddRoot(roots)

	a.NewString([]byte("temp"))
	a.Collect()

	// The interner itself is not a root source here, so RemoveWeak drops the
	// entry and re-interning allocates a fresh object.
	again, isNew := interner.Intern([]byte("temp"))
	require.NotNil(t, again)
	assert.True(t, isNew)
}

func TestBoundMethodTracesReceiverAndMethod(t *testing.T) {
	a := gc.New(table.NewInterner())
	roots := &fakeRoots{}
	a.AddRoot(roots)

	class := a.NewClass(a.NewString([]byte("Obj")))
	inst := a.NewInstance(class)
	fn := a.NewFunction()
	method := a.NewClosure(fn)
	bound := a.NewBoundMethod(value.FromObj(inst), method)

	roots.values = []value.Value{value.FromObj(bound)}
	a.Collect()

	assert.True(t, inst.Marked == false)
	// class name string, class, instance, function, closure, bound method.
	assert.Equal(t, int64(6), a.LiveObjects())
}
