// Package gc implements the precise mark-sweep collector from spec.md §4.7:
// a single allocator every heap object passes through, an intrusive
// next-in-heap-list thread rooted at the allocator (mirroring spec.md §3's
// "common header"), and a gray-stack tracing pass cooperating with root
// sources registered by the VM and the compiler.
//
// There is no teacher analogue for this module: the teacher's machine
// package runs on Go's own garbage collector and never manages memory
// directly. This package is grounded instead directly in spec.md §4.7's
// algorithm description, expressed the way the rest of this codebase
// expresses a stateful subsystem — a struct with an explicit constructor and
// narrow, verb-named methods.
package gc

import (
	"github.com/mna/lox/lang/object"
	"github.com/mna/lox/lang/table"
	"github.com/mna/lox/lang/value"
)

// growFactor is spec.md §4.7's GROW_FACTOR: next_gc_threshold = bytes_allocated * growFactor.
const growFactor = 2

// defaultThreshold is the initial next_gc_threshold, chosen generously so a
// typical short script never collects before exiting, matching the
// reference implementation's default of 1 MiB.
const defaultThreshold = 1 << 20

// RootSource is implemented by anything the collector must ask for roots:
// the VM (stack, frames, open upvalues, globals) and the compiler chain
// (spec.md §4.7's mark_roots ordering — unordered for correctness, but VM
// roots are marked before compiler roots here since compilation completes
// before execution begins in this implementation).
type RootSource interface {
	MarkRoots(mark func(value.Value))
}

// Allocator is the single point every heap allocation in the system passes
// through (spec.md §4.7's "reallocate" contract) and the collector that
// walks it. Its zero value is not usable; construct with New.
type Allocator struct {
	interner *table.Interner
	roots    []RootSource

	// compilerRoot is the currently active compiler's root source, if any
	// (spec.md §4.8's "compiler chain" root). Only one compilation runs at a
	// time under the single-threaded model, so a single slot suffices; the
	// compiler clears it when done rather than leaving a stale root pinned.
	compilerRoot RootSource

	head  value.Obj // most recently allocated object; threads via Header().Next
	gray  []value.Obj
	count int64 // live objects, for diagnostics only

	// tempRoots pins values that have no permanent root yet but must survive
	// a collection triggered by their own allocation — e.g. a freshly
	// interned string, reachable only from the interner's weak table until
	// its caller places it on the VM stack or in a chunk's constant pool
	// (spec.md §4.8's compiler cooperation, §8's interning and stress-GC
	// invariants).
	tempRoots []value.Value

	bytesAllocated int64
	nextGC         int64
	stress         bool

	// Collections counts completed mark-sweep passes, exposed for tests and
	// for a future diagnostics command; it has no effect on behavior.
	Collections int
}

// New returns an Allocator whose weak-keyed interner is notified of
// unreferenced strings on every collection (spec.md §4.7 step 3).
func New(interner *table.Interner) *Allocator {
	return &Allocator{interner: interner, nextGC: defaultThreshold}
}

// SetStressMode forces a collection on every single allocation when on,
// per spec.md §4.7's stress flag — used by tests that want to catch a root
// that was not pinned.
func (a *Allocator) SetStressMode(on bool) { a.stress = on }

// AddRoot registers a source of GC roots. The VM registers itself once at
// startup; the compiler does not use this list and installs its
// enclosing-chain walker through SetCompilerRoot instead.
func (a *Allocator) AddRoot(r RootSource) { a.roots = append(a.roots, r) }

// SetCompilerRoot pins r as the active compiler's root source; a nil-safe
// MarkRoots check means passing nil clears it. The compiler calls this at
// the start and end of Compile so allocations made mid-compilation cannot
// be swept out from under an in-flight function or identifier string.
func (a *Allocator) SetCompilerRoot(r RootSource) { a.compilerRoot = r }

// pinTemp and unpinTemp bracket a register call (or any other code) that
// must not let v be swept by a collection it triggers itself, before the
// caller has had a chance to root it permanently. Callers must unpinTemp in
// the same order they pinTemp (stack discipline) and must not let a pinned
// value escape past the matching unpinTemp.
func (a *Allocator) pinTemp(v value.Value) { a.tempRoots = append(a.tempRoots, v) }

func (a *Allocator) unpinTemp() { a.tempRoots = a.tempRoots[:len(a.tempRoots)-1] }

// register threads obj into the intrusive heap list, charges its size
// against bytes_allocated, and triggers a collection if the stress flag is
// set or the new total exceeds next_gc_threshold (spec.md §4.7). obj is
// pinned across that collection, since its caller has not rooted it yet.
func (a *Allocator) register(obj value.Obj, size int64) {
	h := obj.Header()
	h.Size = size
	h.Next = a.head
	a.head = obj
	a.count++
	a.bytesAllocated += size

	if a.stress || a.bytesAllocated > a.nextGC {
		a.pinTemp(value.FromObj(obj))
		a.Collect()
		a.unpinTemp()
	}
}

// Collect runs one full mark-sweep pass: mark every registered root, trace
// to a fixed point, drop weak interner entries, sweep unmarked objects, and
// recompute the next threshold (spec.md §4.7 steps 1-5).
func (a *Allocator) Collect() {
	for _, v := range a.tempRoots {
		a.markValue(v)
	}
	for _, r := range a.roots {
		r.MarkRoots(a.markValue)
	}
	if a.compilerRoot != nil {
		a.compilerRoot.MarkRoots(a.markValue)
	}
	a.trace()
	if a.interner != nil {
		a.interner.RemoveWeak()
	}
	a.sweep()

	a.nextGC = a.bytesAllocated * growFactor
	if a.nextGC < defaultThreshold {
		a.nextGC = defaultThreshold
	}
	a.Collections++
}

// markValue marks v's object payload gray, if it carries one.
func (a *Allocator) markValue(v value.Value) {
	if v.IsObj() {
		a.markObject(v.AsObj())
	}
}

// markObject marks obj black-pending (sets the bit, pushes to the gray
// stack) unless it is already marked, matching spec.md §4.7's "repeatedly
// pop a gray object" worklist description.
func (a *Allocator) markObject(obj value.Obj) {
	if obj == nil {
		return
	}
	h := obj.Header()
	if h.Marked {
		return
	}
	h.Marked = true
	a.gray = append(a.gray, obj)
}

// trace drains the gray stack, blackening each object by marking its
// outgoing references (spec.md §4.7 step 2).
func (a *Allocator) trace() {
	for len(a.gray) > 0 {
		obj := a.gray[len(a.gray)-1]
		a.gray = a.gray[:len(a.gray)-1]
		a.blacken(obj)
	}
}

// blacken marks obj's direct references, per-kind, per spec.md §4.7's
// traversal table.
func (a *Allocator) blacken(obj value.Obj) {
	switch o := obj.(type) {
	case *value.String:
		// No outgoing references.
	case *object.Function:
		if o.Name != nil {
			a.markObject(o.Name)
		}
		for _, c := range o.Chunk.Constants {
			a.markValue(c)
		}
	case *object.Upvalue:
		// Safe to mark even while open: Closed is the zero Value then, and
		// marking a nil-kind value is a no-op.
		a.markValue(o.Closed)
	case *object.Closure:
		a.markObject(o.Function)
		for _, uv := range o.Upvalues {
			if uv != nil {
				a.markObject(uv)
			}
		}
	case *object.NativeFn:
		// No outgoing references.
	case *object.Class:
		a.markObject(o.Name)
		o.Methods.MarkRoots(a.markValue)
	case *object.Instance:
		a.markObject(o.Class)
		o.Fields.MarkRoots(a.markValue)
	case *object.BoundMethod:
		a.markValue(o.Receiver)
		a.markObject(o.Method)
	}
}

// sweep walks the intrusive heap list, unlinking every object that was not
// reached this pass and clearing the mark bit on survivors (spec.md §4.7
// step 4). Unlinked objects become unreachable from the allocator and are
// reclaimed by the host runtime's own collector on its own schedule; only
// the bookkeeping (bytes_allocated, live count) is synchronous here.
func (a *Allocator) sweep() {
	var prev value.Obj
	obj := a.head
	for obj != nil {
		h := obj.Header()
		next := h.Next
		if h.Marked {
			h.Marked = false
			prev = obj
		} else {
			if prev == nil {
				a.head = next
			} else {
				prev.Header().Next = next
			}
			a.bytesAllocated -= h.Size
			a.count--
		}
		obj = next
	}
}

// BytesAllocated reports the collector's current live-byte estimate.
func (a *Allocator) BytesAllocated() int64 { return a.bytesAllocated }

// LiveObjects reports the number of objects currently threaded into the
// heap list, for tests asserting that sweep actually reclaimed something.
func (a *Allocator) LiveObjects() int64 { return a.count }
