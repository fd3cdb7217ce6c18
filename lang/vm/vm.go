// Package vm implements the stack-based virtual machine from spec.md §4.7: a
// threaded dispatch loop over a linear bytecode stream, a value stack, a
// call-frame stack, closures, and open/closed upvalues. It is grounded in
// the teacher's lang/machine/machine.go run loop (the fetch-dispatch
// structure and per-opcode switch) and lang/machine/thread.go (a single
// owning struct for every piece of mutable interpreter state, rather than
// package-level globals) and lang/machine/frame.go (the call-frame/slot-base
// convention) — generalized here from the teacher's register-oriented
// machine to the spec's stack-oriented one.
package vm

import (
	"fmt"
	"io"

	"github.com/mna/lox/lang/compiler"
	"github.com/mna/lox/lang/gc"
	"github.com/mna/lox/lang/object"
	"github.com/mna/lox/lang/table"
	"github.com/mna/lox/lang/value"
)

// FramesMax is the call-frame stack depth limit (spec.md §4.7).
const FramesMax = 64

// StackMax is the value stack depth limit: FRAMES_MAX * 256, since a single
// frame can address at most 256 local slots.
const StackMax = FramesMax * 256

// Result is the outcome of Interpret, mirroring spec.md §6's exit-code
// triage (compile error / runtime error / success) at the CLI boundary.
type Result uint8

const (
	ResultOK Result = iota
	ResultCompileError
	ResultRuntimeError
)

// initMethodName mirrors compiler.initMethodName; duplicated here (rather
// than exported from package compiler) since the VM's call_value needs it
// independently of compilation and the two packages should not need to
// import each other's internals for a single shared string.
const initMethodName = "init"

// VM is the single owning instance spec.md §5 describes: it holds the
// object heap (via its allocator), both stacks, the globals table, the
// string interner, and the open-upvalue list. There is exactly one VM per
// program run; nothing here is safe for concurrent use, matching the
// strictly single-threaded execution model.
type VM struct {
	stack    [StackMax]value.Value
	stackTop int

	frames     [FramesMax]frame
	frameCount int

	globals      *table.Table
	interner     *table.Interner
	alloc        *gc.Allocator
	openUpvalues *object.Upvalue // sorted by slot index, deepest (highest) first

	// MaxSteps bounds the number of bytecode instructions a single Interpret
	// call may execute before it is aborted as a runtime error, a
	// deliberately unspecified measure of execution time. A value <= 0 (the
	// zero value) means unlimited, matching spec.md §5's "divergent script
	// runs forever" default; set it to bound a script run from untrusted
	// source.
	MaxSteps int
	steps    int

	stdout io.Writer
	stderr io.Writer
}

var _ gc.RootSource = (*VM)(nil)

// New returns a ready-to-use VM writing program output to stdout and
// runtime error traces to stderr.
func New(stdout, stderr io.Writer) *VM {
	interner := table.NewInterner()
	v := &VM{
		globals:  table.New(),
		interner: interner,
		alloc:    gc.New(interner),
		stdout:   stdout,
		stderr:   stderr,
	}
	v.alloc.AddRoot(v)
	v.defineNatives()
	return v
}

// SetStressGC forces a full collection on every single allocation when on
// (spec.md §4.7's stress flag), for tests asserting that nothing reachable
// from a root gets swept prematurely.
func (vm *VM) SetStressGC(on bool) { vm.alloc.SetStressMode(on) }

// Interpret compiles src and, on success, runs it to completion (spec.md
// §6). A compile error yields ResultCompileError without executing
// anything; each diagnostic is written to stderr in spec.md §7's
// "[line N] Error...: message" format before returning.
func (vm *VM) Interpret(src string) Result {
	res := compiler.Compile(src, vm.alloc)
	if len(res.Errors) > 0 {
		for _, err := range res.Errors {
			fmt.Fprintln(vm.stderr, err.Error())
		}
		return ResultCompileError
	}

	closure := vm.alloc.NewClosure(res.Script)
	vm.push(value.FromObj(closure))
	vm.call(closure, 0)

	return vm.run()
}

func (vm *VM) resetStack() {
	vm.stackTop = 0
	vm.frameCount = 0
	vm.openUpvalues = nil
	vm.steps = 0
}

func (vm *VM) push(v value.Value) {
	if vm.stackTop >= len(vm.stack) {
		vm.runtimeError("Stack overflow.")
		return
	}
	vm.stack[vm.stackTop] = v
	vm.stackTop++
}

func (vm *VM) pop() value.Value {
	vm.stackTop--
	return vm.stack[vm.stackTop]
}

func (vm *VM) peek(distance int) value.Value {
	return vm.stack[vm.stackTop-1-distance]
}

// runtimeError prints message and a deepest-first stack trace, then resets
// both stacks (spec.md §6's "Runtime error format" and §7's "resets the
// stacks").
func (vm *VM) runtimeError(format string, args ...any) {
	fmt.Fprintf(vm.stderr, format+"\n", args...)

	for i := vm.frameCount - 1; i >= 0; i-- {
		f := &vm.frames[i]
		line := f.closure.Function.Chunk.LineAt(f.ip - 1)
		if f.closure.Function.Name == nil {
			fmt.Fprintf(vm.stderr, "[line %d] in script\n", line)
		} else {
			fmt.Fprintf(vm.stderr, "[line %d] in %s()\n", line, f.closure.Function.Name)
		}
	}

	vm.resetStack()
}

// MarkRoots implements gc.RootSource: the value stack, every active frame's
// closure, the open-upvalue list (spec.md §4.8's VM roots) and the globals
// table, which it marks itself. The interner is not a root: its entries are
// weak.
func (vm *VM) MarkRoots(mark func(value.Value)) {
	for i := 0; i < vm.stackTop; i++ {
		mark(vm.stack[i])
	}
	for i := 0; i < vm.frameCount; i++ {
		mark(value.FromObj(vm.frames[i].closure))
	}
	for uv := vm.openUpvalues; uv != nil; uv = uv.Next {
		mark(value.FromObj(uv))
	}
	vm.globals.MarkRoots(mark)
}
