// Package compiler implements the single-pass Pratt parser and scope
// resolver from spec.md §4.5: parsing an expression directly emits the
// bytecode that evaluates it, with no intermediate AST. It is grounded in
// the teacher's lang/resolver package for its scope-tracking vocabulary
// (locals resolved to a stack slot, free variables resolved to an upvalue
// chain, see resolver/binding.go's Binding.Scope) and in the teacher's
// lang/compiler/opcode.go for the convention of a compact one-byte opcode
// set with big-endian multi-byte operands — but the CFG/basic-block
// compilation strategy of the teacher's original compiler.go does not fit a
// single-pass emitter and is not reused; this package emits directly into a
// chunk.Chunk as it parses, the way the reference Lox compiler does.
package compiler

import (
	"fmt"

	"github.com/dolthub/swiss"
	"github.com/mna/lox/lang/chunk"
	"github.com/mna/lox/lang/gc"
	"github.com/mna/lox/lang/object"
	"github.com/mna/lox/lang/scanner"
	"github.com/mna/lox/lang/token"
)

// funcType tags what kind of function body a Compiler is assembling, since
// top-level script code, ordinary functions, methods, and initializers each
// treat slot 0 and the implicit return differently (spec.md §4.5.3/§4.5.6).
type funcType uint8

const (
	typeScript funcType = iota
	typeFunction
	typeMethod
	typeInitializer
)

// maxLocals and maxUpvalues are the fixed array sizes spec.md §4.5.3
// prescribes for a single Compiler record.
const (
	maxLocals   = 256
	maxUpvalues = 256
)

// localVar is one slot of a Compiler's locals array: the name as it
// appeared in source, the scope depth it was declared at (-1 while declared
// but not yet initialized, per spec.md's sentinel), and whether some nested
// function closes over it.
type localVar struct {
	name       string
	depth      int
	isCaptured bool
}

// upvalueRef is one slot of a Compiler's upvalues array: which slot of the
// enclosing function it reaches (a local slot or, recursively, one of the
// enclosing function's own upvalues), per spec.md §4.5.3's add_upvalue.
type upvalueRef struct {
	index   uint8
	isLocal bool
}

// Compiler holds everything the reference implementation keeps in the
// global `current` pointer: the function under construction, the enclosing
// compiler (forming the GC root chain spec.md §4.8 requires), and the
// lexical-scope bookkeeping used to resolve every name the parser sees. One
// Compiler exists per function body being compiled, including the
// implicit top-level script.
type Compiler struct {
	enclosing *Compiler
	function  *object.Function
	kind      funcType

	locals     []localVar
	upvalues   []upvalueRef
	scopeDepth int

	// identCache deduplicates identifier-name constants within this
	// function's chunk so that, e.g., a global referenced a hundred times
	// does not consume a hundred entries of the 256-constant pool. Backed by
	// the teacher's generic swiss.Map (lang/machine/map.go), repurposed here
	// as a compiler-local cache rather than the language-level hash table
	// (that role is played by package table, per spec.md §4.3).
	identCache *swiss.Map[string, uint8]
}

// newCompiler allocates a Compiler for a function of the given kind,
// enclosed by outer (nil for the top-level script). It seeds local slot 0
// per spec.md §4.5.6: "this" for methods/initializers, the unnameable empty
// string for plain functions and the script.
func newCompiler(alloc *gc.Allocator, outer *Compiler, kind funcType, name string) *Compiler {
	c := &Compiler{
		enclosing:  outer,
		kind:       kind,
		function:   alloc.NewFunction(),
		identCache: swiss.NewMap[string, uint8](8),
	}
	if kind != typeScript {
		c.function.Name = alloc.NewString([]byte(name))
	}

	slot0 := ""
	if kind == typeMethod || kind == typeInitializer {
		slot0 = "this"
	}
	c.locals = append(c.locals, localVar{name: slot0, depth: 0})
	return c
}

func (c *Compiler) currentChunk() *chunk.Chunk { return c.function.Chunk }

// classCompiler threads class-declaration state (spec.md §4.5.6): whether
// the class currently being compiled has a superclass, so `super` can be
// validated and a synthetic "super" local resolved.
type classCompiler struct {
	enclosing     *classCompiler
	hasSuperclass bool
}

// Result is the outcome of compiling one source unit: either a top-level
// script Function ready to execute, or the accumulated list of compile
// errors (spec.md §7's "the produced chunk is not executed" on failure).
type Result struct {
	Script *object.Function
	Errors []error
}

// CompileError is one compile-time diagnostic, formatted per spec.md §7:
// "[line N] Error at '<lexeme>': <message>" (or "at end" past EOF).
type CompileError struct {
	Line    int
	Where   string
	Message string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("[line %d] Error%s: %s", e.Line, e.Where, e.Message)
}

// Compile parses src and emits bytecode into a fresh top-level script
// Function, registering every allocation (identifier strings, string
// literals, nested function prototypes) with alloc so the collector can
// reach them and so interning dedupes repeated literals (spec.md §4.8's
// "Compiler cooperation"). On a syntax or compile-time-limit error, Result
// still carries every Function built so far but Errors is non-empty and the
// caller must not execute Result.Script (spec.md §7).
func Compile(src string, alloc *gc.Allocator) Result {
	p := &parser{
		sc:    scanner.New(src),
		src:   src,
		alloc: alloc,
	}
	alloc.SetCompilerRoot(p)
	defer alloc.SetCompilerRoot(nil)
	p.compiler = newCompiler(alloc, nil, typeScript, "")

	p.advance()
	for !p.check(token.EOF) {
		p.declaration()
	}
	fn := p.endCompiler()

	return Result{Script: fn, Errors: p.errors}
}
