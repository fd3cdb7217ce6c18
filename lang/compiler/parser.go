package compiler

import (
	"github.com/mna/lox/lang/gc"
	"github.com/mna/lox/lang/scanner"
	"github.com/mna/lox/lang/token"
	"github.com/mna/lox/lang/value"
)

// parser is the single mutable record a compilation run threads through
// every parse function, replacing the reference implementation's global
// `parser`/`current`/`currentClass` statics (spec.md §9: "the forbidden
// pattern is to rely on global mutable parser state").
type parser struct {
	sc  *scanner.Scanner
	src string

	current  scanner.Token
	previous scanner.Token

	hadError  bool
	panicMode bool
	errors    []error

	compiler      *Compiler
	currentClass  *classCompiler
	alloc         *gc.Allocator
}

var _ gc.RootSource = (*parser)(nil)

// MarkRoots marks every enclosing compiler's in-progress function, per
// spec.md §4.8's "compiler chain" root: identifier strings or constants
// allocated while compiling an inner function must not doom the outer
// function being built around it.
func (p *parser) MarkRoots(mark func(value.Value)) {
	for c := p.compiler; c != nil; c = c.enclosing {
		mark(value.FromObj(c.function))
	}
}

// advance pulls the next non-error token into current, reporting any
// scanner ERROR tokens along the way (they carry their message as the
// lexeme, per spec.md §4.4).
func (p *parser) advance() {
	p.previous = p.current
	for {
		p.current = p.sc.Scan()
		if p.current.Kind != token.ILLEGAL {
			break
		}
		p.errorAtCurrent(p.current.Lexeme(p.src))
	}
}

func (p *parser) check(kind token.Token) bool { return p.current.Kind == kind }

func (p *parser) match(kind token.Token) bool {
	if !p.check(kind) {
		return false
	}
	p.advance()
	return true
}

func (p *parser) consume(kind token.Token, message string) {
	if p.current.Kind == kind {
		p.advance()
		return
	}
	p.errorAtCurrent(message)
}

func (p *parser) errorAtCurrent(message string) { p.errorAt(p.current, message) }
func (p *parser) error(message string)          { p.errorAt(p.previous, message) }

// errorAt implements spec.md §4.5.7's panic-mode suppression: the first
// error in a run is recorded; subsequent errors are swallowed until
// synchronize resets panicMode at the next declaration boundary.
func (p *parser) errorAt(tok scanner.Token, message string) {
	if p.panicMode {
		return
	}
	p.panicMode = true
	p.hadError = true

	where := " at '" + tok.Lexeme(p.src) + "'"
	if tok.Kind == token.EOF {
		where = " at end"
	} else if tok.Kind == token.ILLEGAL {
		where = ""
	}
	p.errors = append(p.errors, &CompileError{Line: tok.Line, Where: where, Message: message})
}

// synchronize discards tokens until a declaration boundary, per spec.md
// §4.5.7: a consumed ';' or a keyword that begins a statement.
func (p *parser) synchronize() {
	p.panicMode = false

	for p.current.Kind != token.EOF {
		if p.previous.Kind == token.SEMI {
			return
		}
		switch p.current.Kind {
		case token.CLASS, token.FUN, token.VAR, token.FOR, token.IF, token.WHILE, token.PRINT, token.RETURN:
			return
		}
		p.advance()
	}
}
