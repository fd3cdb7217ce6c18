package compiler

import (
	"github.com/mna/lox/lang/chunk"
	"github.com/mna/lox/lang/object"
	"github.com/mna/lox/lang/token"
	"github.com/mna/lox/lang/value"
)

// endCompiler emits the trailing implicit return, pops the compiler stack
// back to the enclosing one, and returns the finished Function; the
// Compiler record itself is not returned.
func (p *parser) endCompiler() *object.Function {
	p.emitReturn()
	fn := p.compiler.function
	p.compiler = p.compiler.enclosing
	return fn
}

// endFunctionCompiler is endCompiler's counterpart for nested functions: it
// also hands back the popped compiler's upvalue descriptors, needed by
// function() to emit CLOSURE's variable-length operand list.
func (p *parser) endFunctionCompiler() (*object.Function, []upvalueRef) {
	p.emitReturn()
	fn := p.compiler.function
	upvalues := p.compiler.upvalues
	p.compiler = p.compiler.enclosing
	return fn, upvalues
}

// function compiles a function or method body: the caller has already
// consumed the name and is positioned just before the parameter list
// (spec.md §4.5.4's fun_decl / §4.5.6's method). The new Compiler becomes
// current for the duration of the body.
func (p *parser) function(kind funcType, name string) {
	p.compiler = newCompiler(p.alloc, p.compiler, kind, name)
	p.beginScope()

	p.consume(token.LPAREN, "Expect '(' after function name.")
	if !p.check(token.RPAREN) {
		for {
			p.compiler.function.Arity++
			if p.compiler.function.Arity > 255 {
				p.errorAtCurrent("Can't have more than 255 parameters.")
			}
			constant := p.parseVariable("Expect parameter name.")
			p.defineVariable(constant)
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	p.consume(token.RPAREN, "Expect ')' after parameters.")
	p.consume(token.LBRACE, "Expect '{' before function body.")
	p.block()

	fn, upvalues := p.endFunctionCompiler()
	p.emitClosure(fn, upvalues)
}

// emitClosure emits CLOSURE <constIdx> followed by each upvalue's
// (isLocal, index) byte pair (spec.md §4.6).
func (p *parser) emitClosure(fn *object.Function, upvalues []upvalueRef) {
	idx := p.makeConstant(value.FromObj(fn))
	p.emitOpByte(chunk.OpClosure, idx)
	for _, uv := range upvalues {
		isLocal := byte(0)
		if uv.isLocal {
			isLocal = 1
		}
		p.emitBytes(isLocal, uv.index)
	}
}
