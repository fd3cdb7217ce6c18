package compiler

import (
	"github.com/mna/lox/lang/chunk"
	"github.com/mna/lox/lang/token"
)

// initMethodName is the configured initializer name (spec.md §4.5.6): a
// method with this name compiles as typeInitializer instead of typeMethod,
// and an instance call to the class invokes it automatically (spec.md
// §4.7's call_value on a Class).
const initMethodName = "init"

func (p *parser) classDeclaration() {
	p.consume(token.IDENT, "Expect class name.")
	className := p.previous.Lexeme(p.src)
	nameConstant := p.identifierConstant(className)
	p.declareVariable(className)

	p.emitOpByte(chunk.OpClass, nameConstant)
	p.defineVariable(nameConstant)

	cc := &classCompiler{enclosing: p.currentClass}
	p.currentClass = cc

	if p.match(token.LT) {
		p.consume(token.IDENT, "Expect superclass name.")
		superclassName := p.previous.Lexeme(p.src)
		variable(p, false) // pushes the superclass value, resolved like any variable

		if superclassName == className {
			p.error("A class can't inherit from itself.")
		}

		p.beginScope()
		p.addLocal("super")
		p.defineVariable(0)

		p.namedVariable(className, false)
		p.emitOp(chunk.OpInherit)
		cc.hasSuperclass = true
	}

	p.namedVariable(className, false)
	p.consume(token.LBRACE, "Expect '{' before class body.")
	for !p.check(token.RBRACE) && !p.check(token.EOF) {
		p.method()
	}
	p.consume(token.RBRACE, "Expect '}' after class body.")
	p.emitOp(chunk.OpPop) // the class value pushed for METHOD's benefit

	if cc.hasSuperclass {
		p.endScope()
	}
	p.currentClass = p.currentClass.enclosing
}

func (p *parser) method() {
	p.consume(token.IDENT, "Expect method name.")
	name := p.previous.Lexeme(p.src)
	nameConstant := p.identifierConstant(name)

	kind := typeMethod
	if name == initMethodName {
		kind = typeInitializer
	}
	p.function(kind, name)
	p.emitOpByte(chunk.OpMethod, nameConstant)
}
