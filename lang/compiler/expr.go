package compiler

import (
	"strconv"

	"github.com/mna/lox/lang/chunk"
	"github.com/mna/lox/lang/token"
	"github.com/mna/lox/lang/value"
)

// parsePrecedence is the Pratt driver (spec.md §4.5.1).
func (p *parser) parsePrecedence(prec precedence) {
	p.advance()
	rule := rules[p.previous.Kind]
	if rule.prefix == nil {
		p.error("Expect expression.")
		return
	}

	canAssign := prec <= precAssignment
	rule.prefix(p, canAssign)

	for prec <= rules[p.current.Kind].precedence {
		p.advance()
		infix := rules[p.previous.Kind].infix
		infix(p, canAssign)
	}

	if canAssign && p.match(token.EQ) {
		p.error("Invalid assignment target.")
	}
}

func (p *parser) expression() { p.parsePrecedence(precAssignment) }

func number(p *parser, canAssign bool) {
	lexeme := p.previous.Lexeme(p.src)
	n, err := strconv.ParseFloat(lexeme, 64)
	if err != nil {
		p.error("Invalid number literal.")
		return
	}
	p.emitConstant(value.Number(n))
}

func stringLiteral(p *parser, canAssign bool) {
	lexeme := p.previous.Lexeme(p.src)
	// Strip the surrounding quotes (spec.md §4.5.2).
	raw := lexeme[1 : len(lexeme)-1]
	s := p.alloc.NewString([]byte(raw))
	p.emitConstant(value.FromObj(s))
}

func literal(p *parser, canAssign bool) {
	switch p.previous.Kind {
	case token.FALSE:
		p.emitOp(chunk.OpFalse)
	case token.TRUE:
		p.emitOp(chunk.OpTrue)
	case token.NIL:
		p.emitOp(chunk.OpNil)
	}
}

func grouping(p *parser, canAssign bool) {
	p.expression()
	p.consume(token.RPAREN, "Expect ')' after expression.")
}

func unary(p *parser, canAssign bool) {
	opKind := p.previous.Kind
	p.parsePrecedence(precUnary)
	switch opKind {
	case token.BANG:
		p.emitOp(chunk.OpNot)
	case token.MINUS:
		p.emitOp(chunk.OpNegate)
	}
}

func binary(p *parser, canAssign bool) {
	opKind := p.previous.Kind
	rule := rules[opKind]
	p.parsePrecedence(rule.precedence + 1)

	switch opKind {
	case token.BANG_EQ:
		p.emitOp(chunk.OpEqual)
		p.emitOp(chunk.OpNot)
	case token.EQ_EQ:
		p.emitOp(chunk.OpEqual)
	case token.GT:
		p.emitOp(chunk.OpGreater)
	case token.GT_EQ:
		p.emitOp(chunk.OpLess)
		p.emitOp(chunk.OpNot)
	case token.LT:
		p.emitOp(chunk.OpLess)
	case token.LT_EQ:
		p.emitOp(chunk.OpGreater)
		p.emitOp(chunk.OpNot)
	case token.PLUS:
		p.emitOp(chunk.OpAdd)
	case token.MINUS:
		p.emitOp(chunk.OpSubtract)
	case token.STAR:
		p.emitOp(chunk.OpMultiply)
	case token.SLASH:
		p.emitOp(chunk.OpDivide)
	}
}

func and_(p *parser, canAssign bool) {
	endJump := p.emitJump(chunk.OpJumpIfFalse)
	p.emitOp(chunk.OpPop)
	p.parsePrecedence(precAnd)
	p.patchJump(endJump)
}

func or_(p *parser, canAssign bool) {
	elseJump := p.emitJump(chunk.OpJumpIfFalse)
	endJump := p.emitJump(chunk.OpJump)

	p.patchJump(elseJump)
	p.emitOp(chunk.OpPop)

	p.parsePrecedence(precOr)
	p.patchJump(endJump)
}

// argumentList parses a `,`-separated expression list up to ')' and
// returns the argument count, capped at 255 (spec.md §4.5.2).
func (p *parser) argumentList() byte {
	var argc int
	if !p.check(token.RPAREN) {
		for {
			p.expression()
			if argc == 255 {
				p.error("Can't have more than 255 arguments.")
			}
			argc++
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	p.consume(token.RPAREN, "Expect ')' after arguments.")
	return byte(argc)
}

func call(p *parser, canAssign bool) {
	argc := p.argumentList()
	p.emitOpByte(chunk.OpCall, argc)
}

func dot(p *parser, canAssign bool) {
	p.consume(token.IDENT, "Expect property name after '.'.")
	name := p.identifierConstant(p.previous.Lexeme(p.src))

	switch {
	case canAssign && p.match(token.EQ):
		p.expression()
		p.emitOpByte(chunk.OpSetProperty, name)
	case p.match(token.LPAREN):
		argc := p.argumentList()
		p.emitOpByte(chunk.OpInvoke, name)
		p.emitByte(argc)
	default:
		p.emitOpByte(chunk.OpGetProperty, name)
	}
}

// namedVariable resolves name to a local, an upvalue, or a global, and
// emits the corresponding GET/SET instruction (spec.md §4.5.2).
func (p *parser) namedVariable(name string, canAssign bool) {
	var getOp, setOp chunk.Op
	arg := p.resolveLocal(p.compiler, name)
	if arg != -1 {
		getOp, setOp = chunk.OpGetLocal, chunk.OpSetLocal
	} else if arg = p.resolveUpvalue(p.compiler, name); arg != -1 {
		getOp, setOp = chunk.OpGetUpvalue, chunk.OpSetUpvalue
	} else {
		arg = int(p.identifierConstant(name))
		getOp, setOp = chunk.OpGetGlobal, chunk.OpSetGlobal
	}

	if canAssign && p.match(token.EQ) {
		p.expression()
		p.emitOpByte(setOp, byte(arg))
	} else {
		p.emitOpByte(getOp, byte(arg))
	}
}

func variable(p *parser, canAssign bool) {
	p.namedVariable(p.previous.Lexeme(p.src), canAssign)
}

func this(p *parser, canAssign bool) {
	if p.currentClass == nil {
		p.error("Can't use 'this' outside of a class.")
		return
	}
	variable(p, false)
}

// super_ compiles `super.name`, with or without a trailing call (spec.md
// §4.5.6).
func super_(p *parser, canAssign bool) {
	if p.currentClass == nil {
		p.error("Can't use 'super' outside of a class.")
	} else if !p.currentClass.hasSuperclass {
		p.error("Can't use 'super' in a class with no superclass.")
	}

	p.consume(token.DOT, "Expect '.' after 'super'.")
	p.consume(token.IDENT, "Expect superclass method name.")
	name := p.identifierConstant(p.previous.Lexeme(p.src))

	p.namedVariable("this", false)
	if p.match(token.LPAREN) {
		argc := p.argumentList()
		p.namedVariable("super", false)
		p.emitOpByte(chunk.OpSuperInvoke, name)
		p.emitByte(argc)
	} else {
		p.namedVariable("super", false)
		p.emitOpByte(chunk.OpGetSuper, name)
	}
}
