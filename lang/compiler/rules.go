package compiler

import "github.com/mna/lox/lang/token"

// parseFn is a prefix or infix parse function (spec.md §4.5.1): it consumes
// tokens starting at p.previous, possibly recursing through
// parsePrecedence, and emits bytecode directly.
type parseFn func(p *parser, canAssign bool)

type parseRule struct {
	prefix     parseFn
	infix      parseFn
	precedence precedence
}

// rules is the parse table spec.md §4.5.1 describes: for every token kind,
// a {prefix, infix, precedence} triple. Indexed by token.Token, sized to
// token's maxToken so every kind has an entry (zero value = no rule).
var rules [token.Max + 1]parseRule

func init() {
	rules[token.LPAREN] = parseRule{prefix: grouping, infix: call, precedence: precCall}
	rules[token.DOT] = parseRule{infix: dot, precedence: precCall}
	rules[token.MINUS] = parseRule{prefix: unary, infix: binary, precedence: precTerm}
	rules[token.PLUS] = parseRule{infix: binary, precedence: precTerm}
	rules[token.SLASH] = parseRule{infix: binary, precedence: precFactor}
	rules[token.STAR] = parseRule{infix: binary, precedence: precFactor}
	rules[token.BANG] = parseRule{prefix: unary}
	rules[token.BANG_EQ] = parseRule{infix: binary, precedence: precEquality}
	rules[token.EQ_EQ] = parseRule{infix: binary, precedence: precEquality}
	rules[token.GT] = parseRule{infix: binary, precedence: precComparison}
	rules[token.GT_EQ] = parseRule{infix: binary, precedence: precComparison}
	rules[token.LT] = parseRule{infix: binary, precedence: precComparison}
	rules[token.LT_EQ] = parseRule{infix: binary, precedence: precComparison}
	rules[token.IDENT] = parseRule{prefix: variable}
	rules[token.STRING] = parseRule{prefix: stringLiteral}
	rules[token.NUMBER] = parseRule{prefix: number}
	rules[token.AND] = parseRule{infix: and_, precedence: precAnd}
	rules[token.OR] = parseRule{infix: or_, precedence: precOr}
	rules[token.FALSE] = parseRule{prefix: literal}
	rules[token.TRUE] = parseRule{prefix: literal}
	rules[token.NIL] = parseRule{prefix: literal}
	rules[token.THIS] = parseRule{prefix: this}
	rules[token.SUPER] = parseRule{prefix: super_}
}
