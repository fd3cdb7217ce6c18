package scanner_test

import (
	"testing"

	"github.com/mna/lox/lang/scanner"
	"github.com/mna/lox/lang/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scanAll(src string) []scanner.Token {
	s := scanner.New(src)
	var toks []scanner.Token
	for {
		tok := s.Scan()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			return toks
		}
	}
}

func TestScanPunctuationAndOperators(t *testing.T) {
	toks := scanAll("(){};,.-+/* ! != = == > >= < <=")
	want := []token.Token{
		token.LPAREN, token.RPAREN, token.LBRACE, token.RBRACE, token.SEMI,
		token.COMMA, token.DOT, token.MINUS, token.PLUS, token.SLASH, token.STAR,
		token.BANG, token.BANG_EQ, token.EQ, token.EQ_EQ, token.GT, token.GT_EQ,
		token.LT, token.LT_EQ, token.EOF,
	}
	require.Len(t, toks, len(want))
	for i, k := range want {
		assert.Equal(t, k, toks[i].Kind, "token %d", i)
	}
}

func TestScanKeywordsAndIdentifiers(t *testing.T) {
	toks := scanAll("and class fooBar _underscore123")
	require.Len(t, toks, 5)
	assert.Equal(t, token.AND, toks[0].Kind)
	assert.Equal(t, token.CLASS, toks[1].Kind)
	assert.Equal(t, token.IDENT, toks[2].Kind)
	assert.Equal(t, token.IDENT, toks[3].Kind)
}

func TestScanNumbers(t *testing.T) {
	src := "123 45.67 0"
	toks := scanAll(src)
	require.Len(t, toks, 4)
	assert.Equal(t, "123", toks[0].Lexeme(src))
	assert.Equal(t, "45.67", toks[1].Lexeme(src))
	assert.Equal(t, "0", toks[2].Lexeme(src))
}

func TestScanString(t *testing.T) {
	src := `"hello world"`
	toks := scanAll(src)
	require.Len(t, toks, 2)
	assert.Equal(t, token.STRING, toks[0].Kind)
	assert.Equal(t, src, toks[0].Lexeme(src))
}

func TestScanMultilineString(t *testing.T) {
	src := "\"a\nb\" print"
	toks := scanAll(src)
	require.Len(t, toks, 3)
	assert.Equal(t, token.STRING, toks[0].Kind)
	assert.Equal(t, 2, toks[1].Line)
}

func TestScanUnterminatedString(t *testing.T) {
	toks := scanAll(`"abc`)
	require.Len(t, toks, 2)
	assert.Equal(t, token.ILLEGAL, toks[0].Kind)
	assert.Equal(t, "Unterminated string.", toks[0].Lexeme(""))
}

func TestScanUnexpectedCharacter(t *testing.T) {
	toks := scanAll("@")
	require.Len(t, toks, 2)
	assert.Equal(t, token.ILLEGAL, toks[0].Kind)
	assert.Equal(t, "Unexpected character.", toks[0].Lexeme(""))
}

func TestScanSkipsCommentsAndWhitespace(t *testing.T) {
	src := "// a comment\nvar x = 1; // trailing\n"
	toks := scanAll(src)
	var kinds []token.Token
	for _, tok := range toks {
		kinds = append(kinds, tok.Kind)
	}
	assert.Equal(t, []token.Token{token.VAR, token.IDENT, token.EQ, token.NUMBER, token.SEMI, token.EOF}, kinds)
	assert.Equal(t, 2, toks[0].Line)
}

func TestIsAlphaExcludesBracketRange(t *testing.T) {
	// Regression for the corrected isAlpha range (spec.md §9): the ASCII
	// characters between 'Z' and 'a' ([, \, ], ^, _, `) must not all scan as
	// identifier starts except the underscore.
	toks := scanAll("[")
	assert.Equal(t, token.ILLEGAL, toks[0].Kind)
}
