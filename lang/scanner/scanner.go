// Package scanner tokenizes lox source text for the compiler to consume.
//
// This is the external contract described by spec.md §4.4: a stream of
// fixed-vocabulary tokens, each carrying a byte offset into the source, a
// byte length, and a 1-based line number. Errors are delivered in-band as an
// ERROR token whose lexeme is a descriptive message, rather than through a
// side channel, so the compiler never needs to special-case scanner failure.
package scanner

import (
	"github.com/mna/lox/lang/token"
)

// A Token is a single lexeme produced by the Scanner.
type Token struct {
	Kind   token.Token
	Start  int // byte offset into the source
	Length int
	Line   int // 1-based

	// errMsg is set only for a scan error (Kind == token.ILLEGAL): the
	// descriptive message to report, since Start/Length point at the offending
	// source position rather than at message text.
	errMsg string
}

// Lexeme returns the token's source text, or its error message if it is an
// error token.
func (t Token) Lexeme(src string) string {
	if t.Kind == token.ILLEGAL && t.errMsg != "" {
		return t.errMsg
	}
	return src[t.Start : t.Start+t.Length]
}

// Scanner tokenizes a single source string. The zero value is not usable;
// construct with New.
type Scanner struct {
	src     string
	start   int // start of the lexeme currently being scanned
	current int // offset of the next byte to consume
	line    int
}

// New returns a Scanner ready to tokenize src.
func New(src string) *Scanner {
	return &Scanner{src: src, line: 1}
}

// Scan returns the next token in the source. The final token in the stream
// is always EOF; callers should stop calling Scan once they observe it.
func (s *Scanner) Scan() Token {
	s.skipWhitespaceAndComments()
	s.start = s.current
	if s.atEnd() {
		return s.make(token.EOF)
	}

	c := s.advance()
	switch {
	case isAlpha(c):
		return s.identifier()
	case isDigit(c):
		return s.number()
	}

	switch c {
	case '(':
		return s.make(token.LPAREN)
	case ')':
		return s.make(token.RPAREN)
	case '{':
		return s.make(token.LBRACE)
	case '}':
		return s.make(token.RBRACE)
	case ';':
		return s.make(token.SEMI)
	case ',':
		return s.make(token.COMMA)
	case '.':
		return s.make(token.DOT)
	case '-':
		return s.make(token.MINUS)
	case '+':
		return s.make(token.PLUS)
	case '/':
		return s.make(token.SLASH)
	case '*':
		return s.make(token.STAR)
	case '!':
		return s.make(s.selectToken('=', token.BANG_EQ, token.BANG))
	case '=':
		return s.make(s.selectToken('=', token.EQ_EQ, token.EQ))
	case '<':
		return s.make(s.selectToken('=', token.LT_EQ, token.LT))
	case '>':
		return s.make(s.selectToken('=', token.GT_EQ, token.GT))
	case '"':
		return s.stringLiteral()
	}

	return s.errorToken("Unexpected character.")
}

func (s *Scanner) atEnd() bool { return s.current >= len(s.src) }

func (s *Scanner) advance() byte {
	c := s.src[s.current]
	s.current++
	return c
}

func (s *Scanner) peek() byte {
	if s.atEnd() {
		return 0
	}
	return s.src[s.current]
}

func (s *Scanner) peekNext() byte {
	if s.current+1 >= len(s.src) {
		return 0
	}
	return s.src[s.current+1]
}

// selectToken returns want if the next byte is expect (consuming it),
// otherwise it returns otherwise.
func (s *Scanner) selectToken(expect byte, want, otherwise token.Token) token.Token {
	if s.atEnd() || s.src[s.current] != expect {
		return otherwise
	}
	s.current++
	return want
}

func (s *Scanner) skipWhitespaceAndComments() {
	for {
		if s.atEnd() {
			return
		}
		switch c := s.src[s.current]; c {
		case ' ', '\r', '\t':
			s.current++
		case '\n':
			s.line++
			s.current++
		case '/':
			if s.peekNext() == '/' {
				for !s.atEnd() && s.peek() != '\n' {
					s.current++
				}
			} else {
				return
			}
		default:
			return
		}
	}
}

func (s *Scanner) identifier() Token {
	for isAlpha(s.peek()) || isDigit(s.peek()) {
		s.current++
	}
	lexeme := s.src[s.start:s.current]
	if kw, ok := token.Keywords[lexeme]; ok {
		return s.make(kw)
	}
	return s.make(token.IDENT)
}

func (s *Scanner) number() Token {
	for isDigit(s.peek()) {
		s.current++
	}
	if s.peek() == '.' && isDigit(s.peekNext()) {
		s.current++ // consume '.'
		for isDigit(s.peek()) {
			s.current++
		}
	}
	return s.make(token.NUMBER)
}

func (s *Scanner) stringLiteral() Token {
	for !s.atEnd() && s.peek() != '"' {
		if s.peek() == '\n' {
			s.line++
		}
		s.current++
	}
	if s.atEnd() {
		return s.errorToken("Unterminated string.")
	}
	s.current++ // closing quote
	return s.make(token.STRING)
}

func (s *Scanner) make(kind token.Token) Token {
	return Token{Kind: kind, Start: s.start, Length: s.current - s.start, Line: s.line}
}

// errorToken synthesizes an ERROR-equivalent token (spec.md §4.4 calls this
// the ERROR token kind; lox's fixed token.Token vocabulary reuses ILLEGAL for
// it) whose lexeme is the descriptive message rather than source text.
func (s *Scanner) errorToken(msg string) Token {
	return Token{Kind: token.ILLEGAL, Start: s.start, Length: s.current - s.start, Line: s.line, errMsg: msg}
}

// isAlpha reports whether c begins or continues an identifier. This fixes
// the off-by-range defect noted in spec.md §9: the corrected range is
// A-Z, a-z or underscore, not the wider [Z..a] ASCII span.
func isAlpha(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
