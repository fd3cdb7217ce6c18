package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenString(t *testing.T) {
	assert.Equal(t, "+", PLUS.String())
	assert.Equal(t, "and", AND.String())
	assert.Equal(t, "end of file", EOF.String())
}

func TestTokenGoString(t *testing.T) {
	assert.Equal(t, "'+'", PLUS.GoString())
	assert.Equal(t, "identifier", IDENT.GoString())
	assert.Equal(t, "and", AND.GoString())
}

func TestKeywords(t *testing.T) {
	for lexeme, want := range Keywords {
		assert.Equal(t, lexeme, want.String())
	}
	_, ok := Keywords["foo"]
	assert.False(t, ok)
}
