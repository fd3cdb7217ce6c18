package table_test

import (
	"testing"

	"github.com/mna/lox/lang/table"
	"github.com/stretchr/testify/assert"
)

func TestInternDeduplicatesByContent(t *testing.T) {
	in := table.NewInterner()
	a, aNew := in.Intern([]byte("abc"))
	b, bNew := in.Intern([]byte("abc"))
	assert.Same(t, a, b, "equal source literals load the same object identity")
	assert.True(t, aNew)
	assert.False(t, bNew)

	c, cNew := in.Intern([]byte("xyz"))
	assert.NotSame(t, a, c)
	assert.True(t, cNew)
}

func TestInternRemoveWeakEvictsUnreferenced(t *testing.T) {
	in := table.NewInterner()
	kept, _ := in.Intern([]byte("kept"))
	in.Intern([]byte("gone"))

	kept.Marked = true
	in.RemoveWeak()

	// After eviction, re-interning the collected string allocates a fresh
	// object rather than finding a stale one.
	again, isNew := in.Intern([]byte("gone"))
	assert.NotNil(t, again)
	assert.True(t, isNew)

	still, stillNew := in.Intern([]byte("kept"))
	assert.Same(t, kept, still)
	assert.False(t, stillNew)
}
