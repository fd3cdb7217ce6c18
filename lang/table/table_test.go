package table_test

import (
	"testing"

	"github.com/mna/lox/lang/table"
	"github.com/mna/lox/lang/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func key(s string) *value.String { return value.NewString([]byte(s)) }

func TestSetGetDelete(t *testing.T) {
	tb := table.New()
	k := key("x")

	isNew := tb.Set(k, value.Number(1))
	assert.True(t, isNew)

	v, ok := tb.Get(k)
	require.True(t, ok)
	assert.Equal(t, float64(1), v.AsNumber())

	isNew = tb.Set(k, value.Number(2))
	assert.False(t, isNew)
	v, _ = tb.Get(k)
	assert.Equal(t, float64(2), v.AsNumber())

	removed := tb.Delete(k)
	assert.True(t, removed)
	_, ok = tb.Get(k)
	assert.False(t, ok)

	removed = tb.Delete(k)
	assert.False(t, removed)
}

func TestTombstoneDoesNotDoubleCountOnReinsert(t *testing.T) {
	tb := table.New()
	a, b := key("a"), key("b")
	tb.Set(a, value.Number(1))
	tb.Set(b, value.Number(2))
	tb.Delete(a)

	// Reinserting into the tombstone slot must not grow Len() beyond the
	// live entries actually present (spec.md §4.3).
	isNew := tb.Set(a, value.Number(3))
	assert.True(t, isNew)
	assert.Equal(t, 2, tb.Len())
}

func TestGrowsAndRehashesDiscardingTombstones(t *testing.T) {
	tb := table.New()
	var keys []*value.String
	for i := 0; i < 100; i++ {
		k := key(string(rune('a' + i%26)) + string(rune(i)))
		keys = append(keys, k)
		tb.Set(k, value.Number(float64(i)))
	}
	for i := 0; i < 50; i++ {
		tb.Delete(keys[i])
	}
	assert.Equal(t, 50, tb.Len())
	for i := 50; i < 100; i++ {
		v, ok := tb.Get(keys[i])
		require.True(t, ok)
		assert.Equal(t, float64(i), v.AsNumber())
	}
}

func TestCopyAllInto(t *testing.T) {
	src, dst := table.New(), table.New()
	k := key("x")
	src.Set(k, value.Number(9))
	src.CopyAllInto(dst)
	v, ok := dst.Get(k)
	require.True(t, ok)
	assert.Equal(t, float64(9), v.AsNumber())
}

func TestFindStringComparesContent(t *testing.T) {
	tb := table.New()
	k := value.NewString([]byte("hello"))
	tb.Set(k, value.Bool(true))

	found := tb.FindString([]byte("hello"), value.HashBytes([]byte("hello")))
	assert.Same(t, k, found)

	notFound := tb.FindString([]byte("nope"), value.HashBytes([]byte("nope")))
	assert.Nil(t, notFound)
}

func TestRemoveWeakEvictsUnmarked(t *testing.T) {
	tb := table.New()
	marked, unmarked := key("kept"), key("gone")
	tb.Set(marked, value.Bool(true))
	tb.Set(unmarked, value.Bool(true))

	marked.Marked = true
	tb.RemoveWeak()

	_, ok := tb.Get(marked)
	assert.True(t, ok)
	_, ok = tb.Get(unmarked)
	assert.False(t, ok)
}
