package chunk_test

import (
	"bytes"
	"testing"

	"github.com/mna/lox/lang/chunk"
	"github.com/mna/lox/lang/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteTracksLines(t *testing.T) {
	c := chunk.New()
	c.Write(byte(chunk.OpNil), 1)
	c.Write(byte(chunk.OpReturn), 1)
	c.Write(byte(chunk.OpPop), 2)

	require.Len(t, c.Code, 3)
	assert.Equal(t, 1, c.LineAt(0))
	assert.Equal(t, 1, c.LineAt(1))
	assert.Equal(t, 2, c.LineAt(2))
}

func TestAddConstantReturnsIndex(t *testing.T) {
	c := chunk.New()
	i0 := c.AddConstant(value.Number(1))
	i1 := c.AddConstant(value.Number(2))
	assert.Equal(t, 0, i0)
	assert.Equal(t, 1, i1)
	assert.Equal(t, float64(1), c.Constants[i0].AsNumber())
}

func TestDisassembleSimpleChunk(t *testing.T) {
	c := chunk.New()
	idx := c.AddConstant(value.Number(42))
	c.Write(byte(chunk.OpConstant), 1)
	c.Write(byte(idx), 1)
	c.Write(byte(chunk.OpReturn), 1)

	var buf bytes.Buffer
	c.Disassemble(&buf, "test")
	out := buf.String()
	assert.Contains(t, out, "== test ==")
	assert.Contains(t, out, "OP_CONSTANT")
	assert.Contains(t, out, "42")
	assert.Contains(t, out, "OP_RETURN")
}
