// Package chunk implements the compiled-code container described in
// spec.md §4.2: a growable byte vector, a parallel line-number sidecar, and a
// bounded constant pool. It is grounded in the teacher's
// lang/compiler/compiled.go Funcode and lang/compiler/asm.go assembler, with
// the teacher's varint/32-bit jump encoding narrowed to the fixed one-byte
// operands (and 16-bit jumps) spec.md §4.2/§4.6 mandates.
package chunk

import "github.com/mna/lox/lang/value"

// MaxConstants is the hard per-chunk limit on distinct constant values
// (spec.md §4.2): a one-byte operand can only index 256 slots.
const MaxConstants = 256

// Chunk is a single compiled unit of bytecode with its line-number sidecar
// and constant pool.
type Chunk struct {
	Code      []byte
	Lines     []int // Lines[i] is the source line that produced Code[i]
	Constants []value.Value
}

// New returns an empty Chunk.
func New() *Chunk {
	return &Chunk{}
}

// Write appends a single byte produced by source line, maintaining the
// invariant that every byte in Code has a matching Lines entry.
func (c *Chunk) Write(b byte, line int) {
	c.Code = append(c.Code, b)
	c.Lines = append(c.Lines, line)
}

// AddConstant appends v to the constant pool and returns its index. It is the
// caller's responsibility (the compiler) to reject the chunk if the returned
// index would not fit in a single byte operand; the compiler's makeConstant
// reports that as a compile error.
func (c *Chunk) AddConstant(v value.Value) int {
	c.Constants = append(c.Constants, v)
	return len(c.Constants) - 1
}

// LineAt answers "what line produced byte N" in O(1), per spec.md §4.2.
func (c *Chunk) LineAt(offset int) int {
	return c.Lines[offset]
}
