package compiler

import (
	bin "encoding/binary"

	"github.com/mna/lox/lang/chunk"
	"github.com/mna/lox/lang/value"
)

func (p *parser) emitByte(b byte) {
	p.compiler.currentChunk().Write(b, p.previous.Line)
}

func (p *parser) emitOp(op chunk.Op) { p.emitByte(byte(op)) }

func (p *parser) emitBytes(a, b byte) {
	p.emitByte(a)
	p.emitByte(b)
}

func (p *parser) emitOpByte(op chunk.Op, b byte) { p.emitBytes(byte(op), b) }

// emitReturn emits the implicit return every function falls through to
// (spec.md §4.5.4): `GET_LOCAL 0` for initializers (the receiver, so
// `return;` inside init still yields the instance), else `NIL`.
func (p *parser) emitReturn() {
	if p.compiler.kind == typeInitializer {
		p.emitOpByte(chunk.OpGetLocal, 0)
	} else {
		p.emitOp(chunk.OpNil)
	}
	p.emitOp(chunk.OpReturn)
}

// makeConstant appends v to the current chunk's constant pool and returns
// its index, erroring if the 256-entry pool (spec.md §4.6) is exhausted.
func (p *parser) makeConstant(v value.Value) byte {
	idx := p.compiler.currentChunk().AddConstant(v)
	if idx > 0xFF {
		p.error("Maximum number of constant values in chunk exceeded.")
		return 0
	}
	return byte(idx)
}

func (p *parser) emitConstant(v value.Value) {
	p.emitOpByte(chunk.OpConstant, p.makeConstant(v))
}

// emitJump writes a two-byte placeholder after op and returns its offset,
// to be filled in later by patchJump (spec.md §4.5.5).
func (p *parser) emitJump(op chunk.Op) int {
	p.emitOp(op)
	p.emitByte(0xFF)
	p.emitByte(0xFF)
	return len(p.compiler.currentChunk().Code) - 2
}

// patchJump backfills the placeholder at offset with the distance from just
// past it to the current end of code.
func (p *parser) patchJump(offset int) {
	c := p.compiler.currentChunk()
	jump := len(c.Code) - offset - 2
	if jump > 0xFFFF {
		p.error("Jump offset too large.")
		return
	}
	bin.BigEndian.PutUint16(c.Code[offset:offset+2], uint16(jump))
}

// emitLoop writes a LOOP back to loopStart (spec.md §4.5.5).
func (p *parser) emitLoop(loopStart int) {
	p.emitOp(chunk.OpLoop)

	c := p.compiler.currentChunk()
	offset := len(c.Code) - loopStart + 2
	if offset > 0xFFFF {
		p.error("Loop body too large.")
		return
	}
	p.emitByte(byte(offset >> 8))
	p.emitByte(byte(offset))
}

// identifierConstant installs name as a String constant, reusing the
// compiler's per-function dedup cache so repeated references to the same
// global/property/method name do not each burn a constant slot (spec.md
// §4.5.2's "install name as an identifier constant").
func (p *parser) identifierConstant(name string) byte {
	if idx, ok := p.compiler.identCache.Get(name); ok {
		return idx
	}
	s := p.alloc.NewString([]byte(name))
	idx := p.makeConstant(value.FromObj(s))
	p.compiler.identCache.Put(name, idx)
	return idx
}
