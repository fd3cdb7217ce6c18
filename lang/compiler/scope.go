package compiler

import (
	"github.com/mna/lox/lang/chunk"
	"github.com/mna/lox/lang/token"
)

func (p *parser) beginScope() { p.compiler.scopeDepth++ }

// endScope pops every local declared at or below the scope being closed,
// per spec.md §4.5.3: a captured local emits CLOSE_UPVALUE so its heap copy
// survives; an ordinary one is simply POPped off the stack.
func (p *parser) endScope() {
	p.compiler.scopeDepth--

	locals := p.compiler.locals
	for len(locals) > 0 && locals[len(locals)-1].depth > p.compiler.scopeDepth {
		if locals[len(locals)-1].isCaptured {
			p.emitOp(chunk.OpCloseUpvalue)
		} else {
			p.emitOp(chunk.OpPop)
		}
		locals = locals[:len(locals)-1]
	}
	p.compiler.locals = locals
}

// declareVariable registers name as a new local in the current scope
// (spec.md §4.5.3). At depth 0 it does nothing: globals are resolved by
// name at GET_GLOBAL/SET_GLOBAL time, not by slot.
func (p *parser) declareVariable(name string) {
	if p.compiler.scopeDepth == 0 {
		return
	}

	locals := p.compiler.locals
	for i := len(locals) - 1; i >= 0; i-- {
		l := locals[i]
		if l.depth != -1 && l.depth < p.compiler.scopeDepth {
			break
		}
		if l.name == name {
			p.error("Already a variable with this name in scope.")
		}
	}
	p.addLocal(name)
}

func (p *parser) addLocal(name string) {
	if len(p.compiler.locals) >= maxLocals {
		p.error("Too many local variables in function.")
		return
	}
	p.compiler.locals = append(p.compiler.locals, localVar{name: name, depth: -1})
}

// markInitialized sets the most recently declared local's depth to the
// current scope depth, making it visible to resolveLocal. A no-op at depth
// 0 (top-level function declarations have no local slot to initialize).
func (p *parser) markInitialized() {
	if p.compiler.scopeDepth == 0 {
		return
	}
	p.compiler.locals[len(p.compiler.locals)-1].depth = p.compiler.scopeDepth
}

// resolveLocal scans c's locals top-down (innermost shadowing wins) and
// returns the slot index, or -1 if name is not a local of c.
func (p *parser) resolveLocal(c *Compiler, name string) int {
	for i := len(c.locals) - 1; i >= 0; i-- {
		if c.locals[i].name == name {
			if c.locals[i].depth == -1 {
				p.error("Can't read local variable in its own initializer.")
			}
			return i
		}
	}
	return -1
}

// resolveUpvalue implements spec.md §4.5.3's recursive search: a name not
// local to c may be a local of an enclosing function (captured directly) or
// an upvalue of one (captured transitively).
func (p *parser) resolveUpvalue(c *Compiler, name string) int {
	if c.enclosing == nil {
		return -1
	}
	if local := p.resolveLocal(c.enclosing, name); local != -1 {
		c.enclosing.locals[local].isCaptured = true
		return p.addUpvalue(c, byte(local), true)
	}
	if up := p.resolveUpvalue(c.enclosing, name); up != -1 {
		return p.addUpvalue(c, byte(up), false)
	}
	return -1
}

// addUpvalue deduplicates by (index, isLocal) and caps at maxUpvalues,
// mirroring the function's own UpvalueCount (spec.md §4.5.3).
func (p *parser) addUpvalue(c *Compiler, index byte, isLocal bool) int {
	for i, uv := range c.upvalues {
		if uv.index == index && uv.isLocal == isLocal {
			return i
		}
	}
	if len(c.upvalues) >= maxUpvalues {
		p.error("Too many closure variables in function.")
		return 0
	}
	c.upvalues = append(c.upvalues, upvalueRef{index: index, isLocal: isLocal})
	c.function.UpvalueCount = len(c.upvalues)
	return len(c.upvalues) - 1
}

// parseVariable consumes an identifier, declares it if local, and returns
// the identifier-constant index to use if it turns out to be global (0 when
// the name resolved to a local: the caller only uses the index for
// DEFINE_GLOBAL, which defineVariable skips for locals).
func (p *parser) parseVariable(errMsg string) byte {
	p.consume(token.IDENT, errMsg)
	name := p.previous.Lexeme(p.src)

	p.declareVariable(name)
	if p.compiler.scopeDepth > 0 {
		return 0
	}
	return p.identifierConstant(name)
}

// defineVariable finishes a variable declaration (spec.md §4.5.4): a local
// only needs markInitialized (its value already sits on the stack in its
// slot); a global emits DEFINE_GLOBAL.
func (p *parser) defineVariable(global byte) {
	if p.compiler.scopeDepth > 0 {
		p.markInitialized()
		return
	}
	p.emitOpByte(chunk.OpDefineGlobal, global)
}
