package compiler_test

import (
	"bytes"
	"testing"

	"github.com/mna/lox/lang/compiler"
	"github.com/mna/lox/lang/gc"
	"github.com/mna/lox/lang/object"
	"github.com/mna/lox/lang/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAllocator() *gc.Allocator { return gc.New(table.NewInterner()) }

func disasm(t *testing.T, src string) (string, compiler.Result) {
	t.Helper()
	alloc := newAllocator()
	res := compiler.Compile(src, alloc)
	var buf bytes.Buffer
	if res.Script != nil {
		disasmFunction(&buf, res.Script, "test")
	}
	return buf.String(), res
}

// disasmFunction disassembles fn's chunk followed by the chunk of every
// function constant nested in it, so function and method bodies are listed.
func disasmFunction(buf *bytes.Buffer, fn *object.Function, name string) {
	fn.Chunk.Disassemble(buf, name)
	for _, c := range fn.Chunk.Constants {
		if nested, ok := c.AsObj().(*object.Function); ok {
			disasmFunction(buf, nested, nested.String())
		}
	}
}

func TestArithmeticPrecedenceCompiles(t *testing.T) {
	out, res := disasm(t, "print 1 + 2 * 3;")
	require.Empty(t, res.Errors)
	assert.Contains(t, out, "OP_CONSTANT")
	assert.Contains(t, out, "OP_MULTIPLY")
	assert.Contains(t, out, "OP_ADD")
	assert.Contains(t, out, "OP_PRINT")
}

func TestVarDeclarationAndGlobalAccess(t *testing.T) {
	out, res := disasm(t, "var x = 1; print x;")
	require.Empty(t, res.Errors)
	assert.Contains(t, out, "OP_DEFINE_GLOBAL")
	assert.Contains(t, out, "OP_GET_GLOBAL")
}

func TestLocalScopeUsesSlots(t *testing.T) {
	out, res := disasm(t, "{ var x = 1; print x; }")
	require.Empty(t, res.Errors)
	assert.Contains(t, out, "OP_GET_LOCAL")
	assert.NotContains(t, out, "OP_GET_GLOBAL")
}

func TestShortCircuitOperatorsEmitJumps(t *testing.T) {
	out, res := disasm(t, `print false and 1; print true or 2;`)
	require.Empty(t, res.Errors)
	assert.Contains(t, out, "OP_JUMP_IF_FALSE")
	assert.Contains(t, out, "OP_JUMP ")
}

func TestFunctionDeclarationEmitsClosure(t *testing.T) {
	out, res := disasm(t, "fun add(a, b) { return a + b; } print add(1, 2);")
	require.Empty(t, res.Errors)
	assert.Contains(t, out, "OP_CLOSURE")
	assert.Contains(t, out, "OP_CALL")
}

func TestClassWithSuperCompiles(t *testing.T) {
	src := `class A { greet() { print "A"; } }
class B < A { greet() { super.greet(); print "B"; } }
B().greet();`
	out, res := disasm(t, src)
	require.Empty(t, res.Errors)
	assert.Contains(t, out, "OP_CLASS")
	assert.Contains(t, out, "OP_INHERIT")
	assert.Contains(t, out, "OP_METHOD")
	assert.Contains(t, out, "OP_SUPER_INVOKE")
}

func TestInvalidAssignmentTargetErrors(t *testing.T) {
	_, res := disasm(t, "1 + 2 = 3;")
	require.NotEmpty(t, res.Errors)
	assert.Contains(t, res.Errors[0].Error(), "Invalid assignment target.")
}

func TestReturnAtTopLevelErrors(t *testing.T) {
	_, res := disasm(t, "return 1;")
	require.NotEmpty(t, res.Errors)
	assert.Contains(t, res.Errors[0].Error(), "Can't return from top-level code.")
}

func TestThisOutsideClassErrors(t *testing.T) {
	_, res := disasm(t, "print this;")
	require.NotEmpty(t, res.Errors)
	assert.Contains(t, res.Errors[0].Error(), "Can't use 'this' outside of a class.")
}

func TestRedeclaredLocalErrors(t *testing.T) {
	_, res := disasm(t, "{ var x = 1; var x = 2; }")
	require.NotEmpty(t, res.Errors)
	assert.Contains(t, res.Errors[0].Error(), "Already a variable with this name in scope.")
}

func TestMissingVariableNameSynchronizes(t *testing.T) {
	// Only the first statement is malformed (no variable name): synchronize
	// must recover at the ';' boundary so the second statement is still parsed.
	_, res := disasm(t, "var = 1; var y = 2;")
	require.NotEmpty(t, res.Errors)
}

func TestStringLiteralInterns(t *testing.T) {
	alloc := newAllocator()
	res := compiler.Compile(`print "ab" + "c" == "abc";`, alloc)
	require.Empty(t, res.Errors)
	require.NotNil(t, res.Script)
	// Constant 2 is the "abc" literal: interning the same bytes again yields
	// the very object the compiler stored.
	assert.Same(t, res.Script.Chunk.Constants[2].AsObj(), alloc.NewString([]byte("abc")))
}
