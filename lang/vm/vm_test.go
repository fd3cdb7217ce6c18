package vm_test

import (
	"bytes"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/mna/lox/internal/filetest"
	"github.com/mna/lox/lang/vm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testUpdateVMTests = flag.Bool("test.update-vm-tests", false, "If set, replace expected VM test results with actual results.")

// TestInterpret runs every testdata/in/*.lox program end to end and diffs
// its stdout against testdata/out/*.lox.want, covering spec.md §8's
// end-to-end scenarios: arithmetic/precedence, scope shadowing, recursion,
// closures over a shared upvalue, string interning equality, and
// inheritance/super dispatch.
func TestInterpret(t *testing.T) {
	srcDir, resultDir := filepath.Join("testdata", "in"), filepath.Join("testdata", "out")

	for _, fi := range filetest.SourceFiles(t, srcDir, ".lox") {
		t.Run(fi.Name(), func(t *testing.T) {
			src, err := os.ReadFile(filepath.Join(srcDir, fi.Name()))
			require.NoError(t, err)

			var out, errOut bytes.Buffer
			m := vm.New(&out, &errOut)
			result := m.Interpret(string(src))

			assert.Equal(t, vm.ResultOK, result, "stderr: %s", errOut.String())
			filetest.DiffOutput(t, fi, out.String(), resultDir, testUpdateVMTests)
		})
	}
}

// TestStressGCDoesNotChangeObservableBehaviour reruns every program with
// the collector forced to run on every allocation (spec.md §8: "the
// stress-GC mode forces a collection at every allocation and must not
// change observable behaviour").
func TestStressGCDoesNotChangeObservableBehaviour(t *testing.T) {
	srcDir, resultDir := filepath.Join("testdata", "in"), filepath.Join("testdata", "out")

	for _, fi := range filetest.SourceFiles(t, srcDir, ".lox") {
		t.Run(fi.Name(), func(t *testing.T) {
			src, err := os.ReadFile(filepath.Join(srcDir, fi.Name()))
			require.NoError(t, err)

			var out, errOut bytes.Buffer
			m := vm.New(&out, &errOut)
			m.SetStressGC(true)
			result := m.Interpret(string(src))

			assert.Equal(t, vm.ResultOK, result, "stderr: %s", errOut.String())
			filetest.DiffOutput(t, fi, out.String(), resultDir, testUpdateVMTests)
		})
	}
}

func TestRuntimeErrorResetsStacksAndReportsTrace(t *testing.T) {
	var out, errOut bytes.Buffer
	m := vm.New(&out, &errOut)

	result := m.Interpret(`
fun divide(a, b) {
  return a + b;
}
print divide(1, "two");
`)

	assert.Equal(t, vm.ResultRuntimeError, result)
	assert.Contains(t, errOut.String(), "Operands for operator '+' not supported.")
	assert.Contains(t, errOut.String(), "[line 3] in divide()")
}

func TestCompileErrorDoesNotExecute(t *testing.T) {
	var out, errOut bytes.Buffer
	m := vm.New(&out, &errOut)

	result := m.Interpret(`print 1 +;`)

	assert.Equal(t, vm.ResultCompileError, result)
	assert.Empty(t, out.String())
	assert.NotEmpty(t, errOut.String())
}
