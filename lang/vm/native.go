package vm

import (
	"time"

	"github.com/mna/lox/lang/value"
)

// clockStart anchors clock()'s return value; a lox program only ever
// observes elapsed seconds, never wall-clock time, so there is nothing
// host-specific to hide from a script comparing two clock() readings.
var clockStart = time.Now()

// defineNatives installs the host-implemented callbacks every lox program
// can call without an import (spec.md §3's NativeFn kind; §4's listing of
// "native → nothing" GC roots besides globals/stack). clock is the one the
// reference implementation and spec.md's scheduling notes both name.
func (vm *VM) defineNatives() {
	vm.defineNative("clock", 0, func(args []value.Value) (value.Value, error) {
		return value.Number(time.Since(clockStart).Seconds()), nil
	})
}

func (vm *VM) defineNative(name string, arity int, fn func(args []value.Value) (value.Value, error)) {
	nameStr := vm.alloc.NewString([]byte(name))
	native := vm.alloc.NewNativeFn(name, arity, fn)
	vm.globals.Set(nameStr, value.FromObj(native))
}
