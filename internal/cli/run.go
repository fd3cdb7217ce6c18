package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/mna/lox/lang/vm"
	"github.com/mna/mainer"
)

// Run implements `lox run [path]` (spec.md §6): with a path, read and
// interpret the file once; with none, start a REPL that interprets one
// line at a time until EOF.
func (c *Cmd) Run(ctx context.Context, stdio mainer.Stdio, args []string) error {
	if len(args) == 0 {
		return runREPL(ctx, stdio)
	}
	return runFile(ctx, stdio, args[0])
}

func runFile(ctx context.Context, stdio mainer.Stdio, path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	machine := vm.New(stdio.Stdout, stdio.Stderr)
	switch machine.Interpret(string(src)) {
	case vm.ResultCompileError:
		return &CompileError{msg: "compile error"}
	case vm.ResultRuntimeError:
		return &RuntimeError{msg: "runtime error"}
	default:
		return nil
	}
}

// runREPL implements the `> ` prompt loop (spec.md §6): every line is
// interpreted by the same VM, created once before the loop, so globals
// defined on one line stay visible to later lines. EOF on stdin exits with
// success.
func runREPL(ctx context.Context, stdio mainer.Stdio) error {
	machine := vm.New(stdio.Stdout, stdio.Stderr)
	scanner := bufio.NewScanner(stdio.Stdin)

	for {
		fmt.Fprint(stdio.Stdout, "> ")
		if !scanner.Scan() {
			return nil
		}
		if ctx.Err() != nil {
			return nil
		}
		machine.Interpret(scanner.Text())
	}
}
