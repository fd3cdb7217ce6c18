package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/lox/lang/compiler"
	"github.com/mna/lox/lang/gc"
	"github.com/mna/lox/lang/table"
	"github.com/mna/mainer"
)

// Disassemble implements `lox disassemble <path>` (spec.md §1's optional,
// non-load-bearing debug aid): compile the file and print its bytecode
// listing instead of running it. A compile error is reported the same way
// `run` reports one, without falling through to execution.
func (c *Cmd) Disassemble(ctx context.Context, stdio mainer.Stdio, args []string) error {
	path := args[0]
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	alloc := gc.New(table.NewInterner())
	res := compiler.Compile(string(src), alloc)
	if len(res.Errors) > 0 {
		for _, e := range res.Errors {
			fmt.Fprintln(stdio.Stderr, e.Error())
		}
		return &CompileError{msg: "compile error"}
	}

	res.Script.Chunk.Disassemble(stdio.Stdout, path)
	return nil
}
