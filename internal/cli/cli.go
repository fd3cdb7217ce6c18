// Package cli implements the lox command-line driver (spec.md §6): a
// mainer.Cmd-shaped flag/subcommand dispatcher that maps compile, runtime,
// and I/O failures to the exact exit codes the spec pins, grounded in the
// teacher's internal/maincmd package and its use of github.com/mna/mainer.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/mna/mainer"
)

const binName = "lox"

var (
	shortUsage = fmt.Sprintf(`
usage: %s [<option>...] [<command>] [<path>]
Run '%[1]s --help' for details.
`, binName)

	longUsage = fmt.Sprintf(`usage: %s [<option>...] [<command>] [<path>]
       %[1]s -h|--help
       %[1]s -v|--version

Compiler and virtual machine for the lox scripting language.

The <command> can be one of:
       run                       Run a script file, or start a REPL if no
                                 path is given (the default command).
       disassemble               Compile <path> and print its bytecode
                                 listing instead of running it.

Valid flag options are:
       -h --help                 Show this help and exit.
       -v --version              Print version and exit.
`, binName)
)

// exit codes, per spec.md §6.
const (
	exitSuccess      mainer.ExitCode = 0
	exitCompileError mainer.ExitCode = 65
	exitRuntimeError mainer.ExitCode = 70
	exitIOError      mainer.ExitCode = 74
	exitUsageError   mainer.ExitCode = 64
)

// Cmd is the root command struct mainer.Parser fills in from os.Args, in
// the shape the teacher's maincmd.Cmd establishes: public fields tagged for
// flags, private fields for parsed positional state.
type Cmd struct {
	BuildVersion string
	BuildDate    string

	Help    bool `flag:"h,help"`
	Version bool `flag:"v,version"`

	args  []string
	flags map[string]bool
	cmdFn func(context.Context, mainer.Stdio, []string) error
}

func (c *Cmd) SetArgs(args []string)          { c.args = args }
func (c *Cmd) SetFlags(flags map[string]bool) { c.flags = flags }

// Validate resolves the subcommand to run. A first positional argument
// that names a known command ("run", "disassemble") selects it; otherwise
// "run" is the default, so that bare `lox` and `lox <path>` (spec.md §6)
// work without writing "run" explicitly.
func (c *Cmd) Validate() error {
	if c.Help || c.Version {
		return nil
	}

	commands := buildCmds(c)

	cmdName := "run"
	rest := c.args
	if len(c.args) > 0 {
		if _, ok := commands[c.args[0]]; ok {
			cmdName = c.args[0]
			rest = c.args[1:]
		}
	}

	c.cmdFn = commands[cmdName]
	if c.cmdFn == nil {
		return fmt.Errorf("unknown command: %s", cmdName)
	}
	if len(rest) > 1 {
		return errors.New("too many arguments")
	}
	if cmdName == "disassemble" && len(rest) == 0 {
		return errors.New("disassemble: a path is required")
	}
	c.args = rest
	return nil
}

// Main parses args, dispatches to the resolved subcommand, and translates
// its outcome to a process exit code (spec.md §6).
func (c *Cmd) Main(args []string, stdio mainer.Stdio) mainer.ExitCode {
	p := mainer.Parser{EnvVars: false, EnvPrefix: strings.ToUpper(binName) + "_"}
	if err := p.Parse(args, c); err != nil {
		fmt.Fprintf(stdio.Stderr, "invalid arguments: %s\n%s", err, shortUsage)
		return exitUsageError
	}

	switch {
	case c.Help:
		fmt.Fprint(stdio.Stdout, longUsage)
		return exitSuccess
	case c.Version:
		fmt.Fprintf(stdio.Stdout, "%s %s %s\n", binName, c.BuildVersion, c.BuildDate)
		return exitSuccess
	}

	ctx := mainer.CancelOnSignal(context.Background(), os.Interrupt)
	err := c.cmdFn(ctx, stdio, c.args)
	return exitCodeFor(err)
}

func exitCodeFor(err error) mainer.ExitCode {
	switch {
	case err == nil:
		return exitSuccess
	case errors.As(err, new(*CompileError)):
		return exitCompileError
	case errors.As(err, new(*RuntimeError)):
		return exitRuntimeError
	case errors.As(err, new(*UsageError)):
		return exitUsageError
	default:
		return exitIOError
	}
}

// valid commands are those matching the (ctx, stdio, args) -> error shape,
// discovered by reflection the way the teacher's buildCmds does (see
// internal/maincmd/maincmd.go).
func buildCmds(v interface{}) map[string]func(context.Context, mainer.Stdio, []string) error {
	cmds := make(map[string]func(context.Context, mainer.Stdio, []string) error)

	vv := reflect.ValueOf(v)
	vt := vv.Type()
	for i := 0; i < vt.NumMethod(); i++ {
		m := vt.Method(i)
		mt := m.Type
		if mt.NumIn() != 4 || mt.NumOut() != 1 {
			continue
		}
		if rt := mt.Out(0); rt.Kind() != reflect.Interface || rt.Name() != "error" {
			continue
		}
		if p0 := mt.In(0); p0.Kind() != reflect.Ptr || p0.Elem().Name() != "Cmd" {
			continue
		}
		if p1 := mt.In(1); p1.Kind() != reflect.Interface || p1.Name() != "Context" {
			continue
		}
		if p2 := mt.In(2); p2.Kind() != reflect.Struct || p2.Name() != "Stdio" {
			continue
		}
		if p3 := mt.In(3); p3.Kind() != reflect.Slice || p3.Elem().Name() != "string" {
			continue
		}
		cmds[strings.ToLower(m.Name)] = vv.Method(i).Interface().(func(context.Context, mainer.Stdio, []string) error)
	}
	return cmds
}
