// Package rpn is an embeddable reverse-Polish expression interpreter.
//
// Input is compiled to pseudocode held in a shared instruction arena, then
// executed by a stack machine with separate numeric, string, logic, and
// array operand stacks. Names that are not yet defined compile to
// placeholder instructions and are patched in place once a definition
// appears, so functions may freely refer to functions defined later. All
// errors are recoverable: the interpreter stays usable and operand stacks
// keep their state.
//
// An Interpreter is single-threaded; wrap it in your own lock if you need
// to share one between goroutines.
package rpn

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rtsoliday/SDDS-sub003/internal/builtin"
	"github.com/rtsoliday/SDDS-sub003/internal/code"
	"github.com/rtsoliday/SDDS-sub003/internal/compiler"
	"github.com/rtsoliday/SDDS-sub003/internal/symbol"
	"github.com/rtsoliday/SDDS-sub003/internal/udf"
	"github.com/rtsoliday/SDDS-sub003/internal/vm"
)

// ResultKind tells what, if anything, a top-level evaluation produced.
type ResultKind int

const (
	KindNone ResultKind = iota
	KindNumber
	KindLogical
)

// Result is the value left on top of the relevant stack after Evaluate. The
// value is peeked, not popped; it remains available to later expressions.
type Result struct {
	Kind    ResultKind
	Number  float64
	Logical bool
}

func (r Result) String() string {
	switch r.Kind {
	case KindNumber:
		return fmt.Sprintf("%g", r.Number)
	case KindLogical:
		return fmt.Sprintf("%v", r.Logical)
	}
	return ""
}

type settings struct {
	diag         io.Writer
	format       string
	maxDepth     int
	cycleLimit   int
	shellCmd     []string
	shellTimeout time.Duration
}

// Option configures an Interpreter at construction time.
type Option func(*settings)

// WithDiagnostics redirects listings and messages from introspection
// operations (view, smem, rev, pcode, puts). Default is os.Stderr.
func WithDiagnostics(w io.Writer) Option {
	return func(s *settings) { s.diag = w }
}

// WithFormat sets the printf verb used when numbers are formatted or listed.
func WithFormat(format string) Option {
	return func(s *settings) { s.format = format }
}

// WithMaxDepth bounds the function call depth.
func WithMaxDepth(n int) Option {
	return func(s *settings) { s.maxDepth = n }
}

// WithCycleLimit bounds the number of instructions one Evaluate may execute.
func WithCycleLimit(n int) Option {
	return func(s *settings) { s.cycleLimit = n }
}

// WithShellCommand sets the command started lazily for cshs. Default is
// "/bin/sh".
func WithShellCommand(name string, args ...string) Option {
	return func(s *settings) { s.shellCmd = append([]string{name}, args...) }
}

// WithShellTimeout bounds how long a cshs command may run before the shell
// is declared dead.
func WithShellTimeout(d time.Duration) Option {
	return func(s *settings) { s.shellTimeout = d }
}

// Interpreter owns the arena, the registries, the compiler, and the machine.
type Interpreter struct {
	arena   *code.Arena
	syms    *symbol.Table
	udfs    *udf.Registry
	comp    *compiler.Compiler
	machine *vm.Machine

	diag         io.Writer
	shellCmd     []string
	shellTimeout time.Duration
	shell        *companionShell
}

// New constructs an interpreter with an empty arena and empty registries.
func New(opts ...Option) *Interpreter {
	s := settings{
		diag:         os.Stderr,
		format:       "%.15g",
		shellCmd:     []string{"/bin/sh"},
		shellTimeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(&s)
	}

	arena := code.NewArena()
	var syms *symbol.Table
	var udfs *udf.Registry
	syms = symbol.New(func(name string) bool {
		return builtin.Exists(name) || udfs.Exists(name)
	})
	udfs = udf.New(func(name string) bool {
		return builtin.Exists(name) || syms.Exists(name)
	})

	it := &Interpreter{
		arena: arena,
		syms:  syms,
		udfs:  udfs,
		comp:  compiler.New(arena, syms, udfs),
		machine: vm.New(vm.Config{
			Arena:      arena,
			Symbols:    syms,
			Udfs:       udfs,
			Builtins:   builtin.Table(),
			MaxFrames:  s.maxDepth,
			CycleLimit: s.cycleLimit,
		}),
		diag:         s.diag,
		shellCmd:     s.shellCmd,
		shellTimeout: s.shellTimeout,
	}
	it.machine.Diag = s.diag
	it.machine.Format = s.format
	it.machine.DefineUDF = it.DefineFunction
	it.machine.ListPcode = it.listPcode
	it.machine.SendShell = it.sendShell
	return it
}

// Evaluate compiles and executes one top-level input. Pending forward
// references are relinked before execution so definitions made since the
// last call take effect everywhere.
func (it *Interpreter) Evaluate(text string) (Result, error) {
	it.comp.Relink()
	rng, err := it.comp.Compile(text)
	if err != nil {
		return Result{}, &CompileError{Input: text, Err: err}
	}
	// A sto inside this input may have created a variable that earlier
	// tokens of the same input referred to.
	it.comp.Relink()
	if err := it.machine.Execute(rng); err != nil {
		return Result{}, &EvalError{Err: err}
	}
	return it.result(), nil
}

func (it *Interpreter) result() Result {
	switch it.machine.LastCategory() {
	case vm.CatNumeric, vm.CatLogical:
		// A conditional may have consumed the logical result; fall back to
		// the numeric stack so "cond : work $" still reports the work.
		if b, err := it.machine.PeekLogic(""); err == nil && it.machine.LastCategory() == vm.CatLogical {
			return Result{Kind: KindLogical, Logical: b}
		}
		if v, err := it.machine.PeekNum(""); err == nil {
			return Result{Kind: KindNumber, Number: v}
		}
	}
	return Result{}
}

// DefineFunction creates or redefines a named function. The name is entered
// into the registry before the body is compiled, so a body may call itself.
// Existing call sites keep working across redefinition. If the body fails to
// compile the name stays defined with an empty body.
func (it *Interpreter) DefineFunction(name, body string) error {
	if name == "" || strings.ContainsAny(name, " \t\n\"") {
		return &DefineError{Name: name, Err: fmt.Errorf("invalid function name")}
	}
	handle, err := it.udfs.Declare(name, body)
	if err != nil {
		return &DefineError{Name: name, Err: err}
	}
	rng, err := it.comp.Compile(body)
	if err != nil {
		it.udfs.SetRange(handle, code.Range{})
		return &DefineError{Name: name, Err: err}
	}
	it.udfs.SetRange(handle, rng)
	return nil
}

// GetVariable returns the numeric value of a variable.
func (it *Interpreter) GetVariable(name string) (float64, bool) {
	slot, kind, ok := it.syms.Find(name)
	if !ok || kind != symbol.Number {
		return 0, false
	}
	return it.syms.Recall(slot), true
}

// SetVariable sets a numeric variable, creating it if needed.
func (it *Interpreter) SetVariable(name string, v float64) error {
	slot, err := it.syms.Create(name, symbol.Number)
	if err != nil {
		return &DefineError{Name: name, Err: err}
	}
	it.syms.Store(slot, v)
	return nil
}

// GetVariableString returns the string value of a variable.
func (it *Interpreter) GetVariableString(name string) (string, bool) {
	slot, kind, ok := it.syms.Find(name)
	if !ok || kind != symbol.String {
		return "", false
	}
	return it.syms.RecallString(slot), true
}

// SetVariableString sets a string variable, creating it if needed.
func (it *Interpreter) SetVariableString(name, value string) error {
	slot, err := it.syms.Create(name, symbol.String)
	if err != nil {
		return &DefineError{Name: name, Err: err}
	}
	it.syms.StoreString(slot, value)
	return nil
}

// Variables returns all variable names in sorted order.
func (it *Interpreter) Variables() []string { return it.syms.Names() }

// Functions returns all function names in sorted order.
func (it *Interpreter) Functions() []string {
	entries := it.udfs.All()
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}

// Disassemble writes the compiled listing of a function to the diagnostics
// writer.
func (it *Interpreter) Disassemble(name string) error {
	return it.listPcode(name)
}

// ClearStacks empties all operand stacks.
func (it *Interpreter) ClearStacks() { it.machine.ClearStacks() }

// StackDepth returns the numeric stack depth.
func (it *Interpreter) StackDepth() int { return it.machine.NumDepth() }

// LoadFile evaluates a definitions file line by line. Blank lines and lines
// starting with "/*" are skipped.
func (it *Interpreter) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	lineno := 0
	for sc.Scan() {
		lineno++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "/*") {
			continue
		}
		if _, err := it.Evaluate(line); err != nil {
			return fmt.Errorf("%s:%d: %w", path, lineno, err)
		}
	}
	return sc.Err()
}

// Close shuts down the companion shell, if one was started.
func (it *Interpreter) Close() error {
	if it.shell == nil {
		return nil
	}
	err := it.shell.Close()
	it.shell = nil
	return err
}

func (it *Interpreter) listPcode(name string) error {
	handle, ok := it.udfs.Find(name)
	if !ok {
		return fmt.Errorf("no function named %q", name)
	}
	rng, _ := it.udfs.Range(handle)
	d := code.NewDisassembler(it.machine.Diag, it.arena, code.Resolver{
		BuiltinName: it.machine.BuiltinName,
		UdfName:     it.udfs.Name,
		VarName:     it.syms.Name,
	})
	return d.DisassembleRange(name, rng)
}

func (it *Interpreter) sendShell(command string) error {
	if it.shell == nil {
		sh, err := startShell(it.shellCmd, it.shellTimeout, it.diag)
		if err != nil {
			return err
		}
		it.shell = sh
	}
	return it.shell.Send(command)
}
