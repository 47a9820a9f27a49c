package vm_test

import (
	"strings"
	"testing"

	"github.com/rtsoliday/SDDS-sub003/internal/builtin"
	"github.com/rtsoliday/SDDS-sub003/internal/code"
	"github.com/rtsoliday/SDDS-sub003/internal/compiler"
	"github.com/rtsoliday/SDDS-sub003/internal/symbol"
	"github.com/rtsoliday/SDDS-sub003/internal/udf"
	"github.com/rtsoliday/SDDS-sub003/internal/vm"
)

type fixture struct {
	arena *code.Arena
	syms  *symbol.Table
	udfs  *udf.Registry
	comp  *compiler.Compiler
	m     *vm.Machine
}

func newFixture(maxFrames int) *fixture {
	arena := code.NewArena()
	var syms *symbol.Table
	var udfs *udf.Registry
	syms = symbol.New(func(name string) bool {
		return builtin.Exists(name) || udfs.Exists(name)
	})
	udfs = udf.New(func(name string) bool {
		return builtin.Exists(name) || syms.Exists(name)
	})
	return &fixture{
		arena: arena,
		syms:  syms,
		udfs:  udfs,
		comp:  compiler.New(arena, syms, udfs),
		m: vm.New(vm.Config{
			Arena:     arena,
			Symbols:   syms,
			Udfs:      udfs,
			Builtins:  builtin.Table(),
			MaxFrames: maxFrames,
		}),
	}
}

func (f *fixture) run(t *testing.T, src string) error {
	t.Helper()
	f.comp.Relink()
	rng, err := f.comp.Compile(src)
	if err != nil {
		t.Fatalf("Compile(%q): %v", src, err)
	}
	return f.m.Execute(rng)
}

func (f *fixture) eval(t *testing.T, src string) float64 {
	t.Helper()
	if err := f.run(t, src); err != nil {
		t.Fatalf("Execute(%q): %v", src, err)
	}
	v, err := f.m.PopNum("test")
	if err != nil {
		t.Fatalf("Execute(%q) left empty numeric stack", src)
	}
	return v
}

func (f *fixture) define(t *testing.T, name, body string) {
	t.Helper()
	handle, err := f.udfs.Declare(name, body)
	if err != nil {
		t.Fatalf("Declare(%q): %v", name, err)
	}
	rng, err := f.comp.Compile(body)
	if err != nil {
		t.Fatalf("Compile body of %q: %v", name, err)
	}
	f.udfs.SetRange(handle, rng)
}

func TestArithmetic(t *testing.T) {
	f := newFixture(0)
	if got := f.eval(t, "1 2 +"); got != 3 {
		t.Errorf("1 2 + = %g, want 3", got)
	}
	if got := f.eval(t, "10 4 -"); got != 6 {
		t.Errorf("10 4 - = %g, want 6", got)
	}
	if got := f.eval(t, "2 10 pow"); got != 1024 {
		t.Errorf("2 10 pow = %g, want 1024", got)
	}
}

func TestStoreAndRecall(t *testing.T) {
	f := newFixture(0)
	if err := f.run(t, "3.5 sto x"); err != nil {
		t.Fatalf("store: %v", err)
	}
	if got := f.eval(t, "x 2 *"); got != 7 {
		t.Errorf("x 2 * = %g, want 7", got)
	}
	slot, _, _ := f.syms.Find("x")
	if got := f.syms.Recall(slot); got != 3.5 {
		t.Errorf("recall slot = %g, want 3.5", got)
	}
}

func TestStorePopsOperand(t *testing.T) {
	f := newFixture(0)
	if err := f.run(t, "9 sto y"); err != nil {
		t.Fatalf("store: %v", err)
	}
	if depth := f.m.NumDepth(); depth != 0 {
		t.Errorf("numeric stack depth after sto = %d, want 0", depth)
	}
}

func TestConditionalTakenAndSkipped(t *testing.T) {
	f := newFixture(0)
	if got := f.eval(t, "1 2 < : 10 $"); got != 10 {
		t.Errorf("taken branch = %g, want 10", got)
	}
	f.m.ClearStacks()
	if err := f.run(t, "2 1 < : 10 $"); err != nil {
		t.Fatalf("skipped branch: %v", err)
	}
	if depth := f.m.NumDepth(); depth != 0 {
		t.Errorf("numeric stack depth after skipped branch = %d, want 0", depth)
	}
}

func TestConditionalSkipInsideUdf(t *testing.T) {
	f := newFixture(0)
	f.define(t, "pick", "5 < : 100 $")
	if got := f.eval(t, "1 pick"); got != 100 {
		t.Errorf("1 pick = %g, want 100", got)
	}
	f.m.ClearStacks()
	if err := f.run(t, "9 pick"); err != nil {
		t.Fatalf("9 pick: %v", err)
	}
	if depth := f.m.NumDepth(); depth != 0 {
		t.Errorf("depth after 9 pick = %d, want 0", depth)
	}
}

func TestForwardReference(t *testing.T) {
	f := newFixture(0)
	f.define(t, "A", "B 2 *")
	f.define(t, "B", "21")
	if got := f.eval(t, "A"); got != 42 {
		t.Errorf("A = %g, want 42", got)
	}
}

func TestRedefinitionReachesAllCallSites(t *testing.T) {
	f := newFixture(0)
	f.define(t, "B", "1")
	f.define(t, "A", "B B +")
	if got := f.eval(t, "A"); got != 2 {
		t.Fatalf("A = %g, want 2 before redefinition", got)
	}
	f.define(t, "B", "2")
	if got := f.eval(t, "A"); got != 4 {
		t.Errorf("A = %g after redefining B, want 4", got)
	}
}

func TestRecursionDepthBounded(t *testing.T) {
	f := newFixture(8)
	f.define(t, "loop", "loop")
	err := f.run(t, "loop")
	if err == nil {
		t.Fatal("unbounded recursion terminated without error")
	}
	if !strings.Contains(err.Error(), "recursion") {
		t.Errorf("error = %q, want mention of recursion", err)
	}
}

func TestUnderflowIsRecoverable(t *testing.T) {
	f := newFixture(0)
	err := f.run(t, "+")
	if err == nil {
		t.Fatal("+ on empty stack succeeded")
	}
	if _, ok := err.(*vm.RunError); !ok {
		t.Fatalf("error type = %T, want *vm.RunError", err)
	}
	if got := f.eval(t, "1 2 +"); got != 3 {
		t.Errorf("machine unusable after underflow: 1 2 + = %g", got)
	}
}

func TestErrorLeavesStacksAsIs(t *testing.T) {
	f := newFixture(0)
	if err := f.run(t, "7 8"); err != nil {
		t.Fatalf("push: %v", err)
	}
	if err := f.run(t, "-1 sqrt"); err == nil {
		t.Fatal("sqrt of negative succeeded")
	}
	if depth := f.m.NumDepth(); depth != 2 {
		t.Errorf("numeric stack depth after failed expression = %d, want 2", depth)
	}
}

func TestUnknownTokenFailsAtExecution(t *testing.T) {
	f := newFixture(0)
	err := f.run(t, "nosuchthing")
	if err == nil {
		t.Fatal("unresolved token executed without error")
	}
	if !strings.Contains(err.Error(), "unknown token") {
		t.Errorf("error = %q, want unknown token", err)
	}
}

func TestEmptyUdfBodyIsNoop(t *testing.T) {
	f := newFixture(0)
	f.define(t, "nop", "")
	if err := f.run(t, "nop"); err != nil {
		t.Fatalf("empty function: %v", err)
	}
}

func TestStringBuiltinsRoundTrip(t *testing.T) {
	f := newFixture(0)
	if got := f.eval(t, `"2.5" scan 2 *`); got != 5 {
		t.Errorf(`"2.5" scan 2 * = %g, want 5`, got)
	}
	if err := f.run(t, `"abc" strlen`); err != nil {
		t.Fatalf("strlen: %v", err)
	}
	v, _ := f.m.PopNum("test")
	if v != 3 {
		t.Errorf("strlen = %g, want 3", v)
	}
}
