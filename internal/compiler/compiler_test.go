package compiler

import (
	"testing"

	"github.com/rtsoliday/SDDS-sub003/internal/builtin"
	"github.com/rtsoliday/SDDS-sub003/internal/code"
	"github.com/rtsoliday/SDDS-sub003/internal/symbol"
	"github.com/rtsoliday/SDDS-sub003/internal/udf"
)

func newTestCompiler() (*Compiler, *code.Arena, *symbol.Table, *udf.Registry) {
	arena := code.NewArena()
	var syms *symbol.Table
	var udfs *udf.Registry
	syms = symbol.New(func(name string) bool {
		return builtin.Exists(name) || udfs.Exists(name)
	})
	udfs = udf.New(func(name string) bool {
		return builtin.Exists(name) || syms.Exists(name)
	})
	return New(arena, syms, udfs), arena, syms, udfs
}

func TestCompileNumbersAndBuiltin(t *testing.T) {
	c, arena, _, _ := newTestCompiler()
	rng, err := c.Compile("1 2 +")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if got := rng.End - rng.Start; got != 3 {
		t.Fatalf("instruction count = %d, want 3", got)
	}
	if in := arena.At(rng.Start); in.Op != code.OpNumber || in.Value != 1 {
		t.Errorf("first instruction = %+v, want number 1", *in)
	}
	plus, _ := builtin.Lookup("+")
	if in := arena.At(rng.Start + 2); in.Op != code.OpCallBuiltin || in.Operand != plus {
		t.Errorf("third instruction = %+v, want builtin +", *in)
	}
}

func TestStoreConsumesVariableName(t *testing.T) {
	c, arena, syms, _ := newTestCompiler()
	rng, err := c.Compile("3.5 sto x")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if got := rng.End - rng.Start; got != 2 {
		t.Fatalf("instruction count = %d, want 2 (sto consumes the name)", got)
	}
	slot, kind, ok := syms.Find("x")
	if !ok || kind != symbol.Number {
		t.Fatalf("x not created as numeric variable")
	}
	if in := arena.At(rng.Start + 1); in.Op != code.OpStoreVar || in.Operand != slot {
		t.Errorf("store instruction = %+v, want store to slot %d", *in, slot)
	}
}

func TestStringStore(t *testing.T) {
	c, arena, syms, _ := newTestCompiler()
	rng, err := c.Compile(`"hello" ssto greeting`)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if in := arena.At(rng.Start); in.Op != code.OpStringLiteral || in.Text != "hello" {
		t.Errorf("first instruction = %+v, want string literal", *in)
	}
	if _, kind, ok := syms.Find("greeting"); !ok || kind != symbol.String {
		t.Errorf("greeting not created as string variable")
	}
	if in := arena.At(rng.Start + 1); in.Op != code.OpStoreVarString {
		t.Errorf("second instruction = %+v, want string store", *in)
	}
}

func TestStoreWithoutName(t *testing.T) {
	c, _, _, _ := newTestCompiler()
	if _, err := c.Compile("2 sto"); err == nil {
		t.Fatal("sto without a variable name compiled")
	}
	if _, err := c.Compile("2 sto :"); err == nil {
		t.Fatal("sto with a conditional marker as name compiled")
	}
}

func TestStoreReservedName(t *testing.T) {
	c, _, _, _ := newTestCompiler()
	if _, err := c.Compile("1 sto sin"); err == nil {
		t.Fatal("variable shadowing builtin sin compiled")
	}
}

func TestUnknownTokenQueued(t *testing.T) {
	c, arena, _, _ := newTestCompiler()
	rng, err := c.Compile("mystery")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if in := arena.At(rng.Start); in.Op != code.OpUnresolved || in.Text != "mystery" {
		t.Errorf("instruction = %+v, want unresolved", *in)
	}
	if !c.HasPending("mystery") {
		t.Error("unresolved token not queued for relinking")
	}
}

func TestRelinkPatchesUdfReference(t *testing.T) {
	c, arena, _, udfs := newTestCompiler()
	rng, err := c.Compile("later")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	handle, err := udfs.Declare("later", "42")
	if err != nil {
		t.Fatalf("Declare: %v", err)
	}
	body, err := c.Compile("42")
	if err != nil {
		t.Fatalf("Compile body: %v", err)
	}
	udfs.SetRange(handle, body)

	c.Relink()
	in := arena.At(rng.Start)
	if in.Op != code.OpCallUdf || in.Operand != handle {
		t.Errorf("instruction after relink = %+v, want call to handle %d", *in, handle)
	}
	if c.HasPending("later") {
		t.Error("resolved name still queued")
	}
}

func TestRelinkPatchesVariableReference(t *testing.T) {
	c, arena, syms, _ := newTestCompiler()
	rng, err := c.Compile("q q")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	slot, err := syms.Create("q", symbol.Number)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	c.Relink()
	for pos := rng.Start; pos < rng.End; pos++ {
		if in := arena.At(pos); in.Op != code.OpLoadVar || in.Operand != slot {
			t.Errorf("instruction %d = %+v, want recall of slot %d", pos, *in, slot)
		}
	}
}

func TestRelinkWithoutChangesIsNoop(t *testing.T) {
	c, arena, _, _ := newTestCompiler()
	rng, err := c.Compile("ghost")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	c.Relink()
	if in := arena.At(rng.Start); in.Op != code.OpUnresolved {
		t.Errorf("instruction changed without any new definition: %+v", *in)
	}
	if !c.HasPending("ghost") {
		t.Error("unresolvable name dropped from queue")
	}
}

func TestConditionalPairing(t *testing.T) {
	c, arena, _, _ := newTestCompiler()
	rng, err := c.Compile("true : 10 $")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	colon := arena.At(rng.Start + 1)
	if colon.Op != code.OpCondColon {
		t.Fatalf("second instruction = %+v, want cond-colon", *colon)
	}
	if dollar := arena.At(colon.Operand); dollar.Op != code.OpCondDollar {
		t.Errorf("colon points at %+v, want cond-dollar", *dollar)
	}
}

func TestNestedConditionalPairing(t *testing.T) {
	c, arena, _, _ := newTestCompiler()
	rng, err := c.Compile("true : true : 1 $ 2 $")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	outer := arena.At(rng.Start + 1)
	inner := arena.At(rng.Start + 3)
	if inner.Operand >= outer.Operand {
		t.Errorf("inner colon -> %d, outer colon -> %d; inner should close first",
			inner.Operand, outer.Operand)
	}
}

func TestUnbalancedConditionals(t *testing.T) {
	c, _, _, _ := newTestCompiler()
	if _, err := c.Compile("true : 1"); err == nil {
		t.Error("colon without dollar compiled")
	}
	if _, err := c.Compile("1 $"); err == nil {
		t.Error("dollar without colon compiled")
	}
}

func TestUnterminatedString(t *testing.T) {
	c, _, _, _ := newTestCompiler()
	if _, err := c.Compile(`"no closing quote`); err == nil {
		t.Error("unterminated string compiled")
	}
}

func TestStoreNumericNameShadowsLiteral(t *testing.T) {
	c, arena, syms, _ := newTestCompiler()
	if _, err := c.Compile("7 sto 3.5"); err != nil {
		t.Fatalf("Compile: %v", err)
	}
	slot, _, ok := syms.Find("3.5")
	if !ok {
		t.Fatal("3.5 not created as a variable")
	}
	rng, err := c.Compile("3.5")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if in := arena.At(rng.Start); in.Op != code.OpLoadVar || in.Operand != slot {
		t.Errorf("3.5 after store = %+v, want recall of slot %d", *in, slot)
	}
}

func TestVariableClassifiedBeforeUdf(t *testing.T) {
	// A name can never be both, but the lookup order is load-bearing for
	// the relinker, which must mirror it.
	c, arena, syms, _ := newTestCompiler()
	if _, err := syms.Create("v", symbol.Number); err != nil {
		t.Fatalf("Create: %v", err)
	}
	rng, err := c.Compile("v")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if in := arena.At(rng.Start); in.Op != code.OpLoadVar {
		t.Errorf("instruction = %+v, want variable recall", *in)
	}
}
