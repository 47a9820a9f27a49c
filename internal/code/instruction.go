package code

// Op tags one pseudocode instruction.
type Op uint8

const (
	// OpNumber pushes a numeric literal onto the numeric stack.
	OpNumber Op = iota
	// OpStringLiteral pushes a string literal onto the string stack.
	OpStringLiteral
	// OpCallBuiltin invokes a built-in operation by registry id.
	OpCallBuiltin
	// OpCallUdf pushes an execution frame for a user-defined function.
	OpCallUdf
	// OpLoadVar / OpLoadVarString recall a variable by slot.
	OpLoadVar
	OpLoadVarString
	// OpStoreVar / OpStoreVarString pop the matching stack into a variable.
	OpStoreVar
	OpStoreVarString
	// OpCondColon pops the logic stack; false skips to the matching dollar.
	OpCondColon
	// OpCondDollar marks the end of a conditional branch.
	OpCondDollar
	// OpUnresolved is a deferred reference awaiting relinking; executing it
	// is an error.
	OpUnresolved
)

// Instruction is one entry of the compiled pseudocode array.
// Operand is the builtin id, UDF handle, or variable slot; for OpCondColon it
// holds the arena position of the matching OpCondDollar, patched at link time.
// Text keeps the original token for string literals, unresolved names, and
// diagnostics.
type Instruction struct {
	Op      Op
	Operand int
	Value   float64
	Text    string
}

// Range identifies a half-open [Start, End) span of the instruction arena.
type Range struct {
	Start int
	End   int
}

// Empty reports whether the range contains no instructions.
func (r Range) Empty() bool { return r.End <= r.Start }

// Arena is the shared, append-only instruction array. Compiled ranges are
// never removed; redefined functions simply point at a fresh range.
type Arena struct {
	ins []Instruction
}

// NewArena constructs an empty instruction arena.
func NewArena() *Arena {
	return &Arena{ins: make([]Instruction, 0, 256)}
}

// Append adds an instruction and returns its arena position.
func (a *Arena) Append(in Instruction) int {
	a.ins = append(a.ins, in)
	return len(a.ins) - 1
}

// At returns a pointer to the instruction at pos for in-place patching.
func (a *Arena) At(pos int) *Instruction {
	return &a.ins[pos]
}

// Len returns the current arena size; the next Append lands here.
func (a *Arena) Len() int { return len(a.ins) }

// Slice returns the instructions of a range for read-only iteration.
func (a *Arena) Slice(r Range) []Instruction {
	return a.ins[r.Start:r.End]
}
