// Package vm implements the stack machine that walks compiled pseudocode.
// UDF calls push explicit frames instead of recursing on the host stack, so
// call depth is bounded by the frame limit, not by goroutine stack size.
package vm

import (
	"io"
	"math/rand"
	"os"

	"github.com/rtsoliday/SDDS-sub003/internal/code"
	"github.com/rtsoliday/SDDS-sub003/internal/symbol"
	"github.com/rtsoliday/SDDS-sub003/internal/udf"
)

// Category classifies a built-in by the stack its result lands on, which
// decides what the REPL reports after a top-level evaluation.
type Category int

const (
	CatOther Category = iota
	CatNumeric
	CatLogical
)

// Builtin is one leaf operation. Fn pops its operands off the machine stacks
// and pushes its results; operand-stack underflow must surface as a
// recoverable error, never a panic.
type Builtin struct {
	Name     string
	Category Category
	Fn       func(*Machine) error
}

type frame struct {
	start int
	end   int
	pos   int
}

// Machine holds the four operand stacks, the frame stack, and the hooks that
// connect leaf operations back to the host. One Machine serves one
// Interpreter and is not safe for concurrent use.
type Machine struct {
	arena    *code.Arena
	syms     *symbol.Table
	udfs     *udf.Registry
	builtins []Builtin

	num   []float64
	str   []string
	logic []bool
	arr   [][]float64

	frames     []frame
	maxFrames  int
	cycleLimit int
	cycles     int

	lastCat Category

	// Diag receives listings and messages from introspection builtins.
	Diag io.Writer
	// Format is the numeric output format used by view/format operations.
	Format string
	// Rand drives the random-number builtins; reseeded by srnd.
	Rand *rand.Rand

	// Host hooks, wired by the owning interpreter.
	DefineUDF func(name, body string) error
	SendShell func(command string) error
	ListPcode func(name string) error
}

const (
	defaultMaxFrames  = 4096
	defaultCycleLimit = 10_000_000
)

// Config bundles the machine's collaborators and limits.
type Config struct {
	Arena      *code.Arena
	Symbols    *symbol.Table
	Udfs       *udf.Registry
	Builtins   []Builtin
	MaxFrames  int
	CycleLimit int
}

// New constructs a machine with empty stacks.
func New(cfg Config) *Machine {
	m := &Machine{
		arena:      cfg.Arena,
		syms:       cfg.Symbols,
		udfs:       cfg.Udfs,
		builtins:   cfg.Builtins,
		num:        make([]float64, 0, 64),
		frames:     make([]frame, 0, 16),
		maxFrames:  cfg.MaxFrames,
		cycleLimit: cfg.CycleLimit,
		Diag:       os.Stderr,
		Format:     "%.15g",
		Rand:       rand.New(rand.NewSource(987654321)),
	}
	if m.maxFrames <= 0 {
		m.maxFrames = defaultMaxFrames
	}
	if m.cycleLimit < 0 {
		m.cycleLimit = 0
	}
	if m.cycleLimit == 0 {
		m.cycleLimit = defaultCycleLimit
	}
	return m
}

// Execute walks one instruction range to completion. Operand stacks are
// deliberately left as-is on error so the caller can inspect partial state;
// the frame stack is always reset on entry.
func (m *Machine) Execute(r code.Range) error {
	m.frames = m.frames[:0]
	m.cycles = 0
	m.frames = append(m.frames, frame{start: r.Start, end: r.End, pos: r.Start})

	for len(m.frames) > 0 {
		fr := &m.frames[len(m.frames)-1]
		if fr.pos >= fr.end {
			m.frames = m.frames[:len(m.frames)-1]
			continue
		}
		pos := fr.pos
		in := m.arena.At(pos)
		fr.pos++
		m.cycles++
		if m.cycles > m.cycleLimit {
			return &RunError{Op: opName(m, in), Message: "cycle limit exceeded", Pos: pos}
		}

		switch in.Op {
		case code.OpNumber:
			m.PushNum(in.Value)
			m.lastCat = CatNumeric
		case code.OpStringLiteral:
			m.PushString(in.Text)
			m.lastCat = CatOther
		case code.OpCallBuiltin:
			b := &m.builtins[in.Operand]
			if err := b.Fn(m); err != nil {
				return withPos(err, pos)
			}
			m.lastCat = b.Category
		case code.OpCallUdf:
			rng, ok := m.udfs.Range(in.Operand)
			if !ok {
				return &RunError{Op: in.Text, Message: "invalid function handle", Pos: pos}
			}
			if rng.Empty() {
				continue
			}
			if len(m.frames) >= m.maxFrames {
				return &RunError{Op: m.udfs.Name(in.Operand), Message: "frame stack exhausted: recursion too deep", Pos: pos}
			}
			m.frames = append(m.frames, frame{start: rng.Start, end: rng.End, pos: rng.Start})
		case code.OpLoadVar:
			m.PushNum(m.syms.Recall(in.Operand))
			m.lastCat = CatNumeric
		case code.OpLoadVarString:
			m.PushString(m.syms.RecallString(in.Operand))
			m.lastCat = CatOther
		case code.OpStoreVar:
			v, err := m.PopNum("sto")
			if err != nil {
				return withPos(err, pos)
			}
			m.syms.Store(in.Operand, v)
			m.lastCat = CatOther
		case code.OpStoreVarString:
			s, err := m.PopString("ssto")
			if err != nil {
				return withPos(err, pos)
			}
			m.syms.StoreString(in.Operand, s)
			m.lastCat = CatOther
		case code.OpCondColon:
			cond, err := m.PopLogic(":")
			if err != nil {
				return withPos(err, pos)
			}
			if !cond {
				if in.Operand <= pos || in.Operand >= fr.end {
					return &RunError{Op: ":", Message: "unbalanced conditional", Pos: pos}
				}
				fr.pos = in.Operand + 1
			}
		case code.OpCondDollar:
			// branch terminator, nothing to do
		case code.OpUnresolved:
			return &RunError{Op: in.Text, Message: "unknown token", Pos: pos}
		default:
			return &RunError{Message: "invalid instruction", Pos: pos}
		}
	}
	return nil
}

func opName(m *Machine, in *code.Instruction) string {
	if in.Op == code.OpCallBuiltin && in.Operand >= 0 && in.Operand < len(m.builtins) {
		return m.builtins[in.Operand].Name
	}
	return in.Text
}

// LastCategory reports the category of the most recently executed operation.
func (m *Machine) LastCategory() Category { return m.lastCat }

// Symbols returns the variable table, for listing builtins.
func (m *Machine) Symbols() *symbol.Table { return m.syms }

// Functions returns the UDF registry, for listing builtins.
func (m *Machine) Functions() *udf.Registry { return m.udfs }

// BuiltinName resolves a builtin id for disassembly.
func (m *Machine) BuiltinName(id int) string {
	if id < 0 || id >= len(m.builtins) {
		return ""
	}
	return m.builtins[id].Name
}
