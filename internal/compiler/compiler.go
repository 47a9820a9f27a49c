// Package compiler turns RPN source text into pseudocode: a flat run of
// typed instructions appended to the shared arena. Tokens are classified
// against the builtin table first, then variables, then UDFs; anything still
// unknown compiles to an Unresolved instruction and is queued for relinking,
// which is what makes forward references between functions work.
package compiler

import (
	"fmt"
	"strconv"

	"github.com/rtsoliday/SDDS-sub003/internal/builtin"
	"github.com/rtsoliday/SDDS-sub003/internal/code"
	"github.com/rtsoliday/SDDS-sub003/internal/lexer"
	"github.com/rtsoliday/SDDS-sub003/internal/symbol"
	"github.com/rtsoliday/SDDS-sub003/internal/token"
	"github.com/rtsoliday/SDDS-sub003/internal/udf"
)

// Compiler owns the unresolved-reference queue alongside its collaborators.
// The queue is keyed by name so relinking touches only the records a new
// definition can satisfy.
type Compiler struct {
	arena   *code.Arena
	syms    *symbol.Table
	udfs    *udf.Registry
	pending map[string][]int
}

// New constructs a compiler over the shared arena and registries.
func New(arena *code.Arena, syms *symbol.Table, udfs *udf.Registry) *Compiler {
	return &Compiler{
		arena:   arena,
		syms:    syms,
		udfs:    udfs,
		pending: make(map[string][]int),
	}
}

type pendingRef struct {
	name string
	pos  int
}

// Compile appends the pseudocode for src to the arena and returns its range.
// On error the partially emitted instructions stay in the arena but are never
// referenced by any range.
func (c *Compiler) Compile(src string) (code.Range, error) {
	start := c.arena.Len()
	l := lexer.New(src)

	var queued []pendingRef
	var colons []int

	for {
		tok := l.NextToken()
		if tok.Type == token.EOF {
			break
		}
		switch tok.Type {
		case token.Illegal:
			return code.Range{}, fmt.Errorf("column %d: unterminated string", tok.Pos.Column)
		case token.String:
			c.arena.Append(code.Instruction{Op: code.OpStringLiteral, Text: tok.Literal})
		case token.Word:
			word := tok.Literal
			if id, ok := builtin.Lookup(word); ok {
				if word == "sto" || word == "ssto" {
					if err := c.compileStore(l, word); err != nil {
						return code.Range{}, err
					}
					continue
				}
				c.arena.Append(code.Instruction{Op: code.OpCallBuiltin, Operand: id, Text: word})
				continue
			}
			if slot, kind, ok := c.syms.Find(word); ok {
				op := code.OpLoadVar
				if kind == symbol.String {
					op = code.OpLoadVarString
				}
				c.arena.Append(code.Instruction{Op: op, Operand: slot, Text: word})
				continue
			}
			if handle, ok := c.udfs.Find(word); ok {
				c.arena.Append(code.Instruction{Op: code.OpCallUdf, Operand: handle, Text: word})
				continue
			}
			if x, err := strconv.ParseFloat(word, 64); err == nil {
				c.arena.Append(code.Instruction{Op: code.OpNumber, Value: x, Text: word})
				continue
			}
			switch word {
			case ":":
				pos := c.arena.Append(code.Instruction{Op: code.OpCondColon, Text: word})
				colons = append(colons, pos)
			case "$":
				if len(colons) == 0 {
					return code.Range{}, fmt.Errorf("column %d: $ without matching :", tok.Pos.Column)
				}
				pos := c.arena.Append(code.Instruction{Op: code.OpCondDollar, Text: word})
				c.arena.At(colons[len(colons)-1]).Operand = pos
				colons = colons[:len(colons)-1]
			default:
				pos := c.arena.Append(code.Instruction{Op: code.OpUnresolved, Text: word})
				queued = append(queued, pendingRef{name: word, pos: pos})
			}
		}
	}

	if len(colons) > 0 {
		return code.Range{}, fmt.Errorf(": without matching $")
	}

	for _, ref := range queued {
		c.pending[ref.name] = append(c.pending[ref.name], ref.pos)
	}
	return code.Range{Start: start, End: c.arena.Len()}, nil
}

// compileStore handles sto/ssto, which consume the following token as the
// variable name rather than as an operand. The variable is created on the
// spot; creation is idempotent for names that already exist. Any word is
// accepted as a name, numeric-looking ones included; a variable named 3.5
// shadows the literal from then on, since variables classify before numbers.
func (c *Compiler) compileStore(l *lexer.Lexer, word string) error {
	nt := l.NextToken()
	if nt.Type != token.Word || nt.Literal == ":" || nt.Literal == "$" {
		return fmt.Errorf("%s requires a variable name", word)
	}
	kind := symbol.Number
	op := code.OpStoreVar
	if word == "ssto" {
		kind = symbol.String
		op = code.OpStoreVarString
	}
	slot, err := c.syms.Create(nt.Literal, kind)
	if err != nil {
		return err
	}
	c.arena.Append(code.Instruction{Op: op, Operand: slot, Text: nt.Literal})
	return nil
}

// PendingNames returns the names still awaiting definition, for diagnostics.
func (c *Compiler) PendingNames() []string {
	out := make([]string, 0, len(c.pending))
	for name := range c.pending {
		out = append(out, name)
	}
	return out
}

// HasPending reports whether name has unresolved references.
func (c *Compiler) HasPending(name string) bool {
	_, ok := c.pending[name]
	return ok
}
