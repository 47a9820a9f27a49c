package compiler

import (
	"github.com/rtsoliday/SDDS-sub003/internal/code"
	"github.com/rtsoliday/SDDS-sub003/internal/symbol"
)

// Relink re-attempts classification of every queued unresolved reference.
// It runs between top-level inputs, never mid-expression, and only when a
// variable or UDF was created since the last pass. Names that resolve are
// patched in place and dropped from the queue; the rest stay queued and fail
// only if executed.
func (c *Compiler) Relink() {
	if !c.syms.Changed() && !c.udfs.Changed() {
		return
	}
	for name, positions := range c.pending {
		if slot, kind, ok := c.syms.Find(name); ok {
			op := code.OpLoadVar
			if kind == symbol.String {
				op = code.OpLoadVarString
			}
			for _, pos := range positions {
				in := c.arena.At(pos)
				in.Op = op
				in.Operand = slot
			}
			delete(c.pending, name)
			continue
		}
		if handle, ok := c.udfs.Find(name); ok {
			for _, pos := range positions {
				in := c.arena.At(pos)
				in.Op = code.OpCallUdf
				in.Operand = handle
			}
			delete(c.pending, name)
		}
	}
	c.syms.ClearChanged()
	c.udfs.ClearChanged()
}
