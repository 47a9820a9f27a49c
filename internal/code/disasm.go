package code

import (
	"fmt"
	"io"
)

// Resolver maps instruction operands back to names for listings.
// Any field may be nil, in which case the raw operand is printed.
type Resolver struct {
	BuiltinName func(id int) string
	UdfName     func(handle int) string
	VarName     func(slot int) string
}

// Disassembler formats pseudocode ranges as a readable listing.
type Disassembler struct {
	w       io.Writer
	arena   *Arena
	resolve Resolver
}

// NewDisassembler constructs a disassembler that writes to w.
func NewDisassembler(w io.Writer, arena *Arena, resolve Resolver) *Disassembler {
	return &Disassembler{w: w, arena: arena, resolve: resolve}
}

// DisassembleRange emits one line per instruction in the range.
func (d *Disassembler) DisassembleRange(label string, r Range) error {
	if d.arena == nil {
		return fmt.Errorf("nil arena")
	}
	if r.Start < 0 || r.End > d.arena.Len() || r.Empty() && r.Start != r.End {
		return fmt.Errorf("invalid range [%d,%d)", r.Start, r.End)
	}
	if label != "" {
		fmt.Fprintf(d.w, "%s: [%d,%d)\n", label, r.Start, r.End)
	}
	for pos := r.Start; pos < r.End; pos++ {
		in := d.arena.At(pos)
		fmt.Fprintf(d.w, "%6d  %s\n", pos, d.describe(in))
	}
	return nil
}

func (d *Disassembler) describe(in *Instruction) string {
	switch in.Op {
	case OpNumber:
		return fmt.Sprintf("number       %g", in.Value)
	case OpStringLiteral:
		return fmt.Sprintf("string       %q", in.Text)
	case OpCallBuiltin:
		return fmt.Sprintf("builtin      %s", d.builtinName(in.Operand))
	case OpCallUdf:
		return fmt.Sprintf("call         %s", d.udfName(in.Operand))
	case OpLoadVar:
		return fmt.Sprintf("recall       %s", d.varName(in.Operand))
	case OpLoadVarString:
		return fmt.Sprintf("recall-str   %s", d.varName(in.Operand))
	case OpStoreVar:
		return fmt.Sprintf("store        %s", d.varName(in.Operand))
	case OpStoreVarString:
		return fmt.Sprintf("store-str    %s", d.varName(in.Operand))
	case OpCondColon:
		return fmt.Sprintf("cond-colon   -> %d", in.Operand)
	case OpCondDollar:
		return "cond-dollar"
	case OpUnresolved:
		return fmt.Sprintf("unresolved   %s", in.Text)
	default:
		return fmt.Sprintf("op(%d)", in.Op)
	}
}

func (d *Disassembler) builtinName(id int) string {
	if d.resolve.BuiltinName != nil {
		if name := d.resolve.BuiltinName(id); name != "" {
			return name
		}
	}
	return fmt.Sprintf("#%d", id)
}

func (d *Disassembler) udfName(handle int) string {
	if d.resolve.UdfName != nil {
		if name := d.resolve.UdfName(handle); name != "" {
			return name
		}
	}
	return fmt.Sprintf("udf#%d", handle)
}

func (d *Disassembler) varName(slot int) string {
	if d.resolve.VarName != nil {
		if name := d.resolve.VarName(slot); name != "" {
			return name
		}
	}
	return fmt.Sprintf("mem#%d", slot)
}
