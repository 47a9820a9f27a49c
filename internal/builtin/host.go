package builtin

import (
	"fmt"

	"github.com/rtsoliday/SDDS-sub003/internal/symbol"
	"github.com/rtsoliday/SDDS-sub003/internal/vm"
)

func init() {
	// sto and ssto are rewritten by the compiler into store instructions;
	// reaching these handlers means the trailing variable name was missing.
	register("sto", vm.CatOther, func(m *vm.Machine) error {
		return vm.Errorf("sto", "requires a variable name")
	})
	register("ssto", vm.CatOther, func(m *vm.Machine) error {
		return vm.Errorf("ssto", "requires a variable name")
	})

	// smem lists all variables with their values.
	register("smem", vm.CatOther, func(m *vm.Machine) error {
		syms := m.Symbols()
		for _, name := range syms.Names() {
			slot, kind, _ := syms.Find(name)
			if kind == symbol.String {
				fmt.Fprintf(m.Diag, "%s\t%s\n", name, syms.RecallString(slot))
			} else {
				fmt.Fprintf(m.Diag, "%s\t"+m.Format+"\n", name, syms.Recall(slot))
			}
		}
		return nil
	})

	// rev lists all user-defined functions with their source text.
	register("rev", vm.CatOther, func(m *vm.Machine) error {
		for _, e := range m.Functions().All() {
			fmt.Fprintf(m.Diag, "%s:\t%s\n", e.Name, e.Source)
		}
		return nil
	})

	// pcode pops a function name and prints its compiled listing.
	register("pcode", vm.CatOther, func(m *vm.Machine) error {
		name, err := m.PopString("pcode")
		if err != nil {
			return err
		}
		if m.ListPcode == nil {
			return vm.Errorf("pcode", "listing not available")
		}
		return m.ListPcode(name)
	})

	// mudf pops a body and a name and defines a function: "name" "body" mudf.
	register("mudf", vm.CatOther, func(m *vm.Machine) error {
		body, err := m.PopString("mudf")
		if err != nil {
			return err
		}
		name, err := m.PopString("mudf")
		if err != nil {
			return err
		}
		if m.DefineUDF == nil {
			return vm.Errorf("mudf", "function definition not available")
		}
		return m.DefineUDF(name, body)
	})

	// cshs pops a command string and sends it to the companion shell.
	register("cshs", vm.CatOther, func(m *vm.Machine) error {
		cmd, err := m.PopString("cshs")
		if err != nil {
			return err
		}
		if m.SendShell == nil {
			return vm.Errorf("cshs", "no companion shell attached")
		}
		return m.SendShell(cmd)
	})
}
