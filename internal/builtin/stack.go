package builtin

import (
	"fmt"

	"github.com/rtsoliday/SDDS-sub003/internal/vm"
)

func init() {
	register("pop", vm.CatOther, func(m *vm.Machine) error {
		_, err := m.PopNum("pop")
		return err
	})
	register("swap", vm.CatNumeric, func(m *vm.Machine) error {
		ops, err := m.PopNums("swap", 2)
		if err != nil {
			return err
		}
		m.PushNum(ops[1])
		m.PushNum(ops[0])
		return nil
	})
	register("dup", vm.CatNumeric, func(m *vm.Machine) error {
		x, err := m.PeekNum("dup")
		if err != nil {
			return err
		}
		m.PushNum(x)
		return nil
	})
	register("stlv", vm.CatNumeric, func(m *vm.Machine) error {
		m.PushNum(float64(m.NumDepth()))
		return nil
	})
	register("clear", vm.CatOther, func(m *vm.Machine) error {
		m.ClearStacks()
		return nil
	})
	register("view", vm.CatOther, func(m *vm.Machine) error {
		nums := m.Nums()
		for i := len(nums) - 1; i >= 0; i-- {
			fmt.Fprintf(m.Diag, m.Format+"\n", nums[i])
		}
		return nil
	})
}
