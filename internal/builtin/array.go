package builtin

import (
	"github.com/rtsoliday/SDDS-sub003/internal/vm"
)

func init() {
	// apack pops a count and that many numbers into one array-stack entry.
	register("apack", vm.CatOther, func(m *vm.Machine) error {
		cf, err := m.PopNum("apack")
		if err != nil {
			return err
		}
		count := int(cf)
		if float64(count) != cf || count < 0 {
			return vm.Errorf("apack", "count must be a non-negative integer")
		}
		vals, err := m.PopNums("apack", count)
		if err != nil {
			return err
		}
		m.PushArray(vals)
		return nil
	})
	// aunpack spreads the top array back onto the numeric stack.
	register("aunpack", vm.CatNumeric, func(m *vm.Machine) error {
		a, err := m.PopArray("aunpack")
		if err != nil {
			return err
		}
		for _, x := range a {
			m.PushNum(x)
		}
		return nil
	})
	register("alen", vm.CatNumeric, func(m *vm.Machine) error {
		a, err := m.PopArray("alen")
		if err != nil {
			return err
		}
		m.PushNum(float64(len(a)))
		return nil
	})
	register("asum", vm.CatNumeric, func(m *vm.Machine) error {
		a, err := m.PopArray("asum")
		if err != nil {
			return err
		}
		sum := 0.0
		for _, x := range a {
			sum += x
		}
		m.PushNum(sum)
		return nil
	})
}
