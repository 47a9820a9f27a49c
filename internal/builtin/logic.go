package builtin

import (
	"github.com/rtsoliday/SDDS-sub003/internal/vm"
)

func init() {
	register("<", vm.CatLogical, compare("<", func(a, b float64) bool { return a < b }))
	register(">", vm.CatLogical, compare(">", func(a, b float64) bool { return a > b }))
	register("<=", vm.CatLogical, compare("<=", func(a, b float64) bool { return a <= b }))
	register(">=", vm.CatLogical, compare(">=", func(a, b float64) bool { return a >= b }))
	register("==", vm.CatLogical, compare("==", func(a, b float64) bool { return a == b }))

	register("!", vm.CatLogical, func(m *vm.Machine) error {
		b, err := m.PopLogic("!")
		if err != nil {
			return err
		}
		m.PushLogic(!b)
		return nil
	})
	register("&&", vm.CatLogical, logicBinary("&&", func(a, b bool) bool { return a && b }))
	register("||", vm.CatLogical, logicBinary("||", func(a, b bool) bool { return a || b }))

	register("true", vm.CatLogical, func(m *vm.Machine) error {
		m.PushLogic(true)
		return nil
	})
	register("false", vm.CatLogical, func(m *vm.Machine) error {
		m.PushLogic(false)
		return nil
	})
}

func compare(op string, f func(a, b float64) bool) func(*vm.Machine) error {
	return func(m *vm.Machine) error {
		ops, err := m.PopNums(op, 2)
		if err != nil {
			return err
		}
		m.PushLogic(f(ops[0], ops[1]))
		return nil
	}
}

func logicBinary(op string, f func(a, b bool) bool) func(*vm.Machine) error {
	return func(m *vm.Machine) error {
		b, err := m.PopLogic(op)
		if err != nil {
			return err
		}
		a, err := m.PopLogic(op)
		if err != nil {
			return err
		}
		m.PushLogic(f(a, b))
		return nil
	}
}
