package builtin

import (
	"math/rand"

	"github.com/rtsoliday/SDDS-sub003/internal/vm"
)

func init() {
	// rnd pushes a uniform deviate in [0, 1).
	register("rnd", vm.CatNumeric, func(m *vm.Machine) error {
		m.PushNum(m.Rand.Float64())
		return nil
	})
	// grnd pushes a unit-variance gaussian deviate.
	register("grnd", vm.CatNumeric, func(m *vm.Machine) error {
		m.PushNum(m.Rand.NormFloat64())
		return nil
	})
	// srnd pops a seed for the generator.
	register("srnd", vm.CatOther, func(m *vm.Machine) error {
		seed, err := m.PopNum("srnd")
		if err != nil {
			return err
		}
		m.Rand = rand.New(rand.NewSource(int64(seed)))
		return nil
	})
}
