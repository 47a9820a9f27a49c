package builtin

import (
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/rtsoliday/SDDS-sub003/internal/vm"
)

func init() {
	register("strlen", vm.CatNumeric, func(m *vm.Machine) error {
		s, err := m.PopString("strlen")
		if err != nil {
			return err
		}
		m.PushNum(float64(len(s)))
		return nil
	})

	register("streq", vm.CatLogical, strCompare("streq", func(a, b string) bool { return a == b }))
	register("strgt", vm.CatLogical, strCompare("strgt", func(a, b string) bool { return a > b }))
	register("strlt", vm.CatLogical, strCompare("strlt", func(a, b string) bool { return a < b }))

	// "string" "pattern" strmatch, with shell-style wildcards.
	register("strmatch", vm.CatLogical, func(m *vm.Machine) error {
		pat, err := m.PopString("strmatch")
		if err != nil {
			return err
		}
		s, err := m.PopString("strmatch")
		if err != nil {
			return err
		}
		ok, merr := path.Match(pat, s)
		if merr != nil {
			return vm.Errorf("strmatch", "bad pattern %q", pat)
		}
		m.PushLogic(ok)
		return nil
	})

	// format and xstr convert the top number to a string using the output
	// format; scan and vstr parse the top string as a number.
	register("format", vm.CatOther, numToString("format"))
	register("xstr", vm.CatOther, numToString("xstr"))
	register("scan", vm.CatNumeric, stringToNum("scan"))
	register("vstr", vm.CatNumeric, stringToNum("vstr"))

	register("puts", vm.CatOther, func(m *vm.Machine) error {
		s, err := m.PopString("puts")
		if err != nil {
			return err
		}
		fmt.Fprintln(m.Diag, s)
		return nil
	})
}

func numToString(op string) func(*vm.Machine) error {
	return func(m *vm.Machine) error {
		x, err := m.PopNum(op)
		if err != nil {
			return err
		}
		m.PushString(fmt.Sprintf(m.Format, x))
		return nil
	}
}

func stringToNum(op string) func(*vm.Machine) error {
	return func(m *vm.Machine) error {
		s, err := m.PopString(op)
		if err != nil {
			return err
		}
		x, perr := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if perr != nil {
			return vm.Errorf(op, "%q is not a number", s)
		}
		m.PushNum(x)
		return nil
	}
}

func strCompare(op string, f func(a, b string) bool) func(*vm.Machine) error {
	return func(m *vm.Machine) error {
		b, err := m.PopString(op)
		if err != nil {
			return err
		}
		a, err := m.PopString(op)
		if err != nil {
			return err
		}
		m.PushLogic(f(a, b))
		return nil
	}
}
