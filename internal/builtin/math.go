package builtin

import (
	"math"

	"github.com/rtsoliday/SDDS-sub003/internal/vm"
)

func init() {
	register("+", vm.CatNumeric, binary("+", func(a, b float64) (float64, error) {
		return a + b, nil
	}))
	register("-", vm.CatNumeric, binary("-", func(a, b float64) (float64, error) {
		return a - b, nil
	}))
	register("*", vm.CatNumeric, binary("*", func(a, b float64) (float64, error) {
		return a * b, nil
	}))
	register("/", vm.CatNumeric, binary("/", func(a, b float64) (float64, error) {
		if b == 0 {
			return 0, vm.Errorf("/", "division by zero")
		}
		return a / b, nil
	}))
	register("mod", vm.CatNumeric, binary("mod", func(a, b float64) (float64, error) {
		if b == 0 {
			return 0, vm.Errorf("mod", "division by zero")
		}
		return math.Mod(a, b), nil
	}))
	register("pow", vm.CatNumeric, binary("pow", func(a, b float64) (float64, error) {
		v := math.Pow(a, b)
		if math.IsNaN(v) && !math.IsNaN(a) && !math.IsNaN(b) {
			return 0, vm.Errorf("pow", "result is not a number")
		}
		return v, nil
	}))
	register("atan2", vm.CatNumeric, binary("atan2", func(y, x float64) (float64, error) {
		return math.Atan2(y, x), nil
	}))

	register("sqrt", vm.CatNumeric, unary("sqrt", func(x float64) (float64, error) {
		if x < 0 {
			return 0, vm.Errorf("sqrt", "square root of negative number")
		}
		return math.Sqrt(x), nil
	}))
	register("sq", vm.CatNumeric, unary("sq", func(x float64) (float64, error) {
		return x * x, nil
	}))
	register("cbrt", vm.CatNumeric, unary("cbrt", func(x float64) (float64, error) {
		return math.Cbrt(x), nil
	}))
	register("recip", vm.CatNumeric, unary("recip", func(x float64) (float64, error) {
		if x == 0 {
			return 0, vm.Errorf("recip", "division by zero")
		}
		return 1 / x, nil
	}))
	register("chs", vm.CatNumeric, unary("chs", func(x float64) (float64, error) {
		return -x, nil
	}))
	register("abs", vm.CatNumeric, unary("abs", func(x float64) (float64, error) {
		return math.Abs(x), nil
	}))

	register("sin", vm.CatNumeric, unary("sin", noDomain(math.Sin)))
	register("cos", vm.CatNumeric, unary("cos", noDomain(math.Cos)))
	register("tan", vm.CatNumeric, unary("tan", noDomain(math.Tan)))
	register("asin", vm.CatNumeric, unary("asin", bounded("asin", math.Asin)))
	register("acos", vm.CatNumeric, unary("acos", bounded("acos", math.Acos)))
	register("atan", vm.CatNumeric, unary("atan", noDomain(math.Atan)))
	register("exp", vm.CatNumeric, unary("exp", noDomain(math.Exp)))
	register("ln", vm.CatNumeric, unary("ln", func(x float64) (float64, error) {
		if x <= 0 {
			return 0, vm.Errorf("ln", "logarithm of non-positive number")
		}
		return math.Log(x), nil
	}))
	register("log", vm.CatNumeric, unary("log", log10))
	register("log10", vm.CatNumeric, unary("log10", log10))
	register("sinh", vm.CatNumeric, unary("sinh", noDomain(math.Sinh)))
	register("cosh", vm.CatNumeric, unary("cosh", noDomain(math.Cosh)))
	register("tanh", vm.CatNumeric, unary("tanh", noDomain(math.Tanh)))

	register("erf", vm.CatNumeric, unary("erf", noDomain(math.Erf)))
	register("erfc", vm.CatNumeric, unary("erfc", noDomain(math.Erfc)))
	register("lngam", vm.CatNumeric, unary("lngam", func(x float64) (float64, error) {
		v, _ := math.Lgamma(x)
		return v, nil
	}))

	// Bessel functions of integer order: usage is "x n Jn".
	register("Jn", vm.CatNumeric, besselOp("Jn", math.Jn))
	register("Yn", vm.CatNumeric, besselOp("Yn", func(n int, x float64) float64 {
		return math.Yn(n, x)
	}))

	register("floor", vm.CatNumeric, unary("floor", noDomain(math.Floor)))
	register("ceil", vm.CatNumeric, unary("ceil", noDomain(math.Ceil)))
	register("round", vm.CatNumeric, unary("round", noDomain(math.Round)))
	register("int", vm.CatNumeric, unary("int", noDomain(math.Trunc)))

	register("sumn", vm.CatNumeric, reduceN("sumn", func(acc, x float64) float64 {
		return acc + x
	}, 0, false))
	register("maxn", vm.CatNumeric, reduceN("maxn", math.Max, math.Inf(-1), true))
	register("minn", vm.CatNumeric, reduceN("minn", math.Min, math.Inf(1), true))

	register("pi", vm.CatNumeric, constant(math.Pi))
	register("e", vm.CatNumeric, constant(math.E))
	register("nan", vm.CatNumeric, constant(math.NaN()))
	register("infty", vm.CatNumeric, constant(math.Inf(1)))

	register("isnan", vm.CatLogical, func(m *vm.Machine) error {
		x, err := m.PopNum("isnan")
		if err != nil {
			return err
		}
		m.PushLogic(math.IsNaN(x))
		return nil
	})
	register("isinf", vm.CatLogical, func(m *vm.Machine) error {
		x, err := m.PopNum("isinf")
		if err != nil {
			return err
		}
		m.PushLogic(math.IsInf(x, 0))
		return nil
	})
}

func unary(op string, f func(float64) (float64, error)) func(*vm.Machine) error {
	return func(m *vm.Machine) error {
		x, err := m.PopNum(op)
		if err != nil {
			return err
		}
		v, err := f(x)
		if err != nil {
			return err
		}
		m.PushNum(v)
		return nil
	}
}

func binary(op string, f func(a, b float64) (float64, error)) func(*vm.Machine) error {
	return func(m *vm.Machine) error {
		ops, err := m.PopNums(op, 2)
		if err != nil {
			return err
		}
		v, err := f(ops[0], ops[1])
		if err != nil {
			return err
		}
		m.PushNum(v)
		return nil
	}
}

func constant(v float64) func(*vm.Machine) error {
	return func(m *vm.Machine) error {
		m.PushNum(v)
		return nil
	}
}

func log10(x float64) (float64, error) {
	if x <= 0 {
		return 0, vm.Errorf("log", "logarithm of non-positive number")
	}
	return math.Log10(x), nil
}

func noDomain(f func(float64) float64) func(float64) (float64, error) {
	return func(x float64) (float64, error) { return f(x), nil }
}

func bounded(op string, f func(float64) float64) func(float64) (float64, error) {
	return func(x float64) (float64, error) {
		if x < -1 || x > 1 {
			return 0, vm.Errorf(op, "argument outside [-1, 1]")
		}
		return f(x), nil
	}
}

func besselOp(op string, f func(n int, x float64) float64) func(*vm.Machine) error {
	return func(m *vm.Machine) error {
		ops, err := m.PopNums(op, 2)
		if err != nil {
			return err
		}
		n := int(ops[1])
		if float64(n) != ops[1] || n < 0 {
			return vm.Errorf(op, "order must be a non-negative integer")
		}
		m.PushNum(f(n, ops[0]))
		return nil
	}
}

// reduceN pops a count, then that many values, and folds them.
func reduceN(op string, f func(acc, x float64) float64, init float64, needOne bool) func(*vm.Machine) error {
	return func(m *vm.Machine) error {
		cf, err := m.PopNum(op)
		if err != nil {
			return err
		}
		count := int(cf)
		if float64(count) != cf || count < 0 {
			return vm.Errorf(op, "count must be a non-negative integer")
		}
		if needOne && count == 0 {
			return vm.Errorf(op, "count must be at least 1")
		}
		vals, err := m.PopNums(op, count)
		if err != nil {
			return err
		}
		acc := init
		for _, x := range vals {
			acc = f(acc, x)
		}
		m.PushNum(acc)
		return nil
	}
}
