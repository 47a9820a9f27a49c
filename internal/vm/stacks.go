package vm

// Stack accessors used by built-in handlers. Underflow is reported as a
// RunError naming the operation and the stack, matching the interpreter's
// recoverable-error policy.

// PushNum pushes onto the numeric stack.
func (m *Machine) PushNum(v float64) {
	m.num = append(m.num, v)
}

// PopNum pops the numeric stack.
func (m *Machine) PopNum(op string) (float64, error) {
	if len(m.num) == 0 {
		return 0, &RunError{Op: op, Message: "too few items on numeric stack"}
	}
	v := m.num[len(m.num)-1]
	m.num = m.num[:len(m.num)-1]
	return v, nil
}

// PopNums pops n values; the last-pushed value ends up last in the result.
func (m *Machine) PopNums(op string, n int) ([]float64, error) {
	if n < 0 || len(m.num) < n {
		return nil, &RunError{Op: op, Message: "too few items on numeric stack"}
	}
	out := make([]float64, n)
	copy(out, m.num[len(m.num)-n:])
	m.num = m.num[:len(m.num)-n]
	return out, nil
}

// PeekNum returns the top of the numeric stack without popping.
func (m *Machine) PeekNum(op string) (float64, error) {
	if len(m.num) == 0 {
		return 0, &RunError{Op: op, Message: "too few items on numeric stack"}
	}
	return m.num[len(m.num)-1], nil
}

// NumDepth returns the numeric stack depth.
func (m *Machine) NumDepth() int { return len(m.num) }

// Nums returns the numeric stack bottom-first, for listings.
func (m *Machine) Nums() []float64 { return m.num }

// PushString pushes onto the string stack.
func (m *Machine) PushString(s string) {
	m.str = append(m.str, s)
}

// PopString pops the string stack.
func (m *Machine) PopString(op string) (string, error) {
	if len(m.str) == 0 {
		return "", &RunError{Op: op, Message: "too few items on string stack"}
	}
	s := m.str[len(m.str)-1]
	m.str = m.str[:len(m.str)-1]
	return s, nil
}

// StringDepth returns the string stack depth.
func (m *Machine) StringDepth() int { return len(m.str) }

// PushLogic pushes onto the logic stack.
func (m *Machine) PushLogic(b bool) {
	m.logic = append(m.logic, b)
}

// PopLogic pops the logic stack.
func (m *Machine) PopLogic(op string) (bool, error) {
	if len(m.logic) == 0 {
		return false, &RunError{Op: op, Message: "too few items on logic stack"}
	}
	b := m.logic[len(m.logic)-1]
	m.logic = m.logic[:len(m.logic)-1]
	return b, nil
}

// PeekLogic returns the top of the logic stack without popping.
func (m *Machine) PeekLogic(op string) (bool, error) {
	if len(m.logic) == 0 {
		return false, &RunError{Op: op, Message: "too few items on logic stack"}
	}
	return m.logic[len(m.logic)-1], nil
}

// LogicDepth returns the logic stack depth.
func (m *Machine) LogicDepth() int { return len(m.logic) }

// PushArray pushes a numeric sequence onto the array stack.
func (m *Machine) PushArray(a []float64) {
	m.arr = append(m.arr, a)
}

// PopArray pops the array stack.
func (m *Machine) PopArray(op string) ([]float64, error) {
	if len(m.arr) == 0 {
		return nil, &RunError{Op: op, Message: "too few items on array stack"}
	}
	a := m.arr[len(m.arr)-1]
	m.arr = m.arr[:len(m.arr)-1]
	return a, nil
}

// ArrayDepth returns the array stack depth.
func (m *Machine) ArrayDepth() int { return len(m.arr) }

// ClearStacks empties all four operand stacks. Errors leave partial operands
// behind; callers use this to start clean.
func (m *Machine) ClearStacks() {
	m.num = m.num[:0]
	m.str = m.str[:0]
	m.logic = m.logic[:0]
	m.arr = m.arr[:0]
}
