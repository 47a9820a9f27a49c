package vm

import "fmt"

// RunError is a recoverable execution error. It names the failing operation
// and, once execution context is known, the pseudocode position. The machine
// stays usable after any RunError.
type RunError struct {
	Op      string
	Message string
	Pos     int
}

func (e *RunError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s (%s)", e.Message, e.Op)
	}
	return e.Message
}

func withPos(err error, pos int) error {
	if re, ok := err.(*RunError); ok && re.Pos == 0 {
		re.Pos = pos
	}
	return err
}

// Errorf builds a RunError for a builtin handler.
func Errorf(op, format string, args ...interface{}) error {
	return &RunError{Op: op, Message: fmt.Sprintf(format, args...)}
}
