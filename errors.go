package rpn

import "fmt"

// CompileError reports a failure turning source text into pseudocode. The
// instruction arena may hold partially emitted code, but nothing references
// it and the interpreter stays usable.
type CompileError struct {
	Input string
	Err   error
}

func (e *CompileError) Error() string { return fmt.Sprintf("compile: %v", e.Err) }
func (e *CompileError) Unwrap() error { return e.Err }

// DefineError reports a failed function or variable definition, including
// name collisions with builtins.
type DefineError struct {
	Name string
	Err  error
}

func (e *DefineError) Error() string { return fmt.Sprintf("define %s: %v", e.Name, e.Err) }
func (e *DefineError) Unwrap() error { return e.Err }

// EvalError reports a recoverable execution failure. Operand stacks keep
// whatever state they had when the failure happened.
type EvalError struct {
	Err error
}

func (e *EvalError) Error() string { return fmt.Sprintf("evaluate: %v", e.Err) }
func (e *EvalError) Unwrap() error { return e.Err }
