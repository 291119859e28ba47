package compiler

import "fmt"

// CompileError is a syntax-error-class failure per spec.md §7: an
// unknown node kind or an invalid assignment target.
type CompileError struct {
	Message string
	Line    int
}

func (e *CompileError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("compile error at line %d: %s", e.Line, e.Message)
	}
	return fmt.Sprintf("compile error: %s", e.Message)
}

func errUnknownNode(n Node, line int) *CompileError {
	return &CompileError{Message: fmt.Sprintf("unknown node kind %T", n), Line: line}
}

func errBadAssignTarget(n Node, line int) *CompileError {
	return &CompileError{Message: fmt.Sprintf("invalid assignment target %T", n), Line: line}
}
