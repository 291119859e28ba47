package ccjs

import (
	"errors"
	"fmt"

	"github.com/scriptrt/ccjs/internal/vm"
)

// Code is one of spec.md §6/§7's seven result codes, the classification
// an embedder sees instead of a raw Go error.
type Code string

const (
	CodeOK             Code = "ok"
	CodeSyntaxError    Code = "syntax-error"
	CodeRuntimeError   Code = "runtime-error"
	CodeMemoryError    Code = "memory-error"
	CodeTypeError      Code = "type-error"
	CodeReferenceError Code = "reference-error"
	CodeRangeError     Code = "range-error"
)

// Error is the embedding-boundary error type: every internal/* error
// that escapes pkg/ccjs is classified into one of these before reaching
// the embedder, mirroring the teacher's pattern of returning bare errors
// from internal/* and only formatting/classifying them at the
// cmd/-facing edge.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// classify maps an internal/vm.RuntimeError (or any other error) onto a
// Code, defaulting to CodeRuntimeError for errors this package doesn't
// specifically recognize.
func classify(err error) *Error {
	if err == nil {
		return nil
	}
	var rerr *vm.RuntimeError
	if errors.As(err, &rerr) {
		return &Error{Code: Code(rerr.Code), Message: rerr.Message, cause: err}
	}
	return &Error{Code: CodeRuntimeError, Message: err.Error(), cause: err}
}
