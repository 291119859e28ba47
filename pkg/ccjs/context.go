package ccjs

import (
	"github.com/scriptrt/ccjs/internal/core"
	"github.com/scriptrt/ccjs/internal/vm"
)

// Value is the engine's tagged union (spec.md §4.2), re-exported so
// embedders never import internal/core directly.
type Value = core.Value

// Context is one global scope plus the VM dispatching bytecode against
// it (spec.md §6's "runtime and context lifecycle"). Multiple Contexts
// may share a Runtime's heap; each keeps its own single-slot last-error
// (spec.md §7).
type Context struct {
	runtime *Runtime
	vm      *vm.VM
	lastErr *Error
}

// NewContext creates a Context backed by r's heap, with a fresh global
// object.
func (r *Runtime) NewContext() (*Context, error) {
	machine, err := vm.New(r.heap)
	if err != nil {
		return nil, classify(err)
	}
	return &Context{runtime: r, vm: machine}, nil
}

// Runtime returns the Context's owning Runtime.
func (c *Context) Runtime() *Runtime { return c.runtime }

// Global returns the context's global object as a Value, for direct
// property manipulation via GetProp/SetProp.
func (c *Context) Global() Value {
	return core.ObjectValue(c.vm.Global)
}

// LastError is spec.md §6's error-inspection surface: the single-slot
// error message set by the most recent faulting operation on this
// Context, or nil if there isn't one.
func (c *Context) LastError() *Error { return c.lastErr }

// ClearError resets the last-error slot (spec.md §7's clear_error).
func (c *Context) ClearError() {
	c.lastErr = nil
	c.vm.ClearError()
}

func (c *Context) fail(err error) error {
	if err == nil {
		return nil
	}
	c.lastErr = classify(err)
	return c.lastErr
}
