package ccjs

import (
	"fmt"

	"github.com/scriptrt/ccjs/internal/core"
	"github.com/scriptrt/ccjs/internal/engineconfig"
)

// NativeFunc is the host-callback signature (spec.md §6's native-callback
// registration).
type NativeFunc = core.NativeFunc

// RegisterNative binds a native function onto the context's global
// object under name (spec.md §6's "native-callback registration ... on
// the global object").
func (c *Context) RegisterNative(name string, arity int, fn NativeFunc) error {
	return c.RegisterNativeOn(c.Global(), name, arity, fn)
}

// RegisterNativeOn binds a native function as a property of an arbitrary
// object (spec.md §6's "... both on a specific object and on the global
// object").
func (c *Context) RegisterNativeOn(obj Value, name string, arity int, fn NativeFunc) error {
	target := obj.AsObject()
	if target == nil {
		return c.fail(fmt.Errorf("RegisterNativeOn: receiver is not an object"))
	}
	f, err := core.NewNativeFunction(c.runtime.heap, name, arity, fn)
	if err != nil {
		return c.fail(err)
	}
	target.Define(name, core.FunctionValue(f), true, true, true)
	return nil
}

// RegisterManifest schema-validates a native-module manifest (SPEC_FULL.md
// §3: `[{"name": "...", "arity": N}, ...]`) and binds each entry onto the
// global object by looking up its Go implementation through lookup. An
// entry whose name lookup returns nil is skipped rather than faulting the
// whole batch, so a host can ship one manifest across builds that only
// implement a subset of it.
func (c *Context) RegisterManifest(manifestJSON []byte, lookup func(name string) NativeFunc) error {
	bindings, err := engineconfig.ValidateNativeManifest(manifestJSON)
	if err != nil {
		return c.fail(err)
	}
	for _, b := range bindings {
		fn := lookup(b.Name)
		if fn == nil {
			continue
		}
		if err := c.RegisterNative(b.Name, b.Arity, fn); err != nil {
			return err
		}
	}
	return nil
}
