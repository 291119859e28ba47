package ccjs

import "fmt"

// Call is spec.md §6's "function call entry point for host-initiated
// calls into the VM": invoke fn (native or bytecode) with this and args,
// and classify any fault onto the Context's last-error slot.
func (c *Context) Call(fn Value, this Value, args ...Value) (Value, error) {
	f := fn.AsFunction()
	if f == nil {
		return Undefined(), c.fail(fmt.Errorf("Call target is not a function"))
	}
	result, err := c.vm.CallFunction(f, this, args)
	if err != nil {
		return Undefined(), c.fail(err)
	}
	return result, nil
}
