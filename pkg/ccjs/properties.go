package ccjs

import (
	"fmt"
)

// GetProp, SetProp, DeleteProp and HasProp are spec.md §6's object
// property operations (own-property only — spec.md's documented
// default, see DESIGN.md's Open Question 3). For GetProp, DeleteProp
// and HasProp a non-object receiver yields Undefined/false rather than
// faulting, matching the VM's GET_PROP opcode; SetProp on a non-object
// receiver returns an error.
func (c *Context) GetProp(obj Value, key string) Value {
	o := obj.AsObject()
	if o == nil {
		return Undefined()
	}
	return o.Get(key)
}

func (c *Context) SetProp(obj Value, key string, v Value) error {
	o := obj.AsObject()
	if o == nil {
		return c.fail(fmt.Errorf("SetProp on non-object value"))
	}
	if !o.Set(key, v) {
		return c.fail(fmt.Errorf("SetProp: property %q is not writable", key))
	}
	return nil
}

func (c *Context) DeleteProp(obj Value, key string) bool {
	o := obj.AsObject()
	if o == nil {
		return false
	}
	return o.Delete(key)
}

func (c *Context) HasProp(obj Value, key string) bool {
	o := obj.AsObject()
	if o == nil {
		return false
	}
	return o.Has(key)
}

// Keys returns obj's own enumerable property names in insertion order.
func (c *Context) Keys(obj Value) []string {
	o := obj.AsObject()
	if o == nil {
		return nil
	}
	return o.Enumerate()
}

// Array length/get/set/push/pop — spec.md §6.
func (c *Context) ArrayLen(arr Value) int {
	a := arr.AsArray()
	if a == nil {
		return 0
	}
	return a.Len()
}

func (c *Context) ArrayGet(arr Value, i int) Value {
	a := arr.AsArray()
	if a == nil {
		return Undefined()
	}
	return a.Get(i)
}

func (c *Context) ArraySet(arr Value, i int, v Value) error {
	a := arr.AsArray()
	if a == nil {
		return c.fail(fmt.Errorf("ArraySet on non-array value"))
	}
	a.Set(i, v)
	return nil
}

func (c *Context) ArrayPush(arr Value, v Value) error {
	a := arr.AsArray()
	if a == nil {
		return c.fail(fmt.Errorf("ArrayPush on non-array value"))
	}
	a.Push(v)
	return nil
}

func (c *Context) ArrayPop(arr Value) (Value, error) {
	a := arr.AsArray()
	if a == nil {
		return Undefined(), c.fail(fmt.Errorf("ArrayPop on non-array value"))
	}
	return a.Pop(), nil
}
