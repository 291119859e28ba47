package ccjs

import (
	"github.com/scriptrt/ccjs/internal/core"
)

// Undefined, Null, Boolean and Number are spec.md §6's primitive value
// constructors. They need no heap allocation, so they're package-level
// functions rather than Context methods.
func Undefined() Value       { return core.Undefined }
func Null() Value            { return core.Null }
func Boolean(b bool) Value   { return core.Bool(b) }
func Number(n float64) Value { return core.Number(n) }

// String allocates a fresh heap string (spec.md §6). Interning is a
// runtime-wide optimization, not part of the constructor contract, so
// this never consults the Runtime's intern table; use InternedString
// if dedup matters.
func (c *Context) String(s string) (Value, error) {
	hs, err := core.NewHeapString(c.runtime.heap, s)
	if err != nil {
		return Undefined(), c.fail(err)
	}
	return core.StringValue(hs), nil
}

// InternedString is String but deduplicated against the Runtime's
// InternTable (spec.md §4.2's intern()).
func (c *Context) InternedString(s string) (Value, error) {
	hs, err := c.runtime.interns.Intern(s)
	if err != nil {
		return Undefined(), c.fail(err)
	}
	return core.StringValue(hs), nil
}

// NewObject allocates an empty object (spec.md §6).
func (c *Context) NewObject() (Value, error) {
	o, err := core.NewHeapObject(c.runtime.heap)
	if err != nil {
		return Undefined(), c.fail(err)
	}
	return core.ObjectValue(o), nil
}

// NewArray allocates an empty array (spec.md §6).
func (c *Context) NewArray() (Value, error) {
	a, err := core.NewHeapArray(c.runtime.heap)
	if err != nil {
		return Undefined(), c.fail(err)
	}
	return core.ArrayValue(a), nil
}

// Type predicates and coercions — spec.md §6: "all operations in §4.2".

func IsUndefined(v Value) bool { return v.IsUndefined() }
func IsNull(v Value) bool      { return v.IsNull() }
func IsNullish(v Value) bool   { return v.IsNullish() }
func TypeOf(v Value) string    { return v.Tag().String() }

func ToBoolean(v Value) bool { return core.ToBoolean(v) }
func ToNumber(v Value) float64 { return core.ToNumber(v) }
func ToGoString(v Value) string { return core.ToGoString(v) }

// ToStringValue coerces v to a heap string the way the ADD opcode's
// string-concat branch does.
func (c *Context) ToStringValue(v Value) (Value, error) {
	hs, err := core.ToStringValue(c.runtime.heap, v)
	if err != nil {
		return Undefined(), c.fail(err)
	}
	return core.StringValue(hs), nil
}

// StrictEquals and SameValueZero are spec.md §4.2's equality operations.
func StrictEquals(a, b Value) bool   { return core.StrictEquals(a, b) }
func SameValueZero(a, b Value) bool  { return core.SameValueZero(a, b) }
