package core

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestObjectOwnPropertyLookupIgnoresPrototype(t *testing.T) {
	h := NewHeap(Config{})
	proto, _ := NewHeapObject(h)
	proto.Set("greeting", Number(1))

	obj, _ := NewHeapObject(h)
	obj.SetPrototype(proto)

	require.True(t, obj.Get("greeting").IsUndefined(), "own-property Get must not walk the prototype chain")
	require.Equal(t, float64(1), obj.GetWithPrototype("greeting").AsNumber())
}

func TestObjectSetGetDeleteHas(t *testing.T) {
	h := NewHeap(Config{})
	obj, _ := NewHeapObject(h)

	require.True(t, obj.Set("x", Number(42)))
	require.True(t, obj.Has("x"))
	require.Equal(t, float64(42), obj.Get("x").AsNumber())

	require.True(t, obj.Delete("x"))
	require.False(t, obj.Has("x"))
}

func TestObjectEnumerateIsInsertionOrder(t *testing.T) {
	h := NewHeap(Config{})
	obj, _ := NewHeapObject(h)
	obj.Set("a", Number(1))
	obj.Set("b", Number(2))
	obj.Set("c", Number(3))

	require.Equal(t, []string{"a", "b", "c"}, obj.Enumerate())
}

func TestFrozenObjectRejectsWrites(t *testing.T) {
	h := NewHeap(Config{})
	obj, _ := NewHeapObject(h)
	obj.Set("x", Number(1))
	obj.Freeze()

	require.False(t, obj.Set("x", Number(2)))
	require.Equal(t, float64(1), obj.Get("x").AsNumber())
	require.False(t, obj.Set("y", Number(1)))
	require.False(t, obj.Delete("x"))
}

func TestSealedObjectRejectsNewPropertiesButAllowsWrites(t *testing.T) {
	h := NewHeap(Config{})
	obj, _ := NewHeapObject(h)
	obj.Set("x", Number(1))
	obj.Seal()

	require.True(t, obj.Set("x", Number(2)))
	require.False(t, obj.Set("y", Number(1)))
}

func TestDeleteFailsOnlyWhenNonConfigurable(t *testing.T) {
	h := NewHeap(Config{})
	obj, _ := NewHeapObject(h)
	obj.Define("x", Number(1), true, true, false)

	require.False(t, obj.Delete("x"), "a non-configurable property must reject delete even on an otherwise-ordinary object")
	require.True(t, obj.Has("x"))

	require.True(t, obj.Set("y", Number(2)), "Set-created properties default to configurable")
	require.True(t, obj.Delete("y"))
	require.False(t, obj.Has("y"))

	require.True(t, obj.Delete("never-existed"), "deleting an absent key is a no-op success")
}

func TestCloneIsShallow(t *testing.T) {
	h := NewHeap(Config{})
	inner, _ := NewHeapObject(h)
	obj, _ := NewHeapObject(h)
	obj.Set("inner", ObjectValue(inner))

	clone, err := Clone(h, obj)
	require.NoError(t, err)
	require.Equal(t, inner, clone.Get("inner").AsObject())
}
