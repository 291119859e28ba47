package core

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInternTableDedupes(t *testing.T) {
	h := NewHeap(Config{})
	table := NewInternTable(h)

	a, err := table.Intern("hello")
	require.NoError(t, err)
	b, err := table.Intern("hello")
	require.NoError(t, err)

	require.Same(t, a, b)
}

func TestInternTablePrunesOnSweep(t *testing.T) {
	h := NewHeap(Config{})
	table := NewInternTable(h)

	first, err := table.Intern("transient")
	require.NoError(t, err)

	h.CollectFull() // nothing roots the interned string: it is swept

	again, err := table.Intern("transient")
	require.NoError(t, err)
	require.NotNil(t, again)
	require.NotSame(t, first, again)
}

func TestStringOps(t *testing.T) {
	h := NewHeap(Config{})
	a, _ := NewHeapString(h, "foo")
	b, _ := NewHeapString(h, "bar")

	cat, err := Concat(h, a, b)
	require.NoError(t, err)
	require.Equal(t, "foobar", cat.String())

	sub, err := Substring(h, cat, 1, 4)
	require.NoError(t, err)
	require.Equal(t, "oob", sub.String())

	require.Equal(t, 3, IndexOf(cat, b))
	require.Equal(t, -1, IndexOf(cat, func() *HeapString { s, _ := NewHeapString(h, "zzz"); return s }()))
}

func TestSplit(t *testing.T) {
	h := NewHeap(Config{})
	s, _ := NewHeapString(h, "a,b,c")
	parts, err := Split(h, s, ",")
	require.NoError(t, err)
	require.Len(t, parts, 3)
	require.Equal(t, "b", parts[1].String())
}
