package core

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestArrayAutoGrowLeavesHoles(t *testing.T) {
	h := NewHeap(Config{})
	a, _ := NewHeapArray(h)
	a.Set(3, Number(9))

	require.Equal(t, 4, a.Len())
	require.True(t, a.Get(0).IsUndefined())
	require.Equal(t, float64(9), a.Get(3).AsNumber())
}

func TestArrayPushPopShiftUnshift(t *testing.T) {
	h := NewHeap(Config{})
	a, _ := NewHeapArray(h)
	a.Push(Number(1))
	a.Push(Number(2))
	require.Equal(t, 2, a.Len())

	require.Equal(t, float64(2), a.Pop().AsNumber())
	a.Unshift(Number(0))
	require.Equal(t, float64(0), a.Shift().AsNumber())
}

func TestArraySetLengthTruncatesAndPads(t *testing.T) {
	h := NewHeap(Config{})
	a, _ := NewHeapArray(h)
	a.Push(Number(1))
	a.Push(Number(2))
	a.Push(Number(3))

	a.SetLength(1)
	require.Equal(t, 1, a.Len())

	a.SetLength(3)
	require.Equal(t, 3, a.Len())
	require.True(t, a.Get(2).IsUndefined())
}

func TestArraySplice(t *testing.T) {
	h := NewHeap(Config{})
	a, _ := NewHeapArray(h)
	for i := 1; i <= 5; i++ {
		a.Push(Number(float64(i)))
	}

	removed, err := Splice(h, a, 1, 2, []Value{Number(100)})
	require.NoError(t, err)
	require.Equal(t, 2, removed.Len())
	require.Equal(t, float64(2), removed.Get(0).AsNumber())
	require.Equal(t, 4, a.Len())
	require.Equal(t, float64(100), a.Get(1).AsNumber())
}

func TestArrayJoinSkipsNullish(t *testing.T) {
	h := NewHeap(Config{})
	a, _ := NewHeapArray(h)
	a.Push(Number(1))
	a.Push(Null)
	a.Push(Number(3))

	got := Join(a, ",", ToGoString)
	require.Equal(t, "1,,3", got)
}
