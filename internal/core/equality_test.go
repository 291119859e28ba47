package core

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStrictEqualsNaNIsNeverEqual(t *testing.T) {
	require.False(t, StrictEquals(Number(math.NaN()), Number(math.NaN())))
}

func TestStrictEqualsPositiveAndNegativeZero(t *testing.T) {
	require.True(t, StrictEquals(Number(0), Number(math.Copysign(0, -1))))
}

func TestStrictEqualsHeapValuesCompareByIdentity(t *testing.T) {
	h := NewHeap(Config{})
	a, _ := NewHeapObject(h)
	b, _ := NewHeapObject(h)

	require.True(t, StrictEquals(ObjectValue(a), ObjectValue(a)))
	require.False(t, StrictEquals(ObjectValue(a), ObjectValue(b)))
}

func TestSameValueZeroTreatsNaNAsEqual(t *testing.T) {
	require.True(t, SameValueZero(Number(math.NaN()), Number(math.NaN())))
}

func TestStrictEqualsDifferentTagsNeverEqual(t *testing.T) {
	require.False(t, StrictEquals(Number(0), Undefined))
	require.False(t, StrictEquals(Null, Undefined))
}
