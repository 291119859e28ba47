package core

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValueTagsAndPredicates(t *testing.T) {
	require.True(t, Undefined.IsUndefined())
	require.True(t, Null.IsNull())
	require.True(t, Undefined.IsNullish())
	require.True(t, Null.IsNullish())
	require.False(t, Number(0).IsNullish())

	require.Equal(t, TagBoolean, True.Tag())
	require.True(t, True.AsBool())
	require.False(t, False.AsBool())
}

func TestHeapRefOnlyForHeapBackedTags(t *testing.T) {
	h := NewHeap(Config{})
	s, err := NewHeapString(h, "hi")
	require.NoError(t, err)

	require.Nil(t, Number(1).HeapRef())
	require.Nil(t, Undefined.HeapRef())
	require.NotNil(t, StringValue(s).HeapRef())
}

func TestBigIntArithmetic(t *testing.T) {
	a := BigIntFromInt64(10)
	b := BigIntFromInt64(3)
	require.Equal(t, "13", a.Add(b).String())
	require.Equal(t, "7", a.Sub(b).String())
	require.Equal(t, "30", a.Mul(b).String())
	require.Equal(t, 1, a.Cmp(b))
}
