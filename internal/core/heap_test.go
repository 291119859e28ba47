package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// leafObj is a minimal Obj with no children, for exercising the
// collector without dragging in the value/object model.
type leafObj struct {
	Header
}

func (l *leafObj) Trace(mark func(Obj)) {}

func newLeaf(t *testing.T, h *Heap) *leafObj {
	t.Helper()
	o := &leafObj{}
	require.NoError(t, h.Alloc(o, KindObject, 8))
	return o
}

func TestCollectYoungReclaimsUnreachable(t *testing.T) {
	h := NewHeap(Config{})
	root := newLeaf(t, h)
	h.AddRoot(root)
	_ = newLeaf(t, h) // unreachable garbage

	h.CollectYoung()

	require.Equal(t, int64(1), h.stats.Deallocations)
	require.Equal(t, root.Head(), h.young)
	require.Nil(t, root.Head().next)
}

func TestCollectYoungKeepsReachableChain(t *testing.T) {
	h := NewHeap(Config{})
	child := newLeaf(t, h)
	parent := &parentObj{child: child}
	require.NoError(t, h.Alloc(parent, KindObject, 8))
	h.AddRoot(parent)

	h.CollectYoung()

	require.Equal(t, int64(0), h.stats.Deallocations)
}

type parentObj struct {
	Header
	child *leafObj
}

func (p *parentObj) Trace(mark func(Obj)) {
	if p.child != nil {
		mark(p.child)
	}
}

func TestPromotionAfterThresholdSurvivals(t *testing.T) {
	h := NewHeap(Config{})
	o := newLeaf(t, h)
	h.AddRoot(o)

	for i := 0; i < PromotionThreshold; i++ {
		h.CollectYoung()
	}

	require.Equal(t, Old, o.Head().Gen, "object should be promoted after surviving the threshold")
}

func TestWeakRefClearsOnCollect(t *testing.T) {
	h := NewHeap(Config{})
	target := newLeaf(t, h) // no root: collectible
	fired := 0
	w := h.CreateWeakRef(target, func() { fired++ })

	h.CollectFull()

	require.Nil(t, w.Get())
	require.True(t, w.Cleared())
	require.Equal(t, 1, fired)
}

func TestOutOfMemoryWhenBounded(t *testing.T) {
	h := NewHeap(Config{MaxHeapSize: 16})
	for i := 0; i < 3; i++ {
		o := &leafObj{}
		h.AddRoot(o)
		if err := h.Alloc(o, KindObject, 16); err != nil {
			require.Error(t, err)
			var oom *ErrOutOfMemory
			require.ErrorAs(t, err, &oom)
			return
		}
	}
	t.Fatal("expected out-of-memory once the bound was exceeded")
}

func TestCollectIncrementalReachesIdle(t *testing.T) {
	h := NewHeap(Config{})
	root := newLeaf(t, h)
	h.AddRoot(root)
	_ = newLeaf(t, h)

	for i := 0; i < 10 && h.Phase() != PhaseIdle; i++ {
		h.CollectIncremental(time.Second)
	}
	h.CollectIncremental(time.Second)

	require.Equal(t, PhaseIdle, h.Phase())
}

// TestCollectIncrementalRetainsMidCycleAllocations exercises spec.md
// §4.1's mutator/allocator guarantee directly: an object allocated while
// an incremental cycle is underway must still be reachable from h.young
// once that cycle reaches idle again, not silently dropped when the
// cycle finalizes h.young from the survivor chain it started the cycle
// with.
func TestCollectIncrementalRetainsMidCycleAllocations(t *testing.T) {
	h := NewHeap(Config{})
	root := newLeaf(t, h)
	h.AddRoot(root)

	h.CollectIncremental(time.Second)
	require.NotEqual(t, PhaseIdle, h.Phase(), "test requires a multi-step cycle")

	midCycle := newLeaf(t, h)
	h.AddRoot(midCycle)

	for i := 0; i < 10 && h.Phase() != PhaseIdle; i++ {
		h.CollectIncremental(time.Second)
	}
	require.Equal(t, PhaseIdle, h.Phase())

	found := false
	for cur := h.young; cur != nil; cur = cur.next {
		if cur == midCycle.Head() {
			found = true
			break
		}
	}
	require.True(t, found, "object allocated mid-cycle must survive into the finalized young generation")
}
