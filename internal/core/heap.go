package core

import (
	"fmt"
	"time"
)

// Stats are the read-only observables described in spec.md §4.1.
type Stats struct {
	Collections          int
	MinorCollections      int
	FullCollections       int
	Allocations           int64
	Deallocations         int64
	BytesAllocated        int64
	BytesFreed            int64
	TotalCollectionTime   time.Duration
	PeakUsage             int64
}

// Phase is the state of an in-progress incremental collection.
type Phase uint8

const (
	PhaseIdle Phase = iota
	PhaseMarking
	PhaseSweeping
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseMarking:
		return "marking"
	case PhaseSweeping:
		return "sweeping"
	default:
		return "unknown"
	}
}

// IncrementalStep bounds how many grey objects one CollectIncremental call
// processes during its marking phase, regardless of the time budget.
const IncrementalStep = 256

// ErrOutOfMemory is returned by Alloc when the heap cannot grow further.
type ErrOutOfMemory struct {
	Requested int
	MaxHeap   int64
}

func (e *ErrOutOfMemory) Error() string {
	return fmt.Sprintf("core: out-of-memory allocating %d bytes (max heap %d)", e.Requested, e.MaxHeap)
}

// Heap is a generational mark-sweep collector over a graph of Obj values.
// It never manages raw memory (Go already owns that); it tracks a logical
// graph of heap objects and decides which remain externally visible.
type Heap struct {
	young *Header
	old   *Header

	youngBytes     int64
	oldBytes       int64
	youngThreshold int64
	maxHeapSize    int64 // 0 = unbounded

	roots []Obj

	weakRefs []*WeakRef

	onCollect []func(freed []Obj)

	stats Stats

	// incremental collection state
	phase     Phase
	grey      []Obj
	sweepNext *Header
	sweepGen  Generation
	survivors *Header // rebuilt list for the generation currently sweeping
	survBytes int64
}

// Config bundles the tunables spec.md leaves to the host.
type Config struct {
	YoungThreshold int64 // bytes; 0 uses a built-in default
	MaxHeapSize    int64 // 0 = unbounded
}

// NewHeap constructs a Heap ready to allocate.
func NewHeap(cfg Config) *Heap {
	threshold := cfg.YoungThreshold
	if threshold <= 0 {
		threshold = 64 * 1024
	}
	return &Heap{
		youngThreshold: threshold,
		maxHeapSize:    cfg.MaxHeapSize,
	}
}

// AddRoot pins o as a strong root. Roots are a dynamic vector, per
// spec.md §4.1 — duplicates are permitted and must be removed the same
// number of times they were added.
func (h *Heap) AddRoot(o Obj) {
	h.roots = append(h.roots, o)
}

// RemoveRoot removes the first occurrence of o from the root vector.
func (h *Heap) RemoveRoot(o Obj) {
	for i, r := range h.roots {
		if r == o {
			h.roots = append(h.roots[:i], h.roots[i+1:]...)
			return
		}
	}
}

// Roots exposes the live root vector for diagnostic/debug-server use.
func (h *Heap) Roots() []Obj {
	return h.roots
}

// OnCollect registers a callback invoked after every sweep with the set of
// objects that were just freed. internal/core's InternTable uses this to
// drop stale entries (spec.md's "sweeper removes stale entries").
func (h *Heap) OnCollect(f func(freed []Obj)) {
	h.onCollect = append(h.onCollect, f)
}

// Alloc registers o (already constructed by the caller) as a fresh
// heap-managed object of the given kind and size, triggering a minor
// collection if the young generation has grown past its threshold.
func (h *Heap) Alloc(o Obj, kind Kind, size int) error {
	if h.maxHeapSize > 0 && h.youngBytes+h.oldBytes+int64(size) > h.maxHeapSize {
		// Try to reclaim before giving up, matching "fails only if growth is refused".
		h.CollectFull()
		if h.maxHeapSize > 0 && h.youngBytes+h.oldBytes+int64(size) > h.maxHeapSize {
			return &ErrOutOfMemory{Requested: size, MaxHeap: h.maxHeapSize}
		}
	}

	hdr := o.Head()
	*hdr = Header{Kind: kind, Size: size, Color: White, Gen: Young, next: nil, owner: o}

	// A mutator allocation occurring mid-incremental-cycle must not be
	// linked onto h.young directly whenever the cycle still intends to
	// overwrite h.young wholesale from h.survivors (spec.md §4.1, option
	// (b) of the write-barrier contract: conservatively treat it as
	// already surviving this cycle rather than tracing it). Only once the
	// young generation's sweep has actually finalized h.young (i.e. we're
	// sweeping old, or idle) is it safe to link straight onto h.young.
	switch {
	case h.phase == PhaseSweeping && h.sweepGen == Old:
		hdr.next = h.young
		h.young = hdr
	case h.phase != PhaseIdle:
		hdr.next = h.survivors
		h.survivors = hdr
	default:
		hdr.next = h.young
		h.young = hdr
	}

	h.youngBytes += int64(size)
	h.stats.Allocations++
	h.stats.BytesAllocated += int64(size)
	if used := h.youngBytes + h.oldBytes; used > h.stats.PeakUsage {
		h.stats.PeakUsage = used
	}

	if h.phase == PhaseIdle && h.youngBytes > h.youngThreshold {
		h.CollectYoung()
	}
	return nil
}

// CreateWeakRef returns a handle that yields target until target becomes
// unreachable, at which point it clears to nil and callback fires once.
func (h *Heap) CreateWeakRef(target Obj, callback func()) *WeakRef {
	w := &WeakRef{target: target, callback: callback}
	h.weakRefs = append(h.weakRefs, w)
	return w
}

// BytesRetained is spec.md §6's memory_usage(): bytes currently retained.
func (h *Heap) BytesRetained() int64 {
	return h.youngBytes + h.oldBytes
}

// Stats returns a copy of the current statistics snapshot.
func (h *Heap) Stats() Stats {
	return h.stats
}

func enqueueGrey(grey *[]Obj, o Obj) {
	hdr := o.Head()
	if hdr.Color == White {
		hdr.Color = Grey
		*grey = append(*grey, o)
	}
}

// markFrom runs a full mark pass from the given root set to completion and
// returns nothing; callers sweep afterward. It is used by CollectYoung and
// CollectFull, which differ only in which generations they consider live
// and sweep.
func (h *Heap) markFrom(roots []Obj) {
	grey := make([]Obj, 0, len(roots))
	for _, r := range roots {
		if r != nil {
			enqueueGrey(&grey, r)
		}
	}
	for len(grey) > 0 {
		o := grey[len(grey)-1]
		grey = grey[:len(grey)-1]
		hdr := o.Head()
		if hdr.Color == Black {
			continue
		}
		o.Trace(func(child Obj) {
			enqueueGrey(&grey, child)
		})
		hdr.Color = Black
	}
}

// sweepList walks a generation's intrusive list, reclaiming white headers
// and rebuilding the list of survivors (black -> white, reset for next
// cycle). Survivors that age past PromotionThreshold are returned
// separately for the caller to migrate into the old generation.
func (h *Heap) sweepList(head *Header, gen Generation, age bool) (survivors *Header, promote []*Header, freedBytes int64, freedCount int64) {
	var freedObjs []Obj
	cur := head
	for cur != nil {
		next := cur.next
		if cur.Color == White {
			freedBytes += int64(cur.Size)
			freedCount++
			freedObjs = append(freedObjs, headerOwner(cur))
		} else {
			cur.Color = White
			if age {
				cur.Age++
			}
			if age && cur.Age >= PromotionThreshold {
				cur.next = nil
				promote = append(promote, cur)
			} else {
				cur.next = survivors
				survivors = cur
			}
		}
		cur = next
	}
	h.clearWeakRefs(freedObjs)
	for _, cb := range h.onCollect {
		cb(freedObjs)
	}
	return survivors, promote, freedBytes, freedCount
}

func (h *Heap) clearWeakRefs(freed []Obj) {
	if len(freed) == 0 || len(h.weakRefs) == 0 {
		return
	}
	dead := make(map[Obj]bool, len(freed))
	for _, o := range freed {
		dead[o] = true
	}
	kept := h.weakRefs[:0]
	for _, w := range h.weakRefs {
		if w.target != nil && dead[w.target] {
			w.target = nil
			w.cleared = true
			if w.callback != nil {
				w.callback()
			}
			continue
		}
		kept = append(kept, w)
	}
	h.weakRefs = kept
}

// CollectYoung marks from the root vector plus every old-generation header
// (the "treat every old object as a root" remembered-set fallback spec.md
// sanctions as the simplest conforming implementation) and sweeps only the
// young generation. Survivors that reach PromotionThreshold migrate to old.
func (h *Heap) CollectYoung() {
	start := time.Now()
	roots := append([]Obj(nil), h.roots...)
	for cur := h.old; cur != nil; cur = cur.next {
		roots = append(roots, headerOwner(cur))
	}
	h.markFrom(roots)

	survivors, promote, freedBytes, freedCount := h.sweepList(h.young, Young, true)
	h.young = survivors
	h.youngBytes -= freedBytes
	for _, hdr := range promote {
		hdr.Gen = Old
		hdr.next = h.old
		h.old = hdr
		h.youngBytes -= int64(hdr.Size)
		h.oldBytes += int64(hdr.Size)
	}

	// Old generation was only used as a root source, not swept; reset its
	// objects (and any freshly-promoted ones) back to white for the next cycle.
	for cur := h.old; cur != nil; cur = cur.next {
		cur.Color = White
	}

	h.stats.Collections++
	h.stats.MinorCollections++
	h.stats.Deallocations += freedCount
	h.stats.BytesFreed += freedBytes
	h.stats.TotalCollectionTime += time.Since(start)
}

// CollectFull marks from the root vector only and sweeps both generations.
func (h *Heap) CollectFull() {
	start := time.Now()
	h.markFrom(append([]Obj(nil), h.roots...))

	youngSurv, _, youngFreed, youngCount := h.sweepList(h.young, Young, false)
	oldSurv, _, oldFreed, oldCount := h.sweepList(h.old, Old, false)
	h.young = youngSurv
	h.old = oldSurv
	h.youngBytes -= youngFreed
	h.oldBytes -= oldFreed

	h.stats.Collections++
	h.stats.FullCollections++
	h.stats.Deallocations += youngCount + oldCount
	h.stats.BytesFreed += youngFreed + oldFreed
	h.stats.TotalCollectionTime += time.Since(start)
}

// CollectIncremental advances the collector by one phase step, bounded by
// a wall-clock budget. Phases progress idle -> marking -> sweeping -> idle.
// See DESIGN.md for why a compacting phase is not implemented.
func (h *Heap) CollectIncremental(budget time.Duration) {
	deadline := time.Now().Add(budget)
	start := time.Now()

	if h.phase == PhaseIdle {
		h.phase = PhaseMarking
		h.grey = h.grey[:0]
		roots := append([]Obj(nil), h.roots...)
		for cur := h.old; cur != nil; cur = cur.next {
			roots = append(roots, headerOwner(cur))
		}
		for _, r := range roots {
			if r != nil {
				enqueueGrey(&h.grey, r)
			}
		}
		h.sweepGen = Young
		h.sweepNext = h.young
		h.survivors = nil
		h.survBytes = 0
	}

	if h.phase == PhaseMarking {
		processed := 0
		for len(h.grey) > 0 && processed < IncrementalStep && time.Now().Before(deadline) {
			o := h.grey[len(h.grey)-1]
			h.grey = h.grey[:len(h.grey)-1]
			hdr := o.Head()
			if hdr.Color != Black {
				o.Trace(func(child Obj) { enqueueGrey(&h.grey, child) })
				hdr.Color = Black
			}
			processed++
		}
		if len(h.grey) == 0 {
			h.phase = PhaseSweeping
		}
	}

	if h.phase == PhaseSweeping {
		processed := 0
		for h.sweepNext != nil && processed < IncrementalStep && time.Now().Before(deadline) {
			cur := h.sweepNext
			h.sweepNext = cur.next
			if cur.Color == White {
				freed := headerOwner(cur)
				h.stats.Deallocations++
				h.stats.BytesFreed += int64(cur.Size)
				if h.sweepGen == Young {
					h.youngBytes -= int64(cur.Size)
				} else {
					h.oldBytes -= int64(cur.Size)
				}
				h.clearWeakRefs([]Obj{freed})
				for _, cb := range h.onCollect {
					cb([]Obj{freed})
				}
			} else {
				cur.Color = White
				if h.sweepGen == Young {
					cur.Age++
				}
				if h.sweepGen == Young && cur.Age >= PromotionThreshold {
					cur.Gen = Old
					cur.next = h.old
					h.old = cur
					h.youngBytes -= int64(cur.Size)
					h.oldBytes += int64(cur.Size)
				} else {
					cur.next = h.survivors
					h.survivors = cur
				}
			}
			processed++
		}
		if h.sweepNext == nil {
			if h.sweepGen == Young {
				h.young = h.survivors
				h.sweepGen = Old
				h.sweepNext = h.old
				h.survivors = nil
			} else {
				h.old = h.survivors
				h.phase = PhaseIdle
				h.stats.Collections++
			}
		}
	}

	h.stats.TotalCollectionTime += time.Since(start)
}

// Phase reports the incremental collector's current phase.
func (h *Heap) Phase() Phase { return h.phase }

// headerOwner returns the payload a header belongs to, for sweep callbacks
// and weak-ref clearing that need the Obj rather than the bare Header.
func headerOwner(hdr *Header) Obj { return hdr.owner }
