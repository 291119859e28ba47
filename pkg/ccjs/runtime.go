// Package ccjs is the embedding API described in spec.md §6: runtime and
// context lifecycle, value constructors, type predicates/coercions,
// object/array property operations, a function-call entry point,
// native-callback registration, eval, error inspection and memory
// observability. Internal packages (internal/core, internal/compiler,
// internal/vm) do the real work; this package is the stable surface a
// host program links against.
package ccjs

import (
	"github.com/scriptrt/ccjs/internal/core"
	"github.com/scriptrt/ccjs/internal/engineconfig"
	"github.com/scriptrt/ccjs/pkg/rtlog"
)

// Runtime owns one heap (spec.md §5: "the heap ... [is] owned by exactly
// one component and not shared across threads"). It may host several
// Contexts, each with its own global object and VM, the way a single
// process-wide V8 Isolate hosts several Contexts.
type Runtime struct {
	heap    *core.Heap
	interns *core.InternTable
	log     *rtlog.Logger
	cfg     engineconfig.Config
}

// NewRuntime constructs a Runtime from cfg. A nil logger falls back to
// rtlog.Default.
func NewRuntime(cfg engineconfig.Config, logger *rtlog.Logger) *Runtime {
	if logger == nil {
		logger = rtlog.Default
	}
	heap := core.NewHeap(core.Config{
		YoungThreshold: int64(cfg.Heap.YoungCapacityBytes),
		MaxHeapSize:    int64(cfg.Heap.MaxHeapBytes),
	})
	return &Runtime{
		heap:    heap,
		interns: core.NewInternTable(heap),
		log:     logger,
		cfg:     cfg,
	}
}

// Config returns the configuration the Runtime was built with.
func (r *Runtime) Config() engineconfig.Config { return r.cfg }

// Log returns the Runtime's logger, for internal packages (debugserver,
// snapshot, telemetry) handed a reference to this Runtime.
func (r *Runtime) Log() *rtlog.Logger { return r.log }

// Heap exposes the underlying collector for internal/debugserver and
// internal/telemetry, which need to read Stats()/Phase()/BytesRetained()
// directly; ordinary embedders should use GC()/MemoryUsage() instead.
func (r *Runtime) Heap() *core.Heap { return r.heap }

// GC forces a full collection (spec.md §6's gc()).
func (r *Runtime) GC() {
	r.heap.CollectFull()
}

// MemoryUsage returns bytes currently retained (spec.md §6's
// memory_usage()).
func (r *Runtime) MemoryUsage() int64 {
	return r.heap.BytesRetained()
}

// CollectIncremental advances one step of incremental collection,
// exposed for a host driving gc_mode "incremental" on a schedule instead
// of calling GC() directly. Nothing in this module calls it on a schedule.
func (r *Runtime) CollectIncremental(budgetMicros int64) {
	r.heap.CollectIncremental(microsToDuration(budgetMicros))
}

// Stats mirrors spec.md §4.1's observability surface.
func (r *Runtime) Stats() core.Stats { return r.heap.Stats() }

// Phase reports the current incremental-collection phase (spec.md
// §4.3), for hosts polling GC progress or feeding internal/debugserver.
func (r *Runtime) Phase() core.Phase { return r.heap.Phase() }

// Intern deduplicates a Go string into the Runtime-wide string table,
// used internally by value construction and exposed for hosts that want
// to pre-intern known-hot identifiers.
func (r *Runtime) Intern(s string) (*core.HeapString, error) {
	return r.interns.Intern(s)
}
