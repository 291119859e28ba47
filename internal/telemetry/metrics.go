// Package telemetry exposes the engine's GC and dispatch counters to
// Prometheus and republishes GC lifecycle events over NATS — the
// operational surface spec.md §4.1's Stats and §4.3's phase machine
// don't themselves define a wire format for, but which a host running
// many engine instances needs to scrape and subscribe to the same way
// it already scrapes and subscribes to everything else in its stack.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/scriptrt/ccjs/internal/core"
)

// Metrics wraps the Prometheus collectors an embedder registers once
// per process (or per Runtime, via a dedicated registry) to observe
// heap and dispatch behavior.
type Metrics struct {
	collections        *prometheus.CounterVec
	bytesAllocated     prometheus.Counter
	bytesFreed         prometheus.Counter
	bytesRetained      prometheus.Gauge
	collectionDuration prometheus.Histogram
	gcPhase            prometheus.Gauge
	dispatchedOps      prometheus.Counter
}

// NewMetrics constructs the collector set and registers it against reg.
func NewMetrics(reg prometheus.Registerer, namespace string) (*Metrics, error) {
	m := &Metrics{
		collections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gc_collections_total",
			Help:      "Number of garbage collections performed, partitioned by kind.",
		}, []string{"kind"}),
		bytesAllocated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "heap_bytes_allocated_total",
			Help:      "Cumulative bytes allocated on the heap.",
		}),
		bytesFreed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "heap_bytes_freed_total",
			Help:      "Cumulative bytes reclaimed by the collector.",
		}),
		bytesRetained: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "heap_bytes_retained",
			Help:      "Bytes currently live on the heap.",
		}),
		collectionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "gc_collection_duration_seconds",
			Help:      "Cumulative wall-clock time spent collecting, sampled per Observe call.",
			Buckets:   prometheus.DefBuckets,
		}),
		gcPhase: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "gc_phase",
			Help:      "Current incremental GC phase (0=idle, 1=marking, 2=sweeping).",
		}),
		dispatchedOps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "vm_dispatched_ops_total",
			Help:      "Number of bytecode instructions dispatched.",
		}),
	}

	collectors := []prometheus.Collector{
		m.collections, m.bytesAllocated, m.bytesFreed, m.bytesRetained,
		m.collectionDuration, m.gcPhase, m.dispatchedOps,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Sample takes a snapshot of a Heap's Stats and current Phase and
// updates the corresponding gauges/counters. core.Stats holds running
// totals while Prometheus counters only support Add with a non-negative
// delta, so Sample tracks the previously observed totals and adds only
// the difference.
type sampledTotals struct {
	collections     int
	fullCollections int
	bytesAllocated  int64
	bytesFreed      int64
}

type Sampler struct {
	m    *Metrics
	prev sampledTotals
}

func NewSampler(m *Metrics) *Sampler {
	return &Sampler{m: m}
}

func (s *Sampler) Sample(stats core.Stats, phase core.Phase) {
	if d := stats.MinorCollections - s.prev.collections; d > 0 {
		s.m.collections.WithLabelValues("minor").Add(float64(d))
	}
	if d := stats.FullCollections - s.prev.fullCollections; d > 0 {
		s.m.collections.WithLabelValues("full").Add(float64(d))
	}
	if d := stats.BytesAllocated - s.prev.bytesAllocated; d > 0 {
		s.m.bytesAllocated.Add(float64(d))
	}
	if d := stats.BytesFreed - s.prev.bytesFreed; d > 0 {
		s.m.bytesFreed.Add(float64(d))
	}
	s.prev = sampledTotals{
		collections:     stats.MinorCollections,
		fullCollections: stats.FullCollections,
		bytesAllocated:  stats.BytesAllocated,
		bytesFreed:      stats.BytesFreed,
	}

	s.m.bytesRetained.Set(float64(stats.BytesAllocated - stats.BytesFreed))
	s.m.collectionDuration.Observe(stats.TotalCollectionTime.Seconds())
	s.m.gcPhase.Set(float64(phase))
}

// ObserveDispatch increments the dispatched-instruction counter by n.
func (m *Metrics) ObserveDispatch(n int) {
	m.dispatchedOps.Add(float64(n))
}
