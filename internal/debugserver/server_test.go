package debugserver

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/scriptrt/ccjs/internal/core"
	"github.com/scriptrt/ccjs/internal/telemetry"
)

type fakeSource struct {
	stats  core.Stats
	phase  core.Phase
	gcCall int
}

func (f *fakeSource) Stats() core.Stats { return f.stats }
func (f *fakeSource) Phase() core.Phase { return f.phase }
func (f *fakeSource) GC()               { f.gcCall++ }

func TestStatsHandlerReturnsJSON(t *testing.T) {
	src := &fakeSource{stats: core.Stats{MinorCollections: 4}, phase: core.PhaseMarking}
	reg := prometheus.NewRegistry()
	srv := New("127.0.0.1:0", src, reg, nil, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/debug/stats", nil)
	srv.http.Handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"phase":"marking"`)
	require.Contains(t, rec.Body.String(), `"MinorCollections":4`)
}

func TestGCHandlerTriggersCollection(t *testing.T) {
	src := &fakeSource{}
	reg := prometheus.NewRegistry()
	srv := New("127.0.0.1:0", src, reg, nil, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/debug/gc", nil)
	srv.http.Handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, 1, src.gcCall)
}

func TestMetricsEndpointServesPrometheusFormat(t *testing.T) {
	reg := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "probe_total", Help: "test"})
	reg.MustRegister(counter)
	counter.Inc()

	srv := New("127.0.0.1:0", &fakeSource{}, reg, nil, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	srv.http.Handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "probe_total 1")
}

func TestMetricsEndpointResamplesOnEveryScrape(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics, err := telemetry.NewMetrics(reg, "test")
	require.NoError(t, err)
	sampler := telemetry.NewSampler(metrics)

	src := &fakeSource{stats: core.Stats{BytesFreed: 10}}
	srv := New("127.0.0.1:0", src, reg, sampler, nil)

	scrape := func() string {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
		srv.http.Handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		return rec.Body.String()
	}

	require.Contains(t, scrape(), "test_heap_bytes_freed_total 10")

	src.stats.BytesFreed = 25
	require.Contains(t, scrape(), "test_heap_bytes_freed_total 25",
		"a later scrape must reflect src's current stats, not the value sampled at server construction")
}
