package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()

	metrics, err := reg.Gather()
	require.NoError(t, err)

	var total float64
	for _, mf := range metrics {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			total += m.GetCounter().GetValue()
		}
		return total
	}
	t.Fatalf("metric %s not found", name)
	return 0
}

func TestCollector_FetchCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordFetchSuccess("bbc")
	c.RecordFetchSuccess("bbc")
	c.RecordFetchFailure("cnn")

	assert.Equal(t, float64(2), counterValue(t, reg, "habari_fetch_success_total"))
	assert.Equal(t, float64(1), counterValue(t, reg, "habari_fetch_fail_total"))
}

func TestCollector_ArticlesStored(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordArticlesStored(3)
	c.RecordArticlesStored(2)

	assert.Equal(t, float64(5), counterValue(t, reg, "habari_articles_stored_total"))
}

func TestCollector_CacheCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordCacheHit("all")
	c.RecordCacheMiss("all")
	c.RecordCacheMiss("sports")

	assert.Equal(t, float64(1), counterValue(t, reg, "habari_cache_hits_total"))
	assert.Equal(t, float64(2), counterValue(t, reg, "habari_cache_misses_total"))
}

func TestHandler_ServesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordFetchSuccess("bbc")
	c.RecordFetchLatency("bbc", 120*time.Millisecond)

	srv := httptest.NewServer(Handler(reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.True(t, strings.Contains(string(body), "habari_fetch_success_total"))
	assert.True(t, strings.Contains(string(body), "habari_fetch_latency_seconds"))
}

func TestNop_IsSafe(t *testing.T) {
	var r Recorder = Nop{}

	r.RecordFetchSuccess("x")
	r.RecordFetchFailure("x")
	r.RecordFetchLatency("x", time.Second)
	r.RecordArticlesStored(1)
	r.RecordCacheHit("all")
	r.RecordCacheMiss("all")
}
