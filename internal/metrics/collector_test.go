package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// =============================================================================
// 🧪 Collector 测试
// =============================================================================

func newTestCollector() *Collector {
	return NewCollector("nodeflow_test", prometheus.NewRegistry(), zap.NewNop())
}

func TestNewCollector(t *testing.T) {
	collector := newTestCollector()

	assert.NotNil(t, collector)
	assert.NotNil(t, collector.httpRequestsTotal)
	assert.NotNil(t, collector.upstreamRequestsTotal)
	assert.NotNil(t, collector.upstreamRetriesTotal)
	assert.NotNil(t, collector.cacheHits)
}

func TestCollector_RecordHTTPRequest(t *testing.T) {
	collector := newTestCollector()

	collector.RecordHTTPRequest("GET", "/models", 200, 100*time.Millisecond)
	collector.RecordHTTPRequest("GET", "/models", 200, 50*time.Millisecond)

	count := testutil.CollectAndCount(collector.httpRequestsTotal)
	assert.Greater(t, count, 0)
	assert.Equal(t, float64(2),
		testutil.ToFloat64(collector.httpRequestsTotal.WithLabelValues("GET", "/models", "2xx")))
}

func TestCollector_RecordUpstreamRequest(t *testing.T) {
	collector := newTestCollector()

	collector.RecordUpstreamRequest("POST", "/chat/completions", 200, 500*time.Millisecond)
	collector.RecordUpstreamRequest("POST", "/chat/completions", 502, 20*time.Millisecond)

	assert.Equal(t, float64(1),
		testutil.ToFloat64(collector.upstreamRequestsTotal.WithLabelValues("POST", "/chat/completions", "2xx")))
	assert.Equal(t, float64(1),
		testutil.ToFloat64(collector.upstreamRequestsTotal.WithLabelValues("POST", "/chat/completions", "5xx")))
}

func TestCollector_RecordUpstreamRetry(t *testing.T) {
	collector := newTestCollector()

	collector.RecordUpstreamRetry("/models")
	collector.RecordUpstreamRetry("/models")

	assert.Equal(t, float64(2),
		testutil.ToFloat64(collector.upstreamRetriesTotal.WithLabelValues("/models")))
}

func TestCollector_RecordCacheOutcomes(t *testing.T) {
	collector := newTestCollector()

	collector.RecordCacheHit("default")
	collector.RecordCacheMiss("default")
	collector.RecordCacheStale("default")

	assert.Equal(t, float64(1), testutil.ToFloat64(collector.cacheHits.WithLabelValues("default")))
	assert.Equal(t, float64(1), testutil.ToFloat64(collector.cacheMisses.WithLabelValues("default")))
	assert.Equal(t, float64(1), testutil.ToFloat64(collector.cacheStale.WithLabelValues("default")))
}

func TestCollector_ConcurrentRecording(t *testing.T) {
	collector := newTestCollector()

	done := make(chan bool)
	for i := 0; i < 10; i++ {
		go func() {
			collector.RecordHTTPRequest("GET", "/models", 200, 10*time.Millisecond)
			collector.RecordUpstreamRequest("GET", "/models", 200, 10*time.Millisecond)
			collector.RecordCacheHit("default")
			done <- true
		}()
	}
	for i := 0; i < 10; i++ {
		<-done
	}

	assert.Equal(t, float64(10),
		testutil.ToFloat64(collector.httpRequestsTotal.WithLabelValues("GET", "/models", "2xx")))
	assert.Equal(t, float64(10),
		testutil.ToFloat64(collector.cacheHits.WithLabelValues("default")))
}

func TestStatusCode(t *testing.T) {
	assert.Equal(t, "2xx", statusCode(204))
	assert.Equal(t, "3xx", statusCode(302))
	assert.Equal(t, "4xx", statusCode(404))
	assert.Equal(t, "5xx", statusCode(502))
	assert.Equal(t, "unknown", statusCode(0))
}
