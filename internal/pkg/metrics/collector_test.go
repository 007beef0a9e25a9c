package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCollector_RecordCacheOperation(t *testing.T) {
	collector := NewCollector("test")

	collector.RecordCacheOperation("get", "ok", time.Millisecond)
	collector.RecordCacheOperation("get", "ok", time.Millisecond)
	collector.RecordCacheOperation("get", "not_found", time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(collector.cacheOperationsTotal.WithLabelValues("get", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.cacheOperationsTotal.WithLabelValues("get", "not_found")))
	assert.Equal(t, 1, testutil.CollectAndCount(collector.cacheOperationDuration))
}

func TestCollector_RecordHTTPRequest(t *testing.T) {
	collector := NewCollector("test")

	collector.RecordHTTPRequest("GET", "/keys/:key", 404, 5*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(collector.httpRequestsTotal.WithLabelValues("GET", "/keys/:key", "404")))
}

func TestCollector_Nil(t *testing.T) {
	var collector *Collector

	assert.NotPanics(t, func() {
		collector.RecordCacheOperation("get", "ok", time.Millisecond)
		collector.RecordHTTPRequest("GET", "/", 200, time.Millisecond)
	})
}

func TestCollector_Handler(t *testing.T) {
	collector := NewCollector("cache_service")
	collector.RecordCacheOperation("set", "ok", time.Millisecond)

	w := httptest.NewRecorder()
	collector.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `cache_service_cache_operations_total{operation="set",outcome="ok"} 1`)
}
