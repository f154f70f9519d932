package obs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMockMetricsRecordsCountsAndHists(t *testing.T) {
	m := NewMockMetrics()
	m.IncCounter("rag_requests_total", map[string]string{"status": "ok"})
	m.IncCounter("rag_requests_total", map[string]string{"status": "timeout"})
	m.ObserveHistogram("rag_request_duration_seconds", 0.12, nil)
	m.ObserveHistogram("rag_request_duration_seconds", 0.34, nil)

	assert.Equal(t, 2, m.Counters["rag_requests_total"])
	assert.Len(t, m.Hists["rag_request_duration_seconds"], 2)
	assert.Equal(t, map[string]string{"status": "ok"}, m.Labels["rag_requests_total"][0])
}

func TestOtelMetricsSafeWithoutProvider(t *testing.T) {
	// without InitOTel the global provider is the no-op one; recording must
	// still be safe
	o := NewOtelMetrics()
	o.IncCounter("rag_requests_total", map[string]string{"status": "ok"})
	o.ObserveHistogram("rag_request_duration_seconds", 0.5, nil)
}
