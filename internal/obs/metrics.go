package obs

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics is the counter/histogram surface the request handlers record to.
// OtelMetrics is the production implementation; MockMetrics captures calls
// for tests.
type Metrics interface {
	IncCounter(name string, labels map[string]string)
	ObserveHistogram(name string, value float64, labels map[string]string)
}

// instrumentSpec carries the description/unit an instrument is registered
// with. Instruments outside this table are still created, just undescribed.
type instrumentSpec struct {
	description string
	unit        string
}

var knownInstruments = map[string]instrumentSpec{
	"rag_requests_total":           {description: "Answer requests by outcome status", unit: "{request}"},
	"rag_request_duration_seconds": {description: "End-to-end answer latency", unit: "s"},
	"rag_cache_hits":               {description: "Cache hits by namespace", unit: "{hit}"},
	"rag_cache_misses":             {description: "Cache misses by namespace", unit: "{miss}"},
}

// OtelMetrics records counters and histograms through the global OTel
// meter provider. InitOTel installs the real provider; until then (and in
// tests that never call it) recordings go to OTel's no-op provider.
type OtelMetrics struct {
	meter metric.Meter

	mu         sync.Mutex
	counters   map[string]metric.Int64Counter
	histograms map[string]metric.Float64Histogram
}

// NewOtelMetrics constructs the adapter against the global meter provider.
func NewOtelMetrics() *OtelMetrics {
	return &OtelMetrics{
		meter:      otel.Meter("georgian-rag"),
		counters:   map[string]metric.Int64Counter{},
		histograms: map[string]metric.Float64Histogram{},
	}
}

// IncCounter adds one to the named counter with the given labels.
func (o *OtelMetrics) IncCounter(name string, labels map[string]string) {
	if o == nil {
		return
	}
	o.mu.Lock()
	ctr, ok := o.counters[name]
	if !ok {
		spec := knownInstruments[name]
		var err error
		ctr, err = o.meter.Int64Counter(name,
			metric.WithDescription(spec.description),
			metric.WithUnit(spec.unit),
		)
		if err != nil {
			o.mu.Unlock()
			log.Debug().Err(err).Str("instrument", name).Msg("counter registration failed")
			return
		}
		o.counters[name] = ctr
	}
	o.mu.Unlock()

	ctr.Add(context.Background(), 1, metric.WithAttributes(labelAttrs(labels)...))
}

// ObserveHistogram records one observation on the named histogram.
func (o *OtelMetrics) ObserveHistogram(name string, value float64, labels map[string]string) {
	if o == nil {
		return
	}
	o.mu.Lock()
	hist, ok := o.histograms[name]
	if !ok {
		spec := knownInstruments[name]
		var err error
		hist, err = o.meter.Float64Histogram(name,
			metric.WithDescription(spec.description),
			metric.WithUnit(spec.unit),
		)
		if err != nil {
			o.mu.Unlock()
			log.Debug().Err(err).Str("instrument", name).Msg("histogram registration failed")
			return
		}
		o.histograms[name] = hist
	}
	o.mu.Unlock()

	hist.Record(context.Background(), value, metric.WithAttributes(labelAttrs(labels)...))
}

func labelAttrs(labels map[string]string) []attribute.KeyValue {
	if len(labels) == 0 {
		return nil
	}
	attrs := make([]attribute.KeyValue, 0, len(labels))
	for k, v := range labels {
		attrs = append(attrs, attribute.String(k, v))
	}
	return attrs
}

// MockMetrics is an in-memory metrics sink for tests.
type MockMetrics struct {
	mu       sync.Mutex
	Counters map[string]int
	Hists    map[string][]float64
	Labels   map[string][]map[string]string
}

func NewMockMetrics() *MockMetrics {
	return &MockMetrics{
		Counters: map[string]int{},
		Hists:    map[string][]float64{},
		Labels:   map[string][]map[string]string{},
	}
}

func (m *MockMetrics) IncCounter(name string, labels map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Counters[name]++
	m.Labels[name] = append(m.Labels[name], cloneLabels(labels))
}

func (m *MockMetrics) ObserveHistogram(name string, value float64, labels map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Hists[name] = append(m.Hists[name], value)
	m.Labels[name] = append(m.Labels[name], cloneLabels(labels))
}

func cloneLabels(in map[string]string) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
