package vectorstore

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/anastasianlp/georgian-rag/internal/domain"
)

type memoryPoint struct {
	doc    domain.Document
	vector []float32
}

// Memory is an in-process Store, useful for tests and local development
// without a running Qdrant instance.
type Memory struct {
	mu     sync.RWMutex
	points map[string]memoryPoint
	order  []string
}

// NewMemory constructs an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{points: make(map[string]memoryPoint)}
}

// Seed inserts or overwrites a point, for test setup.
func (m *Memory) Seed(id string, vector []float32, payload domain.Payload) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.points[id]; !exists {
		m.order = append(m.order, id)
	}
	m.points[id] = memoryPoint{doc: domain.Document{ID: id, Payload: payload}, vector: vector}
}

func (m *Memory) Search(_ context.Context, vector []float32, filter *domain.Filter, limit int, withPayload bool) ([]Hit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	type scored struct {
		id    string
		score float64
	}
	var candidates []scored
	for _, id := range m.order {
		pt := m.points[id]
		if !matchesFilter(id, pt.doc.Payload, filter) {
			continue
		}
		candidates = append(candidates, scored{id: id, score: cosine(vector, pt.vector)})
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].score > candidates[j].score })
	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}
	hits := make([]Hit, 0, len(candidates))
	for _, c := range candidates {
		var payload domain.Payload
		if withPayload {
			payload = m.points[c.id].doc.Payload
		}
		hits = append(hits, Hit{ID: c.id, Score: c.score, Payload: payload})
	}
	return hits, nil
}

func (m *Memory) Retrieve(_ context.Context, ids []string) ([]domain.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	docs := make([]domain.Document, 0, len(ids))
	for _, id := range ids {
		if pt, ok := m.points[id]; ok {
			docs = append(docs, pt.doc)
		}
	}
	return docs, nil
}

func (m *Memory) Scroll(_ context.Context, filter *domain.Filter, limit int, offset string) ([]domain.Document, string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	start := 0
	if offset != "" {
		for i, id := range m.order {
			if id == offset {
				start = i + 1
				break
			}
		}
	}
	var docs []domain.Document
	next := ""
	for i := start; i < len(m.order); i++ {
		id := m.order[i]
		pt := m.points[id]
		if !matchesFilter(id, pt.doc.Payload, filter) {
			continue
		}
		if limit > 0 && len(docs) >= limit {
			next = docs[len(docs)-1].ID
			break
		}
		docs = append(docs, pt.doc)
	}
	return docs, next, nil
}

func (m *Memory) SetPayload(_ context.Context, ids []string, payload domain.Payload) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range ids {
		pt, ok := m.points[id]
		if !ok {
			continue
		}
		merged := pt.doc.Payload.Clone()
		if merged == nil {
			merged = domain.Payload{}
		}
		for k, v := range payload {
			merged[k] = v
		}
		pt.doc.Payload = merged
		m.points[id] = pt
	}
	return nil
}

func matchesFilter(id string, payload domain.Payload, f *domain.Filter) bool {
	if f == nil {
		return true
	}
	switch f.Op {
	case domain.FilterOpAnd:
		for _, child := range f.Children {
			if !matchesFilter(id, payload, &child) {
				return false
			}
		}
		return true
	case domain.FilterOpOr:
		for _, child := range f.Children {
			if matchesFilter(id, payload, &child) {
				return true
			}
		}
		return len(f.Children) == 0
	case domain.FilterOpEquals:
		return payload.String(f.Field) == f.Value || boolString(payload.Bool(f.Field)) == f.Value
	case domain.FilterOpMatchAny:
		v := payload.String(f.Field)
		for _, candidate := range f.Values {
			if v == candidate {
				return true
			}
		}
		for _, tag := range payload.StringSlice(f.Field) {
			for _, candidate := range f.Values {
				if tag == candidate {
					return true
				}
			}
		}
		return false
	case domain.FilterOpHasID:
		for _, candidate := range f.Values {
			if candidate == id {
				return true
			}
		}
		return false
	default:
		return true
	}
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

func dot(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

func cosine(a, b []float32) float64 {
	na, nb := norm(a), norm(b)
	if na == 0 || nb == 0 {
		return 0
	}
	return dot(a, b) / (na * nb)
}
