// Package vectorstore defines the external vector-store contract
// consumed by the PreFilter, BM25, and Dense engines, plus two
// implementations: a Qdrant-backed adapter for production and an in-memory
// adapter for tests and local development.
package vectorstore

import (
	"context"

	"github.com/anastasianlp/georgian-rag/internal/domain"
)

// Hit is one scored result from Search.
type Hit struct {
	ID      string
	Score   float64
	Payload domain.Payload
}

// Store is the trimmed external vector-store contract: search,
// retrieve, scroll, and set_payload, plus the AND/OR/MatchAny/HasID filter
// grammar expressed via domain.Filter.
type Store interface {
	// Search runs a nearest-neighbor query, optionally restricted by filter,
	// returning at most limit hits. withPayload controls whether the
	// payload is attached (the PreFilter Engine requests ids only).
	Search(ctx context.Context, vector []float32, filter *domain.Filter, limit int, withPayload bool) ([]Hit, error)

	// Retrieve fetches documents by id with their payloads.
	Retrieve(ctx context.Context, ids []string) ([]domain.Document, error)

	// Scroll pages through documents matching filter, returning the page
	// and an opaque offset token for the next call ("" when exhausted).
	Scroll(ctx context.Context, filter *domain.Filter, limit int, offset string) ([]domain.Document, string, error)

	// SetPayload overwrites the listed fields on every point id.
	SetPayload(ctx context.Context, ids []string, payload domain.Payload) error
}
