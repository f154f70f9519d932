package dense

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/anastasianlp/georgian-rag/internal/cache"
	"github.com/anastasianlp/georgian-rag/internal/domain"
	"github.com/anastasianlp/georgian-rag/internal/modelholder"
	"github.com/anastasianlp/georgian-rag/internal/vectorstore"
)

type constEncoder struct{ vector []float32 }

func (c constEncoder) Encode(_ context.Context, _ string) ([]float32, error) { return c.vector, nil }
func (c constEncoder) Dimension() int                                        { return len(c.vector) }

func newHolderFor(vector []float32) *modelholder.Holder {
	return modelholder.New(func(_ context.Context, _ string) (modelholder.Encoder, error) {
		return constEncoder{vector: vector}, nil
	})
}

func TestSearchDiscardsLowSimilarity(t *testing.T) {
	store := vectorstore.NewMemory()
	store.Seed("a", []float32{1, 0}, domain.Payload{"name": "Svetitskhoveli"})
	store.Seed("b", []float32{0, 1}, domain.Payload{"name": "unrelated"})

	e := New(store, newHolderFor([]float32{1, 0}), "default", cache.New())
	results, err := e.Search(context.Background(), "svetitskhoveli cathedral", nil, nil, 5)
	require.NoError(t, err)
	for _, r := range results {
		require.NotEqual(t, "b", r.DocID)
	}
}

func TestSearchFocusedOnCandidateIDsTagsSource(t *testing.T) {
	store := vectorstore.NewMemory()
	store.Seed("a", []float32{1, 0}, domain.Payload{"name": "Svetitskhoveli"})
	store.Seed("b", []float32{1, 0}, domain.Payload{"name": "other"})

	e := New(store, newHolderFor([]float32{1, 0}), "default", cache.New())
	results, err := e.Search(context.Background(), "svetitskhoveli", []string{"a"}, nil, 5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "a", results[0].DocID)
	require.Equal(t, "dense_focused", results[0].Source)
}

func TestSearchCacheServesDifferentCandidateSets(t *testing.T) {
	store := vectorstore.NewMemory()
	store.Seed("a", []float32{1, 0}, domain.Payload{"name": "Svetitskhoveli"})
	store.Seed("b", []float32{1, 0}, domain.Payload{"name": "Tbilisi"})

	c := cache.New()
	e := New(store, newHolderFor([]float32{1, 0}), "default", c)

	_, err := e.Search(context.Background(), "places", nil, nil, 5)
	require.NoError(t, err)
	require.Equal(t, int64(1), c.Stats(cache.NSDenseResults).Sets)

	results, err := e.Search(context.Background(), "places", []string{"b"}, nil, 5)
	require.NoError(t, err)
	require.Equal(t, int64(1), c.Stats(cache.NSDenseResults).Hits)
	require.Len(t, results, 1)
	require.Equal(t, "b", results[0].DocID)
}
