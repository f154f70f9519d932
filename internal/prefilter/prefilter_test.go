package prefilter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/anastasianlp/georgian-rag/internal/cache"
	"github.com/anastasianlp/georgian-rag/internal/domain"
	"github.com/anastasianlp/georgian-rag/internal/modelholder"
	"github.com/anastasianlp/georgian-rag/internal/vectorstore"
)

type fakeEncoder struct{}

func (fakeEncoder) Encode(_ context.Context, text string) ([]float32, error) {
	return []float32{float64ToF32(len(text)), 1}, nil
}
func (fakeEncoder) Dimension() int { return 2 }

func float64ToF32(n int) float32 { return float32(n) }

func newHolder() *modelholder.Holder {
	return modelholder.New(func(_ context.Context, _ string) (modelholder.Encoder, error) {
		return fakeEncoder{}, nil
	})
}

func TestGetCandidatesRespectsMaxAndDedupes(t *testing.T) {
	store := vectorstore.NewMemory()
	store.Seed("a", []float32{1, 1}, domain.Payload{"name": "svetitskhoveli"})
	store.Seed("b", []float32{1, 1}, domain.Payload{"name": "tbilisi"})
	store.Seed("c", []float32{1, 1}, domain.Payload{"name": "batumi"})

	e := New(store, newHolder(), "default", cache.New())
	analysis := domain.QueryAnalysis{
		OriginalQuery: "places",
		SemanticQuery: "places",
		FilterStrategy: domain.StrategyLoose,
	}
	res, err := e.GetCandidates(context.Background(), analysis, 2)
	require.NoError(t, err)
	require.LessOrEqual(t, len(res.IDs), 2)

	seen := make(map[string]bool)
	for _, id := range res.IDs {
		require.False(t, seen[id], "duplicate id returned")
		seen[id] = true
	}
}

func TestGetCandidatesFallsBackWhenStrictFilterMatchesNothing(t *testing.T) {
	store := vectorstore.NewMemory()
	store.Seed("a", []float32{1, 1}, domain.Payload{"name": "tbilisi"})

	e := New(store, newHolder(), "default", cache.New())
	analysis := domain.QueryAnalysis{
		OriginalQuery: "nonexistent place xyz",
		SemanticQuery: "nonexistent place xyz",
		FilterStrategy: domain.StrategyStrict,
		Filters: []domain.Filter{
			{Op: domain.FilterOpMatchAny, Field: "name", Values: []string{"nonexistent-place-xyz"}},
		},
	}
	res, err := e.GetCandidates(context.Background(), analysis, 10)
	require.NoError(t, err)
	require.True(t, res.FallbackUsed)
	require.NotEmpty(t, res.IDs)
}

func TestGetCandidatesCachesResult(t *testing.T) {
	store := vectorstore.NewMemory()
	store.Seed("a", []float32{1, 1}, domain.Payload{"name": "tbilisi"})

	c := cache.New()
	e := New(store, newHolder(), "default", c)
	analysis := domain.QueryAnalysis{
		OriginalQuery:  "tbilisi",
		SemanticQuery:  "tbilisi",
		FilterStrategy: domain.StrategyLoose,
	}
	_, err := e.GetCandidates(context.Background(), analysis, 10)
	require.NoError(t, err)
	require.Equal(t, int64(1), c.Stats(cache.NSPrefilter).Sets)

	_, err = e.GetCandidates(context.Background(), analysis, 10)
	require.NoError(t, err)
	require.Equal(t, int64(1), c.Stats(cache.NSPrefilter).Hits)
}
