package orchestrator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anastasianlp/georgian-rag/internal/bm25engine"
	"github.com/anastasianlp/georgian-rag/internal/cache"
	"github.com/anastasianlp/georgian-rag/internal/dense"
	"github.com/anastasianlp/georgian-rag/internal/domain"
	"github.com/anastasianlp/georgian-rag/internal/fusion"
	"github.com/anastasianlp/georgian-rag/internal/modelholder"
	"github.com/anastasianlp/georgian-rag/internal/prefilter"
	"github.com/anastasianlp/georgian-rag/internal/vectorstore"
)

type constEncoder struct{ vector []float32 }

func (c constEncoder) Encode(_ context.Context, _ string) ([]float32, error) { return c.vector, nil }
func (c constEncoder) Dimension() int                                        { return len(c.vector) }

func newEngine(store vectorstore.Store, c *cache.Store) *Engine {
	holder := modelholder.New(func(_ context.Context, _ string) (modelholder.Encoder, error) {
		return constEncoder{vector: []float32{1, 0}}, nil
	})
	return New(
		store,
		prefilter.New(store, holder, "default", c),
		bm25engine.New(c),
		dense.New(store, holder, "default", c),
		fusion.New(),
		c,
	)
}

func seedCorpus(store *vectorstore.Memory) {
	store.Seed("svetitskhoveli", []float32{1, 0}, domain.Payload{
		"name":        "Светицховели",
		"description": "Кафедральный собор в Мцхете, одна из главных святынь Грузии.",
		"category":    "cathedral",
		"location":    "Mtskheta, Georgia",
		"language":    "RU",
		"tags":        []string{"svetitskhoveli", "мцхета"},
	})
	store.Seed("narikala", []float32{0.9, 0.1}, domain.Payload{
		"name":        "Narikala Fortress",
		"description": "An ancient fortress overlooking Tbilisi and the Kura river.",
		"category":    "fortress",
		"location":    "Tbilisi, Georgia",
		"language":    "EN",
		"tags":        []string{"narikala", "tbilisi"},
	})
	store.Seed("kazbegi", []float32{0.5, 0.5}, domain.Payload{
		"name":        "Kazbegi",
		"description": "Mountain region in northern Georgia with the Gergeti Trinity Church.",
		"category":    "nature",
		"location":    "Stepantsminda, Georgia",
		"language":    "EN",
		"tags":        []string{"kazbegi", "mountains"},
	})
}

func TestSearchReturnsFusedResults(t *testing.T) {
	store := vectorstore.NewMemory()
	seedCorpus(store)

	e := newEngine(store, cache.New())
	resp, err := e.Search(context.Background(), "tell me about svetitskhoveli", 5)
	require.NoError(t, err)
	require.NotEmpty(t, resp.Results)
	assert.False(t, resp.Performance.DenseOnly)
	assert.NotZero(t, resp.Performance.TotalTime)
}

func TestSearchSameQueryTwiceIsStable(t *testing.T) {
	store := vectorstore.NewMemory()
	seedCorpus(store)

	e := newEngine(store, cache.New())
	first, err := e.Search(context.Background(), "fortress in tbilisi", 5)
	require.NoError(t, err)
	second, err := e.Search(context.Background(), "fortress in tbilisi", 5)
	require.NoError(t, err)

	require.Equal(t, len(first.Results), len(second.Results))
	for i := range first.Results {
		assert.Equal(t, first.Results[i].DocID, second.Results[i].DocID)
	}
}

func TestClearNamespaceDoesNotChangeRanking(t *testing.T) {
	store := vectorstore.NewMemory()
	seedCorpus(store)

	c := cache.New()
	e := newEngine(store, c)
	ctx := context.Background()

	warm, err := e.Search(ctx, "beautiful mountains", 5)
	require.NoError(t, err)

	c.ClearNamespace(ctx, cache.NSPrefilter)
	c.ClearNamespace(ctx, cache.NSDenseResults)
	c.ClearNamespace(ctx, cache.NSBM25Results)
	c.ClearNamespace(ctx, cache.NSHybridFinal)

	cold, err := e.Search(ctx, "beautiful mountains", 5)
	require.NoError(t, err)

	require.Equal(t, len(warm.Results), len(cold.Results))
	for i := range warm.Results {
		assert.Equal(t, warm.Results[i].DocID, cold.Results[i].DocID)
	}
}

func TestEmptyCorpusFallsThroughWithoutError(t *testing.T) {
	store := vectorstore.NewMemory()

	e := newEngine(store, cache.New())
	resp, err := e.Search(context.Background(), "anything at all", 5)
	require.NoError(t, err)
	assert.Empty(t, resp.Results)
	assert.True(t, resp.Performance.DenseOnly)
}

func TestHealthy(t *testing.T) {
	store := vectorstore.NewMemory()
	e := newEngine(store, cache.New())
	assert.True(t, e.Healthy(context.Background()))
}
