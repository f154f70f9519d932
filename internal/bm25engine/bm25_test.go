package bm25engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/anastasianlp/georgian-rag/internal/cache"
	"github.com/anastasianlp/georgian-rag/internal/domain"
)

func doc(id, name, description string) domain.Document {
	return domain.Document{ID: id, Payload: domain.Payload{
		domain.FieldName:        name,
		domain.FieldDescription: description,
	}}
}

func TestSmallCandidateSetUsesKeywordHitRatio(t *testing.T) {
	e := New(cache.New())
	candidates := []domain.Document{
		doc("a", "Svetitskhoveli Cathedral", "a historic cathedral in Mtskheta"),
		doc("b", "Batumi Boulevard", "a seaside promenade"),
	}
	results := e.SearchWithinCandidates(context.Background(), []string{"cathedral", "mtskheta"}, candidates, "en", 5, "q1")
	require.Len(t, results, 1)
	require.Equal(t, "a", results[0].DocID)
	require.Equal(t, "bm25_focused", results[0].Source)
}

func TestBM25ScoresFavorTermFrequencyAndFieldWeight(t *testing.T) {
	e := New(cache.New())
	var candidates []domain.Document
	for i := 0; i < 25; i++ {
		candidates = append(candidates, doc(string(rune('a'+i)), "generic place", "a generic description with nothing special"))
	}
	candidates = append(candidates, doc("target", "mtskheta mtskheta", "church near mtskheta in georgia"))

	results := e.SearchWithinCandidates(context.Background(), []string{"mtskheta"}, candidates, "en", 5, "q2")
	require.NotEmpty(t, results)
	require.Equal(t, "target", results[0].DocID)
}

func TestResultsAreCachedBySemanticQuery(t *testing.T) {
	c := cache.New()
	e := New(c)
	candidates := []domain.Document{doc("a", "Tbilisi Old Town", "the historic core of the city")}
	first := e.SearchWithinCandidates(context.Background(), []string{"tbilisi"}, candidates, "en", 5, "shared-key")

	otherCandidates := []domain.Document{doc("b", "Batumi", "a seaside city")}
	second := e.SearchWithinCandidates(context.Background(), []string{"tbilisi"}, otherCandidates, "en", 5, "shared-key")

	require.NotEmpty(t, first)
	require.Empty(t, second, "cached result filtered to a disjoint candidate set should be empty")

	stats := c.Stats(cache.NSBM25Results)
	require.Equal(t, int64(1), stats.Sets)
	require.Equal(t, int64(1), stats.Hits)
}
