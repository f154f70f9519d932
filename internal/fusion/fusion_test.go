package fusion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anastasianlp/georgian-rag/internal/domain"
)

func result(id string, score float64, source string, payload domain.Payload) domain.SearchResult {
	return domain.SearchResult{DocID: id, Score: score, Source: source, Payload: payload}
}

func TestCleanFusionChosenForFocusedSources(t *testing.T) {
	e := New()
	bySource := map[string][]domain.SearchResult{
		"bm25_focused": {
			result("a", 5.0, "bm25_focused", nil),
			result("b", 3.0, "bm25_focused", nil),
		},
		"dense_focused": {
			result("a", 0.9, "dense_focused", nil),
			result("c", 0.7, "dense_focused", nil),
		},
	}

	out := e.Fuse(bySource, domain.QueryAnalysis{Language: "en"}, 10)
	require.NotEmpty(t, out)
	for _, r := range out {
		require.NotNil(t, r.Fusion)
		assert.Equal(t, "clean", r.Fusion.FusionType)
	}
}

func TestLegacyFusionForMixedSources(t *testing.T) {
	e := New()
	bySource := map[string][]domain.SearchResult{
		"bm25": {
			result("a", 5.0, "bm25", nil),
		},
		"dense": {
			result("b", 0.9, "dense", nil),
		},
	}

	out := e.Fuse(bySource, domain.QueryAnalysis{Language: "en"}, 10)
	require.NotEmpty(t, out)
	assert.Equal(t, "legacy", out[0].Fusion.FusionType)
}

func TestPrefilterInfoForcesCleanFusion(t *testing.T) {
	e := New()
	bySource := map[string][]domain.SearchResult{
		PrefilterInfoKey: nil,
		"bm25": {
			result("a", 5.0, "bm25", nil),
			result("b", 1.0, "bm25", nil),
		},
	}

	out := e.Fuse(bySource, domain.QueryAnalysis{Language: "en"}, 10)
	require.NotEmpty(t, out)
	assert.Equal(t, "clean", out[0].Fusion.FusionType)
}

func TestMultiSourceDocOutranksSingleSource(t *testing.T) {
	e := New()
	bySource := map[string][]domain.SearchResult{
		"bm25_focused": {
			result("both", 5.0, "bm25_focused", nil),
			result("bmOnly", 4.9, "bm25_focused", nil),
		},
		"dense_focused": {
			result("both", 0.9, "dense_focused", nil),
			result("denseOnly", 0.89, "dense_focused", nil),
		},
	}

	out := e.Fuse(bySource, domain.QueryAnalysis{Language: "en"}, 10)
	require.NotEmpty(t, out)
	assert.Equal(t, "both", out[0].DocID)
	// ranked in top-3 of two sources and rank-1 in both: the multi-source
	// and first-place boosts stack
	assert.Greater(t, out[0].Fusion.BoostFactor, 1.5)
}

func TestLanguageMatchBoost(t *testing.T) {
	e := New()
	ruPayload := domain.Payload{domain.FieldLanguage: "RU"}
	enPayload := domain.Payload{domain.FieldLanguage: "EN"}

	// each doc is rank 1 in its own source, so only the language boost
	// differs between them
	bySource := map[string][]domain.SearchResult{
		PrefilterInfoKey: nil,
		"dense_focused": {
			result("en-doc", 0.9, "dense_focused", enPayload),
		},
		"bm25_focused": {
			result("ru-doc", 0.9, "bm25_focused", ruPayload),
		},
	}

	out := e.Fuse(bySource, domain.QueryAnalysis{Language: "ru"}, 10)
	require.Len(t, out, 2)

	var ruBoost, enBoost float64
	for _, r := range out {
		if r.DocID == "ru-doc" {
			ruBoost = r.Fusion.BoostFactor
		} else {
			enBoost = r.Fusion.BoostFactor
		}
	}
	assert.InDelta(t, ruBoost/enBoost, 1.2, 1e-9)
}

func TestFusionMonotonicity(t *testing.T) {
	// a document strictly ahead of another on every source must score
	// strictly higher
	e := New()
	bySource := map[string][]domain.SearchResult{
		"bm25_focused": {
			result("winner", 6.0, "bm25_focused", nil),
			result("loser", 2.0, "bm25_focused", nil),
		},
		"dense_focused": {
			result("winner", 0.95, "dense_focused", nil),
			result("loser", 0.4, "dense_focused", nil),
		},
	}

	out := e.Fuse(bySource, domain.QueryAnalysis{Language: "en"}, 10)
	require.Len(t, out, 2)
	assert.Equal(t, "winner", out[0].DocID)
	assert.Greater(t, out[0].Score, out[1].Score)
}

func TestDeterministicOrderAcrossRuns(t *testing.T) {
	e := New()
	bySource := func() map[string][]domain.SearchResult {
		return map[string][]domain.SearchResult{
			"bm25_focused": {
				result("a", 3.0, "bm25_focused", nil),
				result("b", 2.0, "bm25_focused", nil),
				result("c", 1.0, "bm25_focused", nil),
			},
			"dense_focused": {
				result("c", 0.9, "dense_focused", nil),
				result("b", 0.8, "dense_focused", nil),
				result("a", 0.7, "dense_focused", nil),
			},
		}
	}

	first := e.Fuse(bySource(), domain.QueryAnalysis{Language: "en"}, 10)
	second := e.Fuse(bySource(), domain.QueryAnalysis{Language: "en"}, 10)
	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].DocID, second[i].DocID)
	}
}

func TestTopKTruncation(t *testing.T) {
	e := New()
	bySource := map[string][]domain.SearchResult{
		"bm25_focused": {
			result("a", 5.0, "bm25_focused", nil),
			result("b", 4.0, "bm25_focused", nil),
			result("c", 3.0, "bm25_focused", nil),
		},
	}

	out := e.Fuse(bySource, domain.QueryAnalysis{Language: "en"}, 2)
	assert.Len(t, out, 2)
}

func TestAllEqualDenseScoresPinnedMidBand(t *testing.T) {
	normalized := normalizeFocused(map[string][]domain.SearchResult{
		"dense_focused": {
			result("a", 0.5, "dense_focused", nil),
			result("b", 0.5, "dense_focused", nil),
		},
	})
	for _, r := range normalized["dense_focused"] {
		assert.InDelta(t, 0.8, r.Score, 1e-9)
	}
}

func TestBM25NormalizationBand(t *testing.T) {
	normalized := normalizeFocused(map[string][]domain.SearchResult{
		"bm25_focused": {
			result("top", 10.0, "bm25_focused", nil),
			result("mid", 5.0, "bm25_focused", nil),
			result("zero", 0.0, "bm25_focused", nil),
		},
	})
	rs := normalized["bm25_focused"]
	assert.InDelta(t, 1.0, rs[0].Score, 1e-9)
	assert.InDelta(t, 0.6, rs[1].Score, 1e-9)
	assert.Zero(t, rs[2].Score)
}
