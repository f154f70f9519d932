// Package dense implements the Dense Engine: nearest-
// neighbor retrieval whose result cache is keyed independently of the
// candidate set, so a cache hit for one candidate set can serve another by
// local id intersection.
package dense

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/anastasianlp/georgian-rag/internal/cache"
	"github.com/anastasianlp/georgian-rag/internal/domain"
	"github.com/anastasianlp/georgian-rag/internal/modelholder"
	"github.com/anastasianlp/georgian-rag/internal/vectorstore"
)

// similarityFloor discards raw similarity at or below this value.
const similarityFloor = 0.05

// resultTTL bounds how long a query-vector's result set is cached; dense
// results drift only as the corpus is re-enriched, so an hour is
// conservative but keeps stale enrichment from lingering indefinitely.
const resultTTL = time.Hour

// Engine runs nearest-neighbor scoring over the vector store.
type Engine struct {
	store     vectorstore.Store
	holder    *modelholder.Holder
	modelName string
	cache     *cache.Store
}

// New constructs an Engine.
func New(store vectorstore.Store, holder *modelholder.Holder, modelName string, c *cache.Store) *Engine {
	return &Engine{store: store, holder: holder, modelName: modelName, cache: c}
}

type cachedSearch struct {
	Results []domain.SearchResult
}

// Search encodes denseQuery and scores. candidateIDs, when non-empty,
// restricts the search via HasIdCondition and tags results "dense_focused";
// otherwise metadataFilter (which may be nil) is used and results are
// tagged plain "dense".
func (e *Engine) Search(ctx context.Context, denseQuery string, candidateIDs []string, metadataFilter *domain.Filter, topK int) ([]domain.SearchResult, error) {
	if topK <= 0 {
		topK = 5
	}
	normalized := strings.ToLower(strings.TrimSpace(denseQuery))
	key := cache.HashKey(normalized, fmt.Sprint(topK), filterHash(metadataFilter))

	focused := len(candidateIDs) > 0

	var cached cachedSearch
	if e.cache != nil && e.cache.Get(ctx, cache.NSDenseResults, key, &cached) {
		return tagSource(intersect(cached.Results, candidateIDs, topK), focused), nil
	}

	vector, err := e.holder.MustEncode(ctx, e.modelName, denseQuery)
	if err != nil {
		return nil, fmt.Errorf("dense: encode query: %w", err)
	}

	searchFilter := metadataFilter
	if focused {
		searchFilter = &domain.Filter{Op: domain.FilterOpHasID, Values: candidateIDs}
	}

	hits, err := e.store.Search(ctx, vector, searchFilter, topK*2, true)
	if err != nil {
		return nil, fmt.Errorf("dense: search: %w", err)
	}

	results := make([]domain.SearchResult, 0, len(hits))
	for _, h := range hits {
		if h.Score <= similarityFloor {
			continue
		}
		results = append(results, domain.SearchResult{DocID: h.ID, Score: h.Score, Payload: h.Payload})
	}

	if e.cache != nil {
		if err := e.cache.Set(ctx, cache.NSDenseResults, key, cachedSearch{Results: results}, resultTTL); err != nil {
			log.Debug().Err(err).Msg("dense_cache_set_error")
		}
	}

	return tagSource(intersect(results, candidateIDs, topK), focused), nil
}

// intersect restricts results to candidateIDs when supplied, preserving
// the score-descending order the vector store already returned them in,
// then truncates to topK.
func intersect(results []domain.SearchResult, candidateIDs []string, topK int) []domain.SearchResult {
	if len(candidateIDs) == 0 {
		if len(results) > topK {
			return results[:topK]
		}
		return results
	}
	allowed := make(map[string]bool, len(candidateIDs))
	for _, id := range candidateIDs {
		allowed[id] = true
	}
	out := make([]domain.SearchResult, 0, len(results))
	for _, r := range results {
		if allowed[r.DocID] {
			out = append(out, r)
		}
	}
	if len(out) > topK {
		out = out[:topK]
	}
	return out
}

func tagSource(results []domain.SearchResult, focused bool) []domain.SearchResult {
	source := "dense"
	if focused {
		source = "dense_focused"
	}
	tagged := make([]domain.SearchResult, len(results))
	for i, r := range results {
		r.Source = source
		tagged[i] = r
	}
	return tagged
}

func filterHash(f *domain.Filter) string {
	if f == nil {
		return ""
	}
	return cache.HashKey(string(f.Op), f.Field, f.Value, strings.Join(f.Values, ","))
}
