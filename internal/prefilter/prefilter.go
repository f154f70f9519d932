// Package prefilter implements the PreFilter Engine: a
// metadata-filtered vector search that narrows the corpus to a bounded
// candidate-id set before BM25/Dense scoring run within it. Candidate sets
// are memoized in the cache store.
package prefilter

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

// DefaultMax is the default candidate bound.
const DefaultMax = 200

// Result is get_candidates' return shape.
type Result struct {
	IDs          []string
	StrategyUsed string
	SearchTime   time.Duration
	FallbackUsed bool
}

// Engine narrows the corpus to a bounded candidate set.
type Engine struct {
	store     vectorstore.Store
	holder    *modelholder.Holder
	modelName string
	cache     *cache.Store
	clock     func() time.Time
}

// New constructs an Engine. store performs the filtered vector search,
// holder/modelName encode the semantic query, cache memoizes candidate
// sets.
func New(store vectorstore.Store, holder *modelholder.Holder, modelName string, c *cache.Store) *Engine {
	return &Engine{store: store, holder: holder, modelName: modelName, cache: c, clock: time.Now}
}

// GetCandidates runs the filtered pre-selection with its relaxation
// ladder.
func (e *Engine) GetCandidates(ctx context.Context, analysis domain.QueryAnalysis, max int) (Result, error) {
	if max <= 0 {
		max = DefaultMax
	}
	start := e.clock()

	cacheKey := e.cacheKey(analysis.OriginalQuery, string(analysis.FilterStrategy), max, analysis.Filters)
	var cached Result
	if e.cache != nil && e.cache.Get(ctx, cache.NSPrefilter, cacheKey, &cached) {
		return cached, nil
	}

	vector, err := e.holder.MustEncode(ctx, e.modelName, analysis.SemanticQuery)
	if err != nil {
		return Result{}, fmt.Errorf("prefilter: encode semantic query: %w", err)
	}

	strategy := analysis.FilterStrategy
	if strategy == "" {
		strategy = domain.StrategyLoose
	}
	filter := buildFilterTree(analysis.Filters, strategy)

	ids, err := e.search(ctx, vector, filter, max)
	if err != nil {
		return Result{}, err
	}

	strategyUsed := string(strategy)
	fallbackUsed := false
	if len(ids) < 1 && strategy != domain.StrategyLoose {
		looseFilter := buildFilterTree(analysis.Filters, domain.StrategyLoose)
		ids, err = e.search(ctx, vector, looseFilter, max)
		if err != nil {
			return Result{}, err
		}
		strategyUsed, fallbackUsed = "loose_fallback", true
	}
	if len(ids) < 2 && (fallbackUsed || len(ids) == 0) {
		ids, err = e.search(ctx, vector, nil, max)
		if err != nil {
			return Result{}, err
		}
		strategyUsed, fallbackUsed = "no_filters_fallback", true
	}

	result := Result{
		IDs:          dedupe(ids),
		StrategyUsed: strategyUsed,
		SearchTime:   e.clock().Sub(start),
		FallbackUsed: fallbackUsed,
	}

	if e.cache != nil {
		if err := e.cache.Set(ctx, cache.NSPrefilter, cacheKey, result, 10*time.Minute); err != nil {
			log.Debug().Err(err).Msg("prefilter_cache_set_error")
		}
	}
	return result, nil
}

func (e *Engine) search(ctx context.Context, vector []float32, filter *domain.Filter, max int) ([]string, error) {
	hits, err := e.store.Search(ctx, vector, filter, max, false)
	if err != nil {
		return nil, fmt.Errorf("prefilter: search: %w", err)
	}
	ids := make([]string, 0, len(hits))
	for _, h := range hits {
		ids = append(ids, h.ID)
	}
	return ids, nil
}

func (e *Engine) cacheKey(query, strategy string, max int, filters []domain.Filter) string {
	return cache.HashKey(query, strategy, fmt.Sprint(max), stringifyFilters(filters))
}

func stringifyFilters(filters []domain.Filter) string {
	var b strings.Builder
	for _, f := range filters {
		fmt.Fprintf(&b, "%s:%s:%s:%v", f.Op, f.Field, f.Value, f.Values)
		if len(f.Children) > 0 {
			fmt.Fprintf(&b, "[%s]", stringifyFilters(f.Children))
		}
		b.WriteString("|")
	}
	return b.String()
}

// buildFilterTree reduces analysis.Filters to the subset strategy allows,
// then combines the surviving clauses with AND; the entity clause is
// already an OR over name/tags variants by construction.
func buildFilterTree(filters []domain.Filter, strategy domain.FilterStrategy) *domain.Filter {
	reduced := reduceFilters(filters, strategy)
	if len(reduced) == 0 {
		return nil
	}
	if len(reduced) == 1 {
		return &reduced[0]
	}
	return &domain.Filter{Op: domain.FilterOpAnd, Children: reduced}
}

// reduceFilters implements the strict/moderate/loose relaxation ladder:
// strict keeps everything; moderate keeps the text clause plus one boolean;
// loose keeps only the text clause. The entity text clause (an OR over
// name/tags variants, or a bare match_any) is the highest-priority filter
// since it anchors the query to a named place; boolean category clauses are
// dropped first as strategy relaxes.
func reduceFilters(filters []domain.Filter, strategy domain.FilterStrategy) []domain.Filter {
	if strategy == domain.StrategyStrict {
		return filters
	}
	var text []domain.Filter
	var booleans []domain.Filter
	for _, f := range filters {
		if f.Op == domain.FilterOpMatchAny || f.Op == domain.FilterOpOr {
			text = append(text, f)
		} else {
			booleans = append(booleans, f)
		}
	}
	switch strategy {
	case domain.StrategyModerate:
		out := append([]domain.Filter{}, text...)
		if len(booleans) > 0 {
			out = append(out, booleans[0])
		}
		return out
	default: // loose
		return text
	}
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
