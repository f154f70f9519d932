// Package orchestrator sequences the retrieval pipeline: query analysis,
// candidate pre-selection, parallel BM25 and dense scoring over the
// candidate set, and rank fusion. When the prefilter comes back empty the
// pipeline degrades to a dense-only search over the full corpus instead of
// failing the request.
package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/anastasianlp/georgian-rag/internal/bm25engine"
	"github.com/anastasianlp/georgian-rag/internal/cache"
	"github.com/anastasianlp/georgian-rag/internal/dense"
	"github.com/anastasianlp/georgian-rag/internal/domain"
	"github.com/anastasianlp/georgian-rag/internal/fusion"
	"github.com/anastasianlp/georgian-rag/internal/prefilter"
	"github.com/anastasianlp/georgian-rag/internal/query"
	"github.com/anastasianlp/georgian-rag/internal/vectorstore"
)

// Performance records per-stage wall clock and the strategy the run ended
// up on, for the response's diagnostics block.
type Performance struct {
	AnalysisTime  time.Duration `json:"analysis_time"`
	PrefilterTime time.Duration `json:"prefilter_time"`
	ScoringTime   time.Duration `json:"scoring_time"`
	FusionTime    time.Duration `json:"fusion_time"`
	TotalTime     time.Duration `json:"total_time"`
	Strategy      string        `json:"strategy"`
	FallbackUsed  bool          `json:"fallback_used"`
	DenseOnly     bool          `json:"dense_only"`
}

// CacheInfo surfaces hit/miss counters for the retrieval namespaces.
type CacheInfo struct {
	Prefilter cache.Stats `json:"prefilter"`
	Dense     cache.Stats `json:"dense"`
	BM25      cache.Stats `json:"bm25"`
	Hybrid    cache.Stats `json:"hybrid"`
}

// Response is the orchestrator's full return shape.
type Response struct {
	Results     []domain.SearchResult
	Analysis    domain.QueryAnalysis
	Performance Performance
	CacheInfo   CacheInfo
}

// Engine wires the retrieval stages together.
type Engine struct {
	store     vectorstore.Store
	prefilter *prefilter.Engine
	bm25      *bm25engine.Engine
	dense     *dense.Engine
	fusion    *fusion.Engine
	cache     *cache.Store

	maxCandidates int
	clock         func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithMaxCandidates bounds the prefilter candidate set.
func WithMaxCandidates(n int) Option {
	return func(e *Engine) { e.maxCandidates = n }
}

// WithClock substitutes the time source in tests.
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) { e.clock = clock }
}

// New assembles the pipeline from its stages.
func New(store vectorstore.Store, pf *prefilter.Engine, bm *bm25engine.Engine, de *dense.Engine, fu *fusion.Engine, c *cache.Store, opts ...Option) *Engine {
	e := &Engine{
		store:         store,
		prefilter:     pf,
		bm25:          bm,
		dense:         de,
		fusion:        fu,
		cache:         c,
		maxCandidates: prefilter.DefaultMax,
		clock:         time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Search runs the full pipeline for one query and returns the fused top-K
// with per-stage timings.
func (e *Engine) Search(ctx context.Context, searchQuery string, topK int) (Response, error) {
	start := e.clock()
	var perf Performance

	analysis := query.Analyze(searchQuery)
	perf.AnalysisTime = e.clock().Sub(start)

	finalKey := cache.HashKey(searchQuery, fmt.Sprintf("%d", topK))
	var cachedFinal []domain.SearchResult
	if e.cache != nil && e.cache.Get(ctx, cache.NSHybridFinal, finalKey, &cachedFinal) {
		perf.TotalTime = e.clock().Sub(start)
		return Response{
			Results:     cachedFinal,
			Analysis:    analysis,
			Performance: perf,
			CacheInfo:   e.cacheInfo(),
		}, nil
	}

	prefilterStart := e.clock()
	candidates, err := e.prefilter.GetCandidates(ctx, analysis, e.maxCandidates)
	perf.PrefilterTime = e.clock().Sub(prefilterStart)
	if err != nil {
		log.Warn().Err(err).Msg("prefilter failed, degrading to dense-only search")
	}
	perf.Strategy = candidates.StrategyUsed
	perf.FallbackUsed = candidates.FallbackUsed

	var results []domain.SearchResult
	if err != nil || len(candidates.IDs) == 0 {
		results, err = e.denseOnly(ctx, analysis, topK, &perf)
		if err != nil {
			return Response{Analysis: analysis, Performance: perf, CacheInfo: e.cacheInfo()}, err
		}
	} else {
		results, err = e.focusedSearch(ctx, analysis, candidates.IDs, topK, &perf)
		if err != nil {
			return Response{Analysis: analysis, Performance: perf, CacheInfo: e.cacheInfo()}, err
		}
	}

	if e.cache != nil && len(results) > 0 {
		if err := e.cache.Set(ctx, cache.NSHybridFinal, finalKey, results, time.Hour); err != nil {
			log.Debug().Err(err).Msg("hybrid final cache write failed")
		}
	}

	perf.TotalTime = e.clock().Sub(start)
	log.Info().
		Str("strategy", perf.Strategy).
		Bool("dense_only", perf.DenseOnly).
		Dur("total", perf.TotalTime).
		Int("results", len(results)).
		Msg("hybrid search complete")

	return Response{
		Results:     results,
		Analysis:    analysis,
		Performance: perf,
		CacheInfo:   e.cacheInfo(),
	}, nil
}

// focusedSearch retrieves the candidate payloads, scores them with BM25 and
// dense in parallel under one shared deadline, and fuses the rankings.
// Cancelling ctx cancels both children.
func (e *Engine) focusedSearch(ctx context.Context, analysis domain.QueryAnalysis, candidateIDs []string, topK int, perf *Performance) ([]domain.SearchResult, error) {
	docs, err := e.store.Retrieve(ctx, candidateIDs)
	if err != nil {
		return nil, err
	}

	scoringStart := e.clock()
	var bm25Results, denseResults []domain.SearchResult

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		bm25Results = e.bm25.SearchWithinCandidates(gctx, analysis.Keywords, docs, analysis.Language, topK*2, analysis.SemanticQuery)
		return nil
	})
	g.Go(func() error {
		var denseErr error
		denseResults, denseErr = e.dense.Search(gctx, analysis.DenseQuery, candidateIDs, nil, topK*2)
		if denseErr != nil {
			// one failed scorer is not fatal: fusion runs on what arrived
			log.Warn().Err(denseErr).Msg("dense scoring failed within candidate set")
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	perf.ScoringTime = e.clock().Sub(scoringStart)

	fusionStart := e.clock()
	bySource := map[string][]domain.SearchResult{
		fusion.PrefilterInfoKey: nil,
	}
	if len(bm25Results) > 0 {
		bySource["bm25_focused"] = bm25Results
	}
	if len(denseResults) > 0 {
		bySource["dense_focused"] = denseResults
	}
	fused := e.fusion.Fuse(bySource, analysis, topK)
	perf.FusionTime = e.clock().Sub(fusionStart)
	return fused, nil
}

// denseOnly is the fall-through when no candidates survive the prefilter
// ladder: a plain dense search over the whole corpus.
func (e *Engine) denseOnly(ctx context.Context, analysis domain.QueryAnalysis, topK int, perf *Performance) ([]domain.SearchResult, error) {
	perf.DenseOnly = true
	scoringStart := e.clock()
	results, err := e.dense.Search(ctx, analysis.DenseQuery, nil, nil, topK)
	perf.ScoringTime = e.clock().Sub(scoringStart)
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (e *Engine) cacheInfo() CacheInfo {
	if e.cache == nil {
		return CacheInfo{}
	}
	return CacheInfo{
		Prefilter: e.cache.Stats(cache.NSPrefilter),
		Dense:     e.cache.Stats(cache.NSDenseResults),
		BM25:      e.cache.Stats(cache.NSBM25Results),
		Hybrid:    e.cache.Stats(cache.NSHybridFinal),
	}
}

// Healthy reports component readiness for the health endpoint: the vector
// store must answer a cheap retrieve.
func (e *Engine) Healthy(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	_, err := e.store.Retrieve(ctx, nil)
	return err == nil
}
