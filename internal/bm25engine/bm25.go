// Package bm25engine implements the BM25 Engine: lexical
// scoring of a bounded candidate set with an exactly-tunable BM25 (k1=1.2,
// b=0.75), weighted field concatenation, and a small-candidate-set
// keyword-hit-ratio fallback. Bleve provides the per-language analyzers;
// the scorer itself is hand-rolled because Bleve's built-in ranking doesn't
// expose k1/b independently.
package bm25engine

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/blevesearch/bleve/v2/registry"

	_ "github.com/blevesearch/bleve/v2/analysis/lang/en"
	_ "github.com/blevesearch/bleve/v2/analysis/lang/ru"

	"github.com/anastasianlp/georgian-rag/internal/cache"
	"github.com/anastasianlp/georgian-rag/internal/domain"
)

const (
	k1 = 1.2
	b  = 0.75

	// smallCandidateThreshold is the candidate count at or below which BM25
	// is skipped entirely in favor of the keyword-hit-ratio fallback.
	smallCandidateThreshold = 5

	cacheTTL = time.Hour
)

// fieldWeights weight each field's contribution to the searchable text
// (name x3, location x2, category x1.5, description x1). Rather than
// literally repeating field text, each
// field's token contributes its weight directly to term frequency, which
// is mathematically identical for integer weights and generalizes cleanly
// to category's fractional 1.5.
var fieldWeights = map[string]float64{
	domain.FieldName:        3,
	domain.FieldLocation:    2,
	domain.FieldCategory:    1.5,
	domain.FieldDescription: 1,
}

// Engine scores candidates lexically with BM25. Ranked results are
// memoized in the shared cache store under its own namespace, keyed by the
// semantic query alone so a cached ranking can serve a different candidate
// set after local filtering.
type Engine struct {
	analyzers *registry.Cache
	cache     *cache.Store
}

// New constructs an Engine over the shared cache store.
func New(c *cache.Store) *Engine {
	return &Engine{
		analyzers: registry.NewCache(),
		cache:     c,
	}
}

// SearchWithinCandidates scores the candidate set against the keywords.
func (e *Engine) SearchWithinCandidates(ctx context.Context, keywords []string, candidates []domain.Document, language string, topK int, semanticQuery string) []domain.SearchResult {
	key := cache.HashKey(semanticQuery)
	var cached []domain.SearchResult
	if e.cache != nil && e.cache.Get(ctx, cache.NSBM25Results, key, &cached) {
		return filterToCandidates(cached, candidates, topK)
	}

	var results []domain.SearchResult
	if len(candidates) <= smallCandidateThreshold {
		results = e.keywordHitScore(keywords, candidates, topK)
	} else {
		results = e.bm25Score(keywords, candidates, language, topK)
		if len(results) == 0 {
			results = e.keywordHitScore(keywords, candidates, topK)
		}
	}

	if e.cache != nil {
		_ = e.cache.Set(ctx, cache.NSBM25Results, key, results, cacheTTL)
	}
	return results
}

// tokenize applies the bleve language analyzer for language, falling back
// to whitespace split for anything it doesn't recognize.
func (e *Engine) tokenize(language, text string) []string {
	name := language
	if name != "en" && name != "ru" {
		return strings.Fields(strings.ToLower(text))
	}
	analyzer, err := e.analyzers.AnalyzerNamed(name)
	if err != nil || analyzer == nil {
		return strings.Fields(strings.ToLower(text))
	}
	stream := analyzer.Analyze([]byte(text))
	tokens := make([]string, 0, len(stream))
	for _, tok := range stream {
		tokens = append(tokens, string(tok.Term))
	}
	return tokens
}

func (e *Engine) documentTermFreq(doc domain.Document, language string) (map[string]float64, float64) {
	tf := make(map[string]float64)
	var length float64
	for field, weight := range fieldWeights {
		text := doc.Payload.String(field)
		if text == "" {
			continue
		}
		for _, tok := range e.tokenize(language, text) {
			tf[tok] += weight
			length += weight
		}
	}
	return tf, length
}

func (e *Engine) bm25Score(keywords []string, candidates []domain.Document, language string, topK int) []domain.SearchResult {
	n := len(candidates)
	docTF := make([]map[string]float64, n)
	docLen := make([]float64, n)
	docFreq := make(map[string]int)
	var totalLen float64

	for i, doc := range candidates {
		tf, length := e.documentTermFreq(doc, language)
		docTF[i] = tf
		docLen[i] = length
		totalLen += length
		for _, kw := range keywords {
			if tf[kw] > 0 {
				docFreq[kw]++
			}
		}
	}
	avgdl := 0.0
	if n > 0 {
		avgdl = totalLen / float64(n)
	}
	if avgdl == 0 {
		avgdl = 1
	}

	threshold := -0.5
	if n > 20 {
		threshold = 0
	}

	scored := make([]domain.SearchResult, 0, n)
	for i, doc := range candidates {
		var score float64
		for _, kw := range keywords {
			tf := docTF[i][kw]
			if tf == 0 {
				continue
			}
			df := docFreq[kw]
			idf := math.Log((float64(n)-float64(df)+0.5)/(float64(df)+0.5) + 1)
			denom := tf + k1*(1-b+b*(docLen[i]/avgdl))
			score += idf * (tf * (k1 + 1)) / denom
		}
		if score > threshold {
			scored = append(scored, domain.SearchResult{
				DocID:   doc.ID,
				Score:   score,
				Source:  "bm25_focused",
				Payload: doc.Payload,
			})
		}
	}
	sortByScoreDesc(scored)
	return truncate(scored, topK)
}

// keywordHitScore implements the small-candidate-set fallback: matches / |keywords| * 10.
func (e *Engine) keywordHitScore(keywords []string, candidates []domain.Document, topK int) []domain.SearchResult {
	if len(keywords) == 0 {
		return nil
	}
	scored := make([]domain.SearchResult, 0, len(candidates))
	for _, doc := range candidates {
		haystack := strings.ToLower(strings.Join([]string{
			doc.Payload.String(domain.FieldName),
			doc.Payload.String(domain.FieldLocation),
			doc.Payload.String(domain.FieldCategory),
			doc.Payload.String(domain.FieldDescription),
		}, " "))
		matches := 0
		for _, kw := range keywords {
			if strings.Contains(haystack, kw) {
				matches++
			}
		}
		if matches == 0 {
			continue
		}
		score := float64(matches) / float64(len(keywords)) * 10
		scored = append(scored, domain.SearchResult{
			DocID:   doc.ID,
			Score:   score,
			Source:  "bm25_focused",
			Payload: doc.Payload,
		})
	}
	sortByScoreDesc(scored)
	return truncate(scored, topK)
}

func filterToCandidates(cached []domain.SearchResult, candidates []domain.Document, topK int) []domain.SearchResult {
	allowed := make(map[string]bool, len(candidates))
	for _, d := range candidates {
		allowed[d.ID] = true
	}
	filtered := make([]domain.SearchResult, 0, len(cached))
	for _, r := range cached {
		if allowed[r.DocID] {
			filtered = append(filtered, r)
		}
	}
	return truncate(filtered, topK)
}

func sortByScoreDesc(results []domain.SearchResult) {
	for i := 1; i < len(results); i++ {
		for j := i; j > 0 && results[j].Score > results[j-1].Score; j-- {
			results[j], results[j-1] = results[j-1], results[j]
		}
	}
}

func truncate(results []domain.SearchResult, topK int) []domain.SearchResult {
	if topK > 0 && len(results) > topK {
		return results[:topK]
	}
	return results
}
