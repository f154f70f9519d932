// Package fusion combines per-source rankings into one final ranking using
// reciprocal rank fusion with score normalization and contextual boosts.
// Two modes exist: clean fusion for candidate-focused inputs (the normal
// path after the prefilter) and a legacy mode for mixed, non-focused
// inputs.
package fusion

import (
	"math"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/anastasianlp/georgian-rag/internal/domain"
)

// PrefilterInfoKey marks the per-source result map as having come through
// the prefilter stage. The orchestrator sets it (with a nil slice) so the
// mode decision can see prefilter provenance even when a scoring stage
// returned nothing.
const PrefilterInfoKey = "prefilter_info"

// baseWeights favor focused stages slightly over their full-corpus
// counterparts; unknown sources get weightOther. Weights are renormalized
// over the sources actually present so they always sum to 1.
var baseWeights = map[string]float64{
	"bm25":          0.40,
	"bm25_focused":  0.45,
	"dense":         0.50,
	"dense_focused": 0.55,
	"metadata":      0.10,
}

const weightOther = 0.3

// Engine is the fusion stage. k is the RRF rank constant.
type Engine struct {
	k int
}

// New returns an Engine with the rank constant used throughout: small k
// keeps top ranks strongly separated.
func New() *Engine {
	return &Engine{k: 3}
}

type docScore struct {
	total       float64
	sourceScore map[string]float64
	rankInfo    map[string]int
	boost       float64
	result      domain.SearchResult
}

// Fuse merges the per-source rankings into a single ranked list of at most
// topK results. Each output result carries a FusionInfo explaining its
// score.
func (e *Engine) Fuse(bySource map[string][]domain.SearchResult, analysis domain.QueryAnalysis, topK int) []domain.SearchResult {
	clean := useCleanFusion(bySource)

	var scores map[string]*docScore
	fusionType := "legacy"
	if clean {
		fusionType = "clean"
		weights := renormalize(presentWeights(bySource))
		normalized := normalizeFocused(bySource)
		scores = e.rrfAmplified(normalized, weights)
		applyCleanBoosts(scores, analysis)
	} else {
		weights := renormalize(legacyWeights(bySource))
		normalized := normalizeLegacy(bySource)
		scores = e.rrfFlat(normalized, weights)
		applyLegacyBoosts(scores, analysis)
	}

	out := assemble(scores, topK, fusionType)
	log.Debug().Str("fusion_type", fusionType).Int("results", len(out)).Msg("fusion complete")
	return out
}

// useCleanFusion: focused sources or prefilter provenance, plus at least
// one non-empty main ranking.
func useCleanFusion(bySource map[string][]domain.SearchResult) bool {
	focused := false
	for _, src := range []string{"bm25_focused", "dense_focused"} {
		if len(bySource[src]) > 0 {
			focused = true
		}
	}
	_, hasPrefilter := bySource[PrefilterInfoKey]

	main := false
	for _, src := range []string{"bm25", "bm25_focused", "dense", "dense_focused"} {
		if len(bySource[src]) > 0 {
			main = true
		}
	}
	return (focused || hasPrefilter) && main
}

func presentWeights(bySource map[string][]domain.SearchResult) map[string]float64 {
	weights := map[string]float64{}
	for src := range bySource {
		if src == PrefilterInfoKey {
			continue
		}
		if w, ok := baseWeights[src]; ok {
			weights[src] = w
		} else {
			weights[src] = weightOther
		}
	}
	return weights
}

func legacyWeights(bySource map[string][]domain.SearchResult) map[string]float64 {
	weights := map[string]float64{}
	for src := range bySource {
		if src == PrefilterInfoKey {
			continue
		}
		switch {
		case strings.Contains(src, "bm25"):
			weights[src] = 0.4
		case strings.Contains(src, "dense"):
			weights[src] = 0.5
		case src == "metadata":
			weights[src] = 0.1
		default:
			weights[src] = weightOther
		}
	}
	return weights
}

func renormalize(weights map[string]float64) map[string]float64 {
	var total float64
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		return weights
	}
	for src, w := range weights {
		weights[src] = w / total
	}
	return weights
}

// normalizeFocused rescales each source's scores into a comparable band
// while preserving the relative gaps that make the ranking discriminative:
// BM25 positive scores land in [0.2, 1.0] proportional to the max; dense
// positive scores are min-max scaled into [0.3, 1.0], with an all-equal
// set pinned to 0.8.
func normalizeFocused(bySource map[string][]domain.SearchResult) map[string][]domain.SearchResult {
	out := make(map[string][]domain.SearchResult, len(bySource))
	for src, results := range bySource {
		if src == PrefilterInfoKey || len(results) == 0 {
			out[src] = results
			continue
		}
		normalized := make([]domain.SearchResult, len(results))
		copy(normalized, results)

		switch {
		case strings.Contains(src, "bm25"):
			maxScore := maxPositive(results)
			for i := range normalized {
				if normalized[i].Score > 0 && maxScore > 0 {
					normalized[i].Score = 0.2 + 0.8*(normalized[i].Score/maxScore)
				} else {
					normalized[i].Score = 0
				}
			}
		case strings.Contains(src, "dense"):
			lo, hi, any := positiveRange(results)
			for i := range normalized {
				switch {
				case normalized[i].Score <= 0:
					normalized[i].Score = 0
				case !any || hi == lo:
					normalized[i].Score = 0.8
				default:
					normalized[i].Score = 0.3 + 0.7*((normalized[i].Score-lo)/(hi-lo))
				}
			}
		default:
			maxScore := maxPositive(results)
			for i := range normalized {
				if normalized[i].Score > 0 && maxScore > 0 {
					normalized[i].Score = 0.1 + 0.9*(normalized[i].Score/maxScore)
				} else {
					normalized[i].Score = 0
				}
			}
		}
		out[src] = normalized
	}
	return out
}

// normalizeLegacy log-compresses BM25 scores and min-max scales dense
// scores into [0.1, 1.0].
func normalizeLegacy(bySource map[string][]domain.SearchResult) map[string][]domain.SearchResult {
	out := make(map[string][]domain.SearchResult, len(bySource))
	for src, results := range bySource {
		if src == PrefilterInfoKey || len(results) == 0 {
			out[src] = results
			continue
		}
		normalized := make([]domain.SearchResult, len(results))
		copy(normalized, results)

		switch {
		case strings.Contains(src, "bm25"):
			for i := range normalized {
				if normalized[i].Score > 0 {
					normalized[i].Score = math.Log(1+normalized[i].Score) / math.Log(1+60)
				} else {
					normalized[i].Score = 0
				}
			}
		case strings.Contains(src, "dense"):
			lo, hi := scoreRange(results)
			if hi > lo {
				for i := range normalized {
					normalized[i].Score = (normalized[i].Score-lo)/(hi-lo)*0.9 + 0.1
				}
			}
		}
		out[src] = normalized
	}
	return out
}

// rrfAmplified contributes weight × 10 × normalized score / (k + rank) per
// appearance, amplified ×3 / ×2 / ×1.5 for ranks 1 / 2 / 3.
func (e *Engine) rrfAmplified(bySource map[string][]domain.SearchResult, weights map[string]float64) map[string]*docScore {
	scores := map[string]*docScore{}
	for src, results := range bySource {
		if src == PrefilterInfoKey {
			continue
		}
		weight, ok := weights[src]
		if !ok {
			weight = 0.5
		}
		for i, r := range results {
			rank := i + 1
			contribution := weight * 10 * r.Score / float64(e.k+rank)
			switch rank {
			case 1:
				contribution *= 3
			case 2:
				contribution *= 2
			case 3:
				contribution *= 1.5
			}
			ds := scoreFor(scores, r)
			ds.total += contribution
			ds.sourceScore[src] = contribution
			ds.rankInfo[src] = rank
		}
	}
	return scores
}

func (e *Engine) rrfFlat(bySource map[string][]domain.SearchResult, weights map[string]float64) map[string]*docScore {
	scores := map[string]*docScore{}
	for src, results := range bySource {
		if src == PrefilterInfoKey {
			continue
		}
		weight := weights[src]
		for i, r := range results {
			rank := i + 1
			contribution := weight / float64(e.k+rank)
			ds := scoreFor(scores, r)
			ds.total += contribution
			ds.sourceScore[src] = contribution
			ds.rankInfo[src] = rank
		}
	}
	return scores
}

func scoreFor(scores map[string]*docScore, r domain.SearchResult) *docScore {
	ds, ok := scores[r.DocID]
	if !ok {
		ds = &docScore{
			sourceScore: map[string]float64{},
			rankInfo:    map[string]int{},
			boost:       1,
			result:      r,
		}
		scores[r.DocID] = ds
	}
	return ds
}

func applyCleanBoosts(scores map[string]*docScore, analysis domain.QueryAnalysis) {
	for _, ds := range scores {
		payload := ds.result.Payload
		boost := 1.0

		if payload.String(domain.FieldLanguage) == strings.ToUpper(analysis.Language) {
			boost *= 1.2
		}
		if n := len(ds.sourceScore); n >= 2 {
			boost *= 1 + 0.3*float64(n-1)
		}
		topRanks := 0
		firstPlaces := 0
		for _, rank := range ds.rankInfo {
			if rank <= 3 {
				topRanks++
			}
			if rank == 1 {
				firstPlaces++
			}
		}
		if topRanks >= 2 {
			boost *= 1.5
		}
		if (domain.Document{Payload: payload}).IsFullyEnriched() {
			boost *= 1.1
		}
		if firstPlaces >= 1 {
			boost *= 1.8
		}

		ds.total *= boost
		ds.boost = boost
	}
}

func applyLegacyBoosts(scores map[string]*docScore, analysis domain.QueryAnalysis) {
	for _, ds := range scores {
		payload := ds.result.Payload
		boost := 1.0

		if payload.String(domain.FieldLanguage) == strings.ToUpper(analysis.Language) {
			boost *= 1.1
		}
		if (domain.Document{Payload: payload}).IsFullyEnriched() {
			boost *= 1.03
		}
		if len(analysis.Entities.Categories) > 0 {
			docCategory := strings.ToLower(payload.String(domain.FieldCategory))
			for _, cat := range analysis.Entities.Categories {
				if docCategory != "" && strings.Contains(docCategory, strings.ToLower(cat)) {
					boost *= 1.2
					break
				}
			}
		}

		ds.total *= boost
		ds.boost = boost
	}
}

// assemble sorts by total score (doc id breaks ties so repeated runs rank
// identically) and attaches FusionInfo.
func assemble(scores map[string]*docScore, topK int, fusionType string) []domain.SearchResult {
	ordered := make([]*docScore, 0, len(scores))
	for _, ds := range scores {
		ordered = append(ordered, ds)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].total != ordered[j].total {
			return ordered[i].total > ordered[j].total
		}
		return ordered[i].result.DocID < ordered[j].result.DocID
	})
	if topK > 0 && len(ordered) > topK {
		ordered = ordered[:topK]
	}

	out := make([]domain.SearchResult, 0, len(ordered))
	for _, ds := range ordered {
		r := ds.result
		r.Score = ds.total
		sources := make([]string, 0, len(ds.sourceScore))
		for src := range ds.sourceScore {
			sources = append(sources, src)
		}
		sort.Strings(sources)
		r.Fusion = &domain.FusionInfo{
			SourceScores: ds.sourceScore,
			RankInfo:     ds.rankInfo,
			BoostFactor:  ds.boost,
			SourcesUsed:  sources,
			FusionType:   fusionType,
		}
		out = append(out, r)
	}
	return out
}

func maxPositive(results []domain.SearchResult) float64 {
	var max float64
	for _, r := range results {
		if r.Score > max {
			max = r.Score
		}
	}
	return max
}

func positiveRange(results []domain.SearchResult) (lo, hi float64, any bool) {
	for _, r := range results {
		if r.Score <= 0 {
			continue
		}
		if !any || r.Score < lo {
			lo = r.Score
		}
		if !any || r.Score > hi {
			hi = r.Score
		}
		any = true
	}
	return lo, hi, any
}

func scoreRange(results []domain.SearchResult) (lo, hi float64) {
	if len(results) == 0 {
		return 0, 0
	}
	lo, hi = results[0].Score, results[0].Score
	for _, r := range results[1:] {
		if r.Score < lo {
			lo = r.Score
		}
		if r.Score > hi {
			hi = r.Score
		}
	}
	return lo, hi
}
