package query

import (
	"strings"
	"unicode"

	"github.com/anastasianlp/georgian-rag/internal/domain"
	"github.com/anastasianlp/georgian-rag/internal/lang"
)

// topicalSuffix appends a short bag of topical words in the query's
// detected language (plus always English) to the semantic/dense query so
// bilingual documents match regardless of the query language.
var topicalSuffix = map[string]string{
	"ru": "достопримечательности места информация",
	"en": "attractions places information",
}

// Analyze runs the full analysis pipeline against the original,
// untranslated query: normalize, coarse language detection (reusing the
// detector's script/vocabulary heuristics), intent classification, entity
// extraction, stemmed/stopword-filtered keyword extraction, filter-tree
// construction, filter-strategy selection, and semantic/dense query
// construction. It is a pure function: no network calls, no caching, no
// mutable state, so it needs no constructor.
func Analyze(query string) domain.QueryAnalysis {
	cleaned := normalize(query)
	language := coarseLanguage(query, cleaned)
	tokens := strings.Fields(cleaned)

	entities, categories := findEntities(cleaned)
	intent := classifyIntent(cleaned)
	complexity := classifyComplexity(len(tokens), len(entities))

	keywords := buildKeywords(language, tokens, entities)
	filters, strategy := buildFilters(cleaned, entities, categories)
	if ImplyLanguageFilter && language != "ru" && language != "en" {
		filters = append(filters, domain.Filter{Op: domain.FilterOpEquals, Field: domain.FieldLanguage, Value: "EN"})
	}
	semantic, dense := buildSemanticQueries(cleaned, language, entities)

	locations := make([]string, 0, len(entities))
	for _, e := range entities {
		locations = append(locations, e.Canonical)
	}

	return domain.QueryAnalysis{
		OriginalQuery:  query,
		Language:       language,
		Intent:         intent,
		Entities:       domain.Entities{Locations: locations, Categories: categories},
		Complexity:     complexity,
		SemanticQuery:  semantic,
		DenseQuery:     dense,
		Keywords:       keywords,
		Filters:        filters,
		FilterStrategy: strategy,
	}
}

// normalize strips punctuation (keeping hyphens, which matter for compound
// place names), collapses whitespace, and lowercases.
func normalize(query string) string {
	var b strings.Builder
	for _, r := range query {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '-', unicode.IsSpace(r):
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// coarseLanguage reuses the detector's script and vocabulary heuristics
// directly, with no remote-LLM fallback: this result only biases stemming
// and prompt language, not the user-facing response language.
func coarseLanguage(original, cleaned string) string {
	if l, ok := lang.DetectScript(original); ok {
		return l
	}
	if l, ok := lang.DetectVocabulary(cleaned); ok {
		return l
	}
	return lang.DefaultLanguage
}

// buildKeywords tokenizes, stems, and drops stopwords,
// then appends every transliteration variant of any matched gazetteer
// entity (step 5's "known-entity transliteration variant expansion") so a
// single-script query still searches all of an attraction's name forms.
func buildKeywords(language string, tokens []string, entities []Entity) []string {
	seen := make(map[string]bool)
	var keywords []string
	add := func(tok string) {
		if tok == "" || seen[tok] {
			return
		}
		seen[tok] = true
		keywords = append(keywords, tok)
	}
	for _, tok := range tokens {
		if isStopword(language, tok) {
			continue
		}
		add(stem(language, tok))
	}
	for _, e := range entities {
		for _, v := range e.Variants {
			add(strings.ToLower(v))
		}
	}
	return keywords
}

// ImplyLanguageFilter, when enabled, makes queries in languages outside the
// corpus pair imply a language=EN hard filter. Off by default: only the
// explicit phrases handled in buildFilters add a language filter.
var ImplyLanguageFilter = false

// buildFilters constructs the filter tree: one equals clause per explicit
// category marker, a hard language filter only on the explicit phrases
// "на русском" / "in english", plus a compound OR over name and tags
// covering every case variant of every matched entity's transliteration
// set. filter_strategy is moderate when the tree stays small (<=2 clauses)
// and a known entity anchors it, loose otherwise.
func buildFilters(cleaned string, entities []Entity, categories []string) ([]domain.Filter, domain.FilterStrategy) {
	var filters []domain.Filter
	for _, c := range categories {
		filters = append(filters, domain.Filter{Op: domain.FilterOpEquals, Field: c, Value: "true"})
	}
	switch {
	case strings.Contains(cleaned, "на русском"):
		filters = append(filters, domain.Filter{Op: domain.FilterOpEquals, Field: domain.FieldLanguage, Value: "RU"})
	case strings.Contains(cleaned, "in english"):
		filters = append(filters, domain.Filter{Op: domain.FilterOpEquals, Field: domain.FieldLanguage, Value: "EN"})
	}
	if len(entities) > 0 {
		var values []string
		for _, e := range entities {
			for _, v := range e.Variants {
				values = append(values, v, titleCase(v), strings.ToUpper(v))
			}
		}
		values = dedupe(values)
		filters = append(filters, domain.Filter{
			Op: domain.FilterOpOr,
			Children: []domain.Filter{
				{Op: domain.FilterOpMatchAny, Field: domain.FieldName, Values: values},
				{Op: domain.FilterOpMatchAny, Field: domain.FieldTags, Values: values},
			},
		})
	}

	strategy := domain.StrategyLoose
	if len(filters) <= 2 && len(entities) > 0 {
		strategy = domain.StrategyModerate
	}
	return filters, strategy
}

// buildSemanticQueries appends topical phrase suffixes (detected language
// plus English) and gazetteer canonical names to the cleaned query. The
// semantic and dense queries are identical here: BM25 and dense retrieval
// both tokenize/embed the same text, they just weight it differently
// downstream.
func buildSemanticQueries(cleaned, language string, entities []Entity) (semantic, dense string) {
	parts := []string{cleaned}
	if suf, ok := topicalSuffix[language]; ok && language != "en" {
		parts = append(parts, suf)
	}
	parts = append(parts, topicalSuffix["en"])
	for _, e := range entities {
		parts = append(parts, e.Canonical)
	}
	built := strings.Join(parts, " ")
	return built, built
}

func titleCase(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	return strings.ToUpper(string(r[0])) + string(r[1:])
}

func dedupe(vals []string) []string {
	seen := make(map[string]bool, len(vals))
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
