package domain

// Intent classifies what the user is trying to do.
type Intent string

const (
	IntentFactual       Intent = "factual"
	IntentExploratory   Intent = "exploratory"
	IntentComparative   Intent = "comparative"
	IntentNavigational  Intent = "navigational"
	IntentFiltered      Intent = "filtered"
)

// Complexity buckets the query's structural complexity.
type Complexity string

const (
	ComplexitySimple   Complexity = "simple"
	ComplexityModerate Complexity = "moderate"
	ComplexityComplex  Complexity = "complex"
)

// FilterStrategy controls how aggressively the prefilter's filter tree is
// relaxed.
type FilterStrategy string

const (
	StrategyStrict   FilterStrategy = "strict"
	StrategyModerate FilterStrategy = "moderate"
	StrategyLoose    FilterStrategy = "loose"
)

// Entities extracted from the query.
type Entities struct {
	Locations  []string
	Categories []string
}

// FilterOp is the leaf/branch operator of a vector-store filter clause
//.
type FilterOp string

const (
	FilterOpAnd       FilterOp = "and"
	FilterOpOr        FilterOp = "or"
	FilterOpEquals    FilterOp = "equals"
	FilterOpMatchAny  FilterOp = "match_any"
	FilterOpHasID     FilterOp = "has_id"
)

// Filter is a node in the filter tree built by the Query Analyzer and
// consumed by the PreFilter Engine.
type Filter struct {
	Op       FilterOp
	Field    string
	Value    string
	Values   []string
	Children []Filter
}

// QueryAnalysis is the output of the query analyzer, a pure function
// of the original, untranslated, cleaned query.
type QueryAnalysis struct {
	OriginalQuery string
	Language      string
	Intent        Intent
	Entities      Entities
	Complexity    Complexity
	SemanticQuery string
	DenseQuery    string
	Keywords      []string
	Filters       []Filter
	FilterStrategy FilterStrategy
}

// NeedsEnrichment is a convenience the answer flow uses to decide whether
// to attempt enrichment at all, mirroring the sparsity gate the enricher
// re-checks against the actual top-3 results.
func (q QueryAnalysis) NeedsEnrichment() bool {
	return q.Intent == IntentExploratory || q.Intent == IntentFactual || q.Intent == IntentNavigational
}
