package domain

// SearchResult is the single concrete result container used downstream of
// every retrieval stage. Adapters convert at ingress from the vector store
// so later stages never deal with a union of shapes.
type SearchResult struct {
	DocID   string
	Score   float64
	Source  string // stage tag: "bm25", "bm25_focused", "dense", "dense_focused", "prefilter"
	Payload Payload
	Content string
	Fusion  *FusionInfo // set by the fusion stage; nil on pre-fusion results
}

// FusionScore is the intermediate per-document bookkeeping produced while
// the Fusion Engine combines per-source rankings.
type FusionScore struct {
	DocID       string
	TotalScore  float64
	SourceScores map[string]float64
	RankInfo    map[string]int
	BoostFactor float64
}

// FusionInfo is attached to a SearchResult's explanation after fusion so
// callers (context assembler, diagnostics) can see how a score was built.
type FusionInfo struct {
	SourceScores map[string]float64
	RankInfo     map[string]int
	BoostFactor  float64
	SourcesUsed  []string
	FusionType   string // "clean" | "legacy"
}
