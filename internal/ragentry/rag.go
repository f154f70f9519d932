// Package ragentry is the end-to-end answer flow: detect the query
// language, translate for search when the language is outside the corpus
// pair, retrieve, optionally enrich, assemble, generate in the target
// language, and persist the turn to the conversation.
package ragentry

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/anastasianlp/georgian-rag/internal/contextassembler"
	"github.com/anastasianlp/georgian-rag/internal/conversation"
	"github.com/anastasianlp/georgian-rag/internal/domain"
	"github.com/anastasianlp/georgian-rag/internal/enrichment"
	"github.com/anastasianlp/georgian-rag/internal/generator"
	"github.com/anastasianlp/georgian-rag/internal/lang"
	"github.com/anastasianlp/georgian-rag/internal/orchestrator"
	"github.com/anastasianlp/georgian-rag/internal/query"
)

// DefaultTopK is the result count when the caller doesn't specify one.
const DefaultTopK = 5

// Source is one result reference in the response body.
type Source struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Location    string  `json:"location"`
	Score       float64 `json:"score"`
	Category    string  `json:"category,omitempty"`
	ImageURL    string  `json:"image_url,omitempty"`
	Description string  `json:"description,omitempty"`
}

// Metadata is the response's diagnostic block.
type Metadata struct {
	DetectedLanguage   string                   `json:"detected_language"`
	TargetLanguage     string                   `json:"target_language"`
	QueryWasTranslated bool                     `json:"query_was_translated"`
	SearchQuery        string                   `json:"search_query,omitempty"`
	Intent             domain.Intent            `json:"intent"`
	ResultCount        int                      `json:"search_results_count"`
	EnrichmentEnabled  bool                     `json:"enrichment_enabled"`
	EnrichmentSources  []string                 `json:"enrichment_sources"`
	ProcessingTime     time.Duration            `json:"processing_time"`
	ErrorType          string                   `json:"error_type,omitempty"`
	TotalTokens        int                      `json:"total_tokens"`
	Performance        orchestrator.Performance `json:"performance"`
}

// Answer is the caller-facing response: always well-formed, even on
// internal failure.
type Answer struct {
	Response       string   `json:"response"`
	Language       string   `json:"language"`
	Sources        []Source `json:"sources"`
	ConversationID string   `json:"conversation_id,omitempty"`
	Metadata       Metadata `json:"metadata"`
}

// Request carries one question through the pipeline.
type Request struct {
	Query            string
	TargetLanguage   string
	ConversationID   string
	EnableEnrichment bool
	TopK             int
}

// Service wires the pipeline stages.
type Service struct {
	detector      *lang.Detector
	translator    *lang.Translator
	orchestrator  *orchestrator.Engine
	enricher      *enrichment.Engine
	generator     *generator.Generator
	conversations *conversation.Store
	clock         func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock substitutes the time source in tests.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) { s.clock = clock }
}

// New assembles the entry point. enricher and conversations may be nil
// (enrichment disabled / stateless mode).
func New(detector *lang.Detector, translator *lang.Translator, orch *orchestrator.Engine, enricher *enrichment.Engine, gen *generator.Generator, conversations *conversation.Store, opts ...Option) *Service {
	s := &Service{
		detector:      detector,
		translator:    translator,
		orchestrator:  orch,
		enricher:      enricher,
		generator:     gen,
		conversations: conversations,
		clock:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Answer runs the full flow. Every failure path still returns a localized,
// well-formed Answer; the metadata block carries the error signal.
func (s *Service) Answer(ctx context.Context, req Request) Answer {
	start := s.clock()
	topK := req.TopK
	if topK <= 0 {
		topK = DefaultTopK
	}

	if strings.TrimSpace(req.Query) == "" {
		target := req.TargetLanguage
		if target == "" {
			target = lang.DefaultLanguage
		}
		return Answer{
			Response:       generator.RephraseMessage(target),
			Language:       target,
			ConversationID: req.ConversationID,
			Metadata: Metadata{
				TargetLanguage: target,
				ErrorType:      "empty_query",
				ProcessingTime: s.clock().Sub(start),
			},
		}
	}

	detected := s.detector.Detect(ctx, req.Query)
	target := req.TargetLanguage
	if target == "" {
		target = detected
	}

	searchQuery := req.Query
	if lang.ShouldTranslateForSearch(detected) {
		searchQuery = s.translator.ToEnglish(ctx, req.Query, detected)
	}
	translated := searchQuery != req.Query

	// analysis always runs on the original query; retrieval on the
	// translated one
	analysis := query.Analyze(req.Query)

	if req.ConversationID != "" && s.conversations != nil {
		if err := s.conversations.AddMessage(ctx, req.ConversationID, "user", req.Query, map[string]string{
			"language": detected,
			"intent":   string(analysis.Intent),
		}); err != nil {
			log.Warn().Err(err).Msg("conversation append failed")
		}
	}

	searchResp, err := s.orchestrator.Search(ctx, searchQuery, topK)
	if err != nil {
		log.Error().Err(err).Msg("retrieval failed")
		return s.failure(req, start, detected, target, translated, searchQuery, analysis, "retrieval_failed")
	}
	results := searchResp.Results

	var enriched enrichment.Result
	if req.EnableEnrichment && s.enricher != nil && analysis.NeedsEnrichment() {
		enriched = s.enricher.Enrich(ctx, results, analysis)
	}

	assembled := contextassembler.Assemble(results, analysis, enriched, target)
	if req.ConversationID != "" && s.conversations != nil {
		history, _ := s.conversations.ContextWindow(ctx, req.ConversationID, 2000, "string")
		assembled.ConversationHistory = history
	}
	assembled.QueryInfo = contextassembler.QueryInfo{
		OriginalQuery:      req.Query,
		SearchQuery:        searchQuery,
		DetectedLanguage:   detected,
		TargetLanguage:     target,
		QueryWasTranslated: translated,
		Intent:             analysis.Intent,
	}

	generated := s.generator.Generate(ctx, assembled)

	if req.ConversationID != "" && s.conversations != nil {
		sourceIDs := make([]string, 0, 3)
		for i, r := range results {
			if i >= 3 {
				break
			}
			sourceIDs = append(sourceIDs, r.DocID)
		}
		if err := s.conversations.AddMessage(ctx, req.ConversationID, "assistant", generated.Response, map[string]string{
			"language": target,
			"sources":  strings.Join(sourceIDs, ","),
		}); err != nil {
			log.Warn().Err(err).Msg("conversation append failed")
		}
	}

	answer := Answer{
		Response:       generated.Response,
		Language:       target,
		Sources:        shapeSources(results),
		ConversationID: req.ConversationID,
		Metadata: Metadata{
			DetectedLanguage:   detected,
			TargetLanguage:     target,
			QueryWasTranslated: translated,
			Intent:             analysis.Intent,
			ResultCount:        len(results),
			EnrichmentEnabled:  req.EnableEnrichment,
			EnrichmentSources:  enriched.Sources,
			ProcessingTime:     s.clock().Sub(start),
			ErrorType:          generated.ErrorType,
			TotalTokens:        generated.InputTokens + generated.OutputTokens,
			Performance:        searchResp.Performance,
		},
	}
	if translated {
		answer.Metadata.SearchQuery = searchQuery
	}
	return answer
}

func (s *Service) failure(req Request, start time.Time, detected, target string, translated bool, searchQuery string, analysis domain.QueryAnalysis, errorType string) Answer {
	return Answer{
		Response:       generator.ErrorMessage(target),
		Language:       target,
		ConversationID: req.ConversationID,
		Metadata: Metadata{
			DetectedLanguage:   detected,
			TargetLanguage:     target,
			QueryWasTranslated: translated,
			SearchQuery:        searchQuery,
			Intent:             analysis.Intent,
			ProcessingTime:     s.clock().Sub(start),
			ErrorType:          errorType,
		},
	}
}

func shapeSources(results []domain.SearchResult) []Source {
	limit := len(results)
	if limit > 5 {
		limit = 5
	}
	sources := make([]Source, 0, limit)
	for _, r := range results[:limit] {
		p := r.Payload
		description := p.String(domain.FieldDescription)
		if runes := []rune(description); len(runes) > 200 {
			description = string(runes[:200])
		}
		sources = append(sources, Source{
			ID:          r.DocID,
			Name:        p.String(domain.FieldName),
			Location:    p.String(domain.FieldLocation),
			Score:       r.Score,
			Category:    p.String(domain.FieldCategory),
			ImageURL:    p.String(domain.FieldImageURL),
			Description: description,
		})
	}
	return sources
}
