package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/anastasianlp/georgian-rag/internal/cache"
	"github.com/anastasianlp/georgian-rag/internal/config"
	"github.com/anastasianlp/georgian-rag/internal/obs"
	"github.com/anastasianlp/georgian-rag/internal/orchestrator"
	"github.com/anastasianlp/georgian-rag/internal/ragentry"
)

// server is the thin HTTP adapter over the answer service: POST /query,
// GET /health, GET /metrics.
type server struct {
	service *ragentry.Service
	orch    *orchestrator.Engine
	cache   *cache.Store
	metrics obs.Metrics
	cfg     *config.Config
}

func newServer(service *ragentry.Service, orch *orchestrator.Engine, c *cache.Store, metrics obs.Metrics, cfg *config.Config) *server {
	return &server{service: service, orch: orch, cache: c, metrics: metrics, cfg: cfg}
}

type queryRequest struct {
	Query          string `json:"query"`
	Language       string `json:"language,omitempty"`
	ConversationID string `json:"conversation_id,omitempty"`
	TopK           int    `json:"top_k,omitempty"`
}

func (s *server) run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /query", s.handleQuery)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /metrics", s.handleMetrics)

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *server) handleQuery(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := uuid.NewString()

	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid json body"}`, http.StatusBadRequest)
		s.metrics.IncCounter("rag_requests_total", map[string]string{"status": "bad_request"})
		return
	}

	answer := s.service.Answer(r.Context(), ragentry.Request{
		Query:            req.Query,
		TargetLanguage:   req.Language,
		ConversationID:   req.ConversationID,
		EnableEnrichment: s.cfg.Enrichment.Enabled,
		TopK:             req.TopK,
	})

	status := "ok"
	if answer.Metadata.ErrorType != "" {
		status = answer.Metadata.ErrorType
	}
	s.metrics.IncCounter("rag_requests_total", map[string]string{"status": status})
	s.metrics.ObserveHistogram("rag_request_duration_seconds", time.Since(start).Seconds(), nil)

	log.Info().
		Str("request_id", requestID).
		Str("language", answer.Language).
		Str("error_type", answer.Metadata.ErrorType).
		Dur("duration", time.Since(start)).
		Msg("query handled")

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(answer); err != nil {
		log.Warn().Err(err).Msg("response encode failed")
	}
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	healthy := s.orch.Healthy(r.Context())
	body := map[string]any{
		"status":       "ok",
		"vector_store": healthy,
	}
	w.Header().Set("Content-Type", "application/json")
	if !healthy {
		body["status"] = "degraded"
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_ = json.NewEncoder(w).Encode(body)
}

// handleMetrics emits the cache counters in text exposition format. The
// OTel request counters/histograms export via the OTLP provider installed
// in main; this endpoint exists so operators can scrape basic cache health
// without a collector.
func (s *server) handleMetrics(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	namespaces := []string{
		cache.NSPrefilter, cache.NSBM25Results, cache.NSDenseResults, cache.NSHybridFinal,
		cache.NSTranslationTemp, cache.NSTranslationPermanent, cache.NSEnrichmentPermanent,
	}
	for _, ns := range namespaces {
		stats := s.cache.Stats(ns)
		fmt.Fprintf(w, "rag_cache_hits{namespace=%q} %d\n", ns, stats.Hits)
		fmt.Fprintf(w, "rag_cache_misses{namespace=%q} %d\n", ns, stats.Misses)
		fmt.Fprintf(w, "rag_cache_errors{namespace=%q} %d\n", ns, stats.Errors)
	}
}
