package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/anastasianlp/georgian-rag/internal/bm25engine"
	"github.com/anastasianlp/georgian-rag/internal/cache"
	"github.com/anastasianlp/georgian-rag/internal/config"
	"github.com/anastasianlp/georgian-rag/internal/conversation"
	"github.com/anastasianlp/georgian-rag/internal/dense"
	"github.com/anastasianlp/georgian-rag/internal/enrichment"
	"github.com/anastasianlp/georgian-rag/internal/fusion"
	"github.com/anastasianlp/georgian-rag/internal/generator"
	"github.com/anastasianlp/georgian-rag/internal/lang"
	"github.com/anastasianlp/georgian-rag/internal/llmprovider"
	"github.com/anastasianlp/georgian-rag/internal/modelholder"
	"github.com/anastasianlp/georgian-rag/internal/obs"
	"github.com/anastasianlp/georgian-rag/internal/orchestrator"
	"github.com/anastasianlp/georgian-rag/internal/prefilter"
	"github.com/anastasianlp/georgian-rag/internal/ragentry"
	"github.com/anastasianlp/georgian-rag/internal/vectorstore"
	"github.com/anastasianlp/georgian-rag/internal/workerpool"
)

func main() {
	// .env before config so API keys are visible to config.Load
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("RAG_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := obs.InitLogger(os.Stdout, cfg.LogLevel)
	logger.Info().Str("provider", cfg.LLM.Provider).Msg("starting ragd")

	otelShutdown, err := obs.InitOTel(context.Background(), obs.OTelConfig{
		Endpoint:       cfg.Observability.OTLPEndpoint,
		ServiceName:    cfg.Observability.ServiceName,
		ServiceVersion: cfg.Observability.ServiceVersion,
	})
	if err != nil {
		// metrics export is not worth refusing to start over
		log.Warn().Err(err).Msg("otel init failed, continuing without metrics export")
		otelShutdown = func(context.Context) error { return nil }
	}
	defer func() { _ = otelShutdown(context.Background()) }()

	var redisClient redis.UniversalClient
	if cfg.Cache.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.Cache.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid redis url")
		}
		redisClient = redis.NewClient(opts)
	}

	cacheOpts := []cache.Option{}
	if redisClient != nil {
		cacheOpts = append(cacheOpts, cache.WithRedis(redisClient))
	}
	cacheStore := cache.New(cacheOpts...)

	pool := workerpool.New(cfg.WorkerPool.Workers, cfg.WorkerPool.QueueCapacity)
	defer pool.Stop()

	dsn := fmt.Sprintf("%s:%d", cfg.VectorStore.Host, cfg.VectorStore.Port)
	store, err := vectorstore.NewQdrant(dsn, cfg.VectorStore.Collection, cfg.Embedding.Dimensions, "cosine")
	if err != nil {
		log.Fatal().Err(err).Msg("vector store init failed")
	}

	holder := modelholder.New(func(_ context.Context, name string) (modelholder.Encoder, error) {
		return modelholder.NewHTTPEncoder(cfg.Embedding.Endpoint, name, cfg.Embedding.Dimensions), nil
	})

	llm, err := llmprovider.Build(llmprovider.Config{
		Provider:  cfg.LLM.Provider,
		APIKey:    cfg.GeneratorKey(),
		Model:     cfg.LLM.Model,
		MaxTokens: cfg.LLM.MaxTokens,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("llm provider init failed")
	}

	orch := orchestrator.New(
		store,
		prefilter.New(store, holder, cfg.Embedding.ModelName, cacheStore),
		bm25engine.New(cacheStore),
		dense.New(store, holder, cfg.Embedding.ModelName, cacheStore),
		fusion.New(),
		cacheStore,
		orchestrator.WithMaxCandidates(cfg.Search.MaxCandidates),
	)

	var enricher *enrichment.Engine
	if cfg.Enrichment.Enabled {
		enricher = enrichment.New(
			cacheStore,
			store,
			pool,
			enrichment.NewWikipediaClient(cfg.Enrichment.WikipediaBaseURL),
			enrichment.NewUnsplashClient(cfg.Enrichment.UnsplashBaseURL, cfg.Secrets.UnsplashKey),
			enrichment.NewSerpClient(cfg.Enrichment.SerpBaseURL, cfg.Secrets.SerpAPIKey),
		)
	}

	conversationOpts := []conversation.Option{conversation.WithMaxHistory(cfg.Conversation.MaxHistory)}
	if redisClient != nil {
		conversationOpts = append(conversationOpts, conversation.WithRedis(redisClient))
	}
	conversations := conversation.New(conversationOpts...)

	service := ragentry.New(
		lang.New(llm),
		lang.NewTranslator(llm, cacheStore),
		orch,
		enricher,
		generator.New(llm,
			generator.WithTimeout(cfg.Generator.Timeout),
			generator.WithDisclaimers(cfg.Generator.Disclaimers),
		),
		conversations,
	)

	metrics := obs.NewOtelMetrics()
	server := newServer(service, orch, cacheStore, metrics, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.run(ctx); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
	logger.Info().Msg("ragd stopped")
}
