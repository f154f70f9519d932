// Package config loads the service's YAML configuration, applies defaults,
// and reads secrets from the environment.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pterm/pterm"
	"gopkg.in/yaml.v3"
)

// ServerConfig is the HTTP adapter's listen address.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// VectorStoreConfig points at the Qdrant collection holding the corpus.
type VectorStoreConfig struct {
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	Collection string `yaml:"collection"`
	UseTLS     bool   `yaml:"use_tls"`
}

// CacheConfig selects the optional remote cache tier.
type CacheConfig struct {
	RedisURL   string        `yaml:"redis_url"`
	DefaultTTL time.Duration `yaml:"default_ttl"`
}

// WorkerPoolConfig sizes the background write-back pool.
type WorkerPoolConfig struct {
	Workers       int `yaml:"workers"`
	QueueCapacity int `yaml:"queue_capacity"`
}

// EmbeddingConfig names the text->vector model served to the model holder.
type EmbeddingConfig struct {
	ModelName  string `yaml:"model_name"`
	Endpoint   string `yaml:"endpoint"`
	Dimensions int    `yaml:"dimensions"`
}

// LLMConfig selects the generation/translation provider.
type LLMConfig struct {
	Provider    string  `yaml:"provider"` // "anthropic" | "openai" | "google"
	Model       string  `yaml:"model"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
}

// SearchConfig bounds the retrieval pipeline.
type SearchConfig struct {
	MaxCandidates int `yaml:"max_candidates"`
	TopK          int `yaml:"top_k"`
}

// EnrichmentConfig holds the third-party source endpoints; API keys come
// from the environment, not the file.
type EnrichmentConfig struct {
	Enabled          bool   `yaml:"enabled"`
	WikipediaBaseURL string `yaml:"wikipedia_base_url"`
	UnsplashBaseURL  string `yaml:"unsplash_base_url"`
	SerpBaseURL      string `yaml:"serp_base_url"`
}

// GeneratorConfig tunes the answer generator.
type GeneratorConfig struct {
	Timeout     time.Duration `yaml:"timeout"`
	Disclaimers bool          `yaml:"disclaimers"`
}

// ConversationConfig bounds chat history.
type ConversationConfig struct {
	MaxHistory int `yaml:"max_history"`
}

// ObservabilityConfig selects the optional OTLP metrics export target.
type ObservabilityConfig struct {
	OTLPEndpoint   string `yaml:"otlp_endpoint"`
	ServiceName    string `yaml:"service_name"`
	ServiceVersion string `yaml:"service_version"`
}

// Secrets are read from the environment only.
type Secrets struct {
	AnthropicAPIKey string
	OpenAIAPIKey    string
	GoogleAPIKey    string
	UnsplashKey     string
	SerpAPIKey      string
	QdrantAPIKey    string
}

// Config is the full service configuration.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	VectorStore   VectorStoreConfig   `yaml:"vector_store"`
	Cache         CacheConfig         `yaml:"cache"`
	WorkerPool    WorkerPoolConfig    `yaml:"worker_pool"`
	Embedding     EmbeddingConfig     `yaml:"embedding"`
	LLM           LLMConfig           `yaml:"llm"`
	Search        SearchConfig        `yaml:"search"`
	Enrichment    EnrichmentConfig    `yaml:"enrichment"`
	Generator     GeneratorConfig     `yaml:"generator"`
	Conversation  ConversationConfig  `yaml:"conversation"`
	Observability ObservabilityConfig `yaml:"observability"`
	LogLevel      string              `yaml:"log_level"`

	Secrets Secrets `yaml:"-"`
}

// Load reads path (default config.yaml), applies defaults, and pulls
// secrets from the environment. A missing generator credential is fatal at
// startup; an unset vector-store collection defaults to
// "georgian_attractions".
func Load(path string) (*Config, error) {
	if path == "" {
		path = "config.yaml"
	}

	cfg := &Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			pterm.Error.Printf("Error reading config file: %v\n", err)
			return nil, fmt.Errorf("read config: %w", err)
		}
		pterm.Warning.Printf("Config file %s not found, using defaults.\n", path)
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		pterm.Error.Printf("Error unmarshaling config: %v\n", err)
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyDefaults(cfg)
	loadSecrets(cfg)

	if err := validate(cfg); err != nil {
		return nil, err
	}

	pterm.Success.Println("Configuration loaded successfully.")
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.VectorStore.Host == "" {
		cfg.VectorStore.Host = "localhost"
	}
	if cfg.VectorStore.Port == 0 {
		cfg.VectorStore.Port = 6334
	}
	if cfg.VectorStore.Collection == "" {
		cfg.VectorStore.Collection = "georgian_attractions"
	}
	if cfg.Cache.DefaultTTL == 0 {
		cfg.Cache.DefaultTTL = 24 * time.Hour
	}
	if cfg.WorkerPool.Workers == 0 {
		cfg.WorkerPool.Workers = 2
		pterm.Info.Println("No worker_pool.workers specified, using default (2).")
	}
	if cfg.WorkerPool.QueueCapacity == 0 {
		cfg.WorkerPool.QueueCapacity = 256
	}
	if cfg.Embedding.ModelName == "" {
		cfg.Embedding.ModelName = "default"
	}
	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = "anthropic"
	}
	if cfg.LLM.MaxTokens == 0 {
		cfg.LLM.MaxTokens = 800
	}
	if cfg.LLM.Temperature == 0 {
		cfg.LLM.Temperature = 0.7
	}
	if cfg.Search.MaxCandidates == 0 {
		cfg.Search.MaxCandidates = 200
	}
	if cfg.Search.TopK == 0 {
		cfg.Search.TopK = 5
	}
	if cfg.Generator.Timeout == 0 {
		cfg.Generator.Timeout = 30 * time.Second
	}
	if cfg.Conversation.MaxHistory == 0 {
		cfg.Conversation.MaxHistory = 20
	}
	if cfg.Observability.ServiceName == "" {
		cfg.Observability.ServiceName = "georgian-rag"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
}

func loadSecrets(cfg *Config) {
	cfg.Secrets = Secrets{
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		GoogleAPIKey:    os.Getenv("GOOGLE_API_KEY"),
		UnsplashKey:     os.Getenv("UNSPLASH_ACCESS_KEY"),
		SerpAPIKey:      os.Getenv("SERPAPI_API_KEY"),
		QdrantAPIKey:    os.Getenv("QDRANT_API_KEY"),
	}
}

// GeneratorKey returns the credential for the selected provider.
func (c *Config) GeneratorKey() string {
	switch c.LLM.Provider {
	case "openai":
		return c.Secrets.OpenAIAPIKey
	case "google":
		return c.Secrets.GoogleAPIKey
	default:
		return c.Secrets.AnthropicAPIKey
	}
}

func validate(cfg *Config) error {
	if cfg.VectorStore.Collection == "" {
		return fmt.Errorf("config: vector_store.collection is required")
	}
	if cfg.GeneratorKey() == "" {
		return fmt.Errorf("config: no API key for llm provider %q (set the provider's *_API_KEY)", cfg.LLM.Provider)
	}
	return nil
}
