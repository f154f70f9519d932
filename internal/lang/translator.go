package lang

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/anastasianlp/georgian-rag/internal/cache"
	"github.com/anastasianlp/georgian-rag/internal/llmprovider"
)

// TranslationTTL is the default TTL for ordinary query translations.
const TranslationTTL = 24 * time.Hour

// Translator translates queries to English for search, caching results so
// repeated queries (and repeated attraction names) avoid a remote call.
type Translator struct {
	llm   llmprovider.Provider
	cache *cache.Store
}

// NewTranslator constructs a Translator backed by store for caching and llm
// for the actual remote translation call.
func NewTranslator(llm llmprovider.Provider, store *cache.Store) *Translator {
	return &Translator{llm: llm, cache: store}
}

// ToEnglish translates query (written in sourceLang) to English. The call is
// best-effort: on deadline or network failure the original query is
// returned unchanged, never an error, so callers
// never need to branch on failure.
func (t *Translator) ToEnglish(ctx context.Context, query, sourceLang string) string {
	key := cache.HashKey(sourceLang, query)
	var cached string
	if t.cache != nil {
		if t.cache.Get(ctx, cache.NSTranslationPermanent, key, &cached) {
			return cached
		}
		if t.cache.Get(ctx, cache.NSTranslationTemp, key, &cached) {
			return cached
		}
	}
	if t.llm == nil {
		return query
	}
	prompt := "Translate the following " + LanguageName(sourceLang) +
		" text to English. Reply with only the translation, no commentary.\n\nText: " + query
	completion, err := t.llm.Complete(ctx, prompt)
	if err != nil {
		log.Debug().Err(err).Str("lang", sourceLang).Msg("translation_remote_error")
		return query
	}
	translated := strings.TrimSpace(completion.Text)
	if translated == "" {
		return query
	}
	if t.cache != nil {
		if err := t.cache.Set(ctx, cache.NSTranslationTemp, key, translated, TranslationTTL); err != nil {
			log.Debug().Err(err).Msg("translation_cache_set_error")
		}
	}
	return translated
}

// RememberAttractionName writes a known-attraction translation to the
// permanent cache tier, since the translation of a proper
// noun never changes and is worth keeping forever.
func (t *Translator) RememberAttractionName(ctx context.Context, sourceLang, name, translated string) {
	if t.cache == nil {
		return
	}
	key := cache.HashKey(sourceLang, name)
	if err := t.cache.SetPermanent(ctx, cache.NSTranslationPermanent, key, translated); err != nil {
		log.Debug().Err(err).Msg("translation_permanent_cache_set_error")
	}
}
