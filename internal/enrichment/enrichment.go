// Package enrichment fetches supplementary descriptions and images for
// sparse corpus entries from third-party sources, caches the combined
// result permanently, and queues a background payload write-back so user
// requests never wait on the vector store update.
package enrichment

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/anastasianlp/georgian-rag/internal/cache"
	"github.com/anastasianlp/georgian-rag/internal/domain"
	"github.com/anastasianlp/georgian-rag/internal/vectorstore"
	"github.com/anastasianlp/georgian-rag/internal/workerpool"
)

// shortDescriptionLimit is the sparsity threshold: any top-3 result with a
// shorter description (or no image) triggers a fetch.
const shortDescriptionLimit = 300

// UnsplashImage is one stock photo descriptor, persisted to the payload's
// images_unsplash list.
type UnsplashImage struct {
	URL          string `json:"url"`
	Thumbnail    string `json:"thumbnail,omitempty"`
	Photographer string `json:"photographer"`
	Alt          string `json:"alt"`
}

// PracticalResult is one practical-information search hit.
type PracticalResult struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

// Result is the combined outcome of one enrichment round.
type Result struct {
	WikipediaContent string            `json:"wikipedia_content"`
	WikipediaImages  []string          `json:"wikipedia_images"`
	UnsplashImages   []UnsplashImage   `json:"unsplash_images"`
	PracticalResults []PracticalResult `json:"practical_results"`
	Sources          []string          `json:"enrichment_sources"`
	CacheKey         string            `json:"cache_key"`
}

// Empty reports whether no source contributed anything.
func (r Result) Empty() bool { return len(r.Sources) == 0 }

// Engine is the enrichment stage.
type Engine struct {
	cache     *cache.Store
	store     vectorstore.Store
	pool      *workerpool.Pool
	info      InfoClient
	images    ImageClient
	practical PracticalClient
	clock     func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock substitutes the time source in tests.
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) { e.clock = clock }
}

// New wires the engine. Any of info/images/practical may be nil (no API
// key): that source simply never contributes.
func New(c *cache.Store, store vectorstore.Store, pool *workerpool.Pool, info InfoClient, images ImageClient, practical PracticalClient, opts ...Option) *Engine {
	e := &Engine{cache: c, store: store, pool: pool, info: info, images: images, practical: practical, clock: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ShouldEnrich is the sparsity gate: enrich only if any of the top-3
// results has a short description or lacks an image.
func ShouldEnrich(results []domain.SearchResult) bool {
	for _, r := range top3(results) {
		if needsDescription(r.Payload) || needsImages(r.Payload) {
			return true
		}
	}
	return false
}

func top3(results []domain.SearchResult) []domain.SearchResult {
	if len(results) > 3 {
		return results[:3]
	}
	return results
}

func needsDescription(p domain.Payload) bool {
	return len(strings.TrimSpace(p.String(domain.FieldDescription))) < shortDescriptionLimit
}

func needsImages(p domain.Payload) bool {
	return !p.Bool(domain.FieldHasProcessedImage) && p.String(domain.FieldImageURL) == ""
}

// Enrich runs the two-tier lookup and, on miss, the concurrent fetches.
// It never fails the request: every error path degrades to an empty
// Result.
func (e *Engine) Enrich(ctx context.Context, results []domain.SearchResult, analysis domain.QueryAnalysis) Result {
	if !ShouldEnrich(results) {
		return Result{}
	}

	top := top3(results)
	names := make([]string, 0, len(top))
	for _, r := range top {
		name := r.Payload.String(domain.FieldName)
		if name == "" {
			name = "Unknown"
		}
		names = append(names, name)
	}
	cacheKey := cache.HashKey(strings.Join(names, "|"))
	primaryPlace := names[0]

	// tier 1: the permanent cache backs every expensive fetch ever made
	var cached Result
	if e.cache.Get(ctx, cache.NSEnrichmentPermanent, cacheKey, &cached) {
		log.Debug().Str("place", primaryPlace).Msg("enrichment permanent cache hit")
		return cached
	}

	// tier 2: the payload itself, when a previous run already wrote back
	if len(top) > 0 && top[0].Payload.Bool(domain.FieldIsEnriched) {
		if fromPayload, ok := resultFromPayload(top[0].Payload); ok {
			fromPayload.CacheKey = cacheKey
			if err := e.cache.SetPermanent(ctx, cache.NSEnrichmentPermanent, cacheKey, fromPayload); err != nil {
				log.Warn().Err(err).Msg("enrichment cache promote failed")
			}
			log.Debug().Str("place", primaryPlace).Msg("enrichment payload hit, promoted to cache")
			return fromPayload
		}
	}

	fetched := e.fetch(ctx, primaryPlace, analysis.Language)
	fetched.CacheKey = cacheKey
	if fetched.Empty() {
		return fetched
	}

	if err := e.cache.SetPermanent(ctx, cache.NSEnrichmentPermanent, cacheKey, fetched); err != nil {
		log.Warn().Err(err).Msg("enrichment cache write failed")
	}
	if len(top) > 0 && e.pool != nil {
		e.queueWriteBack(top[0].DocID, fetched)
	}
	return fetched
}

// fetch runs the three sources concurrently under the caller's deadline.
// Each source degrades independently; a cancelled context abandons all
// three without committing partial data anywhere.
func (e *Engine) fetch(ctx context.Context, place, language string) Result {
	var result Result
	g, gctx := errgroup.WithContext(ctx)

	var wikiContent string
	var wikiImages []string
	if e.info != nil {
		g.Go(func() error {
			var err error
			wikiContent, wikiImages, err = e.info.Summary(gctx, place)
			if err != nil {
				log.Warn().Err(err).Str("place", place).Msg("info summary failed")
			}
			return nil
		})
	}

	var photos []UnsplashImage
	if e.images != nil {
		g.Go(func() error {
			var err error
			photos, err = e.images.Photos(gctx, place)
			if err != nil {
				log.Warn().Err(err).Str("place", place).Msg("image search failed")
			}
			return nil
		})
	}

	var practical []PracticalResult
	if e.practical != nil {
		g.Go(func() error {
			var err error
			practical, err = e.practical.Search(gctx, place, language)
			if err != nil {
				log.Warn().Err(err).Str("place", place).Msg("practical search failed")
			}
			return nil
		})
	}

	_ = g.Wait()
	if ctx.Err() != nil {
		return Result{}
	}

	if wikiContent != "" {
		result.WikipediaContent = wikiContent
		result.WikipediaImages = wikiImages
		result.Sources = append(result.Sources, "wikipedia")
	}
	if len(practical) > 0 {
		result.PracticalResults = practical
		result.Sources = append(result.Sources, "practical_search")
	}
	if len(photos) > 0 {
		result.UnsplashImages = photos
		result.Sources = append(result.Sources, "unsplash")
	}
	return result
}

// queueWriteBack hands the payload update to the background pool. The task
// writes the complete enrichment field set (last-writer-wins; no per-field
// merge) and never touches a pre-existing image_url.
func (e *Engine) queueWriteBack(docID string, result Result) {
	e.pool.AddTask(workerpool.Task{
		Name: "persist_enrichment_" + docID,
		Fn: func(ctx context.Context) error {
			return e.persist(ctx, docID, result)
		},
	})
	log.Debug().Str("doc_id", docID).Msg("queued enrichment write-back")
}

func (e *Engine) persist(ctx context.Context, docID string, result Result) error {
	docs, err := e.store.Retrieve(ctx, []string{docID})
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		log.Warn().Str("doc_id", docID).Msg("enrichment write-back target not found")
		return nil
	}
	current := docs[0].Payload

	payload := domain.Payload{}
	var enrichedFields []string

	if result.WikipediaContent != "" {
		payload[domain.FieldDescriptionEnriched] = result.WikipediaContent
		enrichedFields = append(enrichedFields, "wikipedia_content")
	}
	if len(result.WikipediaImages) > 0 {
		payload[domain.FieldImagesWikipedia] = capStrings(result.WikipediaImages, 5)
		enrichedFields = append(enrichedFields, "wikipedia_images")
	}
	if len(result.UnsplashImages) > 0 {
		// image_url is sacred: a pre-existing curated image is never
		// displaced by stock photos
		if current.String(domain.FieldImageURL) == "" {
			images := result.UnsplashImages
			if len(images) > 5 {
				images = images[:5]
			}
			payload[domain.FieldImagesUnsplash] = images
			enrichedFields = append(enrichedFields, "unsplash_images")
		} else {
			log.Debug().Str("doc_id", docID).Msg("skipping stock images, image_url already set")
		}
	}

	payload[domain.FieldEnrichedAt] = e.clock().UTC().Format(time.RFC3339)
	payload[domain.FieldEnrichmentSources] = result.Sources
	payload[domain.FieldIsEnriched] = true
	payload[domain.FieldEnrichedFields] = enrichedFields

	return e.store.SetPayload(ctx, []string{docID}, payload)
}

// resultFromPayload reconstitutes a Result from a previously enriched
// payload.
func resultFromPayload(p domain.Payload) (Result, bool) {
	r := Result{
		WikipediaContent: p.String(domain.FieldDescriptionEnriched),
		WikipediaImages:  p.StringSlice(domain.FieldImagesWikipedia),
		Sources:          p.StringSlice(domain.FieldEnrichmentSources),
	}
	if images, ok := p[domain.FieldImagesUnsplash].([]any); ok {
		for _, raw := range images {
			m, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			img := UnsplashImage{}
			if v, ok := m["url"].(string); ok {
				img.URL = v
			}
			if v, ok := m["thumbnail"].(string); ok {
				img.Thumbnail = v
			}
			if v, ok := m["photographer"].(string); ok {
				img.Photographer = v
			}
			if v, ok := m["alt"].(string); ok {
				img.Alt = v
			}
			if img.URL != "" {
				r.UnsplashImages = append(r.UnsplashImages, img)
			}
		}
	} else if images, ok := p[domain.FieldImagesUnsplash].([]UnsplashImage); ok {
		r.UnsplashImages = images
	}
	if r.WikipediaContent == "" && len(r.UnsplashImages) == 0 && len(r.WikipediaImages) == 0 {
		return Result{}, false
	}
	return r, true
}

func capStrings(in []string, n int) []string {
	if len(in) > n {
		return in[:n]
	}
	return in
}
