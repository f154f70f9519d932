package enrichment

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anastasianlp/georgian-rag/internal/cache"
	"github.com/anastasianlp/georgian-rag/internal/domain"
	"github.com/anastasianlp/georgian-rag/internal/vectorstore"
	"github.com/anastasianlp/georgian-rag/internal/workerpool"
)

type fakeInfo struct {
	calls   int64
	content string
}

func (f *fakeInfo) Summary(_ context.Context, _ string) (string, []string, error) {
	atomic.AddInt64(&f.calls, 1)
	return f.content, []string{"https://img.example/wiki.jpg"}, nil
}

type fakeImages struct {
	calls  int64
	photos []UnsplashImage
}

func (f *fakeImages) Photos(_ context.Context, _ string) ([]UnsplashImage, error) {
	atomic.AddInt64(&f.calls, 1)
	return f.photos, nil
}

type failingPractical struct{}

func (failingPractical) Search(_ context.Context, _, _ string) ([]PracticalResult, error) {
	return nil, errors.New("no api key")
}

func sparseResult(id, name string) domain.SearchResult {
	return domain.SearchResult{
		DocID: id,
		Payload: domain.Payload{
			domain.FieldName:        name,
			domain.FieldDescription: "short",
		},
	}
}

func richResult(id string) domain.SearchResult {
	long := make([]byte, 400)
	for i := range long {
		long[i] = 'x'
	}
	return domain.SearchResult{
		DocID: id,
		Payload: domain.Payload{
			domain.FieldName:        "Rich place",
			domain.FieldDescription: string(long),
			domain.FieldImageURL:    "https://img.example/rich.jpg",
		},
	}
}

func TestGateSkipsWellDescribedResults(t *testing.T) {
	assert.False(t, ShouldEnrich([]domain.SearchResult{richResult("a"), richResult("b"), richResult("c")}))
	assert.True(t, ShouldEnrich([]domain.SearchResult{sparseResult("a", "Sparse")}))
}

func TestEnrichSkipsWithoutOutboundCallsWhenGateClosed(t *testing.T) {
	info := &fakeInfo{content: "unused"}
	e := New(cache.New(), vectorstore.NewMemory(), nil, info, nil, nil)

	result := e.Enrich(context.Background(), []domain.SearchResult{richResult("a")}, domain.QueryAnalysis{})
	assert.True(t, result.Empty())
	assert.Zero(t, atomic.LoadInt64(&info.calls))
}

func TestEnrichFetchesCachesAndQueuesWriteBack(t *testing.T) {
	store := vectorstore.NewMemory()
	store.Seed("kakheti", nil, domain.Payload{
		domain.FieldName:        "Kakheti",
		domain.FieldDescription: "short",
	})

	pool := workerpool.New(1, 8)
	defer pool.Stop()

	c := cache.New()
	info := &fakeInfo{content: "Kakheti is a wine region in eastern Georgia."}
	images := &fakeImages{photos: []UnsplashImage{{URL: "https://img.example/1.jpg", Photographer: "A"}}}
	e := New(c, store, pool, info, images, failingPractical{})

	result := e.Enrich(context.Background(), []domain.SearchResult{sparseResult("kakheti", "Kakheti")}, domain.QueryAnalysis{Language: "en"})
	require.False(t, result.Empty())
	assert.ElementsMatch(t, []string{"wikipedia", "unsplash"}, result.Sources)

	// permanent cache holds the combined result
	var cached Result
	require.True(t, c.Get(context.Background(), cache.NSEnrichmentPermanent, result.CacheKey, &cached))
	assert.Equal(t, result.WikipediaContent, cached.WikipediaContent)

	// the queued write-back lands on the payload
	require.Eventually(t, func() bool {
		docs, err := store.Retrieve(context.Background(), []string{"kakheti"})
		if err != nil || len(docs) == 0 {
			return false
		}
		return docs[0].Payload.Bool(domain.FieldIsEnriched)
	}, 2*time.Second, 10*time.Millisecond)

	docs, err := store.Retrieve(context.Background(), []string{"kakheti"})
	require.NoError(t, err)
	payload := docs[0].Payload
	assert.Equal(t, info.content, payload.String(domain.FieldDescriptionEnriched))
	assert.NotEmpty(t, payload.String(domain.FieldEnrichedAt))
	assert.ElementsMatch(t, []string{"wikipedia", "unsplash"}, payload.StringSlice(domain.FieldEnrichmentSources))
}

func TestSecondEnrichHitsPermanentCacheWithoutFetching(t *testing.T) {
	store := vectorstore.NewMemory()
	store.Seed("kakheti", nil, domain.Payload{domain.FieldName: "Kakheti", domain.FieldDescription: "short"})

	c := cache.New()
	info := &fakeInfo{content: "Kakheti summary."}
	e := New(c, store, nil, info, nil, nil)

	first := e.Enrich(context.Background(), []domain.SearchResult{sparseResult("kakheti", "Kakheti")}, domain.QueryAnalysis{})
	require.False(t, first.Empty())
	require.Equal(t, int64(1), atomic.LoadInt64(&info.calls))

	second := e.Enrich(context.Background(), []domain.SearchResult{sparseResult("kakheti", "Kakheti")}, domain.QueryAnalysis{})
	assert.Equal(t, first.Sources, second.Sources)
	assert.Equal(t, int64(1), atomic.LoadInt64(&info.calls), "cache hit must make zero outbound calls")
}

func TestImageURLNeverOverwritten(t *testing.T) {
	store := vectorstore.NewMemory()
	store.Seed("narikala", nil, domain.Payload{
		domain.FieldName:        "Narikala",
		domain.FieldDescription: "short",
		domain.FieldImageURL:    "https://img.example/curated.jpg",
	})

	e := New(cache.New(), store, nil, nil, nil, nil)
	err := e.persist(context.Background(), "narikala", Result{
		UnsplashImages: []UnsplashImage{{URL: "https://img.example/stock.jpg"}},
		Sources:        []string{"unsplash"},
	})
	require.NoError(t, err)

	docs, err := store.Retrieve(context.Background(), []string{"narikala"})
	require.NoError(t, err)
	payload := docs[0].Payload
	assert.Equal(t, "https://img.example/curated.jpg", payload.String(domain.FieldImageURL))
	assert.Nil(t, payload[domain.FieldImagesUnsplash])
	assert.NotContains(t, payload.StringSlice(domain.FieldEnrichedFields), "unsplash_images")
}

func TestPayloadHitPromotesToPermanentCache(t *testing.T) {
	c := cache.New()
	e := New(c, vectorstore.NewMemory(), nil, nil, nil, nil)

	enriched := domain.SearchResult{
		DocID: "doc",
		Payload: domain.Payload{
			domain.FieldName:                "Doc",
			domain.FieldDescription:         "short",
			domain.FieldIsEnriched:          true,
			domain.FieldDescriptionEnriched: "Previously fetched summary.",
			domain.FieldEnrichmentSources:   []string{"wikipedia"},
		},
	}

	result := e.Enrich(context.Background(), []domain.SearchResult{enriched}, domain.QueryAnalysis{})
	require.Equal(t, "Previously fetched summary.", result.WikipediaContent)

	var cached Result
	assert.True(t, c.Get(context.Background(), cache.NSEnrichmentPermanent, result.CacheKey, &cached))
}

func TestCancelledFetchCommitsNothing(t *testing.T) {
	c := cache.New()
	info := &fakeInfo{content: "would be cached"}
	e := New(c, vectorstore.NewMemory(), nil, info, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := e.Enrich(ctx, []domain.SearchResult{sparseResult("a", "A")}, domain.QueryAnalysis{})
	assert.True(t, result.Empty())
	assert.Zero(t, c.Stats(cache.NSEnrichmentPermanent).PermanentSets)
}
