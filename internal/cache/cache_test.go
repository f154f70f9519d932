package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSetGetRoundTrip(t *testing.T) {
	s := New()
	ctx := context.Background()
	require.NoError(t, s.Set(ctx, NSTranslationTemp, "k1", "hello", time.Hour))

	var got string
	ok := s.Get(ctx, NSTranslationTemp, "k1", &got)
	require.True(t, ok)
	require.Equal(t, "hello", got)
}

func TestTemporaryEntryExpires(t *testing.T) {
	now := time.Now()
	s := New(WithClock(func() time.Time { return now }))
	ctx := context.Background()
	require.NoError(t, s.Set(ctx, NSEnrichmentTemp, "k", "v", time.Minute))

	now = now.Add(2 * time.Minute)
	var got string
	ok := s.Get(ctx, NSEnrichmentTemp, "k", &got)
	require.False(t, ok)
}

// TestPermanentSurvivesAnyTTLExpiry verifies the hard invariant from spec
// A value written via SetPermanent is readable after any
// number of Set writes and any TTL expiry interval.
func TestPermanentSurvivesAnyTTLExpiry(t *testing.T) {
	now := time.Now()
	s := New(WithClock(func() time.Time { return now }))
	ctx := context.Background()

	require.NoError(t, s.SetPermanent(ctx, NSEnrichmentPermanent, "place-x", "expensive-result"))

	for i := 0; i < 5; i++ {
		require.NoError(t, s.Set(ctx, NSEnrichmentTemp, "noise", i, time.Millisecond))
		now = now.Add(time.Hour * 24 * 365) // arbitrarily long TTL expiry interval
	}

	var got string
	ok := s.Get(ctx, NSEnrichmentPermanent, "place-x", &got)
	require.True(t, ok)
	require.Equal(t, "expensive-result", got)
}

func TestClearNamespaceThenRewriteIsIdempotent(t *testing.T) {
	s := New()
	ctx := context.Background()
	require.NoError(t, s.Set(ctx, NSBM25Results, "q1", []string{"a", "b"}, time.Hour))

	removed := s.ClearNamespace(ctx, NSBM25Results)
	require.Equal(t, 1, removed)

	var got []string
	ok := s.Get(ctx, NSBM25Results, "q1", &got)
	require.False(t, ok)

	require.NoError(t, s.Set(ctx, NSBM25Results, "q1", []string{"a", "b"}, time.Hour))
	ok = s.Get(ctx, NSBM25Results, "q1", &got)
	require.True(t, ok)
	require.Equal(t, []string{"a", "b"}, got)
}

func TestHashKeyStableForEqualInputs(t *testing.T) {
	a := HashKey("svetitskhoveli", "ru", "moderate")
	b := HashKey("svetitskhoveli", "ru", "moderate")
	require.Equal(t, a, b)

	c := HashKey("svetitskhoveli", "ru", "loose")
	require.NotEqual(t, a, c)
}

func TestStatsTrackHitsAndMisses(t *testing.T) {
	s := New()
	ctx := context.Background()
	var dst string
	s.Get(ctx, NSDenseResults, "missing", &dst)
	require.NoError(t, s.Set(ctx, NSDenseResults, "present", "v", time.Hour))
	s.Get(ctx, NSDenseResults, "present", &dst)

	st := s.Stats(NSDenseResults)
	require.Equal(t, int64(1), st.Hits)
	require.Equal(t, int64(1), st.Misses)
	require.Equal(t, int64(1), st.Sets)
}
