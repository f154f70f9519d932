package lang

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/anastasianlp/georgian-rag/internal/cache"
	"github.com/anastasianlp/georgian-rag/internal/llmprovider"
)

func TestTranslatorCachesResult(t *testing.T) {
	calls := 0
	llm := llmprovider.Func(func(ctx context.Context, prompt string) (llmprovider.Completion, error) {
		calls++
		return llmprovider.Completion{Text: "tell me about Svetitskhoveli"}, nil
	})
	tr := NewTranslator(llm, cache.New())
	ctx := context.Background()

	out1 := tr.ToEnglish(ctx, "მითხარი სვეტიცხოველზე", "ka")
	out2 := tr.ToEnglish(ctx, "მითხარი სვეტიცხოველზე", "ka")
	require.Equal(t, "tell me about Svetitskhoveli", out1)
	require.Equal(t, out1, out2)
	require.Equal(t, 1, calls)
}

func TestTranslatorBestEffortOnFailure(t *testing.T) {
	llm := llmprovider.Func(func(ctx context.Context, prompt string) (llmprovider.Completion, error) {
		return llmprovider.Completion{}, errors.New("network down")
	})
	tr := NewTranslator(llm, cache.New())
	out := tr.ToEnglish(context.Background(), "original query", "ka")
	require.Equal(t, "original query", out)
}

func TestRememberAttractionNameSurvivesInPermanentTier(t *testing.T) {
	store := cache.New()
	tr := NewTranslator(nil, store)
	ctx := context.Background()
	tr.RememberAttractionName(ctx, "ka", "სვეტიცხოველი", "Svetitskhoveli")

	var got string
	ok := store.Get(ctx, cache.NSTranslationPermanent, cache.HashKey("ka", "სვეტიცხოველი"), &got)
	require.True(t, ok)
	require.Equal(t, "Svetitskhoveli", got)
}
