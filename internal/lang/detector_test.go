package lang

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/anastasianlp/georgian-rag/internal/llmprovider"
)

func TestZeroOverlapInvariant(t *testing.T) {
	violations := VerifyZeroOverlap()
	require.Empty(t, violations, "distinctive vocabularies must not overlap across languages")
}

func TestDetectGeorgianByScript(t *testing.T) {
	d := New(nil)
	got := d.Detect(context.Background(), "მითხარი თბილისის შესახებ")
	require.Equal(t, "ka", got)
}

func TestDetectRussianByScript(t *testing.T) {
	d := New(nil)
	got := d.Detect(context.Background(), "расскажи о Светицховели")
	require.Equal(t, "ru", got)
}

func TestDetectArmenianRequiresAlphaRatio(t *testing.T) {
	d := New(nil)
	got := d.Detect(context.Background(), "Please visit Yerevan")
	require.NotEqual(t, "hy", got)
}

func TestDetectEnglishFallsThroughToVocabulary(t *testing.T) {
	d := New(nil)
	got := d.Detect(context.Background(), "where is the old town")
	require.Equal(t, "en", got)
}

func TestDetectFallsBackToEnglishWithNoLLM(t *testing.T) {
	d := New(nil)
	got := d.Detect(context.Background(), "12345")
	require.Equal(t, DefaultLanguage, got)
}

func TestDetectRemoteFallbackValidatesAllowlist(t *testing.T) {
	llm := llmprovider.Func(func(ctx context.Context, prompt string) (llmprovider.Completion, error) {
		return llmprovider.Completion{Text: "xx"}, nil
	})
	d := New(llm)
	got := d.Detect(context.Background(), "????")
	require.Equal(t, DefaultLanguage, got)
}

func TestDetectRemoteVerdictMemoized(t *testing.T) {
	calls := 0
	llm := llmprovider.Func(func(ctx context.Context, prompt string) (llmprovider.Completion, error) {
		calls++
		return llmprovider.Completion{Text: "cs"}, nil
	})
	d := New(llm)
	require.Equal(t, "cs", d.Detect(context.Background(), "Ahojky, co Tbilisi?"))
	require.Equal(t, "cs", d.Detect(context.Background(), "Ahojky, co Tbilisi?"))
	require.Equal(t, 1, calls, "second detection of the same query must hit the memo")
}

func TestShouldTranslateForSearchGate(t *testing.T) {
	require.False(t, ShouldTranslateForSearch("en"))
	require.False(t, ShouldTranslateForSearch("ru"))
	require.True(t, ShouldTranslateForSearch("ka"))
	require.True(t, ShouldTranslateForSearch("hy"))
}
