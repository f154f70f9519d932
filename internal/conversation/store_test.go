package conversation

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddMessageCreatesAndAppends(t *testing.T) {
	s := New()
	ctx := context.Background()

	require.NoError(t, s.AddMessage(ctx, "c1", "user", "расскажи о Тбилиси", map[string]string{"language": "ru"}))
	require.NoError(t, s.AddMessage(ctx, "c1", "assistant", "Тбилиси — столица Грузии.", map[string]string{"language": "ru", "sources": "a,b"}))

	history := s.History(ctx, "c1")
	require.Len(t, history, 2)
	assert.Equal(t, "user", history[0].Role)
	assert.Equal(t, "assistant", history[1].Role)
}

func TestHistoryTrimmedToMaxHistory(t *testing.T) {
	s := New(WithMaxHistory(3))
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		require.NoError(t, s.AddMessage(ctx, "c1", "user", fmt.Sprintf("message %d", i), nil))
	}

	history := s.History(ctx, "c1")
	require.Len(t, history, 3)
	assert.Equal(t, "message 7", history[0].Content)
	assert.Equal(t, "message 9", history[2].Content)
}

func TestMetadataSetsSerializedSorted(t *testing.T) {
	s := New()
	ctx := context.Background()

	require.NoError(t, s.AddMessage(ctx, "c1", "user", "hi", map[string]string{"language": "ru"}))
	require.NoError(t, s.AddMessage(ctx, "c1", "user", "hi again", map[string]string{"language": "en"}))
	require.NoError(t, s.AddMessage(ctx, "c1", "assistant", "answer", map[string]string{"language": "en", "sources": "doc-b,doc-a"}))

	languages, sources, ok := s.Metadata(ctx, "c1")
	require.True(t, ok)
	assert.Equal(t, []string{"en", "ru"}, languages)
	assert.Equal(t, []string{"doc-a", "doc-b"}, sources)
}

func TestContextWindowBudgetNewestFirstChronologicalOut(t *testing.T) {
	s := New()
	ctx := context.Background()

	long := strings.Repeat("x", 4000)
	require.NoError(t, s.AddMessage(ctx, "c1", "user", long, nil))
	require.NoError(t, s.AddMessage(ctx, "c1", "assistant", "short answer", nil))
	require.NoError(t, s.AddMessage(ctx, "c1", "user", "follow up", nil))

	// 1000 tokens ~ 4000 chars: the oldest long message doesn't fit once
	// the two recent ones are taken
	text, selected := s.ContextWindow(ctx, "c1", 1000, "string")
	require.Len(t, selected, 2)
	assert.Equal(t, "short answer", selected[0].Content)
	assert.Equal(t, "follow up", selected[1].Content)
	assert.True(t, strings.Index(text, "short answer") < strings.Index(text, "follow up"))
}

func TestContextWindowMessageFormat(t *testing.T) {
	s := New()
	ctx := context.Background()
	require.NoError(t, s.AddMessage(ctx, "c1", "user", "hello", nil))

	text, selected := s.ContextWindow(ctx, "c1", 2000, "messages")
	assert.Empty(t, text)
	require.Len(t, selected, 1)
	assert.Equal(t, "hello", selected[0].Content)
}

func TestExpiredConversationNotReturnedMemoryOnly(t *testing.T) {
	now := time.Now()
	s := New(WithClock(func() time.Time { return now }))
	ctx := context.Background()

	require.NoError(t, s.AddMessage(ctx, "c1", "user", "hello", nil))
	now = now.Add(25 * time.Hour)

	assert.Nil(t, s.History(ctx, "c1"))
}

func TestClearRemovesConversation(t *testing.T) {
	s := New()
	ctx := context.Background()
	require.NoError(t, s.AddMessage(ctx, "c1", "user", "hello", nil))

	s.Clear(ctx, "c1")
	assert.Empty(t, s.History(ctx, "c1"))
}

func TestNewConversationIDUnique(t *testing.T) {
	assert.NotEqual(t, NewConversationID(), NewConversationID())
}
