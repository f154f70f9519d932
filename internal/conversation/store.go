// Package conversation keeps a bounded per-conversation message log with a
// remote Redis tier and an in-memory fallback. Chat history is advisory:
// concurrent writes to the same conversation are last-writer-wins, and a
// lost message under contention is acceptable.
package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/anastasianlp/georgian-rag/internal/domain"
)

// DefaultMaxHistory bounds how many messages one conversation retains.
const DefaultMaxHistory = 20

const remoteTimeout = 5 * time.Second

// keyPrefix namespaces the remote keys.
const keyPrefix = "conversation:"

// wireConversation is the persisted shape: metadata sets serialize as
// sorted lists.
type wireConversation struct {
	ID            string        `json:"id"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
	Messages      []wireMessage `json:"messages"`
	LanguagesUsed []string      `json:"languages_used"`
	SourcesUsed   []string      `json:"sources_used"`
}

type wireMessage struct {
	Role      string            `json:"role"`
	Content   string            `json:"content"`
	Timestamp time.Time         `json:"timestamp"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// Store is the conversation store. The remote tier is authoritative; the
// local map is a guarded cache and the only tier when Redis is absent.
type Store struct {
	redis      redis.UniversalClient
	maxHistory int
	ttl        time.Duration
	clock      func() time.Time

	mu    sync.RWMutex
	local map[string]*domain.Conversation
}

// Option configures a Store.
type Option func(*Store)

// WithRedis attaches the remote tier.
func WithRedis(client redis.UniversalClient) Option {
	return func(s *Store) { s.redis = client }
}

// WithMaxHistory overrides the per-conversation message bound.
func WithMaxHistory(n int) Option {
	return func(s *Store) { s.maxHistory = n }
}

// WithClock substitutes the time source in tests.
func WithClock(clock func() time.Time) Option {
	return func(s *Store) { s.clock = clock }
}

// New constructs a Store. Without WithRedis it operates memory-only.
func New(opts ...Option) *Store {
	s := &Store{
		maxHistory: DefaultMaxHistory,
		ttl:        domain.ConversationTTL,
		clock:      time.Now,
		local:      map[string]*domain.Conversation{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewConversationID returns a fresh conversation id.
func NewConversationID() string { return uuid.NewString() }

// AddMessage appends one message, creating the conversation on first use
// and trimming to the history bound.
func (s *Store) AddMessage(ctx context.Context, conversationID, role, content string, metadata map[string]string) error {
	if conversationID == "" {
		return fmt.Errorf("conversation: empty id")
	}
	now := s.clock()

	conv := s.load(ctx, conversationID)
	if conv == nil {
		conv = &domain.Conversation{
			ID:        conversationID,
			CreatedAt: now,
			Metadata:  domain.NewConversationMetadata(),
		}
	}

	conv.Messages = append(conv.Messages, domain.Message{
		Role:      role,
		Content:   content,
		Timestamp: now,
		Metadata:  metadata,
	})
	if len(conv.Messages) > s.maxHistory {
		conv.Messages = conv.Messages[len(conv.Messages)-s.maxHistory:]
	}
	conv.UpdatedAt = now
	if metadata != nil {
		conv.Metadata.AddLanguage(metadata["language"])
		for _, src := range strings.Split(metadata["sources"], ",") {
			conv.Metadata.AddSource(strings.TrimSpace(src))
		}
	}

	s.save(ctx, conv)
	return nil
}

// History returns the retained messages, oldest first.
func (s *Store) History(ctx context.Context, conversationID string) []domain.Message {
	conv := s.load(ctx, conversationID)
	if conv == nil {
		return nil
	}
	return conv.Messages
}

// Metadata returns the conversation's set-valued bookkeeping as sorted
// lists.
func (s *Store) Metadata(ctx context.Context, conversationID string) (languages, sources []string, ok bool) {
	conv := s.load(ctx, conversationID)
	if conv == nil {
		return nil, nil, false
	}
	return conv.Metadata.LanguagesSorted(), conv.Metadata.SourcesSorted(), true
}

// ContextWindow returns recent history under a token budget (chars ≈
// tokens × 4), walking newest-first until the budget is spent, then
// restoring chronological order. format "string" yields a "role: content"
// transcript; anything else returns the messages.
func (s *Store) ContextWindow(ctx context.Context, conversationID string, maxTokens int, format string) (string, []domain.Message) {
	if maxTokens <= 0 {
		maxTokens = 2000
	}
	budget := maxTokens * 4

	all := s.History(ctx, conversationID)
	var selected []domain.Message
	used := 0
	for i := len(all) - 1; i >= 0; i-- {
		cost := len(all[i].Content)
		if used+cost > budget && len(selected) > 0 {
			break
		}
		selected = append(selected, all[i])
		used += cost
		if used >= budget {
			break
		}
	}
	// restore chronological order
	for i, j := 0, len(selected)-1; i < j; i, j = i+1, j-1 {
		selected[i], selected[j] = selected[j], selected[i]
	}

	if format != "string" {
		return "", selected
	}
	var sb strings.Builder
	for _, m := range selected {
		fmt.Fprintf(&sb, "%s: %s\n", m.Role, m.Content)
	}
	return sb.String(), selected
}

// Clear removes one conversation from both tiers.
func (s *Store) Clear(ctx context.Context, conversationID string) {
	if s.redis != nil {
		rctx, cancel := context.WithTimeout(ctx, remoteTimeout)
		defer cancel()
		if err := s.redis.Del(rctx, keyPrefix+conversationID).Err(); err != nil {
			log.Warn().Err(err).Str("conversation_id", conversationID).Msg("conversation remote delete failed")
		}
	}
	s.mu.Lock()
	delete(s.local, conversationID)
	s.mu.Unlock()
}

func (s *Store) load(ctx context.Context, conversationID string) *domain.Conversation {
	if s.redis != nil {
		rctx, cancel := context.WithTimeout(ctx, remoteTimeout)
		defer cancel()
		raw, err := s.redis.Get(rctx, keyPrefix+conversationID).Bytes()
		switch {
		case err == nil:
			var wire wireConversation
			if jsonErr := json.Unmarshal(raw, &wire); jsonErr == nil {
				conv := fromWire(wire)
				s.mu.Lock()
				s.local[conversationID] = conv
				s.mu.Unlock()
				return cloneConversation(conv)
			}
		case err != redis.Nil:
			log.Warn().Err(err).Str("conversation_id", conversationID).Msg("conversation remote read failed")
		}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if conv, ok := s.local[conversationID]; ok {
		if s.redis == nil && s.clock().Sub(conv.UpdatedAt) > s.ttl {
			return nil
		}
		return cloneConversation(conv)
	}
	return nil
}

func (s *Store) save(ctx context.Context, conv *domain.Conversation) {
	if s.redis != nil {
		if raw, err := json.Marshal(toWire(conv)); err == nil {
			rctx, cancel := context.WithTimeout(ctx, remoteTimeout)
			defer cancel()
			if err := s.redis.Set(rctx, keyPrefix+conv.ID, raw, s.ttl).Err(); err != nil {
				log.Warn().Err(err).Str("conversation_id", conv.ID).Msg("conversation remote write failed")
			}
		}
	}
	s.mu.Lock()
	s.local[conv.ID] = cloneConversation(conv)
	s.mu.Unlock()
}

func toWire(conv *domain.Conversation) wireConversation {
	wire := wireConversation{
		ID:            conv.ID,
		CreatedAt:     conv.CreatedAt,
		UpdatedAt:     conv.UpdatedAt,
		LanguagesUsed: conv.Metadata.LanguagesSorted(),
		SourcesUsed:   conv.Metadata.SourcesSorted(),
	}
	for _, m := range conv.Messages {
		wire.Messages = append(wire.Messages, wireMessage(m))
	}
	return wire
}

func fromWire(wire wireConversation) *domain.Conversation {
	conv := &domain.Conversation{
		ID:        wire.ID,
		CreatedAt: wire.CreatedAt,
		UpdatedAt: wire.UpdatedAt,
		Metadata:  domain.NewConversationMetadata(),
	}
	for _, m := range wire.Messages {
		conv.Messages = append(conv.Messages, domain.Message(m))
	}
	for _, l := range wire.LanguagesUsed {
		conv.Metadata.AddLanguage(l)
	}
	for _, src := range wire.SourcesUsed {
		conv.Metadata.AddSource(src)
	}
	return conv
}

func cloneConversation(conv *domain.Conversation) *domain.Conversation {
	out := &domain.Conversation{
		ID:        conv.ID,
		CreatedAt: conv.CreatedAt,
		UpdatedAt: conv.UpdatedAt,
		Messages:  append([]domain.Message(nil), conv.Messages...),
		Metadata:  domain.NewConversationMetadata(),
	}
	for l := range conv.Metadata.LanguagesUsed {
		out.Metadata.AddLanguage(l)
	}
	for src := range conv.Metadata.SourcesUsed {
		out.Metadata.AddSource(src)
	}
	return out
}
