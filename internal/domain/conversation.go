package domain

import "time"

// ConversationTTL is the lifecycle window from the last update before a
// conversation is considered expired.
const ConversationTTL = 24 * time.Hour

// Message is one turn in a conversation.
type Message struct {
	Role      string // "user" | "assistant"
	Content   string
	Timestamp time.Time
	Metadata  map[string]string
}

// ConversationMetadata tracks set-valued bookkeeping that serializes as
// sorted lists on the wire while behaving as a set in memory.
type ConversationMetadata struct {
	LanguagesUsed map[string]struct{}
	SourcesUsed   map[string]struct{}
}

// NewConversationMetadata returns an empty, ready-to-use metadata set pair.
func NewConversationMetadata() ConversationMetadata {
	return ConversationMetadata{
		LanguagesUsed: map[string]struct{}{},
		SourcesUsed:   map[string]struct{}{},
	}
}

func (m *ConversationMetadata) AddLanguage(lang string) {
	if lang == "" {
		return
	}
	m.LanguagesUsed[lang] = struct{}{}
}

func (m *ConversationMetadata) AddSource(source string) {
	if source == "" {
		return
	}
	m.SourcesUsed[source] = struct{}{}
}

// LanguagesSorted serializes the language set as a sorted list.
func (m ConversationMetadata) LanguagesSorted() []string { return sortedKeys(m.LanguagesUsed) }

// SourcesSorted serializes the source set as a sorted list.
func (m ConversationMetadata) SourcesSorted() []string { return sortedKeys(m.SourcesUsed) }

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	// insertion sort is fine; these sets are small (<= 18 languages, a
	// handful of source tags per conversation)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] > out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

// Conversation is a bounded per-conversation message log.
type Conversation struct {
	ID        string
	CreatedAt time.Time
	UpdatedAt time.Time
	Messages  []Message
	Metadata  ConversationMetadata
}
