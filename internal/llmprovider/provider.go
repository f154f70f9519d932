// Package llmprovider defines the narrow completion interface shared by the
// language detector/translator and the answer generator, and a
// factory selecting a concrete backend. Deliberately thinner than a full
// agentic provider surface (no tool calls, no streaming) because neither
// caller needs them.
package llmprovider

import "context"

// Completion is the result of one blocking call to the generator or
// translator LLM.
type Completion struct {
	Text         string
	InputTokens  int
	OutputTokens int
}

// Provider is a blocking text completion backend. Implementations must
// honor ctx's deadline and return promptly on cancellation.
type Provider interface {
	Complete(ctx context.Context, prompt string) (Completion, error)
}

// Func adapts a plain function to Provider, used for tests and for wiring
// the canned/degraded paths.
type Func func(ctx context.Context, prompt string) (Completion, error)

func (f Func) Complete(ctx context.Context, prompt string) (Completion, error) { return f(ctx, prompt) }
