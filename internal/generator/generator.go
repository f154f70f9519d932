// Package generator builds the multilingual prompt and invokes the
// external LLM. The prompt has two parts: a language preamble pinning the
// reply to the target language, and an English body selected by intent
// with the retrieved documents interpolated in their original RU/EN.
package generator

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/anastasianlp/georgian-rag/internal/contextassembler"
	"github.com/anastasianlp/georgian-rag/internal/llmprovider"
)

// DefaultTimeout bounds one generation call.
const DefaultTimeout = 30 * time.Second

// Output is one generation outcome. ErrorType is "" on success, "timeout"
// when the canned timeout reply was substituted, "generation_failed" for
// other failures, and "no_results" for the no-information reply.
type Output struct {
	Response     string
	Language     string
	InputTokens  int
	OutputTokens int
	ErrorType    string
}

// Generator is the answer-generation stage.
type Generator struct {
	llm               llmprovider.Provider
	timeout           time.Duration
	disclaimerEnabled bool
}

// Option configures a Generator.
type Option func(*Generator)

// WithTimeout overrides the generation deadline.
func WithTimeout(d time.Duration) Option {
	return func(g *Generator) { g.timeout = d }
}

// WithDisclaimers toggles the disclaimer post-processing pass.
func WithDisclaimers(enabled bool) Option {
	return func(g *Generator) { g.disclaimerEnabled = enabled }
}

// New constructs a Generator over the given provider.
func New(llm llmprovider.Provider, opts ...Option) *Generator {
	g := &Generator{llm: llm, timeout: DefaultTimeout, disclaimerEnabled: true}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate produces the answer in the context's target language. Every
// failure path still yields a well-formed, localized Output.
func (g *Generator) Generate(ctx context.Context, assembled contextassembler.Context) Output {
	target := assembled.QueryInfo.TargetLanguage

	if len(assembled.Results) == 0 {
		return Output{Response: NoInfoMessage(target), Language: target, ErrorType: "no_results"}
	}

	prompt := BuildPrompt(assembled)

	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	completion, err := g.llm.Complete(callCtx, prompt)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			log.Error().Str("target", target).Msg("generation timed out")
			return Output{Response: TimeoutMessage(target), Language: target, ErrorType: "timeout"}
		}
		log.Error().Err(err).Str("target", target).Msg("generation failed")
		return Output{Response: ErrorMessage(target), Language: target, ErrorType: "generation_failed"}
	}

	text := completion.Text
	if g.disclaimerEnabled {
		text = addDisclaimers(text, target)
	}

	return Output{
		Response:     text,
		Language:     target,
		InputTokens:  completion.InputTokens,
		OutputTokens: completion.OutputTokens,
	}
}
