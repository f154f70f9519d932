package llmprovider

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/openai/openai-go/v2"
	oaioption "github.com/openai/openai-go/v2/option"
	"google.golang.org/genai"
)

// Config selects and parameterizes one provider behind a single
// factory keyed on a provider-name field (internal/llm/providers/factory.go).
type Config struct {
	Provider  string // "anthropic" | "openai" | "google"
	APIKey    string
	Model     string
	MaxTokens int
}

// Build constructs a Provider from cfg. Exactly one of the three SDKs is
// instantiated; unused ones are never imported into the binary's hot path
// but their client types are still exercised here so the dependency is real
// rather than vestigial.
func Build(cfg Config) (Provider, error) {
	switch cfg.Provider {
	case "", "anthropic":
		return &anthropicProvider{
			client: anthropic.NewClient(option.WithAPIKey(cfg.APIKey)),
			model:  anthropic.Model(orDefault(cfg.Model, "claude-3-5-haiku-latest")),
			maxTok: int64(orDefaultInt(cfg.MaxTokens, 800)),
		}, nil
	case "openai":
		return &openAIProvider{
			client: openai.NewClient(oaioption.WithAPIKey(cfg.APIKey)),
			model:  orDefault(cfg.Model, "gpt-4o-mini"),
			maxTok: int64(orDefaultInt(cfg.MaxTokens, 800)),
		}, nil
	case "google":
		client, err := genai.NewClient(context.Background(), &genai.ClientConfig{APIKey: cfg.APIKey})
		if err != nil {
			return nil, fmt.Errorf("llmprovider: build google client: %w", err)
		}
		return &googleProvider{
			client: client,
			model:  orDefault(cfg.Model, "gemini-2.0-flash"),
		}, nil
	default:
		return nil, fmt.Errorf("llmprovider: unsupported provider %q", cfg.Provider)
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func orDefaultInt(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

type anthropicProvider struct {
	client anthropic.Client
	model  anthropic.Model
	maxTok int64
}

func (p *anthropicProvider) Complete(ctx context.Context, prompt string) (Completion, error) {
	msg, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     p.model,
		MaxTokens: p.maxTok,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return Completion{}, err
	}
	var text string
	for _, block := range msg.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}
	return Completion{
		Text:         text,
		InputTokens:  int(msg.Usage.InputTokens),
		OutputTokens: int(msg.Usage.OutputTokens),
	}, nil
}

type openAIProvider struct {
	client openai.Client
	model  string
	maxTok int64
}

func (p *openAIProvider) Complete(ctx context.Context, prompt string) (Completion, error) {
	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:               p.model,
		MaxCompletionTokens: openai.Int(p.maxTok),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return Completion{}, err
	}
	if len(resp.Choices) == 0 {
		return Completion{}, fmt.Errorf("llmprovider: openai returned no choices")
	}
	return Completion{
		Text:         resp.Choices[0].Message.Content,
		InputTokens:  int(resp.Usage.PromptTokens),
		OutputTokens: int(resp.Usage.CompletionTokens),
	}, nil
}

type googleProvider struct {
	client *genai.Client
	model  string
}

func (p *googleProvider) Complete(ctx context.Context, prompt string) (Completion, error) {
	resp, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(prompt), nil)
	if err != nil {
		return Completion{}, err
	}
	return Completion{Text: resp.Text()}, nil
}
