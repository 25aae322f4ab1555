package agent

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// ChatOptions configures one LM invocation: sampling temperature and token
// budget, the configuration surface around the narrow "chat(prompt) -> text"
// capability the core consumes from the transport.
type ChatOptions struct {
	Model string
	Temperature float64
	MaxTokens int
}

// Chat is the capability every phase agent's prompt is sent through. It is
// intentionally narrow: one prompt in, one completion out.
type Chat interface {
	Chat(ctx context.Context, prompt string, opts ChatOptions) (string, error)
}

// AnthropicChat is the default Chat implementation, talking to the Anthropic
// Messages API via the official SDK. It is the concrete collaborator wired
// at the CLI composition root; nothing in internal/agent's runtime or phase
// agents depends on it directly, so it can be swapped for a fake in tests or
// for a different provider entirely.
type AnthropicChat struct {
	client anthropic.Client
}

// NewAnthropicChat builds an AnthropicChat using apiKey, or the SDK's default
// ANTHROPIC_API_KEY environment lookup when apiKey is empty.
func NewAnthropicChat(apiKey string) *AnthropicChat {
	var opts []option.RequestOption
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	}
	return &AnthropicChat{client: anthropic.NewClient(opts...)}
}

// Chat implements Chat.
func (a *AnthropicChat) Chat(ctx context.Context, prompt string, opts ChatOptions) (string, error) {
	model := anthropic.Model(opts.Model)
	if opts.Model == "" {
		model = anthropic.ModelClaudeSonnet4_5
	}
	maxTokens := int64(opts.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = 4096
	}

	msg, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
			Model: model,
			MaxTokens: maxTokens,
			Temperature: anthropic.Float(opts.Temperature),
			Messages: []anthropic.MessageParam{
				anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
			},
	})
	if err != nil {
		return "", fmt.Errorf("agent: anthropic chat: %w", err)
	}

	var out string
	for _, block := range msg.Content {
		if block.Type == "text" {
			out += block.Text
		}
	}
	return out, nil
}
