package gateway

import (
	"context"
	"fmt"

	"github.com/liushuangls/go-anthropic/v2"
)

// AnthropicProvider calls the Anthropic Messages API. Same contract as the
// Groq provider; the system prompt travels in the request's System field.
type AnthropicProvider struct {
	client *anthropic.Client
}

func NewAnthropicProvider(apiKey string) (*AnthropicProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	return &AnthropicProvider{client: anthropic.NewClient(apiKey)}, nil
}

func (p *AnthropicProvider) Name() string {
	return "anthropic"
}

func (p *AnthropicProvider) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	messages := make([]anthropic.Message, 0, len(req.Messages))
	for _, msg := range req.Messages {
		if msg.Role == RoleAssistant {
			messages = append(messages, anthropic.NewAssistantTextMessage(msg.Content))
			continue
		}
		messages = append(messages, anthropic.NewUserTextMessage(msg.Content))
	}

	temperature := req.Temperature
	topP := req.TopP

	resp, err := p.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:       anthropic.Model(req.Model),
		System:      req.System,
		Messages:    messages,
		MaxTokens:   req.MaxTokens,
		Temperature: &temperature,
		TopP:        &topP,
	})
	if err != nil {
		return "", fmt.Errorf("anthropic API error: %w", err)
	}

	return resp.GetFirstContentText(), nil
}
