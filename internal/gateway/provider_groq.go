package gateway

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

const groqBaseURL = "https://api.groq.com/openai/v1"

// GroqProvider calls Groq's OpenAI-compatible chat completions endpoint.
type GroqProvider struct {
	client *openai.Client
}

// NewGroqProvider creates a Groq provider. baseURL overrides the public
// endpoint, which the tests use to point at a stub server.
func NewGroqProvider(apiKey, baseURL string) (*GroqProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if baseURL == "" {
		baseURL = groqBaseURL
	}

	config := openai.DefaultConfig(apiKey)
	config.BaseURL = baseURL

	return &GroqProvider{client: openai.NewClientWithConfig(config)}, nil
}

func (p *GroqProvider) Name() string {
	return "groq"
}

func (p *GroqProvider) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages)+1)

	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}

	for _, msg := range req.Messages {
		role := openai.ChatMessageRoleUser
		if msg.Role == RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    role,
			Content: msg.Content,
		})
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       req.Model,
		Messages:    messages,
		Temperature: req.Temperature,
		TopP:        req.TopP,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("groq API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("groq API returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}
