// Package gateway turns a bounded conversation history into one outbound
// call to a remote text-completion API. Every failure path degrades to a
// user-presentable fallback string; nothing here returns an error to the
// chat handler.
package gateway

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"

	"go.uber.org/zap"
)

// historyWindow is how many trailing history entries are replayed into the
// prompt ahead of the new user message.
const historyWindow = 8

// Fallback replies. Chat failures always surface as one of these, never as
// an error.
const (
	TimeoutFallback = "Ops, demorei um pouco para responder. Pode repetir sua pergunta?"
	GenericFallback = "Tive um probleminha técnico. Pode tentar novamente?"
)

// Message is one role-tagged prompt entry.
type Message struct {
	Role    string
	Content string
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// CompletionRequest is the provider-agnostic form of one completion call.
type CompletionRequest struct {
	System      string
	Messages    []Message
	Model       string
	Temperature float32
	TopP        float32
	MaxTokens   int
}

// Provider performs the actual API call. Implementations exist for Groq
// (OpenAI-compatible) and Anthropic.
type Provider interface {
	Name() string
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// Options are the fixed sampling parameters sent with every call.
type Options struct {
	Model       string
	Temperature float32
	TopP        float32
	MaxTokens   int
	Timeout     time.Duration
}

// Gateway assembles prompts and calls one Provider. Stateless between
// calls; the conversation lives entirely in the history handed in.
type Gateway struct {
	provider     Provider
	systemPrompt string
	opts         Options
	log          *zap.Logger
}

func New(provider Provider, systemPrompt string, opts Options, log *zap.Logger) *Gateway {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 250
	}
	return &Gateway{
		provider:     provider,
		systemPrompt: systemPrompt,
		opts:         opts,
		log:          log,
	}
}

// GetResponse sends the system prompt, the most recent eight history
// entries and the new user message, and returns the generated reply. On
// timeout it returns TimeoutFallback; on any other failure it logs and
// returns GenericFallback. No retries.
func (g *Gateway) GetResponse(ctx context.Context, message string, history []Message) string {
	recent := history
	if len(recent) > historyWindow {
		recent = recent[len(recent)-historyWindow:]
	}

	messages := make([]Message, 0, len(recent)+1)
	messages = append(messages, recent...)
	messages = append(messages, Message{Role: RoleUser, Content: message})

	ctx, cancel := context.WithTimeout(ctx, g.opts.Timeout)
	defer cancel()

	text, err := g.provider.Complete(ctx, CompletionRequest{
		System:      g.systemPrompt,
		Messages:    messages,
		Model:       g.opts.Model,
		Temperature: g.opts.Temperature,
		TopP:        g.opts.TopP,
		MaxTokens:   g.opts.MaxTokens,
	})
	if err != nil {
		if isTimeout(err) {
			g.log.Warn("completion timed out", zap.String("provider", g.provider.Name()))
			return TimeoutFallback
		}
		g.log.Warn("completion failed",
			zap.String("provider", g.provider.Name()), zap.Error(err))
		return GenericFallback
	}

	return strings.TrimSpace(text)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
