package llm

import (
	"context"
)

// Message represents a chat message in a provider-agnostic format.
// A message may carry an image next to its text, either by URL or as
// inline base64-encoded bytes.
type Message struct {
	Role     string // "user", "assistant", "system"
	Content  string
	ImageURL string
	ImageB64 string
}

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // Override default model
	APIKey      string // Per-session service key
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

func WithAPIKey(key string) Option {
	return func(o *Options) {
		o.APIKey = key
	}
}

// Provider defines the contract for the external generative service.
// Both calls block until the service answers or fails; nothing is
// retried here.
type Provider interface {
	// Chat sends a chat history (optionally with embedded images) and
	// returns the free-text response.
	Chat(ctx context.Context, history []Message, options ...Option) (string, error)

	// GenerateImage sends a text prompt to the image endpoint and
	// returns a reference (URL) to the generated image.
	GenerateImage(ctx context.Context, prompt string, options ...Option) (string, error)
}
