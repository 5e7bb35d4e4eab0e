package ai

import (
	"context"
	"github.com/myrjola/guessthechild/internal/errors"
	"log/slog"
)

var (
	ErrMissingAPIKey   = errors.NewSentinel("API key not set")
	ErrUnknownProvider = errors.NewSentinel("unknown captioning provider")
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Config selects and configures the captioning service.
type Config struct {
	// Provider is ProviderGemini or ProviderOpenAI.
	Provider     string
	GeminiAPIKey string
	OpenAIAPIKey string
	// BaseURL overrides the provider endpoint, empty means the public API.
	BaseURL string
}

// NewCaptioner creates the captioner for the configured provider. A missing API key for the chosen provider is
// reported as ErrMissingAPIKey so that callers can refuse to start.
func NewCaptioner(ctx context.Context, cfg Config) (Captioner, error) {
	switch cfg.Provider {
	case ProviderGemini:
		if cfg.GeminiAPIKey == "" {
			return nil, errors.Wrap(ErrMissingAPIKey, "new captioner", slog.String("env", "GEMINI_API_KEY"))
		}
		gemini, err := NewGemini(ctx, cfg.GeminiAPIKey, cfg.BaseURL)
		if err != nil {
			return nil, errors.Wrap(err, "new gemini captioner")
		}
		return gemini, nil
	case ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, errors.Wrap(ErrMissingAPIKey, "new captioner", slog.String("env", "OPENAI_API_KEY"))
		}
		return NewOpenAI(cfg.OpenAIAPIKey, cfg.BaseURL), nil
	default:
		return nil, errors.Wrap(ErrUnknownProvider, "new captioner", slog.String("provider", cfg.Provider))
	}
}
