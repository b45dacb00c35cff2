package llm

import (
	"context"
	"fmt"

	"github.com/Zburns31/AtlasTravelAssistant/internal/config"
)

// Resolve turns the configured provider, model identifier, and credential
// into one reusable ChatModel. Call it once at startup; the returned
// handle is read-only afterwards and safe for concurrent use.
func Resolve(ctx context.Context, cfg config.Config) (ChatModel, error) {
	switch cfg.Provider {
	case config.ProviderOpenRouter:
		return NewOpenRouter(cfg.Model, cfg.OpenRouterAPIKey, cfg.OpenRouterBaseURL)
	case config.ProviderGemini:
		return NewGemini(ctx, cfg.GeminiAPIKey, cfg.Model)
	default:
		return nil, fmt.Errorf("llm: unknown provider %q", cfg.Provider)
	}
}
