package ai

import (
	"context"
	"errors"
	"fmt"

	"github.com/kozaktomas/batch-collage/internal/config"
	"github.com/kozaktomas/batch-collage/internal/constants"
)

// NewAnalyzer creates the analyzer selected by providerName. An empty name or
// "none" disables analysis and returns nil.
func NewAnalyzer(ctx context.Context, cfg *config.Config, providerName string) (ThemeAnalyzer, error) {
	switch providerName {
	case "", "none":
		return nil, nil
	case constants.ProviderOpenAI:
		if cfg.OpenAI.Token == "" {
			return nil, errors.New("OPENAI_TOKEN environment variable is required")
		}
		return NewOpenAIProvider(cfg.OpenAI.Token, cfg.OpenAI.Model), nil
	case constants.ProviderGemini:
		if cfg.Gemini.APIKey == "" {
			return nil, errors.New("GEMINI_API_KEY environment variable is required")
		}
		p, err := NewGeminiProvider(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
		if err != nil {
			return nil, fmt.Errorf("creating Gemini provider: %w", err)
		}
		return p, nil
	case constants.ProviderOllama:
		return NewOllamaProvider(cfg.Ollama.URL, cfg.Ollama.Model), nil
	case constants.ProviderLlamaCpp:
		p, err := NewLlamaCppProvider(cfg.LlamaCpp.URL, cfg.LlamaCpp.Model)
		if err != nil {
			return nil, fmt.Errorf("creating llama.cpp provider: %w", err)
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unknown provider: %s (supported: openai, gemini, ollama, llamacpp)", providerName)
	}
}
