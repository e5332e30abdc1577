package ai

import (
	"context"
	_ "embed"
	"sync"
)

//go:embed prompts/theme_analysis.txt
var themeAnalysisPrompt string

// ThemeAnalysis is a suggested title and look for a photo collection.
type ThemeAnalysis struct {
	Title        string   `json:"title"`
	Theme        string   `json:"theme"`
	Vibe         string   `json:"vibe"`
	ColorPalette []string `json:"color_palette"`
}

// ThemeAnalyzer defines the interface for AI theme analysis backends.
type ThemeAnalyzer interface {
	Name() string
	// AnalyzeTheme receives JPEG encoded sample photos.
	AnalyzeTheme(ctx context.Context, images [][]byte) (*ThemeAnalysis, error)

	// GetUsage returns the tokens spent since the analyzer was created.
	GetUsage() Usage
}

// Usage tracks token usage.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
	Requests     int `json:"requests"`
}

// usageCounter is embedded by providers to track usage across concurrent
// requests.
type usageCounter struct {
	mu    sync.Mutex
	usage Usage
}

func (u *usageCounter) trackUsage(inputTokens, outputTokens int) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.usage.InputTokens += inputTokens
	u.usage.OutputTokens += outputTokens
	u.usage.Requests++
}

// GetUsage returns the accumulated token usage.
func (u *usageCounter) GetUsage() Usage {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.usage
}
