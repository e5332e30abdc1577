package ai

import (
	"context"
	"image"
	"log/slog"
	"slices"
	"time"

	"github.com/kozaktomas/batch-collage/internal/config"
	"github.com/kozaktomas/batch-collage/internal/constants"
)

// Suggester turns an optional analyzer into an always-successful theme
// suggestion source.
type Suggester struct {
	analyzer ThemeAnalyzer
	defaults config.ThemeDefaults
	timeout  time.Duration
}

// NewSuggester creates a suggester. analyzer may be nil, in which case every
// suggestion is the fallback.
func NewSuggester(analyzer ThemeAnalyzer, defaults config.ThemeDefaults, timeout time.Duration) *Suggester {
	return &Suggester{
		analyzer: analyzer,
		defaults: defaults,
		timeout:  timeout,
	}
}

// Enabled reports whether an analyzer is configured.
func (s *Suggester) Enabled() bool {
	return s != nil && s.analyzer != nil
}

func fromResult(r config.ThemeResult) ThemeAnalysis {
	return ThemeAnalysis{
		Title:        r.Title,
		Theme:        r.Theme,
		Vibe:         r.Vibe,
		ColorPalette: slices.Clone(r.ColorPalette),
	}
}

// Usage returns the analyzer's accumulated token usage.
func (s *Suggester) Usage() Usage {
	if !s.Enabled() {
		return Usage{}
	}
	return s.analyzer.GetUsage()
}

// Fallback returns the suggestion used when analysis is unavailable.
func (s *Suggester) Fallback() ThemeAnalysis {
	return fromResult(s.defaults.Fallback)
}

// Suggest analyzes up to the first three images. It never fails: analyzer
// errors and timeouts produce the fallback, and fields missing from a
// successful analysis are filled from the partial defaults.
func (s *Suggester) Suggest(ctx context.Context, images []image.Image) ThemeAnalysis {
	if !s.Enabled() || len(images) == 0 {
		return s.Fallback()
	}

	sample := images[:min(len(images), constants.AnalysisSampleSize)]
	encoded := make([][]byte, 0, len(sample))
	for i, img := range sample {
		data, err := ResizeImage(img, constants.AnalysisImageSize)
		if err != nil {
			slog.Warn("Skipping photo for theme analysis", "index", i, "error", err)
			continue
		}
		encoded = append(encoded, data)
	}
	if len(encoded) == 0 {
		return s.Fallback()
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	analysis, err := s.analyzer.AnalyzeTheme(ctx, encoded)
	if err != nil || analysis == nil {
		slog.Warn("Theme analysis failed, using fallback", "provider", s.analyzer.Name(), "error", err)
		return s.Fallback()
	}
	usage := s.analyzer.GetUsage()
	slog.Debug("Theme analysis finished",
		"provider", s.analyzer.Name(),
		"photos", len(encoded),
		"duration", time.Since(start),
		"input_tokens", usage.InputTokens,
		"output_tokens", usage.OutputTokens)

	return s.complete(*analysis)
}

func (s *Suggester) complete(a ThemeAnalysis) ThemeAnalysis {
	partial := s.defaults.Partial
	if a.Title == "" {
		a.Title = partial.Title
	}
	if a.Theme == "" {
		a.Theme = partial.Theme
	}
	if a.Vibe == "" {
		a.Vibe = partial.Vibe
	}
	if len(a.ColorPalette) == 0 {
		a.ColorPalette = slices.Clone(partial.ColorPalette)
	}
	return a
}
