package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/batch-collage/internal/ai"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <path>...",
	Short: "Suggest a title and theme for a set of photos",
	Long: `Send the first few photos to an AI provider and print the suggested
title, theme, vibe and color palette. Without a provider the configured
defaults are printed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().String("provider", "", "AI provider: openai, gemini, ollama, llamacpp (defaults to AI_PROVIDER)")
	analyzeCmd.Flags().Bool("json", false, "Output as JSON")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	provider := mustGetString(cmd, "provider")
	if provider == "" {
		provider = cfg.AI.Provider
	}
	jsonOutput := mustGetBool(cmd, "json")

	ctx := context.Background()
	ws, err := newWorkspace(ctx, cfg, provider, cfg.Collage.Settings)
	if err != nil {
		return err
	}
	if !ws.SuggesterEnabled() && !jsonOutput {
		fmt.Println("No AI provider configured, showing defaults")
	}

	imported, err := importFiles(ctx, ws, args, jsonOutput)
	if err != nil {
		return err
	}
	if len(imported.Added) == 0 {
		return errors.New("none of the images could be decoded")
	}

	analysis := ws.SuggestTheme(ctx)
	if jsonOutput {
		return outputJSON(analysis)
	}
	printAnalysis(analysis)
	if ws.SuggesterEnabled() {
		usage := ws.ThemeUsage()
		fmt.Printf("\nTokens:  %d in, %d out over %d requests\n", usage.InputTokens, usage.OutputTokens, usage.Requests)
	}
	return nil
}

func printAnalysis(a ai.ThemeAnalysis) {
	fmt.Printf("Title:   %s\n", a.Title)
	fmt.Printf("Theme:   %s\n", a.Theme)
	fmt.Printf("Vibe:    %s\n", a.Vibe)
	fmt.Printf("Palette: %s\n", strings.Join(a.ColorPalette, ", "))
}
