package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/kozaktomas/batch-collage/internal/ai"
	"github.com/kozaktomas/batch-collage/internal/config"
	"github.com/kozaktomas/batch-collage/internal/workspace"
)

var (
	configFile string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "batch-collage",
	Short: "Arrange photos into batches of square collages",
	Long: `Batch Collage splits a set of photos into fixed-size batches and lays
each batch out as a square collage. Photos can be panned, rotated and swapped
between collages in the web UI, or rendered straight to disk from the CLI.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "YAML file with collage settings")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides LOG_LEVEL)")
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()
}

// loadConfig reads the configuration and installs the default logger.
func loadConfig() (*config.Config, error) {
	cfg := config.Load()
	if configFile != "" {
		if err := cfg.ApplyFile(configFile); err != nil {
			return nil, err
		}
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.Log.SlogLevel(),
	})))
	return cfg, nil
}

// newWorkspace creates a workspace from the configuration, with theme
// suggestions from provider when one is named.
func newWorkspace(ctx context.Context, cfg *config.Config, provider string, settings config.Settings) (*workspace.Workspace, error) {
	analyzer, err := ai.NewAnalyzer(ctx, cfg, provider)
	if err != nil {
		return nil, fmt.Errorf("creating theme analyzer: %w", err)
	}
	if analyzer != nil {
		slog.Info("Theme suggestions enabled", "provider", provider, "model", analyzer.Name())
	}

	ws, err := workspace.New(
		workspace.WithSettings(settings),
		workspace.WithCanvasSize(cfg.Collage.CanvasSize),
		workspace.WithDecodeConcurrency(cfg.Collage.DecodeConcurrency),
		workspace.WithSuggester(ai.NewSuggester(analyzer, cfg.Theme, cfg.AI.Timeout)),
	)
	if err != nil {
		return nil, fmt.Errorf("creating workspace: %w", err)
	}
	return ws, nil
}

func outputJSON(data any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}
	return nil
}
