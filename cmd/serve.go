package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/batch-collage/internal/config"
	"github.com/kozaktomas/batch-collage/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server",
	Long: `Start the Batch Collage web server.
The API accepts photo uploads, renders the collages and takes pointer events
for panning and swapping photos.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Int("port", 8080, "Port to listen on")
	serveCmd.Flags().String("host", "0.0.0.0", "Host to bind to")
	serveCmd.Flags().String("provider", "", "AI provider for theme suggestions: openai, gemini, ollama, llamacpp (defaults to AI_PROVIDER)")
}

// resolveServeHostPort resolves port and host from flags, falling back to the
// environment when a flag is not set.
func resolveServeHostPort(cmd *cobra.Command, cfg *config.Config) (int, string) {
	port := mustGetInt(cmd, "port")
	host := mustGetString(cmd, "host")

	if !cmd.Flags().Changed("port") {
		port = cfg.Web.Port
	}
	if !cmd.Flags().Changed("host") {
		host = cfg.Web.Host
	}
	return port, host
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	provider := mustGetString(cmd, "provider")
	if provider == "" {
		provider = cfg.AI.Provider
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ws, err := newWorkspace(ctx, cfg, provider, cfg.Collage.Settings)
	if err != nil {
		return err
	}

	port, host := resolveServeHostPort(cmd, cfg)
	server := web.NewServer(cfg, ws, port, host)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Println("\nShutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("Error during shutdown", "error", err)
		}
	}()

	fmt.Printf("Starting Batch Collage on http://%s:%d\n", host, port)
	fmt.Println("Press Ctrl+C to stop")

	if err := server.Start(); err != nil {
		return fmt.Errorf("starting server: %w", err)
	}
	return nil
}
