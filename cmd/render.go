package cmd

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/kozaktomas/batch-collage/internal/export"
	"github.com/kozaktomas/batch-collage/internal/loader"
	"github.com/kozaktomas/batch-collage/internal/workspace"
)

var renderCmd = &cobra.Command{
	Use:   "render <path>...",
	Short: "Render collages from photos on disk",
	Long: `Render collages from image files and folders.
Folders are walked for supported images, which are arranged in name
order. Each batch becomes one collage, written as
collage-<n>.<ext> into the output folder or into a single ZIP archive.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringP("output", "o", ".", "Folder to write the collages to")
	renderCmd.Flags().String("zip", "", "Write all collages into this ZIP archive instead of a folder")
	renderCmd.Flags().String("format", "png", "Image format: png, jpeg, bmp, tiff")
	renderCmd.Flags().Bool("json", false, "Output the result as JSON")
	addSettingsFlags(renderCmd)
}

// RenderResult summarizes a render run.
type RenderResult struct {
	Photos   int                     `json:"photos"`
	Collages int                     `json:"collages"`
	Files    []string                `json:"files"`
	Errors   []workspace.ImportError `json:"errors,omitempty"`
}

// importFiles expands paths and imports the images into ws, showing decode
// progress unless quiet is set.
func importFiles(ctx context.Context, ws *workspace.Workspace, paths []string, quiet bool) (workspace.ImportResult, error) {
	files, err := loader.Expand(paths)
	if err != nil {
		return workspace.ImportResult{}, err
	}
	if len(files) == 0 {
		return workspace.ImportResult{}, errors.New("no supported images found")
	}

	sources := make([]loader.Source, len(files))
	for i, f := range files {
		sources[i] = loader.FileSource(f)
	}

	events := ws.Events()
	eventCh := events.AddListener()
	defer events.RemoveListener(eventCh)

	var bar *progressbar.ProgressBar
	if !quiet {
		bar = progressbar.NewOptions(len(sources),
			progressbar.OptionSetDescription("Decoding"),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
			progressbar.OptionSetItsString("photos"),
			progressbar.OptionShowElapsedTimeOnFinish(),
			progressbar.OptionSetPredictTime(true),
			progressbar.OptionFullWidth(),
		)
	}

	imp := ws.Import(ctx, sources)
	for done := false; !done; {
		select {
		case event := <-eventCh:
			if progress, ok := event.Data.(map[string]int); ok && event.Type == workspace.EventImportProgress && bar != nil {
				_ = bar.Set(progress["done"])
			}
		case <-imp.Done():
			done = true
		}
	}
	if bar != nil {
		_ = bar.Finish()
		fmt.Println()
	}

	return imp.Wait(ctx)
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	format, err := export.ParseFormat(mustGetString(cmd, "format"))
	if err != nil {
		return err
	}
	settings, err := settingsFromFlags(cmd, cfg.Collage.Settings)
	if err != nil {
		return err
	}
	jsonOutput := mustGetBool(cmd, "json")

	ctx := context.Background()
	ws, err := newWorkspace(ctx, cfg, "", settings)
	if err != nil {
		return err
	}

	imported, err := importFiles(ctx, ws, args, jsonOutput)
	if err != nil {
		return err
	}
	for _, e := range imported.Errors {
		slog.Warn("Skipped file", "name", e.Name, "error", e.Error)
	}
	if len(imported.Added) == 0 {
		return errors.New("none of the images could be decoded")
	}

	images := ws.Snapshot()
	result := RenderResult{
		Photos:   len(imported.Added),
		Collages: len(images),
		Errors:   imported.Errors,
	}

	if zipPath := mustGetString(cmd, "zip"); zipPath != "" {
		if err := writeZip(zipPath, images, format); err != nil {
			return err
		}
		result.Files = []string{zipPath}
	} else {
		result.Files, err = export.WriteDir(mustGetString(cmd, "output"), images, format)
		if err != nil {
			return err
		}
	}

	if jsonOutput {
		return outputJSON(result)
	}
	fmt.Printf("Rendered %d photos into %d collages\n", result.Photos, result.Collages)
	for _, f := range result.Files {
		fmt.Printf("  %s\n", f)
	}
	return nil
}

func writeZip(path string, images []image.Image, format export.Format) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output folder: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create archive: %w", err)
	}
	if err := export.WriteArchive(f, images, format); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close archive: %w", err)
	}
	return nil
}
