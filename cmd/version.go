package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/batch-collage/internal/export"
	"github.com/kozaktomas/batch-collage/internal/loader"
)

// Set by -ldflags at build time.
var (
	Version   = "dev"
	CommitSHA = "unknown"
	BuildDate = "unknown"
)

// VersionInfo is the build and capability report printed by version.
type VersionInfo struct {
	Version   string          `json:"version"`
	Commit    string          `json:"commit"`
	BuildDate string          `json:"build_date"`
	Go        string          `json:"go"`
	Inputs    []string        `json:"inputs"`
	Outputs   []export.Format `json:"outputs"`
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version and supported image formats",
	RunE: func(cmd *cobra.Command, args []string) error {
		info := VersionInfo{
			Version:   Version,
			Commit:    CommitSHA,
			BuildDate: BuildDate,
			Go:        runtime.Version(),
			Inputs:    loader.Extensions,
			Outputs:   export.Formats,
		}
		if mustGetBool(cmd, "json") {
			return outputJSON(info)
		}

		fmt.Printf("batch-collage %s (%s, built %s, %s)\n", info.Version, info.Commit, info.BuildDate, info.Go)
		fmt.Printf("  Reads:  %v\n", info.Inputs)
		fmt.Printf("  Writes: %v\n", info.Outputs)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().Bool("json", false, "Output as JSON")
}
