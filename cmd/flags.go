package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/batch-collage/internal/config"
)

// mustGetBool gets a bool flag value or panics if the flag doesn't exist.
// This is appropriate for flags defined in init() - errors indicate programming bugs.
func mustGetBool(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		panic(fmt.Sprintf("flag error for --%s: %v", name, err))
	}
	return val
}

// mustGetInt gets an int flag value or panics if the flag doesn't exist.
func mustGetInt(cmd *cobra.Command, name string) int {
	val, err := cmd.Flags().GetInt(name)
	if err != nil {
		panic(fmt.Sprintf("flag error for --%s: %v", name, err))
	}
	return val
}

// mustGetString gets a string flag value or panics if the flag doesn't exist.
func mustGetString(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		panic(fmt.Sprintf("flag error for --%s: %v", name, err))
	}
	return val
}

// addSettingsFlags registers the collage settings flags.
func addSettingsFlags(cmd *cobra.Command) {
	cmd.Flags().Int("frame-size", 0, "Outer margin and gap between photos in pixels (0-100)")
	cmd.Flags().Int("per-collage", 0, "Number of photos per collage")
	cmd.Flags().Bool("show-filenames", false, "Print file names over the photos")
}

// settingsFromFlags overlays the settings flags that were set on s.
func settingsFromFlags(cmd *cobra.Command, s config.Settings) (config.Settings, error) {
	var patch config.SettingsPatch
	if cmd.Flags().Changed("frame-size") {
		v := mustGetInt(cmd, "frame-size")
		patch.FrameSize = &v
	}
	if cmd.Flags().Changed("per-collage") {
		v := mustGetInt(cmd, "per-collage")
		patch.PhotosPerCollage = &v
	}
	if cmd.Flags().Changed("show-filenames") {
		v := mustGetBool(cmd, "show-filenames")
		patch.ShowFilenames = &v
	}

	s = patch.Apply(s)
	if err := s.Validate(); err != nil {
		return config.Settings{}, err
	}
	return s, nil
}
