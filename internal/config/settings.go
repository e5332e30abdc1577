package config

import (
	"errors"
	"fmt"

	"github.com/kozaktomas/batch-collage/internal/constants"
)

// ErrInvalidSettings is returned when collage settings are out of range.
var ErrInvalidSettings = errors.New("invalid settings")

// Settings are the user-adjustable collage parameters, applied uniformly to
// every collage.
type Settings struct {
	FrameSize        int  `json:"frame_size" yaml:"frame_size"`
	PhotosPerCollage int  `json:"photos_per_collage" yaml:"photos_per_collage"`
	ShowFilenames    bool `json:"show_filenames" yaml:"show_filenames"`
}

// Validate checks the frame size and batch size ranges.
func (s Settings) Validate() error {
	if s.FrameSize < 0 || s.FrameSize > constants.MaxFrameSize {
		return fmt.Errorf("%w: frame size %d must be between 0 and %d", ErrInvalidSettings, s.FrameSize, constants.MaxFrameSize)
	}
	if s.PhotosPerCollage < 1 {
		return fmt.Errorf("%w: photos per collage %d must be positive", ErrInvalidSettings, s.PhotosPerCollage)
	}
	return nil
}

// SettingsPatch is a partial settings update; nil fields are left unchanged.
type SettingsPatch struct {
	FrameSize        *int  `json:"frame_size,omitempty" yaml:"frame_size"`
	PhotosPerCollage *int  `json:"photos_per_collage,omitempty" yaml:"photos_per_collage"`
	ShowFilenames    *bool `json:"show_filenames,omitempty" yaml:"show_filenames"`
}

// Apply returns s with the patch applied. The result is not validated.
func (p SettingsPatch) Apply(s Settings) Settings {
	if p.FrameSize != nil {
		s.FrameSize = *p.FrameSize
	}
	if p.PhotosPerCollage != nil {
		s.PhotosPerCollage = *p.PhotosPerCollage
	}
	if p.ShowFilenames != nil {
		s.ShowFilenames = *p.ShowFilenames
	}
	return s
}
