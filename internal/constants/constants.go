// Package constants provides shared constants used across the codebase.
// Centralizing these values ensures consistency and makes them easier to modify.
package constants

// Canvas constants
const (
	// CanvasSize is the width and height of every collage canvas in pixels
	CanvasSize = 1200

	// DefaultFrameSize is the default outer margin and inner gap in pixels
	DefaultFrameSize = 20

	// MaxFrameSize is the largest frame size accepted from settings
	MaxFrameSize = 100

	// DefaultPhotosPerCollage is the default batch size
	DefaultPhotosPerCollage = 2
)

// Compositing constants
const (
	// CornerRadius is the rounded-corner radius of each cell when the frame is non-zero
	CornerRadius = 12

	// SwapSourceOpacity is the opacity of a cell while it is being dragged for a swap
	SwapSourceOpacity = 0.2

	// GhostOpacity is the opacity of the floating copy of the dragged cell
	GhostOpacity = 0.85

	// GhostShadowBlur is the blur extent of the ghost's drop shadow in pixels
	GhostShadowBlur = 40

	// GhostShadowAlpha is the opacity of the ghost's drop shadow
	GhostShadowAlpha = 0.4

	// LabelBandAlpha is the opacity of the black band behind file names
	LabelBandAlpha = 0.45

	// LabelWidthRatio is the share of the cell width available to a file name
	LabelWidthRatio = 0.9
)

// Analysis constants
const (
	// AnalysisSampleSize is the number of photos sent for theme analysis
	AnalysisSampleSize = 3

	// AnalysisImageSize is the maximum dimension of images sent for analysis
	AnalysisImageSize = 800
)
