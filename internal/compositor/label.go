package compositor

import (
	"image/color"
	"log/slog"
	"math"

	"git.sr.ht/~sbinet/gg"
	"golang.org/x/text/unicode/norm"

	"github.com/kozaktomas/batch-collage/internal/constants"
)

const ellipsis = "..."

// labelMetrics returns the band height and font size for a cell height.
func labelMetrics(cellHeight float64) (bandHeight, fontSize float64) {
	bandHeight = math.Max(24, math.Min(cellHeight*0.15, 48))
	fontSize = math.Max(12, math.Min(cellHeight*0.08, 22))
	// Whole points keep the face cache small.
	return bandHeight, math.Round(fontSize)
}

// fitLabel shortens name rune by rune and appends an ellipsis until it fits
// within maxWidth according to measure.
func fitLabel(name string, maxWidth float64, measure func(string) float64) string {
	name = norm.NFC.String(name)
	if measure(name) <= maxWidth {
		return name
	}
	runes := []rune(name)
	for len(runes) > 0 && measure(string(runes)+ellipsis) > maxWidth {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + ellipsis
}

func (c *Compositor) drawLabel(dc *gg.Context, name string, w, h, cellHeight float64) {
	bandHeight, fontSize := labelMetrics(cellHeight)

	dc.SetColor(color.NRGBA{A: uint8(math.Round(constants.LabelBandAlpha * 255))})
	dc.DrawRectangle(0, h-bandHeight, w, bandHeight)
	dc.Fill()

	if name == "" {
		return
	}
	face, err := c.face(fontSize)
	if err != nil {
		slog.Warn("Skipping collage label", "name", name, "error", err)
		return
	}
	dc.SetFontFace(face)
	dc.SetColor(color.White)

	text := fitLabel(name, w*constants.LabelWidthRatio, func(s string) float64 {
		width, _ := dc.MeasureString(s)
		return width
	})
	dc.DrawStringAnchored(text, w/2, h-bandHeight/2, 0.5, 0.5)
}
