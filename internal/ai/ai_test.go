package ai

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"testing"
)

// Helper functions for creating test images

func createTestImage(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return img
}

func decodeSize(t *testing.T, data []byte) (int, int) {
	t.Helper()
	decodedImg, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("failed to decode resized image: %v", err)
	}
	if format != "jpeg" {
		t.Errorf("expected jpeg format, got %s", format)
	}
	bounds := decodedImg.Bounds()
	return bounds.Dx(), bounds.Dy()
}

// --- ResizeImage tests ---

func TestResizeImage_NoResizeNeeded(t *testing.T) {
	resized, err := ResizeImage(createTestImage(100, 100, color.White), 200)
	if err != nil {
		t.Fatalf("ResizeImage failed: %v", err)
	}

	if w, h := decodeSize(t, resized); w != 100 || h != 100 {
		t.Errorf("expected 100x100, got %dx%d", w, h)
	}
}

func TestResizeImage_NeedsResize(t *testing.T) {
	tests := []struct {
		name           string
		width, height  int
		maxSize        int
		expectedWidth  int
		expectedHeight int
	}{
		{"landscape", 2000, 1000, 500, 500, 250},
		{"portrait", 1000, 2000, 500, 250, 500},
		{"square", 1000, 1000, 200, 200, 200},
		{"4:3", 1600, 1200, 400, 400, 300},
		{"exactly max", 500, 500, 500, 500, 500},
		{"one dimension at max", 500, 300, 500, 500, 300},
		{"extreme panorama", 4000, 2, 800, 800, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resized, err := ResizeImage(createTestImage(tt.width, tt.height, color.Gray{Y: 128}), tt.maxSize)
			if err != nil {
				t.Fatalf("ResizeImage failed: %v", err)
			}
			if w, h := decodeSize(t, resized); w != tt.expectedWidth || h != tt.expectedHeight {
				t.Errorf("expected %dx%d, got %dx%d", tt.expectedWidth, tt.expectedHeight, w, h)
			}
		})
	}
}

func TestResizeImage_NonZeroOrigin(t *testing.T) {
	img := createTestImage(1200, 600, color.White).SubImage(image.Rect(200, 100, 1200, 600))

	resized, err := ResizeImage(img, 500)
	if err != nil {
		t.Fatalf("ResizeImage failed: %v", err)
	}
	if w, h := decodeSize(t, resized); w != 500 || h != 250 {
		t.Errorf("expected 500x250, got %dx%d", w, h)
	}
}

func TestResizeImage_InvalidInput(t *testing.T) {
	if _, err := ResizeImage(nil, 500); err == nil {
		t.Error("expected error for nil image")
	}
	if _, err := ResizeImage(image.NewRGBA(image.Rect(0, 0, 0, 0)), 500); err == nil {
		t.Error("expected error for empty image")
	}
}

// --- extractJSON tests ---

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		expected string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"surrounding text", "Sure! Here it is: {\"a\":{\"b\":2}} Enjoy.", `{"a":{"b":2}}`},
		{"markdown fence", "```json\n{\"title\":\"x\"}\n```", `{"title":"x"}`},
		{"no object", "no json here", "no json here"},
		{"unterminated", `{"a":{"b":1}`, `{"a":{"b":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractJSON(tt.in); got != tt.expected {
				t.Errorf("extractJSON(%q) = %q, want %q", tt.in, got, tt.expected)
			}
		})
	}
}

// --- Usage tests ---

func TestUsageCounter(t *testing.T) {
	var u usageCounter
	u.trackUsage(10, 5)
	u.trackUsage(3, 2)

	got := u.GetUsage()
	if got.InputTokens != 13 || got.OutputTokens != 7 || got.Requests != 2 {
		t.Errorf("unexpected usage %+v", got)
	}
}
