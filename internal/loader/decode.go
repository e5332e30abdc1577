// Package loader decodes image files into photo records.
package loader

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	// Registered decoders.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/kozaktomas/batch-collage/internal/photo"
)

// ErrUnsupportedFormat is returned for data no registered decoder accepts.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Extensions lists the file extensions picked up when expanding directories.
var Extensions = []string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".tif", ".tiff", ".webp"}

// Source is one input file.
type Source struct {
	Name string
	Open func() (io.ReadCloser, error)
}

// FileSource reads from a path on disk.
func FileSource(path string) Source {
	return Source{
		Name: filepath.Base(path),
		Open: func() (io.ReadCloser, error) { return os.Open(path) },
	}
}

// BytesSource reads from an in-memory buffer, e.g. a multipart upload.
func BytesSource(name string, data []byte) Source {
	return Source{
		Name: name,
		Open: func() (io.ReadCloser, error) { return io.NopCloser(bytes.NewReader(data)), nil },
	}
}

// Decode reads one image and returns a photo with the given id and the
// default transform.
func Decode(id, name string, r io.Reader) (photo.Photo, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return photo.Photo{}, fmt.Errorf("%s: %w", name, ErrUnsupportedFormat)
		}
		return photo.Photo{}, fmt.Errorf("failed to decode %s: %w", name, err)
	}
	if b := img.Bounds(); b.Dx() <= 0 || b.Dy() <= 0 {
		return photo.Photo{}, fmt.Errorf("%s: empty %s image", name, format)
	}
	return photo.New(id, name, img), nil
}

func decodeSource(id string, src Source) (photo.Photo, error) {
	rc, err := src.Open()
	if err != nil {
		return photo.Photo{}, fmt.Errorf("failed to open %s: %w", src.Name, err)
	}
	defer rc.Close()
	return Decode(id, src.Name, rc)
}

// IsSupported reports whether the path has one of the known image extensions.
func IsSupported(path string) bool {
	return slices.Contains(Extensions, strings.ToLower(filepath.Ext(path)))
}

// Expand resolves files and directories into an ordered list of image paths.
// Directories are walked recursively; files inside them are kept only when
// their extension is supported, while explicitly named files are always kept.
func Expand(paths []string) ([]string, error) {
	var out []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", p, err)
		}
		if !info.IsDir() {
			out = append(out, p)
			continue
		}

		var found []string
		err = filepath.WalkDir(p, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && IsSupported(path) {
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", p, err)
		}
		slices.Sort(found)
		out = append(out, found...)
	}
	return out, nil
}
