// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"os"
)

// PixelSource is an opaque provider of RGBA8 pixels with declared dimensions. Texture uploads only
// need the declared size and the pixel bytes; where the pixels come from is not their concern.
type PixelSource interface {
	// Size returns the declared dimensions of the source in pixels.
	//
	// Returns:
	//   - width, height: the dimensions in pixels
	Size() (width, height int)

	// Pixels returns the RGBA8 pixel data, row-major, 4 bytes per pixel.
	//
	// Returns:
	//   - []byte: the pixel data
	//   - error: an error if the pixels could not be produced
	Pixels() ([]byte, error)
}

// ImageSource is a PixelSource backed by an encoded image (PNG or JPEG) held in memory or on disk,
// or by an already decoded image.Image.
type ImageSource struct {
	// Name is an identifier for this source (e.g., "albedo").
	Name string

	// Path is the file path for sources read from disk (empty for in-memory data).
	Path string

	// Data contains raw encoded image bytes (PNG/JPEG).
	Data []byte

	// Image holds an already decoded image. When set, Data and Path are ignored.
	Image image.Image

	// Width is the source width in pixels (populated after Decode).
	Width int

	// Height is the source height in pixels (populated after Decode).
	Height int

	pix []byte
}

var _ PixelSource = &ImageSource{}

// NewImageSource wraps a decoded image as a PixelSource.
//
// Parameters:
//   - img: the decoded image
//
// Returns:
//   - *ImageSource: the source, with Width and Height populated
func NewImageSource(img image.Image) *ImageSource {
	b := img.Bounds()
	return &ImageSource{Image: img, Width: b.Dx(), Height: b.Dy()}
}

// Size returns the declared dimensions. They are zero until Decode succeeds for encoded sources.
func (s *ImageSource) Size() (int, int) {
	return s.Width, s.Height
}

// Pixels decodes the source on first use and returns its RGBA8 pixels.
func (s *ImageSource) Pixels() ([]byte, error) {
	if s.pix == nil {
		if err := s.Decode(); err != nil {
			return nil, err
		}
	}
	return s.pix, nil
}

// Decode decodes the source to raw RGBA pixel data.
// Uses the decoded Image if set, then embedded Data bytes, then loads from Path on disk.
// Supports PNG and JPEG formats.
// Reference: https://pkg.go.dev/image
//
// Returns:
//   - error: error if decoding fails
func (s *ImageSource) Decode() error {
	if s == nil {
		return fmt.Errorf("image source is nil")
	}

	img := s.Image
	var err error

	if img == nil {
		if len(s.Data) > 0 {
			img, _, err = image.Decode(bytes.NewReader(s.Data))
			if err != nil {
				return fmt.Errorf("failed to decode embedded image: %w", err)
			}
		} else if s.Path != "" {
			file, fileErr := os.Open(s.Path)
			if fileErr != nil {
				return fmt.Errorf("failed to open image file %s: %w", s.Path, fileErr)
			}
			defer file.Close()

			img, _, err = image.Decode(file)
			if err != nil {
				return fmt.Errorf("failed to decode image file %s: %w", s.Path, err)
			}
		} else {
			return fmt.Errorf("image source has neither image, data nor path")
		}
	}

	bounds := img.Bounds()
	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Stride != 4*bounds.Dx() {
		rgba = image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	}

	s.Width = bounds.Dx()
	s.Height = bounds.Dy()
	s.pix = rgba.Pix
	return nil
}

// IsSupportedSource reports whether v is a pixel source kind the texture path accepts.
//
// Parameters:
//   - v: the candidate source
//
// Returns:
//   - bool: true for PixelSource implementations and decoded images
func IsSupportedSource(v any) bool {
	switch v.(type) {
	case PixelSource, image.Image:
		return true
	}
	return false
}
