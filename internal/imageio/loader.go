// Package imageio loads microscopy images for measurement.
package imageio

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// Frame is a loaded microscopy image ready for display.
type Frame struct {
	Path  string
	Image image.Image
}

// Load reads an image from disk. 16-bit grayscale frames, common for
// electron microscope captures, are normalized to the visible 8-bit
// range so dim exposures remain usable on screen.
func Load(path string) (*Frame, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	if g16, ok := img.(*image.Gray16); ok {
		img = normalizeGray16(g16)
	}

	return &Frame{Path: path, Image: img}, nil
}

// normalizeGray16 stretches a 16-bit grayscale image over its actual
// intensity range and converts it to 8-bit.
func normalizeGray16(src *image.Gray16) *image.Gray {
	bounds := src.Bounds()
	lo := uint16(0xffff)
	hi := uint16(0)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			v := src.Gray16At(x, y).Y
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
	}

	dst := image.NewGray(bounds)
	if hi == lo {
		// Flat frame: nothing to stretch, downshift to 8 bits.
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				dst.SetGray(x, y, color.Gray{Y: uint8(lo >> 8)})
			}
		}
		return dst
	}

	span := float64(hi - lo)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			v := float64(src.Gray16At(x, y).Y-lo) / span
			dst.SetGray(x, y, color.Gray{Y: uint8(v*255 + 0.5)})
		}
	}
	return dst
}

// SupportedExtensions lists the image file extensions the loader
// handles, in dialog filter order.
func SupportedExtensions() []string {
	return []string{".tiff", ".tif", ".png", ".jpg", ".jpeg", ".bmp"}
}

// IsSupported reports whether the path has a loadable image extension.
func IsSupported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range SupportedExtensions() {
		if ext == e {
			return true
		}
	}
	return false
}

// FilterDescription is the file dialog label for supported images.
func FilterDescription() string {
	return "Image Files (*.tiff, *.tif, *.png, *.jpg, *.jpeg, *.bmp)"
}
