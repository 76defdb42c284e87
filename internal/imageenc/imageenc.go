// Package imageenc assembles output mask images from flat pixel buffers
// and writes them to disk as PNG or TIFF.
package imageenc

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/tiff"
)

// Format selects the output image encoding.
type Format int

const (
	FormatPNG Format = iota
	FormatTIFF
)

func (f Format) String() string {
	switch f {
	case FormatPNG:
		return "png"
	case FormatTIFF:
		return "tiff"
	default:
		return "unknown"
	}
}

// Ext returns the file extension for the format, including the dot.
func (f Format) Ext() string {
	switch f {
	case FormatTIFF:
		return ".tif"
	default:
		return ".png"
	}
}

// ParseFormat converts a format name to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "png":
		return FormatPNG, nil
	case "tif", "tiff":
		return FormatTIFF, nil
	default:
		return FormatPNG, fmt.Errorf("unsupported output format %q", s)
	}
}

// Grey builds a greyscale image from a row-major buffer of 8-bit levels.
func Grey(buf []uint16, height, width int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, width, height))
	for i, v := range buf {
		img.Pix[i] = uint8(v)
	}
	return img
}

// Paletted builds an indexed-color image from a row-major buffer of
// palette slots. Color tables beyond the 256-entry paletted limit fall
// back to direct RGBA lookup.
func Paletted(buf []uint16, height, width int, pal color.Palette) image.Image {
	if len(pal) <= 256 {
		img := image.NewPaletted(image.Rect(0, 0, width, height), pal)
		for i, v := range buf {
			img.Pix[i] = uint8(v)
		}
		return img
	}

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for i, v := range buf {
		r, g, b, a := pal[v].RGBA()
		img.Pix[i*4+0] = uint8(r >> 8)
		img.Pix[i*4+1] = uint8(g >> 8)
		img.Pix[i*4+2] = uint8(b >> 8)
		img.Pix[i*4+3] = uint8(a >> 8)
	}
	return img
}

// Binary builds a 0/255 greyscale image from a 0/1 mask buffer.
func Binary(mask []uint8, height, width int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, width, height))
	for i, v := range mask {
		if v != 0 {
			img.Pix[i] = 255
		}
	}
	return img
}

// Write encodes the image to path in the given format, creating parent
// directories as needed.
func Write(path string, img image.Image, format Format) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output image: %w", err)
	}
	defer f.Close()

	switch format {
	case FormatTIFF:
		err = tiff.Encode(f, img, nil)
	default:
		err = png.Encode(f, img)
	}
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}

	return f.Close()
}
