package raster

import (
	"fmt"

	"segmask/internal/annotation"
	"segmask/internal/rle"
)

// LayerState is the per-file decode cache for one raster layer: the
// dense RLE expanded to a flat buffer plus the authoritative set of
// local indices that actually occur in it. It is created once per file
// and discarded after the file's masks are resolved.
type LayerState struct {
	buf     []int
	height  int
	width   int
	present map[int]bool
}

// NewLayerState validates and decodes a raster layer for a canvas of the
// given dimensions.
func NewLayerState(layer annotation.RasterLayer, height, width int) (*LayerState, error) {
	if err := layer.Validate(); err != nil {
		return nil, err
	}

	flat, err := rle.DecodeDense(layer.RLE)
	if err != nil {
		return nil, err
	}
	if len(flat) != height*width {
		return nil, fmt.Errorf("decoded raster layer has %d pixels, want %dx%d=%d",
			len(flat), height, width, height*width)
	}

	present := make(map[int]bool)
	for _, v := range flat {
		if v != 0 {
			present[v] = true
		}
	}

	return &LayerState{buf: flat, height: height, width: width, present: present}, nil
}

// Has reports whether the local index occurs anywhere in the decoded
// buffer. A dependent mask whose index is absent has collapsed to
// nothing and must be dropped rather than rendered.
func (s *LayerState) Has(index int) bool {
	return s.present[index]
}

// Paint writes value into out at every pixel holding the local index.
func (s *LayerState) Paint(out []uint16, index int, value uint16) {
	for i, v := range s.buf {
		if v == index {
			out[i] = value
		}
	}
}

// BinaryMask returns a 0/1 mask of the pixels holding the local index,
// or nil if the index is absent from the buffer.
func (s *LayerState) BinaryMask(index int) []uint8 {
	if !s.Has(index) {
		return nil
	}
	mask := make([]uint8, len(s.buf))
	for i, v := range s.buf {
		if v == index {
			mask[i] = 1
		}
	}
	return mask
}
