// Package rle implements the run-length codecs used by mask export: the
// dense (value, count) pair encoding carried by raster layers, and the
// column-major binary run encoding used to interchange instance masks.
package rle

import (
	"errors"
	"fmt"
)

// ErrOddLength is returned when a dense RLE buffer does not contain an
// even number of integers. An odd-length buffer indicates a corrupted or
// mis-encoded upstream artifact, so it always fails rather than truncate.
var ErrOddLength = errors.New("rle: dense buffer must be a sequence of (value, count) pairs")

// DecodeDense expands a dense RLE buffer of (value, count) pairs into a
// flat integer sequence: [1,2,3,4] decodes to [1,1,3,3,3,3].
func DecodeDense(dense []int) ([]int, error) {
	if len(dense)%2 != 0 {
		return nil, fmt.Errorf("%w: got %d integers", ErrOddLength, len(dense))
	}

	total := 0
	for i := 1; i < len(dense); i += 2 {
		count := dense[i]
		if count < 0 {
			return nil, fmt.Errorf("rle: negative run count %d at pair %d", count, i/2)
		}
		total += count
	}

	out := make([]int, 0, total)
	for i := 0; i < len(dense); i += 2 {
		value, count := dense[i], dense[i+1]
		for j := 0; j < count; j++ {
			out = append(out, value)
		}
	}
	return out, nil
}

// EncodeDense is the inverse of DecodeDense: it compresses a flat integer
// sequence into (value, count) pairs of maximal runs. An empty input
// encodes to an empty buffer.
func EncodeDense(values []int) []int {
	if len(values) == 0 {
		return nil
	}

	dense := make([]int, 0, 8)
	current, count := values[0], 1
	for _, v := range values[1:] {
		if v == current {
			count++
			continue
		}
		dense = append(dense, current, count)
		current, count = v, 1
	}
	return append(dense, current, count)
}

// Encode walks a binary mask in column-major order and emits the length
// of each maximal run of a constant value, starting from an implicit
// value of 0. The first emitted count is 0 when the mask's first pixel is
// already foreground. The mask is a row-major height*width buffer whose
// entries are 0 or 1.
func Encode(mask []uint8, height, width int) []int {
	counts := []int{}
	expected := uint8(0)
	run := 0
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			v := mask[y*width+x]
			if v == expected {
				run++
				continue
			}
			counts = append(counts, run)
			expected = v
			run = 1
		}
	}
	return append(counts, run)
}

// Decode expands binary run counts back into a flat 0/1 sequence in the
// same column-major order Encode produced, so Decode(Encode(m)) equals m
// flattened column-major.
func Decode(counts []int) []uint8 {
	total := 0
	for _, c := range counts {
		total += c
	}

	out := make([]uint8, 0, total)
	value := uint8(0)
	for _, c := range counts {
		for i := 0; i < c; i++ {
			out = append(out, value)
		}
		value ^= 1
	}
	return out
}
