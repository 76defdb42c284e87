// Package export drives mask export runs: it resolves each file's render
// mode, rasterizes its annotations against the shared category palette,
// writes the mask images, and emits the CSV sidecars.
package export

import (
	"go.uber.org/zap"

	"segmask/internal/imageenc"
	"segmask/internal/palette"
)

// Options configures an export run.
type Options struct {
	// Mode selects the category color mode: index, grey or rgb.
	Mode palette.Mode

	// Format selects the output image encoding.
	Format imageenc.Format

	// Workers bounds the number of files rendered concurrently. The
	// palette is frozen before the pool starts, so workers share no
	// mutable state. Values below 1 mean serial.
	Workers int

	// WriteRLE additionally writes each instance mask's binary run-length
	// counts as a JSON sidecar (instance export only).
	WriteRLE bool

	// Logger receives per-annotation drop and per-file skip diagnostics.
	Logger *zap.Logger
}

// DefaultOptions returns the default export configuration: serial
// index-mode PNG output.
func DefaultOptions() Options {
	return Options{
		Mode:    palette.ModeIndex,
		Format:  imageenc.FormatPNG,
		Workers: 1,
	}
}

func (o Options) withDefaults() Options {
	if o.Workers < 1 {
		o.Workers = 1
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}
