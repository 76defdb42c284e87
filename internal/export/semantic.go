package export

import (
	"fmt"
	"image"
	"path/filepath"

	"go.uber.org/zap"

	"segmask/internal/annotation"
	"segmask/internal/imageenc"
	"segmask/internal/palette"
	"segmask/internal/raster"
)

// Semantic renders one segmentation mask per file plus the
// class_mapping.csv sidecar. Palette configuration failures abort the
// run before any file is rendered; per-file failures skip that file and
// the batch continues.
func Semantic(files []*annotation.File, outputDir string, opts Options) (*Summary, error) {
	opts = opts.withDefaults()

	pal, err := palette.FromCategories(opts.Mode, collectCategories(files))
	if err != nil {
		return nil, err
	}

	type result struct {
		written string
		err     error
	}
	results := forEachFile(files, opts.Workers, func(f *annotation.File) result {
		written, err := renderSemanticFile(f, outputDir, pal, opts)
		return result{written: written, err: err}
	})

	summary := &Summary{}
	for i, r := range results {
		if r.err != nil {
			opts.Logger.Error("skipping file",
				zap.String("file", files[i].Identifier), zap.Error(r.err))
			summary.Skipped = append(summary.Skipped, Skipped{
				Identifier: files[i].Identifier,
				Err:        r.err,
			})
			continue
		}
		summary.Written = append(summary.Written, r.written)
		opts.Logger.Debug("wrote mask", zap.String("path", r.written))
	}

	if err := writeClassMapping(outputDir, pal); err != nil {
		return summary, err
	}
	return summary, nil
}

// renderSemanticFile rasterizes one file into a mask image and writes it
// under masks/.
func renderSemanticFile(f *annotation.File, outputDir string, pal *palette.Palette, opts Options) (string, error) {
	if !f.HasDimensions() {
		return "", ErrMissingDimensions
	}

	mode, err := annotation.ResolveRenderMode(f.Annotations)
	if err != nil {
		return "", err
	}

	buf := make([]uint16, f.Height*f.Width)
	switch mode {
	case annotation.RenderModePolygon:
		renderPolygonFamily(buf, f, pal, opts.Logger)
	case annotation.RenderModeRaster:
		if err := renderRasterFamily(buf, f, pal, opts.Logger); err != nil {
			return "", err
		}
	}

	var img image.Image
	if pal.Mode() == palette.ModeGrey {
		img = imageenc.Grey(buf, f.Height, f.Width)
	} else {
		img = imageenc.Paletted(buf, f.Height, f.Width, pal.ImagePalette())
	}

	rel := filepath.Join("masks", f.Identifier+opts.Format.Ext())
	if err := imageenc.Write(filepath.Join(outputDir, rel), img, opts.Format); err != nil {
		return "", err
	}
	return rel, nil
}

// renderPolygonFamily paints each polygon annotation in file order, so
// later annotations overwrite earlier ones at the pixel level.
func renderPolygonFamily(buf []uint16, f *annotation.File, pal *palette.Palette, logger *zap.Logger) {
	for _, a := range f.Annotations {
		rings := a.Rings()
		if rings == nil {
			continue
		}
		value, ok := pal.PaintValue(a.Class)
		if !ok {
			logger.Warn("annotation class missing from palette",
				zap.String("file", f.Identifier), zap.String("class", a.Class))
			continue
		}
		raster.RenderRings(buf, f.Height, f.Width, rings, value)
	}
}

// renderRasterFamily decodes the file's raster layer once and paints
// each dependent mask in file order. Masks whose local index is absent
// from the decoded buffer are dropped and removed from the file's
// working copy of the id mapping; the rest of the file still renders.
func renderRasterFamily(buf []uint16, f *annotation.File, pal *palette.Palette, logger *zap.Logger) error {
	layer, err := f.RasterLayer()
	if err != nil {
		return err
	}

	state, err := raster.NewLayerState(layer, f.Height, f.Width)
	if err != nil {
		return fmt.Errorf("raster layer decode failed: %w", err)
	}

	// Owned working copy: dropping empty masks must not alias the
	// caller's annotation data.
	mapping := make(map[string]int, len(layer.MaskMappings))
	for id, idx := range layer.MaskMappings {
		mapping[id] = idx
	}

	for _, a := range f.Masks() {
		mask := a.Data.(annotation.Mask)
		if err := mask.Validate(); err != nil {
			logger.Warn("dropping invalid mask annotation",
				zap.String("file", f.Identifier), zap.Error(err))
			continue
		}

		idx, ok := mapping[mask.ID]
		if !ok {
			logger.Warn("mask id not present in raster layer mapping",
				zap.String("file", f.Identifier), zap.String("mask", mask.ID))
			continue
		}
		if !state.Has(idx) {
			delete(mapping, mask.ID)
			logger.Warn("dropping mask with no encoded region",
				zap.String("file", f.Identifier),
				zap.String("mask", mask.ID),
				zap.Int("index", idx))
			continue
		}

		value, ok := pal.PaintValue(a.Class)
		if !ok {
			logger.Warn("annotation class missing from palette",
				zap.String("file", f.Identifier), zap.String("class", a.Class))
			continue
		}
		state.Paint(buf, idx, value)
	}
	return nil
}
