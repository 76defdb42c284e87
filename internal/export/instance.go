package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"segmask/internal/annotation"
	"segmask/internal/imageenc"
	"segmask/internal/raster"
	"segmask/internal/rle"
)

// instanceIDLength is the number of hex characters in an instance id.
const instanceIDLength = 8

// idAllocator hands out short random hex instance ids, unique within
// one export run. It is the only state shared between file workers.
type idAllocator struct {
	mu   sync.Mutex
	used map[string]bool
}

func newIDAllocator() *idAllocator {
	return &idAllocator{used: make(map[string]bool)}
}

// next returns a fresh 8-character lowercase hex id.
func (g *idAllocator) next() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	for {
		id := strings.ReplaceAll(uuid.NewString(), "-", "")[:instanceIDLength]
		if !g.used[id] {
			g.used[id] = true
			return id
		}
	}
}

// Instances renders one binary 0/255 mask per annotation instance plus
// the instance_mask_annotations.csv sidecar. Per-file failures skip that
// file; the batch continues.
func Instances(files []*annotation.File, outputDir string, opts Options) (*Summary, error) {
	opts = opts.withDefaults()
	ids := newIDAllocator()

	type result struct {
		written []string
		rows    []instanceRow
		err     error
	}
	results := forEachFile(files, opts.Workers, func(f *annotation.File) result {
		written, rows, err := renderInstanceFile(f, outputDir, ids, opts)
		return result{written: written, rows: rows, err: err}
	})

	summary := &Summary{}
	var rows []instanceRow
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
		summary.Written = append(summary.Written, r.written...)
		rows = append(rows, r.rows...)
	}

	if err := writeInstanceMapping(outputDir, rows); err != nil {
		return summary, err
	}
	return summary, nil
}

// renderInstanceFile writes one binary mask per instance in the file.
func renderInstanceFile(f *annotation.File, outputDir string, ids *idAllocator, opts Options) ([]string, []instanceRow, error) {
	if !f.HasDimensions() {
		return nil, nil, ErrMissingDimensions
	}

	mode, err := annotation.ResolveRenderMode(f.Annotations)
	if err != nil {
		return nil, nil, err
	}

	var written []string
	var rows []instanceRow

	emit := func(mask []uint8, class string) error {
		id := ids.next()
		rel := filepath.Join("masks", fmt.Sprintf("%s_%s%s", f.Identifier, id, opts.Format.Ext()))
		img := imageenc.Binary(mask, f.Height, f.Width)
		if err := imageenc.Write(filepath.Join(outputDir, rel), img, opts.Format); err != nil {
			return err
		}
		written = append(written, rel)

		if opts.WriteRLE {
			counts := rle.Encode(mask, f.Height, f.Width)
			sidecar := filepath.Join(outputDir, "masks", fmt.Sprintf("%s_%s.json", f.Identifier, id))
			if err := writeRLESidecar(sidecar, counts); err != nil {
				return err
			}
			written = append(written, filepath.Join("masks", fmt.Sprintf("%s_%s.json", f.Identifier, id)))
		}

		rows = append(rows, instanceRow{imageID: f.Identifier, maskID: id, class: class})
		return nil
	}

	switch mode {
	case annotation.RenderModePolygon:
		for _, a := range f.Annotations {
			rings := a.Rings()
			if rings == nil {
				continue
			}
			buf := make([]uint16, f.Height*f.Width)
			raster.RenderRings(buf, f.Height, f.Width, rings, 1)
			mask := make([]uint8, len(buf))
			for i, v := range buf {
				mask[i] = uint8(v)
			}
			if err := emit(mask, a.Class); err != nil {
				return nil, nil, err
			}
		}

	case annotation.RenderModeRaster:
		layer, err := f.RasterLayer()
		if err != nil {
			return nil, nil, err
		}
		state, err := raster.NewLayerState(layer, f.Height, f.Width)
		if err != nil {
			return nil, nil, fmt.Errorf("raster layer decode failed: %w", err)
		}

		mapping := make(map[string]int, len(layer.MaskMappings))
		for id, idx := range layer.MaskMappings {
			mapping[id] = idx
		}

		for _, a := range f.Masks() {
			m := a.Data.(annotation.Mask)
			idx, ok := mapping[m.ID]
			if !ok {
				opts.Logger.Warn("mask id not present in raster layer mapping",
					zap.String("file", f.Identifier), zap.String("mask", m.ID))
				continue
			}
			mask := state.BinaryMask(idx)
			if mask == nil {
				delete(mapping, m.ID)
				opts.Logger.Warn("dropping mask with no encoded region",
					zap.String("file", f.Identifier),
					zap.String("mask", m.ID),
					zap.Int("index", idx))
				continue
			}
			if err := emit(mask, a.Class); err != nil {
				return nil, nil, err
			}
		}
	}

	return written, rows, nil
}

// writeRLESidecar stores binary run counts as a JSON array.
func writeRLESidecar(path string, counts []int) error {
	data, err := json.Marshal(counts)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write rle sidecar: %w", err)
	}
	return nil
}
