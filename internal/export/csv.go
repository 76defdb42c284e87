package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"segmask/internal/palette"
)

// writeClassMapping writes class_mapping.csv: one row per category in
// slot order, mapping its name to the assigned output value.
func writeClassMapping(outputDir string, pal *palette.Palette) error {
	f, err := os.Create(filepath.Join(outputDir, "class_mapping.csv"))
	if err != nil {
		return fmt.Errorf("failed to create class mapping: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"class_name", "class_color"}); err != nil {
		return err
	}
	for _, c := range pal.Categories() {
		if err := w.Write([]string{c, pal.FormatValue(c)}); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to write class mapping: %w", err)
	}
	return f.Close()
}

// instanceRow is one rendered instance in instance_mask_annotations.csv.
type instanceRow struct {
	imageID string
	maskID  string
	class   string
}

// writeInstanceMapping writes instance_mask_annotations.csv: one row per
// rendered instance in file order.
func writeInstanceMapping(outputDir string, rows []instanceRow) error {
	f, err := os.Create(filepath.Join(outputDir, "instance_mask_annotations.csv"))
	if err != nil {
		return fmt.Errorf("failed to create instance mapping: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"image_id", "mask_id", "class_name"}); err != nil {
		return err
	}
	for _, r := range rows {
		if err := w.Write([]string{r.imageID, r.maskID, r.class}); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to write instance mapping: %w", err)
	}
	return f.Close()
}
