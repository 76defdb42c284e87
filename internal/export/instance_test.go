package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"segmask/internal/annotation"
	"segmask/internal/rle"
)

var instanceMaskName = regexp.MustCompile(`^one_([0-9a-f]{8})\.png$`)

func TestInstances_PolygonExport(t *testing.T) {
	dir := t.TempDir()
	files := []*annotation.File{polyFile("one", "car", "car", "tree")}

	summary, err := Instances(files, dir, DefaultOptions())
	require.NoError(t, err)
	require.NoError(t, summary.Err())
	require.Len(t, summary.Written, 3)

	rows := readCSV(t, filepath.Join(dir, "instance_mask_annotations.csv"))
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"image_id", "mask_id", "class_name"}, rows[0])

	seen := make(map[string]bool)
	for i, rel := range summary.Written {
		name := filepath.Base(rel)
		m := instanceMaskName.FindStringSubmatch(name)
		require.NotNil(t, m, name)
		assert.False(t, seen[m[1]], "duplicate instance id %s", m[1])
		seen[m[1]] = true

		assert.FileExists(t, filepath.Join(dir, rel))
		assert.Equal(t, []string{"one", m[1], files[0].Annotations[i].Class}, rows[i+1])
	}

	// Each 3x3 square rasterizes to a 16-pixel binary mask.
	img := readGrey(t, filepath.Join(dir, summary.Written[0]))
	fg := 0
	for _, v := range img.Pix {
		if v == 255 {
			fg++
		} else {
			require.Zero(t, v)
		}
	}
	assert.Equal(t, 16, fg)
}

func TestInstances_RasterDropsEmptyMasks(t *testing.T) {
	dir := t.TempDir()

	summary, err := Instances([]*annotation.File{rasterFile("item")}, dir, DefaultOptions())
	require.NoError(t, err)
	require.NoError(t, summary.Err())

	// The ghost mask maps to an index with no encoded region and is
	// dropped; car, tree and pole still export.
	require.Len(t, summary.Written, 3)

	rows := readCSV(t, filepath.Join(dir, "instance_mask_annotations.csv"))
	require.Len(t, rows, 4)
	classes := []string{rows[1][2], rows[2][2], rows[3][2]}
	assert.Equal(t, []string{"car", "tree", "pole"}, classes)
}

func TestInstances_WriteRLESidecar(t *testing.T) {
	dir := t.TempDir()
	opts := DefaultOptions()
	opts.WriteRLE = true

	summary, err := Instances([]*annotation.File{polyFile("one", "car")}, dir, opts)
	require.NoError(t, err)
	// One mask image plus one sidecar.
	require.Len(t, summary.Written, 2)
	assert.Equal(t, ".json", filepath.Ext(summary.Written[1]))

	data, err := os.ReadFile(filepath.Join(dir, summary.Written[1]))
	require.NoError(t, err)
	var counts []int
	require.NoError(t, json.Unmarshal(data, &counts))

	decoded := rle.Decode(counts)
	require.Len(t, decoded, 20*20)
	fg := 0
	for _, v := range decoded {
		fg += int(v)
	}
	assert.Equal(t, 16, fg)
}

func TestInstances_SkipsFileWithoutDimensions(t *testing.T) {
	dir := t.TempDir()
	bad := &annotation.File{
		Identifier:  "bad",
		Annotations: []annotation.Annotation{annotation.NewPolygon("car", square(0, 0, 3))},
	}

	summary, err := Instances([]*annotation.File{bad, polyFile("one", "car")}, dir, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, summary.Skipped, 1)
	assert.Equal(t, "bad", summary.Skipped[0].Identifier)
	assert.ErrorIs(t, summary.Err(), ErrMissingDimensions)
	require.Len(t, summary.Written, 1)
}

func TestInstances_IDsUniqueAcrossFiles(t *testing.T) {
	dir := t.TempDir()
	files := make([]*annotation.File, 20)
	for i := range files {
		files[i] = polyFile(filePrefix(i), "car", "tree")
	}
	opts := DefaultOptions()
	opts.Workers = 4

	summary, err := Instances(files, dir, opts)
	require.NoError(t, err)
	require.Len(t, summary.Written, 40)

	ids := make(map[string]bool)
	for _, rel := range summary.Written {
		name := filepath.Base(rel)
		id := name[len(name)-12 : len(name)-4]
		assert.False(t, ids[id], "duplicate instance id %s", id)
		ids[id] = true
	}
}
