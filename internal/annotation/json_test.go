package annotation

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"segmask/pkg/geometry"
)

func TestAnnotationUnmarshal_Polygon(t *testing.T) {
	var a Annotation
	err := json.Unmarshal([]byte(`{
		"class": "wheel",
		"polygon": {"path": [{"x": 1, "y": 2}, {"x": 3, "y": 4}, {"x": 1, "y": 4}]}
	}`), &a)
	require.NoError(t, err)

	assert.Equal(t, "wheel", a.Class)
	require.IsType(t, Polygon{}, a.Data)
	assert.Len(t, a.Data.(Polygon).Path, 3)
}

func TestAnnotationUnmarshal_RasterLayer(t *testing.T) {
	var a Annotation
	err := json.Unmarshal([]byte(`{
		"raster_layer": {"rle": [0, 3, 1, 1], "mask_mappings": {"id-1": 1}}
	}`), &a)
	require.NoError(t, err)

	rl, ok := a.Data.(RasterLayer)
	require.True(t, ok)
	assert.Equal(t, []int{0, 3, 1, 1}, rl.RLE)
	assert.Equal(t, map[string]int{"id-1": 1}, rl.MaskMappings)
}

func TestAnnotationUnmarshal_RejectsZeroOrTwoGeometryKeys(t *testing.T) {
	var a Annotation
	err := json.Unmarshal([]byte(`{"class": "wheel"}`), &a)
	assert.Error(t, err)

	err = json.Unmarshal([]byte(`{
		"class": "wheel",
		"polygon": {"path": []},
		"mask": {"id": "id-1"}
	}`), &a)
	assert.Error(t, err)
}

func TestAnnotationMarshal_RoundTrip(t *testing.T) {
	in := NewComplexPolygon("hole", [][]geometry.Point2D{square(), square()})

	data, err := json.Marshal(in)
	require.NoError(t, err)

	var out Annotation
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in, out)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "item.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"identifier": "item",
		"height": 10,
		"width": 20,
		"annotations": [
			{"class": "wheel", "polygon": {"path": [{"x": 1, "y": 1}, {"x": 5, "y": 1}, {"x": 5, "y": 5}]}}
		]
	}`), 0o644))

	f, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "item", f.Identifier)
	assert.Equal(t, 10, f.Height)
	assert.Equal(t, 20, f.Width)
	require.Len(t, f.Annotations, 1)
	assert.Equal(t, KindPolygon, f.Annotations[0].Data.Kind())

	_, err = LoadFile(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}
