package annotation

import (
	"encoding/json"
	"fmt"
	"os"
)

// annotationJSON is the wire shape of one annotation: a class name plus
// exactly one geometry key.
type annotationJSON struct {
	Class          string          `json:"class"`
	Polygon        *Polygon        `json:"polygon,omitempty"`
	ComplexPolygon *ComplexPolygon `json:"complex_polygon,omitempty"`
	Mask           *Mask           `json:"mask,omitempty"`
	RasterLayer    *RasterLayer    `json:"raster_layer,omitempty"`
}

// UnmarshalJSON decodes an annotation, requiring exactly one geometry key.
func (a *Annotation) UnmarshalJSON(data []byte) error {
	var raw annotationJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	a.Class = raw.Class
	a.Data = nil
	set := 0
	if raw.Polygon != nil {
		a.Data = *raw.Polygon
		set++
	}
	if raw.ComplexPolygon != nil {
		a.Data = *raw.ComplexPolygon
		set++
	}
	if raw.Mask != nil {
		a.Data = *raw.Mask
		set++
	}
	if raw.RasterLayer != nil {
		a.Data = *raw.RasterLayer
		set++
	}
	if set != 1 {
		return fmt.Errorf("annotation %q must carry exactly one geometry key, got %d", raw.Class, set)
	}
	return nil
}

// MarshalJSON encodes an annotation under its geometry key.
func (a Annotation) MarshalJSON() ([]byte, error) {
	raw := annotationJSON{Class: a.Class}
	switch d := a.Data.(type) {
	case Polygon:
		raw.Polygon = &d
	case ComplexPolygon:
		raw.ComplexPolygon = &d
	case Mask:
		raw.Mask = &d
	case RasterLayer:
		raw.RasterLayer = &d
	default:
		return nil, fmt.Errorf("annotation %q has no geometry payload", a.Class)
	}
	return json.Marshal(raw)
}

// fileJSON is the wire shape of one annotation file.
type fileJSON struct {
	Identifier  string       `json:"identifier"`
	Height      int          `json:"height"`
	Width       int          `json:"width"`
	Annotations []Annotation `json:"annotations"`
}

// LoadFile reads one annotation file from disk.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read annotation file: %w", err)
	}

	var raw fileJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode annotation file %s: %w", path, err)
	}

	return &File{
		Identifier:  raw.Identifier,
		Height:      raw.Height,
		Width:       raw.Width,
		Annotations: raw.Annotations,
	}, nil
}
