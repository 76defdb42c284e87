// Package annotation defines the decoded annotation records consumed by
// the mask export pipeline, and the resolver that decides how a file's
// annotations are rendered.
package annotation

import (
	"errors"

	"segmask/pkg/geometry"
)

// Kind identifies the geometry variant carried by an annotation.
type Kind int

const (
	KindPolygon Kind = iota
	KindComplexPolygon
	KindMask
	KindRasterLayer
)

func (k Kind) String() string {
	switch k {
	case KindPolygon:
		return "polygon"
	case KindComplexPolygon:
		return "complex_polygon"
	case KindMask:
		return "mask"
	case KindRasterLayer:
		return "raster_layer"
	default:
		return "unknown"
	}
}

// Data is the geometry payload of an annotation. Exactly one concrete
// variant backs each annotation.
type Data interface {
	Kind() Kind
}

// Polygon is a single closed ring of points.
type Polygon struct {
	Path []geometry.Point2D `json:"path"`
}

// Kind implements Data.
func (Polygon) Kind() Kind { return KindPolygon }

// ComplexPolygon is a polygon composed of multiple independent rings.
// Rings are separate shapes painted with the same value, not nested
// even-odd holes.
type ComplexPolygon struct {
	Paths [][]geometry.Point2D `json:"paths"`
}

// Kind implements Data.
func (ComplexPolygon) Kind() Kind { return KindComplexPolygon }

// Mask is a dependent mask annotation carved out of a sibling raster
// layer by its id.
type Mask struct {
	ID string `json:"id"`
}

// Kind implements Data.
func (Mask) Kind() Kind { return KindMask }

// Validate reports whether the mask is structurally usable.
func (m Mask) Validate() error {
	if m.ID == "" {
		return errors.New("mask id cannot be empty")
	}
	return nil
}

// RasterLayer is a dense-RLE-encoded canvas from which dependent mask
// annotations are resolved by local color index.
type RasterLayer struct {
	// RLE is the dense (value, count) run-length buffer covering the
	// whole canvas.
	RLE []int `json:"rle"`
	// MaskMappings maps each dependent mask annotation id to the local
	// color index assigned at encode time.
	MaskMappings map[string]int `json:"mask_mappings"`
}

// Kind implements Data.
func (RasterLayer) Kind() Kind { return KindRasterLayer }

// Validate reports whether the raster layer is structurally usable.
func (rl RasterLayer) Validate() error {
	if len(rl.RLE) == 0 {
		return errors.New("raster layer has no RLE data")
	}
	if len(rl.MaskMappings) == 0 {
		return errors.New("raster layer has no mask id mappings")
	}
	return nil
}

// Annotation is one annotation within a file: a category name plus a
// geometry variant.
type Annotation struct {
	Class string
	Data  Data
}

// Rings returns the point rings of a polygon-family annotation, or nil
// for raster-family annotations.
func (a Annotation) Rings() [][]geometry.Point2D {
	switch d := a.Data.(type) {
	case Polygon:
		return [][]geometry.Point2D{d.Path}
	case ComplexPolygon:
		return d.Paths
	default:
		return nil
	}
}

// File is one image being exported: dimensions, an identifier used for
// the output filename, and the ordered annotation sequence. It is
// produced by an external format parser and consumed read-only here.
type File struct {
	Identifier  string
	Height      int
	Width       int
	Annotations []Annotation
}

// HasDimensions reports whether both height and width are positive.
// Rendering requires both.
func (f *File) HasDimensions() bool {
	return f.Height > 0 && f.Width > 0
}

// RasterLayer returns the file's single raster layer annotation. It is
// an error for a raster-family file to carry none, or more than one.
func (f *File) RasterLayer() (RasterLayer, error) {
	var found *RasterLayer
	for _, a := range f.Annotations {
		rl, ok := a.Data.(RasterLayer)
		if !ok {
			continue
		}
		if found != nil {
			return RasterLayer{}, ErrMultipleRasterLayers
		}
		layer := rl
		found = &layer
	}
	if found == nil {
		return RasterLayer{}, errors.New("no raster layer found in file")
	}
	return *found, nil
}

// Masks returns the file's dependent mask annotations in file order.
func (f *File) Masks() []Annotation {
	var masks []Annotation
	for _, a := range f.Annotations {
		if _, ok := a.Data.(Mask); ok {
			masks = append(masks, a)
		}
	}
	return masks
}

// NewPolygon is a convenience constructor for a polygon annotation.
func NewPolygon(class string, path []geometry.Point2D) Annotation {
	return Annotation{Class: class, Data: Polygon{Path: path}}
}

// NewComplexPolygon is a convenience constructor for a multi-ring
// polygon annotation.
func NewComplexPolygon(class string, paths [][]geometry.Point2D) Annotation {
	return Annotation{Class: class, Data: ComplexPolygon{Paths: paths}}
}

// NewMask is a convenience constructor for a dependent mask annotation.
func NewMask(class, id string) Annotation {
	return Annotation{Class: class, Data: Mask{ID: id}}
}

// NewRasterLayer is a convenience constructor for a raster layer
// annotation. Raster layers carry no category of their own.
func NewRasterLayer(dense []int, mappings map[string]int) Annotation {
	return Annotation{Data: RasterLayer{RLE: dense, MaskMappings: mappings}}
}
