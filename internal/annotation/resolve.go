package annotation

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// RenderMode selects which renderer applies to a file's annotations.
type RenderMode int

const (
	RenderModeUnknown RenderMode = iota
	RenderModePolygon
	RenderModeRaster
)

func (m RenderMode) String() string {
	switch m {
	case RenderModePolygon:
		return "polygon"
	case RenderModeRaster:
		return "raster"
	default:
		return "unknown"
	}
}

var (
	// ErrMixedRenderFamilies means a file carries both polygon-family and
	// raster-family annotations, which cannot be rendered together.
	ErrMixedRenderFamilies = errors.New("cannot have both raster and polygon annotations in the same file")

	// ErrNoRenderableAnnotations means a file carries no annotation kind
	// that any renderer understands.
	ErrNoRenderableAnnotations = errors.New("no renderable annotations found in file")

	// ErrMultipleRasterLayers means a file carries more than one raster
	// layer; dependent masks would be ambiguous.
	ErrMultipleRasterLayers = errors.New("cannot have more than one raster layer in the same file")
)

// ResolveRenderMode inspects the distinct annotation kinds present and
// decides between polygon and raster rendering. The decision depends only
// on which kinds appear, never on how many annotations carry them.
func ResolveRenderMode(annotations []Annotation) (RenderMode, error) {
	kinds := make(map[Kind]bool)
	rasterLayers := 0
	for _, a := range annotations {
		kinds[a.Data.Kind()] = true
		if a.Data.Kind() == KindRasterLayer {
			rasterLayers++
		}
	}

	isPolygon := kinds[KindPolygon] || kinds[KindComplexPolygon]
	isRaster := kinds[KindMask] && kinds[KindRasterLayer]

	if isPolygon && isRaster {
		return RenderModeUnknown, ErrMixedRenderFamilies
	}
	if isRaster && rasterLayers > 1 {
		return RenderModeUnknown, ErrMultipleRasterLayers
	}
	if isRaster {
		return RenderModeRaster, nil
	}
	if isPolygon {
		return RenderModePolygon, nil
	}

	found := make([]string, 0, len(kinds))
	for k := range kinds {
		found = append(found, k.String())
	}
	sort.Strings(found)
	return RenderModeUnknown, fmt.Errorf("%w, found kinds: %s",
		ErrNoRenderableAnnotations, strings.Join(found, ","))
}
