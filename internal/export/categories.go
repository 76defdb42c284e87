package export

import (
	"sync"

	"segmask/internal/annotation"
	"segmask/internal/palette"
)

// collectCategories walks every file in submission order and returns the
// category names in global first-seen order. Polygon-family annotations
// contribute their own class; raster-family files contribute the classes
// of their dependent mask annotations. The pre-pass finalizes the
// category set before any parallel rendering starts, so palette
// assignment never depends on worker scheduling.
func collectCategories(files []*annotation.File) []string {
	seen := map[string]bool{palette.Background: true}
	categories := []string{palette.Background}
	for _, f := range files {
		for _, a := range f.Annotations {
			switch a.Data.Kind() {
			case annotation.KindPolygon, annotation.KindComplexPolygon, annotation.KindMask:
				if a.Class == "" || seen[a.Class] {
					continue
				}
				seen[a.Class] = true
				categories = append(categories, a.Class)
			}
		}
	}
	return categories
}

// forEachFile renders every file through fn, serially or on a bounded
// worker pool. Results land in a slice indexed by file position, so the
// output order matches submission order regardless of scheduling.
func forEachFile[T any](files []*annotation.File, workers int, fn func(*annotation.File) T) []T {
	results := make([]T, len(files))

	if workers <= 1 || len(files) < 2 {
		for i, f := range files {
			results[i] = fn(f)
		}
		return results
	}

	var wg sync.WaitGroup
	sem := make(chan struct{}, workers)
	for i := range files {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results[i] = fn(files[i])
		}(i)
	}
	wg.Wait()
	return results
}
