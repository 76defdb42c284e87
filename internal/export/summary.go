package export

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"
)

// ErrMissingDimensions means a file lacks the height or width required
// before any rendering can happen.
var ErrMissingDimensions = errors.New("file references an image with no height or width")

// Skipped records one file that could not be rendered and why. The rest
// of the batch continues around it.
type Skipped struct {
	Identifier string
	Err        error
}

// Summary reports the outcome of an export run: which files were
// written and which were skipped, in submission order.
type Summary struct {
	Written []string
	Skipped []Skipped
}

// Err combines the per-file failures into a single error, or nil when
// every file rendered.
func (s *Summary) Err() error {
	var err error
	for _, sk := range s.Skipped {
		err = multierr.Append(err, fmt.Errorf("%s: %w", sk.Identifier, sk.Err))
	}
	return err
}
