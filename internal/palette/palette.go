// Package palette assigns and persists the category-name to output-value
// mapping shared by every file of an export run. Assignment is first-seen
// and monotonic: once a category holds a value it never changes, no
// matter which file introduced it or in which order files render.
package palette

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"sync"
)

// Background is the reserved sentinel category. It always holds the
// first palette slot.
const Background = "__background__"

// Mode selects how categories map to output pixel values.
type Mode int

const (
	ModeIndex Mode = iota
	ModeGrey
	ModeRGB
)

func (m Mode) String() string {
	switch m {
	case ModeIndex:
		return "index"
	case ModeGrey:
		return "grey"
	case ModeRGB:
		return "rgb"
	default:
		return "unknown"
	}
}

// ParseMode converts a mode name to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "index":
		return ModeIndex, nil
	case "grey":
		return ModeGrey, nil
	case "rgb":
		return ModeRGB, nil
	default:
		return ModeIndex, fmt.Errorf("%w %q", ErrUnknownMode, s)
	}
}

var (
	// ErrUnknownMode is returned for a mode name outside index/grey/rgb.
	ErrUnknownMode = errors.New("unknown mode")

	// ErrTooManyCategories is returned when the category count exceeds the
	// mode's cap: 254 for index and grey (255 is reserved as an
	// out-of-band sentinel), 360 for rgb (one hue degree per category).
	ErrTooManyCategories = errors.New("maximum number of classes exceeded")

	// ErrBackgroundOnly is returned for grey mode with no category beyond
	// the background sentinel; a single grey level carries no information.
	ErrBackgroundOnly = errors.New("only having the '__background__' class is not allowed")
)

const (
	maxIndexedCategories = 254
	maxRGBCategories     = 360
)

// RGB is an 8-bit color triple.
type RGB struct {
	R, G, B uint8
}

// Palette is the process-scoped category registry for one export run.
// Categories are added during a collection pre-pass, then the palette is
// frozen before any rendering starts; renderers only read a frozen
// palette, so parallel file workers never race on assignment order.
type Palette struct {
	mode Mode

	mu     sync.Mutex
	frozen bool
	order  []string
	slots  map[string]int

	values map[string]uint16
	colors []RGB
}

// New creates an empty palette for the given mode. The export pipeline
// registers the background sentinel first, so it holds the first slot.
func New(mode Mode) *Palette {
	return &Palette{
		mode:  mode,
		slots: make(map[string]int),
	}
}

// FromCategories builds and freezes a palette from a finalized category
// list in first-seen order.
func FromCategories(mode Mode, categories []string) (*Palette, error) {
	p := New(mode)
	for _, c := range categories {
		p.Add(c)
	}
	if err := p.Freeze(); err != nil {
		return nil, err
	}
	return p, nil
}

// Mode returns the palette's color mode.
func (p *Palette) Mode() Mode { return p.mode }

// Add registers a category and returns its slot, assigning the next free
// slot on first sight. Adding an already-known category is a no-op. Add
// is safe for concurrent use, though the export pipeline serializes it
// through the collection pre-pass. A frozen palette rejects new
// categories with slot -1.
func (p *Palette) Add(category string) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	if slot, ok := p.slots[category]; ok {
		return slot
	}
	if p.frozen {
		return -1
	}
	slot := len(p.order)
	p.order = append(p.order, category)
	p.slots[category] = slot
	return slot
}

// Freeze validates the category set against the mode's constraints and
// computes the final per-category output values. After Freeze the
// palette is immutable and safe for lock-free concurrent reads.
func (p *Palette) Freeze() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.frozen {
		return nil
	}

	n := len(p.order)
	values := make(map[string]uint16, n)

	switch p.mode {
	case ModeIndex:
		if n > maxIndexedCategories {
			return fmt.Errorf("%w: maximum number of classes supported: %d", ErrTooManyCategories, maxIndexedCategories)
		}
		for i, c := range p.order {
			values[c] = uint16(i)
		}

	case ModeGrey:
		if n > maxIndexedCategories {
			return fmt.Errorf("%w: maximum number of classes supported: %d", ErrTooManyCategories, maxIndexedCategories)
		}
		if n < 2 {
			return fmt.Errorf("%w: please add more classes", ErrBackgroundOnly)
		}
		for i, c := range p.order {
			values[c] = uint16(i * 255 / (n - 1))
		}

	case ModeRGB:
		if n > maxRGBCategories {
			return fmt.Errorf("%w: maximum number of classes supported: %d", ErrTooManyCategories, maxRGBCategories)
		}
		for i, c := range p.order {
			values[c] = uint16(i)
		}
		p.colors = hueWheel(n)

	default:
		return fmt.Errorf("%w %q", ErrUnknownMode, p.mode)
	}

	p.values = values
	p.frozen = true
	return nil
}

// Frozen reports whether Freeze has completed.
func (p *Palette) Frozen() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.frozen
}

// Categories returns the category list in slot order.
func (p *Palette) Categories() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.order))
	copy(out, p.order)
	return out
}

// PaintValue returns the pixel value a renderer paints for a category:
// the slot for index and rgb modes, the grey level for grey mode. The
// palette must be frozen first.
func (p *Palette) PaintValue(category string) (uint16, bool) {
	v, ok := p.values[category]
	return v, ok
}

// Color returns the output color of a category in rgb mode.
func (p *Palette) Color(category string) (RGB, bool) {
	slot, ok := p.slots[category]
	if !ok || p.colors == nil {
		return RGB{}, false
	}
	return p.colors[slot], true
}

// FormatValue renders a category's output value for the class-mapping
// sidecar: a space-separated triple in rgb mode, a bare integer
// otherwise.
func (p *Palette) FormatValue(category string) string {
	if p.mode == ModeRGB {
		c, _ := p.Color(category)
		return fmt.Sprintf("%d %d %d", c.R, c.G, c.B)
	}
	v, _ := p.PaintValue(category)
	return strconv.Itoa(int(v))
}

// ImagePalette returns the color table for paletted output images: the
// hue wheel in rgb mode, an identity grey ramp in index mode. Grey mode
// writes plain greyscale images and has no color table.
func (p *Palette) ImagePalette() color.Palette {
	switch p.mode {
	case ModeRGB:
		pal := make(color.Palette, len(p.colors))
		for i, c := range p.colors {
			pal[i] = color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}
		}
		return pal
	case ModeIndex:
		pal := make(color.Palette, len(p.order))
		for i := range p.order {
			pal[i] = color.Gray{Y: uint8(i)}
		}
		return pal
	default:
		return nil
	}
}
