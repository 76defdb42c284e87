package palette

import (
	"fmt"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func paintValues(t *testing.T, p *Palette) map[string]int {
	t.Helper()
	out := make(map[string]int)
	for _, c := range p.Categories() {
		v, ok := p.PaintValue(c)
		require.True(t, ok, c)
		out[c] = int(v)
	}
	return out
}

func TestGreyMode_SpreadsLevelsEvenly(t *testing.T) {
	p, err := FromCategories(ModeGrey, []string{"red", "green", "blue"})
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"red": 0, "green": 127, "blue": 255}, paintValues(t, p))

	p, err = FromCategories(ModeGrey, []string{"red", "green", "blue", "yellow"})
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"red": 0, "green": 85, "blue": 170, "yellow": 255}, paintValues(t, p))

	p, err = FromCategories(ModeGrey, []string{"red", "green", "blue", "yellow", "purple"})
	require.NoError(t, err)
	assert.Equal(t,
		map[string]int{"red": 0, "green": 63, "blue": 127, "yellow": 191, "purple": 255},
		paintValues(t, p))
}

func TestIndexMode_AssignsFirstSeenSlots(t *testing.T) {
	p, err := FromCategories(ModeIndex, []string{"red", "green", "blue", "yellow"})
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"red": 0, "green": 1, "blue": 2, "yellow": 3}, paintValues(t, p))
}

func TestRGBMode_AssignsSlotsAndHueWheel(t *testing.T) {
	p, err := FromCategories(ModeRGB, []string{Background, "red", "green"})
	require.NoError(t, err)
	assert.Equal(t, map[string]int{Background: 0, "red": 1, "green": 2}, paintValues(t, p))

	// Background is pure black; the two foreground hues sit at 0 and 120
	// degrees on the wheel.
	bg, ok := p.Color(Background)
	require.True(t, ok)
	assert.Equal(t, RGB{}, bg)

	c1, ok := p.Color("red")
	require.True(t, ok)
	assert.Equal(t, RGB{R: 255, G: 51, B: 51}, c1)

	c2, ok := p.Color("green")
	require.True(t, ok)
	assert.Equal(t, RGB{R: 51, G: 255, B: 51}, c2)
}

func TestCaps(t *testing.T) {
	many := func(n int) []string {
		out := make([]string, n)
		for i := range out {
			out[i] = fmt.Sprintf("cat%03d", i)
		}
		return out
	}

	_, err := FromCategories(ModeIndex, many(255))
	assert.ErrorIs(t, err, ErrTooManyCategories)

	_, err = FromCategories(ModeIndex, many(254))
	assert.NoError(t, err)

	_, err = FromCategories(ModeGrey, many(255))
	assert.ErrorIs(t, err, ErrTooManyCategories)

	_, err = FromCategories(ModeRGB, many(361))
	assert.ErrorIs(t, err, ErrTooManyCategories)

	_, err = FromCategories(ModeRGB, many(360))
	assert.NoError(t, err)
}

func TestGreyMode_RejectsBackgroundOnly(t *testing.T) {
	_, err := FromCategories(ModeGrey, []string{Background})
	assert.ErrorIs(t, err, ErrBackgroundOnly)
}

func TestParseMode(t *testing.T) {
	for _, name := range []string{"index", "grey", "rgb"} {
		m, err := ParseMode(name)
		require.NoError(t, err)
		assert.Equal(t, name, m.String())
	}

	_, err := ParseMode("sepia")
	assert.ErrorIs(t, err, ErrUnknownMode)
}

func TestAdd_IsIdempotentAndOrdered(t *testing.T) {
	p := New(ModeIndex)
	assert.Equal(t, 0, p.Add(Background))
	assert.Equal(t, 1, p.Add("car"))
	assert.Equal(t, 1, p.Add("car"))
	assert.Equal(t, 2, p.Add("tree"))
	assert.Equal(t, []string{Background, "car", "tree"}, p.Categories())

	require.NoError(t, p.Freeze())
	assert.True(t, p.Frozen())

	// Known categories still resolve after freeze; new ones are refused.
	assert.Equal(t, 1, p.Add("car"))
	assert.Equal(t, -1, p.Add("bike"))
}

func TestAssignment_DependsOnlyOnFirstSeenOrder(t *testing.T) {
	// The same category list always yields the same palette, however many
	// times it is rebuilt.
	for i := 0; i < 10; i++ {
		p, err := FromCategories(ModeGrey, []string{Background, "car", "tree"})
		require.NoError(t, err)
		assert.Equal(t, map[string]int{Background: 0, "car": 127, "tree": 255}, paintValues(t, p))
	}
}

func TestFormatValue(t *testing.T) {
	p, err := FromCategories(ModeIndex, []string{Background, "car"})
	require.NoError(t, err)
	assert.Equal(t, "0", p.FormatValue(Background))
	assert.Equal(t, "1", p.FormatValue("car"))

	p, err = FromCategories(ModeRGB, []string{Background, "car"})
	require.NoError(t, err)
	assert.Equal(t, "0 0 0", p.FormatValue(Background))
	// Single foreground category sits at hue 0.
	assert.Equal(t, "255 51 51", p.FormatValue("car"))
}

func TestImagePalette(t *testing.T) {
	p, err := FromCategories(ModeIndex, []string{Background, "car", "tree"})
	require.NoError(t, err)
	pal := p.ImagePalette()
	require.Len(t, pal, 3)
	assert.Equal(t, color.Gray{Y: 1}, pal[1])

	p, err = FromCategories(ModeRGB, []string{Background, "car"})
	require.NoError(t, err)
	pal = p.ImagePalette()
	require.Len(t, pal, 2)
	assert.Equal(t, color.RGBA{A: 255}, pal[0])
	assert.Equal(t, color.RGBA{R: 255, G: 51, B: 51, A: 255}, pal[1])

	p, err = FromCategories(ModeGrey, []string{Background, "car"})
	require.NoError(t, err)
	assert.Nil(t, p.ImagePalette())
}
