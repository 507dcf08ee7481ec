package colorgrad

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHex(t *testing.T) {
	c, err := Parse("#00C8FF")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{0x00, 0xC8, 0xFF, 0xFF}, c)

	c, err = Parse("#f0a")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{0xFF, 0x00, 0xAA, 0xFF}, c)
}

func TestParseNamedColor(t *testing.T) {
	c, err := Parse("SteelBlue")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{0x46, 0x82, 0xB4, 0xFF}, c)
}

func TestParseFailures(t *testing.T) {
	for _, s := range []string{"", "#12345", "#GGHHII", "no-such-color"} {
		_, err := Parse(s)
		assert.Error(t, err, "input %q", s)
	}
	assert.Equal(t, DefaultColor, ParseOrDefault("bogus"))
}

func TestHSLRoundTrip(t *testing.T) {
	for _, c := range []color.RGBA{
		{255, 0, 0, 255},
		{0, 128, 255, 255},
		{30, 200, 90, 255},
		{128, 128, 128, 255},
	} {
		h, s, l := RGBToHSL(c)
		back := HSLToRGB(h, s, l)
		assert.InDelta(t, float64(c.R), float64(back.R), 1.01)
		assert.InDelta(t, float64(c.G), float64(back.G), 1.01)
		assert.InDelta(t, float64(c.B), float64(back.B), 1.01)
	}
}

func TestFromHueWraps(t *testing.T) {
	assert.Equal(t, FromHue(0, 1, 0.5), FromHue(360, 1, 0.5))
	assert.Equal(t, FromHue(350, 1, 0.5), FromHue(-10, 1, 0.5))
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, FromHue(0, 1, 0.5))
}

func TestParseStopsDefaults(t *testing.T) {
	g := ParseStops("")
	require.Len(t, g.Stops(), 2)
	assert.Equal(t, DefaultColor, g.Stops()[0].Color)

	g = ParseStops("garbage,,more garbage")
	assert.Equal(t, DefaultGradient().Stops(), g.Stops())
}

func TestParseStopsPositions(t *testing.T) {
	g := ParseStops("#000000@0, #ff0000@0.5, #ffffff@1")
	stops := g.Stops()
	require.Len(t, stops, 3)
	assert.Equal(t, 0.0, stops[0].Pos)
	assert.Equal(t, 0.5, stops[1].Pos)
	assert.Equal(t, 1.0, stops[2].Pos)
}

func TestParseStopsEvenDistribution(t *testing.T) {
	g := ParseStops("#000000, #808080, #ffffff")
	stops := g.Stops()
	require.Len(t, stops, 3)
	assert.InDelta(t, 0.0, stops[0].Pos, 1e-12)
	assert.InDelta(t, 0.5, stops[1].Pos, 1e-12)
	assert.InDelta(t, 1.0, stops[2].Pos, 1e-12)
}

func TestParseStopsCoversFullRange(t *testing.T) {
	g := ParseStops("#ff0000@0.25, #0000ff@0.75")
	stops := g.Stops()
	require.Len(t, stops, 4)
	assert.Equal(t, 0.0, stops[0].Pos)
	assert.Equal(t, 1.0, stops[len(stops)-1].Pos)
	assert.Equal(t, stops[1].Color, stops[0].Color)
}

func TestAtReturnsExactEndpoints(t *testing.T) {
	g := ParseStops("#00C8FF@0, #FFFFFF@1")
	assert.Equal(t, color.RGBA{0x00, 0xC8, 0xFF, 0xFF}, g.At(0))
	assert.Equal(t, color.RGBA{0xFF, 0xFF, 0xFF, 0xFF}, g.At(1))
	assert.Equal(t, color.RGBA{0x00, 0xC8, 0xFF, 0xFF}, g.At(-5), "t clamps")
}

func TestAtInterpolatesInHSL(t *testing.T) {
	g := ParseStops("#ff0000@0, #0000ff@1")
	mid := g.At(0.5)
	// halfway between red (hue 0) and blue (hue 2/3) in HSL is full green
	assert.Equal(t, color.RGBA{0x00, 0xFF, 0x00, 0xFF}, mid)
}

func TestWithAlpha(t *testing.T) {
	c := WithAlpha(color.RGBA{10, 20, 30, 255}, 0.5)
	assert.Equal(t, uint8(128), c.A)
	assert.Equal(t, uint8(10), c.R)
	assert.Equal(t, uint8(0), WithAlpha(c, -1).A)
	assert.Equal(t, uint8(255), WithAlpha(c, 2).A)
}
