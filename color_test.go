package ngon

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHexColor(t *testing.T) {
	testCases := []struct {
		in       string
		expected Color
	}{
		{in: "#ffffff", expected: NewColor(1, 1, 1)},
		{in: "#000000", expected: NewColor(0, 0, 0)},
		{in: "#ff0000", expected: NewColor(1, 0, 0)},
		{in: "#0f0", expected: NewColor(0, 1, 0)},
		{in: "  0000ff ", expected: NewColor(0, 0, 1)},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			c, err := ParseHexColor(tc.in)
			require.NoError(t, err)
			assert.InDelta(t, tc.expected.R, c.R, float64EqualityThreshold)
			assert.InDelta(t, tc.expected.G, c.G, float64EqualityThreshold)
			assert.InDelta(t, tc.expected.B, c.B, float64EqualityThreshold)
		})
	}
}

func TestParseHexColorInvalid(t *testing.T) {
	for _, in := range []string{"", "#", "#12345", "#1234567", "#gggggg", "blue"} {
		_, err := ParseHexColor(in)
		assert.Error(t, err, in)
	}
}

func TestColorHexRoundTrip(t *testing.T) {
	for _, hex := range []string{"#0b1447", "#ffffff", "#0000ff", "#808080"} {
		c, err := ParseHexColor(hex)
		require.NoError(t, err)
		assert.Equal(t, hex, c.Hex())
	}
}

func TestColorRGBAClamps(t *testing.T) {
	assert.Equal(t, color.RGBA{R: 255, G: 0, B: 128, A: 255}, NewColor(2, -1, 0.5).RGBA())
	assert.Equal(t, color.RGBA{A: 255}, NewColor(0, 0, 0).Scale(0.5).RGBA())
	assert.Equal(t, uint8(0), NewColor(0, 0, 0).RGBA().R)
}
