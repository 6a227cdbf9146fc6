package histview

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nano-measure/internal/distribution"
)

func TestRenderDrawsBars(t *testing.T) {
	res, err := distribution.Fit([]float64{8, 9, 10, 10, 10, 11, 12}, 5)
	require.NoError(t, err)

	img := Render(res, 320, 200)
	require.Equal(t, 320, img.Bounds().Dx())

	// The tallest bar sits in the middle of the plot; some pixel in
	// the bar color must exist.
	barColor := color.RGBA{R: 70, G: 130, B: 200, A: 255}
	found := false
	for y := 0; y < 200 && !found; y++ {
		for x := 0; x < 320; x++ {
			if img.RGBAAt(x, y) == barColor {
				found = true
				break
			}
		}
	}
	assert.True(t, found)
}

func TestRenderEmptyResult(t *testing.T) {
	img := Render(&distribution.Result{}, 100, 80)
	assert.Equal(t, 100, img.Bounds().Dx())
	assert.Equal(t, 80, img.Bounds().Dy())
}
