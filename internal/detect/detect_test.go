package detect

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

func TestParamsFromSamples(t *testing.T) {
	// Pure green pixels, BGR order.
	samples := []gocv.Vecb{{0, 255, 0}, {0, 255, 0}}
	p := ParamsFromSamples(samples, 10, 40, 40)

	// Green sits at H=60 in the 0-180 range.
	assert.InDelta(t, 50.0, p.HueMin, 1e-6)
	assert.InDelta(t, 70.0, p.HueMax, 1e-6)
	assert.Equal(t, 255.0, p.SatMax)
	assert.Equal(t, 255.0, p.ValMax)
}

func TestParamsFromSamplesWrapsRed(t *testing.T) {
	// Red with a slight orange lean sits near H=0; a tolerance band
	// around it must wrap.
	samples := []gocv.Vecb{{10, 10, 250}}
	p := ParamsFromSamples(samples, 15, 40, 40)
	assert.Greater(t, p.HueMin, p.HueMax)
}

func TestRunFindsColoredBlob(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 60, 60))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{A: 255}), image.Point{}, draw.Src)
	blob := image.Rect(20, 20, 35, 35)
	draw.Draw(img, blob, image.NewUniform(color.RGBA{G: 255, A: 255}), image.Point{}, draw.Src)

	blobs, err := Run(img, Params{
		HueMin: 50, HueMax: 70,
		SatMin: 100, SatMax: 255,
		ValMin: 100, ValMax: 255,
		MinArea: 10,
	})
	require.NoError(t, err)
	require.Len(t, blobs, 1)

	assert.InDelta(t, 27.0, blobs[0].Centroid.X, 1.5)
	assert.InDelta(t, 27.0, blobs[0].Centroid.Y, 1.5)
	assert.GreaterOrEqual(t, blobs[0].Area, 150)
}

func TestBlobPhysicalArea(t *testing.T) {
	b := Blob{Area: 100}
	// 5 units per pixel gives 25 square units per pixel.
	assert.InDelta(t, 2500.0, b.PhysicalArea(5), 1e-9)
}

func TestRunMinAreaFilters(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 40, 40))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{A: 255}), image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(5, 5, 8, 8), image.NewUniform(color.RGBA{G: 255, A: 255}), image.Point{}, draw.Src)

	blobs, err := Run(img, Params{
		HueMin: 50, HueMax: 70,
		SatMin: 100, SatMax: 255,
		ValMin: 100, ValMax: 255,
		MinArea: 500,
	})
	require.NoError(t, err)
	assert.Empty(t, blobs)
}
