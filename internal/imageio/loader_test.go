package imageio

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadPNG(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})

	path := filepath.Join(t.TempDir(), "frame.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())

	frame, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, frame.Path)
	assert.Equal(t, image.Rect(0, 0, 4, 3), frame.Image.Bounds())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.png"))
	assert.Error(t, err)
}

func TestNormalizeGray16StretchesRange(t *testing.T) {
	src := image.NewGray16(image.Rect(0, 0, 2, 1))
	src.SetGray16(0, 0, color.Gray16{Y: 1000})
	src.SetGray16(1, 0, color.Gray16{Y: 2000})

	dst := normalizeGray16(src)
	assert.Equal(t, uint8(0), dst.GrayAt(0, 0).Y)
	assert.Equal(t, uint8(255), dst.GrayAt(1, 0).Y)
}

func TestNormalizeGray16FlatFrame(t *testing.T) {
	src := image.NewGray16(image.Rect(0, 0, 2, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			src.SetGray16(x, y, color.Gray16{Y: 0x8000})
		}
	}
	dst := normalizeGray16(src)
	assert.Equal(t, uint8(0x80), dst.GrayAt(0, 0).Y)
	assert.Equal(t, dst.GrayAt(0, 0), dst.GrayAt(1, 1))
}

func TestIsSupported(t *testing.T) {
	assert.True(t, IsSupported("a/b/frame.TIF"))
	assert.True(t, IsSupported("frame.png"))
	assert.True(t, IsSupported("frame.bmp"))
	assert.False(t, IsSupported("frame.gif"))
	assert.False(t, IsSupported("frame"))
}
