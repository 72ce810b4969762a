// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 40, B: 40, A: 255})
		}
	}
	return img
}

func encodeJPEG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestNormalizeJPEG_PassThrough(t *testing.T) {
	data := encodeJPEG(t, solid(40, 30))

	out, err := NormalizeJPEG(data, 100, 100)
	require.NoError(t, err)
	assert.Equal(t, data, out)
}

func TestNormalizeJPEG_ConvertsPNG(t *testing.T) {
	out, err := NormalizeJPEG(encodePNG(t, solid(20, 10)), 0, 0)
	require.NoError(t, err)

	cfg, format, err := image.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 20, cfg.Width)
	assert.Equal(t, 10, cfg.Height)
}

func TestNormalizeJPEG_DownscalesPreservingAspect(t *testing.T) {
	out, err := NormalizeJPEG(encodeJPEG(t, solid(400, 200)), 100, 100)
	require.NoError(t, err)

	cfg, format, err := image.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 100, cfg.Width)
	assert.Equal(t, 50, cfg.Height)
}

func TestNormalizeJPEG_RejectsGarbage(t *testing.T) {
	_, err := NormalizeJPEG([]byte("<html>not an image</html>"), 0, 0)
	assert.ErrorContains(t, err, "detecting image format")
}
