package images

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestSaveAndGet(t *testing.T) {
	s, err := NewStorage(t.TempDir())
	require.NoError(t, err)

	data := testPNG(t, 10, 15)
	require.NoError(t, s.Save(42, data))

	assert.True(t, s.Exists(42))
	got, err := s.Get(42)
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestGetMissingPoster(t *testing.T) {
	s, err := NewStorage(t.TempDir())
	require.NoError(t, err)

	_, err = s.Get(999)
	assert.Error(t, err)
	assert.False(t, s.Exists(999))
}

func TestSaveRejectsEmptyData(t *testing.T) {
	s, err := NewStorage(t.TempDir())
	require.NoError(t, err)

	assert.Error(t, s.Save(1, nil))
}

func TestDeleteIsIdempotent(t *testing.T) {
	s, err := NewStorage(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Save(7, testPNG(t, 4, 4)))
	require.NoError(t, s.Delete(7))
	require.NoError(t, s.Delete(7))
	assert.False(t, s.Exists(7))
}

func TestComputeBlurHash(t *testing.T) {
	hash, err := ComputeBlurHash(testPNG(t, 120, 180))
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
}

func TestComputeBlurHashRejectsGarbage(t *testing.T) {
	_, err := ComputeBlurHash([]byte("not an image"))
	assert.Error(t, err)
}
