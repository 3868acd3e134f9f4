package indexer

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThumbnail(t *testing.T) {
	ix := New(nil, t.TempDir(), nil)

	// left half opaque red, right half transparent
	icon := image.NewNRGBA(image.Rect(0, 0, 256, 128))
	for y := range 128 {
		for x := range 128 {
			icon.SetNRGBA(x, y, color.NRGBA{R: 255, A: 255})
		}
	}
	pngPath := ix.Path(1005, ".png")
	require.NoError(t, os.MkdirAll(filepath.Dir(pngPath), 0o750))
	f, err := os.Create(pngPath)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, icon))
	require.NoError(t, f.Close())

	require.NoError(t, ix.Thumbnail(1005))

	assert.Equal(t, filepath.Join(ix.DataDir, "1", "1005.jpg"), ix.Path(1005, ".jpg"))
	thumb, err := imaging.Open(ix.Path(1005, ".jpg"))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, ThumbnailSize, ThumbnailSize/2), thumb.Bounds())

	r, g, b, _ := thumb.At(ThumbnailSize-4, 10).RGBA()
	assert.Greater(t, r>>8, uint32(240), "transparent area should be white")
	assert.Greater(t, g>>8, uint32(240))
	assert.Greater(t, b>>8, uint32(240))

	r, g, _, _ = thumb.At(4, 10).RGBA()
	assert.Greater(t, r>>8, uint32(200))
	assert.Less(t, g>>8, uint32(60))
}

func TestThumbnailInvalidIcon(t *testing.T) {
	ix := New(nil, t.TempDir(), nil)
	pngPath := ix.Path(7, ".png")
	require.NoError(t, os.MkdirAll(filepath.Dir(pngPath), 0o750))
	require.NoError(t, os.WriteFile(pngPath, []byte("CgBI"), 0o644))

	assert.Error(t, ix.Thumbnail(7))
	_, err := os.Stat(ix.Path(7, ".jpg"))
	assert.True(t, os.IsNotExist(err))
}
