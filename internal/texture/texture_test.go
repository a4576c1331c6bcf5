package texture

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/ftrvxmtrx/tga"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeImage(t *testing.T, path string, c color.NRGBA) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	if filepath.Ext(path) == ".tga" {
		require.NoError(t, tga.Encode(f, img))
	} else {
		require.NoError(t, png.Encode(f, img))
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "sky.tga")
	writeImage(t, p, color.NRGBA{10, 20, 30, 255})

	img, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{10, 20, 30, 255}, img.NRGBAAt(1, 1))

	_, err = Load(filepath.Join(dir, "sky.bmp"))
	assert.Error(t, err)
	_, err = Load(filepath.Join(dir, "missing.png"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestIndexPrefersTGA(t *testing.T) {
	dir := t.TempDir()
	writeImage(t, filepath.Join(dir, "Studio.png"), color.NRGBA{1, 1, 1, 255})
	writeImage(t, filepath.Join(dir, "sub", "studio.tga"), color.NRGBA{2, 2, 2, 255})
	writeImage(t, filepath.Join(dir, "floor.png"), color.NRGBA{3, 3, 3, 255})
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))

	idx := BuildIndex(dir)
	assert.Equal(t, 2, idx.Len())

	path, ok := idx.ResolvePath(`backdrops\STUDIO.jpg`)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "sub", "studio.tga"), path)

	_, ok = idx.ResolvePath("nope")
	assert.False(t, ok)
	assert.Equal(t, 0, BuildIndex("").Len())
}

func TestCacheSharesImages(t *testing.T) {
	dir := t.TempDir()
	writeImage(t, filepath.Join(dir, "studio.png"), color.NRGBA{9, 9, 9, 255})
	c := NewCache(BuildIndex(dir))

	var wg sync.WaitGroup
	got := make([]*image.NRGBA, 8)
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i] = c.Resolve("studio")
		}(i)
	}
	wg.Wait()
	require.NotNil(t, got[0])
	for _, img := range got[1:] {
		assert.Same(t, got[0], img)
	}

	assert.Nil(t, c.Resolve(""))
	assert.Nil(t, c.Resolve("missing"))

	direct := NewCache(nil).Resolve(filepath.Join(dir, "studio.png"))
	require.NotNil(t, direct)
	assert.Equal(t, color.NRGBA{9, 9, 9, 255}, direct.NRGBAAt(0, 0))
}

func TestCacheRemembersMisses(t *testing.T) {
	dir := t.TempDir()
	c := NewCache(BuildIndex(dir))
	late := filepath.Join(dir, "late.png")

	assert.Nil(t, c.Resolve("studio"))
	assert.Nil(t, c.Resolve(late))
	assert.Len(t, c.items, 2, "misses are cached")

	// A file that appears later stays a miss for this cache.
	writeImage(t, late, color.NRGBA{1, 2, 3, 255})
	assert.Nil(t, c.Resolve(late))
	assert.Len(t, c.items, 2)
}
