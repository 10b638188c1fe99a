package cache

import (
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 100, A: 255})
		}
	}

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	require.NoError(t, png.Encode(f, img))
}

func TestCreateCacheFileWritesJpegThumbnail(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "wide.png")
	dst := filepath.Join(dir, "cache", "thumbnails", "wide.png.jpg")

	writePNG(t, src, 200, 100)

	c := NewThumbnailCacheCreator(50)
	assert.False(t, c.DoesExist(dst))
	require.NoError(t, c.CreateCacheFile(src, dst))
	assert.True(t, c.DoesExist(dst))

	f, err := os.Open(dst)
	require.NoError(t, err)
	defer f.Close()

	img, err := jpeg.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 50, img.Bounds().Dx())
	assert.Equal(t, 25, img.Bounds().Dy())
}

func TestCreateCacheFileConcurrentWritersShareDestination(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "wide.png")
	dst := filepath.Join(dir, "cache", "wide.png.thumb.jpg")

	writePNG(t, src, 200, 100)

	c := NewThumbnailCacheCreator(50)
	wg := sync.WaitGroup{}
	errs := make([]error, 8)

	for i := range errs {
		wg.Add(1)

		go func(i int) {
			defer wg.Done()
			errs[i] = c.CreateCacheFile(src, dst)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}

	f, err := os.Open(dst)
	require.NoError(t, err)
	defer f.Close()

	_, err = jpeg.Decode(f)
	require.NoError(t, err)

	leftovers, err := filepath.Glob(filepath.Join(dir, "cache", "*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestCreateCacheFileRejectsUnsupportedFormats(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(src, []byte("hello"), 0644))

	err := NewThumbnailCacheCreator(50).CreateCacheFile(src, filepath.Join(dir, "out.jpg"))
	assert.Error(t, err)
}

func TestCreateCacheFileFailsOnCorruptImage(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "broken.jpg")
	require.NoError(t, os.WriteFile(src, []byte("not really a jpeg"), 0644))

	dst := filepath.Join(dir, "out.jpg")
	err := NewThumbnailCacheCreator(50).CreateCacheFile(src, dst)
	assert.Error(t, err)
	assert.NoFileExists(t, dst)
}

func TestResizeKeepsSmallImages(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 20))
	assert.Same(t, img, Resize(img, 300).(*image.RGBA))

	tall := image.NewRGBA(image.Rect(0, 0, 100, 400))
	resized := Resize(tall, 100)
	assert.Equal(t, 25, resized.Bounds().Dx())
	assert.Equal(t, 100, resized.Bounds().Dy())
}

func TestIsSupported(t *testing.T) {
	assert.True(t, IsSupported("/a/B.JPG"))
	assert.True(t, IsSupported("c.gif"))
	assert.False(t, IsSupported("d.tiff"))
}
