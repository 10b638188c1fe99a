package imageloader

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/adampresley/imagesearch/pkg/cache"
	"github.com/adampresley/imagesearch/pkg/models"
	"github.com/adampresley/imagesearch/pkg/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSettings struct {
	libraryPath string
}

func (f fakeSettings) Read() (*models.Settings, error) {
	return &models.Settings{LibraryPath: f.libraryPath, ThumbnailSize: 16}, nil
}

func (f fakeSettings) Save(settings *models.Settings) error {
	return nil
}

type countingCreator struct {
	cache.ThumbnailCacheCreator
	calls atomic.Int32
}

func (c *countingCreator) CreateCacheFile(originalFilePath string, cacheFilePath string) error {
	c.calls.Add(1)
	time.Sleep(20 * time.Millisecond)
	return c.ThumbnailCacheCreator.CreateCacheFile(originalFilePath, cacheFilePath)
}

type recordingTarget struct {
	mu      sync.Mutex
	results map[string]Result
	done    chan struct{}
}

func newRecordingTarget(expected int) *recordingTarget {
	return &recordingTarget{
		results: map[string]Result{},
		done:    make(chan struct{}, expected),
	}
}

func (r *recordingTarget) Deliver(token string, result Result) {
	r.mu.Lock()
	r.results[token] = result
	r.mu.Unlock()
	r.done <- struct{}{}
}

func (r *recordingTarget) wait(t *testing.T, n int) {
	t.Helper()

	for i := 0; i < n; i++ {
		select {
		case <-r.done:
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for delivery")
		}
	}
}

func writePNG(t *testing.T, path string) {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 64, 32))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	require.NoError(t, png.Encode(f, img))
}

func newTestLoader(t *testing.T, libraryPath string, creator cache.CacheCreator, ttl time.Duration) *Loader {
	t.Helper()

	l := NewLoader(LoaderConfig{
		CacheCreator:    creator,
		PhotoCache:      services.NewPhotoCache(services.PhotoCacheConfig{CachePath: filepath.Join(t.TempDir(), "cache")}),
		SettingsService: fakeSettings{libraryPath: libraryPath},
		MaxWorkers:      4,
		ImageCacheTTL:   ttl,
	})

	t.Cleanup(l.Stop)
	return l
}

func TestLoadThumbnailDeliversWithToken(t *testing.T) {
	library := t.TempDir()
	src := filepath.Join(library, "cat.png")
	writePNG(t, src)

	l := newTestLoader(t, library, cache.NewThumbnailCacheCreator(16), 0)
	target := newRecordingTarget(1)

	l.LoadThumbnail(target, "token-1", src)
	target.wait(t, 1)

	result := target.results["token-1"]
	require.NoError(t, result.Err)
	assert.Equal(t, src, result.StoragePath)
	assert.FileExists(t, result.ThumbnailPath)
}

func TestLoadThumbnailReportsDecodeFailure(t *testing.T) {
	library := t.TempDir()
	src := filepath.Join(library, "broken.jpg")
	require.NoError(t, os.WriteFile(src, []byte("nope"), 0644))

	l := newTestLoader(t, library, cache.NewThumbnailCacheCreator(16), 0)
	target := newRecordingTarget(1)

	l.LoadThumbnail(target, "t", src)
	target.wait(t, 1)

	assert.Error(t, target.results["t"].Err)
	assert.Empty(t, target.results["t"].ThumbnailPath)
}

func TestThumbnailCreationIsSharedAcrossConcurrentRequests(t *testing.T) {
	library := t.TempDir()
	src := filepath.Join(library, "dog.png")
	writePNG(t, src)

	creator := &countingCreator{ThumbnailCacheCreator: cache.NewThumbnailCacheCreator(16)}
	l := newTestLoader(t, library, creator, 0)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := l.ThumbnailPath(src)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), creator.calls.Load())

	_, err := l.ThumbnailPath(src)
	require.NoError(t, err)
	assert.Equal(t, int32(1), creator.calls.Load())
}

func TestDecodeFull(t *testing.T) {
	library := t.TempDir()
	src := filepath.Join(library, "bird.png")
	writePNG(t, src)

	l := newTestLoader(t, library, cache.NewThumbnailCacheCreator(16), time.Minute)

	img, err := l.DecodeFull(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, 64, img.Bounds().Dx())

	require.NoError(t, os.Remove(src))

	cached, err := l.DecodeFull(context.Background(), src)
	require.NoError(t, err)
	assert.Same(t, img, cached)
}

func TestDecodeFullErrors(t *testing.T) {
	library := t.TempDir()
	l := newTestLoader(t, library, cache.NewThumbnailCacheCreator(16), 0)

	_, err := l.DecodeFull(context.Background(), filepath.Join(library, "missing.jpg"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	corrupt := filepath.Join(library, "corrupt.jpg")
	require.NoError(t, os.WriteFile(corrupt, []byte("garbage"), 0644))

	_, err = l.DecodeFull(context.Background(), corrupt)
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = l.DecodeFull(ctx, corrupt)
	assert.True(t, errors.Is(err, context.Canceled))
}
