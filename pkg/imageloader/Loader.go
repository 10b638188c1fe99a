package imageloader

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"
	"time"

	"github.com/adampresley/imagesearch/pkg/cache"
	"github.com/adampresley/imagesearch/pkg/metrics"
	"github.com/adampresley/imagesearch/pkg/models"
	"github.com/adampresley/imagesearch/pkg/services"
	"github.com/alitto/pond/v2"
	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
)

/*
Result is what a thumbnail load hands back to its target. Err is set
when the thumbnail could not be produced.
*/
type Result struct {
	StoragePath   string
	ThumbnailPath string
	Err           error
}

/*
Target receives thumbnail results. token is whatever the caller passed
to LoadThumbnail; targets that have been reused for something else
since the request was made compare it and drop the result.
*/
type Target interface {
	Deliver(token string, result Result)
}

type LoaderConfig struct {
	CacheCreator    cache.CacheCreator
	PhotoCache      services.PhotoCacher
	SettingsService services.SettingsServicer
	Metrics         *metrics.GalleryMetrics

	// MaxWorkers bounds concurrent decodes. Zero means unbounded.
	MaxWorkers int

	// ImageCacheTTL is how long decoded full images stay in memory.
	// Zero disables the in-memory cache.
	ImageCacheTTL time.Duration
}

/*
Loader decodes images off the caller's goroutine. Thumbnails are
written to the thumbnail cache and delivered to a Target; full images
are decoded on demand and kept in memory for a while.
*/
type Loader struct {
	cacheCreator    cache.CacheCreator
	photoCache      services.PhotoCacher
	settingsService services.SettingsServicer
	metrics         *metrics.GalleryMetrics

	pool     pond.Pool
	inflight singleflight.Group
	images   *gocache.Cache
}

func NewLoader(config LoaderConfig) *Loader {
	result := &Loader{
		cacheCreator:    config.CacheCreator,
		photoCache:      config.PhotoCache,
		settingsService: config.SettingsService,
		metrics:         config.Metrics,
		pool:            pond.NewPool(config.MaxWorkers),
	}

	if config.ImageCacheTTL > 0 {
		result.images = gocache.New(config.ImageCacheTTL, config.ImageCacheTTL*2)
	}

	return result
}

/*
LoadThumbnail makes sure a thumbnail for storagePath exists and
delivers its location to target. It returns immediately.
*/
func (l *Loader) LoadThumbnail(target Target, token, storagePath string) {
	l.pool.Submit(func() {
		thumbnailPath, err := l.ThumbnailPath(storagePath)

		if err != nil {
			slog.Debug("thumbnail load failed", "path", storagePath, "error", err)
			l.metrics.IncrementThumbnailLoads("error")
		} else {
			l.metrics.IncrementThumbnailLoads("ok")
		}

		target.Deliver(token, Result{
			StoragePath:   storagePath,
			ThumbnailPath: thumbnailPath,
			Err:           err,
		})
	})
}

/*
ThumbnailPath returns the cached thumbnail for storagePath, creating it
first when needed. Concurrent calls for the same photo share one
creation.
*/
func (l *Loader) ThumbnailPath(storagePath string) (string, error) {
	var (
		err      error
		settings *models.Settings
	)

	if settings, err = l.settingsService.Read(); err != nil {
		return "", fmt.Errorf("error reading settings: %w", err)
	}

	cachePath := l.photoCache.GetFullCachePath(settings, storagePath)

	if l.cacheCreator.DoesExist(cachePath) {
		return cachePath, nil
	}

	_, err, _ = l.inflight.Do(cachePath, func() (any, error) {
		if l.cacheCreator.DoesExist(cachePath) {
			return nil, nil
		}

		return nil, l.cacheCreator.CreateCacheFile(storagePath, cachePath)
	})

	if err != nil {
		return "", err
	}

	return cachePath, nil
}

/*
DecodeFull decodes the image at path at full resolution on the calling
goroutine.
*/
func (l *Loader) DecodeFull(ctx context.Context, path string) (image.Image, error) {
	var (
		err error
		f   *os.File
		img image.Image
	)

	if err = ctx.Err(); err != nil {
		return nil, err
	}

	if l.images != nil {
		if cached, ok := l.images.Get(path); ok {
			return cached.(image.Image), nil
		}
	}

	start := time.Now()
	defer l.metrics.ObserveDecode(start)

	if f, err = os.Open(path); err != nil {
		return nil, fmt.Errorf("error opening image %s: %w", path, err)
	}

	defer f.Close()

	if img, _, err = image.Decode(f); err != nil {
		return nil, fmt.Errorf("error decoding image %s: %w", path, err)
	}

	if l.images != nil {
		l.images.Set(path, img, gocache.DefaultExpiration)
	}

	return img, nil
}

/*
Submit runs task on the loader's worker pool.
*/
func (l *Loader) Submit(task func()) {
	l.pool.Submit(task)
}

/*
Stop waits for queued work to finish and shuts the pool down.
*/
func (l *Loader) Stop() {
	l.pool.StopAndWait()

	if l.images != nil {
		l.images.Flush()
	}
}
