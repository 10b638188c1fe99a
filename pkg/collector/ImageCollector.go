package collector

import (
	"errors"
	"fmt"
	"image"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/adampresley/adamgokit/slices"
	"github.com/adampresley/imagemetadata"
	"github.com/adampresley/imagesearch/pkg/cache"
	"github.com/adampresley/imagesearch/pkg/models"
	"github.com/adampresley/imagesearch/pkg/services"
	"github.com/alitto/pond/v2"
)

type ImageCollectorConfig struct {
	CachePath    string
	CacheCreator cache.CacheCreator
	PhotoCache   services.PhotoCacher
	PhotoService services.PhotoServicer
}

type ImageCollector struct {
	cachePath    string
	cacheCreator cache.CacheCreator
	photoCache   services.PhotoCacher
	photoService services.PhotoServicer

	mu      sync.Mutex
	running bool
}

func NewImageCollector(config ImageCollectorConfig) (*ImageCollector, error) {
	var (
		err error
	)

	// Ensure cache path exists
	if _, err = os.Stat(config.CachePath); os.IsNotExist(err) {
		if err = os.MkdirAll(config.CachePath, 0755); err != nil {
			return &ImageCollector{}, fmt.Errorf("error creating cache directory: %w", err)
		}
	}

	return &ImageCollector{
		cachePath:    config.CachePath,
		cacheCreator: config.CacheCreator,
		photoCache:   config.PhotoCache,
		photoService: config.PhotoService,
	}, nil
}

func (c *ImageCollector) Run(settingsService services.SettingsServicer) ([]error, error) {
	var (
		err           error
		processErrors []error
		allPhotos     []*models.Photo
		settings      *models.Settings
	)

	c.mu.Lock()

	if c.running {
		c.mu.Unlock()
		return []error{}, ErrCollectorAlreadyRunning
	}

	c.running = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.running = false
		c.mu.Unlock()
	}()

	if settings, err = settingsService.Read(); err != nil {
		return []error{}, fmt.Errorf("error reading settings: %w", err)
	}

	/*
	 * Verify the library path exists. If not, return an error.
	 */
	if settings.LibraryPath == "" {
		return []error{}, ErrInvalidLibraryPath
	}

	if info, err := os.Stat(settings.LibraryPath); err != nil || !info.IsDir() {
		return []error{}, ErrInvalidLibraryPath
	}

	slog.Info("starting ImageCollector", "maxWorkers", settings.MaxWorkers, "libraryPath", settings.LibraryPath, "cachePath", c.cachePath)

	if allPhotos, err = c.photoService.All(); err != nil {
		return []error{}, fmt.Errorf("error retrieving all photos: %w", err)
	}

	slog.Info("retrieved all catalog photos", "count", len(allPhotos))

	processErrors = append(processErrors, c.cleanRemovedPhotos(settings, allPhotos)...)
	processErrors = append(processErrors, c.syncPhotos(settings, allPhotos)...)

	return processErrors, nil
}

/*
cleanRemovedPhotos drops catalog rows, and their thumbnails, for files
that are gone or no longer inside the library.
*/
func (c *ImageCollector) cleanRemovedPhotos(settings *models.Settings, allPhotos []*models.Photo) []error {
	var (
		err  error
		errs []error
	)

	for _, photo := range allPhotos {
		_, statErr := os.Stat(photo.StoragePath)
		outsideLibrary := !isInsideLibrary(settings.LibraryPath, photo.StoragePath)

		if !errors.Is(statErr, os.ErrNotExist) && !outsideLibrary {
			continue
		}

		slog.Info("removing photo", "id", photo.ID, "path", photo.StoragePath)

		if err = c.photoService.Delete(photo.ID); err != nil {
			errs = append(errs, fmt.Errorf("could not delete photo %d: %w", photo.ID, err))
			continue
		}

		if err = c.photoCache.Remove(settings, photo.StoragePath); err != nil {
			errs = append(errs, fmt.Errorf("could not remove cache file for '%s': %w", photo.StoragePath, err))
		}
	}

	return errs
}

func isInsideLibrary(libraryPath, storagePath string) bool {
	rel, err := filepath.Rel(filepath.Clean(libraryPath), filepath.Clean(storagePath))

	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return false
	}

	return !filepath.IsAbs(rel)
}

func (c *ImageCollector) syncPhotos(settings *models.Settings, allPhotos []*models.Photo) []error {
	var (
		errs []error
	)

	pool := pond.NewResultPool[[]error](settings.MaxWorkers)
	group := pool.NewGroup()

	walkErr := filepath.WalkDir(settings.LibraryPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			errs = append(errs, fmt.Errorf("could not read '%s': %w", path, err))

			if d != nil && d.IsDir() {
				return fs.SkipDir
			}

			return nil
		}

		if d.IsDir() || !cache.IsSupported(path) {
			return nil
		}

		group.Submit(func() []error {
			return c.syncPhoto(settings, allPhotos, path)
		})

		return nil
	})

	if walkErr != nil {
		errs = append(errs, fmt.Errorf("error walking library: %w", walkErr))
	}

	result, _ := group.Wait()
	pool.StopAndWait()

	for _, groupErrors := range result {
		errs = append(errs, groupErrors...)
	}

	return errs
}

func (c *ImageCollector) syncPhoto(settings *models.Settings, allPhotos []*models.Photo, path string) []error {
	var (
		err       error
		filePhoto *models.Photo
	)

	fullCachePath := c.photoCache.GetFullCachePath(settings, path)

	if filePhoto, err = readPhoto(path); err != nil {
		return []error{fmt.Errorf("could not read photo '%s': %w", path, err)}
	}

	existingPhoto := slices.Find(allPhotos, func(p *models.Photo) bool {
		return p.StoragePath == path
	})

	if existingPhoto != nil && existingPhoto.MetadataHash == filePhoto.MetadataHash {
		if !c.cacheCreator.DoesExist(fullCachePath) {
			slog.Info("creating cache file for photo", "path", fullCachePath)

			if err = c.cacheCreator.CreateCacheFile(path, fullCachePath); err != nil {
				return []error{fmt.Errorf("could not create cache file for '%s': %w", path, err)}
			}
		}

		return []error{}
	}

	action := "creating"

	if existingPhoto != nil {
		filePhoto.ID = existingPhoto.ID
		filePhoto.CreatedAt = existingPhoto.CreatedAt
		filePhoto.UpdatedAt = time.Now().UTC()
		action = "updating"
	}

	slog.Info(action+" photo", "path", path, "metadataHash", filePhoto.MetadataHash)

	if err = c.photoService.Save(filePhoto); err != nil {
		slog.Error("error saving photo", "error", err, "path", path)
		return []error{fmt.Errorf("could not save photo '%s': %w", path, err)}
	}

	/*
	 * The photo is catalogued even when no thumbnail can be made. The
	 * next run tries the thumbnail again.
	 */
	if err = c.cacheCreator.CreateCacheFile(path, fullCachePath); err != nil {
		return []error{fmt.Errorf("could not create cache file for '%s': %w", path, err)}
	}

	return []error{}
}

/*
readPhoto builds a catalog photo from the file at path. JPEGs carry
EXIF/IPTC metadata; other formats only give us their dimensions.
*/
func readPhoto(path string) (*models.Photo, error) {
	var (
		err error
		f   *os.File
		cfg image.Config
	)

	if f, err = os.Open(path); err != nil {
		return nil, err
	}

	defer f.Close()

	ext := strings.ToLower(filepath.Ext(path))

	if ext == ".jpg" || ext == ".jpeg" {
		imageData, err := imagemetadata.NewFromJPEG(f)

		if err == nil {
			return models.NewPhotoFromImageData(path, imageData), nil
		}

		slog.Debug("no usable metadata, falling back to image header", "path", path, "error", err)

		if _, err = f.Seek(0, 0); err != nil {
			return nil, err
		}
	}

	if cfg, _, err = image.DecodeConfig(f); err != nil {
		return nil, fmt.Errorf("could not decode image header: %w", err)
	}

	return models.NewPhoto(path, cfg.Width, cfg.Height), nil
}
