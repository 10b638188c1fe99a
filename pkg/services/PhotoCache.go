package services

import (
	"errors"
	"fmt"
	"os"

	"github.com/adampresley/imagesearch/pkg/models"
)

type PhotoCacher interface {
	/*
	 * Checks if the thumbnail cache for the given photo exists.
	 */
	Exists(settings *models.Settings, storagePath string) bool

	/*
	 * Returns the full path to the thumbnail cache for the given photo.
	 */
	GetFullCachePath(settings *models.Settings, storagePath string) string

	/*
	 * Deletes the thumbnail cache for the given photo.
	 */
	Remove(settings *models.Settings, storagePath string) error
}

type PhotoCacheConfig struct {
	CachePath string
}

type PhotoCache struct {
	cachePath string
}

func NewPhotoCache(config PhotoCacheConfig) PhotoCache {
	return PhotoCache{
		cachePath: config.CachePath,
	}
}

func (c PhotoCache) Exists(settings *models.Settings, storagePath string) bool {
	if _, err := os.Stat(c.GetFullCachePath(settings, storagePath)); err == nil {
		return true
	}

	return false
}

func (c PhotoCache) GetFullCachePath(settings *models.Settings, storagePath string) string {
	return GetThumbnailCachePathForPhoto(settings.LibraryPath, c.cachePath, storagePath)
}

func (c PhotoCache) Remove(settings *models.Settings, storagePath string) error {
	var (
		err error
	)

	fullPath := c.GetFullCachePath(settings, storagePath)

	if err = os.Remove(fullPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}

		return fmt.Errorf("error removing thumbnail cache for photo %s: %w", storagePath, err)
	}

	return nil
}
