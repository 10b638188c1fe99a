package services

import (
	"path/filepath"
	"strings"

	"github.com/adampresley/imagesearch/pkg/models"
)

const ThumbnailSuffix = ".thumb.jpg"

/*
GetThumbnailCacheDir returns the full path to the thumbnail cache directory for a given album.
An album path is the directory of a photo relative to the library.
*/
func GetThumbnailCacheDir(libraryPath, cachePath, albumPath string) string {
	pathMinusLibraryRoot := strings.TrimPrefix(albumPath, libraryPath)
	return filepath.Join(cachePath, pathMinusLibraryRoot, "thumbnails")
}

/*
GetThumbnailCachePath returns the full path to the thumbnail cache file for a given album and file.
Thumbnails are always JPEG and are named after the full source file name plus ThumbnailSuffix,
so no two sources in an album share a thumbnail.
*/
func GetThumbnailCachePath(libraryPath, cachePath, albumPath, displayName string) string {
	return filepath.Join(GetThumbnailCacheDir(libraryPath, cachePath, albumPath), displayName+ThumbnailSuffix)
}

/*
GetThumbnailCachePathForPhoto derives the cache path straight from a photo's storage path.
*/
func GetThumbnailCachePathForPhoto(libraryPath, cachePath, storagePath string) string {
	return GetThumbnailCachePath(
		libraryPath,
		cachePath,
		models.AlbumPath(libraryPath, storagePath),
		filepath.Base(storagePath),
	)
}
