package cache

import (
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/nfnt/resize"
)

/*
SupportedExtensions are the source formats thumbnails can be made from.
*/
var SupportedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

func IsSupported(path string) bool {
	return SupportedExtensions[strings.ToLower(filepath.Ext(path))]
}

type ThumbnailCacheCreator struct {
	thumbnailSize uint
}

func NewThumbnailCacheCreator(thumbnailSize uint) ThumbnailCacheCreator {
	return ThumbnailCacheCreator{
		thumbnailSize: thumbnailSize,
	}
}

func (c ThumbnailCacheCreator) DoesExist(cacheFilePath string) bool {
	if _, err := os.Stat(cacheFilePath); err == nil {
		return true
	}

	return false
}

/*
CreateCacheFile decodes the original image, shrinks it so its longest
edge matches the thumbnail size, and writes it as a JPEG.
*/
func (c ThumbnailCacheCreator) CreateCacheFile(originalFilePath string, cacheFilePath string) error {
	var (
		err error
		f   *os.File
		out *os.File
		img image.Image
	)

	if !IsSupported(originalFilePath) {
		return fmt.Errorf("unsupported image format: %s", filepath.Ext(originalFilePath))
	}

	if f, err = os.Open(originalFilePath); err != nil {
		return fmt.Errorf("error opening source image %s: %w", originalFilePath, err)
	}

	defer f.Close()

	if img, _, err = image.Decode(f); err != nil {
		return fmt.Errorf("error decoding image %s: %w", originalFilePath, err)
	}

	if err = os.MkdirAll(filepath.Dir(cacheFilePath), 0755); err != nil {
		return fmt.Errorf("error creating cache directory %s: %w", filepath.Dir(cacheFilePath), err)
	}

	/*
	 * Write to a temp file first so a reader never sees a half
	 * written thumbnail.
	 */
	if out, err = os.CreateTemp(filepath.Dir(cacheFilePath), filepath.Base(cacheFilePath)+".*.tmp"); err != nil {
		return fmt.Errorf("error creating cache file %s: %w", cacheFilePath, err)
	}

	tmpPath := out.Name()

	resizedImage := Resize(img, c.thumbnailSize)

	if err = jpeg.Encode(out, resizedImage, &jpeg.Options{Quality: 85}); err != nil {
		_ = out.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("error encoding JPEG image %s: %w", cacheFilePath, err)
	}

	if err = out.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("error closing cache file %s: %w", cacheFilePath, err)
	}

	if err = os.Rename(tmpPath, cacheFilePath); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("error moving cache file into place %s: %w", cacheFilePath, err)
	}

	return nil
}

/*
Resize scales img so its longest edge is maxSize. Images already
smaller than maxSize are returned untouched.
*/
func Resize(img image.Image, maxSize uint) image.Image {
	var (
		newWidth, newHeight uint
	)

	bounds := img.Bounds()
	width := uint(bounds.Dx())
	height := uint(bounds.Dy())

	if maxSize == 0 || (width <= maxSize && height <= maxSize) {
		return img
	}

	if width > height {
		// Landscape orientation
		newWidth = maxSize
		newHeight = uint(float64(height) * (float64(maxSize) / float64(width)))
	} else {
		// Portrait orientation or square
		newHeight = maxSize
		newWidth = uint(float64(width) * (float64(maxSize) / float64(height)))
	}

	return resize.Resize(newWidth, newHeight, img, resize.Lanczos3)
}
