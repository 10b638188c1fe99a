package models

import (
	"hash/fnv"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/adampresley/imagemetadata/imagemodel"
)

/*
Photo is a row in the photo catalog. The catalog plays the role of the
system photo index: the collector keeps it current and media index
readers query it.
*/
type Photo struct {
	BaseModel
	ID int64

	DisplayName      string
	StoragePath      string
	Ext              string
	MetadataHash     string
	Caption          string
	CreationDateTime time.Time
	Width            int
	Height           int
}

/*
NewPhotoFromImageData builds a catalog photo from a file path and the
metadata extracted from a JPEG.
*/
func NewPhotoFromImageData(imagePath string, imageData *imagemodel.ImageData) *Photo {
	caption := imageData.CaptionEXIF

	if caption == "" {
		caption = imageData.CaptionIPTC
	}

	result := NewPhoto(imagePath, imageData.Width, imageData.Height)
	result.Caption = strings.TrimSpace(caption)
	result.CreationDateTime = determineCreationDateTime(imageData.CreationDateTime)
	result.MetadataHash = result.GenerateMetadataHash()

	return result
}

/*
NewPhoto builds a catalog photo for formats without embedded metadata.
*/
func NewPhoto(imagePath string, width, height int) *Photo {
	result := &Photo{
		BaseModel: BaseModel{
			CreatedAt: time.Now().UTC(),
			UpdatedAt: time.Now().UTC(),
		},
		DisplayName: filepath.Base(imagePath),
		StoragePath: imagePath,
		Ext:         filepath.Ext(imagePath),
		Width:       width,
		Height:      height,
	}

	result.MetadataHash = result.GenerateMetadataHash()
	return result
}

func (p *Photo) GenerateMetadataHash() string {
	s := strings.Builder{}
	h := fnv.New64a()

	s.WriteString(p.StoragePath + "_")
	s.WriteString(p.DisplayName + "_")
	s.WriteString(p.Caption + "_")
	s.WriteString(p.CreationDateTime.Format(time.RFC3339) + "_")
	s.WriteString(strconv.FormatInt(int64(p.Width), 10) + "_")
	s.WriteString(strconv.FormatInt(int64(p.Height), 10) + "_")

	h.Write([]byte(s.String()))
	sum := h.Sum64()

	return strconv.FormatUint(sum, 10)
}

/*
AlbumPath returns the directory of a photo relative to the library.
*/
func AlbumPath(libraryPath, storagePath string) string {
	dir := filepath.Dir(storagePath)
	dir = strings.TrimPrefix(dir, libraryPath)
	dir = strings.TrimPrefix(dir, string(filepath.Separator))
	return dir
}

func determineCreationDateTime(dateTimeString string) time.Time {
	result, err := time.Parse("2006-01-02T15:04:05", dateTimeString)

	if err != nil {
		return time.Time{}
	}

	return result
}
