package library

import (
	"bytes"
	"image/jpeg"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/adampresley/adamgokit/httphelpers"
	"github.com/adampresley/imagesearch/cmd/imagesearch/internal/configuration"
	"github.com/adampresley/imagesearch/pkg/gallery"
	"github.com/adampresley/imagesearch/pkg/models"
	"github.com/adampresley/imagesearch/pkg/services"
)

type LibraryHandlers interface {
	ServeImage(w http.ResponseWriter, r *http.Request)
	ServePreview(w http.ResponseWriter, r *http.Request)
	ServeThumbnail(w http.ResponseWriter, r *http.Request)
}

/*
Thumbnailer returns the cached thumbnail for a photo, creating it when
needed.
*/
type Thumbnailer interface {
	ThumbnailPath(storagePath string) (string, error)
}

type LibraryControllerConfig struct {
	Config          *configuration.Config
	DataSource      *gallery.GridDataSource
	Preview         *gallery.Preview
	SettingsService services.SettingsServicer
	Thumbnails      Thumbnailer
}

type LibraryController struct {
	config          *configuration.Config
	dataSource      *gallery.GridDataSource
	preview         *gallery.Preview
	settingsService services.SettingsServicer
	thumbnails      Thumbnailer
}

func NewLibraryController(config LibraryControllerConfig) LibraryController {
	return LibraryController{
		config:          config.Config,
		dataSource:      config.DataSource,
		preview:         config.Preview,
		settingsService: config.SettingsService,
		thumbnails:      config.Thumbnails,
	}
}

/*
GET /grid/{index}/image
*/
func (c LibraryController) ServeImage(w http.ResponseWriter, r *http.Request) {
	var (
		err   error
		entry models.GridEntry
	)

	if entry, err = c.entryFromRequest(w, r); err != nil {
		return
	}

	c.serveFile(w, r, entry.StoragePath)
}

/*
GET /grid/{index}/thumbnail
*/
func (c LibraryController) ServeThumbnail(w http.ResponseWriter, r *http.Request) {
	var (
		err           error
		entry         models.GridEntry
		thumbnailPath string
	)

	if entry, err = c.entryFromRequest(w, r); err != nil {
		return
	}

	if thumbnailPath, err = c.thumbnails.ThumbnailPath(entry.StoragePath); err != nil {
		slog.Warn("no thumbnail available, serving the original", "error", err, "path", entry.StoragePath)
		c.serveFile(w, r, entry.StoragePath)
		return
	}

	serveContent(w, r, thumbnailPath)
}

/*
GET /preview
*/
func (c LibraryController) ServePreview(w http.ResponseWriter, r *http.Request) {
	var (
		err error
		buf bytes.Buffer
	)

	preview, ok := c.preview.Current()

	if !ok {
		http.Error(w, "Nothing to preview", http.StatusNotFound)
		return
	}

	if err = jpeg.Encode(&buf, preview.Image, &jpeg.Options{Quality: 90}); err != nil {
		slog.Error("error encoding preview", "error", err, "name", preview.Name)
		http.Error(w, "Error encoding preview", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	http.ServeContent(w, r, "preview.jpg", preview.ShownAt, bytes.NewReader(buf.Bytes()))
}

func (c LibraryController) entryFromRequest(w http.ResponseWriter, r *http.Request) (models.GridEntry, error) {
	index := httphelpers.GetFromRequest[int](r, "index")
	entry, err := c.dataSource.At(index)

	if err != nil {
		slog.Error("error retrieving grid entry", "error", err, "index", index)
		http.Error(w, "Photo not found", http.StatusNotFound)
		return entry, err
	}

	return entry, nil
}

/*
serveFile serves an original image, refusing anything outside the
library folder.
*/
func (c LibraryController) serveFile(w http.ResponseWriter, r *http.Request, storagePath string) {
	var (
		err      error
		settings *models.Settings
		libPath  string
		fullPath string
		rel      string
		safePath string
	)

	if settings, err = c.settingsService.Read(); err != nil {
		slog.Error("error reading settings", "error", err)
		http.Error(w, "Error reading settings", http.StatusInternalServerError)
		return
	}

	if libPath, err = filepath.Abs(settings.LibraryPath); err == nil {
		if fullPath, err = filepath.Abs(storagePath); err == nil {
			if rel, err = filepath.Rel(libPath, fullPath); err == nil {
				safePath, err = c.config.SanitizePath(libPath, rel)
			}
		}
	}

	if err != nil {
		slog.Error("refusing to serve photo outside the library", "error", err, "path", storagePath)
		http.Error(w, "Photo not found", http.StatusNotFound)
		return
	}

	serveContent(w, r, safePath)
}

func serveContent(w http.ResponseWriter, r *http.Request, fullPath string) {
	var (
		err  error
		f    *os.File
		info fs.FileInfo
	)

	if f, err = os.Open(fullPath); err != nil {
		slog.Error("error opening image file", "error", err, "path", fullPath)
		http.Error(w, "Error retrieving image", http.StatusInternalServerError)
		return
	}

	defer f.Close()

	modTime := time.Now()

	if info, err = f.Stat(); err == nil {
		modTime = info.ModTime()
	}

	http.ServeContent(w, r, filepath.Base(fullPath), modTime, f)
}
