package library

import (
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/adampresley/imagesearch/cmd/imagesearch/internal/configuration"
	"github.com/adampresley/imagesearch/pkg/gallery"
	"github.com/adampresley/imagesearch/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSettings struct {
	libraryPath string
}

func (f fakeSettings) Read() (*models.Settings, error) {
	return &models.Settings{LibraryPath: f.libraryPath}, nil
}

func (f fakeSettings) Save(settings *models.Settings) error {
	return nil
}

type fakeThumbnails struct {
	path string
	err  error
}

func (f fakeThumbnails) ThumbnailPath(storagePath string) (string, error) {
	return f.path, f.err
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func newController(t *testing.T, library string, entryPath string, thumbnails Thumbnailer) (LibraryController, *gallery.Preview) {
	t.Helper()

	dataSource := gallery.NewGridDataSource()
	dataSource.Append(entryPath, filepath.Base(entryPath))

	preview := gallery.NewPreview()

	return NewLibraryController(LibraryControllerConfig{
		Config:          &configuration.Config{},
		DataSource:      dataSource,
		Preview:         preview,
		SettingsService: fakeSettings{libraryPath: library},
		Thumbnails:      thumbnails,
	}), preview
}

func serve(handler http.HandlerFunc, pattern, target string) *httptest.ResponseRecorder {
	m := http.NewServeMux()
	m.HandleFunc(pattern, handler)

	w := httptest.NewRecorder()
	m.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestServeImage(t *testing.T) {
	library := t.TempDir()
	photo := filepath.Join(library, "2024", "cat.jpg")
	writeFile(t, photo, "original")

	c, _ := newController(t, library, photo, fakeThumbnails{})
	w := serve(c.ServeImage, "GET /grid/{index}/image", "/grid/0/image")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "original", w.Body.String())
}

func TestServeImageRefusesPathsOutsideLibrary(t *testing.T) {
	library := t.TempDir()
	outside := filepath.Join(t.TempDir(), "secret.jpg")
	writeFile(t, outside, "secret")

	c, _ := newController(t, library, outside, fakeThumbnails{})
	w := serve(c.ServeImage, "GET /grid/{index}/image", "/grid/0/image")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NotContains(t, w.Body.String(), "secret")
}

func TestServeThumbnail(t *testing.T) {
	library := t.TempDir()
	photo := filepath.Join(library, "cat.jpg")
	thumb := filepath.Join(t.TempDir(), "cat.jpg")
	writeFile(t, photo, "original")
	writeFile(t, thumb, "thumb")

	c, _ := newController(t, library, photo, fakeThumbnails{path: thumb})
	w := serve(c.ServeThumbnail, "GET /grid/{index}/thumbnail", "/grid/0/thumbnail")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "thumb", w.Body.String())
}

func TestServeThumbnailFallsBackToOriginal(t *testing.T) {
	library := t.TempDir()
	photo := filepath.Join(library, "cat.jpg")
	writeFile(t, photo, "original")

	c, _ := newController(t, library, photo, fakeThumbnails{err: errors.New("cannot decode")})
	w := serve(c.ServeThumbnail, "GET /grid/{index}/thumbnail", "/grid/0/thumbnail")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "original", w.Body.String())
}

func TestServePreview(t *testing.T) {
	library := t.TempDir()
	c, preview := newController(t, library, filepath.Join(library, "cat.jpg"), fakeThumbnails{})

	w := serve(c.ServePreview, "GET /preview", "/preview")
	assert.Equal(t, http.StatusNotFound, w.Code)

	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	preview.Show("cat.jpg", models.Location{ID: 1, Path: "/x/cat.jpg"}, img)

	w = serve(c.ServePreview, "GET /preview", "/preview")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/jpeg", w.Header().Get("Content-Type"))

	decoded, err := jpeg.Decode(w.Body)
	require.NoError(t, err)
	assert.Equal(t, 4, decoded.Bounds().Dx())
	assert.Equal(t, 3, decoded.Bounds().Dy())
}
