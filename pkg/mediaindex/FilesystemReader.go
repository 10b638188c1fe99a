package mediaindex

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/adampresley/imagesearch/pkg/cache"
	"github.com/adampresley/imagesearch/pkg/models"
	"github.com/adampresley/imagesearch/pkg/services"
)

type FilesystemReaderConfig struct {
	SettingsService services.SettingsServicer
}

/*
FilesystemReader walks the library folder directly instead of reading
the catalog. IDs are assigned in walk order, starting at 1.
*/
type FilesystemReader struct {
	settingsService services.SettingsServicer
}

func NewFilesystemReader(config FilesystemReaderConfig) FilesystemReader {
	return FilesystemReader{
		settingsService: config.SettingsService,
	}
}

func (r FilesystemReader) Read(ctx context.Context) ([]models.PhotoRecord, error) {
	var (
		err      error
		settings *models.Settings
		records  = []models.PhotoRecord{}
		nextID   int64
	)

	if settings, err = r.settingsService.Read(); err != nil {
		return []models.PhotoRecord{}, fmt.Errorf("%w: %w", ErrIndexUnavailable, err)
	}

	if _, err = os.Stat(settings.LibraryPath); err != nil {
		return []models.PhotoRecord{}, fmt.Errorf("%w: %w", ErrIndexUnavailable, err)
	}

	err = filepath.WalkDir(settings.LibraryPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == settings.LibraryPath {
				return err
			}

			slog.Warn("skipping unreadable library entry", "path", path, "error", err)

			if d != nil && d.IsDir() {
				return fs.SkipDir
			}

			return nil
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if d.IsDir() || !cache.IsSupported(path) {
			return nil
		}

		nextID++

		records = append(records, models.PhotoRecord{
			ID:          nextID,
			DisplayName: d.Name(),
			StoragePath: path,
		})

		return nil
	})

	if err != nil {
		return []models.PhotoRecord{}, fmt.Errorf("%w: %w", ErrIndexUnavailable, err)
	}

	return records, nil
}
