package services

import (
	"fmt"
	"strings"

	"github.com/adampresley/imagesearch/pkg/models"
	"github.com/rfberaldo/sqlz"
)

const (
	DefaultThumbnailSize     = 300
	DefaultMaxWorkers        = 5
	DefaultCollectorSchedule = "0 */1 * * *"
)

type SettingsServicer interface {
	Read() (*models.Settings, error)
	Save(settings *models.Settings) error
}

type SettingsServiceConfig struct {
	DB *sqlz.DB
}

type SettingsService struct {
	db *sqlz.DB
}

func NewSettingsService(config SettingsServiceConfig) SettingsService {
	return SettingsService{
		db: config.DB,
	}
}

/*
Read returns the stored settings, or the defaults when nothing has been
saved yet.
*/
func (s SettingsService) Read() (*models.Settings, error) {
	var (
		err error
	)

	result := &models.Settings{
		ThumbnailSize:     DefaultThumbnailSize,
		MaxWorkers:        DefaultMaxWorkers,
		CollectorSchedule: DefaultCollectorSchedule,
	}

	sql := `
SELECT
	id
	, collector_schedule
	, max_workers
	, library_path
	, thumbnail_size
FROM settings
WHERE 1=1
	AND id=1
`

	ctx, cancel := DBContext()
	defer cancel()

	if err = s.db.QueryRow(ctx, result, sql); err != nil && !sqlz.IsNotFound(err) {
		return result, fmt.Errorf("error querying for settings: %w", err)
	}

	applyDefaults(result)
	return result, nil
}

func (s SettingsService) Save(settings *models.Settings) error {
	var (
		err error
	)

	applyDefaults(settings)

	sql := `
INSERT INTO settings (
	id
	, collector_schedule
	, max_workers
	, library_path
	, thumbnail_size
) VALUES (
	1
	, ?
	, ?
	, ?
	, ?
)
ON CONFLICT (id) DO
UPDATE SET
	collector_schedule=excluded.collector_schedule
	, max_workers=excluded.max_workers
	, library_path=excluded.library_path
	, thumbnail_size=excluded.thumbnail_size
`

	args := []any{
		settings.CollectorSchedule,
		settings.MaxWorkers,
		settings.LibraryPath,
		settings.ThumbnailSize,
	}

	ctx, cancel := DBContext()
	defer cancel()

	if _, err = s.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error saving settings: %w", err)
	}

	return nil
}

func applyDefaults(settings *models.Settings) {
	settings.LibraryPath = strings.TrimSpace(settings.LibraryPath)

	if settings.ThumbnailSize <= 0 {
		settings.ThumbnailSize = DefaultThumbnailSize
	}

	if settings.MaxWorkers <= 0 {
		settings.MaxWorkers = DefaultMaxWorkers
	}

	if strings.TrimSpace(settings.CollectorSchedule) == "" {
		settings.CollectorSchedule = DefaultCollectorSchedule
	}
}
