package services

import (
	"fmt"

	"github.com/adampresley/imagesearch/pkg/models"
	"github.com/rfberaldo/sqlz"
)

type PhotoServicer interface {
	/*
	 * Retrieves all photos in the catalog, in index order. This is
	 * mostly useful for the collector.
	 */
	All() ([]*models.Photo, error)

	/*
	 * Deletes a photo from the catalog.
	 */
	Delete(id int64) error

	/*
	 * Inserts or updates a photo, keyed by storage path. The photo ID is
	 * populated on return.
	 */
	Save(photo *models.Photo) error
}

type PhotoServiceConfig struct {
	DB *sqlz.DB
}

type PhotoService struct {
	db *sqlz.DB
}

func NewPhotoService(config PhotoServiceConfig) PhotoService {
	return PhotoService{
		db: config.DB,
	}
}

const photoColumns = `
	id
	, created_at
	, updated_at
	, display_name
	, storage_path
	, ext
	, metadata_hash
	, caption
	, creation_date_time
	, width
	, height
`

/*
Retrieves all photos in the catalog, in index order.
*/
func (s PhotoService) All() ([]*models.Photo, error) {
	var (
		err    error
		result = []*models.Photo{}
	)

	sql := `SELECT ` + photoColumns + ` FROM photos ORDER BY id ASC`

	ctx, cancel := DBContext()
	defer cancel()

	if err = s.db.Query(ctx, &result, sql); err != nil {
		return result, fmt.Errorf("error querying for all photos: %w", err)
	}

	return result, nil
}

/*
Deletes a photo from the catalog.
*/
func (s PhotoService) Delete(id int64) error {
	var (
		err error
	)

	ctx, cancel := DBContext()
	defer cancel()

	if _, err = s.db.Exec(ctx, `DELETE FROM photos WHERE id=?`, id); err != nil {
		return fmt.Errorf("error deleting photo %d: %w", id, err)
	}

	return nil
}

/*
Inserts or updates a photo. Existing rows keep their ID and creation
time so the index order stays stable across collector runs.
*/
func (s PhotoService) Save(photo *models.Photo) error {
	var (
		err error
		id  int64
	)

	statement := `
INSERT INTO photos (
	created_at
	, updated_at
	, display_name
	, storage_path
	, ext
	, metadata_hash
	, caption
	, creation_date_time
	, width
	, height
) VALUES (
	?
	, ?
	, ?
	, ?
	, ?
	, ?
	, ?
	, ?
	, ?
	, ?
) ON CONFLICT (storage_path) DO UPDATE SET
	updated_at=excluded.updated_at
	, display_name=excluded.display_name
	, ext=excluded.ext
	, metadata_hash=excluded.metadata_hash
	, caption=excluded.caption
	, creation_date_time=excluded.creation_date_time
	, width=excluded.width
	, height=excluded.height
`

	args := []any{
		photo.CreatedAt,
		photo.UpdatedAt,
		photo.DisplayName,
		photo.StoragePath,
		photo.Ext,
		photo.MetadataHash,
		photo.Caption,
		photo.CreationDateTime,
		photo.Width,
		photo.Height,
	}

	ctx, cancel := DBContext()
	defer cancel()

	if _, err = s.db.Exec(ctx, statement, args...); err != nil {
		return fmt.Errorf("error saving photo %s: %w", photo.StoragePath, err)
	}

	if err = s.db.QueryRow(ctx, &id, `SELECT id FROM photos WHERE storage_path=?`, photo.StoragePath); err != nil {
		return fmt.Errorf("error reading back photo id for %s: %w", photo.StoragePath, err)
	}

	photo.ID = id
	return nil
}
