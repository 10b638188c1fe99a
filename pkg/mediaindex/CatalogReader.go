package mediaindex

import (
	"context"
	"fmt"

	"github.com/adampresley/imagesearch/pkg/models"
	"github.com/rfberaldo/sqlz"
)

type CatalogReaderConfig struct {
	DB *sqlz.DB
}

/*
CatalogReader reads the photo catalog kept current by the collector.
*/
type CatalogReader struct {
	db *sqlz.DB
}

func NewCatalogReader(config CatalogReaderConfig) CatalogReader {
	return CatalogReader{
		db: config.DB,
	}
}

func (r CatalogReader) Read(ctx context.Context) ([]models.PhotoRecord, error) {
	var (
		err  error
		rows = []*models.PhotoRecord{}
	)

	statement := `
SELECT
	id
	, display_name
	, storage_path
FROM photos
ORDER BY id ASC
`

	if err = r.db.Query(ctx, &rows, statement); err != nil {
		return []models.PhotoRecord{}, fmt.Errorf("%w: %w", ErrIndexUnavailable, err)
	}

	records := make([]models.PhotoRecord, 0, len(rows))

	for _, row := range rows {
		records = append(records, *row)
	}

	return records, nil
}
