package mediaindex

import (
	"context"
	"errors"

	"github.com/adampresley/imagesearch/pkg/models"
)

var (
	ErrIndexUnavailable = errors.New("photo index unavailable")
)

/*
Reader produces one PhotoRecord per indexed photo, in index order. The
result is a snapshot taken at call time. When the index cannot be
opened, Read returns an empty slice and an error wrapping
ErrIndexUnavailable; it never returns a partial result.
*/
type Reader interface {
	Read(ctx context.Context) ([]models.PhotoRecord, error)
}
