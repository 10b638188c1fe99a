package gallery

import (
	"context"
	"image"
	"log/slog"

	"github.com/adampresley/imagesearch/pkg/metrics"
	"github.com/adampresley/imagesearch/pkg/models"
)

type FullImageDecoder interface {
	DecodeFull(ctx context.Context, path string) (image.Image, error)
	Submit(task func())
}

type SearchControllerConfig struct {
	LookupTable *NameLookupTable
	Decoder     FullImageDecoder
	Preview     *Preview
	Metrics     *metrics.GalleryMetrics
}

/*
SearchController finds a photo by exact display name and shows it in
the preview. Names are expected to be trimmed by the caller already.
*/
type SearchController struct {
	lookupTable *NameLookupTable
	decoder     FullImageDecoder
	preview     *Preview
	metrics     *metrics.GalleryMetrics
}

func NewSearchController(config SearchControllerConfig) *SearchController {
	return &SearchController{
		lookupTable: config.LookupTable,
		decoder:     config.Decoder,
		preview:     config.Preview,
		metrics:     config.Metrics,
	}
}

/*
SearchAsync looks name up and, when found, decodes the photo on the
decoder's pool. callback receives the outcome once. A decode that has
started always runs to completion.
*/
func (c *SearchController) SearchAsync(name string, callback func(result models.SearchResult)) {
	location, ok := c.lookupTable.Get(name)

	if !ok {
		callback(c.finish(models.SearchResult{
			Name:    name,
			Status:  models.SearchNotFound,
			Message: models.MessageImageNotFound,
		}))
		return
	}

	c.decoder.Submit(func() {
		img, err := c.decoder.DecodeFull(context.Background(), location.Path)

		if err != nil {
			slog.Error("error decoding searched image", "error", err, "name", name, "path", location.Path)

			callback(c.finish(models.SearchResult{
				Name:     name,
				Status:   models.SearchDecodeFailed,
				Message:  models.MessageFailedToDisplay,
				Location: location,
			}))
			return
		}

		c.preview.Show(name, location, img)

		callback(c.finish(models.SearchResult{
			Name:     name,
			Status:   models.SearchFound,
			Location: location,
		}))
	})
}

/*
Search is SearchAsync for callers that can wait. If ctx ends first the
caller stops waiting and gets ctx's error; the decode still finishes
and still updates the preview.
*/
func (c *SearchController) Search(ctx context.Context, name string) (models.SearchResult, error) {
	done := make(chan models.SearchResult, 1)

	c.SearchAsync(name, func(result models.SearchResult) {
		done <- result
	})

	select {
	case result := <-done:
		return result, nil
	case <-ctx.Done():
		return models.SearchResult{Name: name}, ctx.Err()
	}
}

func (c *SearchController) finish(result models.SearchResult) models.SearchResult {
	c.metrics.IncrementSearches(result.Status.String())
	return result
}
