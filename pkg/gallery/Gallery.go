package gallery

import (
	"context"
	"log/slog"
	"sync"

	"github.com/adampresley/imagesearch/pkg/mediaindex"
	"github.com/adampresley/imagesearch/pkg/metrics"
	"github.com/adampresley/imagesearch/pkg/models"
	"github.com/adampresley/imagesearch/pkg/permission"
)

type GalleryConfig struct {
	Permission  permission.Checker
	Reader      mediaindex.Reader
	LookupTable *NameLookupTable
	DataSource  *GridDataSource
	Metrics     *metrics.GalleryMetrics
}

/*
Gallery runs the startup indexing: it checks (or requests) permission
to read the library, reads the photo index once, and fills the lookup
table and the grid data source from it together.
*/
type Gallery struct {
	permission  permission.Checker
	reader      mediaindex.Reader
	lookupTable *NameLookupTable
	dataSource  *GridDataSource
	metrics     *metrics.GalleryMetrics

	indexOnce sync.Once
	readyOnce sync.Once
	ready     chan struct{}
}

func NewGallery(config GalleryConfig) *Gallery {
	return &Gallery{
		permission:  config.Permission,
		reader:      config.Reader,
		lookupTable: config.LookupTable,
		dataSource:  config.DataSource,
		metrics:     config.Metrics,
		ready:       make(chan struct{}),
	}
}

/*
Start indexes the library if permission is already granted. Otherwise
it requests permission and indexes once it is granted. When permission
is denied nothing is read and the gallery stays empty.
*/
func (g *Gallery) Start(ctx context.Context) {
	if g.permission.CheckGranted(permission.ReadLibrary) {
		g.index(ctx)
		return
	}

	slog.Info("library permission not granted, requesting it")

	g.permission.Request(permission.ReadLibrary, func(granted bool) {
		if !granted {
			slog.Warn("library permission denied, the gallery will be empty")
			g.markReady()
			return
		}

		g.index(ctx)
	})
}

// Ready is closed once indexing finished or was abandoned.
func (g *Gallery) Ready() <-chan struct{} {
	return g.ready
}

func (g *Gallery) index(ctx context.Context) {
	g.indexOnce.Do(func() {
		defer g.markReady()

		records, err := g.reader.Read(ctx)

		if err != nil {
			slog.Warn("photo index unavailable, showing no photos", "error", err)
			return
		}

		entries := make([]models.GridEntry, 0, len(records))

		for _, record := range records {
			g.lookupTable.Put(record.DisplayName, record.Location())
			entries = append(entries, record.GridEntry())
		}

		g.dataSource.AppendAll(entries)
		g.metrics.SetIndexedPhotos(len(entries))

		slog.Info("photo index loaded", "photos", len(entries), "names", g.lookupTable.Len())
	})
}

func (g *Gallery) markReady() {
	g.readyOnce.Do(func() {
		close(g.ready)
	})
}
