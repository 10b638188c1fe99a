package gallery

import (
	"log/slog"
	"sync"

	"github.com/adampresley/imagesearch/pkg/imageloader"
	"github.com/adampresley/imagesearch/pkg/metrics"
)

const DefaultPageSize = 48

type ThumbnailLoader interface {
	LoadThumbnail(target imageloader.Target, token, storagePath string)
}

type GridRendererConfig struct {
	DataSource *GridDataSource
	Loader     ThumbnailLoader
	Metrics    *metrics.GalleryMetrics
	PageSize   int
}

/*
GridRenderer shows a window of the grid data source through a fixed
pool of cells. Scrolling rebinds cells to new entries and requests
their thumbnails.
*/
type GridRenderer struct {
	mu         sync.Mutex
	dataSource *GridDataSource
	loader     ThumbnailLoader
	cells      []*Cell
	offset     int
}

func NewGridRenderer(config GridRendererConfig) *GridRenderer {
	pageSize := config.PageSize

	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	result := &GridRenderer{
		dataSource: config.DataSource,
		loader:     config.Loader,
		cells:      make([]*Cell, pageSize),
	}

	for i := range result.cells {
		result.cells[i] = newCell(i, config.Metrics)
	}

	config.DataSource.Observe(result)
	return result
}

func (r *GridRenderer) ItemCount() int {
	return r.dataSource.Size()
}

func (r *GridRenderer) PageSize() int {
	return len(r.cells)
}

func (r *GridRenderer) Offset() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.offset
}

/*
Scroll moves the window so the first cell shows entry offset and
returns the resulting cells. Cells already showing the right entry are
left alone.
*/
func (r *GridRenderer) Scroll(offset int) []CellView {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.offset = r.clampOffset(offset)
	r.bindWindow()

	return r.views()
}

// Window returns the cells of the current window without moving it.
func (r *GridRenderer) Window() []CellView {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.views()
}

// OnDataSetChanged implements DataSetObserver.
func (r *GridRenderer) OnDataSetChanged() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.offset = r.clampOffset(r.offset)

	slog.Debug("grid data changed", "size", r.dataSource.Size())
	r.bindWindow()
}

func (r *GridRenderer) clampOffset(offset int) int {
	size := r.dataSource.Size()

	if offset < 0 || size == 0 {
		return 0
	}

	if offset >= size {
		return ((size - 1) / len(r.cells)) * len(r.cells)
	}

	return offset
}

/*
Entries are append-only, so a cell still showing the index it should
show needs no rebind.
*/
func (r *GridRenderer) bindWindow() {
	for i, cell := range r.cells {
		index := r.offset + i
		entry, err := r.dataSource.At(index)

		if err != nil {
			cell.unbind()
			continue
		}

		if cell.boundTo(index) {
			continue
		}

		token := cell.bind(index, entry)
		r.loader.LoadThumbnail(cell, token, entry.StoragePath)
	}
}

func (r *GridRenderer) views() []CellView {
	result := make([]CellView, 0, len(r.cells))

	for _, cell := range r.cells {
		result = append(result, cell.View())
	}

	return result
}
