package gallery

import (
	"strconv"
	"sync"

	"github.com/adampresley/imagesearch/pkg/imageloader"
	"github.com/adampresley/imagesearch/pkg/metrics"
	"github.com/adampresley/imagesearch/pkg/models"
	"github.com/google/uuid"
)

/*
CellView is a snapshot of a cell, safe to hand to a template.
*/
type CellView struct {
	Slot          int
	Index         int
	Caption       string
	StoragePath   string
	ThumbnailURL  string
	ThumbnailPath string
	Ready         bool
	Failed        bool
	Empty         bool
}

/*
Cell is one reusable slot of the grid. Every bind issues a new token;
thumbnail results carrying any other token are dropped, so a result
for an entry the cell no longer shows can never land in it.
*/
type Cell struct {
	mu      sync.Mutex
	slot    int
	metrics *metrics.GalleryMetrics

	token         string
	bound         bool
	index         int
	entry         models.GridEntry
	thumbnailPath string
	ready         bool
	failed        bool
}

func newCell(slot int, m *metrics.GalleryMetrics) *Cell {
	return &Cell{
		slot:    slot,
		metrics: m,
	}
}

func (c *Cell) bind(index int, entry models.GridEntry) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.token = uuid.NewString()
	c.bound = true
	c.index = index
	c.entry = entry
	c.thumbnailPath = ""
	c.ready = false
	c.failed = false

	return c.token
}

func (c *Cell) unbind() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.token = ""
	c.bound = false
	c.index = -1
	c.entry = models.GridEntry{}
	c.thumbnailPath = ""
	c.ready = false
	c.failed = false
}

// boundTo reports whether the cell already shows entry index.
func (c *Cell) boundTo(index int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.bound && c.index == index
}

/*
Deliver implements imageloader.Target.
*/
func (c *Cell) Deliver(token string, result imageloader.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.bound || token != c.token {
		c.metrics.IncrementStaleDeliveries()
		return
	}

	if result.Err != nil {
		c.failed = true
		return
	}

	c.thumbnailPath = result.ThumbnailPath
	c.ready = true
}

func (c *Cell) View() CellView {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.bound {
		return CellView{Slot: c.slot, Index: -1, Empty: true}
	}

	return CellView{
		Slot:          c.slot,
		Index:         c.index,
		Caption:       c.entry.DisplayName,
		StoragePath:   c.entry.StoragePath,
		ThumbnailURL:  "/grid/" + strconv.Itoa(c.index) + "/thumbnail",
		ThumbnailPath: c.thumbnailPath,
		Ready:         c.ready,
		Failed:        c.failed,
	}
}
