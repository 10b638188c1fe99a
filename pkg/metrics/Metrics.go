// Package metrics provides the Prometheus metrics for photo indexing, thumbnail loading and search.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// GalleryMetrics contains all Prometheus metrics for the gallery.
// A nil *GalleryMetrics is valid and records nothing.
type GalleryMetrics struct {
	IndexedPhotos   prometheus.Gauge
	Searches        *prometheus.CounterVec
	ThumbnailLoads  *prometheus.CounterVec
	StaleDeliveries prometheus.Counter
	DecodeDuration  prometheus.Histogram
}

// NewGalleryMetrics creates the gallery metrics and registers them with registry.
func NewGalleryMetrics(registry prometheus.Registerer) (*GalleryMetrics, error) {
	m := &GalleryMetrics{}
	m.initMetrics()

	if err := registry.Register(m); err != nil {
		return nil, fmt.Errorf("failed to register gallery metrics: %w", err)
	}

	return m, nil
}

func (m *GalleryMetrics) initMetrics() {
	m.IndexedPhotos = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "imagesearch_indexed_photos",
		Help: "Number of photos loaded into the grid at startup",
	})

	m.Searches = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "imagesearch_searches_total",
		Help: "Total number of searches by outcome",
	}, []string{"outcome"})

	m.ThumbnailLoads = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "imagesearch_thumbnail_loads_total",
		Help: "Total number of thumbnail loads by outcome",
	}, []string{"outcome"})

	m.StaleDeliveries = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "imagesearch_stale_deliveries_total",
		Help: "Thumbnail results dropped because the cell was rebound",
	})

	m.DecodeDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "imagesearch_full_decode_seconds",
		Help:    "Time spent decoding full resolution images",
		Buckets: prometheus.ExponentialBuckets(0.005, 2, 10),
	})
}

// SetIndexedPhotos records how many photos the grid holds.
func (m *GalleryMetrics) SetIndexedPhotos(count int) {
	if m == nil {
		return
	}

	m.IndexedPhotos.Set(float64(count))
}

// IncrementSearches counts one search with the given outcome.
func (m *GalleryMetrics) IncrementSearches(outcome string) {
	if m == nil {
		return
	}

	m.Searches.WithLabelValues(outcome).Inc()
}

// IncrementThumbnailLoads counts one thumbnail load. outcome is "ok" or "error".
func (m *GalleryMetrics) IncrementThumbnailLoads(outcome string) {
	if m == nil {
		return
	}

	m.ThumbnailLoads.WithLabelValues(outcome).Inc()
}

func (m *GalleryMetrics) IncrementStaleDeliveries() {
	if m == nil {
		return
	}

	m.StaleDeliveries.Inc()
}

// ObserveDecode records the time since start as a full decode duration.
func (m *GalleryMetrics) ObserveDecode(start time.Time) {
	if m == nil {
		return
	}

	m.DecodeDuration.Observe(time.Since(start).Seconds())
}

// Collect implements the prometheus.Collector interface.
func (m *GalleryMetrics) Collect(ch chan<- prometheus.Metric) {
	ch <- m.IndexedPhotos
	m.Searches.Collect(ch)
	m.ThumbnailLoads.Collect(ch)
	ch <- m.StaleDeliveries
	ch <- m.DecodeDuration
}

// Describe implements the prometheus.Collector interface.
func (m *GalleryMetrics) Describe(ch chan<- *prometheus.Desc) {
	ch <- m.IndexedPhotos.Desc()
	m.Searches.Describe(ch)
	m.ThumbnailLoads.Describe(ch)
	ch <- m.StaleDeliveries.Desc()
	ch <- m.DecodeDuration.Desc()
}
