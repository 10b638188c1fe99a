package gallery

import (
	"context"
	"errors"
	"image"
	"sync"
	"sync/atomic"

	"github.com/adampresley/imagesearch/pkg/imageloader"
	"github.com/adampresley/imagesearch/pkg/models"
)

type fakeReader struct {
	records []models.PhotoRecord
	err     error
	calls   atomic.Int32
}

func (r *fakeReader) Read(ctx context.Context) ([]models.PhotoRecord, error) {
	r.calls.Add(1)

	if r.err != nil {
		return []models.PhotoRecord{}, r.err
	}

	return r.records, nil
}

type thumbnailRequest struct {
	target      imageloader.Target
	token       string
	storagePath string
}

type fakeThumbnails struct {
	mu       sync.Mutex
	requests []thumbnailRequest
}

func (f *fakeThumbnails) LoadThumbnail(target imageloader.Target, token, storagePath string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.requests = append(f.requests, thumbnailRequest{target: target, token: token, storagePath: storagePath})
}

func (f *fakeThumbnails) all() []thumbnailRequest {
	f.mu.Lock()
	defer f.mu.Unlock()

	result := make([]thumbnailRequest, len(f.requests))
	copy(result, f.requests)
	return result
}

var errFakeDecode = errors.New("i/o error")

type fakeDecoder struct {
	mu     sync.Mutex
	failOn map[string]bool
	gate   chan struct{}
	paths  []string
}

func (d *fakeDecoder) DecodeFull(ctx context.Context, path string) (image.Image, error) {
	if d.gate != nil {
		<-d.gate
	}

	d.mu.Lock()
	d.paths = append(d.paths, path)
	d.mu.Unlock()

	if d.failOn[path] {
		return nil, errFakeDecode
	}

	return image.NewRGBA(image.Rect(0, 0, 4, 4)), nil
}

func (d *fakeDecoder) Submit(task func()) {
	go task()
}

type countingObserver struct {
	calls atomic.Int32
}

func (o *countingObserver) OnDataSetChanged() {
	o.calls.Add(1)
}
