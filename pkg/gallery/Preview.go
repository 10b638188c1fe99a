package gallery

import (
	"image"
	"sync"
	"time"

	"github.com/adampresley/imagesearch/pkg/models"
)

type PreviewImage struct {
	Name     string
	Location models.Location
	Image    image.Image
	ShownAt  time.Time
}

/*
Preview is the single full-size preview surface. It only ever changes
when a new image is shown successfully.
*/
type Preview struct {
	mu      sync.RWMutex
	current *PreviewImage
}

func NewPreview() *Preview {
	return &Preview{}
}

func (p *Preview) Show(name string, location models.Location, img image.Image) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.current = &PreviewImage{
		Name:     name,
		Location: location,
		Image:    img,
		ShownAt:  time.Now(),
	}
}

func (p *Preview) Current() (PreviewImage, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.current == nil {
		return PreviewImage{}, false
	}

	return *p.current, true
}
