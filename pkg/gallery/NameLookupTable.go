package gallery

import (
	"sync"

	"github.com/adampresley/imagesearch/pkg/models"
)

/*
NameLookupTable maps a display name to the location of a photo. Keys
are matched exactly and case-sensitively. Putting a name that already
exists replaces the earlier location.
*/
type NameLookupTable struct {
	mu      sync.RWMutex
	entries map[string]models.Location
}

func NewNameLookupTable() *NameLookupTable {
	return &NameLookupTable{
		entries: map[string]models.Location{},
	}
}

func (t *NameLookupTable) Put(name string, location models.Location) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.entries[name] = location
}

func (t *NameLookupTable) Get(name string) (models.Location, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	location, ok := t.entries[name]
	return location, ok
}

func (t *NameLookupTable) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return len(t.entries)
}
