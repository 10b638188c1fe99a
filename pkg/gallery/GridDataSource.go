package gallery

import (
	"errors"
	"fmt"
	"sync"

	"github.com/adampresley/imagesearch/pkg/models"
)

var (
	ErrIndexOutOfRange = errors.New("grid index out of range")
)

type DataSetObserver interface {
	OnDataSetChanged()
}

/*
GridDataSource is the ordered, append-only list of entries behind the
grid. Entries are never removed or reordered.
*/
type GridDataSource struct {
	mu        sync.RWMutex
	entries   []models.GridEntry
	observers []DataSetObserver
}

func NewGridDataSource() *GridDataSource {
	return &GridDataSource{
		entries: []models.GridEntry{},
	}
}

func (s *GridDataSource) Observe(observer DataSetObserver) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.observers = append(s.observers, observer)
}

// Append adds a single entry and notifies observers.
func (s *GridDataSource) Append(storagePath, displayName string) {
	s.mu.Lock()
	s.entries = append(s.entries, models.GridEntry{
		StoragePath: storagePath,
		DisplayName: displayName,
	})
	s.mu.Unlock()

	s.notify()
}

// AppendAll adds entries in order and notifies observers once.
func (s *GridDataSource) AppendAll(entries []models.GridEntry) {
	if len(entries) == 0 {
		return
	}

	s.mu.Lock()
	s.entries = append(s.entries, entries...)
	s.mu.Unlock()

	s.notify()
}

func (s *GridDataSource) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.entries)
}

func (s *GridDataSource) At(index int) (models.GridEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if index < 0 || index >= len(s.entries) {
		return models.GridEntry{}, fmt.Errorf("%w: %d (size %d)", ErrIndexOutOfRange, index, len(s.entries))
	}

	return s.entries[index], nil
}

func (s *GridDataSource) notify() {
	s.mu.RLock()
	observers := make([]DataSetObserver, len(s.observers))
	copy(observers, s.observers)
	s.mu.RUnlock()

	for _, o := range observers {
		o.OnDataSetChanged()
	}
}
