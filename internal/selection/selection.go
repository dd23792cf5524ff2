package selection

import (
	"fmt"
	"slices"
	"sync"

	"github.com/desertthunder/galx/internal/models"
	"github.com/desertthunder/galx/internal/shared"
)

// View renders selection state. Methods are called with the store locked and must not call back into it.
type View interface {
	// MarkSelected replaces the set of ids shown as selected.
	MarkSelected(ids []string)
	// SetToolbar shows or hides the batch toolbar with the combined count.
	SetToolbar(visible bool, count int)
}

// Snapshot is an immutable copy of both sets, each sorted.
type Snapshot struct {
	Photos []string
	Albums []string
}

// Count returns |photos| + |albums|.
func (s Snapshot) Count() int {
	return len(s.Photos) + len(s.Albums)
}

// Empty reports whether nothing is selected.
func (s Snapshot) Empty() bool {
	return s.Count() == 0
}

// Store holds the photo and album selection sets.
type Store struct {
	mu     sync.Mutex
	photos map[string]struct{}
	albums map[string]struct{}
	view   View
}

// NewStore creates an empty store. view may be nil.
func NewStore(view View) *Store {
	return &Store{
		photos: make(map[string]struct{}),
		albums: make(map[string]struct{}),
		view:   view,
	}
}

// SetView replaces the view and immediately syncs it.
func (s *Store) SetView(view View) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = view
	s.sync()
}

func (s *Store) set(kind models.ItemKind) map[string]struct{} {
	if kind == models.KindAlbum {
		return s.albums
	}
	return s.photos
}

// Toggle flips membership of id and returns whether it is now selected.
func (s *Store) Toggle(kind models.ItemKind, id string) (bool, error) {
	if id == "" {
		return false, fmt.Errorf("%w: item id", shared.ErrMissingArgument)
	}
	if !kind.Selectable() {
		return false, fmt.Errorf("%w: %q items cannot be selected", shared.ErrInvalidArgument, kind)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	set := s.set(kind)
	_, selected := set[id]
	if selected {
		delete(set, id)
	} else {
		set[id] = struct{}{}
	}
	s.sync()
	return !selected, nil
}

// SelectAll adds every visible, selectable item. Hidden items are skipped.
//
// Returns the number of ids newly added.
func (s *Store) SelectAll(items []models.Item) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	added := 0
	for _, item := range items {
		if item.Hidden || item.ID == "" || !item.Kind.Selectable() {
			continue
		}
		set := s.set(item.Kind)
		if _, ok := set[item.ID]; !ok {
			set[item.ID] = struct{}{}
			added++
		}
	}
	s.sync()
	return added
}

// Clear empties both sets.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	clear(s.photos)
	clear(s.albums)
	s.sync()
}

// Prune drops ids that are no longer rendered and returns how many were removed.
func (s *Store) Prune(visible []models.Item) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	keep := make(map[string]models.ItemKind, len(visible))
	for _, item := range visible {
		keep[item.ID] = item.Kind
	}

	removed := 0
	for id := range s.photos {
		if kind, ok := keep[id]; !ok || kind != models.KindPhoto {
			delete(s.photos, id)
			removed++
		}
	}
	for id := range s.albums {
		if kind, ok := keep[id]; !ok || kind != models.KindAlbum {
			delete(s.albums, id)
			removed++
		}
	}
	s.sync()
	return removed
}

// IsSelected reports whether id is in the set for kind.
func (s *Store) IsSelected(kind models.ItemKind, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.set(kind)[id]
	return ok
}

// Count returns the combined size of both sets.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.photos) + len(s.albums)
}

// Snapshot copies both sets.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{Photos: sortedKeys(s.photos), Albums: sortedKeys(s.albums)}
}

// sync pushes the current state to the view. Callers hold mu.
func (s *Store) sync() {
	if s.view == nil {
		return
	}
	ids := append(sortedKeys(s.photos), sortedKeys(s.albums)...)
	count := len(s.photos) + len(s.albums)
	s.view.MarkSelected(ids)
	s.view.SetToolbar(count > 0, count)
}

func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
