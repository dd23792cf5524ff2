// Package state holds the application state shared by the gallery engine components.
package state

import (
	"sync"

	"github.com/desertthunder/galx/internal/selection"
)

// AppState is created once per session and passed to every component that needs it.
type AppState struct {
	mu       sync.RWMutex
	folderID string
	unlocked map[string]struct{}

	Selection *selection.Store
}

// New creates the state rooted at folderID. Containers in unlocked are treated as already unlocked.
func New(folderID string, sel *selection.Store, unlocked []string) *AppState {
	if sel == nil {
		sel = selection.NewStore(nil)
	}
	s := &AppState{
		folderID:  folderID,
		unlocked:  make(map[string]struct{}, len(unlocked)),
		Selection: sel,
	}
	for _, id := range unlocked {
		s.unlocked[id] = struct{}{}
	}
	return s
}

// Folder returns the current working folder.
func (s *AppState) Folder() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.folderID
}

// SetFolder changes the working folder and reports whether it changed.
func (s *AppState) SetFolder(folderID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	changed := s.folderID != folderID
	s.folderID = folderID
	return changed
}

// IsUnlocked reports whether the protected container id has been unlocked.
func (s *AppState) IsUnlocked(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.unlocked[id]
	return ok
}

// MarkUnlocked records that the container id was unlocked.
func (s *AppState) MarkUnlocked(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unlocked[id] = struct{}{}
}
