package ui

import (
	"slices"
	"sync"

	"github.com/desertthunder/galx/internal/album"
	"github.com/desertthunder/galx/internal/dragdrop"
	"github.com/desertthunder/galx/internal/gallery"
	"github.com/desertthunder/galx/internal/models"
	"github.com/desertthunder/galx/internal/selection"
	"github.com/desertthunder/galx/internal/tasks"
)

var (
	_ selection.View       = (*Surface)(nil)
	_ gallery.View         = (*Surface)(nil)
	_ dragdrop.GridView    = (*Surface)(nil)
	_ album.EditorView     = (*Surface)(nil)
	_ album.Viewer         = (*Surface)(nil)
	_ album.OrderExpander  = (*Surface)(nil)
	_ album.IndexIndicator = (*Surface)(nil)
	_ album.BackNavigator  = (*Surface)(nil)
	_ album.Notifier       = (*Surface)(nil)
	_ tasks.Controls       = (*Surface)(nil)
)

// Surface receives render calls from the engine components and keeps the latest state for [Model.View].
//
// Engine calls arrive on command goroutines, so every method is safe for concurrent use. No method calls back
// into an engine component except [Surface.Back], which runs the popped handler after releasing the lock.
type Surface struct {
	mu sync.Mutex

	content  models.FolderContent
	selected map[string]struct{}
	toolbar  bool
	count    int
	target   string
	dimmed   map[string]struct{}

	editorAlbum models.Album
	editorCover string
	editorShown bool
	candidates  []models.Item
	chosen      map[string]struct{}

	viewerAlbum string
	viewerItems []models.Item
	viewerItem  models.Item
	viewerIndex int
	viewerTotal int
	viewerShown bool
	navOrder    []string

	notices []string
	busy    bool

	backKeys     []string
	backHandlers map[string]func()
}

// NewSurface creates an empty surface.
func NewSurface() *Surface {
	return &Surface{
		selected:     make(map[string]struct{}),
		dimmed:       make(map[string]struct{}),
		chosen:       make(map[string]struct{}),
		backHandlers: make(map[string]func()),
	}
}

// MarkSelected replaces the selected marks.
func (s *Surface) MarkSelected(ids []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.selected)
	for _, id := range ids {
		s.selected[id] = struct{}{}
	}
}

// SetToolbar shows the batch toolbar with count.
func (s *Surface) SetToolbar(visible bool, count int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.toolbar = visible
	s.count = count
}

// RenderGrid replaces the folder contents.
func (s *Surface) RenderGrid(content models.FolderContent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	content.Items = slices.Clone(content.Items)
	s.content = content
}

// Highlight marks albumID as the drop target.
func (s *Surface) Highlight(albumID string, on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case on:
		s.target = albumID
	case s.target == albumID:
		s.target = ""
	}
}

// Dim toggles the pending-add acknowledgment on albumID.
func (s *Surface) Dim(albumID string, on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if on {
		s.dimmed[albumID] = struct{}{}
	} else {
		delete(s.dimmed, albumID)
	}
}

// RenderAlbum draws the editing session strip.
func (s *Surface) RenderAlbum(a models.Album, coverID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a.Items = slices.Clone(a.Items)
	s.editorAlbum = a
	s.editorCover = coverID
	s.editorShown = true
}

// RenderCandidates draws the add-photos sub-flow.
func (s *Surface) RenderCandidates(candidates []models.Item, chosen []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.candidates = slices.Clone(candidates)
	clear(s.chosen)
	for _, id := range chosen {
		s.chosen[id] = struct{}{}
	}
}

// CloseEditor tears the session view down.
func (s *Surface) CloseEditor() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.editorShown = false
	s.editorAlbum = models.Album{}
	s.editorCover = ""
	s.candidates = nil
	clear(s.chosen)
}

// SetAlbumContext stores the album the viewer is stepping through.
func (s *Surface) SetAlbumContext(albumID string, items []models.Item, index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewerAlbum = albumID
	s.viewerItems = slices.Clone(items)
	s.viewerIndex = index
	s.viewerTotal = len(items)
}

// LoadItem shows item at index.
func (s *Surface) LoadItem(item models.Item, index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewerItem = item
	s.viewerIndex = index
}

// Show opens the viewer pane.
func (s *Surface) Show() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewerShown = true
}

// ExpandNavigationOrder splices the album items into the navigation order after the album tile.
func (s *Surface) ExpandNavigationOrder(albumID string, items []models.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order := make([]string, 0, len(s.content.Items)+len(items))
	for _, it := range s.content.Items {
		order = append(order, it.ID)
		if it.ID == albumID {
			for _, member := range items {
				order = append(order, member.ID)
			}
		}
	}
	s.navOrder = order
}

// UpdateIndexIndicator sets the "i / n" indicator.
func (s *Surface) UpdateIndexIndicator(index, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewerIndex = index
	s.viewerTotal = total
}

// HideViewer closes the viewer pane.
func (s *Surface) HideViewer() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewerShown = false
	s.viewerAlbum = ""
	s.viewerItems = nil
	s.viewerItem = models.Item{}
	s.navOrder = nil
}

// Notify queues a user-facing message.
func (s *Surface) Notify(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notices = append(s.notices, message)
}

// DrainNotices returns and clears the queued messages.
func (s *Surface) DrainNotices() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	notices := s.notices
	s.notices = nil
	return notices
}

// SetBusy disables batch controls while an action runs.
func (s *Surface) SetBusy(busy bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = busy
}

// Register pushes key onto the back stack. Registering an existing key moves it to the top.
func (s *Surface) Register(key string, handler func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.backKeys = slices.DeleteFunc(s.backKeys, func(k string) bool { return k == key })
	s.backKeys = append(s.backKeys, key)
	s.backHandlers[key] = handler
}

// Unregister removes key. When skipHandler is false its handler runs as if back was pressed.
func (s *Surface) Unregister(key string, skipHandler bool) {
	s.mu.Lock()
	handler, ok := s.backHandlers[key]
	s.backKeys = slices.DeleteFunc(s.backKeys, func(k string) bool { return k == key })
	delete(s.backHandlers, key)
	s.mu.Unlock()

	if ok && !skipHandler && handler != nil {
		handler()
	}
}

// Back pops the newest entry and runs its handler. It returns false when nothing is registered.
func (s *Surface) Back() bool {
	s.mu.Lock()
	if len(s.backKeys) == 0 {
		s.mu.Unlock()
		return false
	}
	key := s.backKeys[len(s.backKeys)-1]
	s.mu.Unlock()

	s.Unregister(key, false)
	return true
}

// Frame is a point-in-time copy of everything the surface has been told to draw.
type Frame struct {
	Content  models.FolderContent
	Selected map[string]bool
	Toolbar  bool
	Count    int
	Target   string
	Dimmed   map[string]bool

	EditorShown bool
	EditorAlbum models.Album
	EditorCover string
	Candidates  []models.Item
	Chosen      map[string]bool

	ViewerShown bool
	ViewerAlbum string
	ViewerItem  models.Item
	ViewerIndex int
	ViewerTotal int
	NavOrder    []string

	Busy     bool
	BackKeys []string
}

// Frame copies the current render state.
func (s *Surface) Frame() Frame {
	s.mu.Lock()
	defer s.mu.Unlock()

	f := Frame{
		Content:     s.content,
		Selected:    toSet(s.selected),
		Toolbar:     s.toolbar,
		Count:       s.count,
		Target:      s.target,
		Dimmed:      toSet(s.dimmed),
		EditorShown: s.editorShown,
		EditorAlbum: s.editorAlbum,
		EditorCover: s.editorCover,
		Candidates:  slices.Clone(s.candidates),
		Chosen:      toSet(s.chosen),
		ViewerShown: s.viewerShown,
		ViewerAlbum: s.viewerAlbum,
		ViewerItem:  s.viewerItem,
		ViewerIndex: s.viewerIndex,
		ViewerTotal: s.viewerTotal,
		NavOrder:    slices.Clone(s.navOrder),
		Busy:        s.busy,
		BackKeys:    slices.Clone(s.backKeys),
	}
	f.Content.Items = slices.Clone(s.content.Items)
	f.EditorAlbum.Items = slices.Clone(s.editorAlbum.Items)
	return f
}

func toSet(m map[string]struct{}) map[string]bool {
	out := make(map[string]bool, len(m))
	for k := range m {
		out[k] = true
	}
	return out
}
