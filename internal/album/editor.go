package album

import (
	"context"
	"fmt"
	"io"
	"slices"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/galx/internal/dragdrop"
	"github.com/desertthunder/galx/internal/models"
	"github.com/desertthunder/galx/internal/shared"
	"github.com/desertthunder/galx/internal/state"
)

const (
	editorBackKey    = "album-editor"
	addPhotosBackKey = "album-add-photos"

	// AddControlID is the strip entry for the "add photos" affordance.
	AddControlID = "__add__"
)

// Phase is the editing session lifecycle state.
type Phase int

const (
	PhaseClosed Phase = iota
	PhaseOpening
	PhaseOpen
)

func (p Phase) String() string {
	switch p {
	case PhaseOpening:
		return "opening"
	case PhaseOpen:
		return "open"
	default:
		return "closed"
	}
}

// EditorAPI is the subset of the gallery client used by the editing session.
type EditorAPI interface {
	GetAlbum(ctx context.Context, albumID string) (*models.Album, error)
	SetCover(ctx context.Context, albumID, itemID string) error
	AddItems(ctx context.Context, albumID string, itemIDs []string) error
	RemoveItems(ctx context.Context, albumID string, itemIDs []string) error
	ReorderAlbum(ctx context.Context, albumID string, itemIDs []string, seq uint64) error
	FolderContent(ctx context.Context, folderID string) (*models.FolderContent, error)
}

// EditorView renders the editing session.
type EditorView interface {
	// RenderAlbum draws the ordered members followed by one add affordance.
	RenderAlbum(album models.Album, coverID string)
	// RenderCandidates draws the add-photos sub-flow. The commit control is enabled iff chosen is non-empty.
	RenderCandidates(candidates []models.Item, chosen []string)
	// CloseEditor tears the session view down.
	CloseEditor()
}

// FolderRefresher re-renders a folder grid when it is the working folder.
type FolderRefresher interface {
	RefreshFolder(ctx context.Context, folderID string) error
}

// DisplayChecker reports whether the viewer is currently showing an album.
type DisplayChecker interface {
	IsDisplaying(albumID string) bool
}

// Session is a point-in-time copy of the editing session.
type Session struct {
	Phase        Phase
	AlbumID      string
	Album        models.Album
	PendingCover string
	AddOpen      bool
	Candidates   []models.Item
	Chosen       []string
}

// EditorDeps bundles the collaborators of an [Editor]. Only API and State are required.
type EditorDeps struct {
	API       EditorAPI
	State     *state.AppState
	View      EditorView
	Back      BackNavigator
	Notifier  Notifier
	Refresher FolderRefresher
	Display   DisplayChecker
	Journal   Journal
	Logger    *log.Logger
}

// Editor owns the single album editing session.
type Editor struct {
	api       EditorAPI
	state     *state.AppState
	view      EditorView
	back      BackNavigator
	notifier  Notifier
	refresher FolderRefresher
	display   DisplayChecker
	journal   Journal
	logger    *log.Logger
	reorder   *dragdrop.ReorderDrag

	mu           sync.Mutex
	phase        Phase
	gen          uint64
	albumID      string
	album        models.Album
	pendingCover string
	addOpen      bool
	candidates   []models.Item
	chosen       map[string]struct{}
}

// NewEditor creates a closed editor.
func NewEditor(deps EditorDeps) *Editor {
	e := &Editor{
		api:       deps.API,
		state:     deps.State,
		view:      deps.View,
		back:      deps.Back,
		notifier:  deps.Notifier,
		refresher: deps.Refresher,
		display:   deps.Display,
		journal:   deps.Journal,
		logger:    deps.Logger,
		chosen:    make(map[string]struct{}),
	}
	if e.back == nil {
		e.back = nopBack{}
	}
	if e.notifier == nil {
		e.notifier = nopNotifier{}
	}
	if e.journal == nil {
		e.journal = nopJournal{}
	}
	if e.logger == nil {
		e.logger = log.New(io.Discard)
	}
	e.reorder = dragdrop.NewReorderDrag(deps.API, e.journal, e.logger)
	return e
}

// SetView replaces the session view.
func (e *Editor) SetView(view EditorView) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.view = view
}

// Phase returns the session lifecycle state.
func (e *Editor) Phase() Phase {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.phase
}

// Snapshot copies the session.
func (e *Editor) Snapshot() Session {
	e.mu.Lock()
	defer e.mu.Unlock()
	album := e.album
	album.Items = slices.Clone(e.album.Items)
	return Session{
		Phase:        e.phase,
		AlbumID:      e.albumID,
		Album:        album,
		PendingCover: e.pendingCover,
		AddOpen:      e.addOpen,
		Candidates:   slices.Clone(e.candidates),
		Chosen:       e.chosenIDs(),
	}
}

// Open starts a session for albumID, replacing any previous one.
//
// A fetch failure returns the session to closed. A fetch that resolves after a newer Open or a Close is
// discarded with [shared.ErrStaleSession].
func (e *Editor) Open(ctx context.Context, albumID string) error {
	if albumID == "" {
		return fmt.Errorf("%w: album id", shared.ErrMissingArgument)
	}

	e.mu.Lock()
	e.gen++
	gen := e.gen
	addOpen := e.addOpen
	e.phase = PhaseOpening
	e.albumID = albumID
	e.album = models.Album{ID: albumID}
	e.resetTransient()
	e.mu.Unlock()

	e.reorder.Reset()
	if addOpen {
		e.back.Unregister(addPhotosBackKey, true)
	}

	album, err := e.api.GetAlbum(ctx, albumID)

	e.mu.Lock()
	if gen != e.gen {
		e.mu.Unlock()
		e.logger.Debug("discarding stale album fetch", "album_id", albumID)
		return shared.ErrStaleSession
	}
	if err != nil {
		e.phase = PhaseClosed
		e.albumID = ""
		view := e.view
		e.mu.Unlock()

		// A session replaced by this open still has its back entry and strip on screen.
		e.back.Unregister(editorBackKey, true)
		if view != nil {
			view.CloseEditor()
		}
		e.logger.Error("failed to open album", "album_id", albumID, "error", err)
		return err
	}
	defer e.mu.Unlock()

	e.phase = PhaseOpen
	e.album = *album
	e.reorder.Load(albumID, stripFor(e.album))
	e.back.Register(editorBackKey, func() { _ = e.Close(context.Background()) })
	e.render()
	return nil
}

// SetCover makes itemID the album cover.
//
// The chosen id is rendered as the effective cover immediately. A failed save is reported through the notifier
// and the optimistic cover is kept until the next fetch.
func (e *Editor) SetCover(ctx context.Context, itemID string) error {
	e.mu.Lock()
	if err := e.requireOpen(); err != nil {
		e.mu.Unlock()
		return err
	}
	if itemID == AddControlID || !e.album.Contains(itemID) {
		e.mu.Unlock()
		return fmt.Errorf("%w: %q", shared.ErrNotAMember, itemID)
	}
	gen, albumID := e.gen, e.albumID
	e.pendingCover = itemID
	e.album.CoverItemID = itemID
	e.render()
	e.mu.Unlock()

	err := e.api.SetCover(ctx, albumID, itemID)
	e.journal.Record(ctx, models.ActionSetCover, albumID, itemID, err)
	if err != nil {
		e.logger.Error("failed to save album cover", "album_id", albumID, "item_id", itemID, "error", err)
		if e.current(gen) {
			e.notifier.Notify(fmt.Sprintf("Could not save the album cover: %v", err))
		}
		return err
	}
	return nil
}

// RemoveItem deletes itemID from the album, then re-fetches the album so the cover shown is the server's.
//
// If the re-fetch fails the item is dropped locally and the cover falls back to the first remaining item.
func (e *Editor) RemoveItem(ctx context.Context, itemID string) error {
	e.mu.Lock()
	if err := e.requireOpen(); err != nil {
		e.mu.Unlock()
		return err
	}
	if !e.album.Contains(itemID) {
		e.mu.Unlock()
		return fmt.Errorf("%w: %q", shared.ErrNotAMember, itemID)
	}
	gen, albumID := e.gen, e.albumID
	e.mu.Unlock()

	err := e.api.RemoveItems(ctx, albumID, []string{itemID})
	e.journal.Record(ctx, models.ActionRemoveItems, albumID, itemID, err)
	if err != nil {
		e.logger.Error("failed to remove album item", "album_id", albumID, "item_id", itemID, "error", err)
		if e.current(gen) {
			e.notifier.Notify(fmt.Sprintf("Could not remove the item: %v", err))
		}
		return err
	}

	album, fetchErr := e.api.GetAlbum(ctx, albumID)

	e.mu.Lock()
	defer e.mu.Unlock()
	if gen != e.gen {
		return shared.ErrStaleSession
	}
	if e.pendingCover == itemID {
		e.pendingCover = ""
	}
	if fetchErr != nil {
		e.logger.Warn("re-fetch after remove failed, using local album", "album_id", albumID, "error", fetchErr)
		e.album.Items = slices.DeleteFunc(e.album.Items, func(item models.Item) bool { return item.ID == itemID })
		if e.album.CoverItemID == itemID {
			e.album.CoverItemID = ""
		}
	} else {
		e.album = *album
	}
	e.reorder.Load(albumID, stripFor(e.album))
	e.render()
	return nil
}

// OpenAddPhotos starts the add-photos sub-flow with the unattached media of the working folder.
func (e *Editor) OpenAddPhotos(ctx context.Context) error {
	e.mu.Lock()
	if err := e.requireOpen(); err != nil {
		e.mu.Unlock()
		return err
	}
	gen := e.gen
	e.mu.Unlock()

	folderID := e.state.Folder()
	content, err := e.api.FolderContent(ctx, folderID)
	if err != nil {
		e.logger.Error("failed to load add-photos candidates", "folder_id", folderID, "error", err)
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if gen != e.gen {
		return shared.ErrStaleSession
	}

	e.candidates = e.candidates[:0]
	for _, item := range content.Candidates() {
		if !e.album.Contains(item.ID) {
			e.candidates = append(e.candidates, item)
		}
	}
	clear(e.chosen)
	e.addOpen = true
	e.back.Register(addPhotosBackKey, e.CloseAddPhotos)
	e.renderCandidates()
	return nil
}

// ToggleCandidate flips whether candidate id is chosen for addition and returns the new state.
func (e *Editor) ToggleCandidate(id string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.addOpen {
		return false, fmt.Errorf("%w: add photos is not open", shared.ErrSessionClosed)
	}
	if !slices.ContainsFunc(e.candidates, func(item models.Item) bool { return item.ID == id }) {
		return false, fmt.Errorf("%w: %q is not a candidate", shared.ErrInvalidArgument, id)
	}

	_, chosen := e.chosen[id]
	if chosen {
		delete(e.chosen, id)
	} else {
		e.chosen[id] = struct{}{}
	}
	e.renderCandidates()
	return !chosen, nil
}

// CommitAddPhotos adds every chosen candidate in one call, closes the sub-flow and reloads the album.
func (e *Editor) CommitAddPhotos(ctx context.Context) error {
	e.mu.Lock()
	if !e.addOpen {
		e.mu.Unlock()
		return fmt.Errorf("%w: add photos is not open", shared.ErrSessionClosed)
	}
	ids := e.chosenIDs()
	if len(ids) == 0 {
		e.mu.Unlock()
		return shared.ErrNoSelection
	}
	gen, albumID := e.gen, e.albumID
	e.mu.Unlock()

	err := e.api.AddItems(ctx, albumID, ids)
	e.journal.Record(ctx, models.ActionAddItems, albumID, fmt.Sprintf("%d item(s)", len(ids)), err)
	if err != nil {
		e.logger.Error("failed to add photos", "album_id", albumID, "count", len(ids), "error", err)
		if e.current(gen) {
			e.notifier.Notify(fmt.Sprintf("Could not add photos: %v", err))
		}
		return err
	}

	e.CloseAddPhotos()
	return e.reload(ctx, gen, albumID)
}

// CloseAddPhotos leaves the sub-flow without adding anything.
func (e *Editor) CloseAddPhotos() {
	e.mu.Lock()
	wasOpen := e.addOpen
	e.addOpen = false
	e.candidates = nil
	clear(e.chosen)
	e.mu.Unlock()

	if wasOpen {
		e.back.Unregister(addPhotosBackKey, true)
	}
}

// StartReorder picks up member id for a reorder drag.
func (e *Editor) StartReorder(id string) error {
	if err := e.checkOpen(); err != nil {
		return err
	}
	return e.reorder.Start(id)
}

// MoveReorder relocates the dragged member relative to overID by pointer position.
func (e *Editor) MoveReorder(overID string, pointerX, left, width float64) bool {
	return e.reorder.Move(overID, pointerX, left, width)
}

// NudgeReorder moves the dragged member one slot left or right.
func (e *Editor) NudgeReorder(dir int) bool {
	return e.reorder.Nudge(dir)
}

// EndReorder persists the order produced by the drag and applies it to the session album.
func (e *Editor) EndReorder(ctx context.Context) (dragdrop.ReorderResult, error) {
	e.mu.Lock()
	gen := e.gen
	e.mu.Unlock()

	result, err := e.reorder.End(ctx)
	if err != nil || result.Seq == 0 {
		return result, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if gen != e.gen || result.Stale {
		return result, nil
	}
	reordered := make([]models.Item, 0, len(e.album.Items))
	for _, id := range result.IDs {
		if i := e.album.IndexOf(id); i >= 0 {
			reordered = append(reordered, e.album.Items[i])
		}
	}
	e.album.Items = reordered
	e.render()
	return result, nil
}

// ReorderEntries returns the strip as currently arranged, including the add control.
func (e *Editor) ReorderEntries() []dragdrop.Entry {
	return e.reorder.Entries()
}

// Close ends the session. The owning folder is refreshed unless the viewer is showing this album.
func (e *Editor) Close(ctx context.Context) error {
	e.mu.Lock()
	if e.phase == PhaseClosed {
		e.mu.Unlock()
		return nil
	}
	e.gen++
	albumID := e.albumID
	folderID := e.album.FolderID
	addOpen := e.addOpen
	e.phase = PhaseClosed
	e.albumID = ""
	e.album = models.Album{}
	e.resetTransient()
	view := e.view
	e.mu.Unlock()

	e.reorder.Reset()
	if addOpen {
		e.back.Unregister(addPhotosBackKey, true)
	}
	e.back.Unregister(editorBackKey, true)
	if view != nil {
		view.CloseEditor()
	}

	if e.display != nil && e.display.IsDisplaying(albumID) {
		return nil
	}
	if folderID == "" {
		folderID = e.state.Folder()
	}
	if e.refresher == nil {
		return nil
	}
	if err := e.refresher.RefreshFolder(ctx, folderID); err != nil {
		e.logger.Warn("failed to refresh folder after closing album", "folder_id", folderID, "error", err)
		return err
	}
	return nil
}

// reload re-fetches the session album and re-renders it.
func (e *Editor) reload(ctx context.Context, gen uint64, albumID string) error {
	album, err := e.api.GetAlbum(ctx, albumID)

	e.mu.Lock()
	defer e.mu.Unlock()
	if gen != e.gen {
		return shared.ErrStaleSession
	}
	if err != nil {
		e.logger.Error("failed to reload album", "album_id", albumID, "error", err)
		return err
	}
	e.album = *album
	e.reorder.Load(albumID, stripFor(e.album))
	e.render()
	return nil
}

func (e *Editor) current(gen uint64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return gen == e.gen && e.phase == PhaseOpen
}

func (e *Editor) checkOpen() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.requireOpen()
}

// requireOpen checks the phase. Callers hold mu.
func (e *Editor) requireOpen() error {
	if e.phase != PhaseOpen {
		return shared.ErrSessionClosed
	}
	return nil
}

// resetTransient clears pending cover and the add-photos sub-flow. Callers hold mu.
func (e *Editor) resetTransient() {
	e.pendingCover = ""
	e.addOpen = false
	e.candidates = nil
	clear(e.chosen)
}

// chosenIDs returns chosen candidates in candidate order. Callers hold mu.
func (e *Editor) chosenIDs() []string {
	ids := make([]string, 0, len(e.chosen))
	for _, item := range e.candidates {
		if _, ok := e.chosen[item.ID]; ok {
			ids = append(ids, item.ID)
		}
	}
	return ids
}

// render draws the album. Callers hold mu.
func (e *Editor) render() {
	if e.view == nil {
		return
	}
	album := e.album
	album.Items = slices.Clone(e.album.Items)
	e.view.RenderAlbum(album, album.EffectiveCover())
}

func (e *Editor) renderCandidates() {
	if e.view == nil {
		return
	}
	e.view.RenderCandidates(slices.Clone(e.candidates), e.chosenIDs())
}

func stripFor(album models.Album) []dragdrop.Entry {
	entries := make([]dragdrop.Entry, 0, len(album.Items)+1)
	for _, item := range album.Items {
		entries = append(entries, dragdrop.Entry{ID: item.ID})
	}
	return append(entries, dragdrop.Entry{ID: AddControlID, Control: true})
}
