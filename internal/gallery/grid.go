// Package gallery keeps the rendered folder grid in step with the remote store.
package gallery

import (
	"context"
	"fmt"
	"io"
	"slices"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/galx/internal/models"
	"github.com/desertthunder/galx/internal/shared"
	"github.com/desertthunder/galx/internal/state"
)

// API is the subset of the gallery client the grid needs.
type API interface {
	FolderContent(ctx context.Context, folderID string) (*models.FolderContent, error)
}

// View renders the folder grid.
type View interface {
	RenderGrid(content models.FolderContent)
}

// Grid owns the items currently rendered for the working folder.
type Grid struct {
	api    API
	state  *state.AppState
	view   View
	logger *log.Logger

	mu      sync.Mutex
	content models.FolderContent
	latest  uint64
}

// NewGrid creates a grid for the state's working folder. view and logger may be nil.
func NewGrid(api API, st *state.AppState, view View, logger *log.Logger) *Grid {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Grid{api: api, state: st, view: view, logger: logger}
}

// SetView replaces the grid view.
func (g *Grid) SetView(view View) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.view = view
}

// Open switches the working folder, clears the selection and loads the new folder.
func (g *Grid) Open(ctx context.Context, folderID string) error {
	if folderID == "" {
		return fmt.Errorf("%w: folder id", shared.ErrMissingArgument)
	}
	if g.state.SetFolder(folderID) {
		g.state.Selection.Clear()
	}
	return g.Refresh(ctx)
}

// Refresh re-fetches the working folder, re-renders it and prunes selection ids that disappeared.
//
// A response that arrives after a newer refresh started, or after the folder changed, is discarded
// with [shared.ErrStaleSession].
func (g *Grid) Refresh(ctx context.Context) error {
	folderID := g.state.Folder()
	if folderID == "" {
		return fmt.Errorf("%w: no working folder", shared.ErrMissingArgument)
	}

	g.mu.Lock()
	g.latest++
	gen := g.latest
	g.mu.Unlock()

	content, err := g.api.FolderContent(ctx, folderID)
	if err != nil {
		g.logger.Error("failed to load folder", "folder_id", folderID, "error", err)
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if gen != g.latest || g.state.Folder() != folderID {
		g.logger.Debug("discarding stale folder content", "folder_id", folderID)
		return shared.ErrStaleSession
	}

	g.content = models.FolderContent{FolderID: folderID, Items: slices.Clone(content.Items)}
	if g.view != nil {
		g.view.RenderGrid(g.content)
	}
	if pruned := g.state.Selection.Prune(g.content.Items); pruned > 0 {
		g.logger.Debug("pruned stale selection", "folder_id", folderID, "count", pruned)
	}
	return nil
}

// RefreshFolder refreshes only when folderID is the working folder.
func (g *Grid) RefreshFolder(ctx context.Context, folderID string) error {
	if folderID == "" || folderID != g.state.Folder() {
		return nil
	}
	return g.Refresh(ctx)
}

// Content returns a copy of the rendered folder.
func (g *Grid) Content() models.FolderContent {
	g.mu.Lock()
	defer g.mu.Unlock()
	return models.FolderContent{FolderID: g.content.FolderID, Items: slices.Clone(g.content.Items)}
}

// Items returns the rendered items in display order.
func (g *Grid) Items() []models.Item {
	return g.Content().Items
}

// Lookup finds a rendered item by id.
func (g *Grid) Lookup(id string) (models.Item, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, item := range g.content.Items {
		if item.ID == id {
			return item, true
		}
	}
	return models.Item{}, false
}
