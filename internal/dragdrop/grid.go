package dragdrop

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/galx/internal/models"
	"github.com/desertthunder/galx/internal/shared"
)

// GridState is the grid drag phase.
type GridState int

const (
	GridIdle GridState = iota
	GridDragging
	GridOverTarget
)

func (s GridState) String() string {
	switch s {
	case GridDragging:
		return "dragging"
	case GridOverTarget:
		return "over-target"
	default:
		return "idle"
	}
}

// AddAPI adds photos to an album.
type AddAPI interface {
	AddItems(ctx context.Context, albumID string, itemIDs []string) error
}

// GridView renders drop-target feedback.
type GridView interface {
	// Highlight marks albumID as the current drop target.
	Highlight(albumID string, on bool)
	// Dim toggles the transient acknowledgment on albumID while the add request runs.
	Dim(albumID string, on bool)
}

// GridDrag drags one photo onto an album tile.
type GridDrag struct {
	api     AddAPI
	view    GridView
	journal Journal
	logger  *log.Logger

	mu      sync.Mutex
	state   GridState
	photoID string
	target  string
}

// NewGridDrag creates an idle grid drag. view, journal and logger may be nil.
func NewGridDrag(api AddAPI, view GridView, journal Journal, logger *log.Logger) *GridDrag {
	if journal == nil {
		journal = nopJournal{}
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &GridDrag{api: api, view: view, journal: journal, logger: logger}
}

// State returns the current phase.
func (d *GridDrag) State() GridState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Dragged returns the photo being dragged, if any.
func (d *GridDrag) Dragged() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.photoID
}

// Start begins dragging item. Only photos can be dragged.
func (d *GridDrag) Start(item models.Item) error {
	if item.Kind != models.KindPhoto || item.ID == "" {
		return fmt.Errorf("%w: only photos can be dragged onto albums", shared.ErrInvalidArgument)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.reset()
	d.state = GridDragging
	d.photoID = item.ID
	return nil
}

func (d *GridDrag) validTarget(target models.Item) bool {
	return target.Kind == models.KindAlbum && target.Access == models.AccessNone &&
		target.ID != "" && target.ID != d.photoID
}

// Enter moves the pointer over target. Returns whether target is a valid drop target.
func (d *GridDrag) Enter(target models.Item) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state == GridIdle {
		return false
	}
	if d.target != "" && d.target != target.ID {
		d.highlight(d.target, false)
		d.target = ""
		d.state = GridDragging
	}
	if !d.validTarget(target) {
		return false
	}
	d.target = target.ID
	d.state = GridOverTarget
	d.highlight(target.ID, true)
	return true
}

// Leave moves the pointer off targetID.
func (d *GridDrag) Leave(targetID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state != GridOverTarget || d.target != targetID {
		return
	}
	d.highlight(targetID, false)
	d.target = ""
	d.state = GridDragging
}

// Drop releases the photo on target and returns whether an add request was issued.
//
// A drop on anything but a valid distinct album cancels the drag.
func (d *GridDrag) Drop(ctx context.Context, target models.Item) (bool, error) {
	d.mu.Lock()
	photoID := d.photoID
	valid := d.state != GridIdle && d.validTarget(target)
	d.reset()
	d.mu.Unlock()

	if !valid {
		return false, nil
	}

	d.dim(target.ID, true)
	err := d.api.AddItems(ctx, target.ID, []string{photoID})
	d.dim(target.ID, false)
	d.journal.Record(ctx, models.ActionAddItems, target.ID, photoID, err)

	if err != nil {
		d.logger.Error("failed to add photo to album", "album_id", target.ID, "photo_id", photoID, "error", err)
		return true, err
	}
	d.logger.Info("added photo to album", "album_id", target.ID, "photo_id", photoID)
	return true, nil
}

// Cancel abandons the drag.
func (d *GridDrag) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.reset()
}

// reset clears highlight and state. Callers hold mu.
func (d *GridDrag) reset() {
	if d.target != "" {
		d.highlight(d.target, false)
	}
	d.state = GridIdle
	d.photoID = ""
	d.target = ""
}

func (d *GridDrag) highlight(id string, on bool) {
	if d.view != nil {
		d.view.Highlight(id, on)
	}
}

func (d *GridDrag) dim(id string, on bool) {
	if d.view != nil {
		d.view.Dim(id, on)
	}
}
