package tasks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/galx/internal/models"
	"github.com/desertthunder/galx/internal/selection"
	"github.com/desertthunder/galx/internal/shared"
)

// API is the subset of the gallery client used by batch actions.
type API interface {
	BatchDownload(ctx context.Context, photoIDs []string) (io.ReadCloser, error)
	DeletePhoto(ctx context.Context, photoID string) error
	DeleteAlbum(ctx context.Context, albumID string) error
	MovePhotos(ctx context.Context, photoIDs []string, targetFolderID string) error
}

// Selection is the selection store the coordinator reads and clears.
type Selection interface {
	Snapshot() selection.Snapshot
	Clear()
}

// ArchiveSink persists a downloaded archive under name and returns where it went.
type ArchiveSink interface {
	Save(ctx context.Context, name string, r io.Reader) (string, error)
}

// Refresher re-renders the working folder.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Notifier shows a blocking notification for a failed user-initiated action.
type Notifier interface {
	Notify(message string)
}

// Confirmer asks the user to confirm a destructive action.
type Confirmer interface {
	Confirm(message string) bool
}

// Controls disables the batch toolbar while a request is in flight.
type Controls interface {
	SetBusy(busy bool)
}

// Journal records remote mutation attempts.
type Journal interface {
	Record(ctx context.Context, action models.Action, targetID, detail string, err error)
}

// Deps bundles the collaborators of a [BatchCoordinator]. API and Selection are required.
type Deps struct {
	API       API
	Selection Selection
	Sink      ArchiveSink
	Refresher Refresher
	Notifier  Notifier
	Confirmer Confirmer // nil confirms every delete
	Controls  Controls
	Journal   Journal
	Logger    *log.Logger
	Now       func() time.Time
}

// Failure is one item a best-effort loop could not process.
type Failure struct {
	ID   string
	Kind models.ItemKind
	Err  error
}

// DeleteResult summarizes a batch delete.
type DeleteResult struct {
	Cancelled bool
	Attempted int
	Deleted   []string
	Failed    []Failure
}

// BatchCoordinator runs bulk actions over the selection. At most one action runs at a time.
type BatchCoordinator struct {
	api       API
	selection Selection
	sink      ArchiveSink
	refresher Refresher
	notifier  Notifier
	confirmer Confirmer
	controls  Controls
	journal   Journal
	logger    *log.Logger
	now       func() time.Time

	mu      sync.Mutex
	running bool
}

// NewBatchCoordinator creates a coordinator. Missing optional collaborators become no-ops.
func NewBatchCoordinator(deps Deps) *BatchCoordinator {
	c := &BatchCoordinator{
		api:       deps.API,
		selection: deps.Selection,
		sink:      deps.Sink,
		refresher: deps.Refresher,
		notifier:  deps.Notifier,
		confirmer: deps.Confirmer,
		controls:  deps.Controls,
		journal:   deps.Journal,
		logger:    deps.Logger,
		now:       deps.Now,
	}
	if c.notifier == nil {
		c.notifier = nopNotifier{}
	}
	if c.controls == nil {
		c.controls = nopControls{}
	}
	if c.journal == nil {
		c.journal = nopJournal{}
	}
	if c.logger == nil {
		c.logger = log.New(io.Discard)
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

func (c *BatchCoordinator) begin() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return shared.ErrBusy
	}
	c.running = true
	c.controls.SetBusy(true)
	return nil
}

func (c *BatchCoordinator) end() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.running = false
	c.controls.SetBusy(false)
}

// refresh re-renders the folder. Failures are logged only.
func (c *BatchCoordinator) refresh(ctx context.Context, progress chan<- ProgressUpdate) {
	if c.refresher == nil {
		return
	}
	sendProgress(progress, refreshUpdate())
	if err := c.refresher.Refresh(ctx); err != nil && !errors.Is(err, shared.ErrStaleSession) {
		c.logger.Warn("failed to refresh folder after batch action", "error", err)
	}
}

// Download requests one archive with the selected photo ids and saves it under a generated name.
//
// It is a no-op when no photo is selected. Failures are reported and the controls re-enabled; nothing is retried.
func (c *BatchCoordinator) Download(ctx context.Context, progress chan<- ProgressUpdate) (string, error) {
	snap := c.selection.Snapshot()
	if len(snap.Photos) == 0 {
		c.logger.Debug("download skipped, no photos selected", "albums", len(snap.Albums))
		return "", nil
	}
	if c.sink == nil {
		return "", fmt.Errorf("%w: no archive destination configured", shared.ErrInvalidConfig)
	}
	if err := c.begin(); err != nil {
		return "", err
	}
	defer c.end()

	sendProgress(progress, downloadingUpdate(len(snap.Photos)))
	detail := strings.Join(snap.Photos, ",")

	body, err := c.api.BatchDownload(ctx, snap.Photos)
	if err != nil {
		c.logger.Error("batch download failed", "count", len(snap.Photos), "error", err)
		c.journal.Record(ctx, models.ActionDownload, "", detail, err)
		c.notifier.Notify(fmt.Sprintf("Download failed: %v", err))
		return "", err
	}
	defer body.Close()

	name := shared.ArchiveName(c.now())
	location, err := c.sink.Save(ctx, name, body)
	if err != nil {
		c.logger.Error("failed to save archive", "name", name, "error", err)
		c.journal.Record(ctx, models.ActionDownload, name, detail, err)
		c.notifier.Notify(fmt.Sprintf("Download failed: %v", err))
		return "", err
	}

	c.journal.Record(ctx, models.ActionDownload, name, detail, nil)
	c.logger.Info("archive saved", "location", location, "count", len(snap.Photos))
	sendProgress(progress, archiveSavedUpdate(location))
	return location, nil
}

// Delete confirms with the total count, then deletes every selected photo and album one by one.
//
// The loop is best-effort: failures are logged and journaled and the loop continues. Afterwards the
// selection is cleared and the folder refreshed regardless of outcome.
func (c *BatchCoordinator) Delete(ctx context.Context, progress chan<- ProgressUpdate) (*DeleteResult, error) {
	snap := c.selection.Snapshot()
	if snap.Empty() {
		return nil, shared.ErrNoSelection
	}
	if c.confirmer != nil && !c.confirmer.Confirm(fmt.Sprintf("Delete %d selected item(s)?", snap.Count())) {
		return &DeleteResult{Cancelled: true}, nil
	}
	if err := c.begin(); err != nil {
		return nil, err
	}
	defer c.end()

	result := &DeleteResult{Attempted: snap.Count()}
	c.deleteAll(ctx, progress, result, DeletePhotos, models.KindPhoto, snap.Photos)
	c.deleteAll(ctx, progress, result, DeleteAlbums, models.KindAlbum, snap.Albums)

	c.selection.Clear()
	c.refresh(ctx, progress)

	c.logger.Info("batch delete finished", "attempted", result.Attempted, "deleted", len(result.Deleted), "failed", len(result.Failed))
	return result, nil
}

func (c *BatchCoordinator) deleteAll(ctx context.Context, progress chan<- ProgressUpdate, result *DeleteResult, phase Phase, kind models.ItemKind, ids []string) {
	action, remove := models.ActionDeletePhoto, c.api.DeletePhoto
	if kind == models.KindAlbum {
		action, remove = models.ActionDeleteAlbum, c.api.DeleteAlbum
	}

	for i, id := range ids {
		sendProgress(progress, deleteUpdate(phase, i+1, len(ids), id, nil))
		err := remove(ctx, id)
		c.journal.Record(ctx, action, id, "batch", err)
		if err != nil {
			c.logger.Warn("batch delete item failed", "kind", kind, "id", id, "error", err)
			sendProgress(progress, deleteUpdate(phase, i+1, len(ids), id, err))
			result.Failed = append(result.Failed, Failure{ID: id, Kind: kind, Err: err})
			continue
		}
		result.Deleted = append(result.Deleted, id)
	}
}

// Move moves the selected photos to targetFolderID in one request and refreshes on success.
// Failures notify the user; nothing is rolled back locally.
func (c *BatchCoordinator) Move(ctx context.Context, targetFolderID string, progress chan<- ProgressUpdate) error {
	if targetFolderID == "" {
		return fmt.Errorf("%w: target folder", shared.ErrMissingArgument)
	}
	snap := c.selection.Snapshot()
	if len(snap.Photos) == 0 {
		return shared.ErrNoSelection
	}
	if err := c.begin(); err != nil {
		return err
	}
	defer c.end()

	sendProgress(progress, movingUpdate(len(snap.Photos), targetFolderID))
	err := c.api.MovePhotos(ctx, snap.Photos, targetFolderID)
	c.journal.Record(ctx, models.ActionMovePhotos, targetFolderID, strings.Join(snap.Photos, ","), err)
	if err != nil {
		c.logger.Error("batch move failed", "target_folder_id", targetFolderID, "count", len(snap.Photos), "error", err)
		c.notifier.Notify(fmt.Sprintf("Move failed: %v", err))
		return err
	}

	c.refresh(ctx, progress)
	return nil
}

// DeleteSingle deletes one photo or album outside the selection. Failure shows a blocking notification.
func (c *BatchCoordinator) DeleteSingle(ctx context.Context, item models.Item) error {
	var (
		action models.Action
		err    error
	)
	switch item.Kind {
	case models.KindPhoto:
		action = models.ActionDeletePhoto
		err = c.api.DeletePhoto(ctx, item.ID)
	case models.KindAlbum:
		action = models.ActionDeleteAlbum
		err = c.api.DeleteAlbum(ctx, item.ID)
	default:
		return fmt.Errorf("%w: cannot delete %s %q", shared.ErrInvalidArgument, item.Kind, item.ID)
	}

	c.journal.Record(ctx, action, item.ID, "single", err)
	if err != nil {
		c.logger.Error("delete failed", "kind", item.Kind, "id", item.ID, "error", err)
		c.notifier.Notify(fmt.Sprintf("Could not delete %s: %v", item.Label(), err))
		return err
	}

	c.refresh(ctx, nil)
	return nil
}

type nopNotifier struct{}

func (nopNotifier) Notify(string) {}

type nopControls struct{}

func (nopControls) SetBusy(bool) {}

type nopJournal struct{}

func (nopJournal) Record(context.Context, models.Action, string, string, error) {}
