package album

import (
	"context"
	"fmt"
	"io"
	"slices"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/galx/internal/models"
	"github.com/desertthunder/galx/internal/shared"
)

// AlbumFetcher loads one album.
type AlbumFetcher interface {
	GetAlbum(ctx context.Context, albumID string) (*models.Album, error)
}

// Viewer is the external single-item viewer.
type Viewer interface {
	SetAlbumContext(albumID string, items []models.Item, index int)
	LoadItem(item models.Item, index int)
	Show()
}

// OrderExpander is implemented by viewers that splice album items into the surrounding gallery order.
type OrderExpander interface {
	ExpandNavigationOrder(albumID string, items []models.Item)
}

// IndexIndicator is implemented by viewers that show "i / n".
type IndexIndicator interface {
	UpdateIndexIndicator(index, total int)
}

// Unlocker starts the external unlock flow for a protected album.
type Unlocker interface {
	Unlock(item models.Item) error
}

// Gate is the outcome of [Navigator.OpenEntry].
type Gate int

const (
	GateOpened Gate = iota
	GateDenied
	GateLocked
	GateEmpty
)

func (g Gate) String() string {
	switch g {
	case GateDenied:
		return "denied"
	case GateLocked:
		return "locked"
	case GateEmpty:
		return "empty"
	default:
		return "opened"
	}
}

// Navigator holds the album navigation context for the viewer.
type Navigator struct {
	api      AlbumFetcher
	viewer   Viewer
	unlocked func(containerID string) bool
	unlocker Unlocker
	logger   *log.Logger

	mu      sync.Mutex
	gen     uint64
	active  bool
	albumID string
	items   []models.Item
	index   int
}

// NewNavigator creates an inactive navigator. unlocked and unlocker may be nil, in which case locked albums
// are never considered unlocked and the unlock flow is a no-op.
func NewNavigator(api AlbumFetcher, viewer Viewer, unlocked func(string) bool, unlocker Unlocker, logger *log.Logger) *Navigator {
	if unlocked == nil {
		unlocked = func(string) bool { return false }
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Navigator{api: api, viewer: viewer, unlocked: unlocked, unlocker: unlocker, logger: logger}
}

// SetViewer replaces the viewer.
func (n *Navigator) SetViewer(viewer Viewer) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.viewer = viewer
}

// OpenEntry applies access gating to an album tile, then opens it from the start.
//
// Denied albums are a no-op. Locked albums go to the unlock flow unless already unlocked. Neither touches the network.
func (n *Navigator) OpenEntry(ctx context.Context, item models.Item) (Gate, error) {
	if item.Kind != models.KindAlbum {
		return GateDenied, fmt.Errorf("%w: %q is not an album", shared.ErrInvalidArgument, item.ID)
	}

	switch item.Access {
	case models.AccessDenied:
		n.logger.Debug("album access denied", "album_id", item.ID)
		return GateDenied, nil
	case models.AccessLocked:
		if !n.unlocked(containerKey(item)) {
			if n.unlocker == nil {
				return GateLocked, nil
			}
			if err := n.unlocker.Unlock(item); err != nil {
				n.logger.Error("failed to start unlock flow", "album_id", item.ID, "error", err)
				return GateLocked, err
			}
			return GateLocked, nil
		}
	}

	opened, err := n.Open(ctx, item.ID, false)
	if err != nil {
		return GateOpened, err
	}
	if !opened {
		return GateEmpty, nil
	}
	return GateOpened, nil
}

func containerKey(item models.Item) string {
	if item.SafeID != "" {
		return item.SafeID
	}
	return item.ID
}

// Open fetches albumID, snapshots its items and hands them to the viewer starting at the first item,
// or the last when fromEnd is set.
//
// An empty album leaves the current context as it is and reports false. Every call still supersedes the
// opens before it: a fetch that resolves after a newer Open, even one for an empty album, is discarded with
// [shared.ErrStaleSession]. Fetch failures are logged and returned; they are not surfaced to the user.
func (n *Navigator) Open(ctx context.Context, albumID string, fromEnd bool) (bool, error) {
	n.mu.Lock()
	n.gen++
	gen := n.gen
	n.mu.Unlock()

	album, err := n.api.GetAlbum(ctx, albumID)
	if err != nil {
		n.logger.Error("failed to load album for viewer", "album_id", albumID, "error", err)
		return false, err
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	if gen != n.gen {
		n.logger.Debug("discarding stale album fetch", "album_id", albumID)
		return false, shared.ErrStaleSession
	}
	if len(album.Items) == 0 {
		n.logger.Debug("album is empty, nothing to show", "album_id", albumID)
		return false, nil
	}

	n.active = true
	n.albumID = albumID
	n.items = slices.Clone(album.Items)
	n.index = 0
	if fromEnd {
		n.index = len(n.items) - 1
	}

	if n.viewer == nil {
		return true, nil
	}
	n.viewer.SetAlbumContext(albumID, slices.Clone(n.items), n.index)
	if x, ok := n.viewer.(OrderExpander); ok {
		x.ExpandNavigationOrder(albumID, slices.Clone(n.items))
	}
	n.viewer.LoadItem(n.items[n.index], n.index)
	n.viewer.Show()
	n.updateIndicator()
	return true, nil
}

// Navigate moves dir steps through the snapshot, wrapping at both ends. It is a no-op for fewer than two items.
func (n *Navigator) Navigate(dir int) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	total := len(n.items)
	if !n.active || total <= 1 || dir == 0 {
		return false
	}

	n.index = ((n.index+dir)%total + total) % total
	if n.viewer != nil {
		n.viewer.LoadItem(n.items[n.index], n.index)
		n.updateIndicator()
	}
	return true
}

// Close drops the navigation context. In-flight opens are discarded.
func (n *Navigator) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.gen++
	n.active = false
	n.albumID = ""
	n.items = nil
	n.index = 0
}

// IsDisplaying reports whether the viewer is showing albumID.
func (n *Navigator) IsDisplaying(albumID string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.active && albumID != "" && n.albumID == albumID
}

// Current returns the album id, index and a copy of the snapshot.
func (n *Navigator) Current() (string, int, []models.Item) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.albumID, n.index, slices.Clone(n.items)
}

func (n *Navigator) updateIndicator() {
	if ind, ok := n.viewer.(IndexIndicator); ok {
		ind.UpdateIndexIndicator(n.index, len(n.items))
	}
}

// BrowserUnlocker opens the web unlock page for a protected album.
type BrowserUnlocker struct {
	BaseURL string
	Open    func(url string) error
}

// Unlock opens {base}/unlock/{safe_id}?mode={mode}.
func (b BrowserUnlocker) Unlock(item models.Item) error {
	target, err := shared.UnlockURL(b.BaseURL, containerKey(item), item.UnlockMode)
	if err != nil {
		return err
	}
	open := b.Open
	if open == nil {
		open = shared.OpenBrowser
	}
	return open(target)
}
