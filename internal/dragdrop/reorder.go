package dragdrop

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

// Entry is one element of the album strip. Control entries (the "add" tile) never move and are never persisted.
type Entry struct {
	ID      string
	Control bool
}

// ReorderAPI persists album order.
type ReorderAPI interface {
	ReorderAlbum(ctx context.Context, albumID string, itemIDs []string, seq uint64) error
}

// ReorderResult describes one persisted drag.
type ReorderResult struct {
	IDs []string
	Seq uint64
	// Stale is set when a newer drag was already acknowledged before this one completed.
	Stale bool
}

// ReorderDrag reorders the members of one album.
type ReorderDrag struct {
	api     ReorderAPI
	journal Journal
	logger  *log.Logger

	mu       sync.Mutex
	albumID  string
	entries  []Entry
	dragging string
	seq      uint64
	acked    uint64
}

// NewReorderDrag creates an empty reorder drag. journal and logger may be nil.
func NewReorderDrag(api ReorderAPI, journal Journal, logger *log.Logger) *ReorderDrag {
	if journal == nil {
		journal = nopJournal{}
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &ReorderDrag{api: api, journal: journal, logger: logger}
}

// Load binds the drag to albumID with the rendered strip. Any drag in progress is dropped.
func (r *ReorderDrag) Load(albumID string, entries []Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.albumID = albumID
	r.entries = slices.Clone(entries)
	r.dragging = ""
}

// Reset unbinds the drag.
func (r *ReorderDrag) Reset() {
	r.Load("", nil)
}

// Start picks up the member id.
func (r *ReorderDrag) Start(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.index(id)
	if i < 0 || r.entries[i].Control {
		return fmt.Errorf("%w: %q", shared.ErrNotAMember, id)
	}
	r.dragging = id
	return nil
}

// Dragging returns the id being dragged, if any.
func (r *ReorderDrag) Dragging() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dragging
}

// Move relocates the dragged entry next to overID. The entry lands before the sibling when pointerX is left of
// the sibling's horizontal midpoint and after it otherwise. Returns whether the strip changed.
func (r *ReorderDrag) Move(overID string, pointerX, left, width float64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.relocate(overID, pointerX < left+width/2)
}

// Nudge moves the dragged entry one slot left (dir < 0) or right (dir > 0), skipping control entries.
func (r *ReorderDrag) Nudge(dir int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.dragging == "" || dir == 0 {
		return false
	}
	step := 1
	if dir < 0 {
		step = -1
	}
	for i := r.index(r.dragging) + step; i >= 0 && i < len(r.entries); i += step {
		if !r.entries[i].Control {
			return r.relocate(r.entries[i].ID, dir < 0)
		}
	}
	return false
}

// relocate moves the dragged entry before or after overID. Callers hold mu.
func (r *ReorderDrag) relocate(overID string, before bool) bool {
	if r.dragging == "" || overID == r.dragging {
		return false
	}
	over := r.index(overID)
	if over < 0 || r.entries[over].Control {
		return false
	}

	from := r.index(r.dragging)
	moved := r.entries[from]
	next := slices.Delete(slices.Clone(r.entries), from, from+1)
	at := slices.IndexFunc(next, func(e Entry) bool { return e.ID == overID })
	if !before {
		at++
	}
	next = slices.Insert(next, at, moved)

	if slices.Equal(next, r.entries) {
		return false
	}
	r.entries = next
	return true
}

// End finishes the drag and persists the full ordered list of non-control ids in one request.
//
// Without a drag in progress it does nothing and returns a zero result.
func (r *ReorderDrag) End(ctx context.Context) (ReorderResult, error) {
	r.mu.Lock()
	if r.dragging == "" {
		r.mu.Unlock()
		return ReorderResult{}, nil
	}
	r.dragging = ""
	albumID := r.albumID
	ids := r.order()
	r.seq++
	seq := r.seq
	r.mu.Unlock()

	err := r.api.ReorderAlbum(ctx, albumID, ids, seq)
	r.journal.Record(ctx, models.ActionReorder, albumID, fmt.Sprintf("seq=%d items=%d", seq, len(ids)), err)
	result := ReorderResult{IDs: ids, Seq: seq}
	if err != nil {
		r.logger.Error("failed to persist album order", "album_id", albumID, "seq", seq, "error", err)
		return result, err
	}

	r.mu.Lock()
	if seq > r.acked {
		r.acked = seq
	} else {
		result.Stale = true
	}
	r.mu.Unlock()

	if result.Stale {
		r.logger.Warn("reorder acknowledged after a newer order", "album_id", albumID, "seq", seq)
	}
	return result, nil
}

// Order returns the current non-control ids in strip order.
func (r *ReorderDrag) Order() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.order()
}

// Entries returns a copy of the strip.
func (r *ReorderDrag) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.entries)
}

// Acked returns the highest acknowledged sequence number.
func (r *ReorderDrag) Acked() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.acked
}

func (r *ReorderDrag) order() []string {
	ids := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		if !e.Control {
			ids = append(ids, e.ID)
		}
	}
	return shared.UniqueIDs(ids)
}

func (r *ReorderDrag) index(id string) int {
	return slices.IndexFunc(r.entries, func(e Entry) bool { return e.ID == id })
}
