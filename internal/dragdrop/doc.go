// Package dragdrop implements the two drag gestures of the gallery.
//
// # Grid Drag
//
// [GridDrag] moves a photo onto an album tile:
//
//	idle -> dragging -> (over-target | not-over-target) -> dropped | cancelled
//
// Only a drop on a valid album distinct from the dragged item issues a request.
//
// # Reorder Drag
//
// [ReorderDrag] rearranges members inside an open album:
//
//	idle -> dragging -> repositioning -> dragend
//
// Repositioning is local only. Drag end persists the full member order in one call, tagged with a
// monotonic sequence number so late acknowledgments can be told apart.
package dragdrop

import (
	"context"

	"github.com/desertthunder/galx/internal/models"
)

// Journal records remote mutation attempts.
type Journal interface {
	Record(ctx context.Context, action models.Action, targetID, detail string, err error)
}

type nopJournal struct{}

func (nopJournal) Record(context.Context, models.Action, string, string, error) {}
