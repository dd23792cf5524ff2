// Package album implements the album editing session and the album navigation context.
//
// # Editing Session
//
// An [Editor] owns at most one session at a time:
//
//	closed -> opening -> open -> closed
//
// Opening a new album overwrites all transient state of the previous one. Each open bumps a generation
// counter and album fetches that resolve under an older generation are discarded.
//
// # Navigation Context
//
// A [Navigator] keeps its own snapshot of an album's items plus the current index for the external viewer.
// It is independent of the editing session, even when both look at the same album.
//
// Access gating happens before any network call: denied albums do nothing, locked albums go to the unlock
// flow unless already unlocked, and only unmarked albums are opened.
package album

import (
	"context"

	"github.com/desertthunder/galx/internal/models"
)

// Notifier shows a blocking notification for a failed user-initiated action.
type Notifier interface {
	Notify(message string)
}

// BackNavigator is the global back-navigation stack.
type BackNavigator interface {
	Register(key string, handler func())
	// Unregister removes key. When skipHandler is false the handler runs as if back was pressed.
	Unregister(key string, skipHandler bool)
}

// Journal records remote mutation attempts.
type Journal interface {
	Record(ctx context.Context, action models.Action, targetID, detail string, err error)
}

type nopJournal struct{}

func (nopJournal) Record(context.Context, models.Action, string, string, error) {}

type nopNotifier struct{}

func (nopNotifier) Notify(string) {}

type nopBack struct{}

func (nopBack) Register(string, func()) {}
func (nopBack) Unregister(string, bool) {}
