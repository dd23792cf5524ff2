package models

import (
	"fmt"
	"time"
)

// Action names a remote mutation recorded in the journal.
type Action string

const (
	ActionDeletePhoto Action = "delete_photo"
	ActionDeleteAlbum Action = "delete_album"
	ActionMovePhotos  Action = "move_photos"
	ActionDownload    Action = "download"
	ActionAddItems    Action = "add_items"
	ActionRemoveItems Action = "remove_items"
	ActionSetCover    Action = "set_cover"
	ActionReorder     Action = "reorder"
)

// JournalEntry records one attempted remote mutation and its outcome.
//
// Best-effort loops never surface individual failures to the user, so the journal is the place to find them.
type JournalEntry struct {
	id        string
	sequence  int
	action    Action
	targetID  string
	detail    string
	ok        bool
	errorMsg  string
	createdAt time.Time
	updatedAt time.Time
	deletedAt *time.Time
}

// NewJournalEntry builds an entry for action on targetID. A nil err marks the attempt as successful.
func NewJournalEntry(action Action, targetID, detail string, err error) *JournalEntry {
	now := time.Now()
	e := &JournalEntry{
		action:    action,
		targetID:  targetID,
		detail:    detail,
		ok:        err == nil,
		createdAt: now,
		updatedAt: now,
	}
	if err != nil {
		e.errorMsg = err.Error()
	}
	return e
}

// RestoreJournalEntry rebuilds an entry from stored columns.
func RestoreJournalEntry(id string, sequence int, action Action, targetID, detail string, ok bool, errorMsg string, createdAt, updatedAt time.Time, deletedAt *time.Time) *JournalEntry {
	return &JournalEntry{
		id:        id,
		sequence:  sequence,
		action:    action,
		targetID:  targetID,
		detail:    detail,
		ok:        ok,
		errorMsg:  errorMsg,
		createdAt: createdAt,
		updatedAt: updatedAt,
		deletedAt: deletedAt,
	}
}

func (e *JournalEntry) ID() string            { return e.id }
func (e *JournalEntry) Sequence() int         { return e.sequence }
func (e *JournalEntry) Action() Action        { return e.action }
func (e *JournalEntry) TargetID() string      { return e.targetID }
func (e *JournalEntry) Detail() string        { return e.detail }
func (e *JournalEntry) OK() bool              { return e.ok }
func (e *JournalEntry) ErrorMessage() string  { return e.errorMsg }
func (e *JournalEntry) CreatedAt() time.Time  { return e.createdAt }
func (e *JournalEntry) UpdatedAt() time.Time  { return e.updatedAt }
func (e *JournalEntry) DeletedAt() *time.Time { return e.deletedAt }

func (e *JournalEntry) SetID(id string)          { e.id = id }
func (e *JournalEntry) SetSequence(seq int)      { e.sequence = seq }
func (e *JournalEntry) SetUpdatedAt(t time.Time) { e.updatedAt = t }

// SetOutcome replaces the recorded result of the attempt.
func (e *JournalEntry) SetOutcome(err error) {
	e.ok = err == nil
	e.errorMsg = ""
	if err != nil {
		e.errorMsg = err.Error()
	}
}

// Validate checks required fields.
func (e *JournalEntry) Validate() error {
	if e.action == "" {
		return fmt.Errorf("journal entry action is required")
	}
	if e.targetID == "" {
		return fmt.Errorf("journal entry target is required")
	}
	if !e.ok && e.errorMsg == "" {
		return fmt.Errorf("failed journal entry requires an error message")
	}
	return nil
}
