package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/galx/internal/models"
	"github.com/desertthunder/galx/internal/shared"
)

const journalColumns = `id, sequence, action, target_id, detail, ok, error_message, created_at, updated_at, deleted_at`

// JournalRepository implements models.Repository[*models.JournalEntry] for the action journal.
//
// Entries are append-mostly: Update only rewrites the outcome, and Delete is a soft delete.
type JournalRepository struct {
	db *sql.DB
}

var _ models.Repository[*models.JournalEntry] = (*JournalRepository)(nil)

// NewJournalRepository creates a new JournalRepository with the given database connection
func NewJournalRepository(db *sql.DB) *JournalRepository {
	return &JournalRepository{db: db}
}

// Create inserts a new [models.JournalEntry] into the database with generated ID and sequence
func (r *JournalRepository) Create(entry *models.JournalEntry) error {
	if err := entry.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(r.db, "journal")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	entry.SetID(id)
	entry.SetSequence(sequence)

	query := `
		INSERT INTO journal (id, sequence, action, target_id, detail, ok, error_message, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		string(entry.Action()),
		entry.TargetID(),
		entry.Detail(),
		entry.OK(),
		nullString(entry.ErrorMessage()),
		entry.CreatedAt(),
		entry.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert journal entry: %w", err)
	}

	return nil
}

// Get retrieves an entry by ID, excluding soft-deleted entries
func (r *JournalRepository) Get(id string) (*models.JournalEntry, error) {
	query := `SELECT ` + journalColumns + ` FROM journal WHERE id = ? AND deleted_at IS NULL`
	return r.scan(r.db.QueryRow(query, id))
}

// Update rewrites the outcome of an existing entry
func (r *JournalRepository) Update(entry *models.JournalEntry) error {
	if err := entry.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	entry.SetUpdatedAt(now)

	query := `
		UPDATE journal
		SET ok = ?, error_message = ?, detail = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, entry.OK(), nullString(entry.ErrorMessage()), entry.Detail(), now, entry.ID())
	if err != nil {
		return fmt.Errorf("failed to update journal entry: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("journal entry not found or already deleted: %s", entry.ID())
	}

	return nil
}

// Delete soft-deletes an entry by ID
func (r *JournalRepository) Delete(id string) error {
	query := `
		UPDATE journal
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete journal entry: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("journal entry not found or already deleted: %s", id)
	}

	return nil
}

// List retrieves entries matching the given criteria in sequence order, excluding soft-deleted entries.
//
// Supported criteria: "action" (string or models.Action), "target_id" (string), "ok" (bool),
// "limit" (int, newest entries first when set).
func (r *JournalRepository) List(criteria map[string]any) ([]*models.JournalEntry, error) {
	query := `SELECT ` + journalColumns + ` FROM journal WHERE deleted_at IS NULL`
	args := []any{}

	switch action := criteria["action"].(type) {
	case models.Action:
		if action != "" {
			query += " AND action = ?"
			args = append(args, string(action))
		}
	case string:
		if action != "" {
			query += " AND action = ?"
			args = append(args, action)
		}
	}

	if target, ok := criteria["target_id"].(string); ok && target != "" {
		query += " AND target_id = ?"
		args = append(args, target)
	}

	if ok, present := criteria["ok"].(bool); present {
		query += " AND ok = ?"
		args = append(args, ok)
	}

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " ORDER BY sequence DESC LIMIT ?"
		args = append(args, limit)
	} else {
		query += " ORDER BY sequence ASC"
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal: %w", err)
	}
	defer rows.Close()

	var entries []*models.JournalEntry
	for rows.Next() {
		entry, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return entries, nil
}

// Failures returns the newest failed attempts, at most limit of them.
func (r *JournalRepository) Failures(limit int) ([]*models.JournalEntry, error) {
	return r.List(map[string]any{"ok": false, "limit": limit})
}

type scanner interface {
	Scan(dest ...any) error
}

// scan reads one journal row from a [sql.Row] or [sql.Rows]
func (r *JournalRepository) scan(row scanner) (*models.JournalEntry, error) {
	var (
		id        string
		sequence  int
		action    string
		targetID  string
		detail    string
		ok        bool
		errorMsg  sql.NullString
		createdAt time.Time
		updatedAt time.Time
		deletedAt sql.NullTime
	)

	err := row.Scan(&id, &sequence, &action, &targetID, &detail, &ok, &errorMsg, &createdAt, &updatedAt, &deletedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("journal entry not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan journal entry: %w", err)
	}

	var deleted *time.Time
	if deletedAt.Valid {
		deleted = &deletedAt.Time
	}

	return models.RestoreJournalEntry(id, sequence, models.Action(action), targetID, detail, ok, errorMsg.String, createdAt, updatedAt, deleted), nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// Recorder writes engine mutation attempts to the journal.
//
// Write failures are logged and swallowed: the journal must never change the outcome of a user action.
type Recorder struct {
	repo   *JournalRepository
	logger *log.Logger
}

// NewRecorder creates a Recorder. A nil logger discards output.
func NewRecorder(repo *JournalRepository, logger *log.Logger) *Recorder {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Recorder{repo: repo, logger: logger}
}

// Record stores one attempt. An empty targetID is recorded as "-". The write outlives ctx so canceled
// requests are still journaled.
func (r *Recorder) Record(_ context.Context, action models.Action, targetID, detail string, err error) {
	if r == nil || r.repo == nil {
		return
	}
	if targetID == "" {
		targetID = "-"
	}

	entry := models.NewJournalEntry(action, targetID, detail, err)
	if werr := r.repo.Create(entry); werr != nil {
		r.logger.Warn("failed to write journal entry", "action", action, "target_id", targetID, "error", werr)
	}
}
