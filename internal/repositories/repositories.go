// package repositories provides persistence layer implementations for all model types.
//
// Each repository implements models.Repository[T] for a specific entity type,
// handling CRUD operations, soft deletes, and sequence generation.
package repositories

import (
	"database/sql"
	"errors"
	"fmt"
)

// NextSequence bumps the counter row of {table}_sequence and returns the new value.
//
// The increment and read are one statement, so concurrent writers never see the same number.
func NextSequence(db *sql.DB, table string) (int, error) {
	query := fmt.Sprintf("UPDATE %s_sequence SET value = value + 1 WHERE id = 1 RETURNING value", table)

	var sequence int
	if err := db.QueryRow(query).Scan(&sequence); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("sequence row for %s is missing", table)
		}
		return 0, fmt.Errorf("failed to increment %s sequence: %w", table, err)
	}
	return sequence, nil
}
