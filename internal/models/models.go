// package models defines the data model for the gallery client
package models

import (
	"time"
)

// Model is a record galx keeps locally. Gallery items and albums live on the server and never implement it;
// only the action journal does.
type Model interface {
	ID() string
	CreatedAt() time.Time
	UpdatedAt() time.Time

	// Validate rejects records that must not be written, e.g. a failed attempt without an error message.
	Validate() error
}

// Repository stores one kind of local record in the sqlite journal database.
//
// Delete is a soft delete. List filters with column criteria such as "action", "target_id" and "ok"; a
// "limit" returns the newest records first.
type Repository[T Model] interface {
	Create(record T) error
	Get(id string) (T, error)
	Update(record T) error
	Delete(id string) error
	List(criteria map[string]any) ([]T, error)
}
