package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrTimeout            = fmt.Errorf("operation timed out")
	ErrAlbumNotFound      = fmt.Errorf("album not found")
	ErrFolderNotFound     = fmt.Errorf("folder not found")

	// Engine state errors
	ErrNoSelection   = fmt.Errorf("nothing selected")
	ErrSessionClosed = fmt.Errorf("no album is open for editing")
	ErrStaleSession  = fmt.Errorf("album session changed while the request was in flight")
	ErrNotAMember    = fmt.Errorf("item is not a member of the album")
	ErrAccessDenied  = fmt.Errorf("access denied")
	ErrAlbumLocked   = fmt.Errorf("album is locked")
	ErrBusy          = fmt.Errorf("another batch action is running")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
