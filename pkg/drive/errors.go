package drive

import (
	"errors"
	"fmt"
)

// Sentinel errors for upstream listing operations.
var (
	// ErrNotFound indicates the requested folder does not exist.
	ErrNotFound = errors.New("folder not found")

	// ErrAccessDenied indicates insufficient permissions on the folder.
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidCredentials indicates authentication failed.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrThrottled indicates the request was rate limited upstream.
	ErrThrottled = errors.New("request throttled")

	// ErrUnavailable indicates the upstream service is unavailable.
	ErrUnavailable = errors.New("upstream unavailable")
)

// Error wraps upstream failures with operation context.
type Error struct {
	// Op is the operation that failed (e.g. "ListPage", "About").
	Op string

	// Folder is the folder identifier, if applicable.
	Folder string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Folder != "" {
		return fmt.Sprintf("drive %s: %s: %v", e.Op, e.Folder, e.Err)
	}
	return fmt.Sprintf("drive %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Err
}

// IsNotFound returns true if the error indicates a missing folder.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAccessDenied returns true if the error indicates insufficient permissions.
func IsAccessDenied(err error) bool {
	return errors.Is(err, ErrAccessDenied)
}

// IsThrottled returns true if the error indicates upstream rate limiting.
func IsThrottled(err error) bool {
	return errors.Is(err, ErrThrottled)
}

// IsUnavailable returns true if the error indicates upstream unavailability.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}
