// Package drive defines the upstream document listing capability consumed by
// the rest of the service, plus the Google Drive implementation.
//
// Implementations should:
//   - Support pagination via continuation tokens
//   - Exclude trashed objects and objects outside the requested folder
//   - Be safe for concurrent use
package drive

import (
	"context"
)

// Lister abstracts one page of a folder listing.
//
// The continuation token is opaque: callers forward it verbatim on the next
// call and must not inspect or decode it.
type Lister interface {
	// ListPage returns a page of files in a folder.
	// Use NextPageToken from ListResult for subsequent pages.
	ListPage(ctx context.Context, opts ListOptions) (*ListResult, error)
}

// Projection selects how much metadata a listing call requests.
// Counting walks use ProjectionIDs to keep response payloads minimal.
type Projection int

const (
	// ProjectionFull requests display metadata for every file.
	ProjectionFull Projection = iota

	// ProjectionIDs requests only file identifiers.
	ProjectionIDs
)

// ListOptions configures a ListPage operation.
type ListOptions struct {
	// FolderID is the opaque upstream folder identifier. Required.
	FolderID string

	// Projection selects the requested metadata fields.
	Projection Projection

	// OrderBy is the upstream ordering hint (e.g. "createdTime desc", "name").
	// Empty leaves upstream order unspecified.
	OrderBy string

	// PageSize limits the number of files returned per page.
	// Zero uses the implementation default.
	PageSize int

	// PageToken resumes listing from a previous ListResult.
	// Empty string starts from the beginning.
	PageToken string
}

// ListResult contains one page of files from a ListPage operation.
type ListResult struct {
	// Files contains the file records for this page.
	Files []File

	// NextPageToken is used to retrieve the next page.
	// Empty string indicates no more pages.
	NextPageToken string
}

// File is one listed document as served to clients.
//
// Field names on the wire match the upstream metadata names the frontend
// already consumes.
type File struct {
	ID           string `json:"id"`
	Name         string `json:"name,omitempty"`
	MimeType     string `json:"mimeType,omitempty"`
	ViewLink     string `json:"webViewLink,omitempty"`
	DownloadLink string `json:"webContentLink,omitempty"`
	CreatedTime  string `json:"createdTime,omitempty"`
}
