package listing

import (
	"context"
	"encoding/base64"
	"strconv"
	"strings"

	"github.com/climbe/ri-backend/pkg/drive"
)

// DefaultPageSize is the fixed client-facing page size.
const DefaultPageSize = 15

// EncodePageToken encodes a non-negative offset as an opaque page cursor.
func EncodePageToken(offset int) string {
	return base64.StdEncoding.EncodeToString([]byte(strconv.Itoa(offset)))
}

// DecodePageToken decodes a page cursor back to an offset. Missing, malformed
// or tampered tokens decode to offset 0: a bad cursor means "first page",
// never a failed request.
func DecodePageToken(token string) int {
	if token == "" {
		return 0
	}
	raw, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return 0
	}
	offset, err := strconv.Atoi(string(raw))
	if err != nil || offset < 0 {
		return 0
	}
	return offset
}

// Page is one page of results plus pagination metadata.
type Page struct {
	// Files holds at most PageSize records in the configured order.
	Files []drive.File

	// NextPageToken resumes after this page; empty when this is the last
	// page. For native pagination it is the upstream token verbatim.
	NextPageToken string

	// CurrentPage is the 1-based page number. Zero for native pagination,
	// where the opaque upstream token does not reveal a position.
	CurrentPage int

	// TotalItems is the full count across all pages.
	TotalItems int

	// TotalPages is ceil(TotalItems / PageSize); zero when the folder is empty.
	TotalPages int

	// PageSize is the fixed page size.
	PageSize int
}

// PaginationMode selects how a category's paginated view is produced.
type PaginationMode int

const (
	// PaginateNative fetches exactly one upstream page and reuses the
	// upstream continuation token. The configured sort applies to that page
	// only, so cross-page order is only as good as the upstream OrderBy.
	// Totals come from a separate counting walk and are best-effort: the
	// folder may change between the page fetch and the count.
	PaginateNative PaginationMode = iota

	// PaginateMemory materializes and sorts the whole folder, then slices it
	// at an offset-encoded cursor. Required whenever the configured sort
	// must be correct across the entire collection.
	PaginateMemory
)

// ParsePaginationMode maps a configuration name to a mode.
func ParsePaginationMode(s string) (PaginationMode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "native":
		return PaginateNative, true
	case "memory":
		return PaginateMemory, true
	}
	return PaginateNative, false
}

// String returns the configuration name of the mode.
func (m PaginationMode) String() string {
	if m == PaginateMemory {
		return "memory"
	}
	return "native"
}

// PageRequest asks for one page of a folder.
type PageRequest struct {
	FolderID  string
	PageToken string
	OrderBy   string
	Sort      SortStrategy
	Mode      PaginationMode
}

// Builder produces paginated views of folders.
type Builder struct {
	agg      *Aggregator
	pageSize int
}

// NewBuilder creates a page builder with the fixed default page size.
func NewBuilder(agg *Aggregator) *Builder {
	return &Builder{agg: agg, pageSize: DefaultPageSize}
}

// Page returns one page of the folder per the request's pagination mode.
func (b *Builder) Page(ctx context.Context, req PageRequest) (*Page, error) {
	if req.Mode == PaginateMemory {
		return b.memoryPage(ctx, req)
	}
	return b.nativePage(ctx, req)
}

func (b *Builder) nativePage(ctx context.Context, req PageRequest) (*Page, error) {
	res, err := b.agg.lister.ListPage(ctx, drive.ListOptions{
		FolderID:  req.FolderID,
		OrderBy:   req.OrderBy,
		PageSize:  b.pageSize,
		PageToken: req.PageToken,
	})
	if err != nil {
		return nil, err
	}

	files := res.Files
	req.Sort.Apply(files)

	total, err := b.agg.CountAll(ctx, req.FolderID)
	if err != nil {
		return nil, err
	}

	return &Page{
		Files:         files,
		NextPageToken: res.NextPageToken,
		TotalItems:    total,
		TotalPages:    totalPages(total, b.pageSize),
		PageSize:      b.pageSize,
	}, nil
}

func (b *Builder) memoryPage(ctx context.Context, req PageRequest) (*Page, error) {
	all, err := b.agg.ListAll(ctx, req.FolderID, ListAllOptions{
		OrderBy: req.OrderBy,
		Sort:    req.Sort,
	})
	if err != nil {
		return nil, err
	}

	page := paginateInMemory(all, b.pageSize, req.PageToken)
	return &page, nil
}

// paginateInMemory slices a fully materialized, sorted sequence at the
// offset encoded in token. An offset at or past the end yields an empty page
// with no next token.
func paginateInMemory(files []drive.File, pageSize int, token string) Page {
	offset := DecodePageToken(token)

	start := offset
	if start > len(files) {
		start = len(files)
	}
	end := start + pageSize
	if end > len(files) {
		end = len(files)
	}

	next := ""
	if offset+pageSize < len(files) {
		next = EncodePageToken(offset + pageSize)
	}

	return Page{
		Files:         files[start:end],
		NextPageToken: next,
		CurrentPage:   offset/pageSize + 1,
		TotalItems:    len(files),
		TotalPages:    totalPages(len(files), pageSize),
		PageSize:      pageSize,
	}
}

// totalPages is ceil(total / pageSize); zero iff total is zero.
func totalPages(total, pageSize int) int {
	if total <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}
