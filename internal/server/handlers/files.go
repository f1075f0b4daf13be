package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/climbe/ri-backend/pkg/catalog"
	"github.com/climbe/ri-backend/pkg/drive"
	"github.com/climbe/ri-backend/pkg/listing"
)

// Files serves the per-category listing endpoints. One factory per endpoint
// shape; the category configuration carries everything that varies.
type Files struct {
	agg   *listing.Aggregator
	pages *listing.Builder
	log   *zap.Logger
}

// NewFiles creates the listing handlers.
func NewFiles(agg *listing.Aggregator, pages *listing.Builder, log *zap.Logger) *Files {
	return &Files{agg: agg, pages: pages, log: log}
}

// listAllResponse is the unpaginated listing envelope.
type listAllResponse struct {
	Arquivos   []drive.File `json:"arquivos"`
	TotalItems int          `json:"totalItems"`
	TotalPages int          `json:"totalPages"`
	PageSize   int          `json:"pageSize"`
}

// pageResponse is the paginated listing envelope. NextPageToken is an
// explicit null on the last page. CurrentPage is only known for offset
// pagination.
type pageResponse struct {
	Arquivos      []drive.File `json:"arquivos"`
	NextPageToken *string      `json:"nextPageToken"`
	TotalItems    int          `json:"totalItems"`
	TotalPages    int          `json:"totalPages"`
	PageSize      int          `json:"pageSize"`
	CurrentPage   int          `json:"currentPage,omitempty"`
}

// GetAll returns the handler for a category's full listing.
func (f *Files) GetAll(cat catalog.Category) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		files, err := f.agg.ListAll(r.Context(), cat.FolderID, listing.ListAllOptions{
			OrderBy: cat.OrderBy,
			Sort:    cat.Sort,
		})
		if err != nil {
			f.log.Error("list all failed",
				zap.String("category", cat.Name),
				zap.Error(err))
			writeError(w, http.StatusInternalServerError, cat.ErrorMessage)
			return
		}

		resp := listAllResponse{Arquivos: ensureFiles(files)}
		if n := len(files); n > 0 {
			resp.TotalItems = n
			resp.TotalPages = 1
			resp.PageSize = n
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// Paginated returns the handler for a category's paginated listing. The
// client cursor arrives as the pageToken query parameter; a missing or
// invalid cursor means "first page".
func (f *Files) Paginated(cat catalog.Category) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := f.pages.Page(r.Context(), listing.PageRequest{
			FolderID:  cat.FolderID,
			PageToken: r.URL.Query().Get("pageToken"),
			OrderBy:   cat.OrderBy,
			Sort:      cat.Sort,
			Mode:      cat.Paginate,
		})
		if err != nil {
			f.log.Error("paginated listing failed",
				zap.String("category", cat.Name),
				zap.String("mode", cat.Paginate.String()),
				zap.Error(err))
			writeError(w, http.StatusInternalServerError, cat.ErrorMessage)
			return
		}

		resp := pageResponse{
			Arquivos:    ensureFiles(page.Files),
			TotalItems:  page.TotalItems,
			TotalPages:  page.TotalPages,
			PageSize:    page.PageSize,
			CurrentPage: page.CurrentPage,
		}
		if page.NextPageToken != "" {
			token := page.NextPageToken
			resp.NextPageToken = &token
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// ensureFiles keeps empty listings serializing as [] rather than null.
func ensureFiles(files []drive.File) []drive.File {
	if files == nil {
		return []drive.File{}
	}
	return files
}
