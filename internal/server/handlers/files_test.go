package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/climbe/ri-backend/pkg/catalog"
	"github.com/climbe/ri-backend/pkg/drive"
	"github.com/climbe/ri-backend/pkg/listing"
)

// pagedLister serves a fixed file set behind numeric continuation tokens.
type pagedLister struct {
	files []drive.File
	err   error
}

func (p *pagedLister) ListPage(_ context.Context, opts drive.ListOptions) (*drive.ListResult, error) {
	if p.err != nil {
		return nil, p.err
	}

	size := opts.PageSize
	if size <= 0 || size > len(p.files) {
		size = len(p.files)
	}

	start := 0
	if opts.PageToken != "" {
		start, _ = strconv.Atoi(opts.PageToken)
	}
	if start > len(p.files) {
		start = len(p.files)
	}
	end := start + size
	if end > len(p.files) {
		end = len(p.files)
	}

	res := &drive.ListResult{Files: append([]drive.File(nil), p.files[start:end]...)}
	if end < len(p.files) {
		res.NextPageToken = strconv.Itoa(end)
	}
	return res, nil
}

func newFiles(lister drive.Lister) *Files {
	agg := listing.NewAggregator(lister)
	return NewFiles(agg, listing.NewBuilder(agg), zap.NewNop())
}

func quarterCategory(name string, mode listing.PaginationMode) catalog.Category {
	return catalog.Category{
		Name:         name,
		FolderID:     "folder-" + name,
		Sort:         listing.SortQuarterDesc,
		OrderBy:      "createdTime desc",
		Paginate:     mode,
		ErrorMessage: "Erro ao buscar arquivos",
	}
}

func quarterFiles(n int) []drive.File {
	var files []drive.File
	for i := 0; i < n; i++ {
		files = append(files, drive.File{
			ID:   fmt.Sprintf("f%02d", i),
			Name: fmt.Sprintf("Resultado %dT%02d.pdf", i%4+1, 20+i%5),
		})
	}
	return files
}

func TestGetAll(t *testing.T) {
	t.Run("returns every file with totals", func(t *testing.T) {
		h := newFiles(&pagedLister{files: quarterFiles(3)})
		handler := h.GetAll(quarterCategory("resultados", listing.PaginateMemory))

		rec := httptest.NewRecorder()
		handler(rec, httptest.NewRequest(http.MethodGet, "/api/ri/resultados/getAll", nil))

		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Arquivos   []drive.File `json:"arquivos"`
			TotalItems int          `json:"totalItems"`
			TotalPages int          `json:"totalPages"`
			PageSize   int          `json:"pageSize"`
		}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))

		assert.Len(t, resp.Arquivos, 3)
		assert.Equal(t, 3, resp.TotalItems)
		assert.Equal(t, 1, resp.TotalPages)
		assert.Equal(t, 3, resp.PageSize)
	})

	t.Run("empty folder yields zero totals and empty array", func(t *testing.T) {
		h := newFiles(&pagedLister{})
		handler := h.GetAll(quarterCategory("resultados", listing.PaginateMemory))

		rec := httptest.NewRecorder()
		handler(rec, httptest.NewRequest(http.MethodGet, "/api/ri/resultados/getAll", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"arquivos":[],"totalItems":0,"totalPages":0,"pageSize":0}`, rec.Body.String())
	})

	t.Run("upstream failure maps to category message", func(t *testing.T) {
		h := newFiles(&pagedLister{err: drive.ErrUnavailable})
		handler := h.GetAll(catalog.Category{
			Name:         "nacional",
			FolderID:     "folder-nacional",
			ErrorMessage: "Erro ao buscar arquivos nacionais",
		})

		rec := httptest.NewRecorder()
		handler(rec, httptest.NewRequest(http.MethodGet, "/api/arquivos/nacional/getAll", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"error":"Erro ao buscar arquivos nacionais"}`, rec.Body.String())
	})
}

func TestPaginated(t *testing.T) {
	t.Run("memory mode walks offset cursors", func(t *testing.T) {
		h := newFiles(&pagedLister{files: quarterFiles(20)})
		handler := h.Paginated(quarterCategory("resultados", listing.PaginateMemory))

		rec := httptest.NewRecorder()
		handler(rec, httptest.NewRequest(http.MethodGet, "/api/ri/resultados", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var first struct {
			Arquivos      []drive.File `json:"arquivos"`
			NextPageToken *string      `json:"nextPageToken"`
			TotalItems    int          `json:"totalItems"`
			TotalPages    int          `json:"totalPages"`
			PageSize      int          `json:"pageSize"`
			CurrentPage   int          `json:"currentPage"`
		}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&first))

		assert.Len(t, first.Arquivos, 15)
		assert.Equal(t, 20, first.TotalItems)
		assert.Equal(t, 2, first.TotalPages)
		assert.Equal(t, 15, first.PageSize)
		assert.Equal(t, 1, first.CurrentPage)
		require.NotNil(t, first.NextPageToken)

		rec = httptest.NewRecorder()
		handler(rec, httptest.NewRequest(http.MethodGet,
			"/api/ri/resultados?pageToken="+*first.NextPageToken, nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var second struct {
			Arquivos      []drive.File `json:"arquivos"`
			NextPageToken *string      `json:"nextPageToken"`
			CurrentPage   int          `json:"currentPage"`
		}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&second))

		assert.Len(t, second.Arquivos, 5)
		assert.Equal(t, 2, second.CurrentPage)
		assert.Nil(t, second.NextPageToken)
	})

	t.Run("last page serializes nextPageToken as explicit null", func(t *testing.T) {
		h := newFiles(&pagedLister{files: quarterFiles(2)})
		handler := h.Paginated(quarterCategory("resultados", listing.PaginateMemory))

		rec := httptest.NewRecorder()
		handler(rec, httptest.NewRequest(http.MethodGet, "/api/ri/resultados", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"nextPageToken":null`)
	})

	t.Run("native mode passes the upstream token through", func(t *testing.T) {
		h := newFiles(&pagedLister{files: quarterFiles(20)})
		handler := h.Paginated(quarterCategory("nps", listing.PaginateNative))

		rec := httptest.NewRecorder()
		handler(rec, httptest.NewRequest(http.MethodGet, "/api/ri/nps", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Arquivos      []drive.File `json:"arquivos"`
			NextPageToken *string      `json:"nextPageToken"`
			TotalItems    int          `json:"totalItems"`
			CurrentPage   int          `json:"currentPage"`
		}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))

		assert.Len(t, resp.Arquivos, 15)
		assert.Equal(t, 20, resp.TotalItems)
		// Opaque upstream tokens carry no position.
		assert.Equal(t, 0, resp.CurrentPage)
		require.NotNil(t, resp.NextPageToken)
		assert.Equal(t, "15", *resp.NextPageToken)
	})

	t.Run("upstream failure maps to category message", func(t *testing.T) {
		h := newFiles(&pagedLister{err: drive.ErrThrottled})
		handler := h.Paginated(quarterCategory("resultados", listing.PaginateMemory))

		rec := httptest.NewRecorder()
		handler(rec, httptest.NewRequest(http.MethodGet, "/api/ri/resultados", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"error":"Erro ao buscar arquivos"}`, rec.Body.String())
	})
}
