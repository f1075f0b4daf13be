package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/climbe/ri-backend/internal/mail"
	"github.com/climbe/ri-backend/internal/server/handlers"
	"github.com/climbe/ri-backend/pkg/catalog"
	"github.com/climbe/ri-backend/pkg/drive"
	"github.com/climbe/ri-backend/pkg/listing"
)

// fakeLister serves every folder from the same fixed file set, paging with
// numeric continuation tokens.
type fakeLister struct {
	files []drive.File
}

func (f *fakeLister) ListPage(_ context.Context, opts drive.ListOptions) (*drive.ListResult, error) {
	size := opts.PageSize
	if size <= 0 || size > len(f.files) {
		size = len(f.files)
	}

	start := 0
	if opts.PageToken != "" {
		start, _ = strconv.Atoi(opts.PageToken)
	}
	if start > len(f.files) {
		start = len(f.files)
	}
	end := start + size
	if end > len(f.files) {
		end = len(f.files)
	}

	res := &drive.ListResult{Files: append([]drive.File(nil), f.files[start:end]...)}
	if end < len(f.files) {
		res.NextPageToken = strconv.Itoa(end)
	}
	return res, nil
}

type fakeSender struct {
	contacts    int
	newsletters int
}

func (f *fakeSender) SendContact(context.Context, mail.ContactSubmission) error {
	f.contacts++
	return nil
}

func (f *fakeSender) SendNewsletter(context.Context, string) error {
	f.newsletters++
	return nil
}

func newTestServer(t *testing.T, files []drive.File, sender mail.Sender) *Server {
	t.Helper()

	folders := make(map[string]string)
	for _, name := range catalog.CategoryNames() {
		folders[name] = "folder-" + name
	}
	cats, err := catalog.DefaultCategories(folders)
	require.NoError(t, err)
	reg, err := catalog.NewRegistry(cats)
	require.NoError(t, err)

	agg := listing.NewAggregator(&fakeLister{files: files})

	return New("127.0.0.1", 0, Deps{
		Registry:       reg,
		Aggregator:     agg,
		Pages:          listing.NewBuilder(agg),
		Sender:         sender,
		Health:         handlers.NewHealthManager("test"),
		AllowedOrigins: []string{"https://climbe.com.br"},
		Version:        "test",
	})
}

func get(srv *Server, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
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

func TestServerRoutes(t *testing.T) {
	srv := newTestServer(t, quarterFiles(3), &fakeSender{})

	t.Run("every category mounts both listing routes", func(t *testing.T) {
		groups := map[string][]string{
			"/api/ri":       {"acordoSocios", "contratoSocial", "educacaoContinua", "nps", "resultados", "balancoPatrimonial", "planejamentoEstrategico", "nossoValuation", "compliance", "atasReunioes"},
			"/api/arquivos": {"nacional", "internacional", "cripto", "artigos"},
		}
		for route, names := range groups {
			for _, name := range names {
				assert.Equal(t, http.StatusOK, get(srv, route+"/"+name).Code, name)
				assert.Equal(t, http.StatusOK, get(srv, route+"/"+name+"/getAll").Code, name)
			}
		}
	})

	t.Run("categories stay inside their group", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, get(srv, "/api/ri/nacional").Code)
		assert.Equal(t, http.StatusNotFound, get(srv, "/api/arquivos/resultados").Code)
	})

	t.Run("unknown route yields localized 404", func(t *testing.T) {
		rec := get(srv, "/api/ri/naoExiste")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"error":"Rota nao encontrada"}`, rec.Body.String())
	})

	t.Run("wrong method yields localized 405", func(t *testing.T) {
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/contato", nil))
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
		assert.JSONEq(t, `{"error":"Metodo nao permitido"}`, rec.Body.String())
	})

	t.Run("version endpoint", func(t *testing.T) {
		rec := get(srv, "/version")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"version":"test"}`, rec.Body.String())
	})

	t.Run("health endpoints", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, get(srv, "/health").Code)
		assert.Equal(t, http.StatusOK, get(srv, "/health/live").Code)
		assert.Equal(t, http.StatusOK, get(srv, "/health/ready").Code)
	})

	t.Run("metrics endpoint", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, get(srv, "/metrics").Code)
	})
}

func TestServerPaginatedListing(t *testing.T) {
	srv := newTestServer(t, quarterFiles(20), &fakeSender{})

	// Offset cursor and a known page number for the in-memory categories.
	rec := get(srv, "/api/ri/resultados")
	require.Equal(t, http.StatusOK, rec.Code)

	var page struct {
		Arquivos      []drive.File `json:"arquivos"`
		NextPageToken *string      `json:"nextPageToken"`
		TotalItems    int          `json:"totalItems"`
		TotalPages    int          `json:"totalPages"`
		CurrentPage   int          `json:"currentPage"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&page))
	assert.Len(t, page.Arquivos, 15)
	assert.Equal(t, 20, page.TotalItems)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, 1, page.CurrentPage)
	require.NotNil(t, page.NextPageToken)

	rec = get(srv, "/api/ri/resultados?pageToken="+*page.NextPageToken)
	require.Equal(t, http.StatusOK, rec.Code)
	page.NextPageToken = nil
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&page))
	assert.Len(t, page.Arquivos, 5)
	assert.Equal(t, 2, page.CurrentPage)
	assert.Nil(t, page.NextPageToken)
}

func TestServerContactRelay(t *testing.T) {
	sender := &fakeSender{}
	srv := newTestServer(t, nil, sender)

	post := func(target, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)
		return rec
	}

	rec := post("/api/contato", `{"nome":"Maria","email":"m@example.com","empresa":"Acme","mensagem":"Oi"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, sender.contacts)

	rec = post("/api/contato", `{"nome":"Maria"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 1, sender.contacts)

	rec = post("/api/newsletter", `{"email":"novo@example.com"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, sender.newsletters)
}

func TestServerCORSPreflight(t *testing.T) {
	srv := newTestServer(t, nil, &fakeSender{})

	req := httptest.NewRequest(http.MethodOptions, "/api/ri/resultados", nil)
	req.Header.Set("Origin", "https://climbe.com.br")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "https://climbe.com.br", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestServerPort(t *testing.T) {
	srv := newTestServer(t, nil, &fakeSender{})
	assert.Equal(t, 0, srv.Port())
}
