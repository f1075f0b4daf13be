// Package catalog holds the fixed mapping from logical document categories to
// upstream folder identifiers, with each category's ordering and pagination
// configuration.
package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/climbe/ri-backend/pkg/listing"
)

// Route groups under which categories are mounted.
const (
	// GroupRI covers the investor-relations categories under /api/ri.
	GroupRI = "ri"

	// GroupArquivos covers the report/article categories under /api/arquivos.
	GroupArquivos = "arquivos"
)

// ErrUnknownCategory indicates a category name with no registered folder.
var ErrUnknownCategory = errors.New("unknown category")

// Category binds one logical category to its upstream folder and view
// configuration. Fixed at startup, read-only afterwards.
type Category struct {
	// Name is the route segment, e.g. "resultados".
	Name string

	// Group is the route group the category is mounted under.
	Group string

	// FolderID is the opaque upstream folder identifier.
	FolderID string

	// Sort is the order imposed on listings of this category.
	Sort listing.SortStrategy

	// OrderBy is the upstream ordering hint requested while fetching.
	OrderBy string

	// Paginate selects native or in-memory pagination. Categories whose sort
	// must hold across the whole collection use memory pagination.
	Paginate listing.PaginationMode

	// ErrorMessage is the client-facing message on upstream failure.
	ErrorMessage string
}

// Registry is the immutable category table consulted by request handlers.
type Registry struct {
	byName map[string]Category
}

// NewRegistry builds a registry, rejecting duplicate names and categories
// with no folder identifier. Configuration problems surface here, at startup,
// not at request time.
func NewRegistry(categories []Category) (*Registry, error) {
	byName := make(map[string]Category, len(categories))
	for _, c := range categories {
		if c.Name == "" {
			return nil, errors.New("catalog: category with empty name")
		}
		if c.FolderID == "" {
			return nil, fmt.Errorf("catalog: category %q has no folder id", c.Name)
		}
		if _, dup := byName[c.Name]; dup {
			return nil, fmt.Errorf("catalog: duplicate category %q", c.Name)
		}
		byName[c.Name] = c
	}
	return &Registry{byName: byName}, nil
}

// Lookup returns the category registered under name.
func (r *Registry) Lookup(name string) (Category, error) {
	c, ok := r.byName[name]
	if !ok {
		return Category{}, fmt.Errorf("%w: %s", ErrUnknownCategory, name)
	}
	return c, nil
}

// Categories returns all categories in stable name order.
func (r *Registry) Categories() []Category {
	out := make([]Category, 0, len(r.byName))
	for _, c := range r.byName {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Group returns the categories mounted under the given route group, in
// stable name order.
func (r *Registry) Group(group string) []Category {
	var out []Category
	for _, c := range r.Categories() {
		if c.Group == group {
			out = append(out, c)
		}
	}
	return out
}

const (
	errFiles         = "Erro ao buscar arquivos"
	errNacional      = "Erro ao buscar arquivos nacionais"
	errInternacional = "Erro ao buscar arquivos internacionais"
	errCripto        = "Erro ao buscar arquivos cripto"
)

// categorySpec is one row of the fixed category table; the folder identifier
// comes from configuration.
type categorySpec struct {
	name     string
	group    string
	sort     listing.SortStrategy
	orderBy  string
	paginate listing.PaginationMode
	errMsg   string
}

// Categories content with upstream creation-time order paginate natively with
// a per-page quarter sort; categories whose sort must be globally correct
// (fiscal-quarter series, dated meeting minutes) paginate in memory. Articles
// lean on the upstream name ordering and refine each page with pt-BR
// collation.
var defaultSpecs = []categorySpec{
	{name: "acordoSocios", group: GroupRI, sort: listing.SortQuarterDesc, orderBy: "createdTime desc", paginate: listing.PaginateNative, errMsg: errFiles},
	{name: "contratoSocial", group: GroupRI, sort: listing.SortQuarterDesc, orderBy: "createdTime desc", paginate: listing.PaginateNative, errMsg: errFiles},
	{name: "educacaoContinua", group: GroupRI, sort: listing.SortQuarterDesc, orderBy: "createdTime desc", paginate: listing.PaginateNative, errMsg: errFiles},
	{name: "nps", group: GroupRI, sort: listing.SortQuarterDesc, orderBy: "createdTime desc", paginate: listing.PaginateNative, errMsg: errFiles},
	{name: "resultados", group: GroupRI, sort: listing.SortQuarterDesc, orderBy: "createdTime desc", paginate: listing.PaginateMemory, errMsg: errFiles},
	{name: "balancoPatrimonial", group: GroupRI, sort: listing.SortQuarterDesc, orderBy: "createdTime desc", paginate: listing.PaginateMemory, errMsg: errFiles},
	{name: "planejamentoEstrategico", group: GroupRI, sort: listing.SortQuarterDesc, orderBy: "createdTime desc", paginate: listing.PaginateNative, errMsg: errFiles},
	{name: "nossoValuation", group: GroupRI, sort: listing.SortQuarterDesc, orderBy: "createdTime desc", paginate: listing.PaginateNative, errMsg: errFiles},
	{name: "compliance", group: GroupRI, sort: listing.SortQuarterDesc, orderBy: "createdTime desc", paginate: listing.PaginateNative, errMsg: errFiles},
	{name: "atasReunioes", group: GroupRI, sort: listing.SortTitleDateDesc, orderBy: "createdTime desc", paginate: listing.PaginateMemory, errMsg: errFiles},
	{name: "nacional", group: GroupArquivos, sort: listing.SortQuarterDesc, orderBy: "createdTime desc", paginate: listing.PaginateNative, errMsg: errNacional},
	{name: "internacional", group: GroupArquivos, sort: listing.SortQuarterDesc, orderBy: "createdTime desc", paginate: listing.PaginateNative, errMsg: errInternacional},
	{name: "cripto", group: GroupArquivos, sort: listing.SortQuarterDesc, orderBy: "createdTime desc", paginate: listing.PaginateNative, errMsg: errCripto},
	{name: "artigos", group: GroupArquivos, sort: listing.SortAlphaAsc, orderBy: "name", paginate: listing.PaginateNative, errMsg: errFiles},
}

// CategoryNames lists every category the service expects a folder for.
func CategoryNames() []string {
	names := make([]string, 0, len(defaultSpecs))
	for _, s := range defaultSpecs {
		names = append(names, s.name)
	}
	return names
}

// DefaultCategories builds the fixed category table from configured folder
// identifiers. A missing identifier for any category is a configuration
// error.
func DefaultCategories(folders map[string]string) ([]Category, error) {
	// Config sources may fold key case; match category names regardless.
	normalized := make(map[string]string, len(folders))
	for k, v := range folders {
		normalized[strings.ToLower(k)] = v
	}

	var missing []string
	out := make([]Category, 0, len(defaultSpecs))
	for _, s := range defaultSpecs {
		id := normalized[strings.ToLower(s.name)]
		if id == "" {
			missing = append(missing, s.name)
			continue
		}
		out = append(out, Category{
			Name:         s.name,
			Group:        s.group,
			FolderID:     id,
			Sort:         s.sort,
			OrderBy:      s.orderBy,
			Paginate:     s.paginate,
			ErrorMessage: s.errMsg,
		})
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("catalog: missing folder ids for categories: %v", missing)
	}
	return out, nil
}
