package listing

import (
	"context"

	"github.com/climbe/ri-backend/pkg/drive"
)

// UpstreamPageSize is the page size used when draining a folder. The maximum
// the upstream API allows, to minimize round-trips.
const UpstreamPageSize = drive.MaxPageSize

// Aggregator drives the upstream listing capability across continuation
// tokens to materialize or count the full contents of a folder.
//
// The token loop is strictly sequential: each call depends on the previous
// page's token. An empty folder yields an empty result, not an error.
type Aggregator struct {
	lister   drive.Lister
	pageSize int
}

// NewAggregator creates an aggregator over the given lister.
func NewAggregator(lister drive.Lister) *Aggregator {
	return &Aggregator{lister: lister, pageSize: UpstreamPageSize}
}

// CountAll walks the folder requesting only identifiers and returns the total
// number of files.
func (a *Aggregator) CountAll(ctx context.Context, folderID string) (int, error) {
	total := 0
	token := ""
	for {
		res, err := a.lister.ListPage(ctx, drive.ListOptions{
			FolderID:   folderID,
			Projection: drive.ProjectionIDs,
			PageSize:   a.pageSize,
			PageToken:  token,
		})
		if err != nil {
			return 0, err
		}
		total += len(res.Files)
		if res.NextPageToken == "" {
			return total, nil
		}
		token = res.NextPageToken
	}
}

// ListAllOptions configures a ListAll operation.
type ListAllOptions struct {
	// OrderBy is the upstream ordering hint applied while fetching.
	OrderBy string

	// Sort is applied to the fully materialized sequence. The zero value is
	// SortQuarterDesc, matching the predominant category behavior.
	Sort SortStrategy
}

// ListAll materializes the complete contents of a folder in receipt order,
// then applies the configured sort.
func (a *Aggregator) ListAll(ctx context.Context, folderID string, opts ListAllOptions) ([]drive.File, error) {
	all := []drive.File{}
	token := ""
	for {
		res, err := a.lister.ListPage(ctx, drive.ListOptions{
			FolderID:  folderID,
			OrderBy:   opts.OrderBy,
			PageSize:  a.pageSize,
			PageToken: token,
		})
		if err != nil {
			return nil, err
		}
		all = append(all, res.Files...)
		if res.NextPageToken == "" {
			break
		}
		token = res.NextPageToken
	}

	opts.Sort.Apply(all)
	return all, nil
}
