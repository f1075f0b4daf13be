package metrics

import (
	"context"
	"time"

	"github.com/climbe/ri-backend/pkg/drive"
)

// instrumentedLister decorates a Lister with call metrics.
type instrumentedLister struct {
	next drive.Lister
}

// InstrumentLister wraps a lister so every upstream page fetch is counted
// and timed.
func InstrumentLister(next drive.Lister) drive.Lister {
	return &instrumentedLister{next: next}
}

func (l *instrumentedLister) ListPage(ctx context.Context, opts drive.ListOptions) (*drive.ListResult, error) {
	op := "list"
	if opts.Projection == drive.ProjectionIDs {
		op = "count"
	}

	start := time.Now()
	res, err := l.next.ListPage(ctx, opts)
	ObserveUpstreamCall(op, err, time.Since(start))
	return res, err
}
