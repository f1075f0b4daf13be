package drive

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"golang.org/x/oauth2/google"
	"golang.org/x/time/rate"
	gdrive "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const (
	// DefaultPageSize is the upstream page size used when none is requested.
	DefaultPageSize = 100

	// MaxPageSize is the largest page size the Drive API accepts.
	MaxPageSize = 1000
)

const (
	fieldsFull = "nextPageToken, files(id, name, mimeType, webViewLink, webContentLink, createdTime)"
	fieldsIDs  = "nextPageToken, files(id)"
)

// Config configures the Google Drive client.
type Config struct {
	// CredentialsFile is the path to a service-account JSON key. Required
	// unless CredentialsJSON is set.
	CredentialsFile string

	// CredentialsJSON holds the service-account key inline. Takes precedence
	// over CredentialsFile.
	CredentialsJSON []byte

	// CallTimeout bounds each upstream round-trip. Zero disables the bound.
	CallTimeout time.Duration

	// RateLimit is the maximum upstream requests per second.
	// Zero means unlimited.
	RateLimit float64
}

// Validate checks the configuration for required fields.
func (c Config) Validate() error {
	if c.CredentialsFile == "" && len(c.CredentialsJSON) == 0 {
		return errors.New("drive: credentials file or inline credentials required")
	}
	return nil
}

// Client implements Lister against the Google Drive v3 API using
// service-account credentials with read-only scope.
type Client struct {
	svc         *gdrive.Service
	callTimeout time.Duration
	limiter     *rate.Limiter
}

var _ Lister = (*Client)(nil)

// NewClient creates a Drive client from a service-account key.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	data := cfg.CredentialsJSON
	if len(data) == 0 {
		var err error
		data, err = os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("drive: read credentials: %w", err)
		}
	}

	jwtCfg, err := google.JWTConfigFromJSON(data, gdrive.DriveReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("drive: parse service-account key: %w", err)
	}

	svc, err := gdrive.NewService(ctx, option.WithHTTPClient(jwtCfg.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("drive: create service: %w", err)
	}

	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), 1)
	}

	return &Client{
		svc:         svc,
		callTimeout: cfg.CallTimeout,
		limiter:     limiter,
	}, nil
}

// ListPage returns one page of non-trashed files in a folder.
func (c *Client) ListPage(ctx context.Context, opts ListOptions) (*ListResult, error) {
	if opts.FolderID == "" {
		return nil, &Error{Op: "ListPage", Err: errors.New("folder id required")}
	}

	if err := c.wait(ctx); err != nil {
		return nil, &Error{Op: "ListPage", Folder: opts.FolderID, Err: err}
	}

	ctx, cancel := c.callContext(ctx)
	defer cancel()

	fields := fieldsFull
	if opts.Projection == ProjectionIDs {
		fields = fieldsIDs
	}

	call := c.svc.Files.List().
		Context(ctx).
		Q(fmt.Sprintf("'%s' in parents and trashed = false", opts.FolderID)).
		Fields(googleapi.Field(fields)).
		PageSize(int64(clampPageSize(opts.PageSize)))

	if opts.OrderBy != "" {
		call = call.OrderBy(opts.OrderBy)
	}
	if opts.PageToken != "" {
		call = call.PageToken(opts.PageToken)
	}

	out, err := call.Do()
	if err != nil {
		return nil, c.wrapError("ListPage", opts.FolderID, err)
	}

	files := make([]File, 0, len(out.Files))
	for _, f := range out.Files {
		files = append(files, File{
			ID:           f.Id,
			Name:         f.Name,
			MimeType:     f.MimeType,
			ViewLink:     f.WebViewLink,
			DownloadLink: f.WebContentLink,
			CreatedTime:  f.CreatedTime,
		})
	}

	return &ListResult{
		Files:         files,
		NextPageToken: out.NextPageToken,
	}, nil
}

// CheckAccess verifies the credentials by fetching the service account's own
// Drive identity. Used by readiness checks and the doctor command.
func (c *Client) CheckAccess(ctx context.Context) error {
	if err := c.wait(ctx); err != nil {
		return &Error{Op: "About", Err: err}
	}

	ctx, cancel := c.callContext(ctx)
	defer cancel()

	if _, err := c.svc.About.Get().Context(ctx).Fields("user").Do(); err != nil {
		return c.wrapError("About", "", err)
	}
	return nil
}

func (c *Client) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	return c.limiter.Wait(ctx)
}

func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.callTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.callTimeout)
}

// wrapError converts Drive API errors to drive errors with sentinel causes.
func (c *Client) wrapError(op, folder string, err error) error {
	wrapped := &Error{Op: op, Folder: folder, Err: err}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusNotFound:
			wrapped.Err = ErrNotFound
		case http.StatusUnauthorized:
			wrapped.Err = ErrInvalidCredentials
		case http.StatusForbidden:
			wrapped.Err = ErrAccessDenied
			for _, item := range apiErr.Errors {
				// Quota failures also arrive as 403 with a rate reason.
				if item.Reason == "rateLimitExceeded" || item.Reason == "userRateLimitExceeded" {
					wrapped.Err = ErrThrottled
				}
			}
		case http.StatusTooManyRequests:
			wrapped.Err = ErrThrottled
		case http.StatusInternalServerError, http.StatusServiceUnavailable, http.StatusBadGateway:
			wrapped.Err = ErrUnavailable
		}
		return wrapped
	}

	if errors.Is(err, context.DeadlineExceeded) {
		wrapped.Err = ErrUnavailable
	}
	return wrapped
}

// clampPageSize applies defaults and limits to page size values.
func clampPageSize(requested int) int {
	if requested <= 0 {
		return DefaultPageSize
	}
	if requested > MaxPageSize {
		return MaxPageSize
	}
	return requested
}
