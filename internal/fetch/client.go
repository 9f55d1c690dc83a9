package fetch

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/charmbracelet/log"

	"pvm/internal/catalog"
	"pvm/internal/logx"
)

// DefaultEndpoint is the documentation source scraped for release data.
const DefaultEndpoint = "https://php.watch"

// DefaultUserAgent identifies pvm to the documentation source.
const DefaultUserAgent = "pvm"

// Error reports a failed fetch. No partial catalog accompanies it.
type Error struct {
	URL string
	Err error
}

func (e *Error) Error() string {
	if e.URL == "" {
		return fmt.Sprintf("fetch catalog: %v", e.Err)
	}
	return fmt.Sprintf("fetch catalog (%s): %v", e.URL, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Fetcher scrapes the release catalog.
type Fetcher struct {
	endpoint  string
	client    *http.Client
	table     catalog.StatusTable
	logger    *log.Logger
	userAgent string
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(f *Fetcher) {
		if client != nil {
			f.client = client
		}
	}
}

// WithStatusTable sets the label table used to decode release statuses.
func WithStatusTable(table catalog.StatusTable) Option {
	return func(f *Fetcher) {
		f.table = table
	}
}

// WithLogger sets the logger for request tracing.
func WithLogger(logger *log.Logger) Option {
	return func(f *Fetcher) {
		f.logger = logx.OrDiscard(logger)
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// New returns a fetcher for endpoint. An empty endpoint selects DefaultEndpoint.
// The default HTTP client has no timeout.
func New(endpoint string, opts ...Option) *Fetcher {
	endpoint = strings.TrimSuffix(strings.TrimSpace(endpoint), "/")
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	f := &Fetcher{
		endpoint:  endpoint,
		client:    &http.Client{},
		table:     catalog.DefaultStatusTable(),
		logger:    logx.Discard(),
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Endpoint returns the documentation base URL.
func (f *Fetcher) Endpoint() string {
	return f.endpoint
}

func (f *Fetcher) indexURL() string {
	return f.endpoint + "/versions"
}

func (f *Fetcher) releasesURL(major string) string {
	return fmt.Sprintf("%s/versions/%s/releases", f.endpoint, major)
}

// document performs a GET and parses the HTML body.
func (f *Fetcher) document(ctx context.Context, url string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, &Error{URL: url, Err: err}
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html")

	f.logger.Debug("GET", "url", url)
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &Error{URL: url, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{URL: url, Err: fmt.Errorf("HTTP %d", resp.StatusCode)}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, &Error{URL: url, Err: fmt.Errorf("parse html: %w", err)}
	}
	return doc, nil
}
