package harvest

import (
	"context"
	"net/http"
)

// FetchResult is the outcome of one page request that reached the server.
type FetchResult struct {
	URL    string
	Status int
	Body   string
}

// OK reports whether the page is usable for extraction.
// Every status other than 200 makes a page unusable.
func (r *FetchResult) OK() bool {
	return r != nil && r.Status == http.StatusOK
}

// Fetcher retrieves raw page content over HTTP.
type Fetcher interface {
	// Fetch issues a GET request for url. Transport failures (timeout,
	// DNS, refused connection, TLS) are returned as errors with code
	// ETRANSPORT. A response with any status is returned as a result.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (*FetchResult, error)

	// Close releases transport resources.
	Close() error
}

// DomainLimiter provides per-host politeness delays.
type DomainLimiter interface {
	// Wait blocks until a request to host is allowed.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, host string) error
}
