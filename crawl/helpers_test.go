package crawl_test

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/fwojciec/harvest"
	"github.com/fwojciec/harvest/crawl"
	"github.com/fwojciec/harvest/mock"
)

// site serves pages from memory. URLs in pages return 200 with the given
// body, URLs in down fail with a transport error and anything else is 404.
type site struct {
	pages map[string]string
	down  map[string]bool
	delay time.Duration

	mu      sync.Mutex
	fetched []string
}

func (s *site) fetcher() *mock.Fetcher {
	return &mock.Fetcher{
		FetchFn: func(ctx context.Context, url string) (*harvest.FetchResult, error) {
			s.mu.Lock()
			s.fetched = append(s.fetched, url)
			s.mu.Unlock()

			if s.delay > 0 {
				select {
				case <-time.After(s.delay):
				case <-ctx.Done():
					return nil, harvest.Errorf(harvest.ETRANSPORT, "fetch %s: %v", url, ctx.Err())
				}
			}
			if s.down[url] {
				return nil, harvest.Errorf(harvest.ETRANSPORT, "fetch %s: connection refused", url)
			}
			if body, ok := s.pages[url]; ok {
				return &harvest.FetchResult{URL: url, Status: http.StatusOK, Body: body}, nil
			}
			return &harvest.FetchResult{URL: url, Status: http.StatusNotFound, Body: "not found"}, nil
		},
		CloseFn: func() error { return nil },
	}
}

func (s *site) calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.fetched...)
}

// textNormalizer treats the raw body as the page text.
func textNormalizer() *mock.Normalizer {
	return &mock.Normalizer{
		NormalizeFn: func(url, html string) (*harvest.Page, error) {
			return &harvest.Page{URL: url, Text: html}, nil
		},
	}
}

func newProber(s *site) *crawl.Prober {
	return &crawl.Prober{
		Fetcher:    s.fetcher(),
		Normalizer: textNormalizer(),
		Extractor:  harvest.NewExtractor(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)),
		Timeout:    time.Second,
	}
}
