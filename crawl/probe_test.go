package crawl_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fwojciec/harvest"
	"github.com/fwojciec/harvest/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	cfo      = harvest.PersonByTitle("Chief Financial Officer")
	coo      = harvest.PersonByTitle("Chief Operating Officer")
	founding = harvest.FoundingYear()
	example  = harvest.Domain{Origin: "https://example.org"}
)

func TestProber_Probe(t *testing.T) {
	t.Parallel()

	t.Run("stops fetching once every target is found", func(t *testing.T) {
		t.Parallel()

		s := &site{pages: map[string]string{
			"https://example.org/":      "Jane Doe, Chief Financial Officer",
			"https://example.org/about": "John Smith, Chief Financial Officer",
		}}

		got := newProber(s).Probe(context.Background(), example, []string{"/", "/about", "/team"}, []harvest.Target{cfo})

		assert.Equal(t, map[string]string{cfo.ID(): "Jane Doe"}, got)
		assert.Equal(t, []string{"https://example.org/"}, s.calls())
	})

	t.Run("first page to yield a target wins", func(t *testing.T) {
		t.Parallel()

		s := &site{pages: map[string]string{
			"https://example.org/":      "Jane Doe, Chief Financial Officer",
			"https://example.org/about": "John Smith, Chief Financial Officer. Founded in 1987.",
		}}

		got := newProber(s).Probe(context.Background(), example, []string{"/", "/about", "/team"}, []harvest.Target{cfo, founding})

		assert.Equal(t, map[string]string{
			cfo.ID():      "Jane Doe",
			founding.ID(): "1987",
		}, got)
		assert.Equal(t, []string{"https://example.org/", "https://example.org/about"}, s.calls())
	})

	t.Run("skips unusable pages", func(t *testing.T) {
		t.Parallel()

		s := &site{
			pages: map[string]string{
				"https://example.org/team": "Mary Major - Chief Operating Officer",
			},
			down: map[string]bool{"https://example.org/": true},
		}

		got := newProber(s).Probe(context.Background(), example, []string{"/", "/about", "/team"}, []harvest.Target{coo})

		assert.Equal(t, map[string]string{coo.ID(): "Mary Major"}, got)
		assert.Len(t, s.calls(), 3)
	})

	t.Run("ignores body of non-200 page", func(t *testing.T) {
		t.Parallel()

		fetcher := &mock.Fetcher{
			FetchFn: func(_ context.Context, url string) (*harvest.FetchResult, error) {
				return &harvest.FetchResult{URL: url, Status: 500, Body: "Jane Doe, Chief Financial Officer"}, nil
			},
		}
		p := newProber(&site{})
		p.Fetcher = fetcher

		got := p.Probe(context.Background(), example, []string{"/"}, []harvest.Target{cfo})
		assert.Empty(t, got)
	})

	t.Run("all pages failing yields no values", func(t *testing.T) {
		t.Parallel()

		s := &site{down: map[string]bool{
			"https://example.org/":      true,
			"https://example.org/about": true,
		}}

		got := newProber(s).Probe(context.Background(), example, []string{"/", "/about"}, []harvest.Target{cfo, founding})

		assert.Empty(t, got)
		assert.Len(t, s.calls(), 2)
	})

	t.Run("no targets fetches nothing", func(t *testing.T) {
		t.Parallel()

		s := &site{}
		got := newProber(s).Probe(context.Background(), example, []string{"/", "/about"}, nil)

		assert.Empty(t, got)
		assert.Empty(t, s.calls())
	})

	t.Run("canceled context fetches nothing", func(t *testing.T) {
		t.Parallel()

		s := &site{pages: map[string]string{"https://example.org/": "Jane Doe, Chief Financial Officer"}}
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		got := newProber(s).Probe(ctx, example, []string{"/"}, []harvest.Target{cfo})

		assert.Empty(t, got)
		assert.Empty(t, s.calls())
	})

	t.Run("skips page that fails to normalize", func(t *testing.T) {
		t.Parallel()

		s := &site{pages: map[string]string{
			"https://example.org/":      "Jane Doe, Chief Financial Officer",
			"https://example.org/about": "John Smith, Chief Financial Officer",
		}}
		p := newProber(s)
		p.Normalizer = &mock.Normalizer{
			NormalizeFn: func(url, html string) (*harvest.Page, error) {
				if strings.HasSuffix(url, "/") {
					return nil, errors.New("boom")
				}
				return &harvest.Page{URL: url, Text: html}, nil
			},
		}

		got := p.Probe(context.Background(), example, []string{"/", "/about"}, []harvest.Target{cfo})
		assert.Equal(t, map[string]string{cfo.ID(): "John Smith"}, got)
	})

	t.Run("bounds each fetch with the timeout", func(t *testing.T) {
		t.Parallel()

		var deadlines []time.Time
		p := newProber(&site{})
		p.Timeout = 200 * time.Millisecond
		p.Fetcher = &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (*harvest.FetchResult, error) {
				d, ok := ctx.Deadline()
				require.True(t, ok)
				deadlines = append(deadlines, d)
				return &harvest.FetchResult{URL: url, Status: 404}, nil
			},
		}

		start := time.Now()
		p.Probe(context.Background(), example, []string{"/", "/about"}, []harvest.Target{cfo})

		require.Len(t, deadlines, 2)
		for _, d := range deadlines {
			assert.WithinDuration(t, start.Add(200*time.Millisecond), d, 150*time.Millisecond)
		}
	})

	t.Run("slow page times out and probe moves on", func(t *testing.T) {
		t.Parallel()

		s := &site{
			pages: map[string]string{"https://example.org/about": "Founded in 1990"},
			delay: 50 * time.Millisecond,
		}
		p := newProber(s)
		p.Timeout = 10 * time.Millisecond

		got := p.Probe(context.Background(), example, []string{"/", "/about"}, []harvest.Target{founding})

		assert.Empty(t, got)
		assert.Len(t, s.calls(), 2)
	})

	t.Run("waits on limiter with domain host", func(t *testing.T) {
		t.Parallel()

		var hosts []string
		p := newProber(&site{})
		p.Limiter = &mock.DomainLimiter{
			WaitFn: func(_ context.Context, host string) error {
				hosts = append(hosts, host)
				return nil
			},
		}

		p.Probe(context.Background(), example, []string{"/", "/about"}, []harvest.Target{cfo})
		assert.Equal(t, []string{"example.org", "example.org"}, hosts)
	})

	t.Run("limiter failure skips the page", func(t *testing.T) {
		t.Parallel()

		s := &site{pages: map[string]string{"https://example.org/": "Jane Doe, Chief Financial Officer"}}
		p := newProber(s)
		p.Limiter = &mock.DomainLimiter{
			WaitFn: func(_ context.Context, _ string) error {
				return context.DeadlineExceeded
			},
		}

		got := p.Probe(context.Background(), example, []string{"/"}, []harvest.Target{cfo})
		assert.Empty(t, got)
		assert.Empty(t, s.calls())
	})

	t.Run("notifies observer of fetches and findings", func(t *testing.T) {
		t.Parallel()

		s := &site{pages: map[string]string{
			"https://example.org/about": "Jane Doe, Chief Financial Officer",
		}}

		var mu sync.Mutex
		var fetches []harvest.FetchEvent
		var finds []harvest.FindEvent
		p := newProber(s)
		p.Observer = &mock.Observer{
			FetchAttemptedFn: func(ev harvest.FetchEvent) {
				mu.Lock()
				defer mu.Unlock()
				fetches = append(fetches, ev)
			},
			FactFoundFn: func(ev harvest.FindEvent) {
				mu.Lock()
				defer mu.Unlock()
				finds = append(finds, ev)
			},
		}

		p.Probe(context.Background(), example, []string{"/", "/about"}, []harvest.Target{cfo})

		require.Len(t, fetches, 2)
		assert.Equal(t, "https://example.org/", fetches[0].URL)
		assert.Equal(t, 404, fetches[0].Status)
		assert.Equal(t, 200, fetches[1].Status)
		assert.False(t, fetches[1].Cached)

		require.Len(t, finds, 1)
		assert.Equal(t, "https://example.org/about", finds[0].URL)
		assert.Equal(t, cfo, finds[0].Target)
		assert.Equal(t, "Jane Doe", finds[0].Value)
	})
}
