// Package crawl probes organization websites for facts. A probe fetches a
// fixed, ordered list of candidate paths on one domain; a run probes every
// organization of an input list.
package crawl

import (
	"context"
	"time"

	"github.com/fwojciec/harvest"
)

// Prober searches the candidate pages of one domain for a set of targets.
// Fetcher, Normalizer and Extractor are required; Limiter, Cache and
// Observer are optional.
type Prober struct {
	Fetcher    harvest.Fetcher
	Normalizer harvest.Normalizer
	Extractor  *harvest.Extractor
	Limiter    harvest.DomainLimiter
	Cache      *PageCache
	Observer   harvest.Observer

	// Timeout bounds each page fetch. Defaults to harvest.DefaultTimeout.
	Timeout time.Duration
}

// Probe fetches domain+path for each path in order and returns the value
// of every target found, keyed by Target.ID. The first page that yields a
// target wins; later pages never overwrite it. Unusable pages (transport
// errors or any status other than 200) are skipped. Probing stops as soon
// as every target has a value, or when ctx is canceled, returning what was
// found so far.
func (p *Prober) Probe(ctx context.Context, domain harvest.Domain, paths []string, targets []harvest.Target) map[string]string {
	return p.probe(ctx, "", domain, paths, targets)
}

func (p *Prober) probe(ctx context.Context, org string, domain harvest.Domain, paths []string, targets []harvest.Target) map[string]string {
	found := make(map[string]string)
	want := make(map[string]bool)
	for _, t := range targets {
		want[t.ID()] = true
	}

	for _, path := range paths {
		if len(found) == len(want) || ctx.Err() != nil {
			break
		}

		page := p.page(ctx, org, domain, domain.URL(path))
		if page == nil {
			continue
		}

		for _, t := range targets {
			if _, ok := found[t.ID()]; ok {
				continue
			}
			value, ok := p.Extractor.Extract(t, page)
			if !ok {
				continue
			}
			found[t.ID()] = value
			if p.Observer != nil {
				p.Observer.FactFound(harvest.FindEvent{
					Organization: org,
					URL:          page.URL,
					Target:       t,
					Value:        value,
				})
			}
		}
	}

	return found
}

// page fetches and normalizes url. It returns nil for unusable pages.
func (p *Prober) page(ctx context.Context, org string, domain harvest.Domain, url string) *harvest.Page {
	start := time.Now()
	res, cached, err := p.fetch(ctx, domain, url)

	if p.Observer != nil {
		ev := harvest.FetchEvent{
			Organization: org,
			URL:          url,
			Duration:     time.Since(start),
			Cached:       cached,
			Err:          err,
		}
		if res != nil {
			ev.Status = res.Status
		}
		p.Observer.FetchAttempted(ev)
	}

	if err != nil || !res.OK() {
		return nil
	}

	page, err := p.Normalizer.Normalize(url, res.Body)
	if err != nil {
		return nil
	}
	return page
}

func (p *Prober) fetch(ctx context.Context, domain harvest.Domain, url string) (*harvest.FetchResult, bool, error) {
	fetch := func(ctx context.Context) (*harvest.FetchResult, error) {
		if p.Limiter != nil {
			if err := p.Limiter.Wait(ctx, domain.Host()); err != nil {
				return nil, harvest.Errorf(harvest.ETRANSPORT, "wait for %s: %v", domain.Host(), err)
			}
		}

		fctx, cancel := context.WithTimeout(ctx, p.timeout())
		defer cancel()
		return p.Fetcher.Fetch(fctx, url)
	}

	if p.Cache != nil {
		return p.Cache.Do(ctx, url, fetch)
	}
	res, err := fetch(ctx)
	return res, false, err
}

func (p *Prober) timeout() time.Duration {
	if p.Timeout > 0 {
		return p.Timeout
	}
	return harvest.DefaultTimeout
}
