package crawl

import (
	"context"

	"github.com/fwojciec/harvest"
	"golang.org/x/sync/errgroup"
)

// Runner probes every organization of an input list and assembles one
// record per organization, in input order.
type Runner struct {
	Config   harvest.Config
	Resolver harvest.DomainResolver
	Prober   *Prober
}

// runResult holds the outcome of probing a single organization.
type runResult struct {
	position int
	record   *harvest.Record
}

// Run validates the configuration and organizations, then probes each
// organization. No organization's failure aborts the run: its record
// simply has no values. progress, if provided, is called once per
// finished organization with the running count.
//
// If ctx is canceled, Run still returns one record per organization,
// with organizations that were not probed left empty, together with the
// context error.
func (r *Runner) Run(ctx context.Context, orgs []*harvest.Organization, progress harvest.ProgressFunc) ([]*harvest.Record, error) {
	cfg := r.Config.WithDefaults()
	if err := r.validate(&cfg, orgs); err != nil {
		return nil, err
	}

	prober := *r.Prober
	prober.Timeout = cfg.Timeout

	resultCh := make(chan runResult, len(orgs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Concurrency)

	go func() {
		for i, org := range orgs {
			g.Go(func() error {
				resultCh <- runResult{position: i, record: r.probe(gctx, &prober, &cfg, org)}
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	records := make([]*harvest.Record, len(orgs))
	var completed int
	for result := range resultCh {
		completed++
		records[result.position] = result.record
		if progress != nil {
			progress(harvest.Progress{
				Organization: result.record.Organization,
				Completed:    completed,
				Total:        len(orgs),
			})
		}
	}

	return records, ctx.Err()
}

func (r *Runner) validate(cfg *harvest.Config, orgs []*harvest.Organization) error {
	if len(orgs) == 0 {
		return harvest.Errorf(harvest.EINVALID, "at least one organization required")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	for i, org := range orgs {
		if org == nil {
			return harvest.Errorf(harvest.EINVALID, "organization %d: missing", i+1)
		}
		if err := org.Validate(); err != nil {
			return harvest.Errorf(harvest.EINVALID, "organization %d: %s", i+1, harvest.ErrorMessage(err))
		}
	}
	return nil
}

// probe runs a single organization. It never fails; a canceled context
// yields a record with whatever was found before cancellation.
func (r *Runner) probe(ctx context.Context, p *Prober, cfg *harvest.Config, org *harvest.Organization) *harvest.Record {
	domain := r.Resolver.Resolve(org)
	if obs := p.Observer; obs != nil {
		obs.OrganizationStarted(org, domain)
	}

	rec := harvest.NewRecord(org.Name, domain)
	if ctx.Err() == nil {
		rec.Values = p.probe(ctx, org.Name, domain, cfg.Paths, cfg.Targets)
	}

	if obs := p.Observer; obs != nil {
		obs.OrganizationFinished(rec)
	}
	return rec
}
