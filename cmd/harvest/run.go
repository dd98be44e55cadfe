package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/fwojciec/harvest"
	"github.com/fwojciec/harvest/crawl"
	"github.com/fwojciec/harvest/csv"
	"github.com/fwojciec/harvest/fs"
	"github.com/fwojciec/harvest/goquery"
	harvesthttp "github.com/fwojciec/harvest/http"
	"github.com/fwojciec/harvest/postgres"
	"github.com/fwojciec/harvest/publicsuffix"
	harvestslog "github.com/fwojciec/harvest/slog"
	"github.com/fwojciec/harvest/sqlite"
)

// Run executes the run command.
func (c *RunCmd) Run(deps *Dependencies) error {
	cfg, err := c.config(deps)
	if err != nil {
		return reportError(deps, err)
	}
	if err := cfg.Validate(); err != nil {
		return reportError(deps, err)
	}

	orgs, err := readInput(c.Input)
	if err != nil {
		return reportError(deps, err)
	}

	runner := c.runner(deps, cfg, len(orgs))
	defer runner.Prober.Fetcher.Close()

	deps.Logger.Info("harvest started",
		"organizations", len(orgs),
		"targets", len(cfg.Targets),
		"paths", len(cfg.Paths),
		"concurrency", cfg.Concurrency)

	begin := time.Now()
	records, runErr := runner.Run(deps.Ctx, orgs, func(p harvest.Progress) {
		deps.Logger.Info("progress", "org", p.Organization, "completed", p.Completed, "total", p.Total)
	})
	if records == nil {
		return reportError(deps, runErr)
	}
	if runErr != nil {
		deps.Logger.Warn("harvest interrupted, writing partial results", "err", runErr)
	}

	found := 0
	for _, rec := range records {
		found += rec.Found(cfg.Targets)
	}
	deps.Logger.Info("harvest complete",
		"organizations", len(records),
		"found", found,
		"duration", time.Since(begin).Round(time.Millisecond))
	if cache := runner.Prober.Cache; cache != nil {
		stats := cache.Stats()
		deps.Logger.Info("page cache", "hits", stats.Hits, "misses", stats.Misses, "urls", stats.URLs)
	}

	// Results are written even after an interrupt.
	ctx := context.WithoutCancel(deps.Ctx)
	if err := c.write(ctx, deps, cfg.Targets, records); err != nil {
		return reportError(deps, err)
	}
	return runErr
}

// config resolves flags, the optional config file, the preset and defaults.
func (c *RunCmd) config(deps *Dependencies) (harvest.Config, error) {
	s := settings{
		Preset:      c.Preset,
		Targets:     c.Target,
		Paths:       c.Path,
		Timeout:     c.Timeout,
		UserAgent:   c.UserAgent,
		Delay:       c.Delay,
		Concurrency: c.Concurrency,
		Cache:       c.Cache,
	}
	if c.Config != "" {
		file, err := readConfig(c.Config, deps.Logger)
		if err != nil {
			return harvest.Config{}, err
		}
		if s, err = s.withFile(file); err != nil {
			return harvest.Config{}, err
		}
	}
	return s.config()
}

func readInput(path string) ([]*harvest.Organization, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	orgs, err := csv.ReadOrganizations(f)
	if err != nil {
		return nil, err
	}
	if len(orgs) == 0 {
		return nil, harvest.Errorf(harvest.EINVALID, "%s contains no organizations", path)
	}
	return orgs, nil
}

// runner wires the fetch pipeline for one run.
func (c *RunCmd) runner(deps *Dependencies, cfg harvest.Config, orgs int) *crawl.Runner {
	var fetcher harvest.Fetcher = harvesthttp.NewFetcher(
		harvesthttp.WithClient(&http.Client{Transport: deps.Transport}),
		harvesthttp.WithTimeout(cfg.Timeout),
		harvesthttp.WithUserAgent(cfg.UserAgent),
	)
	fetcher = harvestslog.NewLoggingFetcher(fetcher, deps.Logger)

	prober := &crawl.Prober{
		Fetcher:    fetcher,
		Normalizer: goquery.NewNormalizer(),
		Extractor:  harvest.NewExtractor(time.Now()),
		Limiter:    crawl.NewDomainLimiter(cfg.Delay),
	}
	if cfg.Cache {
		prober.Cache = crawl.NewPageCache(uint(orgs * len(cfg.Paths)))
	}
	if deps.Debug {
		prober.Observer = harvestslog.NewTraceObserver(deps.Logger)
	}

	return &crawl.Runner{
		Config:   cfg,
		Resolver: publicsuffix.NewResolver(),
		Prober:   prober,
	}
}

// write sends records to stdout and to every configured sink.
func (c *RunCmd) write(ctx context.Context, deps *Dependencies, targets []harvest.Target, records []*harvest.Record) error {
	switch c.Format {
	case "csv":
		if err := csv.NewWriter(deps.Stdout).WriteRecords(ctx, targets, records); err != nil {
			return fmt.Errorf("failed to write results: %w", err)
		}
	default:
		renderRecords(deps.Stdout, targets, records)
	}

	if c.Output != "" {
		if err := writeExport(ctx, c.Output, targets, records); err != nil {
			return err
		}
		fmt.Fprintf(deps.Stderr, "Wrote %d records to %s\n", len(records), c.Output)
	}

	source := filepath.Base(c.Input)

	if c.Save {
		store := sqlite.NewRecordStore(deps.DB, source)
		if err := store.WriteRecords(ctx, targets, records); err != nil {
			return fmt.Errorf("failed to save run: %w", err)
		}
		fmt.Fprintf(deps.Stderr, "Saved run %s\n", store.LastRun().ID)
	}

	if c.Postgres != "" {
		db := postgres.NewDB(c.Postgres)
		if err := db.Open(ctx); err != nil {
			return err
		}
		defer db.Close()

		store := postgres.NewRecordStore(db, source)
		if err := store.WriteRecords(ctx, targets, records); err != nil {
			return fmt.Errorf("failed to save run to postgres: %w", err)
		}
		fmt.Fprintf(deps.Stderr, "Saved run %s to postgres\n", store.LastRun().ID)
	}

	return nil
}

// writeExport writes records as CSV to path, replacing it only when the
// whole export succeeded.
func writeExport(ctx context.Context, path string, targets []harvest.Target, records []*harvest.Record) error {
	f := fs.NewExportFile(path)
	if err := csv.NewWriter(f).WriteRecords(ctx, targets, records); err != nil {
		return errors.Join(fmt.Errorf("failed to write %s: %w", path, err), f.Abort())
	}
	if err := f.Commit(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
