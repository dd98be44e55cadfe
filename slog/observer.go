package slog

import (
	"log/slog"

	"github.com/fwojciec/harvest"
)

var _ harvest.Observer = (*TraceObserver)(nil)

// TraceObserver logs the progress of a run: each organization with its
// resolved domain, each URL tried and each fact found. Page attempts are
// logged at debug level.
type TraceObserver struct {
	logger *slog.Logger
}

// NewTraceObserver creates a new TraceObserver.
func NewTraceObserver(logger *slog.Logger) *TraceObserver {
	return &TraceObserver{logger: logger}
}

// OrganizationStarted logs the organization and its resolved domain.
func (o *TraceObserver) OrganizationStarted(org *harvest.Organization, domain harvest.Domain) {
	o.logger.Info("probe organization",
		"org", org.Name,
		"domain", domain.Origin,
	)
}

// FetchAttempted logs a page attempt with its status or error at debug level.
func (o *TraceObserver) FetchAttempted(ev harvest.FetchEvent) {
	attrs := []any{
		"org", ev.Organization,
		"url", ev.URL,
		"duration", ev.Duration,
		"cached", ev.Cached,
	}
	if ev.Err != nil {
		attrs = append(attrs, "err", ev.Err)
	} else {
		attrs = append(attrs, "status", ev.Status)
	}
	o.logger.Debug("try", attrs...)
}

// FactFound logs a value found and the page it came from.
func (o *TraceObserver) FactFound(ev harvest.FindEvent) {
	o.logger.Info("found",
		"org", ev.Organization,
		"target", ev.Target.Label(),
		"value", ev.Value,
		"url", ev.URL,
	)
}

// OrganizationFinished logs how many values the organization's record holds.
func (o *TraceObserver) OrganizationFinished(rec *harvest.Record) {
	o.logger.Info("organization done",
		"org", rec.Organization,
		"values", len(rec.Values),
	)
}
