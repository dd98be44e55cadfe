package harvest

import "time"

// FetchEvent describes one page fetch attempt during a probe.
type FetchEvent struct {
	Organization string
	URL          string
	Status       int
	Duration     time.Duration
	Cached       bool
	Err          error
}

// FindEvent describes a fact found on a page.
type FindEvent struct {
	Organization string
	URL          string
	Target       Target
	Value        string
}

// Observer receives trace events from a harvest run. It never affects
// the outcome of a run.
type Observer interface {
	OrganizationStarted(org *Organization, domain Domain)
	FetchAttempted(ev FetchEvent)
	FactFound(ev FindEvent)
	OrganizationFinished(rec *Record)
}

// Progress reports how many organizations of a run have completed.
type Progress struct {
	Organization string
	Completed    int
	Total        int
}

// ProgressFunc is called each time an organization completes.
type ProgressFunc func(Progress)
