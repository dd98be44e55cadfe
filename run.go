package harvest

import (
	"context"
	"time"
)

// Run is a stored harvest: the targets looked for and one record per
// organization, in input order. Size is the number of records, set even
// when Records is not loaded.
type Run struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	Targets   []Target  `json:"-"`
	Records   []*Record `json:"records"`
	Size      int       `json:"size"`
	CreatedAt time.Time `json:"createdAt"`
}

// Validate returns an error if the run contains invalid fields.
func (r *Run) Validate() error {
	if len(r.Targets) == 0 {
		return Errorf(EINVALID, "run requires at least one target")
	}
	for _, t := range r.Targets {
		if err := t.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// RunService represents a service for storing harvest runs.
type RunService interface {
	// CreateRun stores a run and its records, assigning ID and CreatedAt.
	CreateRun(ctx context.Context, run *Run) error

	// FindRunByID retrieves a run with its records.
	// Returns ENOTFOUND if the run does not exist.
	FindRunByID(ctx context.Context, id string) (*Run, error)

	// FindRuns retrieves runs, newest first, without their records.
	FindRuns(ctx context.Context, filter RunFilter) ([]*Run, error)

	// DeleteRun removes a run and its records.
	// Returns ENOTFOUND if the run does not exist.
	DeleteRun(ctx context.Context, id string) error
}

// RunFilter represents a filter for FindRuns.
type RunFilter struct {
	Source *string `json:"source"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
