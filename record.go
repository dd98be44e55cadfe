package harvest

import "context"

// Record holds the facts found for one organization. Values are keyed by
// Target.ID; a target without a key was not found on any probed page.
type Record struct {
	Organization string            `json:"organization"`
	Domain       string            `json:"domain"`
	Values       map[string]string `json:"values"`
}

// NewRecord returns an empty record for org probed at domain.
func NewRecord(org string, domain Domain) *Record {
	return &Record{
		Organization: org,
		Domain:       domain.Origin,
		Values:       make(map[string]string),
	}
}

// Value returns the value found for t.
func (r *Record) Value(t Target) (string, bool) {
	v, ok := r.Values[t.ID()]
	return v, ok
}

// Found reports how many of targets have a value.
func (r *Record) Found(targets []Target) int {
	n := 0
	for _, t := range targets {
		if _, ok := r.Values[t.ID()]; ok {
			n++
		}
	}
	return n
}

// Header returns the tabular column names for records of a run.
func Header(targets []Target) []string {
	h := []string{"Center", "Domain"}
	for _, t := range targets {
		h = append(h, t.Label())
	}
	return h
}

// Row renders the record as a table row matching Header(targets).
// Absent values render as empty cells.
func (r *Record) Row(targets []Target) []string {
	row := []string{r.Organization, r.Domain}
	for _, t := range targets {
		row = append(row, r.Values[t.ID()])
	}
	return row
}

// RecordWriter exports the records of a run.
type RecordWriter interface {
	WriteRecords(ctx context.Context, targets []Target, records []*Record) error
}
