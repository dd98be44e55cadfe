package csv

import (
	"context"
	"encoding/csv"
	"io"

	"github.com/fwojciec/harvest"
)

// Ensure Writer implements harvest.RecordWriter at compile time.
var _ harvest.RecordWriter = (*Writer)(nil)

// Writer writes records as CSV: a header row of Center, Domain and one
// column per target label, then one row per record.
type Writer struct {
	w io.Writer
}

// NewWriter creates a new Writer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// WriteRecords writes the header and every record. Absent values are
// written as empty cells.
func (w *Writer) WriteRecords(_ context.Context, targets []harvest.Target, records []*harvest.Record) error {
	cw := csv.NewWriter(w.w)
	if err := cw.Write(harvest.Header(targets)); err != nil {
		return err
	}
	for _, rec := range records {
		if err := cw.Write(rec.Row(targets)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
