package main

import (
	"io"

	"github.com/fwojciec/harvest"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// renderTable writes header and rows as a rounded box table. Header cells
// keep their case so target labels print as written.
func renderTable(w io.Writer, header []string, rows [][]string) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)
	tw.Style().Format.Header = text.FormatDefault
	tw.AppendHeader(tableRow(header))
	for _, r := range rows {
		tw.AppendRow(tableRow(r))
	}
	tw.Render()
}

// renderRecords writes one table row per record.
func renderRecords(w io.Writer, targets []harvest.Target, records []*harvest.Record) {
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, rec.Row(targets))
	}
	renderTable(w, harvest.Header(targets), rows)
}

func tableRow(cells []string) table.Row {
	row := make(table.Row, len(cells))
	for i, c := range cells {
		row[i] = c
	}
	return row
}
