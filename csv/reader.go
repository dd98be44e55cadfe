// Package csv reads organization lists and writes harvest results as CSV.
package csv

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"

	"github.com/fwojciec/harvest"
)

// Column names recognized in input files, matched case-insensitively.
const (
	NameColumn    = "name"
	WebsiteColumn = "website"
)

// ReadOrganizations parses an input file with a header row. The Name
// column is required; Website is optional. Rows whose fields are all
// blank are skipped. A row with content but no name is rejected.
func ReadOrganizations(r io.Reader) ([]*harvest.Organization, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, harvest.Errorf(harvest.EINVALID, "input is empty")
	}
	if err != nil {
		return nil, harvest.Errorf(harvest.EINVALID, "failed to read header: %v", err)
	}

	nameCol, websiteCol := -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))) {
		case NameColumn:
			if nameCol < 0 {
				nameCol = i
			}
		case WebsiteColumn:
			if websiteCol < 0 {
				websiteCol = i
			}
		}
	}
	if nameCol < 0 {
		return nil, harvest.Errorf(harvest.EINVALID, "input has no Name column")
	}

	var orgs []*harvest.Organization
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, harvest.Errorf(harvest.EINVALID, "failed to read row: %v", err)
		}
		if blank(row) {
			continue
		}

		line, _ := cr.FieldPos(0)
		org := &harvest.Organization{
			Name:    field(row, nameCol),
			Website: field(row, websiteCol),
		}
		if err := org.Validate(); err != nil {
			return nil, harvest.Errorf(harvest.EINVALID, "line %d: %s", line, harvest.ErrorMessage(err))
		}
		orgs = append(orgs, org)
	}

	return orgs, nil
}

func field(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func blank(row []string) bool {
	for _, f := range row {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
