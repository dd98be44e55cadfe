package csv_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/fwojciec/harvest"
	"github.com/fwojciec/harvest/csv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriter_WriteRecords(t *testing.T) {
	t.Parallel()

	cfo := harvest.PersonByTitle("Chief Financial Officer")
	email := harvest.EmailByLocalPart("hr", "jobs").WithName("HR Email")
	targets := []harvest.Target{cfo, email}

	acme := harvest.NewRecord("Acme, Inc.", harvest.Domain{Origin: "https://acme.org"})
	acme.Values[cfo.ID()] = "Jane Doe"
	other := harvest.NewRecord("Other", harvest.Domain{Origin: "https://other.org"})
	other.Values[email.ID()] = "jobs@other.org"

	var buf bytes.Buffer
	err := csv.NewWriter(&buf).WriteRecords(context.Background(), targets, []*harvest.Record{acme, other})
	require.NoError(t, err)

	assert.Equal(t,
		"Center,Domain,Chief Financial Officer,HR Email\n"+
			"\"Acme, Inc.\",https://acme.org,Jane Doe,\n"+
			"Other,https://other.org,,jobs@other.org\n",
		buf.String())
}

func TestWriter_ReadBack(t *testing.T) {
	t.Parallel()

	targets := []harvest.Target{harvest.FoundingYear()}
	rec := harvest.NewRecord("Acme", harvest.Domain{Origin: "https://acme.org"})

	var buf bytes.Buffer
	require.NoError(t, csv.NewWriter(&buf).WriteRecords(context.Background(), targets, []*harvest.Record{rec}))

	// Exported files carry no Name column, so they are not valid input.
	_, err := csv.ReadOrganizations(&buf)
	assert.Equal(t, harvest.EINVALID, harvest.ErrorCode(err))
}
