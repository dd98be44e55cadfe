package harvest_test

import (
	"testing"

	"github.com/fwojciec/harvest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrganization_Validate(t *testing.T) {
	t.Parallel()

	t.Run("accepts a named organization without website", func(t *testing.T) {
		t.Parallel()
		org := &harvest.Organization{Name: "Acme Health"}
		require.NoError(t, org.Validate())
	})

	t.Run("rejects a blank name", func(t *testing.T) {
		t.Parallel()
		org := &harvest.Organization{Name: "   ", Website: "https://acme.org"}
		err := org.Validate()
		require.Error(t, err)
		assert.Equal(t, harvest.EINVALID, harvest.ErrorCode(err))
	})
}

func TestGuessOrigin(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"punctuation collapses to single hyphens", "St. Mary's Clinic!!", "https://st-mary-s-clinic.org"},
		{"already a slug", "acme", "https://acme.org"},
		{"leading and trailing symbols trimmed", "  --Acme & Co--  ", "https://acme-co.org"},
		{"digits kept", "Clinic 42 North", "https://clinic-42-north.org"},
		{"non-ascii letters are separators", "Café Salud", "https://caf-salud.org"},
		{"no usable characters", "!!!", "https://organization.org"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, harvest.GuessOrigin(tt.in).Origin)
		})
	}
}

func TestDomain_URL(t *testing.T) {
	t.Parallel()

	d := harvest.Domain{Origin: "https://example.org"}

	assert.Equal(t, "https://example.org/", d.URL("/"))
	assert.Equal(t, "https://example.org/", d.URL(""))
	assert.Equal(t, "https://example.org/about", d.URL("/about"))
	assert.Equal(t, "https://example.org/team", d.URL("team"))
}

func TestDomain_Host(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "example.org", harvest.Domain{Origin: "https://example.org"}.Host())
	assert.Equal(t, "127.0.0.1:8080", harvest.Domain{Origin: "http://127.0.0.1:8080"}.Host())
	assert.Equal(t, "example.org", harvest.Domain{Origin: "example.org"}.Host())
}
