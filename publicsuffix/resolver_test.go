package publicsuffix_test

import (
	"testing"

	"github.com/fwojciec/harvest"
	"github.com/fwojciec/harvest/publicsuffix"
	"github.com/stretchr/testify/assert"
)

func TestResolver_Resolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		org  harvest.Organization
		want string
	}{
		{"strips subdomain and path", harvest.Organization{Name: "Example", Website: "http://www.example.co.uk/contact"}, "https://example.co.uk"},
		{"bare host", harvest.Organization{Name: "Acme", Website: "acmehealth.org"}, "https://acmehealth.org"},
		{"upper case and port", harvest.Organization{Name: "Acme", Website: "HTTPS://Portal.AcmeHealth.ORG:8443/login"}, "https://acmehealth.org"},
		{"deep subdomain", harvest.Organization{Name: "Acme", Website: "https://a.b.c.acme.com/x?y=z"}, "https://acme.com"},
		{"private suffix treated as plain domain", harvest.Organization{Name: "Acme", Website: "acme.blogspot.com"}, "https://blogspot.com"},
		{"no website falls back to slug", harvest.Organization{Name: "St. Mary's Clinic!!"}, "https://st-mary-s-clinic.org"},
		{"unknown suffix falls back", harvest.Organization{Name: "Acme Health", Website: "acme.notarealtld"}, "https://acme-health.org"},
		{"no dot falls back", harvest.Organization{Name: "Acme Health", Website: "localhost"}, "https://acme-health.org"},
		{"bare suffix falls back", harvest.Organization{Name: "Acme Health", Website: "co.uk"}, "https://acme-health.org"},
		{"ip address falls back", harvest.Organization{Name: "Acme Health", Website: "http://192.168.1.10/"}, "https://acme-health.org"},
		{"unparsable falls back", harvest.Organization{Name: "Acme Health", Website: "acme health .org"}, "https://acme-health.org"},
		{"whitespace website falls back", harvest.Organization{Name: "Acme Health", Website: "   "}, "https://acme-health.org"},
	}

	r := publicsuffix.NewResolver()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			org := tt.org
			got := r.Resolve(&org)
			assert.Equal(t, tt.want, got.Origin)
		})
	}
}

func TestResolver_OriginShape(t *testing.T) {
	t.Parallel()

	r := publicsuffix.NewResolver()
	for _, name := range []string{"Clinic", "A B C", "***", "Saint Luke's / Community Health"} {
		got := r.Resolve(&harvest.Organization{Name: name})
		assert.Regexp(t, `^https://[a-z0-9]+(-[a-z0-9]+)*\.org$`, got.Origin, name)
	}
}

func TestRegisteredDomain(t *testing.T) {
	t.Parallel()

	got, ok := publicsuffix.RegisteredDomain("//cdn.example.com.au/")
	assert.True(t, ok)
	assert.Equal(t, "example.com.au", got)

	_, ok = publicsuffix.RegisteredDomain("")
	assert.False(t, ok)
}
