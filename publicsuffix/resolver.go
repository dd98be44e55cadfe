// Package publicsuffix resolves organization websites to their registered
// domain using the public suffix list from golang.org/x/net.
package publicsuffix

import (
	"net"
	"net/url"
	"strings"

	"github.com/fwojciec/harvest"
	"golang.org/x/net/publicsuffix"
)

// Ensure Resolver implements harvest.DomainResolver at compile time.
var _ harvest.DomainResolver = (*Resolver)(nil)

// Resolver derives the origin to probe for an organization. A website with
// an ICANN public suffix resolves to its registered domain; anything else
// falls back to a guess built from the organization name.
type Resolver struct{}

// NewResolver creates a new Resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// Resolve returns https://{registered-domain} for the organization's
// website, or harvest.GuessOrigin(name) when the website is missing or
// has no recognizable suffix.
func (r *Resolver) Resolve(org *harvest.Organization) harvest.Domain {
	if domain, ok := RegisteredDomain(org.Website); ok {
		return harvest.Domain{Origin: "https://" + domain}
	}
	return harvest.GuessOrigin(org.Name)
}

// RegisteredDomain extracts the registered domain (one label plus its ICANN
// public suffix) from a free-text website such as "www.example.co.uk/contact".
// Subdomains, scheme, port and path are dropped.
func RegisteredDomain(website string) (string, bool) {
	host := hostname(website)
	if host == "" || net.ParseIP(host) != nil {
		return "", false
	}

	suffix := icannSuffix(host)
	if suffix == "" || suffix == host {
		return "", false
	}

	rest := strings.TrimSuffix(host, "."+suffix)
	if rest == host || rest == "" {
		return "", false
	}
	label := rest[strings.LastIndex(rest, ".")+1:]
	if label == "" {
		return "", false
	}
	return label + "." + suffix, true
}

// hostname parses website leniently: a missing scheme is assumed to be http.
func hostname(website string) string {
	website = strings.TrimSpace(website)
	if website == "" {
		return ""
	}
	if !strings.Contains(website, "://") {
		website = "http://" + strings.TrimPrefix(website, "//")
	}
	u, err := url.Parse(website)
	if err != nil {
		return ""
	}
	return strings.TrimSuffix(strings.ToLower(u.Hostname()), ".")
}

// icannSuffix returns the longest ICANN public suffix of host, ignoring
// privately registered suffixes such as blogspot.com. Hosts under an
// unlisted TLD have no suffix.
func icannSuffix(host string) string {
	labels := strings.Split(host, ".")
	for i := range labels {
		candidate := strings.Join(labels[i:], ".")
		suffix, icann := publicsuffix.PublicSuffix(candidate)
		if icann && suffix == candidate {
			return candidate
		}
	}
	return ""
}
