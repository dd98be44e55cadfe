package harvest

import (
	"regexp"
	"strings"
)

// Organization is one input row: a required name and an optional
// free-text website.
type Organization struct {
	Name    string `json:"name"`
	Website string `json:"website"`
}

// Validate returns an error if the organization contains invalid fields.
func (o *Organization) Validate() error {
	if strings.TrimSpace(o.Name) == "" {
		return Errorf(EINVALID, "organization name required")
	}
	return nil
}

// Domain is the canonical origin probed for an organization,
// e.g. "https://example.org". It has no trailing slash and no path.
type Domain struct {
	Origin string
}

// URL joins the origin with a candidate path.
func (d Domain) URL(path string) string {
	if path == "" {
		path = "/"
	} else if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return d.Origin + path
}

// Host returns the origin without its scheme.
func (d Domain) Host() string {
	if i := strings.Index(d.Origin, "://"); i >= 0 {
		return d.Origin[i+len("://"):]
	}
	return d.Origin
}

// String returns the origin.
func (d Domain) String() string {
	return d.Origin
}

// DomainResolver turns an organization into the origin to probe.
// Resolution is a heuristic and never fails; a wrong guess shows up
// later as pages that cannot be fetched.
type DomainResolver interface {
	Resolve(org *Organization) Domain
}

var slugSeparator = regexp.MustCompile(`[^a-z0-9]+`)

// fallbackSlug keeps the host non-empty for names without any letters or digits.
const fallbackSlug = "organization"

// Slug lower-cases name, replaces every run of characters outside [a-z0-9]
// with a single hyphen and trims hyphens from both ends.
func Slug(name string) string {
	return strings.Trim(slugSeparator.ReplaceAllString(strings.ToLower(name), "-"), "-")
}

// GuessOrigin derives an origin from the organization name alone:
// "St. Mary's Clinic!!" becomes "https://st-mary-s-clinic.org".
func GuessOrigin(name string) Domain {
	slug := Slug(name)
	if slug == "" {
		slug = fallbackSlug
	}
	return Domain{Origin: "https://" + slug + ".org"}
}
