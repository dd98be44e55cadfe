package harvest

import (
	"strings"
)

// TargetKind identifies the extraction rule of a Target.
type TargetKind int

// Supported target kinds.
const (
	TargetPersonByTitle TargetKind = iota + 1
	TargetEmailByLocalPart
	TargetFoundingYear
	TargetLeadershipRoster
)

// String returns the kind's identifier prefix.
func (k TargetKind) String() string {
	switch k {
	case TargetPersonByTitle:
		return "title"
	case TargetEmailByLocalPart:
		return "email"
	case TargetFoundingYear:
		return "founding-year"
	case TargetLeadershipRoster:
		return "leadership"
	}
	return "unknown"
}

// Target is one kind of fact a run looks for on every organization.
type Target struct {
	Kind TargetKind

	// Title is the literal title phrase for TargetPersonByTitle.
	Title string

	// LocalParts are the mailbox names accepted by TargetEmailByLocalPart.
	LocalParts []string

	// Name overrides the column label derived from the kind.
	Name string
}

// PersonByTitle returns a target matching a person named immediately
// before the given title phrase.
func PersonByTitle(title string) Target {
	return Target{Kind: TargetPersonByTitle, Title: collapseSpace(title)}
}

// EmailByLocalPart returns a target matching the first mailto address
// whose local part is one of parts.
func EmailByLocalPart(parts ...string) Target {
	var clean []string
	for _, p := range parts {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			clean = append(clean, p)
		}
	}
	return Target{Kind: TargetEmailByLocalPart, LocalParts: clean}
}

// FoundingYear returns a target matching "Founded in 1987" style phrases.
func FoundingYear() Target {
	return Target{Kind: TargetFoundingYear}
}

// LeadershipRoster returns a target collecting every name listed under
// a leadership, team, staff or board heading.
func LeadershipRoster() Target {
	return Target{Kind: TargetLeadershipRoster}
}

// WithName returns a copy of t labeled name.
func (t Target) WithName(name string) Target {
	t.Name = strings.TrimSpace(name)
	return t
}

// ID returns the key under which the target's value is stored in a Record.
func (t Target) ID() string {
	switch t.Kind {
	case TargetPersonByTitle:
		return "title:" + strings.ToLower(t.Title)
	case TargetEmailByLocalPart:
		return "email:" + strings.Join(t.LocalParts, ",")
	}
	return t.Kind.String()
}

// Label returns the human-readable column header for the target.
func (t Target) Label() string {
	if t.Name != "" {
		return t.Name
	}
	switch t.Kind {
	case TargetPersonByTitle:
		return t.Title
	case TargetEmailByLocalPart:
		return "Email (" + strings.Join(t.LocalParts, ", ") + ")"
	case TargetFoundingYear:
		return "Founding Year"
	case TargetLeadershipRoster:
		return "Leadership"
	}
	return t.ID()
}

// String returns the textual form accepted by ParseTarget, including the label.
func (t Target) String() string {
	return t.ID() + "=" + t.Label()
}

// Validate returns an error if the target cannot be matched.
func (t Target) Validate() error {
	switch t.Kind {
	case TargetPersonByTitle:
		if t.Title == "" {
			return Errorf(EINVALID, "title target requires a title phrase")
		}
	case TargetEmailByLocalPart:
		if len(t.LocalParts) == 0 {
			return Errorf(EINVALID, "email target requires at least one local part")
		}
	case TargetFoundingYear, TargetLeadershipRoster:
	default:
		return Errorf(EINVALID, "unknown target kind %d", t.Kind)
	}
	return nil
}

// ParseTarget parses the textual form of a target:
//
//	title:Chief Financial Officer
//	email:hr,jobs
//	founding-year
//	leadership
//
// Any form may end in "=Label" to set the column label.
func ParseTarget(s string) (Target, error) {
	form, label, _ := strings.Cut(s, "=")
	form = strings.TrimSpace(form)
	kind, arg, _ := strings.Cut(form, ":")

	var t Target
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "title":
		t = PersonByTitle(arg)
	case "email":
		t = EmailByLocalPart(strings.Split(arg, ",")...)
	case "founding-year", "founding", "year":
		t = FoundingYear()
	case "leadership", "roster":
		t = LeadershipRoster()
	default:
		return Target{}, Errorf(EINVALID, "unknown target %q", s)
	}
	if err := t.Validate(); err != nil {
		return Target{}, err
	}
	return t.WithName(label), nil
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
