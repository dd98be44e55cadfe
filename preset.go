package harvest

import (
	"slices"
	"strings"
)

// Preset is a named combination of targets and paths.
type Preset struct {
	Name        string
	Description string
	Targets     []Target
	Paths       []string
}

var basePaths = []string{"/", "/about", "/about-us", "/our-team", "/team", "/leadership"}

// Presets lists the built-in harvest configurations.
var Presets = []Preset{
	{
		Name:        "executives",
		Description: "CFO, HR director and COO names",
		Targets: []Target{
			PersonByTitle("Chief Financial Officer"),
			PersonByTitle("Human Resources Director"),
			PersonByTitle("Chief Operating Officer"),
		},
		Paths: append(slices.Clone(basePaths),
			"/admin-team", "/info-center/about/leadership", "/info-center/about", "/info"),
	},
	{
		Name:        "hr",
		Description: "HR director name and hiring email",
		Targets: []Target{
			PersonByTitle("Human Resources Director"),
			PersonByTitle("HR Director"),
			EmailByLocalPart("hr", "jobs").WithName("HR Email"),
		},
		Paths: append(slices.Clone(basePaths), "/staff"),
	},
	{
		Name:        "founding",
		Description: "year the organization was founded",
		Targets:     []Target{FoundingYear()},
		Paths:       []string{"/", "/about", "/about-us", "/our-story", "/history", "/who-we-are"},
	},
	{
		Name:        "leadership",
		Description: "names listed under the leadership heading",
		Targets:     []Target{LeadershipRoster()},
		Paths:       append(slices.Clone(basePaths), "/about/leadership", "/who-we-are"),
	},
	{
		Name:        "debug",
		Description: "HR director and CFO, meant for --debug tracing",
		Targets: []Target{
			PersonByTitle("Human Resources Director").WithName("HR Director"),
			PersonByTitle("Chief Financial Officer").WithName("CFO"),
		},
		Paths: append(slices.Clone(basePaths), "/admin-team", "/info-center/about/leadership"),
	},
}

// LookupPreset returns the preset with the given name.
func LookupPreset(name string) (Preset, error) {
	for _, p := range Presets {
		if strings.EqualFold(p.Name, name) {
			return p, nil
		}
	}
	return Preset{}, Errorf(ENOTFOUND, "unknown preset %q", name)
}

// Apply fills the targets and paths of c that are not set yet.
func (p Preset) Apply(c Config) Config {
	if len(c.Targets) == 0 {
		c.Targets = slices.Clone(p.Targets)
	}
	if len(c.Paths) == 0 {
		c.Paths = slices.Clone(p.Paths)
	}
	return c
}
