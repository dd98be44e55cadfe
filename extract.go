package harvest

import (
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"
)

// MinFoundingYear is the earliest founding year accepted.
const MinFoundingYear = 1900

// RosterSeparator joins the names of a leadership roster.
const RosterSeparator = "; "

// namePattern matches two or more capitalized words. Single-word names,
// all-caps tokens and tokens with embedded punctuation never match.
const namePattern = `[A-Z][a-z]+(?:\s+[A-Z][a-z]+)+`

var (
	rosterName = regexp.MustCompile(`^(` + namePattern + `)`)

	foundingPhrases = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bFounded\s+(?:in\s+)?(\d{4})\b`),
		regexp.MustCompile(`(?i)\bEstab(?:lished|lishment)\s+(?:in\s+)?(\d{4})\b`),
		regexp.MustCompile(`(?i)\bSince\s+(\d{4})\b`),
	}
)

// Extractor applies extraction rules to normalized pages.
// Extraction is pure: the same target and page always yield the same value.
type Extractor struct {
	// CurrentYear bounds accepted founding years from above. Zero means
	// the year of the system clock at extraction time.
	CurrentYear int

	mu       sync.Mutex
	patterns map[string]*regexp.Regexp
}

// NewExtractor returns an Extractor accepting founding years up to now.
func NewExtractor(now time.Time) *Extractor {
	return &Extractor{CurrentYear: now.Year()}
}

// Extract returns the value of target found on page, if any.
func (e *Extractor) Extract(target Target, page *Page) (string, bool) {
	if page == nil {
		return "", false
	}
	switch target.Kind {
	case TargetPersonByTitle:
		return e.personByTitle(target, page.Text)
	case TargetEmailByLocalPart:
		return e.emailByLocalPart(target, page.Mailto)
	case TargetFoundingYear:
		return e.foundingYear(page.Text)
	case TargetLeadershipRoster:
		return leadershipRoster(page.Roster)
	}
	return "", false
}

func (e *Extractor) personByTitle(target Target, text string) (string, bool) {
	if target.Title == "" {
		return "", false
	}
	re := e.pattern(target.ID(), func() string {
		title := strings.ReplaceAll(regexp.QuoteMeta(target.Title), " ", `\s+`)
		return `(` + namePattern + `)\s*[-–—,:]?\s*(?i:` + title + `)`
	})
	m := re.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

func (e *Extractor) emailByLocalPart(target Target, mailto []string) (string, bool) {
	if len(target.LocalParts) == 0 {
		return "", false
	}
	re := e.pattern(target.ID(), func() string {
		quoted := make([]string, len(target.LocalParts))
		for i, p := range target.LocalParts {
			quoted[i] = regexp.QuoteMeta(p)
		}
		return `(?i)\b(?:` + strings.Join(quoted, "|") + `)$`
	})
	for _, addr := range mailto {
		local, _, ok := strings.Cut(addr, "@")
		if !ok || local == "" {
			continue
		}
		if re.MatchString(local) {
			return addr, true
		}
	}
	return "", false
}

// foundingYear tests only the first occurrence of each phrase; an
// out-of-range year moves on to the next phrase.
func (e *Extractor) foundingYear(text string) (string, bool) {
	for _, re := range foundingPhrases {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		year, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if year >= MinFoundingYear && year <= e.maxYear() {
			return strconv.Itoa(year), true
		}
	}
	return "", false
}

func (e *Extractor) maxYear() int {
	if e.CurrentYear > 0 {
		return e.CurrentYear
	}
	return time.Now().Year()
}

func leadershipRoster(lines []string) (string, bool) {
	seen := make(map[string]bool)
	var names []string
	for _, line := range lines {
		m := rosterName.FindStringSubmatch(line)
		if m == nil || seen[m[1]] {
			continue
		}
		seen[m[1]] = true
		names = append(names, m[1])
	}
	if len(names) == 0 {
		return "", false
	}
	return strings.Join(names, RosterSeparator), true
}

// pattern compiles and memoizes the regular expression for a target.
func (e *Extractor) pattern(key string, build func() string) *regexp.Regexp {
	e.mu.Lock()
	defer e.mu.Unlock()
	if re, ok := e.patterns[key]; ok {
		return re
	}
	if e.patterns == nil {
		e.patterns = make(map[string]*regexp.Regexp)
	}
	re := regexp.MustCompile(build())
	e.patterns[key] = re
	return re
}
