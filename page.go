package harvest

// Page is a fetched HTML page flattened for pattern matching.
type Page struct {
	URL string

	// Text holds every visible text node in document order, each trimmed
	// and joined by single spaces.
	Text string

	// Mailto holds the address of every mailto: anchor in document order,
	// without the scheme or query string. Duplicates are kept.
	Mailto []string

	// Roster holds the text of list items, paragraphs and h3 headings in
	// the section that follows the page's leadership heading.
	Roster []string
}

// Normalizer converts raw HTML into a Page.
type Normalizer interface {
	Normalize(url, html string) (*Page, error)
}
