package mock

import "github.com/fwojciec/harvest"

var _ harvest.Normalizer = (*Normalizer)(nil)

// Normalizer is a mock implementation of harvest.Normalizer.
type Normalizer struct {
	NormalizeFn func(url, html string) (*harvest.Page, error)
}

func (n *Normalizer) Normalize(url, html string) (*harvest.Page, error) {
	return n.NormalizeFn(url, html)
}
