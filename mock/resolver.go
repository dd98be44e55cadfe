package mock

import "github.com/fwojciec/harvest"

var _ harvest.DomainResolver = (*DomainResolver)(nil)

// DomainResolver is a mock implementation of harvest.DomainResolver.
type DomainResolver struct {
	ResolveFn func(org *harvest.Organization) harvest.Domain
}

func (r *DomainResolver) Resolve(org *harvest.Organization) harvest.Domain {
	return r.ResolveFn(org)
}
