package mock

import "github.com/fwojciec/harvest"

var _ harvest.Observer = (*Observer)(nil)

// Observer is a mock implementation of harvest.Observer.
// Nil function fields are ignored.
type Observer struct {
	OrganizationStartedFn  func(org *harvest.Organization, domain harvest.Domain)
	FetchAttemptedFn       func(ev harvest.FetchEvent)
	FactFoundFn            func(ev harvest.FindEvent)
	OrganizationFinishedFn func(rec *harvest.Record)
}

func (o *Observer) OrganizationStarted(org *harvest.Organization, domain harvest.Domain) {
	if o.OrganizationStartedFn != nil {
		o.OrganizationStartedFn(org, domain)
	}
}

func (o *Observer) FetchAttempted(ev harvest.FetchEvent) {
	if o.FetchAttemptedFn != nil {
		o.FetchAttemptedFn(ev)
	}
}

func (o *Observer) FactFound(ev harvest.FindEvent) {
	if o.FactFoundFn != nil {
		o.FactFoundFn(ev)
	}
}

func (o *Observer) OrganizationFinished(rec *harvest.Record) {
	if o.OrganizationFinishedFn != nil {
		o.OrganizationFinishedFn(rec)
	}
}
