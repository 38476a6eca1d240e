package memory

import (
	"context"
	"errors"

	"weekstay/internal/app/uow"
	domainlistings "weekstay/internal/domain/listings"
	domainpricing "weekstay/internal/domain/pricing"
	domainproposal "weekstay/internal/domain/proposal"
)

// Factory wires in-memory repositories into a unit-of-work boundary.
type Factory struct {
	ListingsRepo  domainlistings.Repository
	ProposalsRepo domainproposal.Repository
	PricingSvc    domainpricing.Calculator
}

// ErrFactoryMisconfigured indicates missing repositories.
var ErrFactoryMisconfigured = errors.New("memory: unit of work factory misconfigured")

// Begin starts a lightweight transaction boundary. No isolation is provided
// but the abstraction matches the application ports.
func (f Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.ListingsRepo == nil || f.ProposalsRepo == nil || f.PricingSvc == nil {
		return nil, ErrFactoryMisconfigured
	}
	return &Unit{
		listings:  f.ListingsRepo,
		proposals: f.ProposalsRepo,
		pricing:   f.PricingSvc,
	}, nil
}

// Unit is a lightweight uow.UnitOfWork backed by in-memory stores.
type Unit struct {
	listings  domainlistings.Repository
	proposals domainproposal.Repository
	pricing   domainpricing.Calculator
}

func (u *Unit) Listings() domainlistings.Repository {
	return u.listings
}

func (u *Unit) Proposals() domainproposal.Repository {
	return u.proposals
}

func (u *Unit) Pricing() domainpricing.Calculator {
	return u.pricing
}

func (u *Unit) Commit(ctx context.Context) error {
	return nil
}

func (u *Unit) Rollback(ctx context.Context) error {
	return nil
}
