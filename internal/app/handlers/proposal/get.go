package proposal

import (
	"context"

	"weekstay/internal/app/queries"
	"weekstay/internal/app/uow"
	domainpricing "weekstay/internal/domain/pricing"
	domainproposal "weekstay/internal/domain/proposal"
)

const getProposalKey = "proposal.get"

type GetProposalQuery struct {
	ProposalID string
}

func (q GetProposalQuery) Key() string { return getProposalKey }

type GetProposalHandler struct {
	UoWFactory uow.UoWFactory
}

// Handle loads one proposal and re-derives the breakdown from the listing's
// current rate table and the proposal's effective terms. Price is never read
// from a stored snapshot: a rate change is visible on the next fetch.
func (h *GetProposalHandler) Handle(ctx context.Context, q GetProposalQuery) (*ProposalView, error) {
	var view *ProposalView
	err := runInUnit(ctx, h.UoWFactory, func(ctx context.Context, unit uow.UnitOfWork) error {
		p, err := unit.Proposals().ByID(ctx, domainproposal.ProposalID(q.ProposalID))
		if err != nil {
			return err
		}
		listing, err := unit.Listings().ByID(ctx, p.ListingID)
		if err != nil {
			return err
		}
		effective := p.EffectiveTerms()
		quote, err := unit.Pricing().Quote(ctx, domainpricing.QuoteInput{
			Rates:     listing.Rates,
			Pattern:   effective.Pattern,
			SpanWeeks: effective.SpanWeeks,
		})
		if err != nil {
			return err
		}
		v := newProposalView(p, quote)
		view = &v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

var _ queries.Handler[GetProposalQuery, *ProposalView] = (*GetProposalHandler)(nil)
