package proposal

import (
	"context"

	"weekstay/internal/app/queries"
	"weekstay/internal/app/uow"
	domainlistings "weekstay/internal/domain/listings"
	domainpricing "weekstay/internal/domain/pricing"
	domainproposal "weekstay/internal/domain/proposal"
)

const (
	listGuestProposalsKey   = "proposal.list_by_guest"
	listListingProposalsKey = "proposal.list_by_listing"
)

type ListGuestProposalsQuery struct {
	GuestID string
}

func (q ListGuestProposalsQuery) Key() string { return listGuestProposalsKey }

// ListListingProposalsQuery is the host dashboard view of everything proposed
// against one listing.
type ListListingProposalsQuery struct {
	ListingID string
}

func (q ListListingProposalsQuery) Key() string { return listListingProposalsKey }

type ListResult struct {
	Items []ProposalView `json:"items"`
	Total int            `json:"total"`
}

type ListProposalsHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *ListProposalsHandler) HandleByGuest(ctx context.Context, q ListGuestProposalsQuery) (*ListResult, error) {
	return h.list(ctx, func(ctx context.Context, unit uow.UnitOfWork) ([]*domainproposal.Proposal, error) {
		return unit.Proposals().ListByGuest(ctx, q.GuestID)
	})
}

func (h *ListProposalsHandler) HandleByListing(ctx context.Context, q ListListingProposalsQuery) (*ListResult, error) {
	return h.list(ctx, func(ctx context.Context, unit uow.UnitOfWork) ([]*domainproposal.Proposal, error) {
		return unit.Proposals().ListByListing(ctx, domainlistings.ListingID(q.ListingID))
	})
}

func (h *ListProposalsHandler) list(ctx context.Context, fetch func(ctx context.Context, unit uow.UnitOfWork) ([]*domainproposal.Proposal, error)) (*ListResult, error) {
	var result *ListResult
	err := runInUnit(ctx, h.UoWFactory, func(ctx context.Context, unit uow.UnitOfWork) error {
		items, err := fetch(ctx, unit)
		if err != nil {
			return err
		}
		views := make([]ProposalView, 0, len(items))
		for _, p := range items {
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
			views = append(views, newProposalView(p, quote))
		}
		result = &ListResult{Items: views, Total: len(views)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

var _ queries.Handler[ListGuestProposalsQuery, *ListResult] = queries.HandlerFunc[ListGuestProposalsQuery, *ListResult]((&ListProposalsHandler{}).HandleByGuest)
