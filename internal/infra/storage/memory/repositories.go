package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	domainlistings "weekstay/internal/domain/listings"
	domainproposal "weekstay/internal/domain/proposal"
	"weekstay/internal/domain/shared/money"
)

// ErrVersionConflict mirrors the optimistic concurrency failure of the Mongo
// repositories so handler behavior is identical across backends.
var ErrVersionConflict = errors.New("memory: stale aggregate version")

// ListingRepository is an in-memory implementation for local runs and tests.
type ListingRepository struct {
	mu    sync.RWMutex
	items map[domainlistings.ListingID]domainlistings.Listing
}

// NewListingRepository builds an empty repository.
func NewListingRepository() *ListingRepository {
	return &ListingRepository{
		items: make(map[domainlistings.ListingID]domainlistings.Listing),
	}
}

// ByID returns a listing or listings.ErrListingNotFound.
func (r *ListingRepository) ByID(ctx context.Context, id domainlistings.ListingID) (*domainlistings.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	listing, ok := r.items[id]
	if !ok {
		return nil, domainlistings.ErrListingNotFound
	}
	clone := cloneListing(listing)
	return &clone, nil
}

// Save stores the listing, rejecting writes based on a stale version.
func (r *ListingRepository) Save(ctx context.Context, listing *domainlistings.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if stored, ok := r.items[listing.ID]; ok && stored.Version != listing.Version {
		return ErrVersionConflict
	}
	listing.Version++
	r.items[listing.ID] = cloneListing(*listing)
	return nil
}

// ProposalRepository keeps proposals in a map guarded by a RW mutex. Entries
// are stored and returned by value so callers never share aggregate state.
type ProposalRepository struct {
	mu    sync.RWMutex
	items map[domainproposal.ProposalID]domainproposal.Proposal
}

func NewProposalRepository() *ProposalRepository {
	return &ProposalRepository{
		items: make(map[domainproposal.ProposalID]domainproposal.Proposal),
	}
}

func (r *ProposalRepository) ByID(ctx context.Context, id domainproposal.ProposalID) (*domainproposal.Proposal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.items[id]
	if !ok {
		return nil, domainproposal.ErrProposalNotFound
	}
	clone := cloneProposal(p)
	return &clone, nil
}

func (r *ProposalRepository) Save(ctx context.Context, p *domainproposal.Proposal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if stored, ok := r.items[p.ID]; ok && stored.Version != p.Version {
		return ErrVersionConflict
	}
	p.Version++
	stored := cloneProposal(*p)
	stored.ClearEvents()
	r.items[p.ID] = stored
	return nil
}

func (r *ProposalRepository) ListByGuest(ctx context.Context, guestID string) ([]*domainproposal.Proposal, error) {
	return r.list(func(p *domainproposal.Proposal) bool { return p.GuestID == guestID })
}

func (r *ProposalRepository) ListByListing(ctx context.Context, id domainlistings.ListingID) ([]*domainproposal.Proposal, error) {
	return r.list(func(p *domainproposal.Proposal) bool { return p.ListingID == id })
}

func (r *ProposalRepository) list(match func(*domainproposal.Proposal) bool) ([]*domainproposal.Proposal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainproposal.Proposal, 0)
	for _, stored := range r.items {
		p := cloneProposal(stored)
		if match(&p) {
			out = append(out, &p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// cloneProposal deep-copies the term slots so no two callers ever share the
// nights and house-rules slices behind an aggregate.
func cloneProposal(p domainproposal.Proposal) domainproposal.Proposal {
	p.Submitted = p.Submitted.Copy()
	if p.Counter != nil {
		counter := p.Counter.Copy()
		p.Counter = &counter
	}
	if p.Agreed != nil {
		agreed := p.Agreed.Copy()
		p.Agreed = &agreed
	}
	return p
}

func cloneListing(l domainlistings.Listing) domainlistings.Listing {
	l.HouseRules = append([]string(nil), l.HouseRules...)
	if l.Rates.PerNights != nil {
		tiers := make(map[int]money.Money, len(l.Rates.PerNights))
		for nights, rate := range l.Rates.PerNights {
			tiers[nights] = rate
		}
		l.Rates.PerNights = tiers
	}
	return l
}

var (
	_ domainlistings.Repository = (*ListingRepository)(nil)
	_ domainproposal.Repository = (*ProposalRepository)(nil)
)
