package proposal

import (
	"context"
	"errors"
	"time"

	"weekstay/internal/domain/listings"
	"weekstay/internal/domain/pricing"
	"weekstay/internal/domain/shared/events"
)

var (
	ErrIllegalTransition = errors.New("proposal: illegal status transition")
	ErrGuestRequired     = errors.New("proposal: guest id required")
	ErrReasonRequired    = errors.New("proposal: a reason is required")
	ErrProposalNotFound  = errors.New("proposal: not found")
)

type ProposalID string

// Proposal is the negotiation between a guest's weekly stay terms and a host.
// The guest-submitted terms are immutable after creation; a host counteroffer
// shadows them until either side resolves it, and the agreed terms are frozen
// on acceptance. Price is the breakdown derived from the currently effective
// terms and is re-derived whenever those terms change.
type Proposal struct {
	ID                 ProposalID
	ListingID          listings.ListingID
	GuestID            string
	Status             Status
	Submitted          ReservationTerms
	Counter            *ReservationTerms
	Agreed             *ReservationTerms
	Price              pricing.CompensationBreakdown
	CancellationReason string
	CreatedAt          time.Time
	UpdatedAt          time.Time
	Version            int64
	events.EventRecorder
}

type Repository interface {
	ByID(ctx context.Context, id ProposalID) (*Proposal, error)
	Save(ctx context.Context, p *Proposal) error
	ListByGuest(ctx context.Context, guestID string) ([]*Proposal, error)
	ListByListing(ctx context.Context, id listings.ListingID) ([]*Proposal, error)
}

type CreateParams struct {
	ID        ProposalID
	ListingID listings.ListingID
	GuestID   string
	Terms     ReservationTerms
	Price     pricing.CompensationBreakdown
	CreatedAt time.Time
}

// NewProposal is the creation transition: a guest submits terms against a
// listing and the proposal starts at the head of the ordered progression.
func NewProposal(params CreateParams) (*Proposal, error) {
	if params.GuestID == "" {
		return nil, ErrGuestRequired
	}
	if err := params.Terms.Validate(); err != nil {
		return nil, err
	}
	now := params.CreatedAt.UTC()
	p := &Proposal{
		ID:        params.ID,
		ListingID: params.ListingID,
		GuestID:   params.GuestID,
		Status:    StatusSubmitted,
		Submitted: params.Terms.Copy(),
		Price:     params.Price,
		CreatedAt: now,
		UpdatedAt: now,
	}
	p.Record(ProposalSubmitted{
		ProposalID: p.ID,
		ListingID:  p.ListingID,
		GuestID:    p.GuestID,
		Terms:      p.Submitted,
		Quoted:     p.Price.NightlyGuestPrice,
		At:         now,
	})
	return p, nil
}

// EffectiveTerms resolves which terms currently govern pricing and display:
// the pending counteroffer while one is on the table, the agreed terms after
// acceptance, and the guest submission otherwise. The result is always one of
// the stored versions, never a merge.
func (p *Proposal) EffectiveTerms() ReservationTerms {
	if p.Status == StatusCountered && p.Counter != nil {
		return *p.Counter
	}
	if p.Agreed != nil {
		return *p.Agreed
	}
	return p.Submitted
}

// RequestApplication parks the proposal until the guest files the rental
// application the host requires.
func (p *Proposal) RequestApplication(now time.Time) error {
	if p.Status != StatusSubmitted {
		return ErrIllegalTransition
	}
	p.setStatus(StatusAwaitingApplication, now)
	p.Record(ApplicationRequested{ProposalID: p.ID, At: p.UpdatedAt})
	return nil
}

// MarkPendingReview queues the proposal for the host without an application
// requirement.
func (p *Proposal) MarkPendingReview(now time.Time) error {
	if p.Status != StatusSubmitted && p.Status != StatusAwaitingApplication {
		return ErrIllegalTransition
	}
	p.setStatus(StatusPendingHostReview, now)
	return nil
}

// AdvanceToReview moves the proposal into host review once the rental
// application step has completed. Valid from any of the early orders.
func (p *Proposal) AdvanceToReview(now time.Time) error {
	if p.Status.Terminal() || p.Status.UsualOrder() > StatusPendingHostReview.UsualOrder() {
		return ErrIllegalTransition
	}
	p.setStatus(StatusHostReview, now)
	p.Record(ReviewStarted{ProposalID: p.ID, At: p.UpdatedAt})
	return nil
}

// Counteroffer stores host-proposed terms that shadow the guest submission
// until resolved. A fresh counteroffer may replace a pending one: the status
// order stays put while the negotiation loops. The caller must pass the
// breakdown re-derived from the new terms.
func (p *Proposal) Counteroffer(terms ReservationTerms, price pricing.CompensationBreakdown, now time.Time) error {
	if p.Status.Terminal() || p.Status.UsualOrder() > StatusCountered.UsualOrder() {
		return ErrIllegalTransition
	}
	if err := terms.Validate(); err != nil {
		return err
	}
	copied := terms.Copy()
	p.Counter = &copied
	p.Price = price
	p.setStatus(StatusCountered, now)
	p.Record(ProposalCountered{ProposalID: p.ID, Terms: copied, At: p.UpdatedAt})
	return nil
}

// Accept resolves the negotiation on the currently effective terms. A pending
// counteroffer is folded into the agreed terms and stops being "pending"; the
// guest submission stays untouched for the audit trail.
func (p *Proposal) Accept(now time.Time) error {
	if p.Status.Terminal() || p.Status.UsualOrder() > StatusCountered.UsualOrder() {
		return ErrIllegalTransition
	}
	agreed := p.EffectiveTerms().Copy()
	p.Agreed = &agreed
	p.Counter = nil
	p.setStatus(StatusAccepted, now)
	p.Record(ProposalAccepted{ProposalID: p.ID, Terms: agreed, At: p.UpdatedAt})
	return nil
}

// SendLease issues the lease documents for signature.
func (p *Proposal) SendLease(now time.Time) error {
	if p.Status != StatusAccepted {
		return ErrIllegalTransition
	}
	p.setStatus(StatusLeaseSent, now)
	p.Record(LeaseSent{ProposalID: p.ID, At: p.UpdatedAt})
	return nil
}

// ConfirmPayment records the initial payment; the lease becomes active and
// the proposal reaches its successful terminal state.
func (p *Proposal) ConfirmPayment(now time.Time) error {
	if p.Status != StatusLeaseSent {
		return ErrIllegalTransition
	}
	p.setStatus(StatusLeaseActive, now)
	p.Record(LeaseActivated{ProposalID: p.ID, Terms: p.EffectiveTerms(), At: p.UpdatedAt})
	return nil
}

// Reject is the host's terminal refusal. The pending counteroffer, if any, is
// discarded; the guest-submitted terms remain on the record.
func (p *Proposal) Reject(reason string, now time.Time) error {
	return p.fail(StatusRejected, reason, now)
}

// CancelByGuest withdraws the proposal on the guest's initiative.
func (p *Proposal) CancelByGuest(reason string, now time.Time) error {
	return p.fail(StatusCancelledByGuest, reason, now)
}

// CancelByPlatform terminates the proposal by platform action (fraud,
// listing takedown, policy violation).
func (p *Proposal) CancelByPlatform(reason string, now time.Time) error {
	return p.fail(StatusCancelledByPlatform, reason, now)
}

func (p *Proposal) fail(status Status, reason string, now time.Time) error {
	if p.Status.Terminal() {
		return ErrIllegalTransition
	}
	if reason == "" {
		return ErrReasonRequired
	}
	p.Counter = nil
	p.CancellationReason = reason
	p.setStatus(status, now)
	p.Record(ProposalClosed{ProposalID: p.ID, Status: status, Reason: reason, At: p.UpdatedAt})
	return nil
}

func (p *Proposal) setStatus(status Status, now time.Time) {
	p.Status = status
	p.UpdatedAt = now.UTC()
}
