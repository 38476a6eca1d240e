package proposal

import (
	"context"
	"errors"
	"time"

	"weekstay/internal/app/commands"
	"weekstay/internal/app/middleware"
	"weekstay/internal/app/outbox"
	"weekstay/internal/app/policies"
	"weekstay/internal/app/submission"
	"weekstay/internal/app/uow"
	domainlistings "weekstay/internal/domain/listings"
	domainpricing "weekstay/internal/domain/pricing"
	domainproposal "weekstay/internal/domain/proposal"
	"weekstay/internal/domain/schedule"
)

const submitProposalKey = "proposal.submit"

var ErrListingClosed = errors.New("proposal: listing does not accept proposals")

type SubmitProposalCommand struct {
	CommandID       string
	ListingID       string
	GuestID         string
	Days            []int
	MoveIn          time.Time
	SpanWeeks       int
	HouseRules      []string
	IdempotencyKeyV string
}

func (c SubmitProposalCommand) Key() string { return submitProposalKey }

func (c SubmitProposalCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c SubmitProposalCommand) ResultPrototype() any { return &SubmitProposalResult{} }

func (c SubmitProposalCommand) Validate() error {
	if c.GuestID == "" {
		return domainproposal.ErrGuestRequired
	}
	if len(c.Days) == 0 {
		return submission.ErrNoDaysSelected
	}
	if c.SpanWeeks < 1 {
		return domainproposal.ErrSpanTooShort
	}
	return nil
}

type SubmitProposalResult struct {
	ProposalID string             `json:"proposal_id"`
	Payload    submission.Payload `json:"payload"`
	Quote      QuoteView          `json:"quote"`
}

type SubmitProposalHandler struct {
	UoWFactory uow.UoWFactory
	Clock      policies.Clock
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
}

func (h *SubmitProposalHandler) Handle(ctx context.Context, cmd SubmitProposalCommand) (*SubmitProposalResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	now := policies.NowOr(h.Clock)

	set := schedule.WeekdaySet(0)
	for _, d := range cmd.Days {
		set = set.Add(schedule.Weekday(d))
	}
	payload, pattern, err := submission.Build(submission.Input{
		ListingID:  cmd.ListingID,
		GuestID:    cmd.GuestID,
		Days:       set,
		MoveIn:     cmd.MoveIn,
		SpanWeeks:  cmd.SpanWeeks,
		HouseRules: cmd.HouseRules,
	}, now)
	if err != nil {
		return nil, err
	}

	var result *SubmitProposalResult
	err = runInUnit(ctx, h.UoWFactory, func(ctx context.Context, unit uow.UnitOfWork) error {
		listing, err := unit.Listings().ByID(ctx, domainlistings.ListingID(cmd.ListingID))
		if err != nil {
			return err
		}
		if !listing.AcceptsProposals() {
			return ErrListingClosed
		}

		quote, err := unit.Pricing().Quote(ctx, domainpricing.QuoteInput{
			Rates:     listing.Rates,
			Pattern:   pattern,
			SpanWeeks: cmd.SpanWeeks,
		})
		if err != nil {
			return err
		}

		p, err := domainproposal.NewProposal(domainproposal.CreateParams{
			ID:        domainproposal.ProposalID(cmd.CommandID),
			ListingID: listing.ID,
			GuestID:   cmd.GuestID,
			Terms: domainproposal.ReservationTerms{
				MoveIn:     payload.MoveInDate,
				Pattern:    pattern,
				SpanWeeks:  cmd.SpanWeeks,
				HouseRules: payload.HouseRules,
			},
			Price:     quote,
			CreatedAt: now,
		})
		if err != nil {
			return err
		}

		if err := unit.Proposals().Save(ctx, p); err != nil {
			return err
		}
		pending := p.PendingEvents()
		p.ClearEvents()
		if err := outbox.RecordDomainEvents(ctx, h.Outbox, defaultEncoder(h.Encoder), pending); err != nil {
			return err
		}

		result = &SubmitProposalResult{
			ProposalID: string(p.ID),
			Payload:    payload,
			Quote:      newQuoteView(quote),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

var _ commands.Handler[SubmitProposalCommand, *SubmitProposalResult] = (*SubmitProposalHandler)(nil)
var _ middleware.IdempotentCommand = SubmitProposalCommand{}
