package proposal

import (
	"context"
	"time"

	"weekstay/internal/app/commands"
	"weekstay/internal/app/middleware"
	"weekstay/internal/app/outbox"
	"weekstay/internal/app/policies"
	"weekstay/internal/app/uow"
	domainpricing "weekstay/internal/domain/pricing"
	domainproposal "weekstay/internal/domain/proposal"
	"weekstay/internal/domain/schedule"
)

const counterofferKey = "proposal.counteroffer"

// CounterofferCommand carries the host's alternative terms. Any field left at
// its zero value inherits from the proposal's currently effective terms, so a
// host can counter just the span or just the pattern.
type CounterofferCommand struct {
	ProposalID      string
	Days            []int
	MoveIn          time.Time
	SpanWeeks       int
	HouseRules      []string
	IdempotencyKeyV string
}

func (c CounterofferCommand) Key() string { return counterofferKey }

func (c CounterofferCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c CounterofferCommand) ResultPrototype() any { return &CounterofferResult{} }

type CounterofferResult struct {
	ProposalID string    `json:"proposal_id"`
	Terms      TermsView `json:"terms"`
	Quote      QuoteView `json:"quote"`
}

type CounterofferHandler struct {
	UoWFactory uow.UoWFactory
	Clock      policies.Clock
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
}

func (h *CounterofferHandler) Handle(ctx context.Context, cmd CounterofferCommand) (*CounterofferResult, error) {
	now := policies.NowOr(h.Clock)

	var result *CounterofferResult
	err := runInUnit(ctx, h.UoWFactory, func(ctx context.Context, unit uow.UnitOfWork) error {
		p, err := unit.Proposals().ByID(ctx, domainproposal.ProposalID(cmd.ProposalID))
		if err != nil {
			return err
		}
		listing, err := unit.Listings().ByID(ctx, p.ListingID)
		if err != nil {
			return err
		}

		base := p.EffectiveTerms()
		terms, err := counterTerms(base, cmd)
		if err != nil {
			return err
		}

		quote, err := unit.Pricing().Quote(ctx, domainpricing.QuoteInput{
			Rates:     listing.Rates,
			Pattern:   terms.Pattern,
			SpanWeeks: terms.SpanWeeks,
		})
		if err != nil {
			return err
		}

		if err := p.Counteroffer(terms, quote, now); err != nil {
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

		result = &CounterofferResult{
			ProposalID: string(p.ID),
			Terms:      newTermsView(terms),
			Quote:      newQuoteView(quote),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func counterTerms(base domainproposal.ReservationTerms, cmd CounterofferCommand) (domainproposal.ReservationTerms, error) {
	terms := base.Copy()
	if len(cmd.Days) > 0 {
		set := schedule.WeekdaySet(0)
		for _, d := range cmd.Days {
			set = set.Add(schedule.Weekday(d))
		}
		pattern, err := schedule.Resolve(set)
		if err != nil {
			return domainproposal.ReservationTerms{}, err
		}
		terms.Pattern = pattern
	}
	if !cmd.MoveIn.IsZero() {
		terms.MoveIn = cmd.MoveIn.UTC()
	}
	if cmd.SpanWeeks > 0 {
		terms.SpanWeeks = cmd.SpanWeeks
	}
	if cmd.HouseRules != nil {
		terms.HouseRules = append([]string(nil), cmd.HouseRules...)
	}
	return terms, nil
}

var _ commands.Handler[CounterofferCommand, *CounterofferResult] = (*CounterofferHandler)(nil)
var _ middleware.IdempotentCommand = CounterofferCommand{}
