package proposal

import (
	"context"

	"weekstay/internal/app/commands"
	"weekstay/internal/app/outbox"
	"weekstay/internal/app/policies"
	"weekstay/internal/app/uow"
	domainproposal "weekstay/internal/domain/proposal"
)

const (
	requestApplicationKey = "proposal.request_application"
	advanceToReviewKey    = "proposal.advance_to_review"
)

// RequestApplicationCommand parks a fresh proposal until the guest files the
// rental application.
type RequestApplicationCommand struct {
	ProposalID string
}

func (c RequestApplicationCommand) Key() string { return requestApplicationKey }

// AdvanceToReviewCommand moves a proposal into host review. It is dispatched
// by the API and by the application-events consumer when the external
// screening service reports a completed rental application.
type AdvanceToReviewCommand struct {
	ProposalID string
}

func (c AdvanceToReviewCommand) Key() string { return advanceToReviewKey }

type ReviewHandler struct {
	UoWFactory uow.UoWFactory
	Clock      policies.Clock
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
}

func (h *ReviewHandler) HandleRequestApplication(ctx context.Context, cmd RequestApplicationCommand) (*TransitionResult, error) {
	return h.apply(ctx, cmd.ProposalID, func(p *domainproposal.Proposal) error {
		return p.RequestApplication(policies.NowOr(h.Clock))
	})
}

func (h *ReviewHandler) HandleAdvance(ctx context.Context, cmd AdvanceToReviewCommand) (*TransitionResult, error) {
	return h.apply(ctx, cmd.ProposalID, func(p *domainproposal.Proposal) error {
		return p.AdvanceToReview(policies.NowOr(h.Clock))
	})
}

func (h *ReviewHandler) apply(ctx context.Context, id string, transition func(p *domainproposal.Proposal) error) (*TransitionResult, error) {
	var result *TransitionResult
	err := runInUnit(ctx, h.UoWFactory, func(ctx context.Context, unit uow.UnitOfWork) error {
		p, err := applyTransition(ctx, unit, h.Outbox, defaultEncoder(h.Encoder), domainproposal.ProposalID(id), transition)
		if err != nil {
			return err
		}
		result = newTransitionResult(p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

var _ commands.Handler[AdvanceToReviewCommand, *TransitionResult] = commands.HandlerFunc[AdvanceToReviewCommand, *TransitionResult]((&ReviewHandler{}).HandleAdvance)
