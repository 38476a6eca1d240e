package proposal

import (
	"context"
	"errors"

	"weekstay/internal/app/commands"
	"weekstay/internal/app/middleware"
	"weekstay/internal/app/outbox"
	"weekstay/internal/app/policies"
	"weekstay/internal/app/uow"
	domainproposal "weekstay/internal/domain/proposal"
)

const (
	acceptProposalKey = "proposal.accept"
	rejectProposalKey = "proposal.reject"
	cancelProposalKey = "proposal.cancel"
)

// CancelActor identifies who is withdrawing the proposal.
type CancelActor string

const (
	CancelActorGuest    CancelActor = "guest"
	CancelActorPlatform CancelActor = "platform"
)

var ErrUnknownCancelActor = errors.New("proposal: unknown cancel actor")

type AcceptProposalCommand struct {
	ProposalID      string
	IdempotencyKeyV string
}

func (c AcceptProposalCommand) Key() string            { return acceptProposalKey }
func (c AcceptProposalCommand) IdempotencyKey() string { return c.IdempotencyKeyV }
func (c AcceptProposalCommand) ResultPrototype() any   { return &TransitionResult{} }

type RejectProposalCommand struct {
	ProposalID      string
	Reason          string
	IdempotencyKeyV string
}

func (c RejectProposalCommand) Key() string            { return rejectProposalKey }
func (c RejectProposalCommand) IdempotencyKey() string { return c.IdempotencyKeyV }
func (c RejectProposalCommand) ResultPrototype() any   { return &TransitionResult{} }

type CancelProposalCommand struct {
	ProposalID      string
	Actor           CancelActor
	Reason          string
	IdempotencyKeyV string
}

func (c CancelProposalCommand) Key() string            { return cancelProposalKey }
func (c CancelProposalCommand) IdempotencyKey() string { return c.IdempotencyKeyV }
func (c CancelProposalCommand) ResultPrototype() any   { return &TransitionResult{} }

// TransitionResult reports the proposal's status after a lifecycle action.
type TransitionResult struct {
	ProposalID  string `json:"proposal_id"`
	Status      string `json:"status"`
	StatusLabel string `json:"status_label"`
	StatusOrder int    `json:"status_order"`
	Terminal    bool   `json:"terminal"`
}

func newTransitionResult(p *domainproposal.Proposal) *TransitionResult {
	return &TransitionResult{
		ProposalID:  string(p.ID),
		Status:      string(p.Status),
		StatusLabel: p.Status.Label(),
		StatusOrder: p.Status.UsualOrder(),
		Terminal:    p.Status.Terminal(),
	}
}

// DecideHandler serves the accept/reject/cancel actions on one proposal.
type DecideHandler struct {
	UoWFactory uow.UoWFactory
	Clock      policies.Clock
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Notifier   policies.Notifier
}

func (h *DecideHandler) HandleAccept(ctx context.Context, cmd AcceptProposalCommand) (*TransitionResult, error) {
	return h.apply(ctx, cmd.ProposalID, func(p *domainproposal.Proposal) error {
		return p.Accept(policies.NowOr(h.Clock))
	})
}

func (h *DecideHandler) HandleReject(ctx context.Context, cmd RejectProposalCommand) (*TransitionResult, error) {
	return h.apply(ctx, cmd.ProposalID, func(p *domainproposal.Proposal) error {
		return p.Reject(cmd.Reason, policies.NowOr(h.Clock))
	})
}

func (h *DecideHandler) HandleCancel(ctx context.Context, cmd CancelProposalCommand) (*TransitionResult, error) {
	now := policies.NowOr(h.Clock)
	var transition func(p *domainproposal.Proposal) error
	switch cmd.Actor {
	case CancelActorGuest:
		transition = func(p *domainproposal.Proposal) error { return p.CancelByGuest(cmd.Reason, now) }
	case CancelActorPlatform:
		transition = func(p *domainproposal.Proposal) error { return p.CancelByPlatform(cmd.Reason, now) }
	default:
		return nil, ErrUnknownCancelActor
	}
	return h.apply(ctx, cmd.ProposalID, transition)
}

func (h *DecideHandler) apply(ctx context.Context, id string, transition func(p *domainproposal.Proposal) error) (*TransitionResult, error) {
	var result *TransitionResult
	var guestID string
	err := runInUnit(ctx, h.UoWFactory, func(ctx context.Context, unit uow.UnitOfWork) error {
		p, err := applyTransition(ctx, unit, h.Outbox, defaultEncoder(h.Encoder), domainproposal.ProposalID(id), transition)
		if err != nil {
			return err
		}
		guestID = p.GuestID
		result = newTransitionResult(p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if h.Notifier != nil {
		// best effort, the transition is already committed
		_ = h.Notifier.Send(ctx, guestID, "proposal.status_changed", result)
	}
	return result, nil
}

var (
	_ commands.Handler[AcceptProposalCommand, *TransitionResult] = commands.HandlerFunc[AcceptProposalCommand, *TransitionResult]((&DecideHandler{}).HandleAccept)
	_ middleware.IdempotentCommand                               = AcceptProposalCommand{}
	_ middleware.IdempotentCommand                               = RejectProposalCommand{}
	_ middleware.IdempotentCommand                               = CancelProposalCommand{}
)
