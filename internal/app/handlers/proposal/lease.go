package proposal

import (
	"context"

	"weekstay/internal/app/middleware"
	"weekstay/internal/app/outbox"
	"weekstay/internal/app/policies"
	"weekstay/internal/app/uow"
	domainproposal "weekstay/internal/domain/proposal"
)

const (
	sendLeaseKey      = "proposal.send_lease"
	confirmPaymentKey = "proposal.confirm_payment"
)

type SendLeaseCommand struct {
	ProposalID      string
	IdempotencyKeyV string
}

func (c SendLeaseCommand) Key() string            { return sendLeaseKey }
func (c SendLeaseCommand) IdempotencyKey() string { return c.IdempotencyKeyV }
func (c SendLeaseCommand) ResultPrototype() any   { return &TransitionResult{} }

type ConfirmPaymentCommand struct {
	ProposalID      string
	IdempotencyKeyV string
}

func (c ConfirmPaymentCommand) Key() string            { return confirmPaymentKey }
func (c ConfirmPaymentCommand) IdempotencyKey() string { return c.IdempotencyKeyV }
func (c ConfirmPaymentCommand) ResultPrototype() any   { return &TransitionResult{} }

// LeaseHandler covers the post-acceptance tail of the lifecycle: sending the
// lease documents and activating the lease on initial payment.
type LeaseHandler struct {
	UoWFactory uow.UoWFactory
	Clock      policies.Clock
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
}

func (h *LeaseHandler) HandleSendLease(ctx context.Context, cmd SendLeaseCommand) (*TransitionResult, error) {
	return h.apply(ctx, cmd.ProposalID, func(p *domainproposal.Proposal) error {
		return p.SendLease(policies.NowOr(h.Clock))
	})
}

func (h *LeaseHandler) HandleConfirmPayment(ctx context.Context, cmd ConfirmPaymentCommand) (*TransitionResult, error) {
	return h.apply(ctx, cmd.ProposalID, func(p *domainproposal.Proposal) error {
		return p.ConfirmPayment(policies.NowOr(h.Clock))
	})
}

func (h *LeaseHandler) apply(ctx context.Context, id string, transition func(p *domainproposal.Proposal) error) (*TransitionResult, error) {
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

var (
	_ middleware.IdempotentCommand = SendLeaseCommand{}
	_ middleware.IdempotentCommand = ConfirmPaymentCommand{}
)
