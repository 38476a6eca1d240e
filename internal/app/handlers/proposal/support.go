package proposal

import (
	"context"
	"errors"

	"weekstay/internal/app/outbox"
	"weekstay/internal/app/uow"
	domainproposal "weekstay/internal/domain/proposal"
)

var ErrUnitOfWorkRequired = errors.New("proposal: unit of work required")

// runInUnit executes fn inside the ambient unit of work, or begins and commits
// a dedicated one when the command was dispatched without the transaction
// middleware.
func runInUnit(ctx context.Context, factory uow.UoWFactory, fn func(ctx context.Context, unit uow.UnitOfWork) error) error {
	if unit, ok := uow.FromContext(ctx); ok {
		return fn(ctx, unit)
	}
	if factory == nil {
		return ErrUnitOfWorkRequired
	}
	unit, err := factory.Begin(ctx, uow.TxOptions{})
	if err != nil {
		return err
	}
	ctx = uow.ContextWithUnitOfWork(ctx, unit)
	committed := false
	defer func() {
		if !committed {
			_ = unit.Rollback(ctx)
		}
	}()
	if err := fn(ctx, unit); err != nil {
		return err
	}
	if err := unit.Commit(ctx); err != nil {
		return err
	}
	committed = true
	return nil
}

// applyTransition loads the proposal, applies the transition, saves it and
// stages the recorded events. Transition failures leave the store untouched.
func applyTransition(ctx context.Context, unit uow.UnitOfWork, box outbox.Outbox, encoder outbox.EventEncoder, id domainproposal.ProposalID, transition func(p *domainproposal.Proposal) error) (*domainproposal.Proposal, error) {
	p, err := unit.Proposals().ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := transition(p); err != nil {
		return nil, err
	}
	if err := unit.Proposals().Save(ctx, p); err != nil {
		return nil, err
	}
	pending := p.PendingEvents()
	p.ClearEvents()
	if err := outbox.RecordDomainEvents(ctx, box, encoder, pending); err != nil {
		return nil, err
	}
	return p, nil
}

func defaultEncoder(enc outbox.EventEncoder) outbox.EventEncoder {
	if enc != nil {
		return enc
	}
	return outbox.JSONEventEncoder{}
}
