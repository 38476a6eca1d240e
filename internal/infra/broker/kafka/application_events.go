package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/IBM/sarama"

	"weekstay/internal/app/commands"
	proposalapp "weekstay/internal/app/handlers/proposal"
	domainproposal "weekstay/internal/domain/proposal"
)

// applicationEvent is the wire shape published by the screening service when
// a guest's rental application changes state.
type applicationEvent struct {
	Type       string `json:"type"`
	ProposalID string `json:"proposal_id"`
}

const applicationCompleted = "application.completed"

// ApplicationEventsHandler advances proposals out of the awaiting-application
// hold when the screening service reports a completed rental application.
type ApplicationEventsHandler struct {
	Commands commands.Bus
	Logger   *slog.Logger
}

func (h ApplicationEventsHandler) Handle(ctx context.Context, msg *sarama.ConsumerMessage) error {
	var event applicationEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		h.log().Warn("discarding malformed application event", "topic", msg.Topic, "offset", msg.Offset, "error", err)
		return nil
	}
	if event.Type != applicationCompleted {
		return nil
	}
	if event.ProposalID == "" {
		h.log().Warn("application event without proposal id", "topic", msg.Topic, "offset", msg.Offset)
		return nil
	}
	cmd := proposalapp.AdvanceToReviewCommand{ProposalID: event.ProposalID}
	_, err := commands.Dispatch[proposalapp.AdvanceToReviewCommand, *proposalapp.TransitionResult](ctx, h.Commands, cmd)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domainproposal.ErrProposalNotFound):
		// unknown proposal, probably another service's event
		return nil
	case errors.Is(err, domainproposal.ErrIllegalTransition):
		// already past review, redelivery after a manual advance
		return nil
	default:
		h.log().Error("advance to review failed", "proposal_id", event.ProposalID, "error", err)
		return err
	}
}

func (h ApplicationEventsHandler) log() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

var _ MessageHandler = ApplicationEventsHandler{}
