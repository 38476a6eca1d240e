package ginserver

import (
	"errors"
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"weekstay/internal/app/commands"
	proposalapp "weekstay/internal/app/handlers/proposal"
	"weekstay/internal/app/queries"
	"weekstay/internal/app/submission"
	domainlistings "weekstay/internal/domain/listings"
	domainproposal "weekstay/internal/domain/proposal"
	"weekstay/internal/domain/schedule"
)

type ProposalHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
}

type submitProposalRequest struct {
	ListingID  string    `json:"listing_id"`
	Days       []int     `json:"days"`
	MoveIn     time.Time `json:"move_in"`
	SpanWeeks  int       `json:"span_weeks"`
	HouseRules []string  `json:"house_rules"`
}

func (h ProposalHandler) Submit(c *gin.Context) {
	user, ok := requireRole(c, "")
	if !ok {
		return
	}
	var req submitProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := proposalapp.SubmitProposalCommand{
		CommandID:       generateCommandID(),
		ListingID:       req.ListingID,
		GuestID:         user.ID,
		Days:            req.Days,
		MoveIn:          req.MoveIn,
		SpanWeeks:       req.SpanWeeks,
		HouseRules:      req.HouseRules,
		IdempotencyKeyV: c.GetHeader("Idempotency-Key"),
	}
	result, err := commands.Dispatch[proposalapp.SubmitProposalCommand, *proposalapp.SubmitProposalResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

type counterofferRequest struct {
	Days       []int     `json:"days"`
	MoveIn     time.Time `json:"move_in"`
	SpanWeeks  int       `json:"span_weeks"`
	HouseRules []string  `json:"house_rules"`
}

func (h ProposalHandler) Counteroffer(c *gin.Context) {
	if _, ok := requireRole(c, "host"); !ok {
		return
	}
	var req counterofferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := proposalapp.CounterofferCommand{
		ProposalID:      c.Param("id"),
		Days:            req.Days,
		MoveIn:          req.MoveIn,
		SpanWeeks:       req.SpanWeeks,
		HouseRules:      req.HouseRules,
		IdempotencyKeyV: c.GetHeader("Idempotency-Key"),
	}
	result, err := commands.Dispatch[proposalapp.CounterofferCommand, *proposalapp.CounterofferResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h ProposalHandler) Accept(c *gin.Context) {
	if _, ok := requireRole(c, ""); !ok {
		return
	}
	cmd := proposalapp.AcceptProposalCommand{
		ProposalID:      c.Param("id"),
		IdempotencyKeyV: c.GetHeader("Idempotency-Key"),
	}
	result, err := commands.Dispatch[proposalapp.AcceptProposalCommand, *proposalapp.TransitionResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type reasonRequest struct {
	Reason string `json:"reason"`
}

func (h ProposalHandler) Reject(c *gin.Context) {
	if _, ok := requireRole(c, "host"); !ok {
		return
	}
	var req reasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := proposalapp.RejectProposalCommand{
		ProposalID:      c.Param("id"),
		Reason:          req.Reason,
		IdempotencyKeyV: c.GetHeader("Idempotency-Key"),
	}
	result, err := commands.Dispatch[proposalapp.RejectProposalCommand, *proposalapp.TransitionResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h ProposalHandler) Cancel(c *gin.Context) {
	user, ok := requireRole(c, "")
	if !ok {
		return
	}
	var req reasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	actor := proposalapp.CancelActorGuest
	if user.HasRole("platform") {
		actor = proposalapp.CancelActorPlatform
	}
	cmd := proposalapp.CancelProposalCommand{
		ProposalID:      c.Param("id"),
		Actor:           actor,
		Reason:          req.Reason,
		IdempotencyKeyV: c.GetHeader("Idempotency-Key"),
	}
	result, err := commands.Dispatch[proposalapp.CancelProposalCommand, *proposalapp.TransitionResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h ProposalHandler) SendLease(c *gin.Context) {
	if _, ok := requireRole(c, "host"); !ok {
		return
	}
	cmd := proposalapp.SendLeaseCommand{
		ProposalID:      c.Param("id"),
		IdempotencyKeyV: c.GetHeader("Idempotency-Key"),
	}
	result, err := commands.Dispatch[proposalapp.SendLeaseCommand, *proposalapp.TransitionResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h ProposalHandler) ConfirmPayment(c *gin.Context) {
	if _, ok := requireRole(c, ""); !ok {
		return
	}
	cmd := proposalapp.ConfirmPaymentCommand{
		ProposalID:      c.Param("id"),
		IdempotencyKeyV: c.GetHeader("Idempotency-Key"),
	}
	result, err := commands.Dispatch[proposalapp.ConfirmPaymentCommand, *proposalapp.TransitionResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ApplicationReceived is the manual fallback for the screening callback that
// normally arrives over the application events topic.
func (h ProposalHandler) ApplicationReceived(c *gin.Context) {
	if _, ok := requireRole(c, "platform"); !ok {
		return
	}
	cmd := proposalapp.AdvanceToReviewCommand{ProposalID: c.Param("id")}
	result, err := commands.Dispatch[proposalapp.AdvanceToReviewCommand, *proposalapp.TransitionResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h ProposalHandler) Get(c *gin.Context) {
	if _, ok := requireRole(c, ""); !ok {
		return
	}
	q := proposalapp.GetProposalQuery{ProposalID: c.Param("id")}
	view, err := queries.Ask[proposalapp.GetProposalQuery, *proposalapp.ProposalView](c.Request.Context(), h.Queries, q)
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h ProposalHandler) ListMine(c *gin.Context) {
	user, ok := requireRole(c, "")
	if !ok {
		return
	}
	q := proposalapp.ListGuestProposalsQuery{GuestID: user.ID}
	result, err := queries.Ask[proposalapp.ListGuestProposalsQuery, *proposalapp.ListResult](c.Request.Context(), h.Queries, q)
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h ProposalHandler) ListForListing(c *gin.Context) {
	if _, ok := requireRole(c, "host"); !ok {
		return
	}
	q := proposalapp.ListListingProposalsQuery{ListingID: c.Param("id")}
	result, err := queries.Ask[proposalapp.ListListingProposalsQuery, *proposalapp.ListResult](c.Request.Context(), h.Queries, q)
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h ProposalHandler) respondWithError(c *gin.Context, err error) {
	c.JSON(statusForError(err), gin.H{"error": err.Error()})
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, domainproposal.ErrProposalNotFound),
		errors.Is(err, domainlistings.ErrListingNotFound):
		return http.StatusNotFound
	case errors.Is(err, domainproposal.ErrIllegalTransition),
		errors.Is(err, proposalapp.ErrListingClosed):
		return http.StatusConflict
	case errors.Is(err, schedule.ErrEmptySelection),
		errors.Is(err, schedule.ErrSplitSelection),
		errors.Is(err, submission.ErrNoDaysSelected),
		errors.Is(err, domainproposal.ErrMoveInRequired),
		errors.Is(err, domainproposal.ErrSpanTooShort),
		errors.Is(err, domainproposal.ErrPatternEmpty),
		errors.Is(err, domainproposal.ErrReasonRequired),
		errors.Is(err, domainproposal.ErrGuestRequired),
		errors.Is(err, proposalapp.ErrUnknownCancelActor):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func generateCommandID() string {
	return uuid.NewString()
}

var _ ProposalHTTP = ProposalHandler{}
