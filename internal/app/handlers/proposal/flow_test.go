package proposal_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	proposalapp "weekstay/internal/app/handlers/proposal"
	"weekstay/internal/domain/listings"
	domainpricing "weekstay/internal/domain/pricing"
	domainproposal "weekstay/internal/domain/proposal"
	"weekstay/internal/domain/shared/money"
	"weekstay/internal/infra/storage/memory"
)

type fixedClock struct{ at time.Time }

func (c fixedClock) Now() time.Time { return c.at }

type testEnv struct {
	factory  memory.Factory
	listings *memory.ListingRepository
	outbox   *memory.Outbox
	clock    fixedClock
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	env := testEnv{
		listings: memory.NewListingRepository(),
		outbox:   memory.NewOutbox(),
		clock:    fixedClock{at: time.Date(2026, time.March, 2, 12, 0, 0, 0, time.UTC)},
	}
	env.factory = memory.Factory{
		ListingsRepo:  env.listings,
		ProposalsRepo: memory.NewProposalRepository(),
		PricingSvc:    domainpricing.Engine{},
	}

	listing, err := listings.NewListing(listings.CreateParams{
		ID:        "lst-1",
		Host:      "host-1",
		Title:     "Weekday room",
		City:      "Boston",
		Rules:     []string{"no smoking"},
		Baseline:  money.Must(10000, "USD"),
		CreatedAt: env.clock.at,
	})
	require.NoError(t, err)
	require.NoError(t, listing.Activate(env.clock.at))
	require.NoError(t, env.listings.Save(context.Background(), listing))
	return env
}

func (env testEnv) submit(t *testing.T, days []int, spanWeeks int) *proposalapp.SubmitProposalResult {
	t.Helper()
	h := &proposalapp.SubmitProposalHandler{
		UoWFactory: env.factory,
		Clock:      env.clock,
		Outbox:     env.outbox,
	}
	result, err := h.Handle(context.Background(), proposalapp.SubmitProposalCommand{
		CommandID: "prop-1",
		ListingID: "lst-1",
		GuestID:   "guest-7",
		Days:      days,
		SpanWeeks: spanWeeks,
	})
	require.NoError(t, err)
	return result
}

func TestSubmitProposalDerivesPatternAndQuote(t *testing.T) {
	env := newTestEnv(t)

	result := env.submit(t, []int{1, 2, 3, 4, 5}, 12)

	assert.Equal(t, "prop-1", result.ProposalID)
	assert.Equal(t, 1, result.Payload.CheckInDay)
	assert.Equal(t, 6, result.Payload.CheckOutDay)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, result.Payload.NightsSelected)
	assert.Equal(t, 5, result.Quote.NightsPerWeek)
	assert.Equal(t, int64(11700), result.Quote.NightlyGuestPrice)
	assert.Equal(t, int64(600000), result.Quote.TotalCompensation)

	// move-in defaulted to the clock's date
	assert.Equal(t, time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC), result.Payload.MoveInDate)
}

func TestSubmitProposalRejectsSplitSelections(t *testing.T) {
	env := newTestEnv(t)
	h := &proposalapp.SubmitProposalHandler{UoWFactory: env.factory, Clock: env.clock, Outbox: env.outbox}

	_, err := h.Handle(context.Background(), proposalapp.SubmitProposalCommand{
		CommandID: "prop-split",
		ListingID: "lst-1",
		GuestID:   "guest-7",
		Days:      []int{0, 2, 4},
		SpanWeeks: 4,
	})
	require.Error(t, err)
}

func TestSubmitProposalRejectsSuspendedListing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	listing, err := env.listings.ByID(ctx, "lst-1")
	require.NoError(t, err)
	require.NoError(t, listing.Suspend(env.clock.at))
	require.NoError(t, env.listings.Save(ctx, listing))

	h := &proposalapp.SubmitProposalHandler{UoWFactory: env.factory, Clock: env.clock, Outbox: env.outbox}
	_, err = h.Handle(ctx, proposalapp.SubmitProposalCommand{
		CommandID: "prop-closed",
		ListingID: "lst-1",
		GuestID:   "guest-7",
		Days:      []int{1, 2},
		SpanWeeks: 4,
	})
	assert.ErrorIs(t, err, proposalapp.ErrListingClosed)
}

func TestProposalLifecycleThroughLeaseActivation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.submit(t, []int{1, 2, 3, 4, 5}, 12)

	review := &proposalapp.ReviewHandler{UoWFactory: env.factory, Clock: env.clock, Outbox: env.outbox}
	_, err := review.HandleRequestApplication(ctx, proposalapp.RequestApplicationCommand{ProposalID: "prop-1"})
	require.NoError(t, err)
	advanced, err := review.HandleAdvance(ctx, proposalapp.AdvanceToReviewCommand{ProposalID: "prop-1"})
	require.NoError(t, err)
	assert.Equal(t, string(domainproposal.StatusHostReview), advanced.Status)

	counter := &proposalapp.CounterofferHandler{UoWFactory: env.factory, Clock: env.clock, Outbox: env.outbox}
	countered, err := counter.Handle(ctx, proposalapp.CounterofferCommand{
		ProposalID: "prop-1",
		Days:       []int{1, 2, 3},
		SpanWeeks:  8,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, countered.Quote.NightsPerWeek)
	assert.Equal(t, 8, countered.Terms.SpanWeeks)

	decide := &proposalapp.DecideHandler{UoWFactory: env.factory, Clock: env.clock, Outbox: env.outbox}
	accepted, err := decide.HandleAccept(ctx, proposalapp.AcceptProposalCommand{ProposalID: "prop-1"})
	require.NoError(t, err)
	assert.Equal(t, string(domainproposal.StatusAccepted), accepted.Status)

	lease := &proposalapp.LeaseHandler{UoWFactory: env.factory, Clock: env.clock, Outbox: env.outbox}
	sent, err := lease.HandleSendLease(ctx, proposalapp.SendLeaseCommand{ProposalID: "prop-1"})
	require.NoError(t, err)
	assert.Equal(t, string(domainproposal.StatusLeaseSent), sent.Status)
	active, err := lease.HandleConfirmPayment(ctx, proposalapp.ConfirmPaymentCommand{ProposalID: "prop-1"})
	require.NoError(t, err)
	assert.Equal(t, string(domainproposal.StatusLeaseActive), active.Status)

	// the agreed terms fold in the counteroffer
	get := &proposalapp.GetProposalHandler{UoWFactory: env.factory}
	view, err := get.Handle(ctx, proposalapp.GetProposalQuery{ProposalID: "prop-1"})
	require.NoError(t, err)
	assert.True(t, view.Terminal)
	assert.Equal(t, 8, view.Effective.SpanWeeks)
	assert.Equal(t, []int{1, 2, 3}, view.Effective.Nights)
	assert.Nil(t, view.Counter)
}

func TestRejectAfterCounterKeepsSubmittedTerms(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.submit(t, []int{1, 2, 3, 4, 5}, 12)

	counter := &proposalapp.CounterofferHandler{UoWFactory: env.factory, Clock: env.clock, Outbox: env.outbox}
	_, err := counter.Handle(ctx, proposalapp.CounterofferCommand{ProposalID: "prop-1", Days: []int{1, 2}})
	require.NoError(t, err)

	decide := &proposalapp.DecideHandler{UoWFactory: env.factory, Clock: env.clock, Outbox: env.outbox}
	rejected, err := decide.HandleReject(ctx, proposalapp.RejectProposalCommand{ProposalID: "prop-1", Reason: "dates no longer work"})
	require.NoError(t, err)
	assert.Equal(t, string(domainproposal.StatusRejected), rejected.Status)

	get := &proposalapp.GetProposalHandler{UoWFactory: env.factory}
	view, err := get.Handle(ctx, proposalapp.GetProposalQuery{ProposalID: "prop-1"})
	require.NoError(t, err)
	assert.Nil(t, view.Counter)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, view.Submitted.Nights)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, view.Effective.Nights)
}

func TestCancelRequiresKnownActor(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.submit(t, []int{1, 2}, 4)

	decide := &proposalapp.DecideHandler{UoWFactory: env.factory, Clock: env.clock, Outbox: env.outbox}
	_, err := decide.HandleCancel(ctx, proposalapp.CancelProposalCommand{ProposalID: "prop-1", Actor: "stranger", Reason: "x"})
	assert.ErrorIs(t, err, proposalapp.ErrUnknownCancelActor)

	cancelled, err := decide.HandleCancel(ctx, proposalapp.CancelProposalCommand{
		ProposalID: "prop-1",
		Actor:      proposalapp.CancelActorGuest,
		Reason:     "found another place",
	})
	require.NoError(t, err)
	assert.Equal(t, string(domainproposal.StatusCancelledByGuest), cancelled.Status)
}

func TestListProposalsByGuest(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.submit(t, []int{1, 2, 3}, 6)

	list := &proposalapp.ListProposalsHandler{UoWFactory: env.factory}
	result, err := list.HandleByGuest(ctx, proposalapp.ListGuestProposalsQuery{GuestID: "guest-7"})
	require.NoError(t, err)
	require.Equal(t, 1, result.Total)
	assert.Equal(t, "prop-1", result.Items[0].ID)

	empty, err := list.HandleByGuest(ctx, proposalapp.ListGuestProposalsQuery{GuestID: "guest-unknown"})
	require.NoError(t, err)
	assert.Zero(t, empty.Total)
}
