package proposal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weekstay/internal/domain/pricing"
	"weekstay/internal/domain/schedule"
	"weekstay/internal/domain/shared/money"
)

var testNow = time.Date(2026, time.March, 2, 12, 0, 0, 0, time.UTC)

func mustPattern(t *testing.T, days ...schedule.Weekday) schedule.Pattern {
	t.Helper()
	p, err := schedule.Resolve(schedule.NewWeekdaySet(days...))
	require.NoError(t, err)
	return p
}

func testTerms(t *testing.T, spanWeeks int, days ...schedule.Weekday) ReservationTerms {
	t.Helper()
	return ReservationTerms{
		MoveIn:     testNow.AddDate(0, 0, 7),
		Pattern:    mustPattern(t, days...),
		SpanWeeks:  spanWeeks,
		HouseRules: []string{"no-smoking"},
	}
}

func testBreakdown(t *testing.T, terms ReservationTerms) pricing.CompensationBreakdown {
	t.Helper()
	b, err := pricing.Compute(money.Must(10000, "USD"), terms.Pattern.NightsPerWeek(), terms.SpanWeeks)
	require.NoError(t, err)
	return b
}

func newTestProposal(t *testing.T) *Proposal {
	t.Helper()
	terms := testTerms(t, 12, schedule.Monday, schedule.Tuesday, schedule.Wednesday, schedule.Thursday, schedule.Friday)
	p, err := NewProposal(CreateParams{
		ID:        "prop-1",
		ListingID: "listing-1",
		GuestID:   "guest-1",
		Terms:     terms,
		Price:     testBreakdown(t, terms),
		CreatedAt: testNow,
	})
	require.NoError(t, err)
	return p
}

func TestNewProposalStartsSubmitted(t *testing.T) {
	p := newTestProposal(t)
	assert.Equal(t, StatusSubmitted, p.Status)
	assert.Equal(t, 0, p.Status.UsualOrder())
	assert.True(t, p.Status.Pending())

	events := p.PendingEvents()
	require.Len(t, events, 1)
	assert.Equal(t, "proposal.submitted", events[0].EventName())
}

func TestNewProposalValidation(t *testing.T) {
	terms := testTerms(t, 12, schedule.Monday)
	_, err := NewProposal(CreateParams{ID: "p", ListingID: "l", Terms: terms, CreatedAt: testNow})
	assert.ErrorIs(t, err, ErrGuestRequired)

	terms.SpanWeeks = 0
	_, err = NewProposal(CreateParams{ID: "p", ListingID: "l", GuestID: "g", Terms: terms, CreatedAt: testNow})
	assert.ErrorIs(t, err, ErrSpanTooShort)
}

func TestFullSuccessfulLifecycle(t *testing.T) {
	p := newTestProposal(t)
	lastOrder := p.Status.UsualOrder()

	steps := []func(time.Time) error{
		p.RequestApplication,
		p.MarkPendingReview,
		p.AdvanceToReview,
		p.Accept,
		p.SendLease,
		p.ConfirmPayment,
	}
	for i, step := range steps {
		require.NoError(t, step(testNow.Add(time.Duration(i)*time.Hour)))
		order := p.Status.UsualOrder()
		assert.GreaterOrEqual(t, order, lastOrder)
		lastOrder = order
	}

	assert.Equal(t, StatusLeaseActive, p.Status)
	assert.True(t, p.Status.Terminal())
	assert.True(t, p.Status.Succeeded())
	assert.Equal(t, 7, p.Status.UsualOrder())
}

func TestCounterofferShadowsSubmittedTerms(t *testing.T) {
	p := newTestProposal(t)
	require.NoError(t, p.AdvanceToReview(testNow))

	counter := testTerms(t, 10, schedule.Monday, schedule.Tuesday, schedule.Wednesday)
	require.NoError(t, p.Counteroffer(counter, testBreakdown(t, counter), testNow))

	assert.Equal(t, StatusCountered, p.Status)
	effective := p.EffectiveTerms()
	assert.Equal(t, 10, effective.SpanWeeks)
	assert.Equal(t, 3, effective.Pattern.NightsPerWeek())
	// The original submission is untouched.
	assert.Equal(t, 12, p.Submitted.SpanWeeks)
	assert.Equal(t, 5, p.Submitted.Pattern.NightsPerWeek())
}

func TestCounterofferReentryKeepsOrder(t *testing.T) {
	p := newTestProposal(t)
	first := testTerms(t, 10, schedule.Monday, schedule.Tuesday)
	require.NoError(t, p.Counteroffer(first, testBreakdown(t, first), testNow))
	assert.Equal(t, 4, p.Status.UsualOrder())

	second := testTerms(t, 8, schedule.Friday, schedule.Saturday, schedule.Sunday)
	require.NoError(t, p.Counteroffer(second, testBreakdown(t, second), testNow))
	assert.Equal(t, 4, p.Status.UsualOrder())
	assert.Equal(t, 8, p.EffectiveTerms().SpanWeeks)
	assert.True(t, p.EffectiveTerms().Pattern.WrapsWeek)
}

func TestAcceptFoldsCounterofferIntoAgreedTerms(t *testing.T) {
	p := newTestProposal(t)
	counter := testTerms(t, 10, schedule.Monday, schedule.Tuesday, schedule.Wednesday)
	require.NoError(t, p.Counteroffer(counter, testBreakdown(t, counter), testNow))
	require.NoError(t, p.Accept(testNow))

	assert.Equal(t, StatusAccepted, p.Status)
	assert.Nil(t, p.Counter)
	require.NotNil(t, p.Agreed)
	assert.Equal(t, counter.Pattern.Nights, p.Agreed.Pattern.Nights)
	assert.Equal(t, counter.Pattern.Nights, p.EffectiveTerms().Pattern.Nights)
	// Audit trail: the guest submission survives acceptance of other terms.
	assert.Equal(t, 12, p.Submitted.SpanWeeks)
}

func TestAcceptWithoutCounterKeepsSubmittedTerms(t *testing.T) {
	p := newTestProposal(t)
	require.NoError(t, p.Accept(testNow))
	assert.Equal(t, p.Submitted.Pattern.Nights, p.EffectiveTerms().Pattern.Nights)
	assert.Equal(t, p.Submitted.SpanWeeks, p.EffectiveTerms().SpanWeeks)
}

func TestRejectAfterCounterofferDiscardsShadowTerms(t *testing.T) {
	p := newTestProposal(t)
	require.NoError(t, p.AdvanceToReview(testNow))
	counter := testTerms(t, 10, schedule.Monday, schedule.Tuesday, schedule.Wednesday)
	require.NoError(t, p.Counteroffer(counter, testBreakdown(t, counter), testNow))

	require.NoError(t, p.Reject("unit no longer available", testNow))
	assert.Equal(t, StatusRejected, p.Status)
	assert.True(t, p.Status.Terminal())
	assert.False(t, p.Status.Succeeded())
	assert.Nil(t, p.Counter)
	assert.Equal(t, "unit no longer available", p.CancellationReason)
	// Effective terms fall back to the original submission.
	assert.Equal(t, 12, p.EffectiveTerms().SpanWeeks)
}

func TestCancellationVariants(t *testing.T) {
	byGuest := newTestProposal(t)
	require.NoError(t, byGuest.CancelByGuest("found another place", testNow))
	assert.Equal(t, StatusCancelledByGuest, byGuest.Status)

	byPlatform := newTestProposal(t)
	require.NoError(t, byPlatform.CancelByPlatform("listing removed", testNow))
	assert.Equal(t, StatusCancelledByPlatform, byPlatform.Status)

	noReason := newTestProposal(t)
	assert.ErrorIs(t, noReason.CancelByGuest("", testNow), ErrReasonRequired)
	assert.Equal(t, StatusSubmitted, noReason.Status)
}

func TestIllegalTransitionsLeaveStateUntouched(t *testing.T) {
	p := newTestProposal(t)
	require.NoError(t, p.Accept(testNow))

	counter := testTerms(t, 10, schedule.Monday)
	assert.ErrorIs(t, p.Counteroffer(counter, testBreakdown(t, counter), testNow), ErrIllegalTransition)
	assert.ErrorIs(t, p.Accept(testNow), ErrIllegalTransition)
	assert.ErrorIs(t, p.AdvanceToReview(testNow), ErrIllegalTransition)
	assert.ErrorIs(t, p.ConfirmPayment(testNow), ErrIllegalTransition)
	assert.Equal(t, StatusAccepted, p.Status)

	require.NoError(t, p.SendLease(testNow))
	require.NoError(t, p.ConfirmPayment(testNow))
	// Terminal proposals refuse every further transition.
	assert.ErrorIs(t, p.Reject("late", testNow), ErrIllegalTransition)
	assert.ErrorIs(t, p.CancelByGuest("late", testNow), ErrIllegalTransition)
	assert.ErrorIs(t, p.SendLease(testNow), ErrIllegalTransition)
}

func TestStatusTable(t *testing.T) {
	assert.True(t, StatusCountered.Known())
	assert.False(t, Status("DRAFT").Known())
	assert.Equal(t, "Host counteroffer awaiting guest", StatusCountered.Label())
	assert.True(t, StatusAccepted.AcceptedOrLater())
	assert.True(t, StatusLeaseActive.AcceptedOrLater())
	assert.False(t, StatusRejected.AcceptedOrLater())
	assert.False(t, StatusAccepted.Pending())
	assert.True(t, StatusCountered.Pending())
}
