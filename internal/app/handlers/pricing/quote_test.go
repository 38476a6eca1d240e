package pricing_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pricingapp "weekstay/internal/app/handlers/pricing"
	"weekstay/internal/domain/listings"
	domainpricing "weekstay/internal/domain/pricing"
	"weekstay/internal/domain/schedule"
	"weekstay/internal/domain/shared/money"
	"weekstay/internal/infra/storage/memory"
)

func quoteHandler(t *testing.T) *pricingapp.QuoteScheduleHandler {
	t.Helper()
	repo := memory.NewListingRepository()
	listing, err := listings.NewListing(listings.CreateParams{
		ID:       "lst-1",
		Host:     "host-1",
		Title:    "Room",
		City:     "Boston",
		Baseline: money.Must(10000, "USD"),
		PerNights: map[int]money.Money{
			3: money.Must(11000, "USD"),
		},
		CreatedAt: time.Now(),
	})
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), listing))
	return &pricingapp.QuoteScheduleHandler{
		UoWFactory: memory.Factory{
			ListingsRepo:  repo,
			ProposalsRepo: memory.NewProposalRepository(),
			PricingSvc:    domainpricing.Engine{},
		},
	}
}

func TestQuoteScheduleFullWeekDiscount(t *testing.T) {
	h := quoteHandler(t)

	result, err := h.Handle(context.Background(), pricingapp.QuoteScheduleQuery{
		ListingID: "lst-1",
		Days:      []int{0, 1, 2, 3, 4, 5, 6},
		SpanWeeks: 8,
	})
	require.NoError(t, err)
	assert.Equal(t, 7, result.NightsPerWeek)
	assert.False(t, result.WrapsWeek)
	assert.Equal(t, result.CheckInDay, result.CheckOutDay)
	assert.Equal(t, int64(10179), result.NightlyGuestPrice)
	assert.Equal(t, int64(560000), result.TotalCompensation)
	assert.Equal(t, int64(280000), result.CompensationPer4Weeks)
}

func TestQuoteScheduleUsesTierRate(t *testing.T) {
	h := quoteHandler(t)

	result, err := h.Handle(context.Background(), pricingapp.QuoteScheduleQuery{
		ListingID: "lst-1",
		Days:      []int{5, 6, 0},
		SpanWeeks: 4,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(11000), result.NightlyHostRate)
	assert.Equal(t, 5, result.CheckInDay)
	assert.Equal(t, 1, result.CheckOutDay)
	assert.True(t, result.WrapsWeek)
}

func TestQuoteScheduleRejectsSplitSelection(t *testing.T) {
	h := quoteHandler(t)

	_, err := h.Handle(context.Background(), pricingapp.QuoteScheduleQuery{
		ListingID: "lst-1",
		Days:      []int{0, 2, 4},
		SpanWeeks: 4,
	})
	assert.ErrorIs(t, err, schedule.ErrSplitSelection)
}
