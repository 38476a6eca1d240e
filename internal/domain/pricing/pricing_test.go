package pricing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weekstay/internal/domain/schedule"
	"weekstay/internal/domain/shared/money"
)

func TestComputeFullTimeDiscount(t *testing.T) {
	// $100/night, 7 nights: base 700, discount 91, after 609, markup 103.53,
	// guest nightly (609+103.53)/7 = 101.79.
	b, err := Compute(money.Must(10000, "USD"), 7, 12)
	require.NoError(t, err)
	assert.Equal(t, int64(10179), b.NightlyGuestPrice.Amount)
	assert.Equal(t, int64(10000), b.NightlyHostRate.Amount)
	assert.Equal(t, 84, b.TotalNights)
	assert.Equal(t, int64(840000), b.TotalCompensation.Amount)
	assert.Equal(t, int64(280000), b.CompensationPer4Weeks.Amount)
}

func TestComputeNoDiscountBelowFullTime(t *testing.T) {
	for nights := 1; nights <= 6; nights++ {
		b, err := Compute(money.Must(10000, "USD"), nights, 1)
		require.NoError(t, err)
		// No discount: weekly guest total is base * 1.17, so the nightly
		// guest price equals rate * 1.17 regardless of density.
		assert.Equal(t, int64(11700), b.NightlyGuestPrice.Amount, "nights=%d", nights)
	}
}

func TestComputeIsPure(t *testing.T) {
	rate := money.Must(7350, "USD")
	first, err := Compute(rate, 4, 10)
	require.NoError(t, err)
	second, err := Compute(rate, 4, 10)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestComputeValidation(t *testing.T) {
	_, err := Compute(money.Must(10000, "USD"), 0, 4)
	assert.ErrorIs(t, err, ErrNoNights)

	_, err = Compute(money.Must(10000, "USD"), 8, 4)
	assert.ErrorIs(t, err, ErrNoNights)

	_, err = Compute(money.Must(10000, "USD"), 3, 0)
	assert.ErrorIs(t, err, ErrInvalidSpan)

	_, err = Compute(money.Money{Amount: 10000}, 3, 4)
	assert.ErrorIs(t, err, ErrCurrencyUnset)
}

func TestRateTableFallback(t *testing.T) {
	table := RateTable{
		Baseline: money.Must(8000, "USD"),
		PerNights: map[int]money.Money{
			5: money.Must(7000, "USD"),
			7: {Amount: 0, Currency: "USD"}, // unset, not free
		},
	}
	assert.Equal(t, int64(7000), table.NightlyRate(5).Amount)
	assert.Equal(t, int64(8000), table.NightlyRate(3).Amount)
	assert.Equal(t, int64(8000), table.NightlyRate(7).Amount)
}

func TestEngineQuotesFromPattern(t *testing.T) {
	pattern, err := schedule.Resolve(schedule.NewWeekdaySet(
		schedule.Monday, schedule.Tuesday, schedule.Wednesday,
	))
	require.NoError(t, err)

	table := RateTable{
		Baseline:  money.Must(9000, "USD"),
		PerNights: map[int]money.Money{3: money.Must(9500, "USD")},
	}
	b, err := Engine{}.Quote(context.Background(), QuoteInput{
		Rates:     table,
		Pattern:   pattern,
		SpanWeeks: 8,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(9500), b.NightlyHostRate.Amount)
	assert.Equal(t, 24, b.TotalNights)
	assert.Equal(t, int64(228000), b.TotalCompensation.Amount)
	assert.Equal(t, int64(114000), b.CompensationPer4Weeks.Amount)
}
