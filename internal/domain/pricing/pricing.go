package pricing

import (
	"context"
	"errors"

	"weekstay/internal/domain/schedule"
	"weekstay/internal/domain/shared/money"
)

var (
	ErrNoNights      = errors.New("pricing: nights per week must be between 1 and 7")
	ErrInvalidSpan   = errors.New("pricing: reservation span must be at least one week")
	ErrCurrencyUnset = errors.New("pricing: currency must be defined")
)

const (
	// Full-time guests (7 nights a week) get 13% off the host's weekly base.
	fullTimeDiscountPercent = 13
	// The platform adds 17% on top of the discounted weekly base.
	siteMarkupPercent = 17

	compensationPeriodWeeks = 4
)

// RateTable holds a listing's host nightly rates keyed by nights per week.
// Entries that are absent or zero fall back to the baseline starting rate:
// a zero tier price means "not set", never a free night.
type RateTable struct {
	Baseline  money.Money
	PerNights map[int]money.Money
}

// NightlyRate picks the host rate for the given occupancy density.
func (t RateTable) NightlyRate(nightsPerWeek int) money.Money {
	if rate, ok := t.PerNights[nightsPerWeek]; ok && !rate.IsZero() {
		return rate
	}
	return t.Baseline
}

// CompensationBreakdown is the derived pricing for one set of reservation
// terms. It is always recomputed from its inputs and never treated as a
// source of truth.
type CompensationBreakdown struct {
	NightlyGuestPrice     money.Money
	NightlyHostRate       money.Money
	NightsPerWeek         int
	SpanWeeks             int
	TotalNights           int
	TotalCompensation     money.Money
	CompensationPer4Weeks money.Money
}

// Compute derives the guest price and host compensation from a host nightly
// rate, the occupancy density, and the reservation length.
//
// The guest track discounts the weekly base by 13% for full-time occupancy,
// then applies the 17% platform markup and divides back into a nightly price.
// The host track is flat: rate times total nights, with a per-4-week view for
// recurring payout display.
func Compute(hostRate money.Money, nightsPerWeek, spanWeeks int) (CompensationBreakdown, error) {
	if nightsPerWeek < 1 || nightsPerWeek > schedule.DaysPerWeek {
		return CompensationBreakdown{}, ErrNoNights
	}
	if spanWeeks < 1 {
		return CompensationBreakdown{}, ErrInvalidSpan
	}
	if hostRate.Currency == "" {
		return CompensationBreakdown{}, ErrCurrencyUnset
	}

	base := hostRate.Multiply(int64(nightsPerWeek))
	afterDiscount := base
	if nightsPerWeek == schedule.DaysPerWeek {
		discount := base.Scale(fullTimeDiscountPercent, 100)
		var err error
		afterDiscount, err = base.Sub(discount)
		if err != nil {
			return CompensationBreakdown{}, err
		}
	}
	markup := afterDiscount.Scale(siteMarkupPercent, 100)
	weekly, err := afterDiscount.Add(markup)
	if err != nil {
		return CompensationBreakdown{}, err
	}
	nightlyGuest := weekly.Scale(1, int64(nightsPerWeek))

	totalNights := nightsPerWeek * spanWeeks
	total := hostRate.Multiply(int64(totalNights))
	perPeriod := total.Scale(compensationPeriodWeeks, int64(spanWeeks))

	return CompensationBreakdown{
		NightlyGuestPrice:     nightlyGuest,
		NightlyHostRate:       hostRate,
		NightsPerWeek:         nightsPerWeek,
		SpanWeeks:             spanWeeks,
		TotalNights:           totalNights,
		TotalCompensation:     total,
		CompensationPer4Weeks: perPeriod,
	}, nil
}

// QuoteInput carries everything a quote needs: the listing's rates and the
// resolved weekly pattern with its reservation span.
type QuoteInput struct {
	Rates     RateTable
	Pattern   schedule.Pattern
	SpanWeeks int
}

// Calculator is the application-facing quoting port.
type Calculator interface {
	Quote(ctx context.Context, input QuoteInput) (CompensationBreakdown, error)
}

// Engine is the standard deterministic Calculator backed by Compute.
type Engine struct{}

func (Engine) Quote(ctx context.Context, input QuoteInput) (CompensationBreakdown, error) {
	nights := input.Pattern.NightsPerWeek()
	rate := input.Rates.NightlyRate(nights)
	return Compute(rate, nights, input.SpanWeeks)
}

var _ Calculator = Engine{}
