package pricing

import (
	"context"

	"weekstay/internal/app/queries"
	"weekstay/internal/app/uow"
	domainlistings "weekstay/internal/domain/listings"
	domainpricing "weekstay/internal/domain/pricing"
	"weekstay/internal/domain/schedule"
)

const quoteScheduleKey = "pricing.quote_schedule"

// QuoteScheduleQuery prices a weekday selection against a listing before any
// proposal exists. The selection UI fires it on every day toggle and span
// change.
type QuoteScheduleQuery struct {
	ListingID string
	Days      []int
	SpanWeeks int
}

func (q QuoteScheduleQuery) Key() string { return quoteScheduleKey }

type QuoteScheduleResult struct {
	CheckInDay            int    `json:"check_in_day"`
	CheckOutDay           int    `json:"check_out_day"`
	Nights                []int  `json:"nights"`
	WrapsWeek             bool   `json:"wraps_week"`
	NightsPerWeek         int    `json:"nights_per_week"`
	SpanWeeks             int    `json:"span_weeks"`
	Currency              string `json:"currency"`
	NightlyGuestPrice     int64  `json:"nightly_guest_price_cents"`
	NightlyHostRate       int64  `json:"nightly_host_rate_cents"`
	TotalNights           int    `json:"total_nights"`
	TotalCompensation     int64  `json:"total_compensation_cents"`
	CompensationPer4Weeks int64  `json:"compensation_per_4_weeks_cents"`
}

type QuoteScheduleHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *QuoteScheduleHandler) Handle(ctx context.Context, q QuoteScheduleQuery) (*QuoteScheduleResult, error) {
	set := schedule.WeekdaySet(0)
	for _, d := range q.Days {
		set = set.Add(schedule.Weekday(d))
	}
	pattern, err := schedule.Resolve(set)
	if err != nil {
		return nil, err
	}

	unit, release, err := h.unit(ctx)
	if err != nil {
		return nil, err
	}
	defer release()
	listing, err := unit.Listings().ByID(ctx, domainlistings.ListingID(q.ListingID))
	if err != nil {
		return nil, err
	}
	breakdown, err := unit.Pricing().Quote(ctx, domainpricing.QuoteInput{
		Rates:     listing.Rates,
		Pattern:   pattern,
		SpanWeeks: q.SpanWeeks,
	})
	if err != nil {
		return nil, err
	}

	nights := make([]int, len(pattern.Nights))
	for i, n := range pattern.Nights {
		nights[i] = int(n)
	}
	return &QuoteScheduleResult{
		CheckInDay:            int(pattern.CheckIn),
		CheckOutDay:           int(pattern.CheckOut),
		Nights:                nights,
		WrapsWeek:             pattern.WrapsWeek,
		NightsPerWeek:         breakdown.NightsPerWeek,
		SpanWeeks:             breakdown.SpanWeeks,
		Currency:              breakdown.NightlyHostRate.Currency,
		NightlyGuestPrice:     breakdown.NightlyGuestPrice.Amount,
		NightlyHostRate:       breakdown.NightlyHostRate.Amount,
		TotalNights:           breakdown.TotalNights,
		TotalCompensation:     breakdown.TotalCompensation.Amount,
		CompensationPer4Weeks: breakdown.CompensationPer4Weeks.Amount,
	}, nil
}

func (h *QuoteScheduleHandler) unit(ctx context.Context) (uow.UnitOfWork, func(), error) {
	if unit, ok := uow.FromContext(ctx); ok {
		return unit, func() {}, nil
	}
	if h.UoWFactory == nil {
		return nil, nil, uow.ErrUnitOfWorkMissing
	}
	unit, err := h.UoWFactory.Begin(ctx, uow.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, nil, err
	}
	return unit, func() { _ = unit.Rollback(ctx) }, nil
}

var _ queries.Handler[QuoteScheduleQuery, *QuoteScheduleResult] = (*QuoteScheduleHandler)(nil)
