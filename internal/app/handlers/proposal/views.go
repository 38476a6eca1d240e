package proposal

import (
	"time"

	domainpricing "weekstay/internal/domain/pricing"
	domainproposal "weekstay/internal/domain/proposal"
)

// QuoteView is the JSON shape of a compensation breakdown.
type QuoteView struct {
	Currency              string `json:"currency"`
	NightlyGuestPrice     int64  `json:"nightly_guest_price_cents"`
	NightlyHostRate       int64  `json:"nightly_host_rate_cents"`
	NightsPerWeek         int    `json:"nights_per_week"`
	SpanWeeks             int    `json:"span_weeks"`
	TotalNights           int    `json:"total_nights"`
	TotalCompensation     int64  `json:"total_compensation_cents"`
	CompensationPer4Weeks int64  `json:"compensation_per_4_weeks_cents"`
}

func newQuoteView(b domainpricing.CompensationBreakdown) QuoteView {
	return QuoteView{
		Currency:              b.NightlyHostRate.Currency,
		NightlyGuestPrice:     b.NightlyGuestPrice.Amount,
		NightlyHostRate:       b.NightlyHostRate.Amount,
		NightsPerWeek:         b.NightsPerWeek,
		SpanWeeks:             b.SpanWeeks,
		TotalNights:           b.TotalNights,
		TotalCompensation:     b.TotalCompensation.Amount,
		CompensationPer4Weeks: b.CompensationPer4Weeks.Amount,
	}
}

type TermsView struct {
	MoveIn      time.Time `json:"move_in"`
	CheckInDay  int       `json:"check_in_day"`
	CheckOutDay int       `json:"check_out_day"`
	Nights      []int     `json:"nights"`
	WrapsWeek   bool      `json:"wraps_week"`
	SpanWeeks   int       `json:"span_weeks"`
	HouseRules  []string  `json:"house_rules"`
}

func newTermsView(t domainproposal.ReservationTerms) TermsView {
	nights := make([]int, len(t.Pattern.Nights))
	for i, n := range t.Pattern.Nights {
		nights[i] = int(n)
	}
	return TermsView{
		MoveIn:      t.MoveIn,
		CheckInDay:  int(t.Pattern.CheckIn),
		CheckOutDay: int(t.Pattern.CheckOut),
		Nights:      nights,
		WrapsWeek:   t.Pattern.WrapsWeek,
		SpanWeeks:   t.SpanWeeks,
		HouseRules:  t.HouseRules,
	}
}

// ProposalView is the read model for proposal screens: status plus both term
// versions and the breakdown derived from whichever terms are effective.
type ProposalView struct {
	ID                 string     `json:"id"`
	ListingID          string     `json:"listing_id"`
	GuestID            string     `json:"guest_id"`
	Status             string     `json:"status"`
	StatusLabel        string     `json:"status_label"`
	StatusOrder        int        `json:"status_order"`
	Terminal           bool       `json:"terminal"`
	Pending            bool       `json:"pending"`
	Submitted          TermsView  `json:"submitted_terms"`
	Counter            *TermsView `json:"counteroffer_terms,omitempty"`
	Effective          TermsView  `json:"effective_terms"`
	Quote              QuoteView  `json:"quote"`
	CancellationReason string     `json:"cancellation_reason,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

func newProposalView(p *domainproposal.Proposal, quote domainpricing.CompensationBreakdown) ProposalView {
	view := ProposalView{
		ID:                 string(p.ID),
		ListingID:          string(p.ListingID),
		GuestID:            p.GuestID,
		Status:             string(p.Status),
		StatusLabel:        p.Status.Label(),
		StatusOrder:        p.Status.UsualOrder(),
		Terminal:           p.Status.Terminal(),
		Pending:            p.Status.Pending(),
		Submitted:          newTermsView(p.Submitted),
		Effective:          newTermsView(p.EffectiveTerms()),
		Quote:              newQuoteView(quote),
		CancellationReason: p.CancellationReason,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
	if p.Counter != nil {
		counter := newTermsView(*p.Counter)
		view.Counter = &counter
	}
	return view
}
