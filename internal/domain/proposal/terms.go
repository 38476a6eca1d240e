package proposal

import (
	"errors"
	"time"

	"weekstay/internal/domain/schedule"
)

var (
	ErrMoveInRequired = errors.New("proposal: move-in date is required")
	ErrSpanTooShort   = errors.New("proposal: reservation span must be at least one week")
	ErrPatternEmpty   = errors.New("proposal: schedule pattern has no nights")
)

// ReservationTerms are the negotiable terms of a proposal: the move-in anchor
// date, the resolved weekly pattern, the reservation length in weeks and the
// agreed house rules. Terms are never mutated in place; a counteroffer carries
// a fresh copy.
type ReservationTerms struct {
	MoveIn     time.Time
	Pattern    schedule.Pattern
	SpanWeeks  int
	HouseRules []string
}

func (t ReservationTerms) Validate() error {
	if t.MoveIn.IsZero() {
		return ErrMoveInRequired
	}
	if t.SpanWeeks < 1 {
		return ErrSpanTooShort
	}
	if t.Pattern.NightsPerWeek() == 0 {
		return ErrPatternEmpty
	}
	return nil
}

// Copy returns a deep copy so stored terms cannot alias caller slices.
func (t ReservationTerms) Copy() ReservationTerms {
	clone := t
	clone.Pattern.Nights = append([]schedule.Weekday(nil), t.Pattern.Nights...)
	clone.HouseRules = append([]string(nil), t.HouseRules...)
	return clone
}
