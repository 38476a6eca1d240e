package submission

import (
	"errors"
	"time"

	"weekstay/internal/domain/schedule"
)

var ErrNoDaysSelected = errors.New("submission: select at least one day")

// Payload is the wire contract handed to the proposal store on submission.
type Payload struct {
	ListingID            string    `json:"listing_id"`
	GuestID              string    `json:"guest_id"`
	CheckInDay           int       `json:"check_in_day"`
	CheckOutDay          int       `json:"check_out_day"`
	NightsSelected       []int     `json:"nights_selected"`
	MoveInDate           time.Time `json:"move_in_date"`
	ReservationSpanWeeks int       `json:"reservation_span_weeks"`
	HouseRules           []string  `json:"house_rules"`
}

// Input is the raw UI selection: toggled weekdays plus the anchor date and span.
type Input struct {
	ListingID  string
	GuestID    string
	Days       schedule.WeekdaySet
	MoveIn     time.Time
	SpanWeeks  int
	HouseRules []string
}

// Build translates a weekday selection into the submission payload. It has no
// side effects; the caller dispatches the payload. When the move-in anchor is
// unset it defaults to the provided current date.
func Build(in Input, today time.Time) (Payload, schedule.Pattern, error) {
	if in.Days.IsEmpty() {
		return Payload{}, schedule.Pattern{}, ErrNoDaysSelected
	}
	pattern, err := schedule.Resolve(in.Days)
	if err != nil {
		return Payload{}, schedule.Pattern{}, err
	}

	moveIn := in.MoveIn
	if moveIn.IsZero() {
		moveIn = today
	}
	moveIn = truncateToDate(moveIn)

	nights := make([]int, len(pattern.Nights))
	for i, n := range pattern.Nights {
		nights[i] = int(n)
	}
	return Payload{
		ListingID:            in.ListingID,
		GuestID:              in.GuestID,
		CheckInDay:           int(pattern.CheckIn),
		CheckOutDay:          int(pattern.CheckOut),
		NightsSelected:       nights,
		MoveInDate:           moveIn,
		ReservationSpanWeeks: in.SpanWeeks,
		HouseRules:           append([]string(nil), in.HouseRules...),
	}, pattern, nil
}

func truncateToDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
