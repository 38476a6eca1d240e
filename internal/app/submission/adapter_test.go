package submission

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weekstay/internal/domain/schedule"
)

var today = time.Date(2026, time.April, 6, 9, 30, 0, 0, time.UTC)

func TestBuildPayload(t *testing.T) {
	payload, pattern, err := Build(Input{
		ListingID:  "listing-1",
		GuestID:    "guest-1",
		Days:       schedule.NewWeekdaySet(schedule.Friday, schedule.Saturday, schedule.Sunday, schedule.Monday),
		MoveIn:     time.Date(2026, time.April, 10, 15, 0, 0, 0, time.UTC),
		SpanWeeks:  12,
		HouseRules: []string{"no-pets"},
	}, today)
	require.NoError(t, err)

	assert.Equal(t, 5, payload.CheckInDay)
	assert.Equal(t, 2, payload.CheckOutDay)
	assert.Equal(t, []int{5, 6, 0, 1}, payload.NightsSelected)
	assert.Equal(t, time.Date(2026, time.April, 10, 0, 0, 0, 0, time.UTC), payload.MoveInDate)
	assert.Equal(t, 12, payload.ReservationSpanWeeks)
	assert.True(t, pattern.WrapsWeek)
}

func TestBuildDefaultsMoveInToToday(t *testing.T) {
	payload, _, err := Build(Input{
		ListingID: "listing-1",
		GuestID:   "guest-1",
		Days:      schedule.NewWeekdaySet(schedule.Tuesday),
		SpanWeeks: 4,
	}, today)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, time.April, 6, 0, 0, 0, 0, time.UTC), payload.MoveInDate)
}

func TestBuildRejectsEmptySelection(t *testing.T) {
	_, _, err := Build(Input{ListingID: "l", GuestID: "g", SpanWeeks: 4}, today)
	assert.ErrorIs(t, err, ErrNoDaysSelected)
}

func TestBuildRejectsSplitSelection(t *testing.T) {
	_, _, err := Build(Input{
		ListingID: "l",
		GuestID:   "g",
		Days:      schedule.NewWeekdaySet(schedule.Sunday, schedule.Tuesday, schedule.Thursday),
		SpanWeeks: 4,
	}, today)
	assert.ErrorIs(t, err, schedule.ErrSplitSelection)
}
