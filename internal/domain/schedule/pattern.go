package schedule

import "errors"

var (
	ErrEmptySelection = errors.New("schedule: at least one weekday must be selected")
	ErrSplitSelection = errors.New("schedule: selected weekdays must form one contiguous run")
)

// Pattern is the resolved shape of a weekly-recurring stay: the day the guest
// arrives, the day they leave, and the occupied nights in arrival order.
// The check-out day is never an occupied night; for a full week check-in and
// check-out coincide because the occupancy has no gap.
type Pattern struct {
	CheckIn   Weekday
	CheckOut  Weekday
	Nights    []Weekday
	WrapsWeek bool
}

// NightsPerWeek returns how many nights of each week the unit is occupied.
func (p Pattern) NightsPerWeek() int {
	return len(p.Nights)
}

// Set rebuilds the weekday set the pattern was resolved from.
func (p Pattern) Set() WeekdaySet {
	return NewWeekdaySet(p.Nights...)
}

// Resolve derives a Pattern from the selected weekdays.
//
// A valid selection occupies one contiguous arc of the 7-day cycle. The arc may
// cross the Saturday/Sunday boundary (e.g. Fri,Sat,Sun,Mon), in which case the
// pattern is marked as wrapping and the nights are rotated so they start at the
// true arrival day. Selections that split into more than one run are rejected:
// a weekly template with isolated days has no single check-in/check-out.
func Resolve(set WeekdaySet) (Pattern, error) {
	days := set.Days()
	if len(days) == 0 {
		return Pattern{}, ErrEmptySelection
	}
	if len(days) == DaysPerWeek {
		// Full-time occupancy: no gap to anchor a checkout, so both ends
		// land on the lowest index by convention.
		return Pattern{
			CheckIn:  days[0],
			CheckOut: days[0],
			Nights:   days,
		}, nil
	}

	// Walk the sorted days cyclically and find where the successor relation
	// breaks. A contiguous arc breaks exactly once: right after its last night.
	breakAfter := -1
	breaks := 0
	for i, d := range days {
		next := days[(i+1)%len(days)]
		if d.Next() != next {
			breaks++
			breakAfter = i
		}
	}
	if breaks != 1 {
		return Pattern{}, ErrSplitSelection
	}

	start := (breakAfter + 1) % len(days)
	nights := make([]Weekday, 0, len(days))
	for i := 0; i < len(days); i++ {
		nights = append(nights, days[(start+i)%len(days)])
	}
	last := nights[len(nights)-1]
	return Pattern{
		CheckIn:   nights[0],
		CheckOut:  last.Next(),
		Nights:    nights,
		WrapsWeek: start != 0,
	}, nil
}
