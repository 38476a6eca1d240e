package schedule

import "fmt"

// Weekday indexes the seven-day cycle: 0 is Sunday, 6 is Saturday.
type Weekday int

const (
	Sunday Weekday = iota
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

const DaysPerWeek = 7

var weekdayNames = [DaysPerWeek]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

func (d Weekday) Valid() bool {
	return d >= Sunday && d <= Saturday
}

func (d Weekday) String() string {
	if !d.Valid() {
		return fmt.Sprintf("Weekday(%d)", int(d))
	}
	return weekdayNames[d]
}

// Next returns the following weekday, wrapping Saturday to Sunday.
func (d Weekday) Next() Weekday {
	return (d + 1) % DaysPerWeek
}

// Prev returns the preceding weekday, wrapping Sunday to Saturday.
func (d Weekday) Prev() Weekday {
	return (d + DaysPerWeek - 1) % DaysPerWeek
}

// DistanceTo counts forward steps from d to other along the cycle, in [0,6].
func (d Weekday) DistanceTo(other Weekday) int {
	return int((other - d + DaysPerWeek) % DaysPerWeek)
}

// WeekdaySet is a set of weekdays stored as a 7-bit mask.
type WeekdaySet uint8

// NewWeekdaySet builds a set from the provided days, ignoring out-of-range values.
func NewWeekdaySet(days ...Weekday) WeekdaySet {
	var s WeekdaySet
	for _, d := range days {
		s = s.Add(d)
	}
	return s
}

func (s WeekdaySet) Add(d Weekday) WeekdaySet {
	if !d.Valid() {
		return s
	}
	return s | 1<<uint(d)
}

func (s WeekdaySet) Remove(d Weekday) WeekdaySet {
	if !d.Valid() {
		return s
	}
	return s &^ (1 << uint(d))
}

func (s WeekdaySet) Has(d Weekday) bool {
	return d.Valid() && s&(1<<uint(d)) != 0
}

// Len returns the number of selected days.
func (s WeekdaySet) Len() int {
	n := 0
	for d := Sunday; d <= Saturday; d++ {
		if s.Has(d) {
			n++
		}
	}
	return n
}

func (s WeekdaySet) IsEmpty() bool {
	return s&0x7F == 0
}

// Days enumerates the selected days in ascending index order.
func (s WeekdaySet) Days() []Weekday {
	out := make([]Weekday, 0, DaysPerWeek)
	for d := Sunday; d <= Saturday; d++ {
		if s.Has(d) {
			out = append(out, d)
		}
	}
	return out
}
