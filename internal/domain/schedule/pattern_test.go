package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveWeekdayRun(t *testing.T) {
	p, err := Resolve(NewWeekdaySet(Monday, Tuesday, Wednesday, Thursday, Friday))
	require.NoError(t, err)
	assert.Equal(t, Monday, p.CheckIn)
	assert.Equal(t, Saturday, p.CheckOut)
	assert.Equal(t, []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday}, p.Nights)
	assert.False(t, p.WrapsWeek)
}

func TestResolveWrapAroundRun(t *testing.T) {
	p, err := Resolve(NewWeekdaySet(Friday, Saturday, Sunday, Monday))
	require.NoError(t, err)
	assert.Equal(t, Friday, p.CheckIn)
	assert.Equal(t, Tuesday, p.CheckOut)
	assert.Equal(t, []Weekday{Friday, Saturday, Sunday, Monday}, p.Nights)
	assert.True(t, p.WrapsWeek)
}

func TestResolveFullWeek(t *testing.T) {
	p, err := Resolve(NewWeekdaySet(Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday))
	require.NoError(t, err)
	assert.Equal(t, Sunday, p.CheckIn)
	assert.Equal(t, Sunday, p.CheckOut)
	assert.Len(t, p.Nights, 7)
	assert.False(t, p.WrapsWeek)
}

func TestResolveSingleNight(t *testing.T) {
	p, err := Resolve(NewWeekdaySet(Saturday))
	require.NoError(t, err)
	assert.Equal(t, Saturday, p.CheckIn)
	assert.Equal(t, Sunday, p.CheckOut)
	assert.Equal(t, []Weekday{Saturday}, p.Nights)
	assert.False(t, p.WrapsWeek)
}

func TestResolveEmptySelection(t *testing.T) {
	_, err := Resolve(WeekdaySet(0))
	assert.ErrorIs(t, err, ErrEmptySelection)
}

func TestResolveSplitSelection(t *testing.T) {
	cases := []struct {
		name string
		set  WeekdaySet
	}{
		{"isolated days", NewWeekdaySet(Sunday, Tuesday, Thursday)},
		{"two runs", NewWeekdaySet(Monday, Tuesday, Thursday, Friday)},
		{"single linear gap but broken arc", NewWeekdaySet(Sunday, Tuesday, Wednesday)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Resolve(tc.set)
			assert.ErrorIs(t, err, ErrSplitSelection)
		})
	}
}

// Every contiguous arc must reconstruct its own selection when walked forward
// from the check-in day, and wrap exactly when the arc crosses Sat/Sun.
func TestResolveReconstructsSelection(t *testing.T) {
	for start := Sunday; start <= Saturday; start++ {
		for length := 1; length < DaysPerWeek; length++ {
			set := WeekdaySet(0)
			day := start
			for i := 0; i < length; i++ {
				set = set.Add(day)
				day = day.Next()
			}
			p, err := Resolve(set)
			require.NoError(t, err)
			assert.Equal(t, start, p.CheckIn)
			assert.Equal(t, length, p.NightsPerWeek())
			assert.Equal(t, set, p.Set())

			walked := p.CheckIn
			for _, night := range p.Nights {
				assert.Equal(t, night, walked)
				assert.True(t, set.Has(night))
				walked = walked.Next()
			}
			assert.Equal(t, p.CheckOut, walked)
			assert.False(t, set.Has(p.CheckOut))

			wraps := int(start)+length > DaysPerWeek
			assert.Equal(t, wraps, p.WrapsWeek, "start=%v length=%d", start, length)
		}
	}
}

func TestWeekdayCycle(t *testing.T) {
	assert.Equal(t, Sunday, Saturday.Next())
	assert.Equal(t, Saturday, Sunday.Prev())
	assert.Equal(t, 3, Friday.DistanceTo(Monday))
	assert.Equal(t, 0, Wednesday.DistanceTo(Wednesday))
	assert.Equal(t, "Friday", Friday.String())
}

func TestWeekdaySetOperations(t *testing.T) {
	s := NewWeekdaySet(Monday, Wednesday)
	assert.True(t, s.Has(Monday))
	assert.False(t, s.Has(Tuesday))
	assert.Equal(t, 2, s.Len())

	s = s.Remove(Wednesday)
	assert.Equal(t, []Weekday{Monday}, s.Days())

	s = s.Add(Weekday(9))
	assert.Equal(t, 1, s.Len())
	assert.False(t, NewWeekdaySet(Sunday).IsEmpty())
	assert.True(t, WeekdaySet(0).IsEmpty())
}
