package policies

import "time"

// Clock supplies the current time; handlers take it as a port so move-in
// defaults and transition timestamps stay testable.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock reading the wall clock in UTC.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// NowOr reads the clock, falling back to the system clock when none is wired.
func NowOr(clock Clock) time.Time {
	if clock != nil {
		return clock.Now()
	}
	return time.Now().UTC()
}
