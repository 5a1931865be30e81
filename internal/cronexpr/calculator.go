package cronexpr

import (
	"fmt"
	"time"

	"github.com/hzerrad/cronloop/internal/timeutil"
)

// ErrBoundExceeded is returned when a calculator search exceeds the
// bounded look-back/look-ahead window.
type ErrBoundExceeded struct {
	Expression string
}

func (e *ErrBoundExceeded) Error() string {
	return fmt.Sprintf("cron %q: no matching instant within %d years", e.Expression, maxLookaheadYears)
}

// NextFire returns the smallest instant strictly after from that
// satisfies e. It advances field-by-field — month, then
// day, then hour, then minute — rather than scanning minute by minute.
func NextFire(e Expression, from timeutil.Instant) (timeutil.Instant, error) {
	t := from.Time().Add(time.Minute).Truncate(time.Minute)
	limit := from.Time().AddDate(maxLookaheadYears, 0, 0)

	for {
		if t.After(limit) {
			return timeutil.Instant{}, &ErrBoundExceeded{Expression: e.source}
		}

		if !e.MonthSet(int(t.Month())) {
			t = firstOfMonth(t).AddDate(0, 1, 0)
			continue
		}
		if !e.dayMatches(t.Day(), int(t.Weekday())) {
			t = startOfDay(t.AddDate(0, 0, 1))
			continue
		}
		if !e.HourSet(t.Hour()) {
			t = startOfHour(t.Add(time.Hour))
			continue
		}
		if !e.MinuteSet(t.Minute()) {
			t = t.Add(time.Minute)
			continue
		}
		return timeutil.NewInstant(t), nil
	}
}

// MostRecentFire returns the largest instant less than or equal to upto
// that satisfies e, or ok=false if none exists within the bounded
// look-back window.
func MostRecentFire(e Expression, upto timeutil.Instant) (result timeutil.Instant, ok bool) {
	t := upto.Time().Truncate(time.Minute)
	limit := upto.Time().AddDate(-maxLookaheadYears, 0, 0)

	for {
		if t.Before(limit) {
			return timeutil.Instant{}, false
		}

		if !e.MonthSet(int(t.Month())) {
			t = lastMinuteOfPrevMonth(t)
			continue
		}
		if !e.dayMatches(t.Day(), int(t.Weekday())) {
			t = startOfDay(t).Add(-time.Minute)
			continue
		}
		if !e.HourSet(t.Hour()) {
			t = startOfHour(t).Add(-time.Minute)
			continue
		}
		if !e.MinuteSet(t.Minute()) {
			t = t.Add(-time.Minute)
			continue
		}
		return timeutil.NewInstant(t), true
	}
}

func firstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func startOfHour(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, time.UTC)
}

// lastMinuteOfPrevMonth returns 23:59 on the last day of the month
// preceding t's month: one minute before the first of t's month, so this
// needs no manual days-in-month table.
func lastMinuteOfPrevMonth(t time.Time) time.Time {
	firstOfThisMonth := firstOfMonth(t)
	return firstOfThisMonth.Add(-time.Minute)
}
