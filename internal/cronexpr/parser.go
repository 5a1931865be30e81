// Package cronexpr implements the five-field cron grammar's parser and
// next/previous-fire calculator. It is hand-rolled rather than built on
// robfig/cron: that library only exposes a forward Next() under
// disjunctive day-of-month/day-of-week semantics, whereas this system
// needs a MostRecentFire lookback too and uses the conjunction form
// when both day fields are restricted.
package cronexpr

import (
	"fmt"
	"strings"
)

// Expression is the parsed, canonical, immutable form of a five-field
// cron spec. The zero value is not valid; construct with
// Parse.
type Expression struct {
	source     string
	minute     fieldSet
	hour       fieldSet
	dayOfMonth fieldSet
	month      fieldSet
	weekday    fieldSet
	domStar    bool // day-of-month field was literally "*"
	dowStar    bool // day-of-week field was literally "*"
}

// String returns the original source text, retained for logging.
func (e Expression) String() string { return e.source }

// Parse parses a trimmed, whitespace-split five-field cron expression.
func Parse(raw string) (Expression, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Expression{}, fmt.Errorf("cron expression: empty")
	}

	fields := strings.Fields(trimmed)
	if len(fields) != 5 {
		return Expression{}, fmt.Errorf("cron expression: expected 5 fields, got %d", len(fields))
	}

	minute, err := parseField("minute", fields[0], MinMinute, MaxMinute)
	if err != nil {
		return Expression{}, err
	}
	hour, err := parseField("hour", fields[1], MinHour, MaxHour)
	if err != nil {
		return Expression{}, err
	}
	dom, err := parseField("dayOfMonth", fields[2], MinDayOfMonth, MaxDayOfMonth)
	if err != nil {
		return Expression{}, err
	}
	month, err := parseField("month", fields[3], MinMonth, MaxMonth)
	if err != nil {
		return Expression{}, err
	}
	dow, err := parseField("weekday", fields[4], MinWeekday, MaxWeekday)
	if err != nil {
		return Expression{}, err
	}

	return Expression{
		source:     trimmed,
		minute:     minute,
		hour:       hour,
		dayOfMonth: dom,
		month:      month,
		weekday:    dow,
		domStar:    fields[2] == "*",
		dowStar:    fields[4] == "*",
	}, nil
}

// MinuteSet reports whether m is permitted by the minute field.
func (e Expression) MinuteSet(m int) bool { return e.minute.contains(m) }

// HourSet reports whether h is permitted by the hour field.
func (e Expression) HourSet(h int) bool { return e.hour.contains(h) }

// MonthSet reports whether mo is permitted by the month field.
func (e Expression) MonthSet(mo int) bool { return e.month.contains(mo) }

// MinuteValues, HourValues, DayOfMonthValues, MonthValues and
// WeekdayValues expose each field's matching values in ascending order,
// for callers (internal/human's shape reconstruction) that need to
// describe a parsed expression back to an operator rather than just
// test membership.
func (e Expression) MinuteValues() []int     { return e.minute.values() }
func (e Expression) HourValues() []int       { return e.hour.values() }
func (e Expression) DayOfMonthValues() []int { return e.dayOfMonth.values() }
func (e Expression) MonthValues() []int      { return e.month.values() }
func (e Expression) WeekdayValues() []int    { return e.weekday.values() }

// DayOfMonthIsWildcard and WeekdayIsWildcard report whether the field
// was literally "*" in the source text, which is the piece of
// information the day-match rule depends on and a bitset of matched
// values alone cannot recover (e.g.
// "0-6" and "*" are the same set but mean different things alongside a
// restricted day-of-month).
func (e Expression) DayOfMonthIsWildcard() bool { return e.domStar }
func (e Expression) WeekdayIsWildcard() bool    { return e.dowStar }

// dayMatches decides whether a day satisfies the expression: when both
// day-of-month and day-of-week are restricted (neither is the literal
// "*"), both must match (conjunction); otherwise only the restricted one
// (or neither) constrains the day.
func (e Expression) dayMatches(dom, weekday int) bool {
	domOK := e.dayOfMonth.contains(dom)
	dowOK := e.weekday.contains(weekday)

	if !e.domStar && !e.dowStar {
		return domOK && dowOK
	}
	if e.domStar && e.dowStar {
		return true
	}
	if e.domStar {
		return dowOK
	}
	return domOK
}
