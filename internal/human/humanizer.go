// Package human renders a parsed cron expression as an English
// sentence, backing the `cronloopd explain` subcommand. cronexpr keeps
// only a resolved bitset per field after parsing; shape.go reconstructs
// the IsEvery/IsStep/IsRange/IsList/IsSingle view from that bitset, and
// Humanize below mentions both day-of-month and day-of-week when
// cronexpr's conjunction semantics restrict both at once — a case a
// purely disjunctive day-matching rule never has to express.
package human

import (
	"fmt"
	"strings"

	"github.com/hzerrad/cronloop/internal/cronexpr"
)

// Humanizer converts a parsed cron expression into an English
// description of when it fires.
type Humanizer interface {
	Humanize(expr cronexpr.Expression) string
}

type humanizer struct{}

// NewHumanizer builds the default English-only humanizer.
func NewHumanizer() Humanizer {
	return &humanizer{}
}

// Humanize converts a parsed cron expression to human-readable text.
func (h *humanizer) Humanize(expr cronexpr.Expression) string {
	minute, hour, dayOfMonth, month, weekday := shapesOf(expr)

	var parts []string
	parts = append(parts, h.buildTimePart(minute, hour))

	minuteBasedPattern := (minute.IsEvery() || minute.IsStep() ||
		minute.IsSingle()) && hour.IsEvery()
	isSimplePattern := minuteBasedPattern && weekday.IsEvery() && dayOfMonth.IsEvery()

	// Specific day + specific month with a free weekday (e.g. @yearly).
	if dayOfMonth.IsSingle() && month.IsSingle() && expr.WeekdayIsWildcard() {
		parts = append(parts, fmt.Sprintf("on %s %d%s",
			formatMonth(month.Value()), dayOfMonth.Value(), ordinalSuffix(dayOfMonth.Value())))
		return strings.Join(parts, " ")
	}

	if dayPart := h.buildDayPart(expr, weekday, dayOfMonth); dayPart != "" && !isSimplePattern {
		parts = append(parts, dayPart)
	}

	if monthPart := h.buildMonthPart(month); monthPart != "" {
		parts = append(parts, monthPart)
	}

	return strings.Join(parts, " ")
}

func (h *humanizer) buildTimePart(minute, hour shape) string {
	switch {
	case minute.IsEvery() && hour.IsEvery():
		return "Every minute"
	case minute.IsStep() && hour.IsEvery():
		return fmt.Sprintf("Every %d minutes", minute.Step())
	case minute.IsStep() && hour.IsRange():
		return fmt.Sprintf("Every %d minutes between %s and %s",
			minute.Step(), formatHour(hour.RangeStart()), formatHourEnd(hour.RangeEnd()))
	case minute.IsSingle() && minute.Value() == 0 && hour.IsEvery():
		return "At the start of every hour"
	case minute.IsSingle() && hour.IsEvery():
		return fmt.Sprintf("At minute %d of every hour", minute.Value())
	case minute.IsSingle() && hour.IsSingle():
		if minute.Value() == 0 && hour.Value() == 0 {
			return "At midnight"
		}
		return fmt.Sprintf("At %s", formatTime(hour.Value(), minute.Value()))
	case minute.IsSingle() && hour.IsList():
		times := make([]string, len(hour.ListValues()))
		for i, hr := range hour.ListValues() {
			times[i] = formatTime(hr, minute.Value())
		}
		return fmt.Sprintf("At %s", formatList(times))
	case minute.IsStep() && hour.IsSingle():
		return fmt.Sprintf("Every %d minutes at %s", minute.Step(), formatHour(hour.Value()))
	case minute.IsStep() && hour.IsList():
		times := make([]string, len(hour.ListValues()))
		for i, hr := range hour.ListValues() {
			times[i] = formatHour(hr)
		}
		return fmt.Sprintf("Every %d minutes at %s", minute.Step(), formatList(times))
	case minute.IsSingle() && hour.IsRange():
		return fmt.Sprintf("At %d minutes past the hour between %s and %s",
			minute.Value(), formatHour(hour.RangeStart()), formatHourEnd(hour.RangeEnd()))
	case minute.IsList() && hour.IsSingle():
		times := make([]string, len(minute.ListValues()))
		for i, m := range minute.ListValues() {
			times[i] = formatTime(hour.Value(), m)
		}
		return fmt.Sprintf("At %s", formatList(times))
	case minute.IsList() && hour.IsRange():
		minutes := minute.ListValues()
		minuteStrs := make([]string, len(minutes))
		for i, m := range minutes {
			minuteStrs[i] = fmt.Sprintf("%d", m)
		}
		return fmt.Sprintf("At %s minutes past the hour between %s and %s",
			formatList(minuteStrs), formatHour(hour.RangeStart()), formatHourEnd(hour.RangeEnd()))
	case minute.IsList() && hour.IsList():
		return fmt.Sprintf("At %s", formatList(generateTimeCombinations(minute.ListValues(), hour.ListValues())))
	default:
		return "Runs periodically"
	}
}

func generateTimeCombinations(minutes, hours []int) []string {
	var times []string
	for _, hr := range hours {
		for _, m := range minutes {
			times = append(times, formatTime(hr, m))
		}
	}
	return times
}

// buildDayPart constructs the day portion of the description. When
// cronexpr's conjunction semantics restrict both fields at once (neither
// is the literal wildcard), both are mentioned and joined with "and" —
// a disjunctive day-matching rule never has this case since it only
// ever has one restrictable day field active at a time.
func (h *humanizer) buildDayPart(expr cronexpr.Expression, weekday, dayOfMonth shape) string {
	domRestricted := !expr.DayOfMonthIsWildcard()
	dowRestricted := !expr.WeekdayIsWildcard()

	switch {
	case !domRestricted && !dowRestricted:
		return "every day"
	case domRestricted && dowRestricted:
		return fmt.Sprintf("%s and %s", formatDayOfMonth(dayOfMonth), formatDayOfWeek(weekday))
	case dowRestricted:
		return formatDayOfWeek(weekday)
	default:
		return formatDayOfMonth(dayOfMonth)
	}
}

func (h *humanizer) buildMonthPart(month shape) string {
	switch {
	case month.IsEvery():
		return ""
	case month.IsSingle():
		return fmt.Sprintf("in %s", formatMonth(month.Value()))
	case month.IsRange():
		return fmt.Sprintf("from %s to %s", formatMonth(month.RangeStart()), formatMonth(month.RangeEnd()))
	case month.IsList():
		months := make([]string, len(month.ListValues()))
		for i, m := range month.ListValues() {
			months[i] = formatMonth(m)
		}
		return fmt.Sprintf("in %s", formatList(months))
	default:
		return ""
	}
}

func formatDayOfWeek(dow shape) string {
	switch {
	case dow.IsRange():
		if dow.RangeStart() == 1 && dow.RangeEnd() == 5 {
			return "on weekdays (Mon-Fri)"
		}
		return fmt.Sprintf("on %s-%s", dayName(dow.RangeStart()), dayName(dow.RangeEnd()))
	case dow.IsList():
		days := make([]string, len(dow.ListValues()))
		for i, d := range dow.ListValues() {
			days[i] = dayName(d)
		}
		return fmt.Sprintf("on %s", formatList(days))
	case dow.IsSingle():
		if dow.Value() == 0 {
			return "every Sunday"
		}
		return fmt.Sprintf("every %s", dayName(dow.Value()))
	default:
		return ""
	}
}

func formatDayOfMonth(dom shape) string {
	switch {
	case dom.IsSingle():
		if dom.Value() == 1 {
			return "on the first day of every month"
		}
		return fmt.Sprintf("on day %d of every month", dom.Value())
	case dom.IsRange():
		return fmt.Sprintf("on days %d-%d of every month", dom.RangeStart(), dom.RangeEnd())
	case dom.IsList():
		days := make([]string, len(dom.ListValues()))
		for i, d := range dom.ListValues() {
			days[i] = fmt.Sprintf("%d", d)
		}
		return fmt.Sprintf("on days %s of every month", formatList(days))
	default:
		return ""
	}
}
