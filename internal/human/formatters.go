package human

import (
	"fmt"
	"strings"
	"time"
)

// formatHour and formatHourEnd bracket an hour as the first and last
// minute of that hour, for "between 09:00 and 17:59" phrasing.
func formatHour(hour int) string    { return fmt.Sprintf("%02d:00", hour) }
func formatHourEnd(hour int) string { return fmt.Sprintf("%02d:59", hour) }

func formatTime(hour, minute int) string {
	return fmt.Sprintf("%02d:%02d", hour, minute)
}

// formatList joins items into an English enumeration ("a", "a and b",
// "a, b, and c").
func formatList(items []string) string {
	if len(items) <= 1 {
		return strings.Join(items, "")
	}
	if len(items) == 2 {
		return items[0] + " and " + items[1]
	}
	return strings.Join(items[:len(items)-1], ", ") + ", and " + items[len(items)-1]
}

// dayName names a weekday in the 0=Sunday convention the cron grammar
// uses, which matches time.Weekday's numbering directly.
func dayName(day int) string {
	if day < 0 || day > 6 {
		return fmt.Sprintf("day%d", day)
	}
	return time.Weekday(day).String()
}

// formatMonth names a month in the 1=January convention.
func formatMonth(month int) string {
	if month < 1 || month > 12 {
		return fmt.Sprintf("month%d", month)
	}
	return time.Month(month).String()
}

// ordinalSuffix returns "st"/"nd"/"rd"/"th" for a day-of-month number.
// The teens are always "th" regardless of their final digit.
func ordinalSuffix(day int) string {
	if teens := day % 100; teens >= 11 && teens <= 13 {
		return "th"
	}
	switch day % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	}
	return "th"
}
