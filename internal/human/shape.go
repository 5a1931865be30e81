package human

import "github.com/hzerrad/cronloop/internal/cronexpr"

// shape reconstructs a classified field view (IsEvery/IsStep/IsRange/
// IsList/IsSingle) from a cronexpr field's resolved value set.
// cronexpr only keeps a bitset after parsing, not the original notation,
// so a list like "0,15,30,45" and a step like "*/15" are indistinguishable
// once parsed — shape treats an evenly-spaced run starting at the
// field's minimum as a step, which is what "*/15" actually means in
// this grammar, and the only ambiguity this loses is cosmetic (a
// literal "0,15,30,45" renders the same as "*/15").
type shape struct {
	values   []int
	min, max int
}

func newShape(values []int, min, max int) shape {
	return shape{values: values, min: min, max: max}
}

func (s shape) IsEvery() bool {
	return len(s.values) == s.max-s.min+1
}

// IsStep reports whether values form an arithmetic progression starting
// at min and covering the full range with a step greater than 1.
func (s shape) IsStep() bool {
	if s.IsEvery() || len(s.values) < 2 {
		return false
	}
	if s.values[0] != s.min {
		return false
	}
	step := s.values[1] - s.values[0]
	if step <= 1 {
		return false
	}
	for i := 1; i < len(s.values); i++ {
		if s.values[i]-s.values[i-1] != step {
			return false
		}
	}
	// The last value plus one more step must overshoot max, else this
	// is really a stepped sub-range rather than "*/step".
	return s.values[len(s.values)-1]+step > s.max
}

func (s shape) Step() int {
	if len(s.values) < 2 {
		return 0
	}
	return s.values[1] - s.values[0]
}

func (s shape) IsRange() bool {
	if s.IsEvery() || s.IsStep() || len(s.values) < 2 {
		return false
	}
	for i := 1; i < len(s.values); i++ {
		if s.values[i]-s.values[i-1] != 1 {
			return false
		}
	}
	return true
}

func (s shape) RangeStart() int {
	if len(s.values) == 0 {
		return 0
	}
	return s.values[0]
}

func (s shape) RangeEnd() int {
	if len(s.values) == 0 {
		return 0
	}
	return s.values[len(s.values)-1]
}

func (s shape) IsList() bool {
	return !s.IsEvery() && !s.IsStep() && !s.IsRange() && len(s.values) > 1
}

func (s shape) ListValues() []int { return s.values }

func (s shape) IsSingle() bool { return len(s.values) == 1 }

func (s shape) Value() int {
	if len(s.values) == 0 {
		return 0
	}
	return s.values[0]
}

// shapesOf derives the five field shapes from a parsed expression.
func shapesOf(e cronexpr.Expression) (minute, hour, dayOfMonth, month, weekday shape) {
	minute = newShape(e.MinuteValues(), cronexpr.MinMinute, cronexpr.MaxMinute)
	hour = newShape(e.HourValues(), cronexpr.MinHour, cronexpr.MaxHour)
	dayOfMonth = newShape(e.DayOfMonthValues(), cronexpr.MinDayOfMonth, cronexpr.MaxDayOfMonth)
	month = newShape(e.MonthValues(), cronexpr.MinMonth, cronexpr.MaxMonth)
	weekday = newShape(e.WeekdayValues(), cronexpr.MinWeekday, cronexpr.MaxWeekday)
	return
}
