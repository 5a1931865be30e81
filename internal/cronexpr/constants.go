package cronexpr

// Field value ranges for the five cron fields.
const (
	MinMinute = 0
	MaxMinute = 59

	MinHour = 0
	MaxHour = 23

	MinDayOfMonth = 1
	MaxDayOfMonth = 31

	MinMonth = 1
	MaxMonth = 12

	MinWeekday = 0 // Sunday
	MaxWeekday = 6 // Saturday

	// maxLookaheadYears bounds NextFire/MostRecentFire's search window:
	// if no matching instant exists within this many years, the
	// expression is treated as unsatisfiable.
	maxLookaheadYears = 4
)
