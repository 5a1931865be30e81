package health

import (
	"fmt"
	"strings"
)

// GenerateHistogram renders a 24-bucket hour distribution as a text bar
// chart, one row per hour of the day, scaled so the busiest hour fills
// the full bar width.
func GenerateHistogram(hourData []int, width int) string {
	if len(hourData) != 24 {
		return ""
	}

	busiest := 0
	for _, n := range hourData {
		if n > busiest {
			busiest = n
		}
	}
	if busiest == 0 {
		return "No fires scheduled in this window\n"
	}

	var b strings.Builder
	b.WriteString("Upcoming fires by hour (UTC)\n")
	for hour, n := range hourData {
		fmt.Fprintf(&b, "%02d:00 │%-*s %d\n", hour, width, bar(n, busiest, width), n)
	}
	return b.String()
}

func bar(n, busiest, width int) string {
	return strings.Repeat("█", n*width/busiest)
}
