// Package forecast answers "what will this registration set actually
// do" questions ahead of running it: how often each task fires, and
// which tasks are scheduled to fire at the same instant. Since
// callbacks dispatch with no concurrency cap, tasks sharing a fire
// minute all run at once; Overlaps lets an operator see that before
// the first tick does.
package forecast

import (
	"sort"
	"time"

	"github.com/hzerrad/cronloop/internal/cronexpr"
	"github.com/hzerrad/cronloop/internal/registry"
	"github.com/hzerrad/cronloop/internal/timeutil"
)

// maxIterationsPerTask bounds the Next-fire walk so a pathologically
// frequent expression can't spin forever.
const maxIterationsPerTask = 100_000

// Overlap is a set of tasks whose cron expressions fire at the same
// instant.
type Overlap struct {
	At    timeutil.Instant `json:"at"`
	Names []string         `json:"names"`
}

// Report summarizes a registration set's behavior over a window.
type Report struct {
	RunsPerDay    map[string]int `json:"runsPerDay"`
	Overlaps      []Overlap      `json:"overlaps"`
	MaxConcurrent int            `json:"maxConcurrent"`
}

// RunsPerDay counts how many times expr fires in the 24 hours
// starting at from (inclusive).
func RunsPerDay(expr cronexpr.Expression, from timeutil.Instant) (int, error) {
	return countFires(expr, from, 24*time.Hour)
}

func countFires(expr cronexpr.Expression, from timeutil.Instant, window time.Duration) (int, error) {
	end := from.Add(window)
	cursor := from.Add(-time.Minute) // NextFire is strictly-after; step back one minute to include `from` itself
	count := 0
	for i := 0; i < maxIterationsPerTask; i++ {
		next, err := cronexpr.NextFire(expr, cursor)
		if err != nil {
			return count, err
		}
		if !next.Before(end) {
			break
		}
		count++
		cursor = next
	}
	return count, nil
}

// Analyze builds a Report for regs over the window starting at from.
// Tasks whose own NextFire bound is exhausted are silently excluded
// from RunsPerDay for that task (a parked task forecasts to zero).
func Analyze(regs []registry.ParsedRegistration, from timeutil.Instant, window time.Duration) Report {
	type fire struct {
		at   timeutil.Instant
		name string
	}
	var fires []fire
	runsPerDay := make(map[string]int, len(regs))

	for _, r := range regs {
		if n, err := RunsPerDay(r.Cron, from); err == nil {
			runsPerDay[r.Name] = n
		}

		cursor := from.Add(-time.Minute)
		end := from.Add(window)
		for i := 0; i < maxIterationsPerTask; i++ {
			next, err := cronexpr.NextFire(r.Cron, cursor)
			if err != nil || !next.Before(end) {
				break
			}
			fires = append(fires, fire{at: next, name: r.Name})
			cursor = next
		}
	}

	byInstant := make(map[timeutil.Instant][]string)
	for _, f := range fires {
		byInstant[f.at] = append(byInstant[f.at], f.name)
	}

	var overlaps []Overlap
	maxConcurrent := 0
	for at, names := range byInstant {
		if len(names) < 2 {
			continue
		}
		sort.Strings(names)
		overlaps = append(overlaps, Overlap{At: at, Names: names})
		if len(names) > maxConcurrent {
			maxConcurrent = len(names)
		}
	}
	sort.Slice(overlaps, func(i, j int) bool {
		if len(overlaps[i].Names) != len(overlaps[j].Names) {
			return len(overlaps[i].Names) > len(overlaps[j].Names)
		}
		return overlaps[i].At.Before(overlaps[j].At)
	})

	return Report{RunsPerDay: runsPerDay, Overlaps: overlaps, MaxConcurrent: maxConcurrent}
}
