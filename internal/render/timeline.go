// Package render draws an ASCII occurrence timeline for a set of named,
// recurring tasks. The renderer itself is task-agnostic;
// BuildForRegistrations below is what ties it to cronloop's own
// domain, walking cronexpr.NextFire to populate a Timeline from a
// registration set rather than from a static listing.
package render

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/hzerrad/cronloop/internal/cronexpr"
	"github.com/hzerrad/cronloop/internal/human"
	"github.com/hzerrad/cronloop/internal/registry"
	"github.com/hzerrad/cronloop/internal/timeutil"
)

// TimelineView selects the window and granularity of a timeline.
type TimelineView int

const (
	// DayView shows 24 hours, one slot per hour.
	DayView TimelineView = iota
	// HourView shows 60 minutes, one slot per minute.
	HourView
)

func (v TimelineView) String() string {
	switch v {
	case DayView:
		return "day"
	case HourView:
		return "hour"
	default:
		return "unknown"
	}
}

// slotCount and slotSize define each view's granularity.
func (v TimelineView) slotCount() int {
	if v == HourView {
		return 60
	}
	return 24
}

func (v TimelineView) slotSize() time.Duration {
	if v == HourView {
		return time.Minute
	}
	return time.Hour
}

// TaskRun is a single task occurrence at a specific time.
type TaskRun struct {
	TaskName string
	RunTime  time.Time
}

// Overlap is a minute at which more than one task fires.
type Overlap struct {
	Time      time.Time
	Count     int
	TaskNames []string
}

// TaskInfo carries a task's expression and English description for the
// timeline's legend.
type TaskInfo struct {
	Expression  string
	Description string
}

// Timeline accumulates task runs over a fixed window and renders them
// as one lane of slots per task.
type Timeline struct {
	view      TimelineView
	startTime time.Time
	endTime   time.Time
	width     int
	taskRuns  []TaskRun
	taskInfo  map[string]TaskInfo
	slots     []time.Time
}

// NewTimeline builds an empty timeline starting at startTime, spanning
// the view's window.
func NewTimeline(view TimelineView, startTime time.Time, width int) *Timeline {
	slots := make([]time.Time, view.slotCount())
	for i := range slots {
		slots[i] = startTime.Add(time.Duration(i) * view.slotSize())
	}

	return &Timeline{
		view:      view,
		startTime: startTime,
		endTime:   startTime.Add(time.Duration(len(slots)) * view.slotSize()),
		width:     width,
		taskInfo:  make(map[string]TaskInfo),
		slots:     slots,
	}
}

// AddTaskRun records one occurrence; runs outside the window are
// dropped.
func (tl *Timeline) AddTaskRun(taskName string, runTime time.Time) {
	if runTime.Before(tl.startTime) || !runTime.Before(tl.endTime) {
		return
	}
	tl.taskRuns = append(tl.taskRuns, TaskRun{TaskName: taskName, RunTime: runTime})
}

// SetTaskInfo attaches legend metadata for a task.
func (tl *Timeline) SetTaskInfo(taskName, expression, description string) {
	tl.taskInfo[taskName] = TaskInfo{Expression: expression, Description: description}
}

// DetectOverlaps returns every minute at which two or more distinct
// tasks fire, in chronological order.
func (tl *Timeline) DetectOverlaps() []Overlap {
	byMinute := make(map[time.Time]map[string]struct{})
	for _, run := range tl.taskRuns {
		minute := run.RunTime.Truncate(time.Minute)
		if byMinute[minute] == nil {
			byMinute[minute] = make(map[string]struct{})
		}
		byMinute[minute][run.TaskName] = struct{}{}
	}

	var overlaps []Overlap
	for minute, tasks := range byMinute {
		if len(tasks) < 2 {
			continue
		}
		names := make([]string, 0, len(tasks))
		for name := range tasks {
			names = append(names, name)
		}
		sort.Strings(names)
		overlaps = append(overlaps, Overlap{Time: minute, Count: len(names), TaskNames: names})
	}
	sort.Slice(overlaps, func(i, j int) bool { return overlaps[i].Time.Before(overlaps[j].Time) })
	return overlaps
}

// taskNames returns the distinct task names in first-seen order, so
// lanes render in the order tasks were added.
func (tl *Timeline) taskNames() []string {
	seen := make(map[string]struct{})
	var names []string
	for _, run := range tl.taskRuns {
		if _, ok := seen[run.TaskName]; !ok {
			seen[run.TaskName] = struct{}{}
			names = append(names, run.TaskName)
		}
	}
	return names
}

// slotIndex maps a run time to its slot, or -1 when outside the window.
func (tl *Timeline) slotIndex(t time.Time) int {
	if t.Before(tl.startTime) || !t.Before(tl.endTime) {
		return -1
	}
	return int(t.Sub(tl.startTime) / tl.view.slotSize())
}

// Render draws the timeline: a header, one lane of slots per task, and
// a legend. Slots holding a fire render as a filled block.
func (tl *Timeline) Render() string {
	names := tl.taskNames()
	lanes := make(map[string][]bool, len(names))
	for _, name := range names {
		lanes[name] = make([]bool, len(tl.slots))
	}
	for _, run := range tl.taskRuns {
		if idx := tl.slotIndex(run.RunTime); idx >= 0 {
			lanes[run.TaskName][idx] = true
		}
	}

	nameWidth := 0
	for _, name := range names {
		if len(name) > nameWidth {
			nameWidth = len(name)
		}
	}

	var b strings.Builder
	switch tl.view {
	case HourView:
		fmt.Fprintf(&b, "Timeline for %s (Hour View)\n", tl.startTime.Format("2006-01-02 15:04"))
	default:
		fmt.Fprintf(&b, "Timeline for %s (Day View)\n", tl.startTime.Format("2006-01-02"))
	}
	fmt.Fprintf(&b, "%*s  %s%s%s\n", nameWidth, "",
		tl.startTime.Format("15:04"),
		strings.Repeat("─", len(tl.slots)-8),
		tl.endTime.Format("15:04"))

	for _, name := range names {
		fmt.Fprintf(&b, "%-*s  │", nameWidth, name)
		for _, fired := range lanes[name] {
			if fired {
				b.WriteString("█")
			} else {
				b.WriteString("·")
			}
		}
		b.WriteString("│\n")
	}

	b.WriteString("\n")
	for _, name := range names {
		info := tl.taskInfo[name]
		if info.Description != "" {
			fmt.Fprintf(&b, "  %s: %s\n", name, info.Description)
		} else {
			fmt.Fprintf(&b, "  %s\n", name)
		}
	}

	if overlaps := tl.DetectOverlaps(); len(overlaps) > 0 {
		b.WriteString("\nOverlapping fires:\n")
		for _, o := range overlaps {
			fmt.Fprintf(&b, "  %s: %s\n", o.Time.Format("15:04"), strings.Join(o.TaskNames, ", "))
		}
	}

	return b.String()
}

// RenderJSON returns the timeline as a JSON-encodable document: one
// entry per task with its sorted run times, plus the overlap minutes.
func (tl *Timeline) RenderJSON() map[string]interface{} {
	runsByTask := make(map[string][]time.Time)
	for _, run := range tl.taskRuns {
		runsByTask[run.TaskName] = append(runsByTask[run.TaskName], run.RunTime)
	}

	overlapCount := make(map[time.Time]int)
	overlaps := tl.DetectOverlaps()
	for _, o := range overlaps {
		overlapCount[o.Time] = o.Count
	}

	tasks := make([]map[string]interface{}, 0, len(runsByTask))
	for _, name := range tl.taskNames() {
		runTimes := runsByTask[name]
		sort.Slice(runTimes, func(i, j int) bool { return runTimes[i].Before(runTimes[j]) })

		runs := make([]map[string]interface{}, 0, len(runTimes))
		for _, rt := range runTimes {
			others := 0
			if n, ok := overlapCount[rt.Truncate(time.Minute)]; ok {
				others = n - 1 // the task itself is one of the n
			}
			runs = append(runs, map[string]interface{}{
				"time":     rt.Format(time.RFC3339),
				"overlaps": others,
			})
		}

		entry := map[string]interface{}{"id": name, "runs": runs}
		if info, ok := tl.taskInfo[name]; ok {
			entry["expression"] = info.Expression
			entry["description"] = info.Description
		}
		tasks = append(tasks, entry)
	}

	overlapsJSON := make([]map[string]interface{}, 0, len(overlaps))
	for _, o := range overlaps {
		overlapsJSON = append(overlapsJSON, map[string]interface{}{
			"time":  o.Time.Format(time.RFC3339),
			"count": o.Count,
			"tasks": o.TaskNames,
		})
	}

	return map[string]interface{}{
		"view":      tl.view.String(),
		"startTime": tl.startTime.Format(time.RFC3339),
		"endTime":   tl.endTime.Format(time.RFC3339),
		"width":     tl.width,
		"tasks":     tasks,
		"overlaps":  overlapsJSON,
	}
}

// BuildForRegistrations walks cronexpr.NextFire forward from startTime
// for each registration, populating a Timeline with every occurrence
// that falls inside the view's window. A registration set has no fixed
// listing of occurrences the way a recorded run log does, so this
// projects future fire times rather than replaying past ones.
func BuildForRegistrations(view TimelineView, startTime time.Time, width int, regs []registry.ParsedRegistration) *Timeline {
	tl := NewTimeline(view, startTime, width)
	h := human.NewHumanizer()

	from := timeutil.NewInstant(startTime)
	for _, reg := range regs {
		tl.SetTaskInfo(reg.Name, reg.Cron.String(), h.Humanize(reg.Cron))

		cursor := from
		for {
			fired, err := cronexpr.NextFire(reg.Cron, cursor)
			if err != nil || !fired.Time().Before(tl.endTime) {
				break
			}
			tl.AddTaskRun(reg.Name, fired.Time())
			cursor = fired
		}
	}

	return tl
}
