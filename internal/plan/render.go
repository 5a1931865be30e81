package plan

import (
	"fmt"
	"io"
)

// Render writes p as human-readable text using a simple box-drawing
// rule as a section separator.
func Render(w io.Writer, p Plan) error {
	fmt.Fprintf(w, "Registration Plan\n")
	fmt.Fprintf(w, "───────────────────────────────────────────────────────\n")

	var added, removed, modified, unchanged int
	for _, c := range p.Changes {
		switch c.Type {
		case Added:
			added++
			fmt.Fprintf(w, "+ %-24s cron=%q retryDelayMs=%d\n", c.Name, c.NewCron, c.NewRetryMs)
		case Removed:
			removed++
			fmt.Fprintf(w, "- %-24s cron=%q retryDelayMs=%d\n", c.Name, c.OldCron, c.OldRetryMs)
		case Modified:
			modified++
			fmt.Fprintf(w, "~ %-24s %v (runtime resets)\n", c.Name, c.FieldsChanged())
			fmt.Fprintf(w, "    cron:         %q -> %q\n", c.OldCron, c.NewCron)
			fmt.Fprintf(w, "    retryDelayMs: %d -> %d\n", c.OldRetryMs, c.NewRetryMs)
		case Unchanged:
			unchanged++
		}
	}

	fmt.Fprintf(w, "\n%d to add, %d to remove, %d to modify, %d unchanged.\n", added, removed, modified, unchanged)
	return nil
}
