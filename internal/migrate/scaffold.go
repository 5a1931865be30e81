package migrate

import (
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// scaffoldTask is the YAML shape registry.ValidateRawDocument expects:
// name, cron, handler, retryDelayMs. handler is left as a placeholder
// since crontab commands are shell strings, not Go callbacks — the
// operator must wire one up by hand before running cronloopd with this
// file.
type scaffoldTask struct {
	Name         string `yaml:"name"`
	Cron         string `yaml:"cron"`
	Handler      string `yaml:"handler"`
	RetryDelayMs int64  `yaml:"retryDelayMs"`
	// Source surfaces the original crontab line as a hint for the
	// operator wiring up a handler; registry.ValidateRawDocument ignores
	// unrecognized map keys, so its presence here is harmless.
	Source string `yaml:"source"`
}

type scaffoldDoc struct {
	PollingInterval string         `yaml:"pollingInterval"`
	StatePath       string         `yaml:"statePath"`
	Registrations   []scaffoldTask `yaml:"registrations"`
}

// defaultRetryDelayMs seeds every scaffolded task with a conservative
// one-minute retry delay; crontab has no notion of retries at all, so
// there is no value to carry forward here.
const defaultRetryDelayMs = 60_000

var nonIdentifierRun = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// Scaffold renders jobs as a registrations YAML document. Invalid jobs
// (Valid == false) are skipped and returned separately so the caller can
// report what couldn't be migrated.
func Scaffold(jobs []*Job) (doc []byte, skipped []*Job, err error) {
	out := scaffoldDoc{
		PollingInterval: "30s",
		StatePath:       "./cronloop.db",
	}

	seen := make(map[string]int)
	for _, j := range jobs {
		if !j.Valid {
			skipped = append(skipped, j)
			continue
		}
		name := uniqueName(seen, commandToName(j.Command))
		out.Registrations = append(out.Registrations, scaffoldTask{
			Name:         name,
			Cron:         j.CronExpression,
			Handler:      "TODO_" + name,
			RetryDelayMs: defaultRetryDelayMs,
			Source:       fmt.Sprintf("line %d: %s", j.LineNumber, j.Command),
		})
	}

	data, err := yaml.Marshal(out)
	if err != nil {
		return nil, skipped, fmt.Errorf("rendering scaffold: %w", err)
	}
	return data, skipped, nil
}

// commandToName derives a YAML-safe, human-legible task name from a
// shell command, e.g. "/usr/bin/backup.sh --full" -> "backup-sh-full".
func commandToName(command string) string {
	fields := strings.Fields(command)
	base := command
	if len(fields) > 0 {
		base = strings.Join(fields, "-")
	}
	if idx := strings.LastIndex(base, "/"); idx != -1 {
		base = base[idx+1:]
	}
	slug := strings.ToLower(nonIdentifierRun.ReplaceAllString(base, "-"))
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "task"
	}
	return slug
}

func uniqueName(seen map[string]int, base string) string {
	seen[base]++
	if seen[base] == 1 {
		return base
	}
	return fmt.Sprintf("%s-%d", base, seen[base])
}
