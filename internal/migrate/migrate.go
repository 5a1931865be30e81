// Package migrate reads an existing OS crontab and turns it into a
// registrations YAML scaffold an operator can hand to cronloopd,
// powering the "import" subcommand. Entry/Job line classification,
// field-splitting ParseLine, and file/`crontab -l` reading mirror a
// conventional crontab parser, retargeted from ad-hoc validation onto
// cronexpr.Parse and widened to translate the @-aliases cronexpr does
// not accept into their five-field equivalents.
// @reboot has no five-field equivalent and no counterpart
// in a polling scheduler (there is no "at process start" fire
// condition), so it is reported as unsupported rather than translated.
package migrate

import (
	"bufio"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"

	"github.com/hzerrad/cronloop/internal/cronexpr"
)

var (
	envVarRegex    = regexp.MustCompile(`^[A-Z_][A-Z0-9_]*=`)
	cronAliasRegex = regexp.MustCompile(`^@(reboot|yearly|annually|monthly|weekly|daily|hourly)`)
)

// aliasExpansions maps the standard cron descriptors onto the five-field
// expressions cronexpr.Parse accepts. @reboot is intentionally absent.
var aliasExpansions = map[string]string{
	"@yearly":   "0 0 1 1 *",
	"@annually": "0 0 1 1 *",
	"@monthly":  "0 0 1 * *",
	"@weekly":   "0 0 * * 0",
	"@daily":    "0 0 * * *",
	"@hourly":   "0 * * * *",
}

// EntryType classifies one line of a crontab file.
type EntryType int

const (
	EntryJob EntryType = iota
	EntryComment
	EntryEnvVar
	EntryEmpty
	EntryUnsupported
)

// Job is one schedulable line found in a crontab, translated onto this
// scheduler's grammar.
type Job struct {
	LineNumber int
	Command    string
	Comment    string
	// OriginalExpression is the expression exactly as written in the
	// source crontab, before alias expansion.
	OriginalExpression string
	// CronExpression is OriginalExpression translated to a five-field
	// expression, set only when Valid is true.
	CronExpression string
	Valid          bool
	Error          string
}

// Entry is any line of a crontab file, job or otherwise.
type Entry struct {
	Type       EntryType
	LineNumber int
	Raw        string
	Job        *Job
}

// ParseLine classifies and, for job lines, parses a single crontab line.
func ParseLine(line string, lineNumber int) *Entry {
	entry := &Entry{LineNumber: lineNumber, Raw: line}
	trimmed := strings.TrimSpace(line)

	switch {
	case trimmed == "":
		entry.Type = EntryEmpty
	case strings.HasPrefix(trimmed, "#"):
		entry.Type = EntryComment
	case envVarRegex.MatchString(trimmed):
		entry.Type = EntryEnvVar
	default:
		if job := parseJob(trimmed, lineNumber); job != nil {
			entry.Type = EntryJob
			entry.Job = job
		} else {
			entry.Type = EntryUnsupported
		}
	}
	return entry
}

func parseJob(line string, lineNumber int) *Job {
	if cronAliasRegex.MatchString(line) {
		return parseAliasJob(line, lineNumber)
	}

	fields := strings.Fields(line)
	if len(fields) < 6 {
		return nil
	}
	expression := strings.Join(fields[0:5], " ")
	command, comment := splitCommandComment(strings.Join(fields[5:], " "))

	job := &Job{
		LineNumber:         lineNumber,
		OriginalExpression: expression,
		Command:            command,
		Comment:            comment,
	}
	if _, err := cronexpr.Parse(expression); err != nil {
		job.Error = err.Error()
		return job
	}
	job.Valid = true
	job.CronExpression = expression
	return job
}

func parseAliasJob(line string, lineNumber int) *Job {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return nil
	}
	alias := fields[0]
	command, comment := splitCommandComment(strings.TrimSpace(line[len(alias):]))

	job := &Job{
		LineNumber:         lineNumber,
		OriginalExpression: alias,
		Command:            command,
		Comment:            comment,
	}

	expanded, ok := aliasExpansions[alias]
	if !ok {
		job.Error = fmt.Sprintf("%s has no polling-scheduler equivalent", alias)
		return job
	}
	job.Valid = true
	job.CronExpression = expanded
	return job
}

func splitCommandComment(s string) (command, comment string) {
	if idx := strings.Index(s, "#"); idx != -1 {
		return strings.TrimSpace(s[:idx]), strings.TrimSpace(s[idx+1:])
	}
	return strings.TrimSpace(s), ""
}

// ParseFile reads every entry (including comments and env vars) from a
// crontab file at path.
func ParseFile(path string) (entries []*Entry, err error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", path, closeErr)
		}
	}()

	scanner := bufio.NewScanner(file)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		entries = append(entries, ParseLine(scanner.Text(), lineNumber))
	}
	if scanErr := scanner.Err(); scanErr != nil {
		return nil, fmt.Errorf("reading %s: %w", path, scanErr)
	}
	return entries, nil
}

// ReadFile returns only the job entries found in a crontab file.
func ReadFile(path string) ([]*Job, error) {
	entries, err := ParseFile(path)
	if err != nil {
		return nil, err
	}
	return jobsOf(entries), nil
}

// ReadUser reads the invoking OS user's crontab via `crontab -l`. A
// missing crontab (exit status 1) is not an error; it yields no jobs.
func ReadUser() ([]*Job, error) {
	cmd := exec.Command("crontab", "-l")
	output, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok && exitErr.ExitCode() == 1 {
			return nil, nil
		}
		return nil, fmt.Errorf("reading user crontab: %w", err)
	}

	var entries []*Entry
	for i, line := range strings.Split(string(output), "\n") {
		entries = append(entries, ParseLine(line, i+1))
	}
	return jobsOf(entries), nil
}

func jobsOf(entries []*Entry) []*Job {
	var jobs []*Job
	for _, e := range entries {
		if e.Type == EntryJob && e.Job != nil {
			jobs = append(jobs, e.Job)
		}
	}
	return jobs
}
