package model

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// MaxJobOutputLines bounds the output tail kept per job
const MaxJobOutputLines = 200

// Job represents a single cargo action running in the background
type Job struct {
	ID         string
	Action     Action
	Dir        string    // package directory, empty for install
	Label      string    // crate name for install, package name otherwise
	Status     JobStatus
	Output     []string  // tail of merged stdout/stderr
	LastLine   string    // most recent non-empty output line
	LastError  string    // last error message if any
	Attempts   int       // number of times cargo was started
	StartedAt  time.Time // when the job was submitted
	FinishedAt time.Time // when the job reached a finished state
}

// AppendOutput records one output line, keeping at most MaxJobOutputLines
func (j *Job) AppendOutput(line string) {
	line = strings.TrimRight(line, "\r\n")
	j.Output = append(j.Output, line)
	if over := len(j.Output) - MaxJobOutputLines; over > 0 {
		j.Output = append(j.Output[:0:0], j.Output[over:]...)
	}
	if strings.TrimSpace(line) != "" {
		j.LastLine = strings.TrimSpace(line)
	}
}

// Snapshot returns a copy safe to hand to another goroutine
func (j *Job) Snapshot() *Job {
	c := *j
	c.Output = append([]string(nil), j.Output...)
	return &c
}

// GetElapsedString returns run time formatted as mm:ss or hh:mm:ss, or "—" if not started
func (j *Job) GetElapsedString() string {
	if j.StartedAt.IsZero() {
		return "—"
	}
	end := j.FinishedAt
	if end.IsZero() {
		end = time.Now()
	}
	total := int(end.Sub(j.StartedAt).Seconds())
	if total < 0 {
		total = 0
	}

	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60

	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

// GetDisplayTitle returns "<action> <label>", falling back to the directory name
func (j *Job) GetDisplayTitle() string {
	subject := j.Label
	if subject == "" && j.Dir != "" {
		subject = filepath.Base(filepath.Clean(j.Dir))
	}
	if subject == "" {
		return j.Action.String()
	}
	return j.Action.String() + " " + subject
}
