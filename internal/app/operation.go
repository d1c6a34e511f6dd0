package app

import (
	"strings"
	"time"
)

// Invocation identifies one run of a CLI command. Its ID tags every log
// line written during the run.
type Invocation struct {
	ID      string
	Command string
	Started time.Time
}

// NewInvocation creates an Invocation for command started at now.
// The ID is the UTC start time followed by the command name.
func NewInvocation(command string, now time.Time) Invocation {
	cmd := strings.ReplaceAll(strings.TrimSpace(command), " ", "-")
	if cmd == "" {
		cmd = "pwcards"
	}
	return Invocation{
		ID:      now.UTC().Format("20060102T150405Z") + "-" + cmd,
		Command: cmd,
		Started: now,
	}
}

// Elapsed returns the time since the invocation started.
func (i Invocation) Elapsed(now time.Time) time.Duration {
	return now.Sub(i.Started)
}
