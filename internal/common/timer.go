// Package common holds small helpers shared across the analysis stages.
package common

import (
	"fmt"
	"time"
)

// Timer measures the wall-clock time of one analysis stage or engine call.
type Timer struct {
	start    time.Time
	name     string
	duration time.Duration
}

// NewTimer starts an unnamed timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// NewNamedTimer starts a timer labeled with the stage it measures.
func NewNamedTimer(name string) *Timer {
	return &Timer{
		name:  name,
		start: time.Now(),
	}
}

// Stop records and returns the elapsed duration.
func (t *Timer) Stop() time.Duration {
	t.duration = time.Since(t.start)
	return t.duration
}

// Duration returns the duration recorded by Stop.
func (t *Timer) Duration() time.Duration {
	return t.duration
}

// Name returns the stage label, empty for unnamed timers.
func (t *Timer) Name() string {
	return t.name
}

// String renders the timer for log lines, "stage: elapsed" when named.
func (t *Timer) String() string {
	if t.name != "" {
		return fmt.Sprintf("%s: %v", t.name, t.duration)
	}
	return t.duration.String()
}
