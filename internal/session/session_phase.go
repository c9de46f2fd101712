package session

import "time"

// Phase is the derived lifecycle state of a session. It is a pure function of
// the clock and never stored; every read recomputes it.
type Phase string

const (
	PhaseUpcoming  Phase = "upcoming"
	PhaseActive    Phase = "active"
	PhaseCompleted Phase = "completed"
)

// Classify places now on the session timeline. The three phases partition the
// timeline: before start, between start and end inclusive, after end.
func Classify(startTime, endTime, now time.Time) Phase {
	if now.Before(startTime) {
		return PhaseUpcoming
	}
	if now.After(endTime) {
		return PhaseCompleted
	}
	return PhaseActive
}
