package zipkinz

import (
	"time"

	"github.com/zoobzio/clockz"
)

// hasMonotonic reports whether t carries a monotonic clock reading.
// Round(0) strips the reading, which changes the internal representation.
func hasMonotonic(t time.Time) bool {
	return t != t.Round(0)
}

// reconcileStartTime produces a consistent (wall, monotonic) start pair from
// partially specified hints. A zero time means the hint is absent.
//
// If neither hint is set, both values are read from the clock independently.
// If only one is set, the other is derived through the clock's current
// wall/monotonic offset. If both are set they are returned unchanged; no
// consistency check between them is performed.
//
// The monotonic value feeds duration arithmetic, immune to wall clock
// adjustments; the wall value becomes the externally reported timestamp.
func reconcileStartTime(clock clockz.Clock, wallHint, monoHint time.Time) (wall, mono time.Time) {
	if wallHint.IsZero() && monoHint.IsZero() {
		return clock.Now().Round(0), clock.Now()
	}
	if wallHint.IsZero() {
		now := clock.Now()
		return now.Round(0).Add(monoHint.Sub(now)), monoHint
	}
	if monoHint.IsZero() {
		now := clock.Now()
		return wallHint, now.Add(wallHint.Sub(now.Round(0)))
	}
	return wallHint, monoHint
}

// splitStartHint maps the single opentracing start time onto the reconciler's
// two hints. A reading-carrying time serves as both; a pure wall time leaves
// the monotonic hint absent.
func splitStartHint(t time.Time) (wallHint, monoHint time.Time) {
	if t.IsZero() {
		return time.Time{}, time.Time{}
	}
	if hasMonotonic(t) {
		return t.Round(0), t
	}
	return t, time.Time{}
}

// resolveFinishTime returns the explicit finish hint when given, otherwise
// the current clock reading.
func resolveFinishTime(clock clockz.Clock, hint time.Time) time.Time {
	if hint.IsZero() {
		return clock.Now()
	}
	return hint
}
