// Package timeenc encodes deadlines relative to their save instant so that
// a deadline keeps its wall-clock meaning after a process restart resets
// the monotonic clock.
package timeenc

import "time"

// Encode splits deadline into a non-negative offset from now plus now's
// unix second. A deadline already in the past encodes as a zero offset.
func Encode(deadline, now time.Time) (rel time.Duration, at int64) {
	rel = deadline.Sub(now)
	if rel < 0 {
		rel = 0
	}
	return rel, now.Unix()
}

// Decode rebuilds a deadline stored as (rel, at) on now's timeline. Wall
// seconds elapsed since the save shorten the remaining window; a clock
// that moved backwards counts as no elapsed time, so a deadline never
// extends past its original offset.
func Decode(rel time.Duration, at int64, now time.Time) time.Time {
	elapsed := time.Duration(now.Unix()-at) * time.Second
	if elapsed < 0 {
		elapsed = 0
	}
	remaining := rel - elapsed
	if remaining < 0 {
		remaining = 0
	}
	return now.Add(remaining)
}
