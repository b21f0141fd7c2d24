package timeenc

import (
	"testing"
	"time"
)

func TestRoundTripSameInstant(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	deadline := now.Add(90 * time.Minute)

	rel, at := Encode(deadline, now)
	if rel != 90*time.Minute {
		t.Fatalf("rel = %v, want 90m", rel)
	}
	if at != now.Unix() {
		t.Fatalf("at = %d, want %d", at, now.Unix())
	}
	if got := Decode(rel, at, now); !got.Equal(deadline) {
		t.Fatalf("Decode = %v, want %v", got, deadline)
	}
}

func TestElapsedTimeShortensWindow(t *testing.T) {
	saved := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	rel, at := Encode(saved.Add(time.Hour), saved)

	// restart 10 minutes later: 50 minutes should remain
	now := saved.Add(10 * time.Minute)
	got := Decode(rel, at, now)
	if want := now.Add(50 * time.Minute); !got.Equal(want) {
		t.Fatalf("Decode = %v, want %v", got, want)
	}
}

func TestWindowFullyElapsed(t *testing.T) {
	saved := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	rel, at := Encode(saved.Add(time.Hour), saved)

	now := saved.Add(2 * time.Hour)
	if got := Decode(rel, at, now); !got.Equal(now) {
		t.Fatalf("Decode = %v, want clamp to now %v", got, now)
	}
}

func TestClockMovedBackwards(t *testing.T) {
	saved := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	rel, at := Encode(saved.Add(time.Hour), saved)

	// a backwards jump must not extend the deadline past its offset
	now := saved.Add(-30 * time.Minute)
	got := Decode(rel, at, now)
	if want := now.Add(time.Hour); !got.Equal(want) {
		t.Fatalf("Decode = %v, want %v", got, want)
	}
}

func TestPastDeadlineEncodesAsZeroOffset(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	rel, _ := Encode(now.Add(-time.Minute), now)
	if rel != 0 {
		t.Fatalf("rel = %v, want 0 for past deadline", rel)
	}
	if got := Decode(rel, now.Unix(), now); !got.Equal(now) {
		t.Fatalf("Decode = %v, want %v", got, now)
	}
}
