package domain

import (
	"errors"
	"testing"
	"time"
)

func TestNewSession(t *testing.T) {
	s, err := NewSession("", "user-1", "classic", 1500, 300)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.ID == "" {
		t.Fatalf("expected generated session ID")
	}
	if s.Phase != PhaseFocus {
		t.Fatalf("phase = %s, want %s", s.Phase, PhaseFocus)
	}
	if s.RemainingSec != 1500 {
		t.Fatalf("remaining = %d, want 1500", s.RemainingSec)
	}
	if s.FocusSec != 1500 || s.RestSec != 300 {
		t.Fatalf("totals = %d/%d, want 1500/300", s.FocusSec, s.RestSec)
	}
}

func TestNewSessionRejectsNonPositive(t *testing.T) {
	tests := []struct {
		name     string
		focusSec int
		restSec  int
	}{
		{"zero focus", 0, 300},
		{"negative rest", 1500, -1},
		{"both zero", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSession("", "user-1", "", tt.focusSec, tt.restSec)

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("NewSession(%d, %d) error = %v, want ValidationError", tt.focusSec, tt.restSec, err)
			}
		})
	}
}

func TestRemainingMinutesTruncates(t *testing.T) {
	tests := []struct {
		remaining int
		expected  int
	}{
		{1500, 25},
		{90, 1},
		{59, 0},
		{0, 0},
		{-30, 0},
	}
	for _, tt := range tests {
		s := &Session{RemainingSec: tt.remaining}
		if got := s.RemainingMinutes(); got != tt.expected {
			t.Errorf("RemainingMinutes() with %d sec = %d, want %d", tt.remaining, got, tt.expected)
		}
	}
}

func TestPhaseTerminal(t *testing.T) {
	if PhaseFocus.Terminal() || PhaseRest.Terminal() {
		t.Fatalf("running phases must not be terminal")
	}
	if !PhaseCompleted.Terminal() || !PhaseCancelled.Terminal() {
		t.Fatalf("completed and cancelled must be terminal")
	}
}

func TestNextClockTime(t *testing.T) {
	now := time.Date(2024, 3, 10, 14, 0, 0, 0, time.UTC)

	later := NextClockTime(now, 15, 30)
	if want := time.Date(2024, 3, 10, 15, 30, 0, 0, time.UTC); !later.Equal(want) {
		t.Fatalf("NextClockTime later today = %v, want %v", later, want)
	}

	passed := NextClockTime(now, 9, 0)
	if want := time.Date(2024, 3, 11, 9, 0, 0, 0, time.UTC); !passed.Equal(want) {
		t.Fatalf("NextClockTime passed = %v, want %v", passed, want)
	}

	// end of month rolls over correctly
	eom := time.Date(2024, 3, 31, 23, 0, 0, 0, time.UTC)
	if got, want := NextClockTime(eom, 8, 0), time.Date(2024, 4, 1, 8, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Fatalf("NextClockTime end of month = %v, want %v", got, want)
	}
}

func TestReminderDelayNeverNegative(t *testing.T) {
	now := time.Now()
	r := NewReminder("user-1", "stretch", now.Add(-time.Minute))
	if d := r.Delay(now); d != 0 {
		t.Fatalf("Delay() = %v, want 0", d)
	}
}

func TestNewTaskRequiresDescription(t *testing.T) {
	if _, err := NewTask("user-1", "   "); err == nil {
		t.Fatalf("expected error for blank description")
	}
	task, err := NewTask("user-1", "  write report ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.Description != "write report" {
		t.Fatalf("description = %q, want trimmed", task.Description)
	}
}
