package domain

import (
	"time"

	"github.com/google/uuid"
)

type Phase string

const (
	PhaseFocus     Phase = "focus"
	PhaseRest      Phase = "rest"
	PhaseCompleted Phase = "completed"
	PhaseCancelled Phase = "cancelled"
)

// Terminal reports whether no further transitions can happen from p.
func (p Phase) Terminal() bool {
	return p == PhaseCompleted || p == PhaseCancelled
}

// Session is one user's Pomodoro run. FocusSec and RestSec are fixed at
// creation; Phase and RemainingSec are owned by the engine running it.
type Session struct {
	ID           string
	UserID       string
	PresetID     string
	FocusSec     int
	RestSec      int
	Phase        Phase
	RemainingSec int
	StartedAt    time.Time
}

func NewSession(id string, userID string, presetID string, focusSec, restSec int) (*Session, error) {
	if focusSec <= 0 {
		return nil, &ValidationError{Field: "focus", Message: "Focus and rest times must be positive integers."}
	}
	if restSec <= 0 {
		return nil, &ValidationError{Field: "rest", Message: "Focus and rest times must be positive integers."}
	}

	if id == "" {
		id = uuid.New().String()
	}

	return &Session{
		ID:           id,
		UserID:       userID,
		PresetID:     presetID,
		FocusSec:     focusSec,
		RestSec:      restSec,
		Phase:        PhaseFocus,
		RemainingSec: focusSec,
		StartedAt:    time.Now(),
	}, nil
}

// PhaseLength returns the configured length of phase p in seconds.
func (s *Session) PhaseLength(p Phase) int {
	switch p {
	case PhaseFocus:
		return s.FocusSec
	case PhaseRest:
		return s.RestSec
	default:
		return 0
	}
}

// RemainingMinutes truncates the remaining time to whole minutes.
func (s *Session) RemainingMinutes() int {
	if s.RemainingSec <= 0 {
		return 0
	}
	return s.RemainingSec / 60
}
