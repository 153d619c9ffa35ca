package storage

import (
	"time"

	"github.com/hperssn/pomobot/internal/domain"
)

type Outcome string

const (
	OutcomeCompleted Outcome = "completed"
	OutcomeCancelled Outcome = "cancelled"
)

type SessionRecord struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	PresetID   string    `json:"presetId,omitempty"`
	FocusSec   int       `json:"focusSec"`
	RestSec    int       `json:"restSec"`
	Outcome    Outcome   `json:"outcome"`
	StartedAt  time.Time `json:"startedAt"`
	EndedAt    time.Time `json:"endedAt"`
	ElapsedSec int       `json:"elapsedSec"`
}

type CustomPomodoro struct {
	UserID    string    `json:"userId"`
	FocusMin  int       `json:"focusMin"`
	RestMin   int       `json:"restMin"`
	CreatedAt time.Time `json:"createdAt"`
}

// FromDomainSession converts a finished session into a history record.
func FromDomainSession(s *domain.Session, outcome Outcome) *SessionRecord {
	ended := time.Now()

	elapsed := int(ended.Sub(s.StartedAt).Seconds())
	if outcome == OutcomeCompleted {
		elapsed = s.FocusSec + s.RestSec
	}

	return &SessionRecord{
		ID:         s.ID,
		UserID:     s.UserID,
		PresetID:   s.PresetID,
		FocusSec:   s.FocusSec,
		RestSec:    s.RestSec,
		Outcome:    outcome,
		StartedAt:  s.StartedAt,
		EndedAt:    ended,
		ElapsedSec: elapsed,
	}
}

func statsFrom(records []SessionRecord) *SessionStats {
	var stats SessionStats
	for _, r := range records {
		stats.TotalSessions++
		switch r.Outcome {
		case OutcomeCompleted:
			stats.CompletedCount++
			stats.TotalFocusSec += r.FocusSec
		case OutcomeCancelled:
			stats.CancelledCount++
		}
	}
	if stats.TotalSessions > 0 {
		stats.CompletionRate = float64(stats.CompletedCount) / float64(stats.TotalSessions) * 100
	}
	return &stats
}
