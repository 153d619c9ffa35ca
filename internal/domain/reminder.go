package domain

import (
	"time"

	"github.com/google/uuid"
)

type Reminder struct {
	ID          string
	UserID      string
	Description string
	FireAt      time.Time
	CreatedAt   time.Time
	Fired       bool
}

func NewReminder(userID, description string, fireAt time.Time) *Reminder {
	return &Reminder{
		ID:          uuid.New().String(),
		UserID:      userID,
		Description: description,
		FireAt:      fireAt,
		CreatedAt:   time.Now(),
	}
}

// NextClockTime returns the next moment at hour:minute strictly after now,
// rolling over to the following day when that time has passed already.
func NextClockTime(now time.Time, hour, minute int) time.Time {
	t := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !t.After(now) {
		t = t.AddDate(0, 0, 1)
	}
	return t
}

// Delay is how long to wait from now until the reminder fires. It is never
// negative.
func (r *Reminder) Delay(now time.Time) time.Duration {
	d := r.FireAt.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}
