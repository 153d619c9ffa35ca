package storage

import (
	"errors"
	"time"

	"github.com/hperssn/pomobot/internal/domain"
)

var ErrNotFound = errors.New("not found")

type Repository interface {
	SaveSession(record *SessionRecord) error

	GetSessionsByUser(userID string) ([]SessionRecord, error)

	GetRecentSessions(userID string, since time.Time) ([]SessionRecord, error)

	GetSessionStats(userID string) (*SessionStats, error)

	SaveTask(task *domain.Task) error

	// GetTasks returns a user's tasks oldest first.
	GetTasks(userID string) ([]domain.Task, error)

	CompleteTask(userID, taskID string) error

	SaveReminder(reminder *domain.Reminder) error

	GetReminders(userID string) ([]domain.Reminder, error)

	// GetPendingReminders returns unfired reminders of every user.
	GetPendingReminders() ([]domain.Reminder, error)

	MarkReminderFired(id string) error

	SaveCustomPomodoro(userID string, focusMin, restMin int) error

	// GetCustomPomodoro returns the most recently saved pair or ErrNotFound.
	GetCustomPomodoro(userID string) (*CustomPomodoro, error)

	Close() error
}

type SessionStats struct {
	TotalSessions  int     `json:"totalSessions"`
	CompletedCount int     `json:"completedCount"`
	CancelledCount int     `json:"cancelledCount"`
	TotalFocusSec  int     `json:"totalFocusSec"`
	CompletionRate float64 `json:"completionRate"`
}
