package storage

import (
	"sort"
	"sync"
	"time"

	"github.com/hperssn/pomobot/internal/domain"
)

// MemoryRepository keeps everything in process memory. Nothing survives a
// restart.
type MemoryRepository struct {
	mu        sync.Mutex
	sessions  []SessionRecord
	tasks     []domain.Task
	reminders []domain.Reminder
	customs   map[string]CustomPomodoro
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{customs: make(map[string]CustomPomodoro)}
}

func (m *MemoryRepository) SaveSession(record *SessionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions = append(m.sessions, *record)
	return nil
}

func (m *MemoryRepository) GetSessionsByUser(userID string) ([]SessionRecord, error) {
	return m.GetRecentSessions(userID, time.Time{})
}

func (m *MemoryRepository) GetRecentSessions(userID string, since time.Time) ([]SessionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []SessionRecord
	for _, r := range m.sessions {
		if r.UserID == userID && !r.EndedAt.Before(since) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].EndedAt.After(out[j].EndedAt) })
	return out, nil
}

func (m *MemoryRepository) GetSessionStats(userID string) (*SessionStats, error) {
	records, err := m.GetSessionsByUser(userID)
	if err != nil {
		return nil, err
	}
	return statsFrom(records), nil
}

func (m *MemoryRepository) SaveTask(task *domain.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks = append(m.tasks, *task)
	return nil
}

func (m *MemoryRepository) GetTasks(userID string) ([]domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []domain.Task
	for _, t := range m.tasks {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *MemoryRepository) CompleteTask(userID, taskID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.tasks {
		if m.tasks[i].UserID == userID && m.tasks[i].ID == taskID {
			m.tasks[i].Completed = true
			return nil
		}
	}
	return ErrNotFound
}

func (m *MemoryRepository) SaveReminder(reminder *domain.Reminder) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reminders = append(m.reminders, *reminder)
	return nil
}

func (m *MemoryRepository) GetReminders(userID string) ([]domain.Reminder, error) {
	return m.filterReminders(func(r domain.Reminder) bool { return r.UserID == userID }), nil
}

func (m *MemoryRepository) GetPendingReminders() ([]domain.Reminder, error) {
	return m.filterReminders(func(r domain.Reminder) bool { return !r.Fired }), nil
}

func (m *MemoryRepository) filterReminders(keep func(domain.Reminder) bool) []domain.Reminder {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []domain.Reminder
	for _, r := range m.reminders {
		if keep(r) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].FireAt.Before(out[j].FireAt) })
	return out
}

func (m *MemoryRepository) MarkReminderFired(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.reminders {
		if m.reminders[i].ID == id {
			m.reminders[i].Fired = true
			return nil
		}
	}
	return ErrNotFound
}

func (m *MemoryRepository) SaveCustomPomodoro(userID string, focusMin, restMin int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.customs[userID] = CustomPomodoro{
		UserID:    userID,
		FocusMin:  focusMin,
		RestMin:   restMin,
		CreatedAt: time.Now(),
	}
	return nil
}

func (m *MemoryRepository) GetCustomPomodoro(userID string) (*CustomPomodoro, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.customs[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (m *MemoryRepository) Close() error {
	return nil
}
