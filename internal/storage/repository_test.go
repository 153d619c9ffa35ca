package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hperssn/pomobot/internal/domain"
)

func repositories(t *testing.T) map[string]Repository {
	t.Helper()

	repos := map[string]Repository{
		"memory": NewMemoryRepository(),
	}

	sqlite, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	repos["sqlite"] = sqlite

	if dsn := os.Getenv("POMOBOT_TEST_POSTGRES"); dsn != "" {
		pg, err := NewPostgresRepository(dsn)
		if err != nil {
			t.Fatalf("open postgres: %v", err)
		}
		for _, table := range []string{"sessions", "tasks", "reminders", "custom_pomodoros"} {
			if _, err := pg.db.Exec("DELETE FROM " + table); err != nil {
				t.Fatalf("reset %s: %v", table, err)
			}
		}
		repos["postgres"] = pg
	}

	t.Cleanup(func() {
		for _, r := range repos {
			r.Close()
		}
	})
	return repos
}

func TestRepository_Tasks(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			first, _ := domain.NewTask("user-1", "write report")
			second, _ := domain.NewTask("user-1", "call bank")
			second.CreatedAt = first.CreatedAt.Add(time.Second)
			other, _ := domain.NewTask("user-2", "not mine")

			for _, task := range []*domain.Task{first, second, other} {
				if err := repo.SaveTask(task); err != nil {
					t.Fatalf("SaveTask: %v", err)
				}
			}

			tasks, err := repo.GetTasks("user-1")
			if err != nil {
				t.Fatalf("GetTasks: %v", err)
			}
			if len(tasks) != 2 {
				t.Fatalf("got %d tasks, want 2", len(tasks))
			}
			if tasks[0].Description != "write report" || tasks[1].Description != "call bank" {
				t.Fatalf("tasks out of order: %+v", tasks)
			}

			if err := repo.CompleteTask("user-1", second.ID); err != nil {
				t.Fatalf("CompleteTask: %v", err)
			}
			tasks, _ = repo.GetTasks("user-1")
			if tasks[0].Completed || !tasks[1].Completed {
				t.Fatalf("unexpected completion flags: %+v", tasks)
			}

			if err := repo.CompleteTask("user-1", other.ID); !errors.Is(err, ErrNotFound) {
				t.Fatalf("completing another user's task: error = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestRepository_Reminders(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			now := time.Now()
			late := domain.NewReminder("user-1", "standup", now.Add(2*time.Hour))
			soon := domain.NewReminder("user-1", "tea", now.Add(time.Hour))
			theirs := domain.NewReminder("user-2", "gym", now.Add(30*time.Minute))

			for _, r := range []*domain.Reminder{late, soon, theirs} {
				if err := repo.SaveReminder(r); err != nil {
					t.Fatalf("SaveReminder: %v", err)
				}
			}

			mine, err := repo.GetReminders("user-1")
			if err != nil {
				t.Fatalf("GetReminders: %v", err)
			}
			if len(mine) != 2 || mine[0].ID != soon.ID {
				t.Fatalf("unexpected reminders: %+v", mine)
			}

			if err := repo.MarkReminderFired(theirs.ID); err != nil {
				t.Fatalf("MarkReminderFired: %v", err)
			}
			pending, err := repo.GetPendingReminders()
			if err != nil {
				t.Fatalf("GetPendingReminders: %v", err)
			}
			if len(pending) != 2 {
				t.Fatalf("got %d pending reminders, want 2", len(pending))
			}
			for _, r := range pending {
				if r.ID == theirs.ID {
					t.Fatalf("fired reminder reported as pending")
				}
			}

			if err := repo.MarkReminderFired("missing"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("error = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestRepository_CustomPomodoro(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := repo.GetCustomPomodoro("user-1"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("error = %v, want ErrNotFound", err)
			}

			if err := repo.SaveCustomPomodoro("user-1", 30, 7); err != nil {
				t.Fatalf("SaveCustomPomodoro: %v", err)
			}
			time.Sleep(time.Millisecond)
			if err := repo.SaveCustomPomodoro("user-1", 45, 9); err != nil {
				t.Fatalf("SaveCustomPomodoro: %v", err)
			}

			c, err := repo.GetCustomPomodoro("user-1")
			if err != nil {
				t.Fatalf("GetCustomPomodoro: %v", err)
			}
			if c.FocusMin != 45 || c.RestMin != 9 {
				t.Fatalf("custom = %d/%d, want latest 45/9", c.FocusMin, c.RestMin)
			}
		})
	}
}

func TestRepository_SessionStats(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			stats, err := repo.GetSessionStats("user-1")
			if err != nil {
				t.Fatalf("GetSessionStats on empty history: %v", err)
			}
			if stats.TotalSessions != 0 {
				t.Fatalf("TotalSessions = %d, want 0", stats.TotalSessions)
			}

			done, _ := domain.NewSession("", "user-1", "classic", 1500, 300)
			stopped, _ := domain.NewSession("", "user-1", "short", 900, 180)

			if err := repo.SaveSession(FromDomainSession(done, OutcomeCompleted)); err != nil {
				t.Fatalf("SaveSession: %v", err)
			}
			if err := repo.SaveSession(FromDomainSession(stopped, OutcomeCancelled)); err != nil {
				t.Fatalf("SaveSession: %v", err)
			}

			stats, err = repo.GetSessionStats("user-1")
			if err != nil {
				t.Fatalf("GetSessionStats: %v", err)
			}
			if stats.TotalSessions != 2 || stats.CompletedCount != 1 || stats.CancelledCount != 1 {
				t.Fatalf("unexpected stats: %+v", stats)
			}
			if stats.TotalFocusSec != 1500 {
				t.Fatalf("TotalFocusSec = %d, want 1500", stats.TotalFocusSec)
			}
			if stats.CompletionRate != 50 {
				t.Fatalf("CompletionRate = %v, want 50", stats.CompletionRate)
			}

			records, err := repo.GetRecentSessions("user-1", time.Now().Add(-time.Hour))
			if err != nil {
				t.Fatalf("GetRecentSessions: %v", err)
			}
			if len(records) != 2 {
				t.Fatalf("got %d recent sessions, want 2", len(records))
			}
		})
	}
}

func TestDollarPlaceholders(t *testing.T) {
	got := dollarPlaceholders("UPDATE t SET a = ? WHERE b = ? AND c = ?")
	want := "UPDATE t SET a = $1 WHERE b = $2 AND c = $3"
	if got != want {
		t.Fatalf("dollarPlaceholders() = %q, want %q", got, want)
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	if _, err := Open("mongo", ""); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}

func TestFromDomainSessionCompletedElapsed(t *testing.T) {
	s, _ := domain.NewSession("id-1", "user-1", "classic", 1500, 300)
	rec := FromDomainSession(s, OutcomeCompleted)
	if rec.ElapsedSec != 1800 {
		t.Fatalf("ElapsedSec = %d, want 1800", rec.ElapsedSec)
	}
	if rec.ID != "id-1" || rec.Outcome != OutcomeCompleted {
		t.Fatalf("unexpected record: %+v", rec)
	}
}
