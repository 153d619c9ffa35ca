package bot

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/hperssn/pomobot/internal/chat/chattest"
	"github.com/hperssn/pomobot/internal/domain"
	"github.com/hperssn/pomobot/internal/runner"
	"github.com/hperssn/pomobot/internal/storage"
)

const waitFor = 2 * time.Second

type fixture struct {
	bot   *Bot
	rec   *chattest.Recorder
	repo  *storage.MemoryRepository
	store *runner.SessionStore
}

func newFixture(t *testing.T, clock runner.Clock) *fixture {
	t.Helper()

	rec := chattest.NewRecorder()
	repo := storage.NewMemoryRepository()
	store := runner.NewSessionStore()
	engine := runner.NewEngine(clock, time.Minute, rec)

	sessions := NewSessionController(store, engine, rec, repo, domain.DefaultPresets(), 720)
	b := New(sessions, NewTaskList(repo, rec), NewReminderScheduler(repo, rec), rec)

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), waitFor)
		defer cancel()
		if err := b.Shutdown(ctx); err != nil {
			t.Errorf("shutdown: %v", err)
		}
	})

	return &fixture{bot: b, rec: rec, repo: repo, store: store}
}

func waitUntil(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(waitFor)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func (f *fixture) waitText(t *testing.T, userID, text string) {
	t.Helper()
	waitUntil(t, "message "+text, func() bool {
		return indexOf(f.rec.Texts(userID), text) >= 0
	})
}

func count(texts []string, text string) int {
	n := 0
	for _, t := range texts {
		if t == text {
			n++
		}
	}
	return n
}

func indexOf(texts []string, text string) int {
	for i, t := range texts {
		if t == text {
			return i
		}
	}
	return -1
}

func lastIndexWithPrefix(texts []string, prefix string) int {
	for i := len(texts) - 1; i >= 0; i-- {
		if strings.HasPrefix(texts[i], prefix) {
			return i
		}
	}
	return -1
}

func ctx(t *testing.T) context.Context {
	t.Helper()
	c, cancel := context.WithTimeout(context.Background(), waitFor)
	t.Cleanup(cancel)
	return c
}
