package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"

	"github.com/hperssn/pomobot/internal/chat"
	"github.com/hperssn/pomobot/internal/domain"
	"github.com/hperssn/pomobot/internal/storage"
)

const reminderUsage = "Failed to set reminder. Send 'reminder HH:MM [description]' or 'reminder in 20 minutes [description]'."

// ReminderScheduler fires one-shot reminders. Each reminder waits in its
// own goroutine, so setting one never blocks request handling.
type ReminderScheduler struct {
	repo   storage.Repository
	sink   chat.Sink
	parser *when.Parser
	now    func() time.Time

	mu      sync.Mutex
	pending map[string]context.CancelFunc

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewReminderScheduler(repo storage.Repository, sink chat.Sink) *ReminderScheduler {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)

	ctx, cancel := context.WithCancel(context.Background())
	return &ReminderScheduler{
		repo:    repo,
		sink:    sink,
		parser:  w,
		now:     time.Now,
		pending: make(map[string]context.CancelFunc),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// IsReminder reports whether text is a reminder request.
func IsReminder(text string) bool {
	fields := strings.Fields(text)
	return len(fields) > 0 && strings.EqualFold(fields[0], "reminder")
}

// Parse reads "reminder <when> [description]" relative to now.
func (s *ReminderScheduler) Parse(text string, now time.Time) (time.Time, string, error) {
	fields := strings.Fields(text)
	if len(fields) < 2 || !strings.EqualFold(fields[0], "reminder") {
		return time.Time{}, "", &domain.ValidationError{Message: reminderUsage}
	}

	if clock, err := time.Parse("15:04", fields[1]); err == nil {
		fireAt := domain.NextClockTime(now, clock.Hour(), clock.Minute())
		return fireAt, strings.Join(fields[2:], " "), nil
	}

	rest := strings.Join(fields[1:], " ")
	r, err := s.parser.Parse(rest, now)
	if err != nil || r == nil {
		return time.Time{}, "", &domain.ValidationError{Message: reminderUsage}
	}
	if !r.Time.After(now) {
		return time.Time{}, "", &domain.ValidationError{Message: "That time has already passed."}
	}

	description := strings.TrimSpace(rest[:r.Index] + rest[r.Index+len(r.Text):])
	return r.Time, strings.Join(strings.Fields(description), " "), nil
}

// Set parses, persists and schedules a reminder, then confirms it.
func (s *ReminderScheduler) Set(ctx context.Context, userID, text string) (*domain.Reminder, error) {
	now := s.now()

	fireAt, description, err := s.Parse(text, now)
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			send(ctx, s.sink, userID, chat.Text(verr.Message))
		}
		return nil, err
	}

	rem := domain.NewReminder(userID, description, fireAt)
	if err := s.repo.SaveReminder(rem); err != nil {
		send(ctx, s.sink, userID, chat.Text("Could not save your reminder, please try again."))
		return nil, fmt.Errorf("save reminder: %w", err)
	}

	s.schedule(*rem, rem.Delay(now))

	send(ctx, s.sink, userID, chat.Text(fmt.Sprintf(
		"Reminder set for %s (%s)",
		fireAt.Format("15:04"),
		humanize.RelTime(fireAt, now, "ago", "from now"),
	)))
	return rem, nil
}

// Restore schedules every unfired reminder found in storage. Overdue ones
// fire right away.
func (s *ReminderScheduler) Restore() (int, error) {
	reminders, err := s.repo.GetPendingReminders()
	if err != nil {
		return 0, fmt.Errorf("load pending reminders: %w", err)
	}

	now := s.now()
	for _, r := range reminders {
		s.schedule(r, r.Delay(now))
	}
	return len(reminders), nil
}

func (s *ReminderScheduler) List(ctx context.Context, userID string) ([]domain.Reminder, error) {
	reminders, err := s.repo.GetReminders(userID)
	if err != nil {
		send(ctx, s.sink, userID, chat.Text("Could not load your reminders, please try again."))
		return nil, fmt.Errorf("load reminders: %w", err)
	}

	now := s.now()
	var b strings.Builder
	for _, r := range reminders {
		if r.Fired {
			continue
		}
		fmt.Fprintf(&b, "\n• %s (%s)", r.FireAt.Format("Mon 15:04"), humanize.RelTime(r.FireAt, now, "ago", "from now"))
		if r.Description != "" {
			b.WriteString(" " + r.Description)
		}
	}

	if b.Len() == 0 {
		send(ctx, s.sink, userID, chat.Text("You have no pending reminders."))
	} else {
		send(ctx, s.sink, userID, chat.Text("Your reminders:\n"+b.String()))
	}
	return reminders, nil
}

func (s *ReminderScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

func (s *ReminderScheduler) schedule(r domain.Reminder, delay time.Duration) {
	ctx, cancel := context.WithCancel(s.ctx)

	s.mu.Lock()
	if _, exists := s.pending[r.ID]; exists {
		s.mu.Unlock()
		cancel()
		return
	}
	s.pending[r.ID] = cancel
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.forget(r.ID)

		timer := time.NewTimer(delay)
		defer timer.Stop()

		select {
		case <-timer.C:
		case <-ctx.Done():
			return
		}

		send(ctx, s.sink, r.UserID, chat.Text(ReminderText(r)))
		if err := s.repo.MarkReminderFired(r.ID); err != nil {
			log.Printf("reminder %s: mark fired: %v", r.ID, err)
		}
	}()
}

func (s *ReminderScheduler) forget(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cancel, ok := s.pending[id]; ok {
		cancel()
		delete(s.pending, id)
	}
}

// Close stops every pending reminder and waits for the goroutines to exit.
// Unfired reminders stay pending in storage.
func (s *ReminderScheduler) Close() {
	s.cancel()
	s.wg.Wait()
}

func ReminderText(r domain.Reminder) string {
	text := fmt.Sprintf("Reminder: It's %s!", r.FireAt.Format("15:04"))
	if r.Description != "" {
		text += "\n" + r.Description
	}
	return text
}
