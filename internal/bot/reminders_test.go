package bot

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/hperssn/pomobot/internal/domain"
	"github.com/hperssn/pomobot/internal/runner/clocktest"
)

func TestIsReminder(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"reminder 14:30", true},
		{"Reminder in 5 minutes", true},
		{"  reminder", true},
		{"reminders", false},
		{"remind me", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsReminder(tt.text); got != tt.want {
			t.Errorf("IsReminder(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestReminderParse_ClockTime(t *testing.T) {
	f := newFixture(t, clocktest.NewManual(time.Now()))
	now := time.Date(2024, 3, 10, 14, 0, 0, 0, time.UTC)

	fireAt, description, err := f.bot.Reminders.Parse("reminder 15:30 call mom", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := time.Date(2024, 3, 10, 15, 30, 0, 0, time.UTC); !fireAt.Equal(want) {
		t.Fatalf("fireAt = %v, want %v", fireAt, want)
	}
	if description != "call mom" {
		t.Fatalf("description = %q, want %q", description, "call mom")
	}

	fireAt, _, err = f.bot.Reminders.Parse("reminder 09:00", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := time.Date(2024, 3, 11, 9, 0, 0, 0, time.UTC); !fireAt.Equal(want) {
		t.Fatalf("passed time fireAt = %v, want %v", fireAt, want)
	}
}

func TestReminderParse_Relative(t *testing.T) {
	f := newFixture(t, clocktest.NewManual(time.Now()))
	now := time.Date(2024, 3, 10, 14, 0, 0, 0, time.UTC)

	fireAt, description, err := f.bot.Reminders.Parse("reminder in 20 minutes stretch", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d := fireAt.Sub(now); d < 19*time.Minute || d > 21*time.Minute {
		t.Fatalf("fireAt is %v after now, want about 20m", d)
	}
	if !strings.Contains(description, "stretch") {
		t.Fatalf("description = %q, want it to keep %q", description, "stretch")
	}
}

func TestReminderParse_Invalid(t *testing.T) {
	f := newFixture(t, clocktest.NewManual(time.Now()))
	now := time.Now()

	for _, text := range []string{"reminder", "reminder xyzzy", "note 14:30"} {
		_, _, err := f.bot.Reminders.Parse(text, now)
		var verr *domain.ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("Parse(%q) error = %v, want ValidationError", text, err)
		}
	}
}

func TestReminderSet_ConfirmsAndPersists(t *testing.T) {
	f := newFixture(t, clocktest.NewManual(time.Now()))
	now := time.Date(2024, 3, 10, 14, 0, 0, 0, time.Local)
	f.bot.Reminders.now = func() time.Time { return now }

	err := f.bot.Handle(ctx(t), Event{UserID: "user-1", Kind: EventText, Data: "reminder 15:30 call mom"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	msg, _ := f.rec.Last("user-1")
	if !strings.HasPrefix(msg.Text, "Reminder set for 15:30 (") {
		t.Fatalf("reply = %q", msg.Text)
	}

	saved, _ := f.repo.GetReminders("user-1")
	if len(saved) != 1 || saved[0].Description != "call mom" || saved[0].Fired {
		t.Fatalf("saved reminders = %+v", saved)
	}
	if f.bot.Reminders.Pending() != 1 {
		t.Fatalf("pending = %d, want 1", f.bot.Reminders.Pending())
	}
}

func TestReminderSet_InvalidReplies(t *testing.T) {
	f := newFixture(t, clocktest.NewManual(time.Now()))

	err := f.bot.Handle(ctx(t), Event{UserID: "user-1", Kind: EventText, Data: "reminder"})
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %v, want ValidationError", err)
	}
	msg, _ := f.rec.Last("user-1")
	if msg.Text != reminderUsage {
		t.Fatalf("reply = %q, want usage", msg.Text)
	}
}

func TestReminderRestore_FiresOverdue(t *testing.T) {
	f := newFixture(t, clocktest.NewManual(time.Now()))

	overdue := domain.NewReminder("user-1", "drink water", time.Now().Add(-time.Minute))
	if err := f.repo.SaveReminder(overdue); err != nil {
		t.Fatalf("save reminder: %v", err)
	}

	n, err := f.bot.Reminders.Restore()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 1 {
		t.Fatalf("restored %d reminders, want 1", n)
	}

	f.waitText(t, "user-1", ReminderText(*overdue))
	waitUntil(t, "reminder marked fired", func() bool {
		pending, _ := f.repo.GetPendingReminders()
		return len(pending) == 0
	})
	waitUntil(t, "scheduler to forget the reminder", func() bool {
		return f.bot.Reminders.Pending() == 0
	})
}

func TestReminderText(t *testing.T) {
	r := domain.Reminder{FireAt: time.Date(2024, 3, 10, 9, 5, 0, 0, time.UTC)}
	if got := ReminderText(r); got != "Reminder: It's 09:05!" {
		t.Fatalf("ReminderText() = %q", got)
	}

	r.Description = "stand up"
	if got := ReminderText(r); got != "Reminder: It's 09:05!\nstand up" {
		t.Fatalf("ReminderText() = %q", got)
	}
}
