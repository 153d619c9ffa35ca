package bot

import (
	"context"
	"log"
	"strings"

	"github.com/hperssn/pomobot/internal/chat"
)

type EventKind string

const (
	EventCommand  EventKind = "command"
	EventCallback EventKind = "callback"
	EventText     EventKind = "text"
)

// Event is one inbound action from a user's conversation.
type Event struct {
	UserID string
	Kind   EventKind
	Data   string
}

// Bot routes inbound events to the Pomodoro, task and reminder features.
// Handler errors are logged; the user has already been answered in chat.
type Bot struct {
	Sessions  *SessionController
	Tasks     *TaskList
	Reminders *ReminderScheduler

	sink  chat.Sink
	convo *conversations
}

func New(sessions *SessionController, tasks *TaskList, reminders *ReminderScheduler, sink chat.Sink) *Bot {
	return &Bot{
		Sessions:  sessions,
		Tasks:     tasks,
		Reminders: reminders,
		sink:      sink,
		convo:     newConversations(),
	}
}

func (b *Bot) Handle(ctx context.Context, ev Event) error {
	var err error
	switch ev.Kind {
	case EventCommand:
		err = b.handleCommand(ctx, ev.UserID, ev.Data)
	case EventCallback:
		err = b.handleCallback(ctx, ev.UserID, ev.Data)
	case EventText:
		err = b.handleText(ctx, ev.UserID, ev.Data)
	default:
		log.Printf("ignoring %q event from %s", ev.Kind, ev.UserID)
		return nil
	}

	if err != nil {
		log.Printf("%s %q from %s: %v", ev.Kind, ev.Data, ev.UserID, err)
	}
	return err
}

func (b *Bot) handleCommand(ctx context.Context, userID, name string) error {
	switch strings.TrimPrefix(name, "/") {
	case "start", "menu":
		b.convo.set(userID, ModeIdle)
		send(ctx, b.sink, userID, MainMenu())
	case "pomodoro":
		send(ctx, b.sink, userID, PomodoroMenu(b.Sessions.Presets()))
	case "cancel":
		return b.Sessions.Cancel(ctx, userID)
	case "stop":
		return b.Sessions.Stop(ctx, userID)
	case "tasks":
		_, err := b.Tasks.List(ctx, userID)
		return err
	case "reminders":
		_, err := b.Reminders.List(ctx, userID)
		return err
	default:
		send(ctx, b.sink, userID, chat.Text(MsgHelp))
	}
	return nil
}

func (b *Bot) handleCallback(ctx context.Context, userID, data string) error {
	if id, ok := strings.CutPrefix(data, CallbackStartPrefix); ok {
		_, err := b.Sessions.StartPreset(ctx, userID, id)
		return err
	}

	switch data {
	case CallbackMainMenu:
		b.convo.set(userID, ModeIdle)
		send(ctx, b.sink, userID, MainMenu())
	case CallbackPomodoro:
		send(ctx, b.sink, userID, PomodoroMenu(b.Sessions.Presets()))
	case CallbackCustom:
		b.convo.set(userID, ModeCustomPomodoro)
		send(ctx, b.sink, userID, CustomPrompt())
	case CallbackRepeatCustom:
		_, err := b.Sessions.RepeatCustom(ctx, userID)
		return err
	case CallbackStop:
		return b.Sessions.Stop(ctx, userID)
	case CallbackCancel:
		return b.Sessions.Cancel(ctx, userID)
	case CallbackTasks:
		send(ctx, b.sink, userID, TaskMenu())
	case CallbackTaskAdd:
		b.convo.set(userID, ModeAddTask)
		send(ctx, b.sink, userID, chat.Text("Send me the task description."))
	case CallbackTaskList:
		_, err := b.Tasks.List(ctx, userID)
		return err
	case CallbackTaskComplete:
		b.convo.set(userID, ModeCompleteTask)
		send(ctx, b.sink, userID, chat.Text("Send me the number of the task to mark as completed."))
	case CallbackReminders:
		send(ctx, b.sink, userID, ReminderHelp())
	case CallbackReminderList:
		_, err := b.Reminders.List(ctx, userID)
		return err
	default:
		send(ctx, b.sink, userID, chat.Text(MsgHelp))
	}
	return nil
}

func (b *Bot) handleText(ctx context.Context, userID, text string) error {
	if IsReminder(text) {
		b.convo.set(userID, ModeIdle)
		_, err := b.Reminders.Set(ctx, userID, text)
		return err
	}

	switch b.convo.take(userID) {
	case ModeCustomPomodoro:
		_, err := b.Sessions.StartCustom(ctx, userID, text)
		return err
	case ModeAddTask:
		_, err := b.Tasks.Add(ctx, userID, text)
		return err
	case ModeCompleteTask:
		return b.Tasks.Complete(ctx, userID, text)
	default:
		send(ctx, b.sink, userID, chat.Text(MsgHelp))
		return nil
	}
}

// Shutdown stops all running sessions and pending reminder goroutines.
func (b *Bot) Shutdown(ctx context.Context) error {
	b.Reminders.Close()
	return b.Sessions.Shutdown(ctx)
}
