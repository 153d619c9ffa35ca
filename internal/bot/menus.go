package bot

import (
	"fmt"
	"strings"

	"github.com/hperssn/pomobot/internal/chat"
	"github.com/hperssn/pomobot/internal/domain"
	"github.com/hperssn/pomobot/internal/runner"
)

// Callback data carried by menu buttons.
const (
	CallbackMainMenu     = "main_menu"
	CallbackPomodoro     = "pomodoro"
	CallbackStartPrefix  = "start_pomodoro_"
	CallbackCustom       = "custom_pomodoro"
	CallbackRepeatCustom = "repeat_custom_pomodoro"
	CallbackStop         = "stop_pomodoro"
	CallbackCancel       = runner.CancelCallback
	CallbackTasks        = "tasks"
	CallbackTaskAdd      = "task_add"
	CallbackTaskList     = "task_list"
	CallbackTaskComplete = "task_complete"
	CallbackReminders    = "reminders"
	CallbackReminderList = "reminder_list"
)

func MainMenu() chat.Message {
	return chat.Message{
		Text: "Welcome to the Enhanced Productivity Bot!\n\nChoose an option to get started:",
		Buttons: chat.Column(
			chat.Button{Text: "🍅 Pomodoro", Data: CallbackPomodoro},
			chat.Button{Text: "📝 Tasks", Data: CallbackTasks},
			chat.Button{Text: "⏰ Reminders", Data: CallbackReminders},
		),
	}
}

func PomodoroMenu(presets []domain.Preset) chat.Message {
	var b strings.Builder
	b.WriteString("Choose your Pomodoro preset or set your own:\n")

	buttons := make([]chat.Button, 0, len(presets)+4)
	for _, p := range presets {
		fmt.Fprintf(&b, "\n• %s: %dmin focus, %dmin rest", p.Name, p.FocusSec/60, p.RestSec/60)
		buttons = append(buttons, chat.Button{Text: p.Name, Data: CallbackStartPrefix + p.ID})
	}

	buttons = append(buttons,
		chat.Button{Text: "➕ Custom Pomodoro", Data: CallbackCustom},
		chat.Button{Text: "🔁 Repeat Last Custom", Data: CallbackRepeatCustom},
		chat.Button{Text: "⏹ Stop Pomodoro", Data: CallbackStop},
		chat.Button{Text: "🔙 Back to Main Menu", Data: CallbackMainMenu},
	)

	return chat.Message{Text: b.String(), Buttons: chat.Column(buttons...)}
}

func CustomPrompt() chat.Message {
	return chat.Message{
		Text: "Set your own Pomodoro timer:\n\n" +
			"Send your focus and rest times separated by a space (e.g., '30 7' for 30 minutes focus, 7 minutes rest).",
		Buttons: chat.Column(chat.Button{Text: "🔙 Back to Pomodoro Menu", Data: CallbackPomodoro}),
	}
}

func TaskMenu() chat.Message {
	return chat.Message{
		Text: "Choose an option:",
		Buttons: chat.Column(
			chat.Button{Text: "➕ Add Task", Data: CallbackTaskAdd},
			chat.Button{Text: "📋 List Tasks", Data: CallbackTaskList},
			chat.Button{Text: "✅ Mark Task as Completed", Data: CallbackTaskComplete},
			chat.Button{Text: "🔙 Back to Main Menu", Data: CallbackMainMenu},
		),
	}
}

func ReminderHelp() chat.Message {
	return chat.Message{
		Text: "To set a reminder, send me the time in HH:MM format, e.g. 'reminder 14:30 call mom'.\n" +
			"You can also say 'reminder in 20 minutes stretch'.",
		Buttons: chat.Column(
			chat.Button{Text: "📋 List Reminders", Data: CallbackReminderList},
			chat.Button{Text: "🔙 Back to Main Menu", Data: CallbackMainMenu},
		),
	}
}

const MsgHelp = "I didn't understand that. Send /start to open the menu."
