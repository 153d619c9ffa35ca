package runner

import (
	"fmt"

	"github.com/hperssn/pomobot/internal/chat"
	"github.com/hperssn/pomobot/internal/domain"
)

const CancelCallback = "cancel_pomodoro"

var cancelButtons = [][]chat.Button{{{Text: "❌ Cancel Pomodoro", Data: CancelCallback}}}

const (
	MsgFocusStarted = "🍅 Focus time started!"
	MsgRestStarted  = "☕️ Rest time started!"
	MsgCompleted    = "🔄 Pomodoro cycle completed! Going back to the main menu..."
	MsgStopped      = "⏹ Pomodoro session stopped."
)

func phaseStartMessage(p domain.Phase) chat.Message {
	if p == domain.PhaseFocus {
		return chat.Message{Text: MsgFocusStarted, Buttons: cancelButtons}
	}
	return chat.Text(MsgRestStarted)
}

func RemainingText(p domain.Phase, minutes int) string {
	return fmt.Sprintf("⏳ %d minutes remaining in %s time", minutes, p)
}
