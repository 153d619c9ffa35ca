package chat

import (
	"context"
	"errors"
)

var ErrUndelivered = errors.New("message not delivered")

// Button is a selectable action. Data is echoed back as a callback event
// when the user presses it.
type Button struct {
	Text string `json:"text"`
	Data string `json:"data"`
}

type Message struct {
	Text    string     `json:"text"`
	Buttons [][]Button `json:"buttons,omitempty"`
}

// Sink delivers messages to a user's conversation. Errors are transient.
type Sink interface {
	Send(ctx context.Context, userID string, msg Message) error
}

func Text(text string) Message {
	return Message{Text: text}
}

// Column lays out buttons one per row.
func Column(buttons ...Button) [][]Button {
	rows := make([][]Button, len(buttons))
	for i, b := range buttons {
		rows[i] = []Button{b}
	}
	return rows
}
