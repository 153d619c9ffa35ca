package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Task struct {
	ID          string
	UserID      string
	Description string
	DueDate     *time.Time
	Completed   bool
	CreatedAt   time.Time
}

func NewTask(userID, description string) (*Task, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, &ValidationError{Field: "description", Message: "Please provide a task description."}
	}
	return &Task{
		ID:          uuid.New().String(),
		UserID:      userID,
		Description: description,
		CreatedAt:   time.Now(),
	}, nil
}
