package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/hperssn/pomobot/internal/chat"
	"github.com/hperssn/pomobot/internal/domain"
	"github.com/hperssn/pomobot/internal/storage"
)

type TaskList struct {
	repo storage.Repository
	sink chat.Sink
}

func NewTaskList(repo storage.Repository, sink chat.Sink) *TaskList {
	return &TaskList{repo: repo, sink: sink}
}

func (l *TaskList) Add(ctx context.Context, userID, description string) (*domain.Task, error) {
	task, err := domain.NewTask(userID, description)
	if err != nil {
		send(ctx, l.sink, userID, chat.Text("Please provide a task description."))
		return nil, err
	}

	if err := l.repo.SaveTask(task); err != nil {
		send(ctx, l.sink, userID, chat.Text("Could not save your task, please try again."))
		return nil, fmt.Errorf("save task: %w", err)
	}

	send(ctx, l.sink, userID, chat.Text("Task added: "+task.Description))
	return task, nil
}

func (l *TaskList) List(ctx context.Context, userID string) ([]domain.Task, error) {
	tasks, err := l.repo.GetTasks(userID)
	if err != nil {
		send(ctx, l.sink, userID, chat.Text("Could not load your tasks, please try again."))
		return nil, fmt.Errorf("load tasks: %w", err)
	}

	send(ctx, l.sink, userID, chat.Text(FormatTasks(tasks)))
	return tasks, nil
}

// Complete marks the task with the given 1-based list number as done.
func (l *TaskList) Complete(ctx context.Context, userID, raw string) error {
	tasks, err := l.repo.GetTasks(userID)
	if err != nil {
		send(ctx, l.sink, userID, chat.Text("Could not load your tasks, please try again."))
		return fmt.Errorf("load tasks: %w", err)
	}

	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 || n > len(tasks) {
		send(ctx, l.sink, userID, chat.Text("Invalid task number."))
		return &domain.ValidationError{Field: "task", Message: "Invalid task number."}
	}

	if err := l.repo.CompleteTask(userID, tasks[n-1].ID); err != nil {
		send(ctx, l.sink, userID, chat.Text("Could not update your task, please try again."))
		return fmt.Errorf("complete task: %w", err)
	}

	send(ctx, l.sink, userID, chat.Text(fmt.Sprintf("Task %d marked as completed.", n)))
	return nil
}

func FormatTasks(tasks []domain.Task) string {
	if len(tasks) == 0 {
		return "You have no tasks."
	}

	var b strings.Builder
	b.WriteString("Your tasks:\n")
	for i, t := range tasks {
		mark := "❌"
		if t.Completed {
			mark = "✅"
		}
		fmt.Fprintf(&b, "\n%d. %s %s", i+1, t.Description, mark)
	}
	return b.String()
}
