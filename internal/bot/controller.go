package bot

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/hperssn/pomobot/internal/chat"
	"github.com/hperssn/pomobot/internal/domain"
	"github.com/hperssn/pomobot/internal/runner"
	"github.com/hperssn/pomobot/internal/storage"
)

const (
	MsgSessionCanceled = "Pomodoro session canceled."
	MsgSessionStopped  = "Pomodoro stopped."
	MsgUnknownPreset   = "Sorry, I don't know that Pomodoro preset."
)

// SessionController turns inbound Pomodoro events into session lifecycle
// changes. It owns the invariant of one running engine per user.
type SessionController struct {
	store   *runner.SessionStore
	engine  *runner.Engine
	sink    chat.Sink
	repo    storage.Repository
	presets []domain.Preset

	maxCustomMinutes int
}

func NewSessionController(store *runner.SessionStore, engine *runner.Engine, sink chat.Sink, repo storage.Repository, presets []domain.Preset, maxCustomMinutes int) *SessionController {
	return &SessionController{
		store:            store,
		engine:           engine,
		sink:             sink,
		repo:             repo,
		presets:          presets,
		maxCustomMinutes: maxCustomMinutes,
	}
}

func (c *SessionController) Presets() []domain.Preset {
	return c.presets
}

// StartPreset supersedes any running session of userID with the named preset.
func (c *SessionController) StartPreset(ctx context.Context, userID, presetID string) (*domain.Session, error) {
	p, err := domain.FindPreset(c.presets, presetID)
	if err != nil {
		send(ctx, c.sink, userID, chat.Text(MsgUnknownPreset))
		return nil, err
	}

	s, err := domain.NewSession("", userID, p.ID, p.FocusSec, p.RestSec)
	if err != nil {
		return nil, err
	}

	confirm := chat.Text(fmt.Sprintf(
		"Pomodoro started: %s\nFocus time: %d minutes\nRest time: %d minutes",
		p.Name, p.FocusSec/60, p.RestSec/60,
	))
	return c.start(ctx, s, confirm)
}

// StartCustom parses "<focus> <rest>" minutes. Invalid input is answered
// with a plain explanation and returned as *domain.ValidationError.
func (c *SessionController) StartCustom(ctx context.Context, userID, raw string) (*domain.Session, error) {
	focusMin, restMin, err := domain.ParseCustom(raw, c.maxCustomMinutes)
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			send(ctx, c.sink, userID, chat.Text(verr.Message))
		}
		return nil, err
	}

	return c.startCustom(ctx, userID, focusMin, restMin)
}

// RepeatCustom starts the user's most recently saved custom pair.
func (c *SessionController) RepeatCustom(ctx context.Context, userID string) (*domain.Session, error) {
	saved, err := c.repo.GetCustomPomodoro(userID)
	if errors.Is(err, storage.ErrNotFound) {
		send(ctx, c.sink, userID, chat.Text("You have no saved custom Pomodoro yet."))
		return nil, err
	}
	if err != nil {
		send(ctx, c.sink, userID, chat.Text("Could not load your custom Pomodoro, please try again."))
		return nil, fmt.Errorf("load custom pomodoro: %w", err)
	}

	return c.startCustom(ctx, userID, saved.FocusMin, saved.RestMin)
}

func (c *SessionController) startCustom(ctx context.Context, userID string, focusMin, restMin int) (*domain.Session, error) {
	s, err := domain.NewSession("", userID, "", focusMin*60, restMin*60)
	if err != nil {
		return nil, err
	}

	if err := c.repo.SaveCustomPomodoro(userID, focusMin, restMin); err != nil {
		log.Printf("save custom pomodoro for %s: %v", userID, err)
	}

	confirm := chat.Message{
		Text: fmt.Sprintf("Custom Pomodoro started!\nFocus time: %d minutes\nRest time: %d minutes", focusMin, restMin),
		Buttons: [][]chat.Button{
			{{Text: "❌ Cancel Pomodoro", Data: runner.CancelCallback}},
		},
	}
	return c.start(ctx, s, confirm)
}

// start stores the new handle, waits for any superseded loop to exit so
// two sessions never notify the same user at once, then launches the engine.
func (c *SessionController) start(ctx context.Context, s *domain.Session, confirm chat.Message) (*domain.Session, error) {
	h := runner.NewHandle(s)

	var after <-chan struct{}
	if prev := c.store.Put(s.UserID, h); prev != nil {
		prev.Cancel()
		after = prev.Done()
		if err := prev.Wait(ctx); err != nil {
			log.Printf("session %s: superseded loop still running: %v", prev.Session().ID, err)
		}
	}

	send(ctx, c.sink, s.UserID, confirm)
	c.engine.Start(h, after, c.onExit)

	return h.Session(), nil
}

func (c *SessionController) onExit(h *runner.Handle, outcome domain.Phase) {
	s := h.Session()

	result := storage.OutcomeCancelled
	if outcome == domain.PhaseCompleted {
		result = storage.OutcomeCompleted
	}
	if err := c.repo.SaveSession(storage.FromDomainSession(s, result)); err != nil {
		log.Printf("session %s: save history: %v", s.ID, err)
	}

	if outcome == domain.PhaseCompleted && c.store.RemoveIf(s.UserID, h) {
		send(context.Background(), c.sink, s.UserID, MainMenu())
	}
}

// Cancel stops the user's session and returns to the main menu.
func (c *SessionController) Cancel(ctx context.Context, userID string) error {
	c.cancelActive(ctx, userID)
	send(ctx, c.sink, userID, chat.Text(MsgSessionCanceled))
	send(ctx, c.sink, userID, MainMenu())
	return nil
}

// Stop stops the user's session without leaving the current screen.
func (c *SessionController) Stop(ctx context.Context, userID string) error {
	c.cancelActive(ctx, userID)
	send(ctx, c.sink, userID, chat.Text(MsgSessionStopped))
	return nil
}

func (c *SessionController) cancelActive(ctx context.Context, userID string) bool {
	h, ok := c.store.Remove(userID)
	if !ok {
		return false
	}

	h.Cancel()
	if err := h.Wait(ctx); err != nil {
		log.Printf("session %s: cancel not yet observed: %v", h.Session().ID, err)
	}
	return true
}

// Active returns a snapshot of the user's running session.
func (c *SessionController) Active(userID string) (*domain.Session, bool) {
	h, ok := c.store.Get(userID)
	if !ok {
		return nil, false
	}
	return h.Session(), true
}

// Shutdown cancels every running session and waits for the loops to exit.
func (c *SessionController) Shutdown(ctx context.Context) error {
	for _, h := range c.store.CancelAll() {
		if err := h.Wait(ctx); err != nil {
			return err
		}
	}
	return nil
}

func send(ctx context.Context, sink chat.Sink, userID string, msg chat.Message) {
	if err := sink.Send(ctx, userID, msg); err != nil {
		log.Printf("reply to %s: %v", userID, err)
	}
}
