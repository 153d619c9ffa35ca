// Package httpapi exposes the bot over HTTP: inbound chat events go in as
// POST requests and replies come back on a per-user event stream.
package httpapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/hperssn/pomobot/internal/bot"
	"github.com/hperssn/pomobot/internal/chat"
	"github.com/hperssn/pomobot/internal/domain"
	"github.com/hperssn/pomobot/internal/storage"
)

func NewRouter(b *bot.Bot, hub *chat.Hub, repo storage.Repository) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
	})
	r.Get("/presets", listPresets(b))

	r.Group(func(r chi.Router) {
		r.Use(ExtractUserMiddleware)

		r.Post("/commands/{name}", postCommand(b))
		r.Post("/callbacks", postCallback(b))
		r.Post("/messages", postMessage(b))
		r.Get("/events", StreamConversation(hub))

		r.Get("/session", getSession(b))
		r.Get("/tasks", getTasks(repo))
		r.Get("/reminders", getReminders(repo))
		r.Get("/history", getHistory(repo))
	})

	return r
}

func postCommand(b *bot.Bot) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dispatch(w, r, b, bot.Event{
			UserID: GetUserID(r),
			Kind:   bot.EventCommand,
			Data:   chi.URLParam(r, "name"),
		})
	}
}

func postCallback(b *bot.Bot) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Data string `json:"data"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if req.Data == "" {
			respondError(w, "data is required", http.StatusBadRequest)
			return
		}

		dispatch(w, r, b, bot.Event{UserID: GetUserID(r), Kind: bot.EventCallback, Data: req.Data})
	}
}

func postMessage(b *bot.Bot) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Text string `json:"text"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		dispatch(w, r, b, bot.Event{UserID: GetUserID(r), Kind: bot.EventText, Data: req.Text})
	}
}

// dispatch hands ev to the bot. The user has already been answered in chat
// by the time Handle returns, so the status only mirrors the outcome.
func dispatch(w http.ResponseWriter, r *http.Request, b *bot.Bot, ev bot.Event) {
	err := b.Handle(r.Context(), ev)

	var verr *domain.ValidationError
	switch {
	case err == nil:
		respondJSON(w, map[string]string{"status": "accepted"}, http.StatusAccepted)
	case errors.As(err, &verr):
		respondError(w, verr.Message, http.StatusUnprocessableEntity)
	case errors.Is(err, domain.ErrUnknownPreset), errors.Is(err, storage.ErrNotFound):
		respondError(w, "not found", http.StatusNotFound)
	default:
		respondError(w, "internal error", http.StatusInternalServerError)
	}
}

type presetResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	FocusMinute int    `json:"focusMinutes"`
	RestMinute  int    `json:"restMinutes"`
}

func listPresets(b *bot.Bot) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		presets := b.Sessions.Presets()
		out := make([]presetResponse, 0, len(presets))
		for _, p := range presets {
			out = append(out, presetResponse{
				ID:          p.ID,
				Name:        p.Name,
				FocusMinute: p.FocusSec / 60,
				RestMinute:  p.RestSec / 60,
			})
		}
		respondJSON(w, out, http.StatusOK)
	}
}

func getSession(b *bot.Bot) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := b.Sessions.Active(GetUserID(r))
		if !ok {
			respondError(w, "no active session", http.StatusNotFound)
			return
		}

		status := struct {
			ID               string       `json:"id"`
			PresetID         string       `json:"presetId,omitempty"`
			Phase            domain.Phase `json:"phase"`
			FocusSec         int          `json:"focusSec"`
			RestSec          int          `json:"restSec"`
			RemainingSec     int          `json:"remainingSec"`
			RemainingMinutes int          `json:"remainingMinutes"`
			StartedAt        time.Time    `json:"startedAt"`
		}{
			ID:               s.ID,
			PresetID:         s.PresetID,
			Phase:            s.Phase,
			FocusSec:         s.FocusSec,
			RestSec:          s.RestSec,
			RemainingSec:     s.RemainingSec,
			RemainingMinutes: s.RemainingMinutes(),
			StartedAt:        s.StartedAt,
		}

		respondJSON(w, status, http.StatusOK)
	}
}

type taskResponse struct {
	ID          string     `json:"id"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Completed   bool       `json:"completed"`
	CreatedAt   time.Time  `json:"createdAt"`
}

func getTasks(repo storage.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tasks, err := repo.GetTasks(GetUserID(r))
		if err != nil {
			log.Printf("load tasks: %v", err)
			respondError(w, "failed to load tasks", http.StatusInternalServerError)
			return
		}

		out := make([]taskResponse, 0, len(tasks))
		for _, t := range tasks {
			out = append(out, taskResponse{
				ID:          t.ID,
				Description: t.Description,
				DueDate:     t.DueDate,
				Completed:   t.Completed,
				CreatedAt:   t.CreatedAt,
			})
		}
		respondJSON(w, out, http.StatusOK)
	}
}

type reminderResponse struct {
	ID          string    `json:"id"`
	Description string    `json:"description,omitempty"`
	FireAt      time.Time `json:"fireAt"`
	Fired       bool      `json:"fired"`
}

func getReminders(repo storage.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reminders, err := repo.GetReminders(GetUserID(r))
		if err != nil {
			log.Printf("load reminders: %v", err)
			respondError(w, "failed to load reminders", http.StatusInternalServerError)
			return
		}

		out := make([]reminderResponse, 0, len(reminders))
		for _, rem := range reminders {
			out = append(out, reminderResponse{
				ID:          rem.ID,
				Description: rem.Description,
				FireAt:      rem.FireAt,
				Fired:       rem.Fired,
			})
		}
		respondJSON(w, out, http.StatusOK)
	}
}

func getHistory(repo storage.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := GetUserID(r)

		stats, err := repo.GetSessionStats(userID)
		if err != nil {
			log.Printf("load stats for %s: %v", userID, err)
			respondError(w, "failed to load history", http.StatusInternalServerError)
			return
		}

		since := time.Now().AddDate(0, 0, -7)
		recent, err := repo.GetRecentSessions(userID, since)
		if err != nil {
			log.Printf("load recent sessions for %s: %v", userID, err)
			respondError(w, "failed to load history", http.StatusInternalServerError)
			return
		}
		if recent == nil {
			recent = []storage.SessionRecord{}
		}

		respondJSON(w, struct {
			Stats  *storage.SessionStats   `json:"stats"`
			Recent []storage.SessionRecord `json:"recent"`
		}{stats, recent}, http.StatusOK)
	}
}

func respondJSON(w http.ResponseWriter, data any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
