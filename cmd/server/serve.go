package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hperssn/pomobot/internal/bot"
	"github.com/hperssn/pomobot/internal/chat"
	httpapi "github.com/hperssn/pomobot/internal/http"
	"github.com/hperssn/pomobot/internal/runner"
	"github.com/hperssn/pomobot/internal/storage"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the bot HTTP server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	repo, err := storage.Open(cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if err := repo.Close(); err != nil {
			log.Printf("close database: %v", err)
		}
	}()

	hub := chat.NewHub(64)
	store := runner.NewSessionStore()
	engine := runner.NewEngine(runner.RealClock(), cfg.Tick, hub)

	sessions := bot.NewSessionController(store, engine, hub, repo, cfg.Presets, cfg.MaxCustomMinutes)
	reminders := bot.NewReminderScheduler(repo, hub)
	b := bot.New(sessions, bot.NewTaskList(repo, hub), reminders, hub)

	n, err := reminders.Restore()
	if err != nil {
		log.Printf("restore reminders: %v", err)
	} else if n > 0 {
		log.Printf("rescheduled %d pending reminders", n)
	}

	// Event streams only end when their request context does, so they are
	// derived from a context that is cancelled on shutdown.
	baseCtx, cancelStreams := context.WithCancel(context.Background())
	defer cancelStreams()

	srv := &http.Server{
		Addr:        cfg.ListenAddr,
		Handler:     httpapi.NewRouter(b, hub, repo),
		BaseContext: func(net.Listener) context.Context { return baseCtx },
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		log.Printf("listening on %s", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := b.Shutdown(shutdownCtx); err != nil {
		log.Printf("stop sessions: %v", err)
	}
	cancelStreams()
	return srv.Shutdown(shutdownCtx)
}
