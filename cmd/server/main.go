package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/joho/godotenv"

	"github.com/syllabusmaster/planner/internal/gateway"
	"github.com/syllabusmaster/planner/internal/platform/cache"
	"github.com/syllabusmaster/planner/internal/platform/config"
	"github.com/syllabusmaster/planner/internal/platform/database"
	"github.com/syllabusmaster/planner/internal/session"
	"github.com/syllabusmaster/planner/internal/syllabus"
)

func main() {
	// .env is a development convenience; absence is not an error.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	setupLogger(cfg.Log)
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	catalog := syllabus.NewCatalog()
	if cfg.Curriculum.OverlayDir != "" {
		if err := syllabus.LoadOverlays(cfg.Curriculum.OverlayDir, catalog); err != nil {
			slog.Error("loading curriculum overlays", "dir", cfg.Curriculum.OverlayDir, "error", err)
			os.Exit(1)
		}
	}

	gw, err := buildGateway(ctx, cfg)
	if err != nil {
		slog.Error("connecting to backing stores", "error", err)
		os.Exit(1)
	}

	app := newApp(cfg, catalog, session.NewManager(catalog, gw))

	// Daily-task flags roll over at local midnight even when the student
	// keeps a session open across the boundary.
	scheduler := gocron.NewScheduler(time.Local)
	if _, err := scheduler.Every(1).Day().At("00:00").Do(app.resetStaleSessions); err != nil {
		slog.Error("scheduling midnight reset", "error", err)
		os.Exit(1)
	}
	scheduler.StartAsync()
	defer scheduler.Stop()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      app.newMux(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", srv.Addr, "durable", cfg.Database.URL != "")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
	app.closeSessions()
}

// buildGateway selects the persistence stack from config: in-memory when no
// database is configured, Postgres when it is, and the Redis-published
// decorator on top when the push stream is enabled.
func buildGateway(ctx context.Context, cfg *config.Config) (gateway.Gateway, error) {
	if cfg.Database.URL == "" {
		slog.Warn("no database configured, progress will not survive restarts")
		return gateway.NewMemory(), nil
	}

	pool, err := database.Connect(ctx, cfg.Database.URL, cfg.Database.MaxConns, cfg.Database.MinConns)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}
	gw, err := gateway.NewPostgres(ctx, pool)
	if err != nil {
		return nil, fmt.Errorf("gateway schema: %w", err)
	}

	if cfg.Cache.URL == "" {
		return gw, nil
	}
	client, err := cache.Connect(ctx, cfg.Cache.URL)
	if err != nil {
		return nil, fmt.Errorf("cache: %w", err)
	}
	return gateway.NewPublished(gw, client), nil
}

// resetStaleSessions applies the daily rollover to every live session.
func (a *app) resetStaleSessions() {
	a.mu.Lock()
	sessions := make([]*session.Session, 0, len(a.sessions))
	for _, s := range a.sessions {
		sessions = append(sessions, s)
	}
	a.mu.Unlock()

	reset := 0
	for _, s := range sessions {
		if s.Store.ResetDailyTasksIfStale() {
			reset++
		}
	}
	if reset > 0 {
		slog.Info("daily tasks reset", "sessions", reset)
	}
}

// closeSessions flushes every live session's pending saves.
func (a *app) closeSessions() {
	a.mu.Lock()
	sessions := make([]*session.Session, 0, len(a.sessions))
	for _, s := range a.sessions {
		sessions = append(sessions, s)
	}
	a.sessions = make(map[string]*session.Session)
	a.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if strings.ToLower(cfg.Format) == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}
