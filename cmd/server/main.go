package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/campus-tutoring/helpqueue/internal/config"
	"github.com/campus-tutoring/helpqueue/internal/domain/identity"
	"github.com/campus-tutoring/helpqueue/internal/domain/ticket"
	"github.com/campus-tutoring/helpqueue/internal/sqlite"
	"github.com/campus-tutoring/helpqueue/internal/transport"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	if cfg.Auth.JWTSecret == config.DefaultJWTSecret {
		logger.Warn("using default JWT secret; set HELPQUEUE_JWT_SECRET in production")
	}

	if err := ensureDBDir(cfg.DB.Path); err != nil {
		logger.Error("failed to prepare database path", "error", err)
		os.Exit(1)
	}

	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	ticketRepo := sqlite.NewTicketRepository(db)
	userRepo := sqlite.NewUserRepository(db)

	codec := identity.NewTokenCodec([]byte(cfg.Auth.JWTSecret))
	identitySvc := identity.NewService(userRepo, codec, logger)
	ticketSvc := ticket.NewService(ticketRepo, logger)

	router := transport.NewServer(ticketSvc, identitySvc, identitySvc, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Sweep.Interval > 0 {
		go runSweep(ctx, logger, ticketSvc, cfg.Sweep.Interval, cfg.Sweep.MaxAge)
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		logger.Info("server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
		}
	}()

	waitForShutdown(logger, httpServer, cancel)
}

// runSweep periodically moves unclaimed tickets past their maximum age to
// Missed.
func runSweep(ctx context.Context, logger *slog.Logger, tickets *ticket.Service, interval, maxAge time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := tickets.ExpireStale(ctx, maxAge); err != nil {
				logger.Error("sweep failed", "error", err)
			}
		}
	}
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func waitForShutdown(logger *slog.Logger, server *http.Server, cancel context.CancelFunc) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	cancel()

	ctx, cancelTimeout := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelTimeout()

	logger.Info("shutting down")
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
