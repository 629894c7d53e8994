package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/swarmhq/feedback-gateway/internal/api"
	"github.com/swarmhq/feedback-gateway/internal/api/handler"
	"github.com/swarmhq/feedback-gateway/internal/api/metrics"
	"github.com/swarmhq/feedback-gateway/internal/api/middleware"
	"github.com/swarmhq/feedback-gateway/internal/core/domain"
	"github.com/swarmhq/feedback-gateway/internal/core/ports"
	"github.com/swarmhq/feedback-gateway/internal/core/service"
	"github.com/swarmhq/feedback-gateway/internal/idle"
	"github.com/swarmhq/feedback-gateway/internal/infrastructure/backend"
	"github.com/swarmhq/feedback-gateway/internal/infrastructure/config"
	"github.com/swarmhq/feedback-gateway/internal/infrastructure/push"
	filestore "github.com/swarmhq/feedback-gateway/internal/infrastructure/storage/file"
	redisstore "github.com/swarmhq/feedback-gateway/internal/infrastructure/storage/redis"
	"github.com/swarmhq/feedback-gateway/pkg/logger"
)

const alertTTL = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	// --- Session storage ---
	var repo ports.SessionRepository
	var redisClient *goredis.Client
	switch cfg.Session.Store {
	case "redis":
		redisClient, err = redisstore.Connect(ctx, redisstore.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			log.Fatal().Err(err).Msg("redis unreachable")
		}
		defer redisClient.Close()
		repo = redisstore.NewSessionRepository(redisClient, log)
	default:
		path := cfg.Session.FilePath
		if path == "" {
			path, err = filestore.DefaultPath()
			if err != nil {
				log.Fatal().Err(err).Msg("cannot resolve session path")
			}
		}
		repo = filestore.NewSessionRepository(path, log)
	}

	// --- Core services ---
	backendClient := backend.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout, log)
	sessions := service.NewSessionService(repo, backendClient, log)
	feed := handler.NewAlertFeed(alertTTL)

	// --- Inactivity logout ---
	var toucher middleware.Toucher
	var monitor *idle.Monitor
	if cfg.Idle.Enabled {
		monitor = idle.NewMonitor(cfg.Idle.Timeout, func() {
			metrics.IdleLogoutsTotal.Inc()
			sessions.Logout(context.Background())
		}, log)
		toucher = monitor
	}

	// --- Push channel ---
	var channel *push.Channel
	if cfg.Push.Enabled {
		var dedup push.Dedup
		if redisClient != nil {
			dedup = redisstore.NewNotificationDedup(redisClient)
		}
		channel = push.NewChannel(cfg.Push.URL, cfg.Push.Retry, sessions, feed, dedup, log)
		defer channel.Close()
	}

	// The idle countdown, the push subscription, and the alert feed all
	// follow the session lifecycle.
	sessions.Watch(func(s *domain.Session) {
		if monitor != nil {
			if s != nil {
				monitor.Start()
			} else {
				monitor.Stop()
			}
		}
		if channel != nil {
			channel.SetSession(s)
		}
		if s == nil {
			feed.Reset()
		}
	})

	// Restore a persisted session before accepting requests so a restart
	// never shows a logged-in user the login page.
	sessions.Hydrate(ctx)

	e := api.NewRouter(sessions, toucher, feed, log)

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("gateway starting")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	if monitor != nil {
		monitor.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown error")
	}
	log.Info().Msg("gateway stopped")
}
