package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/p0t4t0sandwich/bee-name-generator/internal/beename"
	"github.com/p0t4t0sandwich/bee-name-generator/internal/bootstrap"
	"github.com/p0t4t0sandwich/bee-name-generator/internal/config"
	"github.com/p0t4t0sandwich/bee-name-generator/internal/handler"
	"github.com/p0t4t0sandwich/bee-name-generator/internal/linking"
	"github.com/p0t4t0sandwich/bee-name-generator/internal/scheduler"
	"github.com/p0t4t0sandwich/bee-name-generator/internal/server"
	"github.com/p0t4t0sandwich/bee-name-generator/internal/sse"
	"github.com/p0t4t0sandwich/bee-name-generator/internal/user"
	"github.com/p0t4t0sandwich/bee-name-generator/internal/verifier"
	"github.com/p0t4t0sandwich/bee-name-generator/internal/worker"

	_ "github.com/p0t4t0sandwich/bee-name-generator/docs"
)

const shutdownTimeout = 30 * time.Second

// @title Bee Name Generator API
// @version 1.0
// @description Random bee names, name suggestions, and cross-platform account linking.
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logFile, err := bootstrap.SetupLogger(cfg)
	if err != nil {
		return err
	}
	if logFile != nil {
		defer logFile.Close()
	}
	handler.Version = cfg.Version

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, err := bootstrap.InitializeRepositories(ctx, cfg)
	if err != nil {
		return err
	}

	eventBus, publisher, err := bootstrap.InitializeEventSystem(cfg)
	if err != nil {
		_ = repos.Close(context.Background())
		return err
	}

	hub := sse.NewHub()
	hub.Start()

	userService := user.NewService(repos.User, user.CacheConfig{Size: cfg.UserCacheSize, TTL: cfg.UserCacheTTL})
	bootstrap.RegisterEventHandlers(bootstrap.EventHandlerDependencies{
		EventBus:    eventBus,
		UserService: userService,
		SSEHub:      hub,
	})

	registry := verifier.NewDefaultRegistry(verifier.Options{
		TwitchClientID:     cfg.TwitchClientID,
		TwitchClientSecret: cfg.TwitchClientSecret,
		SteamAPIKey:        cfg.SteamAPIKey,
		Timeout:            cfg.LinkCallTimeout,
	})

	linkingService := linking.NewService(repos.User, repos.PendingLink, registry, publisher, linking.Config{
		CallTimeout: cfg.LinkCallTimeout,
		PendingTTL:  cfg.PendingLinkTTL,
	})
	beeNameService := beename.NewService(repos.BeeName, publisher)

	pool := worker.NewPool(cfg.WorkerPoolSize, worker.DefaultQueueSize)
	pool.Start()
	sched := scheduler.New(pool)
	sched.Schedule(cfg.PendingCleanupTick, worker.NewPendingLinkCleanupJob(linkingService))
	slog.Info(bootstrap.LogMsgCleanupScheduled, "interval", cfg.PendingCleanupTick)

	srv := server.NewServer(server.Options{
		Port:           cfg.Port,
		APIKey:         cfg.APIKey,
		TrustedProxies: cfg.TrustedProxies,
		RatePerSecond:  cfg.RatePerSecond,
		RateBurst:      cfg.RateBurst,
		Dependencies:   repos.Dependencies,
		Events:         hub,
	}, userService, linkingService, beeNameService)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err = <-errCh:
		if err != nil {
			slog.Error("Server failed", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	bootstrap.GracefulShutdown(shutdownCtx, bootstrap.ShutdownComponents{
		Server:             srv,
		SSEHub:             hub,
		Scheduler:          sched,
		WorkerPool:         pool,
		ResilientPublisher: publisher,
		Repositories:       repos,
	})
	return err
}
