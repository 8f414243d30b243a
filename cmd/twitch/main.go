package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/p0t4t0sandwich/bee-name-generator/internal/apiclient"
	"github.com/p0t4t0sandwich/bee-name-generator/internal/config"
	"github.com/p0t4t0sandwich/bee-name-generator/internal/logger"
	"github.com/p0t4t0sandwich/bee-name-generator/internal/twitch"
)

const serviceName = "bee-name-twitch"

func main() {
	cfg, err := config.LoadTwitchBot()
	if err != nil {
		slog.Error("Configuration failed", "error", err)
		os.Exit(1)
	}

	logger.InitLogger(logger.NewConfig(cfg.LogLevel, cfg.LogFormat, serviceName, "", "", false))
	slog.Info("Configured API URL", "url", cfg.APIURL, "channels", cfg.Channels)
	if cfg.APIKey == "" {
		slog.Warn("API_KEY not set, !link requests will be rejected")
	}

	bot := twitch.New(twitch.Config{
		Username: cfg.Username,
		OAuth:    cfg.OAuth,
		Channels: cfg.Channels,
		Prefix:   cfg.Prefix,
		Cooldown: cfg.Cooldown,
	}, apiclient.New(cfg.APIURL, cfg.APIKey))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bot.Start(ctx)
	slog.Info("Twitch bot is now running")

	<-ctx.Done()
	slog.Info("Shutting down Twitch bot")
	bot.Stop()
}
