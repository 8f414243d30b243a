package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/p0t4t0sandwich/bee-name-generator/internal/config"
	"github.com/p0t4t0sandwich/bee-name-generator/internal/discord"
	"github.com/p0t4t0sandwich/bee-name-generator/internal/logger"
)

const serviceName = "bee-name-discord"

func main() {
	cfg, err := config.LoadDiscord()
	if err != nil {
		slog.Error("Configuration failed", "error", err)
		os.Exit(1)
	}

	logger.InitLogger(logger.NewConfig(cfg.LogLevel, cfg.LogFormat, serviceName, "", "", false))
	slog.Info("Configured API URL", "url", cfg.APIURL)
	if cfg.APIKey == "" {
		slog.Warn("API_KEY not set, moderation and linking requests will be rejected")
	}

	bot, err := discord.New(discord.Config{
		Token:     cfg.Token,
		AppID:     cfg.AppID,
		GuildID:   cfg.GuildID,
		ChannelID: cfg.ChannelID,
		AdminIDs:  cfg.AdminIDs,
		APIURL:    cfg.APIURL,
		APIKey:    cfg.APIKey,
		Cooldown:  cfg.Cooldown,
	})
	if err != nil {
		slog.Error("Failed to create bot", "error", err)
		os.Exit(1)
	}
	discord.RegisterAll(bot.Registry)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := bot.Start(ctx); err != nil {
		slog.Error("Bot failed", "error", err)
		os.Exit(1)
	}

	// Don't exit on failure, commands may already be registered
	if err := bot.RegisterCommands(cfg.ForceUpdate); err != nil {
		slog.Error("Failed to register commands", "error", err)
	}

	httpServer := discord.NewHTTPServer(cfg.HealthPort, bot)
	httpServer.Start()

	<-ctx.Done()
	slog.Info("Shutting down Discord bot")

	httpServer.Stop()
	bot.Stop()
}
