package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/edgard/tweetrelay/internal/agent"
	"github.com/edgard/tweetrelay/internal/bot"
	"github.com/edgard/tweetrelay/internal/bot/tasks"
	"github.com/edgard/tweetrelay/internal/chat/discord"
	"github.com/edgard/tweetrelay/internal/chat/telegram"
	"github.com/edgard/tweetrelay/internal/config"
	"github.com/edgard/tweetrelay/internal/database"
	"github.com/edgard/tweetrelay/internal/logger"
	"github.com/edgard/tweetrelay/internal/router"
	"github.com/edgard/tweetrelay/internal/social"
	"github.com/edgard/tweetrelay/internal/web"
)

// runGateway loads the configuration, builds every component and runs them
// until ctx is cancelled.
func runGateway(ctx context.Context, cfgFile string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	log := logger.NewLogger(cfg.Log.Level, cfg.Log.JSON)
	log.Info("Logger initialized", "level", cfg.Log.Level, "json", cfg.Log.JSON, "version", Version)

	db, err := database.NewDB(cfg.Database.Path, log)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.CloseDB(db)
	store := database.NewStore(db, log)

	agentClient, err := newAgentClient(ctx, cfg.Agent, log)
	if err != nil {
		return err
	}

	publisher := social.NewTwitterPublisher(social.TwitterCredentials{
		APIKey:       cfg.Twitter.APIKey,
		APISecret:    cfg.Twitter.APISecret,
		AccessToken:  cfg.Twitter.AccessToken,
		AccessSecret: cfg.Twitter.AccessSecret,
	}, cfg.Twitter.BaseURL, cfg.Twitter.Timeout, log)

	deps := router.Deps{
		Agent:        agentClient,
		Poster:       social.NewAction(publisher, cfg.Posting.MaxLength, log),
		RequiredRole: cfg.Posting.RequiredRole,
		PostURL:      cfg.Posting.PostURL,
		Messages: router.Messages{
			NotAuthorized: cfg.Messages.NotAuthorized,
			Posted:        cfg.Messages.Posted,
			PostFailed:    cfg.Messages.PostFailed,
			Error:         cfg.Messages.Error,
		},
		Recorder: bot.LedgerRecorder{Store: store},
		Timeouts: router.Timeouts{
			Agent: cfg.Agent.Timeout,
			Post:  cfg.Twitter.Timeout,
		},
	}

	platforms, err := newPlatforms(cfg, deps, log)
	if err != nil {
		return err
	}

	sched, err := bot.NewScheduler(log, &cfg.Scheduler, tasks.RegisterAllTasks(tasks.TaskDeps{
		Logger:    log,
		Store:     store,
		Retention: cfg.Database.Retention,
	}))
	if err != nil {
		return err
	}

	var server bot.Runner
	if cfg.HTTP.Enabled {
		server = web.New(web.Config{
			Addr:           cfg.HTTP.Addr,
			ChatBackendURL: cfg.HTTP.ChatBackendURL,
			AgentTimeout:   cfg.Agent.Timeout,
			ProxyTimeout:   cfg.Agent.Timeout,
		}, agentClient, store, log)
	}

	runErr := bot.NewBot(log, platforms, sched, server).Run(ctx)
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}
	log.Info("Stopped gracefully")
	return nil
}

func newAgentClient(ctx context.Context, cfg config.AgentConfig, log *slog.Logger) (agent.Client, error) {
	if cfg.Backend == "gemini" {
		c, err := agent.NewGeminiClient(ctx, agent.GeminiConfig{
			APIKey:            cfg.Gemini.APIKey,
			Model:             cfg.Gemini.Model,
			Temperature:       cfg.Gemini.Temperature,
			SystemInstruction: cfg.Gemini.SystemInstruction,
		}, log)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Gemini agent: %w", err)
		}
		return c, nil
	}
	return agent.NewHTTPClient(cfg.BaseURL, cfg.ID, cfg.Timeout, log), nil
}

func newPlatforms(cfg *config.Config, deps router.Deps, log *slog.Logger) ([]bot.Platform, error) {
	var platforms []bot.Platform

	if cfg.Discord.Enabled {
		d := deps
		d.Timeouts.Chat = cfg.Discord.Timeout
		a, err := discord.New(cfg.Discord.Token, cfg.Discord.Timeout, d, log)
		if err != nil {
			return nil, err
		}
		platforms = append(platforms, a)
	}

	if cfg.Telegram.Enabled {
		d := deps
		d.Timeouts.Chat = cfg.Telegram.Timeout
		a, err := telegram.New(cfg.Telegram.Token, cfg.Telegram.Timeout, d, log)
		if err != nil {
			return nil, err
		}
		platforms = append(platforms, a)
	}

	return platforms, nil
}
