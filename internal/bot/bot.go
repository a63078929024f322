// Package bot wires the chat platforms, the scheduler and the HTTP API
// together and manages their lifecycle.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// Platform is a chat platform adapter. Run blocks until ctx is done.
type Platform interface {
	Name() string
	Run(ctx context.Context) error
}

// Runner is any other long-lived component, such as the HTTP server.
type Runner interface {
	Run(ctx context.Context) error
}

// Bot runs every component until the context is cancelled or one of them
// fails.
type Bot struct {
	logger    *slog.Logger
	platforms []Platform
	scheduler *Scheduler
	server    Runner
}

// NewBot creates the orchestrator. scheduler and server may be nil.
func NewBot(logger *slog.Logger, platforms []Platform, scheduler *Scheduler, server Runner) *Bot {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bot{
		logger:    logger.With("component", "bot_orchestrator"),
		platforms: platforms,
		scheduler: scheduler,
		server:    server,
	}
}

// Run starts all components and blocks. A component failure cancels the
// others and is returned.
func (b *Bot) Run(ctx context.Context) error {
	if len(b.platforms) == 0 {
		return errors.New("no chat platform enabled")
	}

	g, gCtx := errgroup.WithContext(ctx)

	for _, p := range b.platforms {
		g.Go(func() error {
			b.logger.Info("Starting platform", "platform", p.Name())
			if err := p.Run(gCtx); err != nil {
				b.logger.Error("Platform stopped with error", "platform", p.Name(), "error", err)
				return fmt.Errorf("%s: %w", p.Name(), err)
			}
			b.logger.Info("Platform stopped", "platform", p.Name())
			return nil
		})
	}

	if b.scheduler != nil {
		g.Go(func() error {
			if _, err := b.scheduler.Start(gCtx); err != nil {
				return fmt.Errorf("failed to start scheduler: %w", err)
			}
			<-gCtx.Done()
			if err := b.scheduler.Stop(); err != nil {
				b.logger.Error("Error stopping scheduler", "error", err)
			}
			return nil
		})
	}

	if b.server != nil {
		g.Go(func() error {
			return b.server.Run(gCtx)
		})
	}

	b.logger.Info("Bot orchestrator running", "platforms", len(b.platforms))
	err := g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		b.logger.Error("Bot orchestrator stopped due to error", "error", err)
		return err
	}

	b.logger.Info("Bot orchestrator stopped gracefully")
	return nil
}
