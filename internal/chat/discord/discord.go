// Package discord connects the dispatcher to the Discord gateway.
package discord

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/edgard/tweetrelay/internal/router"
)

// PlatformName identifies Discord in logs and the post ledger.
const PlatformName = "discord"

// Adapter receives Discord messages and hands them to a dispatcher.
type Adapter struct {
	session    *discordgo.Session
	deps       router.Deps
	timeout    time.Duration
	logger     *slog.Logger
	dispatcher *router.Dispatcher

	ctx      context.Context
	mu       sync.Mutex
	stopping bool
	wg       sync.WaitGroup
}

// New creates a Discord adapter. No connection is made until Run.
func New(token string, timeout time.Duration, deps router.Deps, logger *slog.Logger) (*Adapter, error) {
	if logger == nil {
		logger = slog.Default()
	}
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsMessageContent

	deps.Logger = logger
	return &Adapter{
		session: session,
		deps:    deps,
		timeout: timeout,
		logger:  logger.With("component", "discord"),
	}, nil
}

// Name returns the platform name.
func (a *Adapter) Name() string { return PlatformName }

// Run connects to the gateway and dispatches messages until ctx is done.
func (a *Adapter) Run(ctx context.Context) error {
	a.ctx = ctx

	identityCtx, cancel := context.WithTimeout(ctx, a.timeout)
	me, err := a.session.User("@me", discordgo.WithContext(identityCtx))
	cancel()
	if err != nil {
		return fmt.Errorf("failed to fetch discord bot identity: %w", err)
	}

	a.dispatcher = router.New(a.deps, router.Platform{
		Name:          PlatformName,
		BotID:         me.ID,
		StripMentions: router.StripDiscordMentions,
	})

	a.session.AddHandler(a.handleMessage)
	if err := a.session.Open(); err != nil {
		return fmt.Errorf("failed to open discord session: %w", err)
	}
	a.logger.Info("Discord bot connected", "username", me.Username, "id", me.ID)

	<-ctx.Done()
	a.logger.Info("Discord bot disconnecting")
	a.stop()
	err = a.session.Close()
	a.wg.Wait()
	return err
}

// begin registers an in-flight handler. It reports false once the adapter
// is stopping, so wg.Add never races with wg.Wait.
func (a *Adapter) begin() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.stopping || a.ctx == nil || a.ctx.Err() != nil {
		return false
	}
	a.wg.Add(1)
	return true
}

func (a *Adapter) stop() {
	a.mu.Lock()
	a.stopping = true
	a.mu.Unlock()
}

// handleMessage runs on its own goroutine per event.
func (a *Adapter) handleMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || !a.begin() {
		return
	}
	defer a.wg.Done()

	ctx := a.ctx
	var roles []string
	if !m.Author.Bot && router.HasCommand(m.Content) && m.Member != nil {
		roles = a.roleNames(ctx, s, m.GuildID, m.Member.Roles)
	}

	msg := convertMessage(m.Message, roles)
	a.dispatcher.Dispatch(ctx, msg, &channel{
		session: s,
		source:  m.Message,
	})
}

// roleNames resolves role IDs to names, from the state cache first and the
// REST API for anything missing.
func (a *Adapter) roleNames(ctx context.Context, s *discordgo.Session, guildID string, ids []string) []string {
	names := make([]string, 0, len(ids))
	var missing []string
	for _, id := range ids {
		if r, err := s.State.Role(guildID, id); err == nil {
			names = append(names, r.Name)
			continue
		}
		missing = append(missing, id)
	}
	if len(missing) == 0 {
		return names
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()
	guildRoles, err := s.GuildRoles(guildID, discordgo.WithContext(ctx))
	if err != nil {
		a.logger.WarnContext(ctx, "Failed to fetch guild roles", "guild_id", guildID, "error", err)
		return names
	}
	byID := make(map[string]string, len(guildRoles))
	for _, r := range guildRoles {
		byID[r.ID] = r.Name
	}
	for _, id := range missing {
		if name, ok := byID[id]; ok {
			names = append(names, name)
		}
	}
	return names
}
