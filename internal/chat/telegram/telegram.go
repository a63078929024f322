// Package telegram connects the dispatcher to the Telegram Bot API using
// long polling.
package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/tweetrelay/internal/router"
)

// PlatformName identifies Telegram in logs and the post ledger.
const PlatformName = "telegram"

// api is the subset of the Bot API used while answering a message.
type api interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
	GetChatMember(ctx context.Context, params *bot.GetChatMemberParams) (*models.ChatMember, error)
}

// Adapter receives Telegram updates and hands messages to a dispatcher.
type Adapter struct {
	token      string
	deps       router.Deps
	timeout    time.Duration
	logger     *slog.Logger
	dispatcher *router.Dispatcher
	me         *models.User
}

// New creates a Telegram adapter. No request is made until Run.
func New(token string, timeout time.Duration, deps router.Deps, logger *slog.Logger) (*Adapter, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram bot token cannot be empty")
	}
	if logger == nil {
		logger = slog.Default()
	}
	deps.Logger = logger
	return &Adapter{
		token:   token,
		deps:    deps,
		timeout: timeout,
		logger:  logger.With("component", "telegram"),
	}, nil
}

// Name returns the platform name.
func (a *Adapter) Name() string { return PlatformName }

// Run polls for updates until ctx is done.
func (a *Adapter) Run(ctx context.Context) error {
	b, err := bot.New(a.token,
		bot.WithMiddlewares(LoggingMiddleware(a.logger)),
		bot.WithDefaultHandler(a.handleUpdate),
	)
	if err != nil {
		return fmt.Errorf("failed to create telegram bot: %w", err)
	}

	meCtx, cancel := context.WithTimeout(ctx, a.timeout)
	me, err := b.GetMe(meCtx)
	cancel()
	if err != nil {
		return fmt.Errorf("failed to get bot info: %w", err)
	}
	a.me = me
	a.dispatcher = router.New(a.deps, router.Platform{
		Name:          PlatformName,
		BotID:         strconv.FormatInt(me.ID, 10),
		StripMentions: router.StripTelegramMentions,
	})
	a.logger.Info("Retrieved bot info", "bot_id", me.ID, "bot_username", me.Username)

	b.Start(ctx)
	if ctx.Err() == nil {
		return fmt.Errorf("telegram listener stopped unexpectedly")
	}
	a.logger.Info("Telegram bot listener stopped")
	return nil
}

func (a *Adapter) handleUpdate(ctx context.Context, b *bot.Bot, update *models.Update) {
	a.handle(ctx, b, update)
}

func (a *Adapter) handle(ctx context.Context, client api, update *models.Update) {
	m := update.Message
	if m == nil || m.From == nil || a.dispatcher == nil {
		return
	}

	var roles []string
	if !m.From.IsBot && router.HasCommand(messageText(m)) {
		roles = a.memberRoles(ctx, client, m.Chat.ID, m.From.ID)
	}

	msg := convertMessage(m, a.me, roles)
	a.dispatcher.Dispatch(ctx, msg, &channel{
		api:    client,
		source: m,
	})
}

// memberRoles returns the member's status, plus "administrator" for the
// owner, plus any custom title.
func (a *Adapter) memberRoles(ctx context.Context, client api, chatID, userID int64) []string {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	member, err := client.GetChatMember(ctx, &bot.GetChatMemberParams{ChatID: chatID, UserID: userID})
	if err != nil {
		a.logger.WarnContext(ctx, "Failed to get chat member", "chat_id", chatID, "user_id", userID, "error", err)
		return nil
	}
	return rolesOf(member)
}

func rolesOf(member *models.ChatMember) []string {
	if member == nil {
		return nil
	}
	roles := []string{string(member.Type)}
	switch member.Type {
	case models.ChatMemberTypeOwner:
		roles = append(roles, string(models.ChatMemberTypeAdministrator))
		if member.Owner != nil {
			roles = append(roles, member.Owner.CustomTitle)
		}
	case models.ChatMemberTypeAdministrator:
		if member.Administrator != nil {
			roles = append(roles, member.Administrator.CustomTitle)
		}
	}
	return roles
}
