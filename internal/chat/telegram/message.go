package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/tweetrelay/internal/auth"
	"github.com/edgard/tweetrelay/internal/chat"
	"github.com/edgard/tweetrelay/internal/router"
)

const maxMessageLength = 4096

func messageText(m *models.Message) string {
	if m.Text != "" {
		return m.Text
	}
	return m.Caption
}

func messageEntities(m *models.Message) []models.MessageEntity {
	if m.Text != "" {
		return m.Entities
	}
	return m.CaptionEntities
}

// convertMessage builds the dispatcher's view of a Telegram message. A
// mention of me by username is reported with me's numeric ID.
func convertMessage(m *models.Message, me *models.User, roles []string) router.InboundMessage {
	text := messageText(m)
	msg := router.InboundMessage{
		Platform:  PlatformName,
		ID:        strconv.Itoa(m.ID),
		ChannelID: strconv.FormatInt(m.Chat.ID, 10),
		Author: router.Author{
			ID:    strconv.FormatInt(m.From.ID, 10),
			Name:  displayName(m.From),
			IsBot: m.From.IsBot,
		},
		Content:  text,
		Roles:    auth.NewRoleSet(roles...),
		Mentions: mentions(text, messageEntities(m), me),
	}
	if m.ReplyToMessage != nil {
		msg.ReplyTo = strconv.Itoa(m.ReplyToMessage.ID)
	}
	return msg
}

func displayName(u *models.User) string {
	if u.Username != "" {
		return u.Username
	}
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// mentions returns the IDs of users mentioned in text. Entity offsets are in
// UTF-16 code units.
func mentions(text string, entities []models.MessageEntity, me *models.User) []string {
	var ids []string
	var encoded []uint16
	for _, e := range entities {
		switch e.Type {
		case models.MessageEntityTypeTextMention:
			if e.User != nil {
				ids = append(ids, strconv.FormatInt(e.User.ID, 10))
			}
		case models.MessageEntityTypeMention:
			if me == nil || me.Username == "" {
				continue
			}
			if encoded == nil {
				encoded = utf16.Encode([]rune(text))
			}
			if e.Offset < 0 || e.Length <= 0 || e.Offset+e.Length > len(encoded) {
				continue
			}
			name := string(utf16.Decode(encoded[e.Offset : e.Offset+e.Length]))
			if strings.EqualFold(strings.TrimPrefix(name, "@"), me.Username) {
				ids = append(ids, strconv.FormatInt(me.ID, 10))
			}
		}
	}
	return ids
}

// channel answers one message in its chat.
type channel struct {
	api    api
	source *models.Message
}

// FetchMessage serves the message being replied to. The Bot API cannot
// fetch arbitrary messages, but an update carries the one it answers.
func (c *channel) FetchMessage(_ context.Context, id string) (*router.FetchedMessage, error) {
	ref := c.source.ReplyToMessage
	if ref == nil || strconv.Itoa(ref.ID) != id {
		return nil, fmt.Errorf("message %s is not available", id)
	}
	f := &router.FetchedMessage{ID: id, Content: messageText(ref)}
	if ref.From != nil {
		f.AuthorID = strconv.FormatInt(ref.From.ID, 10)
	}
	return f, nil
}

func (c *channel) Reply(ctx context.Context, text string) error {
	for i, chunk := range chat.Split(text, maxMessageLength) {
		params := &bot.SendMessageParams{
			ChatID: c.source.Chat.ID,
			Text:   chunk,
		}
		if i == 0 {
			params.ReplyParameters = &models.ReplyParameters{
				MessageID:                c.source.ID,
				AllowSendingWithoutReply: true,
			}
		}
		if _, err := c.api.SendMessage(ctx, params); err != nil {
			return err
		}
	}
	return nil
}
