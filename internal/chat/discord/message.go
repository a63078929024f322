package discord

import (
	"context"

	"github.com/bwmarrin/discordgo"

	"github.com/edgard/tweetrelay/internal/auth"
	"github.com/edgard/tweetrelay/internal/chat"
	"github.com/edgard/tweetrelay/internal/router"
)

const maxMessageLength = 2000

// convertMessage builds the dispatcher's view of a Discord message.
func convertMessage(m *discordgo.Message, roles []string) router.InboundMessage {
	msg := router.InboundMessage{
		Platform:  PlatformName,
		ID:        m.ID,
		ChannelID: m.ChannelID,
		Author: router.Author{
			ID:    m.Author.ID,
			Name:  displayName(m),
			IsBot: m.Author.Bot,
		},
		Content: m.Content,
		Roles:   auth.NewRoleSet(roles...),
	}
	if m.MessageReference != nil {
		msg.ReplyTo = m.MessageReference.MessageID
	}
	for _, u := range m.Mentions {
		if u != nil {
			msg.Mentions = append(msg.Mentions, u.ID)
		}
	}
	return msg
}

// displayName prefers the guild nickname, then the global display name,
// then the username.
func displayName(m *discordgo.Message) string {
	if m.Member != nil && m.Member.Nick != "" {
		return m.Member.Nick
	}
	if m.Author.GlobalName != "" {
		return m.Author.GlobalName
	}
	return m.Author.Username
}

// channel answers one message.
type channel struct {
	session *discordgo.Session
	source  *discordgo.Message
}

func (c *channel) FetchMessage(ctx context.Context, id string) (*router.FetchedMessage, error) {
	if ref := c.source.ReferencedMessage; ref != nil && ref.ID == id && ref.Author != nil {
		return fetched(ref), nil
	}
	m, err := c.session.ChannelMessage(c.source.ChannelID, id, discordgo.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	return fetched(m), nil
}

func fetched(m *discordgo.Message) *router.FetchedMessage {
	f := &router.FetchedMessage{ID: m.ID, Content: m.Content}
	if m.Author != nil {
		f.AuthorID = m.Author.ID
	}
	return f
}

// Reply answers the source message. Text over the Discord limit goes out as
// several messages, only the first of which references the source.
func (c *channel) Reply(ctx context.Context, text string) error {
	failIfNotExists := false
	for i, chunk := range chat.Split(text, maxMessageLength) {
		send := &discordgo.MessageSend{Content: chunk}
		if i == 0 {
			send.Reference = &discordgo.MessageReference{
				MessageID:       c.source.ID,
				ChannelID:       c.source.ChannelID,
				GuildID:         c.source.GuildID,
				FailIfNotExists: &failIfNotExists,
			}
		}
		if _, err := c.session.ChannelMessageSendComplex(c.source.ChannelID, send, discordgo.WithContext(ctx)); err != nil {
			return err
		}
	}
	return nil
}
