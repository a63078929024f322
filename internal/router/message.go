// Package router classifies inbound chat messages and carries each one to
// exactly one terminal outcome: a reply, a post, or nothing at all.
package router

import (
	"context"
	"slices"

	"github.com/edgard/tweetrelay/internal/auth"
)

// Author identifies who sent a message.
type Author struct {
	ID    string
	Name  string
	IsBot bool
}

// InboundMessage is one chat event. Adapters build it per event and it is
// not modified during dispatch.
type InboundMessage struct {
	Platform  string
	ID        string
	ChannelID string
	Author    Author
	Content   string
	// Roles held by the author where the message was sent. Adapters may
	// leave it nil when the content cannot lead to a post.
	Roles auth.RoleSet
	// ReplyTo is the ID of the message this one answers, if any.
	ReplyTo string
	// Mentions holds the user IDs addressed by the message.
	Mentions []string
}

// MentionsUser reports whether id is among the mentioned users.
func (m InboundMessage) MentionsUser(id string) bool {
	return id != "" && slices.Contains(m.Mentions, id)
}

// FetchedMessage is a prior message looked up by ID.
type FetchedMessage struct {
	ID       string
	AuthorID string
	Content  string
}

// Channel is the chat context a message arrived in. One value is created
// per event.
type Channel interface {
	// FetchMessage returns a prior message from the same chat.
	FetchMessage(ctx context.Context, id string) (*FetchedMessage, error)
	// Reply answers the message being dispatched.
	Reply(ctx context.Context, text string) error
}
