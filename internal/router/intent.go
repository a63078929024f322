package router

import "strings"

// CommandKeyword marks a message as a posting command.
const CommandKeyword = "!tweet"

const directPrefix = CommandKeyword + " "

// IntentKind is the path a message takes through the dispatcher.
type IntentKind int

const (
	IntentIgnore IntentKind = iota
	IntentDirectPost
	IntentReplyChainPost
	IntentConversation
)

func (k IntentKind) String() string {
	switch k {
	case IntentDirectPost:
		return "direct_post"
	case IntentReplyChainPost:
		return "reply_chain_post"
	case IntentConversation:
		return "conversation"
	default:
		return "ignore"
	}
}

// Intent is the classification of one message.
type Intent struct {
	Kind IntentKind
	// Text is the post candidate for IntentDirectPost and the
	// mention-stripped prompt for IntentConversation.
	Text string
	// RefID is the referenced message for IntentReplyChainPost.
	RefID string
}

// HasCommand reports whether content carries the posting keyword anywhere.
func HasCommand(content string) bool {
	return strings.Contains(content, CommandKeyword)
}

// Classify decides the path for msg. Rules are checked in a fixed order and
// the first match wins, so command recognition always precedes mention
// handling.
func Classify(msg InboundMessage, p Platform) Intent {
	switch {
	case msg.Author.IsBot:
		return Intent{Kind: IntentIgnore}
	case strings.HasPrefix(msg.Content, directPrefix):
		return Intent{
			Kind: IntentDirectPost,
			Text: strings.TrimSpace(strings.TrimPrefix(msg.Content, directPrefix)),
		}
	case msg.ReplyTo != "" && HasCommand(msg.Content):
		return Intent{Kind: IntentReplyChainPost, RefID: msg.ReplyTo}
	case !msg.MentionsUser(p.BotID):
		return Intent{Kind: IntentIgnore}
	default:
		return Intent{Kind: IntentConversation, Text: p.strip(msg.Content)}
	}
}
