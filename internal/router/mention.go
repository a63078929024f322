package router

import (
	"regexp"
	"strings"
)

var (
	discordMention  = regexp.MustCompile(`<@[!&]?\d+>`)
	telegramMention = regexp.MustCompile(`\B@[A-Za-z0-9_]{5,32}`)
)

// Platform describes the chat platform a dispatcher serves.
type Platform struct {
	Name string
	// BotID is the platform user ID of this bot.
	BotID string
	// StripMentions removes every mention token from content.
	StripMentions func(content string) string
}

func (p Platform) strip(content string) string {
	if p.StripMentions != nil {
		content = p.StripMentions(content)
	}
	return strings.TrimSpace(content)
}

// StripDiscordMentions removes user, nickname and role mention tokens.
func StripDiscordMentions(content string) string {
	return discordMention.ReplaceAllString(content, "")
}

// StripTelegramMentions removes @username tokens. Addresses such as
// user@example.com are left alone.
func StripTelegramMentions(content string) string {
	return telegramMention.ReplaceAllString(content, "")
}
