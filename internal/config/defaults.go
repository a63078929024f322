package config

import "time"

// defaults holds every known key. Viper only resolves environment variables
// for keys it already knows, so credentials are listed here with empty values.
var defaults = map[string]any{
	"log.level": "info",
	"log.json":  false,

	"discord.enabled": true,
	"discord.token":   "",
	"discord.timeout": 15 * time.Second,

	"telegram.enabled": false,
	"telegram.token":   "",
	"telegram.timeout": 15 * time.Second,

	"agent.backend":                   "http",
	"agent.base_url":                  "http://localhost:3000",
	"agent.id":                        "b850bc30-45f8-0041-a00a-83df46d8555d",
	"agent.timeout":                   2 * time.Minute,
	"agent.gemini.api_key":            "",
	"agent.gemini.model":              "gemini-2.0-flash",
	"agent.gemini.temperature":        1.0,
	"agent.gemini.system_instruction": "",

	"twitter.api_key":       "",
	"twitter.api_secret":    "",
	"twitter.access_token":  "",
	"twitter.access_secret": "",
	"twitter.base_url":      "https://api.twitter.com",
	"twitter.timeout":       30 * time.Second,

	"posting.required_role": "Tweeter",
	"posting.max_length":    280,
	"posting.post_url":      "https://x.com/i/web/status/%s",

	"database.path":      "relay.db",
	"database.retention": 90 * 24 * time.Hour,

	"http.enabled":          false,
	"http.addr":             ":3001",
	"http.chat_backend_url": "http://localhost:5000/chat",

	"scheduler.tasks": map[string]any{
		"post_ledger_retention": map[string]any{"enabled": true, "schedule": "0 0 4 * * *"},
		"sql_maintenance":       map[string]any{"enabled": true, "schedule": "0 30 4 * * 0"},
	},

	"messages.not_authorized": "Sorry, you need the %s role to post tweets.",
	"messages.posted":         "Tweet posted successfully! %s",
	"messages.post_failed":    "Failed to post tweet: %s",
	"messages.error":          "Sorry, I encountered an error processing your message. Error: %s",
}

// legacyEnv maps keys to the unprefixed environment variables used by
// earlier deployments. RELAY_-prefixed names always take precedence.
var legacyEnv = map[string]string{
	"discord.token":         "DISCORD_TOKEN",
	"telegram.token":        "TELEGRAM_TOKEN",
	"agent.base_url":        "AGENT_URL",
	"agent.id":              "AGENT_ID",
	"agent.gemini.api_key":  "GEMINI_API_KEY",
	"twitter.api_key":       "TWITTER_API_KEY",
	"twitter.api_secret":    "TWITTER_API_SECRET",
	"twitter.access_token":  "TWITTER_ACCESS_TOKEN",
	"twitter.access_secret": "TWITTER_ACCESS_SECRET",
	"posting.required_role": "REQUIRED_ROLE",
}
