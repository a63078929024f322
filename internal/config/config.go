// Package config provides configuration loading, validation, and management
// for the relay. It reads an optional YAML file, environment variables and
// built-in defaults, then validates the result before any component starts.
package config

import "time"

// Config defines the application configuration. Values can be set via
// environment variables prefixed with RELAY_ (e.g. RELAY_DISCORD_TOKEN) or
// through config.yaml.
type Config struct {
	Log       LogConfig       `mapstructure:"log"`
	Discord   DiscordConfig   `mapstructure:"discord"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Agent     AgentConfig     `mapstructure:"agent"`
	Twitter   TwitterConfig   `mapstructure:"twitter"`
	Posting   PostingConfig   `mapstructure:"posting"`
	Database  DatabaseConfig  `mapstructure:"database"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Messages  MessagesConfig  `mapstructure:"messages"`
}

// LogConfig controls the slog handler.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// DiscordConfig holds the Discord gateway settings.
type DiscordConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Token   string        `mapstructure:"token"   validate:"required_if=Enabled true"`
	Timeout time.Duration `mapstructure:"timeout" validate:"min=1s,max=5m"`
}

// TelegramConfig holds the Telegram Bot API settings.
type TelegramConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Token   string        `mapstructure:"token"   validate:"required_if=Enabled true"`
	Timeout time.Duration `mapstructure:"timeout" validate:"min=1s,max=5m"`
}

// AgentConfig describes how the conversational agent is reached.
type AgentConfig struct {
	Backend string        `mapstructure:"backend"  validate:"oneof=http gemini"`
	BaseURL string        `mapstructure:"base_url" validate:"omitempty,url"`
	ID      string        `mapstructure:"id"`
	Timeout time.Duration `mapstructure:"timeout"  validate:"min=1s,max=10m"`
	Gemini  GeminiConfig  `mapstructure:"gemini"`
}

// GeminiConfig configures the Gemini agent backend.
type GeminiConfig struct {
	APIKey            string  `mapstructure:"api_key"`
	Model             string  `mapstructure:"model"`
	Temperature       float32 `mapstructure:"temperature"        validate:"min=0,max=2"`
	SystemInstruction string  `mapstructure:"system_instruction"`
}

// TwitterConfig holds the OAuth 1.0a user-context credentials for posting.
type TwitterConfig struct {
	APIKey       string        `mapstructure:"api_key"`
	APISecret    string        `mapstructure:"api_secret"`
	AccessToken  string        `mapstructure:"access_token"`
	AccessSecret string        `mapstructure:"access_secret"`
	BaseURL      string        `mapstructure:"base_url" validate:"required,url"`
	Timeout      time.Duration `mapstructure:"timeout"  validate:"min=1s,max=5m"`
}

// Configured reports whether all four credentials are present.
func (t TwitterConfig) Configured() bool {
	return t.APIKey != "" && t.APISecret != "" && t.AccessToken != "" && t.AccessSecret != ""
}

// PostingConfig controls the posting action and its authorization.
type PostingConfig struct {
	RequiredRole string `mapstructure:"required_role" validate:"required"`
	MaxLength    int    `mapstructure:"max_length"    validate:"min=4,max=25000"`
	PostURL      string `mapstructure:"post_url"      validate:"required,contains=%s"`
}

// DatabaseConfig configures the post ledger.
type DatabaseConfig struct {
	Path      string        `mapstructure:"path"      validate:"required"`
	Retention time.Duration `mapstructure:"retention" validate:"min=1h"`
}

// HTTPConfig configures the optional HTTP API.
type HTTPConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	Addr           string `mapstructure:"addr"             validate:"required_if=Enabled true"`
	ChatBackendURL string `mapstructure:"chat_backend_url" validate:"omitempty,url"`
}

// SchedulerConfig lists the scheduled tasks by name.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks" validate:"dive"`
}

// TaskConfig configures a single scheduled task.
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule" validate:"required_if=Enabled true"`
}

// MessagesConfig holds the user-facing reply templates.
type MessagesConfig struct {
	NotAuthorized string `mapstructure:"not_authorized" validate:"required,contains=%s"`
	Posted        string `mapstructure:"posted"         validate:"required,contains=%s"`
	PostFailed    string `mapstructure:"post_failed"    validate:"required,contains=%s"`
	Error         string `mapstructure:"error"          validate:"required,contains=%s"`
}
