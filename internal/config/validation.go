package config

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Validate runs the struct tag rules and the cross-section checks that tags
// cannot express. A missing token for an enabled platform is reported here so
// the process exits before any event is accepted.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	if !c.Discord.Enabled && !c.Telegram.Enabled {
		return errors.New("at least one chat platform must be enabled")
	}

	switch c.Agent.Backend {
	case "http":
		if c.Agent.BaseURL == "" || c.Agent.ID == "" {
			return errors.New("agent.base_url and agent.id are required for the http backend")
		}
	case "gemini":
		if c.Agent.Gemini.APIKey == "" || c.Agent.Gemini.Model == "" {
			return errors.New("agent.gemini.api_key and agent.gemini.model are required for the gemini backend")
		}
	}

	return nil
}
