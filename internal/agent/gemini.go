package agent

import (
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/genai"
)

// GeminiConfig configures the Gemini backend.
type GeminiConfig struct {
	APIKey            string
	Model             string
	Temperature       float32
	SystemInstruction string
}

// GeminiClient answers messages with Google's Gemini API instead of an
// HTTP agent. Its output goes through Normalize like any other response.
type GeminiClient struct {
	client        *genai.Client
	model         string
	contentConfig *genai.GenerateContentConfig
	logger        *slog.Logger
}

// NewGeminiClient creates a Gemini-backed agent client.
func NewGeminiClient(ctx context.Context, cfg GeminiConfig, logger *slog.Logger) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	gi, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	temperature := cfg.Temperature
	contentConfig := &genai.GenerateContentConfig{Temperature: &temperature}
	if cfg.SystemInstruction != "" {
		contentConfig.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: cfg.SystemInstruction}}}
	}

	log := logger.With("component", "gemini_agent")
	log.Info("Gemini agent initialized", "model", cfg.Model)

	return &GeminiClient{
		client:        gi,
		model:         cfg.Model,
		contentConfig: contentConfig,
		logger:        log,
	}, nil
}

// Send asks Gemini once. The user's name is prefixed so the model can
// address them.
func (c *GeminiClient) Send(ctx context.Context, req Request) (Reply, error) {
	prompt := fmt.Sprintf("%s (id %s): %s", req.UserName, req.UserID, req.Text)
	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, c.contentConfig)
	if err != nil {
		c.logger.ErrorContext(ctx, "Gemini request failed", "error", err)
		return Reply{}, fmt.Errorf("gemini API call failed: %w", err)
	}

	return Normalize(Payload{Shape: ShapeSingle, Single: Entry{Text: resp.Text()}})
}
