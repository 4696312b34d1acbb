package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/xhad/websum/internal/models"
)

const (
	KindLocal = "local"

	DefaultLocalURL = "http://localhost:11434"
)

// LocalConfig represents the configuration for a locally served model.
type LocalConfig struct {
	ServerURL string // Ollama server URL
	Timeout   time.Duration
	Logger    *slog.Logger
}

// LocalProvider summarizes through a local Ollama server.
type LocalProvider struct {
	config LocalConfig
	llm    llms.Model
}

func NewLocalProvider(config LocalConfig) (*LocalProvider, error) {
	if config.ServerURL == "" {
		config.ServerURL = DefaultLocalURL
	}

	llm, err := ollama.New(ollama.WithServerURL(config.ServerURL))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM: %w", err)
	}
	return NewLocalProviderWithModel(config, llm), nil
}

// NewLocalProviderWithModel uses an already constructed llms.Model.
func NewLocalProviderWithModel(config LocalConfig, llm llms.Model) *LocalProvider {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	return &LocalProvider{
		config: config,
		llm:    llm,
	}
}

func (p *LocalProvider) Name() string {
	return KindLocal
}

// Summarize sends the prompt to the local server; the model is chosen per call.
func (p *LocalProvider) Summarize(ctx context.Context, model string, prompt models.Prompt) (string, error) {
	if strings.TrimSpace(model) == "" {
		return "", &ProviderCallError{Provider: KindLocal, Model: model, Err: errors.New("model identifier is empty")}
	}

	if p.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.config.Timeout)
		defer cancel()
	}

	content := make([]llms.MessageContent, 0, len(prompt))
	for _, m := range prompt {
		role := llms.ChatMessageTypeHuman
		if m.Role == models.RoleSystem {
			role = llms.ChatMessageTypeSystem
		}
		content = append(content, llms.TextParts(role, m.Content))
	}

	response, err := p.llm.GenerateContent(ctx, content, llms.WithModel(model))
	if err != nil {
		return "", &ProviderCallError{Provider: KindLocal, Model: model, Err: err}
	}

	if response == nil || len(response.Choices) == 0 || response.Choices[0] == nil || response.Choices[0].Content == "" {
		return "", &ProviderCallError{Provider: KindLocal, Model: model, Err: ErrEmptyResponse}
	}

	p.config.Logger.Debug("completion received",
		"provider", KindLocal,
		"model", model,
		"server", p.config.ServerURL)

	return response.Choices[0].Content, nil
}
