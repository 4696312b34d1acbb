package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/xhad/websum/internal/models"
)

const KindRemote = "remote"

// RemoteConfig represents the configuration for a hosted chat-completion API.
type RemoteConfig struct {
	APIKey     string
	BaseURL    string // empty means the public OpenAI endpoint
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// RemoteProvider summarizes through an OpenAI-compatible chat completions API.
type RemoteProvider struct {
	client openai.Client
	log    *slog.Logger
}

// NewRemoteProvider validates the credential and builds the client. It never
// returns a provider holding an unusable key.
func NewRemoteProvider(config RemoteConfig) (*RemoteProvider, error) {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if err := ValidateAPIKey(config.APIKey, config.Logger); err != nil {
		return nil, fmt.Errorf("error occurred while validating API key: %w", err)
	}

	opts := []option.RequestOption{
		option.WithAPIKey(config.APIKey),
		option.WithMaxRetries(0),
	}
	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}
	if config.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(config.Timeout))
	}
	if config.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(config.HTTPClient))
	}

	return &RemoteProvider{
		client: openai.NewClient(opts...),
		log:    config.Logger,
	}, nil
}

func (p *RemoteProvider) Name() string {
	return KindRemote
}

// Summarize sends the prompt and returns the first completion's text.
func (p *RemoteProvider) Summarize(ctx context.Context, model string, prompt models.Prompt) (string, error) {
	if strings.TrimSpace(model) == "" {
		return "", &ProviderCallError{Provider: KindRemote, Model: model, Err: errors.New("model identifier is empty")}
	}

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(prompt))
	for _, m := range prompt {
		switch m.Role {
		case models.RoleSystem:
			messages = append(messages, openai.SystemMessage(m.Content))
		default:
			messages = append(messages, openai.UserMessage(m.Content))
		}
	}

	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(model),
		Messages: messages,
	})
	if err != nil {
		return "", &ProviderCallError{Provider: KindRemote, Model: model, Err: err}
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", &ProviderCallError{Provider: KindRemote, Model: model, Err: ErrEmptyResponse}
	}

	p.log.Debug("completion received",
		"provider", KindRemote,
		"model", model,
		"choices", len(resp.Choices))

	return resp.Choices[0].Message.Content, nil
}
