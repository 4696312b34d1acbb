package types

import (
	"context"

	"github.com/xhad/websum/internal/models"
)

// Core interfaces
type PageLoader interface {
	Load(ctx context.Context, rawURL string) (models.PageContent, error)
}

type Provider interface {
	Summarize(ctx context.Context, model string, prompt models.Prompt) (string, error)
	Name() string
}

type ProviderFactory interface {
	Create(kind string) (Provider, error)
}

type Sink interface {
	Deliver(ctx context.Context, summary string) error
}
