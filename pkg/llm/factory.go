package llm

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/xhad/websum/internal/types"
)

// FactoryConfig carries everything needed to build either provider. The API
// key is read once from the environment by the caller and passed in here.
type FactoryConfig struct {
	APIKey         string
	RemoteBaseURL  string
	LocalServerURL string
	Timeout        time.Duration
	Logger         *slog.Logger
}

type Factory struct {
	config FactoryConfig
}

func NewFactory(config FactoryConfig) *Factory {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	return &Factory{config: config}
}

// Create maps a provider kind to a constructed provider.
func (f *Factory) Create(kind string) (types.Provider, error) {
	switch kind {
	case KindRemote:
		p, err := NewRemoteProvider(RemoteConfig{
			APIKey:  f.config.APIKey,
			BaseURL: f.config.RemoteBaseURL,
			Timeout: f.config.Timeout,
			Logger:  f.config.Logger,
		})
		if err != nil {
			return nil, err
		}
		return p, nil
	case KindLocal:
		p, err := NewLocalProvider(LocalConfig{
			ServerURL: f.config.LocalServerURL,
			Timeout:   f.config.Timeout,
			Logger:    f.config.Logger,
		})
		if err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, fmt.Errorf("%w: %q (expected %q or %q)", ErrUnknownProviderKind, kind, KindRemote, KindLocal)
	}
}
