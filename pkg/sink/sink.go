package sink

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/xhad/websum/internal/types"
)

const (
	KindPlain    = "plain"
	KindConsole  = "console"
	KindFile     = "file"
	KindWindow   = "window"
	KindEmail    = "email"
	KindPostgres = "postgres"
)

// Kinds lists every sink New can build.
var Kinds = []string{KindPlain, KindConsole, KindFile, KindWindow, KindEmail, KindPostgres}

type Config struct {
	Kind         string
	FilePath     string
	ConsoleStyle string
	WordWrap     int
	Email        EmailConfig
	Postgres     PostgresConfig
	Window       WindowConfig
	Out          io.Writer
	Logger       *slog.Logger
}

// New maps a sink kind to a constructed sink. An empty kind means plain.
// Sinks holding resources also implement io.Closer.
func New(ctx context.Context, config Config) (types.Sink, error) {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	switch config.Kind {
	case "", KindPlain:
		return NewPlainSink(config.Out), nil
	case KindConsole:
		s, err := NewConsoleSink(config.Out, config.ConsoleStyle, config.WordWrap)
		if err != nil {
			return nil, err
		}
		return s, nil
	case KindFile:
		s, err := NewFileSink(config.FilePath, config.Logger)
		if err != nil {
			return nil, err
		}
		return s, nil
	case KindWindow:
		if config.Window.Logger == nil {
			config.Window.Logger = config.Logger
		}
		return NewWindowSink(config.Window), nil
	case KindEmail:
		s, err := NewEmailSink(config.Email, config.Logger)
		if err != nil {
			return nil, err
		}
		return s, nil
	case KindPostgres:
		s, err := NewPostgresSink(ctx, config.Postgres, config.Logger)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("%w: %q (expected one of %v)", ErrUnknownSinkKind, config.Kind, Kinds)
	}
}
