package sink

import (
	"context"
	"errors"
	"log/slog"
	"os"
)

// FileSink overwrites a single file with the latest summary.
type FileSink struct {
	path string
	log  *slog.Logger
}

func NewFileSink(path string, log *slog.Logger) (*FileSink, error) {
	if path == "" {
		return nil, errors.New("file sink requires a file path")
	}
	if log == nil {
		log = slog.Default()
	}
	return &FileSink{path: path, log: log}, nil
}

func (s *FileSink) Path() string {
	return s.path
}

func (s *FileSink) Deliver(_ context.Context, summary string) error {
	if err := os.WriteFile(s.path, []byte(summary), 0o644); err != nil {
		return &DeliveryError{Destination: s.path, Err: err}
	}
	s.log.Info("summary written to file", "path", s.path, "bytes", len(summary))
	return nil
}
