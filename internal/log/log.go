// Package log builds the slog loggers used across websum. Every logger
// returned here masks credentials before a record reaches its handler.
package log

import (
	"context"
	"io"
	"log/slog"
	"regexp"
	"strings"
)

// Mask replaces any redacted attribute value.
const Mask = "***REDACTED***"

// Keys are matched per segment (split on "_", "-" and "."), so
// "access_token" is masked while "max_tokens" is not.
var secretKeys = map[string]bool{
	"apikey":        true,
	"password":      true,
	"passwd":        true,
	"secret":        true,
	"token":         true,
	"authorization": true,
	"credential":    true,
	"credentials":   true,
}

var secretValues = []*regexp.Regexp{
	regexp.MustCompile(`^sk-[A-Za-z0-9_\-]{8,}$`),
	regexp.MustCompile(`(?i)^bearer\s+.+`),
	regexp.MustCompile(`(?i)^basic\s+[A-Za-z0-9+/=]+$`),
}

// RedactHandler wraps another slog.Handler and masks attributes whose key
// or value looks like a credential.
type RedactHandler struct {
	next slog.Handler
}

func NewRedactHandler(next slog.Handler) *RedactHandler {
	if next == nil {
		next = slog.Default().Handler()
	}
	return &RedactHandler{next: next}
}

func (h *RedactHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *RedactHandler) Handle(ctx context.Context, r slog.Record) error {
	out := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(redact(a))
		return true
	})
	return h.next.Handle(ctx, out)
}

func (h *RedactHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clean := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		clean[i] = redact(a)
	}
	return &RedactHandler{next: h.next.WithAttrs(clean)}
}

func (h *RedactHandler) WithGroup(name string) slog.Handler {
	return &RedactHandler{next: h.next.WithGroup(name)}
}

func redact(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		group := a.Value.Group()
		clean := make([]slog.Attr, len(group))
		for i, g := range group {
			clean[i] = redact(g)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(clean...)}
	}

	if isSecretKey(a.Key) {
		return slog.String(a.Key, Mask)
	}

	if a.Value.Kind() == slog.KindString {
		v := a.Value.String()
		for _, re := range secretValues {
			if re.MatchString(v) {
				return slog.String(a.Key, Mask)
			}
		}
	}
	return a
}

func isSecretKey(key string) bool {
	parts := strings.FieldsFunc(strings.ToLower(key), func(r rune) bool {
		return r == '_' || r == '-' || r == '.'
	})
	for i, part := range parts {
		if secretKeys[part] {
			return true
		}
		if part == "api" && i+1 < len(parts) && parts[i+1] == "key" {
			return true
		}
	}
	return false
}

// New returns a text logger writing to w. Level names follow slog
// ("debug", "info", "warn", "error"); unknown names fall back to info.
func New(w io.Writer, level string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}
	return slog.New(NewRedactHandler(slog.NewTextHandler(w, opts)))
}

// NewJSON is New with JSON output.
func NewJSON(w io.Writer, level string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}
	return slog.New(NewRedactHandler(slog.NewJSONHandler(w, opts)))
}

func ParseLevel(level string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return l
}

// Discard is a logger that drops every record. Handy for tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}
