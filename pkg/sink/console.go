package sink

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
)

// PlainSink writes the summary to its writer exactly as received.
type PlainSink struct {
	out io.Writer
}

func NewPlainSink(out io.Writer) *PlainSink {
	if out == nil {
		out = os.Stdout
	}
	return &PlainSink{out: out}
}

func (s *PlainSink) Deliver(_ context.Context, summary string) error {
	if _, err := io.WriteString(s.out, summary); err != nil {
		return &DeliveryError{Destination: "stdout", Err: err}
	}
	return nil
}

// ConsoleSink renders the summary as terminal markdown.
type ConsoleSink struct {
	out      io.Writer
	renderer *glamour.TermRenderer
}

// NewConsoleSink builds a markdown renderer. An empty style picks dark or
// light from the terminal background; "notty" disables ANSI styling.
func NewConsoleSink(out io.Writer, style string, wordWrap int) (*ConsoleSink, error) {
	if out == nil {
		out = os.Stdout
	}
	if wordWrap <= 0 {
		wordWrap = 100
	}

	styleOpt := glamour.WithAutoStyle()
	if style != "" {
		styleOpt = glamour.WithStandardStyle(style)
	}

	renderer, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(wordWrap))
	if err != nil {
		return nil, fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	return &ConsoleSink{out: out, renderer: renderer}, nil
}

func (s *ConsoleSink) Deliver(_ context.Context, summary string) error {
	rendered, err := s.renderer.Render(summary)
	if err != nil {
		return &DeliveryError{Destination: "console", Err: err}
	}
	if _, err := io.WriteString(s.out, rendered); err != nil {
		return &DeliveryError{Destination: "console", Err: err}
	}
	return nil
}
