// Package pipeline wires a URL to a delivered summary: load the page,
// build the prompt, ask a provider, hand the result to a sink.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"unicode/utf8"

	"github.com/xhad/websum/internal/types"
	"github.com/xhad/websum/pkg/llm"
	"github.com/xhad/websum/pkg/processor"
	"github.com/xhad/websum/pkg/scraper"
	"github.com/xhad/websum/pkg/sink"
)

// Stage names reported in StageError.
const (
	StageValidate  = "validate url"
	StageLoad      = "load page"
	StageProvider  = "create provider"
	StageSummarize = "summarize"
	StageDeliver   = "deliver"
)

// Pages above this size are logged since they may exceed a model's context.
const largePageChars = 100_000

// StageError tells which step of the pipeline failed.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

type Request struct {
	URL          string
	ProviderKind string
	Model        string
	// Sink receives the summary. Nil means plain text on stdout.
	Sink types.Sink
}

type Pipeline struct {
	loader    types.PageLoader
	factory   types.ProviderFactory
	processor processor.Processor
	stdout    io.Writer
	log       *slog.Logger
}

type Option func(*Pipeline)

func WithLogger(log *slog.Logger) Option {
	return func(p *Pipeline) {
		p.log = log
	}
}

// WithProcessor trims page text before the prompt is built.
func WithProcessor(proc processor.Processor) Option {
	return func(p *Pipeline) {
		p.processor = proc
	}
}

// WithStdout sets where the default plain sink writes.
func WithStdout(w io.Writer) Option {
	return func(p *Pipeline) {
		p.stdout = w
	}
}

func New(loader types.PageLoader, factory types.ProviderFactory, opts ...Option) *Pipeline {
	p := &Pipeline{
		loader:  loader,
		factory: factory,
		stdout:  os.Stdout,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.log == nil {
		p.log = slog.Default()
	}
	return p
}

// Execute runs every stage in order and returns the first failure wrapped
// in a StageError. Nothing is delivered unless all earlier stages succeed.
func (p *Pipeline) Execute(ctx context.Context, req Request) error {
	if _, err := scraper.ValidateURL(req.URL); err != nil {
		return &StageError{Stage: StageValidate, Err: err}
	}

	page, err := p.loader.Load(ctx, req.URL)
	if err != nil {
		return &StageError{Stage: StageLoad, Err: err}
	}

	if p.processor.Enabled() {
		if text, trimmed := p.processor.Trim(page.Text); trimmed {
			p.log.Warn("page text trimmed before summarizing",
				"url", req.URL,
				"original_chars", utf8.RuneCountInString(page.Text),
				"kept_chars", utf8.RuneCountInString(text))
			page.Text = text
		}
	} else if n := utf8.RuneCountInString(page.Text); n > largePageChars {
		p.log.Warn("page text is large and may exceed the model context",
			"url", req.URL,
			"chars", n)
	}

	prompt := llm.BuildPrompt(page)

	provider, err := p.factory.Create(req.ProviderKind)
	if err != nil {
		return &StageError{Stage: StageProvider, Err: err}
	}

	p.log.Debug("requesting summary",
		"provider", provider.Name(),
		"model", req.Model,
		"url", req.URL)

	summary, err := provider.Summarize(ctx, req.Model, prompt)
	if err != nil {
		return &StageError{Stage: StageSummarize, Err: err}
	}

	out := req.Sink
	if out == nil {
		out = sink.NewPlainSink(p.stdout)
	}

	ctx = sink.WithSource(ctx, sink.Source{
		URL:      req.URL,
		Title:    page.Title,
		Provider: provider.Name(),
		Model:    req.Model,
	})
	if err := out.Deliver(ctx, summary); err != nil {
		return &StageError{Stage: StageDeliver, Err: err}
	}
	return nil
}

// Attempt runs Execute between the start, success and failure log lines
// and returns Execute's error.
func (p *Pipeline) Attempt(ctx context.Context, req Request) error {
	p.log.Info("Attempting to display summary of website", "url", req.URL)

	if err := p.Execute(ctx, req); err != nil {
		p.log.Error("failed to generate & display summary",
			"url", req.URL,
			"error", err)
		return err
	}

	p.log.Info("Successfully displayed summary for website", "url", req.URL)
	return nil
}

// Run is Attempt behind a log-and-stop boundary: failures are logged and
// never returned.
func (p *Pipeline) Run(ctx context.Context, url, providerKind, model string, out types.Sink) {
	_ = p.Attempt(ctx, Request{
		URL:          url,
		ProviderKind: providerKind,
		Model:        model,
		Sink:         out,
	})
}
