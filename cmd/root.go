package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/xhad/websum/internal/log"
	"github.com/xhad/websum/internal/types"
	"github.com/xhad/websum/pkg/config"
	"github.com/xhad/websum/pkg/llm"
	"github.com/xhad/websum/pkg/pipeline"
	"github.com/xhad/websum/pkg/processor"
	"github.com/xhad/websum/pkg/scraper"
	"github.com/xhad/websum/pkg/sink"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "websum [flags] URL...",
		Short: "Summarize web pages with a language model",
		Long: `websum fetches a web page, strips scripts, styles and other non-content
markup, asks a language model for a short markdown summary and delivers it
to the terminal, a file, a browser window, an email inbox or Postgres.

Examples:
  # Rendered markdown in the terminal using the remote provider
  OPENAI_API_KEY=sk-proj-... websum --sink console https://example.com

  # Local Ollama model, summary written to a file
  websum --provider local --model mistral --sink file --file summary.md https://example.com

  # Summarize every link found in a text
  cat links.txt | websum --stdin`,
		Version:       getVersion(),
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runRootCmd,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")

	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: config.yaml, ~/.config/websum/config.yaml, /etc/websum/config.yaml)")
	cmd.Flags().StringP("provider", "p", llm.KindRemote,
		"Summarization provider (remote, local)")
	cmd.Flags().StringP("model", "m", "",
		"Model identifier (default depends on the provider)")
	cmd.Flags().StringP("sink", "s", sink.KindPlain,
		fmt.Sprintf("Where to deliver the summary %v", sink.Kinds))
	cmd.Flags().StringP("file", "f", "",
		"Output path for the file sink")
	cmd.Flags().DurationP("timeout", "t", 0,
		"Timeout for each model call")
	cmd.Flags().String("mode", scraper.ModeBody,
		"Text extraction mode (body, readability)")
	cmd.Flags().Int("max-chars", 0,
		"Trim page text to this many characters at a sentence boundary (0 disables)")
	cmd.Flags().Bool("stdin", false,
		"Read URLs from text on standard input")

	cmd.AddCommand(NewVersionCmd())

	return cmd
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// applyFlags overrides file and environment settings with the flags the
// user set explicitly.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()

	if flags.Changed("provider") {
		provider, _ := flags.GetString("provider")
		if !flags.Changed("model") && cfg.LLM.Model == config.DefaultModel(cfg.LLM.Provider) {
			cfg.LLM.Model = config.DefaultModel(provider)
		}
		cfg.LLM.Provider = provider
	}
	if flags.Changed("model") {
		cfg.LLM.Model, _ = flags.GetString("model")
	}
	if flags.Changed("timeout") {
		cfg.LLM.Timeout, _ = flags.GetDuration("timeout")
	}
	if flags.Changed("sink") {
		cfg.Output.Sink, _ = flags.GetString("sink")
	}
	if flags.Changed("file") {
		cfg.Output.FilePath, _ = flags.GetString("file")
		if !flags.Changed("sink") {
			cfg.Output.Sink = sink.KindFile
		}
	}
	if flags.Changed("mode") {
		cfg.Scraper.Mode, _ = flags.GetString("mode")
	}
	if flags.Changed("max-chars") {
		cfg.Scraper.MaxChars, _ = flags.GetInt("max-chars")
	}
	if verbose, _ := flags.GetBool("verbose"); verbose {
		cfg.Log.Level = "debug"
	}
}

func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyFlags(cmd, cfg)

	if verrs := cfg.Validate(); len(verrs) > 0 {
		errs := make([]error, len(verrs))
		for i, verr := range verrs {
			errs[i] = verr
		}
		return nil, fmt.Errorf("configuration error: %w", errors.Join(errs...))
	}
	return cfg, nil
}

func setupLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	if cfg.Log.Format == "json" {
		return log.NewJSON(w, cfg.Log.Level)
	}
	return log.New(w, cfg.Log.Level)
}

func collectURLs(cmd *cobra.Command, args []string) ([]string, error) {
	urls := append([]string(nil), args...)
	if fromStdin, _ := cmd.Flags().GetBool("stdin"); fromStdin {
		found, err := extractURLs(cmd.InOrStdin())
		if err != nil {
			return nil, err
		}
		urls = append(urls, found...)
	}
	if len(urls) == 0 {
		return nil, errors.New("no URL given; pass one or more URLs or use --stdin")
	}
	return urls, nil
}

func runRootCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	urls, err := collectURLs(cmd, args)
	if err != nil {
		return err
	}

	stderr := cmd.ErrOrStderr()
	logger := setupLogger(stderr, cfg)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loader, err := scraper.NewWithConfig(cfg.ScraperConfig(logger))
	if err != nil {
		return fmt.Errorf("failed to initialize scraper: %w", err)
	}

	sinkConfig := cfg.SinkConfig(logger)
	sinkConfig.Out = cmd.OutOrStdout()
	out, err := sink.New(ctx, sinkConfig)
	if err != nil {
		return fmt.Errorf("failed to initialize %s sink: %w", cfg.Output.Sink, err)
	}
	if closer, ok := out.(io.Closer); ok {
		defer closer.Close()
	}

	p := pipeline.New(loader, llm.NewFactory(cfg.FactoryConfig(logger)),
		pipeline.WithLogger(logger),
		pipeline.WithProcessor(processor.NewWithConfig(processor.ProcessorConfig{
			MaxChars: cfg.Scraper.MaxChars,
		})),
		pipeline.WithStdout(cmd.OutOrStdout()),
	)

	return summarizeAll(ctx, stderr, p, cfg, urls, out)
}

func summarizeAll(ctx context.Context, stderr io.Writer, p *pipeline.Pipeline, cfg *config.Config, urls []string, out types.Sink) error {
	failed := 0
	for _, u := range urls {
		color.New(color.FgBlue).Fprintf(stderr, "Summarizing %s with %s/%s\n", u, cfg.LLM.Provider, cfg.LLM.Model)

		spin := startSpinner(stderr, "Generating summary...")
		err := p.Attempt(ctx, pipeline.Request{
			URL:          u,
			ProviderKind: cfg.LLM.Provider,
			Model:        cfg.LLM.Model,
			Sink:         &spinnerSink{spinner: spin, next: out},
		})
		spin.stop()

		if err != nil {
			failed++
			color.New(color.FgRed).Fprintf(stderr, "✗ %s: %v\n", u, err)
			if ctx.Err() != nil {
				break
			}
			continue
		}
		color.New(color.FgGreen).Fprintf(stderr, "✓ %s\n", u)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d summaries failed", failed, len(urls))
	}
	return nil
}
