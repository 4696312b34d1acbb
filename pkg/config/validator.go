package config

import (
	"fmt"
	"net/url"
	"slices"

	"github.com/xhad/websum/pkg/llm"
	"github.com/xhad/websum/pkg/scraper"
	"github.com/xhad/websum/pkg/sink"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	// Validate LLM config
	if c.LLM.Provider != llm.KindRemote && c.LLM.Provider != llm.KindLocal {
		errors = append(errors, ValidationError{
			Field:   "llm.provider",
			Message: fmt.Sprintf("provider must be %q or %q", llm.KindRemote, llm.KindLocal),
		})
	}

	if c.LLM.Model == "" {
		errors = append(errors, ValidationError{
			Field:   "llm.model",
			Message: "model is required",
		})
	}

	if c.LLM.RemoteBaseURL != "" && !isHTTPURL(c.LLM.RemoteBaseURL) {
		errors = append(errors, ValidationError{
			Field:   "llm.remote_base_url",
			Message: "invalid remote base URL",
		})
	}

	if !isHTTPURL(c.LLM.LocalURL) {
		errors = append(errors, ValidationError{
			Field:   "llm.local_url",
			Message: "invalid local server URL",
		})
	}

	if c.LLM.Timeout < 0 {
		errors = append(errors, ValidationError{
			Field:   "llm.timeout",
			Message: "timeout cannot be negative",
		})
	}

	// Validate Scraper config
	if c.Scraper.Mode != scraper.ModeBody && c.Scraper.Mode != scraper.ModeReadability {
		errors = append(errors, ValidationError{
			Field:   "scraper.mode",
			Message: fmt.Sprintf("mode must be %q or %q", scraper.ModeBody, scraper.ModeReadability),
		})
	}

	if c.Scraper.Timeout < 0 {
		errors = append(errors, ValidationError{
			Field:   "scraper.timeout",
			Message: "timeout cannot be negative",
		})
	}

	if c.Scraper.RateLimit < 0 {
		errors = append(errors, ValidationError{
			Field:   "scraper.rate_limit",
			Message: "rate_limit cannot be negative",
		})
	}

	if c.Scraper.MaxChars < 0 {
		errors = append(errors, ValidationError{
			Field:   "scraper.max_chars",
			Message: "max_chars cannot be negative",
		})
	}

	// Validate Output config
	if !slices.Contains(sink.Kinds, c.Output.Sink) {
		errors = append(errors, ValidationError{
			Field:   "output.sink",
			Message: fmt.Sprintf("sink must be one of %v", sink.Kinds),
		})
	}

	switch c.Output.Sink {
	case sink.KindFile:
		if c.Output.FilePath == "" {
			errors = append(errors, ValidationError{
				Field:   "output.file_path",
				Message: "file_path is required for the file sink",
			})
		}
	case sink.KindEmail:
		email := c.Output.Email
		if email.Recipient == "" || email.Sender == "" || email.SMTPServer == "" {
			errors = append(errors, ValidationError{
				Field:   "output.email",
				Message: "recipient, sender and smtp_server are required for the email sink",
			})
		}
		if email.SMTPPort < 1 || email.SMTPPort > 65535 {
			errors = append(errors, ValidationError{
				Field:   "output.email.smtp_port",
				Message: "smtp_port must be between 1 and 65535",
			})
		}
	case sink.KindPostgres:
		if c.Env.DatabaseURL == "" {
			errors = append(errors, ValidationError{
				Field:   "DATABASE_URL",
				Message: "DATABASE_URL is required for the postgres sink",
			})
		}
	}

	return errors
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
