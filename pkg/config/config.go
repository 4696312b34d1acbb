package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/xhad/websum/pkg/llm"
	"github.com/xhad/websum/pkg/scraper"
	"github.com/xhad/websum/pkg/sink"
	"gopkg.in/yaml.v3"
)

const (
	DefaultRemoteModel = "gpt-4o-mini"
	DefaultLocalModel  = "llama3.2"
)

type Config struct {
	LLM struct {
		Provider      string        `yaml:"provider"`
		Model         string        `yaml:"model"`
		RemoteBaseURL string        `yaml:"remote_base_url"`
		LocalURL      string        `yaml:"local_url"`
		Timeout       time.Duration `yaml:"timeout"`
	} `yaml:"llm"`

	Scraper struct {
		Mode      string        `yaml:"mode"`
		Timeout   time.Duration `yaml:"timeout"`
		RateLimit float64       `yaml:"rate_limit"`
		UserAgent string        `yaml:"user_agent"`
		MaxChars  int           `yaml:"max_chars"`
	} `yaml:"scraper"`

	Output struct {
		Sink         string `yaml:"sink"`
		FilePath     string `yaml:"file_path"`
		ConsoleStyle string `yaml:"console_style"`
		WordWrap     int    `yaml:"word_wrap"`

		Email struct {
			Recipient  string `yaml:"recipient"`
			Sender     string `yaml:"sender"`
			SMTPServer string `yaml:"smtp_server"`
			SMTPPort   int    `yaml:"smtp_port"`
			Username   string `yaml:"username"`
		} `yaml:"email"`

		Database struct {
			TableName string `yaml:"table_name"`
		} `yaml:"database"`
	} `yaml:"output"`

	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`

	// Env holds secrets and endpoints that only come from the environment.
	Env Env `yaml:"-"`
}

// Env is read from the process environment once per LoadConfig call.
type Env struct {
	OpenAIAPIKey  string `env:"OPENAI_API_KEY"`
	OpenAIBaseURL string `env:"OPENAI_BASE_URL"`
	OllamaBaseURL string `env:"OLLAMA_BASE_URL"`
	SMTPPassword  string `env:"SMTP_PASSWORD"`
	DatabaseURL   string `env:"DATABASE_URL"`
	LogLevel      string `env:"WEBSUM_LOG_LEVEL"`
}

func LoadEnv() (Env, error) {
	var e Env
	if err := env.Parse(&e); err != nil {
		return Env{}, fmt.Errorf("error reading environment: %w", err)
	}
	return e, nil
}

func LoadConfig(path string) (*Config, error) {
	// If no path provided, try default locations
	if path == "" {
		locations := []string{
			"config.yaml",
			"config.yml",
			filepath.Join(os.Getenv("HOME"), ".config/websum/config.yaml"),
			"/etc/websum/config.yaml",
		}

		for _, loc := range locations {
			if _, err := os.Stat(loc); err == nil {
				path = loc
				break
			}
		}
	}

	if path == "" {
		return getDefaultConfig()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := mergeWithEnv(&config); err != nil {
		return nil, err
	}

	applyDefaults(&config)

	return &config, nil
}

func getDefaultConfig() (*Config, error) {
	config := &Config{}
	if err := mergeWithEnv(config); err != nil {
		return nil, err
	}
	applyDefaults(config)
	return config, nil
}

func applyDefaults(config *Config) {
	if config.LLM.Provider == "" {
		config.LLM.Provider = llm.KindRemote
	}
	if config.LLM.Model == "" {
		config.LLM.Model = DefaultModel(config.LLM.Provider)
	}
	if config.LLM.LocalURL == "" {
		config.LLM.LocalURL = llm.DefaultLocalURL
	}
	if config.LLM.Timeout == 0 {
		config.LLM.Timeout = 2 * time.Minute
	}

	if config.Scraper.Mode == "" {
		config.Scraper.Mode = scraper.ModeBody
	}
	if config.Scraper.Timeout == 0 {
		config.Scraper.Timeout = 30 * time.Second
	}

	if config.Output.Sink == "" {
		config.Output.Sink = sink.KindPlain
	}
	if config.Output.Email.SMTPPort == 0 {
		config.Output.Email.SMTPPort = 587
	}
	if config.Output.Database.TableName == "" {
		config.Output.Database.TableName = "summaries"
	}

	if config.Log.Level == "" {
		config.Log.Level = "info"
	}
	if config.Log.Format == "" {
		config.Log.Format = "text"
	}
}

// DefaultModel picks a model for a provider kind when none is configured.
func DefaultModel(provider string) string {
	if provider == llm.KindLocal {
		return DefaultLocalModel
	}
	return DefaultRemoteModel
}

// mergeWithEnv lets endpoint variables override the file. Credentials are
// only ever taken from the environment.
func mergeWithEnv(config *Config) error {
	e, err := LoadEnv()
	if err != nil {
		return err
	}
	config.Env = e

	if e.OpenAIBaseURL != "" {
		config.LLM.RemoteBaseURL = e.OpenAIBaseURL
	}
	if e.OllamaBaseURL != "" {
		config.LLM.LocalURL = e.OllamaBaseURL
	}
	if e.LogLevel != "" {
		config.Log.Level = e.LogLevel
	}
	return nil
}

func (c *Config) FactoryConfig(log *slog.Logger) llm.FactoryConfig {
	return llm.FactoryConfig{
		APIKey:         c.Env.OpenAIAPIKey,
		RemoteBaseURL:  c.LLM.RemoteBaseURL,
		LocalServerURL: c.LLM.LocalURL,
		Timeout:        c.LLM.Timeout,
		Logger:         log,
	}
}

func (c *Config) ScraperConfig(log *slog.Logger) scraper.ScraperConfig {
	return scraper.ScraperConfig{
		Timeout:   c.Scraper.Timeout,
		RateLimit: c.Scraper.RateLimit,
		Mode:      c.Scraper.Mode,
		UserAgent: c.Scraper.UserAgent,
		Logger:    log,
	}
}

func (c *Config) SinkConfig(log *slog.Logger) sink.Config {
	return sink.Config{
		Kind:         c.Output.Sink,
		FilePath:     c.Output.FilePath,
		ConsoleStyle: c.Output.ConsoleStyle,
		WordWrap:     c.Output.WordWrap,
		Email: sink.EmailConfig{
			Recipient:  c.Output.Email.Recipient,
			Sender:     c.Output.Email.Sender,
			SMTPServer: c.Output.Email.SMTPServer,
			SMTPPort:   c.Output.Email.SMTPPort,
			Username:   c.Output.Email.Username,
			Password:   c.Env.SMTPPassword,
		},
		Postgres: sink.PostgresConfig{
			ConnString: c.Env.DatabaseURL,
			TableName:  c.Output.Database.TableName,
		},
		Logger: log,
	}
}
