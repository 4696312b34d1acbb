package sink

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

var tableNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

type PostgresConfig struct {
	ConnString string
	TableName  string
}

// PostgresSink appends each summary as a row. Source metadata attached to
// the context with WithSource is stored alongside it.
type PostgresSink struct {
	config PostgresConfig
	pool   *pgxpool.Pool
	log    *slog.Logger
}

func validatePostgresConfig(config *PostgresConfig) error {
	if config.ConnString == "" {
		return errors.New("postgres sink requires a connection string")
	}
	if config.TableName == "" {
		config.TableName = "summaries"
	}
	if !tableNameRe.MatchString(config.TableName) {
		return fmt.Errorf("invalid table name %q", config.TableName)
	}
	return nil
}

func NewPostgresSink(ctx context.Context, config PostgresConfig, log *slog.Logger) (*PostgresSink, error) {
	if err := validatePostgresConfig(&config); err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.Default()
	}

	pool, err := pgxpool.New(ctx, config.ConnString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s := &PostgresSink{
		config: config,
		pool:   pool,
		log:    log,
	}

	if err := s.initialize(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *PostgresSink) initialize(ctx context.Context) error {
	createTable := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id BIGSERIAL PRIMARY KEY,
			url TEXT,
			title TEXT,
			provider TEXT,
			model TEXT,
			summary TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`, s.config.TableName)

	if _, err := s.pool.Exec(ctx, createTable); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}
	return nil
}

func (s *PostgresSink) Deliver(ctx context.Context, summary string) error {
	src, _ := SourceFrom(ctx)

	stmt := fmt.Sprintf(`
		INSERT INTO %s (url, title, provider, model, summary, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		s.config.TableName)

	if _, err := s.pool.Exec(ctx, stmt,
		src.URL,
		src.Title,
		src.Provider,
		src.Model,
		summary,
		time.Now().UTC(),
	); err != nil {
		return &DeliveryError{Destination: "postgres table " + s.config.TableName, Err: err}
	}

	s.log.Info("summary stored", "table", s.config.TableName, "url", src.URL)
	return nil
}

// Latest returns the most recent summary stored for url.
func (s *PostgresSink) Latest(ctx context.Context, url string) (string, error) {
	query := fmt.Sprintf(`
		SELECT summary FROM %s
		WHERE url = $1
		ORDER BY id DESC
		LIMIT 1`, s.config.TableName)

	var summary string
	if err := s.pool.QueryRow(ctx, query, url).Scan(&summary); err != nil {
		return "", fmt.Errorf("failed to query summary: %w", err)
	}
	return summary, nil
}

func (s *PostgresSink) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}
