package sink

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePostgresConfig(t *testing.T) {
	cfg := PostgresConfig{ConnString: "postgres://localhost:5432/websum"}
	require.NoError(t, validatePostgresConfig(&cfg))
	assert.Equal(t, "summaries", cfg.TableName)

	for _, bad := range []string{"drop table x;", "1summaries", "summaries-v2"} {
		cfg := PostgresConfig{ConnString: "postgres://localhost/websum", TableName: bad}
		assert.Error(t, validatePostgresConfig(&cfg), bad)
	}

	assert.Error(t, validatePostgresConfig(&PostgresConfig{}))
}

func TestPostgresSink(t *testing.T) {
	connString := os.Getenv("WEBSUM_TEST_DATABASE_URL")
	if connString == "" {
		t.Skip("WEBSUM_TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	s, err := NewPostgresSink(ctx, PostgresConfig{ConnString: connString, TableName: "test_summaries"}, nil)
	require.NoError(t, err)
	defer s.Close()

	ctx = WithSource(ctx, Source{URL: "https://example.com", Title: "Example Domain", Provider: "local", Model: "mistral"})
	require.NoError(t, s.Deliver(ctx, "first"))
	require.NoError(t, s.Deliver(ctx, "second"))

	latest, err := s.Latest(ctx, "https://example.com")
	require.NoError(t, err)
	assert.Equal(t, "second", latest)
}
