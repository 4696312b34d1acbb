package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xhad/websum/internal/models"
)

const examplePage = `
<html>
	<head>
		<title>Example Domain</title>
		<style>p { color: red; }</style>
	</head>
	<body>
		<div>
			<h1>Example Domain</h1>
			<script>var tracking = 1;</script>
			<p>   This domain is for use in illustrative examples.   </p>
			<img src="logo.png" alt="logo">
			<input type="text" value="search">
			<p>More <a href="/info">information</a>...</p>
		</div>
	</body>
</html>`

func newPageServer(t *testing.T, status int, body string) (*httptest.Server, *int32) {
	t.Helper()
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server, &hits
}

func TestScraperConfig(t *testing.T) {
	config := ScraperConfig{
		Timeout:   10 * time.Second,
		RateLimit: 1.0,
		Mode:      ModeReadability,
	}

	s, err := NewWithConfig(config)
	require.NoError(t, err)
	assert.Equal(t, config.Timeout, s.config.Timeout)
	assert.Equal(t, ModeReadability, s.config.Mode)
	assert.NotNil(t, s.limiter)

	s = New()
	assert.Equal(t, ModeBody, s.config.Mode)
	assert.Nil(t, s.limiter)

	_, err = NewWithConfig(ScraperConfig{Mode: "javascript"})
	assert.Error(t, err)

	_, err = NewWithConfig(ScraperConfig{RateLimit: -1})
	assert.Error(t, err)
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		url   string
		valid bool
	}{
		{"https://example.com", true},
		{"http://example.com/docs/page.html?q=1", true},
		{"http://localhost:8080", true},
		{"", false},
		{"example.com", false},
		{"ftp://example.com/file", false},
		{"https://", false},
		{"not a url", false},
		{" https://example.com", false},
		{"mailto:someone@example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			_, err := ValidateURL(tt.url)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidURL)
			}
		})
	}
}

func TestLoadInvalidURLMakesNoRequest(t *testing.T) {
	server, hits := newPageServer(t, http.StatusOK, examplePage)
	s := New()

	for _, raw := range []string{"", "example.com", "ftp://" + strings.TrimPrefix(server.URL, "http://")} {
		_, err := s.Load(context.Background(), raw)
		assert.ErrorIs(t, err, ErrInvalidURL)
	}
	assert.Zero(t, atomic.LoadInt32(hits))
}

func TestLoadWithMockServer(t *testing.T) {
	server, hits := newPageServer(t, http.StatusOK, examplePage)
	s := New()

	page, err := s.Load(context.Background(), server.URL)
	require.NoError(t, err)

	assert.Equal(t, int32(1), atomic.LoadInt32(hits))
	assert.Equal(t, server.URL, page.URL)
	assert.Equal(t, "Example Domain", page.Title)
	assert.Equal(t, strings.Join([]string{
		"Example Domain",
		"This domain is for use in illustrative examples.",
		"More",
		"information",
		"...",
	}, "\n"), page.Text)
	assert.NotContains(t, page.Text, "tracking")
	assert.NotContains(t, page.Text, "color")
}

func TestLoadMissingTitle(t *testing.T) {
	server, _ := newPageServer(t, http.StatusOK, `<html><body><p>Hello</p></body></html>`)

	page, err := New().Load(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, models.NoTitle, page.Title)
	assert.Equal(t, "Hello", page.Text)
}

func TestLoadFetchErrors(t *testing.T) {
	t.Run("bad status", func(t *testing.T) {
		server, _ := newPageServer(t, http.StatusNotFound, "missing")
		_, err := New().Load(context.Background(), server.URL)
		assert.ErrorIs(t, err, ErrFetch)
		assert.Contains(t, err.Error(), "404")
	})

	t.Run("connection refused", func(t *testing.T) {
		server, _ := newPageServer(t, http.StatusOK, examplePage)
		url := server.URL
		server.Close()

		_, err := New().Load(context.Background(), url)
		assert.ErrorIs(t, err, ErrFetch)
		assert.NotErrorIs(t, err, ErrInvalidURL)
	})

	t.Run("cancelled context", func(t *testing.T) {
		server, _ := newPageServer(t, http.StatusOK, examplePage)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := New().Load(ctx, server.URL)
		assert.ErrorIs(t, err, ErrFetch)
	})
}

func TestLoadReadabilityMode(t *testing.T) {
	paragraph := "Go is an open source programming language that makes it simple to build secure, scalable systems. "
	body := `<html><head><title>Readable Article</title></head><body>
		<nav><a href="/">Home</a> <a href="/about">About</a></nav>
		<article><h1>Readable Article</h1>` +
		"<p>" + strings.Repeat(paragraph, 4) + "</p>" +
		"<p>" + strings.Repeat(paragraph, 4) + "</p>" +
		`</article><script>var x = 1;</script></body></html>`
	server, _ := newPageServer(t, http.StatusOK, body)

	s, err := NewWithConfig(ScraperConfig{Mode: ModeReadability})
	require.NoError(t, err)

	page, err := s.Load(context.Background(), server.URL)
	require.NoError(t, err)
	assert.NotEmpty(t, page.Title)
	assert.Contains(t, page.Text, "Go is an open source programming language")
	assert.NotContains(t, page.Text, "var x")
}
