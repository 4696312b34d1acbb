package main

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xhad/websum/pkg/config"
)

const completionBody = `{
	"id": "chatcmpl-1",
	"object": "chat.completion",
	"created": 1700000000,
	"model": "gpt-4o-mini",
	"choices": [
		{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "SUMMARY"}}
	]
}`

func setupEnv(t *testing.T, apiKey string) (pageURL string) {
	t.Helper()

	page := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		io.WriteString(w, `<html><head><title>Example Domain</title></head><body><p>Example text.</p></body></html>`)
	}))
	t.Cleanup(page.Close)

	model := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, completionBody)
	}))
	t.Cleanup(model.Close)

	t.Setenv("HOME", t.TempDir())
	t.Setenv("OPENAI_API_KEY", apiKey)
	t.Setenv("OPENAI_BASE_URL", model.URL+"/")
	t.Setenv("OLLAMA_BASE_URL", "")
	t.Setenv("SMTP_PASSWORD", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("WEBSUM_LOG_LEVEL", "")

	return page.URL
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func runCmd(t *testing.T, stdin string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestRootCmdSummarizesToStdout(t *testing.T) {
	pageURL := setupEnv(t, "sk-proj-test-key")
	cfg := writeConfig(t, "log:\n  level: error\n")

	stdout, stderr, err := runCmd(t, "", "--config", cfg, pageURL)
	require.NoError(t, err)
	assert.Equal(t, "SUMMARY", stdout)
	assert.Contains(t, stderr, "Summarizing "+pageURL)
}

func TestRootCmdWritesFile(t *testing.T) {
	pageURL := setupEnv(t, "sk-proj-test-key")
	cfg := writeConfig(t, "log:\n  level: error\n")
	target := filepath.Join(t.TempDir(), "summary.md")

	stdout, _, err := runCmd(t, "", "--config", cfg, "--file", target, pageURL)
	require.NoError(t, err)
	assert.Empty(t, stdout)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "SUMMARY", string(data))
}

func TestRootCmdReadsStdin(t *testing.T) {
	pageURL := setupEnv(t, "sk-proj-test-key")
	cfg := writeConfig(t, "log:\n  level: error\n")

	stdout, _, err := runCmd(t, "see "+pageURL+" and "+pageURL+" again", "--config", cfg, "--stdin")
	require.NoError(t, err)
	assert.Equal(t, "SUMMARY", stdout)
}

func TestRootCmdFailures(t *testing.T) {
	t.Run("malformed credential", func(t *testing.T) {
		pageURL := setupEnv(t, "sk proj 123")
		cfg := writeConfig(t, "log:\n  level: error\n")

		stdout, stderr, err := runCmd(t, "", "--config", cfg, pageURL)
		assert.EqualError(t, err, "1 of 1 summaries failed")
		assert.Empty(t, stdout)
		assert.Contains(t, stderr, "API key contains spaces or tab characters")
		assert.Equal(t, 1, strings.Count(stderr, "failed to generate & display summary"))
		assert.NotContains(t, stderr, "sk proj 123")
	})

	t.Run("invalid url", func(t *testing.T) {
		pageURL := setupEnv(t, "sk-proj-test-key")
		cfg := writeConfig(t, "log:\n  level: error\n")

		stdout, _, err := runCmd(t, "", "--config", cfg, "not-a-url", pageURL)
		assert.EqualError(t, err, "1 of 2 summaries failed")
		assert.Equal(t, "SUMMARY", stdout)
	})

	t.Run("no urls", func(t *testing.T) {
		setupEnv(t, "sk-proj-test-key")
		cfg := writeConfig(t, "")

		_, _, err := runCmd(t, "", "--config", cfg)
		assert.ErrorContains(t, err, "no URL given")
	})

	t.Run("invalid configuration", func(t *testing.T) {
		pageURL := setupEnv(t, "sk-proj-test-key")
		cfg := writeConfig(t, "")

		_, _, err := runCmd(t, "", "--config", cfg, "--sink", "printer", "--mode", "headless", pageURL)
		assert.ErrorContains(t, err, "configuration error")
		assert.ErrorContains(t, err, "output.sink")
		assert.ErrorContains(t, err, "scraper.mode")
	})
}

func TestApplyFlags(t *testing.T) {
	t.Run("provider switch picks the local default model", func(t *testing.T) {
		cmd := NewRootCmd()
		require.NoError(t, cmd.ParseFlags([]string{"--provider", "local", "--timeout", "5s", "--max-chars", "500"}))

		cfg := &config.Config{}
		cfg.LLM.Provider = "remote"
		cfg.LLM.Model = config.DefaultRemoteModel
		applyFlags(cmd, cfg)

		assert.Equal(t, "local", cfg.LLM.Provider)
		assert.Equal(t, config.DefaultLocalModel, cfg.LLM.Model)
		assert.Equal(t, 5*time.Second, cfg.LLM.Timeout)
		assert.Equal(t, 500, cfg.Scraper.MaxChars)
	})

	t.Run("configured model is kept", func(t *testing.T) {
		cmd := NewRootCmd()
		require.NoError(t, cmd.ParseFlags([]string{"--provider", "local"}))

		cfg := &config.Config{}
		cfg.LLM.Provider = "remote"
		cfg.LLM.Model = "mistral"
		applyFlags(cmd, cfg)

		assert.Equal(t, "mistral", cfg.LLM.Model)
	})

	t.Run("file flag implies file sink", func(t *testing.T) {
		cmd := NewRootCmd()
		require.NoError(t, cmd.ParseFlags([]string{"--file", "out.md", "-v"}))

		cfg := &config.Config{}
		cfg.Output.Sink = "plain"
		applyFlags(cmd, cfg)

		assert.Equal(t, "file", cfg.Output.Sink)
		assert.Equal(t, "out.md", cfg.Output.FilePath)
		assert.Equal(t, "debug", cfg.Log.Level)
	})
}

func TestVersionCmd(t *testing.T) {
	stdout, _, err := runCmd(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "websum version")
	assert.Contains(t, stdout, "commit:")
}
