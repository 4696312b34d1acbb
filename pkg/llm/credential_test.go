package llm_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/xhad/websum/pkg/llm"
)

func TestValidateAPIKey(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		wantErr  error
		wantWarn bool
	}{
		{name: "empty", key: "", wantErr: llm.ErrMissingCredential},
		{name: "spaces", key: "sk proj 123", wantErr: llm.ErrMalformedCredential},
		{name: "leading space", key: " sk-proj-abc", wantErr: llm.ErrMalformedCredential},
		{name: "trailing tab", key: "sk-proj-abc\t", wantErr: llm.ErrMalformedCredential},
		{name: "space in otherwise valid key", key: "sk-proj-abc def", wantErr: llm.ErrMalformedCredential},
		{name: "valid prefix", key: "sk-proj-abc123"},
		{name: "unexpected prefix", key: "sk-abc123", wantWarn: true},
		{name: "other vendor", key: "gsk_abc123", wantWarn: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&buf, nil))

			err := llm.ValidateAPIKey(tt.key, logger)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			if tt.wantWarn {
				assert.Contains(t, buf.String(), "level=WARN")
			} else {
				assert.NotContains(t, buf.String(), "level=WARN")
			}
			if tt.key != "" {
				assert.NotContains(t, buf.String(), tt.key)
			}
		})
	}
}
