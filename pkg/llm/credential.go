package llm

import (
	"log/slog"
	"strings"
)

const expectedKeyPrefix = "sk-proj"

// ValidateAPIKey checks the shape of a remote API key before any request
// is made. A key without the usual prefix is accepted with a warning.
func ValidateAPIKey(apiKey string, log *slog.Logger) error {
	if apiKey == "" {
		return ErrMissingCredential
	}
	if strings.ContainsAny(apiKey, " \t") {
		return ErrMalformedCredential
	}

	if log == nil {
		log = slog.Default()
	}
	if !strings.HasPrefix(apiKey, expectedKeyPrefix) {
		log.Warn("API key found but it does not start with the expected prefix; check you are using the correct key",
			"expected_prefix", expectedKeyPrefix)
	} else {
		log.Debug("API key found and passes format checks")
	}
	return nil
}
