package llm

import (
	"errors"
	"fmt"
)

var (
	ErrMissingCredential   = errors.New("no API key was found")
	ErrMalformedCredential = errors.New("API key contains spaces or tab characters")
	ErrUnknownProviderKind = errors.New("unknown provider kind")

	// ErrEmptyResponse means the backend answered without any completion text.
	ErrEmptyResponse = errors.New("response did not contain any completion")
)

// ProviderCallError wraps every failure raised while talking to a backend.
type ProviderCallError struct {
	Provider string
	Model    string
	Err      error
}

func (e *ProviderCallError) Error() string {
	return fmt.Sprintf("%s provider call (model %q) failed: %v", e.Provider, e.Model, e.Err)
}

func (e *ProviderCallError) Unwrap() error {
	return e.Err
}
