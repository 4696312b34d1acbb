package sink

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownSinkKind    = errors.New("unknown sink kind")
	ErrDisplayUnavailable = errors.New("display is not available")
)

// DeliveryError is returned by every sink when a summary cannot reach its
// destination.
type DeliveryError struct {
	Destination string
	Err         error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("failed to deliver summary to %s: %v", e.Destination, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}
