package vocab

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by the scheduler, store and practice layers.
// Use errors.Is to classify.
var (
	// ErrNotFound indicates an unknown item. Not retryable.
	ErrNotFound = errors.New("not found")

	// ErrInvalidArgument indicates a bad language tag, an unparsable
	// timestamp or an invalid track state. Not retryable.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrRetryableIO indicates a transient store or judge failure. The
	// caller may retry with backoff; no track state was changed.
	ErrRetryableIO = errors.New("retryable I/O failure")
)

// Retryable marks err as a transient failure. Returns nil for nil, and err
// unchanged if it is already classified.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrRetryableIO) || errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidArgument) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrRetryableIO, err)
}

// IsRetryable reports whether err is worth retrying.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrRetryableIO)
}
