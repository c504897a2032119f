package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// ErrRateLimit indicates the provider returned a rate limit error (429).
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited (retry after %s): %v", e.RetryAfter, e.Err)
	}
	return fmt.Sprintf("rate limited: %v", e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrInvalidResponse indicates the model returned content that does not fit
// the requested schema, or that the judge or question generator rejected
// after decoding. Purpose names the call that produced it.
type ErrInvalidResponse struct {
	Purpose string
	Content json.RawMessage
	Err     error
}

func (e *ErrInvalidResponse) Error() string {
	if e.Purpose != "" {
		return fmt.Sprintf("invalid %s response: %v", e.Purpose, e.Err)
	}
	return fmt.Sprintf("invalid LLM response: %v", e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ErrProviderUnavailable indicates the provider is down or unreachable.
type ErrProviderUnavailable struct {
	Err error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("LLM provider unavailable: %v", e.Err)
	}
	return "LLM provider unavailable"
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

// ErrMaxTokensExceeded indicates the response was truncated because it
// hit the MaxTokens limit.
type ErrMaxTokensExceeded struct {
	Content json.RawMessage
}

func (e *ErrMaxTokensExceeded) Error() string {
	return "LLM response truncated: max tokens exceeded"
}

// Transient reports whether repeating the same request could succeed.
// Cancellation, deadlines and truncation are final; an invalid response is
// transient because sampling may produce a valid one next time.
func Transient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var maxTok *ErrMaxTokensExceeded
	return !errors.As(err, &maxTok)
}

// Describe turns an error from the judge or question generator into a short
// sentence for the learner. Unrecognised errors fall back to err.Error().
func Describe(err error) string {
	var (
		rl      *ErrRateLimit
		unavail *ErrProviderUnavailable
		inv     *ErrInvalidResponse
		maxTok  *ErrMaxTokensExceeded
	)
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.DeadlineExceeded):
		return "The language model took too long to answer."
	case errors.As(err, &rl):
		if rl.RetryAfter > 0 {
			return fmt.Sprintf("The language model is rate limited. Try again in %s.", rl.RetryAfter.Round(time.Second))
		}
		return "The language model is rate limited. Try again shortly."
	case errors.As(err, &unavail):
		return "The language model could not be reached."
	case errors.As(err, &maxTok):
		return "The model's reply was cut off before it finished."
	case errors.As(err, &inv):
		switch inv.Purpose {
		case PurposeJudge:
			return "The answer check came back malformed."
		case PurposeQuestion:
			return "The generated question came back malformed."
		}
		return "The model's reply came back malformed."
	}
	return err.Error()
}

// retryAfter reads a Retry-After header given in seconds or as an HTTP date.
// Missing or unparsable values yield zero, leaving backoff to the retry
// decorator.
func retryAfter(resp *http.Response) time.Duration {
	if resp == nil {
		return 0
	}
	v := resp.Header.Get("Retry-After")
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(v); err == nil {
		if d := time.Until(at); d > 0 {
			return d
		}
	}
	return 0
}
