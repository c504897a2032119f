package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"
)

func TestTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"canceled", context.Canceled, false},
		{"deadline", fmt.Errorf("judge: %w", context.DeadlineExceeded), false},
		{"max tokens", &ErrMaxTokensExceeded{}, false},
		{"rate limit", &ErrRateLimit{Err: errors.New("429")}, true},
		{"unavailable", &ErrProviderUnavailable{}, true},
		{"invalid", &ErrInvalidResponse{Err: errors.New("bad")}, true},
		{"network", errors.New("connection reset"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Transient(tt.err); got != tt.want {
				t.Errorf("Transient(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"deadline", fmt.Errorf("judge: %w", context.DeadlineExceeded), "took too long"},
		{"rate limit with wait", &ErrRateLimit{RetryAfter: 20 * time.Second, Err: errors.New("429")}, "Try again in 20s"},
		{"rate limit", &ErrRateLimit{Err: errors.New("429")}, "Try again shortly"},
		{"unavailable", fmt.Errorf("LLM judge failed: %w", &ErrProviderUnavailable{}), "could not be reached"},
		{"truncated", &ErrMaxTokensExceeded{}, "cut off"},
		{"judge", &ErrInvalidResponse{Purpose: PurposeJudge, Err: errors.New("x")}, "answer check"},
		{"question", &ErrInvalidResponse{Purpose: PurposeQuestion, Err: errors.New("x")}, "generated question"},
		{"other", errors.New("disk full"), "disk full"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Describe(tt.err)
			if tt.want == "" {
				if got != "" {
					t.Errorf("Describe(nil) = %q", got)
				}
				return
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("Describe() = %q, want it to contain %q", got, tt.want)
			}
		})
	}
}

func TestInvalidResponseNamesPurpose(t *testing.T) {
	err := &ErrInvalidResponse{Purpose: PurposeJudge, Err: errors.New("meaningfulness \"some\"")}
	if !strings.HasPrefix(err.Error(), "invalid judge response") {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestRetryAfter(t *testing.T) {
	withHeader := func(v string) *http.Response {
		h := http.Header{}
		if v != "" {
			h.Set("Retry-After", v)
		}
		return &http.Response{Header: h}
	}

	if got := retryAfter(nil); got != 0 {
		t.Errorf("nil response = %s", got)
	}
	if got := retryAfter(withHeader("")); got != 0 {
		t.Errorf("missing header = %s", got)
	}
	if got := retryAfter(withHeader("12")); got != 12*time.Second {
		t.Errorf("seconds = %s, want 12s", got)
	}
	if got := retryAfter(withHeader("soon")); got != 0 {
		t.Errorf("garbage = %s", got)
	}
	future := time.Now().Add(time.Minute).UTC().Format(http.TimeFormat)
	if got := retryAfter(withHeader(future)); got <= 0 || got > time.Minute {
		t.Errorf("http date = %s", got)
	}
}
