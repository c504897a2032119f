package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func retryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: time.Millisecond,
		MaxWait:     10 * time.Millisecond,
		Multiplier:  2.0,
	}
}

var verdictJSON = json.RawMessage(`{"fluent":true,"feedback":"自然。"}`)

func down() MockResponse {
	return MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("503")}}
}

func malformed() MockResponse {
	return MockResponse{Err: &ErrInvalidResponse{Purpose: PurposeJudge, Content: json.RawMessage(`{"fluent":`), Err: errors.New("unexpected end")}}
}

func TestRetry(t *testing.T) {
	ok := MockResponse{Content: verdictJSON}

	tests := []struct {
		name      string
		script    []MockResponse
		cfg       RetryConfig
		wantCalls int
		wantErr   any
	}{
		{"first attempt", []MockResponse{ok}, retryConfig(), 1, nil},
		{"outage then success", []MockResponse{down(), ok}, retryConfig(), 2, nil},
		{"rate limit honours retry-after", []MockResponse{
			{Err: &ErrRateLimit{RetryAfter: time.Millisecond, Err: errors.New("429")}}, ok,
		}, retryConfig(), 2, nil},
		{"every attempt down", []MockResponse{down(), down(), down(), ok}, retryConfig(), 3, new(*ErrProviderUnavailable)},
		{"truncation is final", []MockResponse{
			{Content: json.RawMessage(`{"fluent":tr`), StopReason: "max_tokens"}, ok,
		}, retryConfig(), 1, new(*ErrMaxTokensExceeded)},
		{"malformed resampled once", []MockResponse{malformed(), malformed(), ok}, retryConfig(), 2, new(*ErrInvalidResponse)},
		{"malformed then outage then ok", []MockResponse{malformed(), down(), ok}, retryConfig(), 3, nil},
		{"zero attempts still calls", []MockResponse{down(), ok}, RetryConfig{}, 1, new(*ErrProviderUnavailable)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockProvider(tt.script...)
			resp, err := WithRetry(mock, tt.cfg).Generate(context.Background(), Request{})

			if got := mock.CallCount(); got != tt.wantCalls {
				t.Errorf("calls = %d, want %d", got, tt.wantCalls)
			}
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if string(resp.Content) != string(verdictJSON) {
					t.Errorf("content = %s", resp.Content)
				}
				return
			}
			if !errors.As(err, tt.wantErr) {
				t.Fatalf("error = %v, want %T", err, tt.wantErr)
			}
		})
	}
}

func TestRetry_CancelledContext(t *testing.T) {
	mock := NewMockProvider(down(), down(), MockResponse{Content: verdictJSON})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := WithRetry(mock, retryConfig()).Generate(ctx, Request{})
	if err == nil {
		t.Fatal("expected error")
	}
	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call, got %d", mock.CallCount())
	}
}

func TestRetry_StopsWhenBackoffOutlivesDeadline(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrRateLimit{RetryAfter: time.Minute, Err: errors.New("429")}},
		MockResponse{Content: verdictJSON},
	)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := WithRetry(mock, retryConfig()).Generate(ctx, Request{})
	var rl *ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("expected the rate limit error, got: %v", err)
	}
	if time.Since(start) > 40*time.Millisecond {
		t.Fatal("retry slept toward a deadline it could not meet")
	}
	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call, got %d", mock.CallCount())
	}
}

func TestRetry_WaitGrowsAndCaps(t *testing.T) {
	r := &RetryProvider{config: RetryConfig{InitialWait: 100 * time.Millisecond, MaxWait: 300 * time.Millisecond, Multiplier: 2}}
	err := errors.New("boom")

	within := func(d, want time.Duration) bool {
		return d >= want*8/10 && d <= want*12/10
	}
	if d := r.wait(1, err); !within(d, 100*time.Millisecond) {
		t.Errorf("attempt 1 wait = %s", d)
	}
	if d := r.wait(2, err); !within(d, 200*time.Millisecond) {
		t.Errorf("attempt 2 wait = %s", d)
	}
	if d := r.wait(5, err); !within(d, 300*time.Millisecond) {
		t.Errorf("attempt 5 wait = %s, want capped near 300ms", d)
	}
	if d := r.wait(1, &ErrRateLimit{RetryAfter: 7 * time.Second}); d != 7*time.Second {
		t.Errorf("retry-after wait = %s", d)
	}
}

func TestRetry_ModelIDDelegates(t *testing.T) {
	if got := WithRetry(NewMockProvider(), retryConfig()).ModelID(); got != "mock" {
		t.Fatalf("expected 'mock', got %q", got)
	}
}
