package store

import (
	"context"
	"time"

	"github.com/abhisek/vocabdrill/internal/vocab"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// TrackEventFilter narrows a track history query.
type TrackEventFilter struct {
	ItemID   string         // empty = all items
	Language vocab.Language // empty = all languages
	QueryOpts
}

// TrackEvent is one committed track mutation.
type TrackEvent struct {
	ID         int
	Sequence   int64
	Timestamp  time.Time
	ItemID     string
	Language   vocab.Language
	Kind       vocab.ChangeKind
	Reason     string
	RequestKey string
	Before     vocab.Track
	After      vocab.Track
}

// LLMEventFilter narrows an LLM event query.
type LLMEventFilter struct {
	Purpose string // empty = all purposes
	ItemID  string // empty = all items
	QueryOpts
}

// LLMRequestEventData captures the data for a single LLM request event.
// ItemID and Language name the word being practised when the call was made
// for one.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	ItemID       string
	Language     vocab.Language
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEvent is a stored LLM request event.
type LLMRequestEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsage aggregates LLM calls by purpose or by model.
type LLMUsage struct {
	Purpose      string
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// EventRepo provides append and query access to domain events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns LLM events, newest first.
	QueryLLMEvents(ctx context.Context, filter LLMEventFilter) ([]LLMRequestEvent, error)

	// GetLLMEvent returns one LLM event, or nil if it does not exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEvent, error)

	// LLMUsageByPurpose aggregates token usage per purpose.
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error)

	// LLMUsageByModel aggregates token usage per model.
	LLMUsageByModel(ctx context.Context) ([]LLMUsage, error)

	// QueryTrackEvents returns track mutations, newest first.
	QueryTrackEvents(ctx context.Context, filter TrackEventFilter) ([]TrackEvent, error)
}
