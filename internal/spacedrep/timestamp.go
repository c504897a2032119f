package spacedrep

import (
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/vocabdrill/internal/vocab"
)

// zoned layouts carry their own offset; naive layouts are read as UTC.
var (
	zonedLayouts = []string{
		time.RFC3339Nano,
		"2006-01-02T15:04Z07:00",
		"2006-01-02 15:04:05Z07:00",
	}
	naiveLayouts = []string{
		"2006-01-02T15:04:05.999999999",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05.999999999",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04",
		"2006-01-02 15:04",
	}
)

// ParseTimestamp parses an ISO 8601 timestamp. Strings without a zone
// offset are taken as UTC. The result is UTC, truncated to whole seconds.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty timestamp", vocab.ErrInvalidArgument)
	}
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return *vocab.DueAt(t), nil
		}
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return *vocab.DueAt(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unparsable timestamp %q", vocab.ErrInvalidArgument, s)
}
