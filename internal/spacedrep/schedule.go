package spacedrep

import (
	"fmt"
	"time"
)

// SuccessSequence defines the expanding review interval in minutes after
// each consecutive full success: 1h, 4h, 1d, 3d, 7d.
// Index = progress count before the success.
var SuccessSequence = []int{60, 240, 1440, 4320, 10080}

// Retry offsets in minutes for outcomes that reset progress.
const (
	DifficultyOffsetMinutes   = 5
	NotFluentOffsetMinutes    = 15
	MinimalUsageOffsetMinutes = 30
)

// GraduationProgress is the progress count from which the success interval
// is pinned to the last entry of SuccessSequence.
var GraduationProgress = len(SuccessSequence)

// GraduatedIntervalMinutes is the pinned interval for graduated tracks.
func GraduatedIntervalMinutes() int {
	return SuccessSequence[len(SuccessSequence)-1]
}

// Offset converts a minute offset to a duration.
func Offset(minutes int) time.Duration {
	return time.Duration(minutes) * time.Minute
}

// FormatMinutes renders a minute count compactly, e.g. "45m", "4h",
// "1d 2h". Zero or less is "now".
func FormatMinutes(minutes int) string {
	if minutes <= 0 {
		return "now"
	}
	days, rem := minutes/1440, minutes%1440
	hours, mins := rem/60, rem%60
	switch {
	case days > 0 && hours > 0:
		return fmt.Sprintf("%dd %dh", days, hours)
	case days > 0:
		return fmt.Sprintf("%dd", days)
	case hours > 0 && mins > 0:
		return fmt.Sprintf("%dh %dm", hours, mins)
	case hours > 0:
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dm", mins)
}
