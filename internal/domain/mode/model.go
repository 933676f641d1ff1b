package mode

import (
	"strings"
	"time"
)

// IdleLabel is the reserved sentinel mode used for away time.
const IdleLabel = "Idle"

// Mode is a user-chosen activity label with usage statistics.
type Mode struct {
	ID         int64      `json:"id"`
	Label      string     `json:"label"`
	UsageCount int64      `json:"usage_count"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
}

// Normalize trims surrounding whitespace from a label.
func Normalize(label string) string {
	return strings.TrimSpace(label)
}

// IsIdle reports whether label names the idle sentinel, ignoring case.
func IsIdle(label string) bool {
	return strings.EqualFold(Normalize(label), IdleLabel)
}

// Equal compares two labels the way the store does: trimmed and case-insensitive.
func Equal(a, b string) bool {
	return strings.EqualFold(Normalize(a), Normalize(b))
}
