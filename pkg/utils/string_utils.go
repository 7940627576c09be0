package utils

import (
	"strings"
	"time"
)

// DateLayout is the date-only format stored on client records.
const DateLayout = "2006-01-02"

// NewNullString is a helper for string pointers, returning nil if string is empty.
func NewNullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// dateInputLayouts are the forms DateOnly accepts, tried in order.
var dateInputLayouts = []string{
	DateLayout,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// DateOnly reduces a date or timestamp to its calendar date, so
// "2024-03-01T10:00:00Z" becomes "2024-03-01". The date is the one written in
// the input, not converted to UTC. Anything unparsable yields "".
func DateOnly(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	for _, layout := range dateInputLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(DateLayout)
		}
	}
	return ""
}

// Today returns now as a UTC date-only string.
func Today(now time.Time) string {
	return now.UTC().Format(DateLayout)
}

// ContainsFold reports whether substr is within s, ignoring case.
func ContainsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
