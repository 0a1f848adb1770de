package utils

import "time"

// Store timestamps keep nanosecond precision so a persisted snapshot
// round-trips node creation order exactly.

// FormatTimestamp renders a store timestamp
func FormatTimestamp(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

// ParseTimestamp parses a store timestamp
func ParseTimestamp(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}
