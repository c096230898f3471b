package order

import (
	"strings"
	"time"
)

// TimestampLayout is the fixed-width UTC layout of created_at and history dates.
// Fixed width makes lexicographic order equal to chronological order.
const TimestampLayout = "2006-01-02T15:04:05.000000Z"

const sortKeySeparator = "#"

// FormatTimestamp renders t in TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseTimestamp accepts TimestampLayout and RFC 3339 with any fractional precision.
func ParseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(TimestampLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// SortKey builds the composite "<id>#<created_at>" key. Keys sharing an id sort by
// creation time, so one ordered index serves "orders for X, oldest first".
func SortKey(id string, createdAt time.Time) string {
	return id + sortKeySeparator + FormatTimestamp(createdAt)
}

// SortKeyPrefix is the range prefix that selects every key of id.
func SortKeyPrefix(id string) string {
	return id + sortKeySeparator
}

// SplitSortKey returns the id and timestamp parts of a composite key.
func SplitSortKey(key string) (string, string, bool) {
	i := strings.LastIndex(key, sortKeySeparator)
	if i < 0 {
		return "", "", false
	}
	return key[:i], key[i+1:], true
}
