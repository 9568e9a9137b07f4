package utils

import (
	"strconv"
	"strings"
	"time"
)

// ParseInt converts string to int with default value
func ParseInt(value string, defaultValue int) int {
	if value == "" {
		return defaultValue
	}

	result, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	if result < 1 {
		return defaultValue
	}

	return result
}

// ParseOptionalInt64 returns nil for an empty value. ok is false when the
// value is present but not a non-negative integer.
func ParseOptionalInt64(value string) (*int64, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, true
	}

	result, err := strconv.ParseInt(value, 10, 64)
	if err != nil || result < 0 {
		return nil, false
	}
	return &result, true
}

// ParseYear falls back to the current UTC year for empty or out of range input.
func ParseYear(value string) int {
	year, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || year < 1970 || year > 9999 {
		return time.Now().UTC().Year()
	}
	return year
}

// OptionalString trims value and returns nil when nothing is left.
func OptionalString(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}
