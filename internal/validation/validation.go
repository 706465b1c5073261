// Package validation provides input checks for the scheduling API.
// Requests are rejected here before any storage side effect happens.
package validation

import (
	"strings"
	"time"
)

// Group size bounds. Requested sizes outside the range are clamped, not
// rejected, matching the behavior the UI relies on.
const (
	MinGroupSize = 2
	MaxGroupSize = 15
)

const maxNameLength = 255

// ValidateMonth checks that month is a real YYYY-MM calendar month.
func ValidateMonth(month string) error {
	if month == "" {
		return NewValidationError("month", month, "month is required")
	}
	if _, err := time.Parse("2006-01", month); err != nil {
		return NewValidationError("month", month, "must be a valid month in YYYY-MM format")
	}
	return nil
}

// ValidateDate checks that date is a real YYYY-MM-DD calendar date.
func ValidateDate(date string) error {
	if date == "" {
		return NewValidationError("date", date, "date is required")
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return NewValidationError("date", date, "must be a valid date in YYYY-MM-DD format")
	}
	return nil
}

// ValidateParticipantName checks a roster name.
func ValidateParticipantName(name string) error {
	if strings.TrimSpace(name) == "" {
		return NewValidationError("name", name, "name is required")
	}
	if len(name) > maxNameLength {
		return NewValidationError("name", name, "name is too long")
	}
	return nil
}

// ClampGroupSize forces a requested group size into [MinGroupSize, MaxGroupSize].
func ClampGroupSize(size int) int {
	if size < MinGroupSize {
		return MinGroupSize
	}
	if size > MaxGroupSize {
		return MaxGroupSize
	}
	return size
}
