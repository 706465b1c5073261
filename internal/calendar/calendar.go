// Package calendar computes the meetup dates of a month.
package calendar

import (
	"fmt"
	"time"

	"github.com/lanchinho/scheduler/internal/domain"
)

// Fridays returns every Friday of the given month in ascending order.
// Dates are date-only values in UTC.
func Fridays(year, month int) ([]time.Time, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("%w: month must be between 1 and 12, got %d", domain.ErrInvalidInput, month)
	}

	day := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	day = day.AddDate(0, 0, (int(time.Friday)-int(day.Weekday())+7)%7)

	var fridays []time.Time
	for day.Month() == time.Month(month) {
		fridays = append(fridays, day)
		day = day.AddDate(0, 0, 7)
	}
	return fridays, nil
}
