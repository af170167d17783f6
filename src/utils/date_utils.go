package utils

import (
	"fmt"
	"time"
)

// MonthRange returns the first and last day of the given month, at UTC
// midnight. Declaration runs always cover whole calendar months.
func MonthRange(year, month int) (time.Time, time.Time, error) {
	if month < 1 || month > 12 {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid month: %d", month)
	}
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, 0).AddDate(0, 0, -1)
	return first, last, nil
}
