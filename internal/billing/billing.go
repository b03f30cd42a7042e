// Package billing holds the metered-chat pricing arithmetic. All currency
// amounts produced here are rounded half-up to two decimals; the same rule
// applies to displayed running costs and to settled totals.
package billing

import (
	"fmt"
	"math"
	"time"
)

// RoundCents rounds an amount half-up to two decimal places.
func RoundCents(amount float64) float64 {
	return math.Round(amount*100) / 100
}

// Cost derives the charge for an elapsed duration at the given hourly rate.
func Cost(elapsed time.Duration, hourlyRate float64) float64 {
	return RoundCents(elapsed.Seconds() / 3600 * hourlyRate)
}

// CostSeconds is Cost for a whole number of elapsed seconds.
func CostSeconds(seconds int64, hourlyRate float64) float64 {
	return RoundCents(float64(seconds) / 3600 * hourlyRate)
}

// FormatTime renders a non-negative number of seconds as zero-padded
// HH:MM:SS.
func FormatTime(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, secs)
}

// FormatDuration renders a duration as zero-padded HH:MM:SS, truncating
// sub-second precision.
func FormatDuration(d time.Duration) string {
	return FormatTime(int64(d.Seconds()))
}
