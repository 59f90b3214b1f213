package sqlite

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
)

// HumanizeDateRange renders a report date range the way it is shown in
// Discord, e.g. "August 18th to August 24th" or "December 29th, 2025 to
// January 4th, 2026" across a year boundary.
func HumanizeDateRange(start, end time.Time) string {
	if start.Year() == end.Year() {
		return fmt.Sprintf("%s %s to %s %s",
			start.Month(), humanize.Ordinal(start.Day()),
			end.Month(), humanize.Ordinal(end.Day()))
	}
	return fmt.Sprintf("%s %s, %d to %s %s, %d",
		start.Month(), humanize.Ordinal(start.Day()), start.Year(),
		end.Month(), humanize.Ordinal(end.Day()), end.Year())
}
