package utils

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the wire format for civil dates (query params, JSON seed file).
const DateLayout = "2006-01-02"

// TruncateToDay normalizes a timestamp to midnight UTC, discarding the
// time-of-day and zone components. All overdue math works on civil dates.
func TruncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of whole calendar days from one date to
// another. Negative when to precedes from.
func DaysBetween(from, to time.Time) int {
	from = TruncateToDay(from)
	to = TruncateToDay(to)
	return int(to.Sub(from).Hours() / 24)
}

// ParseDate parses a YYYY-MM-DD civil date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// Round2 rounds a monetary value to 2 decimal places. decimal.Round rounds
// half away from zero, so 0.005 becomes 0.01.
func Round2(v decimal.Decimal) decimal.Decimal {
	return v.Round(2)
}

// DecimalFromFloat converts float64 to decimal.Decimal
func DecimalFromFloat(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

// DecimalFromString converts string to decimal.Decimal
func DecimalFromString(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(s)
}
