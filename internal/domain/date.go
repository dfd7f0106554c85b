package domain

import (
	"fmt"
	"time"
)

// dateLayout is the wire and storage format for civil dates.
const dateLayout = "2006-01-02"

// Date is a civil date in ISO form ("2024-06-10"), without a time zone.
// ISO dates compare lexicographically in chronological order, so Date values
// can be used directly as map keys and in range filters.
type Date string

// ParseDate validates and normalizes an ISO date string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date(t.Format(dateLayout)), nil
}

// DateOf converts a time.Time to the civil date of its location.
func DateOf(t time.Time) Date {
	return Date(t.Format(dateLayout))
}

func (d Date) String() string { return string(d) }

// Time returns the date at midnight UTC.
func (d Date) Time() time.Time {
	t, _ := time.Parse(dateLayout, string(d))
	return t
}

// AddDays returns the date shifted by n calendar days (n may be negative).
func (d Date) AddDays(n int) Date {
	return DateOf(d.Time().AddDate(0, 0, n))
}

// StartOfWeek returns the Monday of the week containing d.
func (d Date) StartOfWeek() Date {
	t := d.Time()
	// time.Weekday counts Sunday as 0; shift so Monday is the anchor.
	offset := (int(t.Weekday()) + 6) % 7
	return d.AddDays(-offset)
}

// Before reports whether d is strictly earlier than other.
func (d Date) Before(other Date) bool { return string(d) < string(other) }

// After reports whether d is strictly later than other.
func (d Date) After(other Date) bool { return string(d) > string(other) }

// WithinRange reports whether start <= d <= end.
func (d Date) WithinRange(start, end Date) bool {
	return !d.Before(start) && !d.After(end)
}
