package utils

import "time"

// Carrier and display date layouts
const (
	EventDateLayout = "2006-01-02 15:04"
	ETADateLayout   = "2006-01-02"
	DisplayLayout   = "02-01-2006 15:04"
	DisplayDate     = "02-01-2006"
)

// ParseEventDate parses a carrier event timestamp. Empty or malformed
// values come back as the zero time, mirroring how the carrier omits
// dates for some events.
func ParseEventDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(EventDateLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// ParseETADate parses a user-supplied requested ETA. The "-" sentinel
// and malformed input yield nil.
func ParseETADate(s string) *time.Time {
	if s == "" || s == "-" {
		return nil
	}
	t, err := time.Parse(ETADateLayout, s)
	if err != nil {
		return nil
	}
	return &t
}

// FormatDisplayTime renders a timestamp for dashboard output, "-" for
// the zero time.
func FormatDisplayTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(DisplayLayout)
}

// FormatDisplayDate renders a date-only value for dashboard output.
func FormatDisplayDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(DisplayDate)
}
