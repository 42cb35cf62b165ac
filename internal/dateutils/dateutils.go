// Package dateutils provides tolerant parsing of the free-form date strings
// found in bank exports. Dates are day-first: "03.04.2025" is 3 April.
package dateutils

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Common date format constants used throughout the application
const (
	DateLayoutISO      = "2006-01-02"
	DateLayoutSwiss    = "02.01.2006"
	DateLayoutFull     = "2006-01-02 15:04:05"
	DateLayoutISOTime  = "2006-01-02T15:04:05"
	DateLayoutSlash    = "02/01/2006"
	DateLayoutWithName = "2-Jan-2006"
	DateLayoutMonth    = "2006-01"
)

// CommonFormats is the ordered list of layouts tried by ParseDate. The first
// layout that parses wins; month-first layouts are deliberately absent.
var CommonFormats = []string{
	DateLayoutISO,
	DateLayoutSwiss,
	DateLayoutFull,
	DateLayoutISOTime,
	time.RFC3339,
	"2006-01-02 15:04",
	"02.01.2006 15:04:05",
	"02.01.2006 15:04",
	"2.1.2006",
	"02.01.06",
	DateLayoutSlash,
	"2/1/2006",
	"02-01-2006",
	"2006/01/02",
	DateLayoutWithName,
	"02 Jan 2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

var spaceRun = regexp.MustCompile(`\s+`)

// ParseDate attempts to parse a date string using CommonFormats.
// Returns the parsed time and the matching layout.
func ParseDate(dateStr string) (time.Time, string, error) {
	dateStr = CleanDateString(dateStr)
	if dateStr == "" {
		return time.Time{}, "", fmt.Errorf("unable to parse date: empty string")
	}

	for _, format := range CommonFormats {
		if t, err := time.Parse(format, dateStr); err == nil {
			return t, format, nil
		}
	}

	return time.Time{}, "", fmt.Errorf("unable to parse date: %s", dateStr)
}

// NormalizeDate rewrites a parseable date as YYYY-MM-DD and returns any other
// input unchanged.
func NormalizeDate(dateStr string) string {
	t, _, err := ParseDate(dateStr)
	if err != nil {
		return strings.TrimSpace(dateStr)
	}
	return ToISODate(t)
}

// ToISODate formats a time.Time value as an ISO date (YYYY-MM-DD)
func ToISODate(date time.Time) string {
	return date.Format(DateLayoutISO)
}

// ParseMonth parses a YYYY-MM month as its first day.
func ParseMonth(s string) (time.Time, error) {
	return time.Parse(DateLayoutMonth, CleanDateString(s))
}

// MonthKey formats a date as YYYY-MM for monthly aggregation.
func MonthKey(date time.Time) string {
	return date.Format(DateLayoutMonth)
}

// CleanDateString trims and collapses whitespace.
func CleanDateString(dateStr string) string {
	return spaceRun.ReplaceAllString(strings.TrimSpace(dateStr), " ")
}

// StartOfMonth returns the first day of the month for a given date
func StartOfMonth(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, date.Location())
}

// EndOfMonth returns the last day of the month for a given date
func EndOfMonth(date time.Time) time.Time {
	return StartOfMonth(date).AddDate(0, 1, -1)
}

// InRange reports whether date lies within [from, to], ignoring time of day.
// A zero bound is open.
func InRange(date, from, to time.Time) bool {
	d := truncateDay(date)
	if !from.IsZero() && d.Before(truncateDay(from)) {
		return false
	}
	if !to.IsZero() && d.After(truncateDay(to)) {
		return false
	}
	return true
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
