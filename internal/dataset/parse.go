package dataset

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// dateFormats are tried in order when parsing date cells. Uploaded
// datasets come from arbitrary exports, so both ISO and the common
// US/European orderings are accepted.
var dateFormats = []string{
	"2006-01-02",          // ISO format
	"2006-01-02 15:04:05", // ISO with time
	"2006-01-02T15:04:05", // ISO 8601
	"2006/01/02",          // Alternative ISO
	"01/02/2006",          // US format
	"02/01/2006",          // European format
	"1/2/2006",            // US, no leading zeros
	"2/1/2006",            // European, no leading zeros
	"01-02-2006",          // US with dashes
	"02-01-2006",          // European with dashes
	"02 Jan 2006",         // Day month-name year
	"Jan 2, 2006",         // Month-name day year
}

// ParseDate attempts to parse a date cell in multiple formats. Time-of-day
// components are truncated so that rows from the same calendar day group
// together downstream.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date value")
	}

	for _, format := range dateFormats {
		if d, err := time.Parse(format, s); err == nil {
			return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse date: %s", s)
}

// ParseNumber coerces a numeric cell to float64. Thousands separators and
// leading currency markers are tolerated since exports frequently include
// them.
func ParseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty numeric value")
	}

	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimLeft(s, "$€£ ")

	value, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse number %q: %w", s, err)
	}

	return value, nil
}
