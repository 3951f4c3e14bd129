// utils/coerce.go
package utils

import (
	"strconv"
	"strings"
	"time"
)

// CoerceFloat converts a sheet cell to a float64, returning 0 for
// anything that does not parse. Currency symbols and thousands
// separators are stripped first; dirty cells must never poison an
// aggregation.
func CoerceFloat(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimPrefix(s, "₹")
	value, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return value
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"02/01/2006",
	"2006/01/02",
	time.RFC3339,
}

// CoerceDate parses a sheet date cell in the given location, returning
// the zero time when no layout matches. Callers treat the zero time as
// "unaggregatable": the row is kept but excluded from every sum.
func CoerceDate(s string, loc *time.Location) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t
		}
	}
	return time.Time{}
}

// NormalizeColumnName lower-cases and trims a sheet header cell so
// lookups survive the casing drift between sheet revisions.
func NormalizeColumnName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizeEmployeeCode trims surrounding whitespace. Comparison stays
// case-sensitive; codes are issued upper-case and a case fold would
// mask data-entry problems instead of surfacing them.
func NormalizeEmployeeCode(s string) string {
	return strings.TrimSpace(s)
}
