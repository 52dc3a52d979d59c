// Package normalize coerces spreadsheet-originated text into numbers and
// dates. Ledger exports are inconsistent: amounts arrive with thousands
// separators, currency symbols, parenthesized or trailing-minus negatives;
// dates arrive either as ISO strings or as long locale timestamps. All
// interpretation happens here so every catalogue operation applies one
// policy: values that fail to normalize are excluded from aggregates and
// filters, never silently zeroed.
package normalize

import (
	"strconv"
	"strings"
	"time"
)

var currencySymbols = []string{"₹", "$", "€", "£"}

// Amount parses a raw amount cell into a float. ok is false for empty or
// non-numeric text; callers must skip such rows rather than treat them as 0.
//
//	"1,234.50"  -> 1234.5
//	"₹1,234.50" -> 1234.5
//	"(500)"     -> -500
//	"500-"      -> -500
func Amount(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}

	s = strings.ReplaceAll(s, ",", "")
	for _, sym := range currencySymbols {
		s = strings.ReplaceAll(s, sym, "")
	}
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return 0, false
	}

	// Trailing minus: "500-" means -500.
	if strings.HasSuffix(s, "-") && len(s) > 1 {
		s = "-" + s[:len(s)-1]
	}

	// Parenthesized negative: "(500)" means -500.
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") && len(s) > 2 {
		s = "-" + s[1:len(s)-1]
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// longDatePrefixLen is the length of "Mon Jan 02 2006 15:04:05" in the locale
// timestamp format "Sun Nov 30 2025 05:30:00 GMT+0530 (India Standard Time)".
const longDatePrefixLen = 24

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"Mon Jan 2 2006 15:04:05",
}

// Date parses a raw date cell. Accepts ISO dates and the long locale
// timestamp the spreadsheet exporter emits. ok is false for anything else;
// invalid dates are excluded from range filters and trend buckets, never
// defaulted to now or a zero date.
func Date(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}

	candidate := s
	if len(candidate) > longDatePrefixLen {
		// Strip timezone suffix from locale timestamps before layout matching.
		if t, err := time.Parse("Mon Jan 2 2006 15:04:05", strings.TrimSpace(candidate[:longDatePrefixLen])); err == nil {
			return t, true
		}
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, candidate); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Month returns the "YYYY-MM" bucket for a raw date cell.
func Month(raw string) (string, bool) {
	t, ok := Date(raw)
	if !ok {
		return "", false
	}
	return t.Format("2006-01"), true
}

// Key upper-cases and trims a text value so vendor and entry-type strings
// group and compare case-insensitively.
func Key(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}
