package internal

import (
	"strings"
	"time"
	"unicode"
)

const (
	UnspecifiedStatus = "Unspecified"

	// DefaultDateLayout parses day-month-year dates such as "15-01-2025".
	DefaultDateLayout = "2-1-2006"
)

// NormalizeStatus implements specs.NormalizeStatus.
func NormalizeStatus(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", &DataError{Field: "status", Value: raw, Err: ErrEmptyValue}
	}
	runes := []rune(strings.ToLower(trimmed))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes), nil
}

// statusOf buckets a nullable status. The error is non-nil when the row
// went to the Unspecified bucket.
func statusOf(raw *string) (string, error) {
	if raw == nil {
		return UnspecifiedStatus, &DataError{Field: "status", Err: ErrEmptyValue}
	}
	status, err := NormalizeStatus(*raw)
	if err != nil {
		return UnspecifiedStatus, err
	}
	return status, nil
}

// NormalizeAmount parses a messily formatted monetary amount such as
// "$2,345.67" or "2.345,67".
func NormalizeAmount(raw string) (Decimal, error) {
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == ',' || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}

	canonical, err := canonicalAmount(b.String())
	if err != nil {
		return Decimal{}, &DataError{Field: "amount", Value: raw, Err: err}
	}

	amount, err := NewDecimal(canonical)
	if err != nil {
		return Decimal{}, &DataError{Field: "amount", Value: raw, Err: err}
	}
	return amount, nil
}

// canonicalAmount rewrites a string of digits, separators and signs into
// plain "-1234.56" form.
func canonicalAmount(s string) (string, error) {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign = "-"
		s = s[1:]
	}
	if strings.Contains(s, "-") {
		return "", ErrMisplacedNeg
	}
	if !strings.ContainsAny(s, "0123456789") {
		return "", ErrNoDigits
	}

	dots := strings.Count(s, ".")
	commas := strings.Count(s, ",")

	switch {
	case dots > 0 && commas > 0:
		decimalSep, groupSep := ".", ","
		if strings.LastIndex(s, ",") > strings.LastIndex(s, ".") {
			decimalSep, groupSep = ",", "."
		}
		if strings.Count(s, decimalSep) > 1 {
			return "", ErrMultipleSep
		}
		i := strings.LastIndex(s, decimalSep)
		whole, frac := strings.ReplaceAll(s[:i], groupSep, ""), s[i+1:]
		s = whole + "." + frac
	case commas == 1:
		s = strings.Replace(s, ",", ".", 1)
	case commas > 1:
		if !isGrouped(s, ",") {
			return "", ErrMultipleSep
		}
		s = strings.ReplaceAll(s, ",", "")
	case dots > 1:
		if !isGrouped(s, ".") {
			return "", ErrMultipleSep
		}
		s = strings.ReplaceAll(s, ".", "")
	}

	if strings.HasPrefix(s, ".") {
		s = "0" + s
	}
	s = strings.TrimSuffix(s, ".")
	return sign + s, nil
}

// isGrouped reports whether sep is used as a thousands separator: a leading
// group of 1-3 digits followed by groups of exactly three.
func isGrouped(s, sep string) bool {
	groups := strings.Split(s, sep)
	if len(groups[0]) == 0 || len(groups[0]) > 3 {
		return false
	}
	for _, g := range groups[1:] {
		if len(g) != 3 {
			return false
		}
	}
	return true
}

// NormalizeDate implements specs.NormalizeDate. The result is in UTC.
func NormalizeDate(raw string, layout string) (time.Time, error) {
	if layout == "" {
		layout = DefaultDateLayout
	}
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return time.Time{}, &DataError{Field: "date", Value: raw, Err: ErrEmptyValue}
	}
	t, err := time.ParseInLocation(layout, trimmed, time.UTC)
	if err != nil {
		return time.Time{}, &DataError{Field: "date", Value: raw, Err: err}
	}
	return t, nil
}
