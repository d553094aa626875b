package model

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateFormat is the ISO date layout used in every book file.
const DateFormat = "2006-01-02"

var (
	// ErrNonFinite indicates a NaN or infinite monetary input.
	ErrNonFinite = errors.New("model: amount is not a finite number")
	// ErrEmptyAmount indicates a blank monetary input.
	ErrEmptyAmount = errors.New("model: amount is empty")
)

// AmountFromFloat converts a float to a decimal, rejecting NaN and ±Inf.
func AmountFromFloat(f float64) (decimal.Decimal, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero, fmt.Errorf("%w: %v", ErrNonFinite, f)
	}
	return decimal.NewFromFloat(f), nil
}

// ParseAmount parses a monetary string. Blank or non-numeric input is an
// error; it is never coerced to zero.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrEmptyAmount
	}
	switch strings.ToLower(strings.TrimLeft(s, "+-")) {
	case "nan", "inf", "infinity":
		return decimal.Zero, fmt.Errorf("%w: %q", ErrNonFinite, s)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing amount %q: %w", s, err)
	}
	return d, nil
}

// ParseOptionalAmount parses s, treating a blank string as zero. Used for
// CSV columns where an empty cell means "no amount on this side".
func ParseOptionalAmount(s string) (decimal.Decimal, error) {
	if strings.TrimSpace(s) == "" {
		return decimal.Zero, nil
	}
	return ParseAmount(s)
}

// ParseDate parses an ISO date. RFC3339 timestamps are accepted too.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateFormat, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q: %w", s, err)
	}
	return t, nil
}

// CalendarDay truncates t to its calendar date in its own location,
// dropping time-of-day.
func CalendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
