// Package core holds the domain model of the ledger: entities, closed enum
// types, money arithmetic, and the pure budget math helpers.
package core

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Money is a currency amount in minor units (cents). All arithmetic happens
// on cents; floating point is only used at the display boundary.
type Money struct {
	Cents int64
}

// ParseCents converts a signed decimal string to cents with half-up rounding
// on the third decimal place. Both dot (12.34) and comma (12,34) separators
// are accepted.
//
// Examples:
//
//	ParseCents("12.34")  -> 1234, nil
//	ParseCents("-45,99") -> -4599, nil
//	ParseCents("12.346") -> 1235, nil (rounds up)
func ParseCents(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, &ValidationError{Field: "amount", Reason: "empty amount"}
	}
	s = strings.ReplaceAll(s, ",", ".")

	negative := false
	switch {
	case strings.HasPrefix(s, "-"):
		negative = true
		s = s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}

	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return Money{}, &ValidationError{Field: "amount", Reason: "malformed amount " + strconv.Quote(s)}
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart + fracPart {
		if !unicode.IsDigit(r) {
			return Money{}, &ValidationError{Field: "amount", Reason: "malformed amount " + strconv.Quote(s)}
		}
	}

	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return Money{}, &ValidationError{Field: "amount", Reason: "malformed amount " + strconv.Quote(s)}
	}
	// Guard the *100 below against overflow.
	const maxSafe = (1<<63 - 1) / 100
	if iv > maxSafe {
		return Money{}, &ValidationError{Field: "amount", Reason: "amount out of range"}
	}

	// First two fractional digits are cents; half-up rounding on the third.
	var fracCents int64
	if len(fracPart) > 0 {
		fracCents = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			fracCents += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}

	cents := iv*100 + fracCents
	if negative {
		cents = -cents
	}
	return Money{Cents: cents}, nil
}

// Cents constructs a Money value from raw minor units.
func CentsOf(cents int64) Money {
	return Money{Cents: cents}
}

func (m Money) Add(other Money) Money {
	return Money{Cents: m.Cents + other.Cents}
}

func (m Money) Sub(other Money) Money {
	return Money{Cents: m.Cents - other.Cents}
}

func (m Money) Neg() Money {
	return Money{Cents: -m.Cents}
}

func (m Money) Abs() Money {
	if m.Cents < 0 {
		return Money{Cents: -m.Cents}
	}
	return m
}

func (m Money) IsZero() bool {
	return m.Cents == 0
}

func (m Money) IsNegative() bool {
	return m.Cents < 0
}

// Units returns the major-unit value as a float64 for display purposes.
// Use cents for calculations to avoid floating-point precision issues.
func (m Money) Units() float64 {
	return float64(m.Cents) / 100.0
}

// String renders the amount as a plain decimal, e.g. "-45.99".
func (m Money) String() string {
	cents := m.Cents
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
