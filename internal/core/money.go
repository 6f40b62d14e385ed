// Package core provides money parsing and handling utilities.
//
// This file contains functions for parsing monetary amounts from strings
// and formatting them for storage and display.
package core

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// moneyPlaces is the number of fractional digits kept for every amount.
const moneyPlaces = 2

// Money is a non-negative currency amount with two fractional digits.
type Money struct {
	decimal.Decimal
}

// NewMoney rounds d to two places.
func NewMoney(d decimal.Decimal) Money {
	return Money{Decimal: d.Round(moneyPlaces)}
}

// MoneyFromCents builds an amount from an integer number of cents.
func MoneyFromCents(cents int64) Money {
	return Money{Decimal: decimal.New(cents, -moneyPlaces)}
}

// ParseAmount converts a decimal string to Money with half-up rounding.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and
// rounds on the third decimal place. Zero is a valid amount; signs,
// exponents and anything that is not plain digits are rejected.
//
// Examples:
//
//	ParseAmount("12.34")  -> 12.34, nil
//	ParseAmount("12,34")  -> 12.34, nil
//	ParseAmount("12.345") -> 12.35, nil (rounds up)
//	ParseAmount("-1")     -> error
func ParseAmount(s string) (Money, error) {
	raw := s
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, invalidAmount(raw)
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return Money{}, invalidAmount(raw)
	}
	if parts[0] == "" && (len(parts) == 1 || parts[1] == "") {
		return Money{}, invalidAmount(raw)
	}
	for _, part := range parts {
		for _, r := range part {
			if r < '0' || r > '9' {
				return Money{}, invalidAmount(raw)
			}
		}
	}
	intPart := parts[0]
	if intPart == "" {
		intPart = "0"
	}
	s = intPart
	if len(parts) == 2 && parts[1] != "" {
		s += "." + parts[1]
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, invalidAmount(raw)
	}
	return NewMoney(d), nil
}

func invalidAmount(v string) error {
	return &ValidationError{Field: "amount", Reason: "must be a non-negative number", Value: v}
}

// Validate rejects negative amounts.
func (m Money) Validate() error {
	if m.Decimal.IsNegative() {
		return ErrInvalidAmount
	}
	return nil
}

// Add returns m + o.
func (m Money) Add(o Money) Money {
	return Money{Decimal: m.Decimal.Add(o.Decimal)}
}

// Equal compares amounts by value, ignoring representation.
func (m Money) Equal(o Money) bool {
	return m.Decimal.Equal(o.Decimal)
}

// String returns the fixed two-decimal form used on disk, e.g. "12.50".
func (m Money) String() string {
	return m.Decimal.StringFixed(moneyPlaces)
}

// Float64 returns the amount as a float64 for charts.
// Use Money for calculations to avoid floating-point precision issues.
func (m Money) Float64() float64 {
	f, _ := m.Decimal.Float64()
	return f
}

// MarshalJSON encodes the amount as a JSON number with two decimals.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts both numbers and quoted strings.
func (m *Money) UnmarshalJSON(data []byte) error {
	var s json.Number
	if err := json.Unmarshal(data, &s); err != nil {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return invalidAmount(string(data))
		}
		s = json.Number(str)
	}
	parsed, err := ParseAmount(s.String())
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// MarshalYAML renders the amount as its fixed two-decimal string.
func (m Money) MarshalYAML() (any, error) {
	return m.String(), nil
}
