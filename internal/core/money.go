// Package core holds the ledger model: entries, the ordered ledger and the
// summary derived from it.
//
// This file contains amount parsing and formatting.
package core

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// maxAmountExponent bounds the decimal exponent of a stored amount in both
// directions. Rescaling to two places costs time linear in the exponent.
const maxAmountExponent = 30

// ParseAmount converts user text into an exact decimal amount.
//
// Any text accepted as a floating-point number is valid, including a sign and
// exponent notation. Surrounding whitespace is ignored. NaN and infinities are
// rejected since they cannot be summed as money, as are values whose decimal
// exponent lies outside ±maxAmountExponent (e.g. "0e2000000000"). The stored
// value keeps the magnitude and sign as entered.
//
// Examples:
//
//	ParseAmount("1000")   -> 1000, nil
//	ParseAmount(" 12.5 ") -> 12.5, nil
//	ParseAmount("1e3")    -> 1000, nil
//	ParseAmount("abc")    -> 0, ErrInvalidAmount
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero, ErrInvalidAmount
	}
	// Prefer the exact textual value; hex floats and other forms only the
	// float parser understands fall back to the binary value.
	d, err := decimal.NewFromString(s)
	if err != nil {
		d = decimal.NewFromFloat(f)
	}
	if exp := d.Exponent(); exp > maxAmountExponent || exp < -maxAmountExponent {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// FormatAmount renders an amount with two decimals, e.g. "1000.00" or "-200.00".
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// FormatDollars renders an amount prefixed with "$", e.g. "$1000.00".
func FormatDollars(d decimal.Decimal) string {
	return "$" + FormatAmount(d)
}
