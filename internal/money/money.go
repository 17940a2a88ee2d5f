// Package money keeps all amount arithmetic in int64 minor currency units
// (paise). Decimal strings exist only at the API boundary.
package money

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount  = errors.New("invalid_amount")
	ErrNegativeAmount = errors.New("negative_amount")
)

const minorUnitsPerMajor = 100

// ParseMinor converts a decimal amount string ("25.00") to minor units (2500).
// Amounts with more than two fractional digits are rejected, not rounded.
func ParseMinor(value string) (int64, error) {
	dec, err := decimal.NewFromString(value)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	return fromDecimal(dec)
}

// FromDecimal converts a decimal amount to minor units.
func FromDecimal(dec decimal.Decimal) (int64, error) {
	return fromDecimal(dec)
}

func fromDecimal(dec decimal.Decimal) (int64, error) {
	scaled := dec.Mul(decimal.NewFromInt(minorUnitsPerMajor))
	if !scaled.IsInteger() {
		return 0, ErrInvalidAmount
	}
	if !scaled.BigInt().IsInt64() {
		return 0, ErrInvalidAmount
	}
	return scaled.IntPart(), nil
}

// ParsePositiveMinor is ParseMinor restricted to amounts > 0.
func ParsePositiveMinor(value string) (int64, error) {
	minor, err := ParseMinor(value)
	if err != nil {
		return 0, err
	}
	if minor <= 0 {
		return 0, ErrNegativeAmount
	}
	return minor, nil
}

// FormatMinor renders minor units as a decimal string with two places.
func FormatMinor(minor int64) string {
	return decimal.New(minor, -2).StringFixed(2)
}

// MulQty multiplies a unit price by a quantity, guarding against overflow.
func MulQty(unitPrice int64, qty int) (int64, error) {
	if qty <= 0 {
		return 0, fmt.Errorf("%w: quantity must be positive", ErrInvalidAmount)
	}
	total := unitPrice * int64(qty)
	if unitPrice != 0 && total/unitPrice != int64(qty) {
		return 0, ErrInvalidAmount
	}
	return total, nil
}
