// Package amount converts token amounts between decimal display strings
// and integer base units. Base units are the only transport form; display
// conversion happens at the UI boundary using the asset's declared
// decimals, never a hardcoded constant.
package amount

import (
	"math/big"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/panoramablock/rwasync/internal/domain/entity"
)

// ToBaseUnits converts a decimal amount string to integer base units for
// the given number of decimals. Fractional digits beyond the asset's
// precision are rejected rather than truncated.
func ToBaseUnits(s string, decimals int32) (*big.Int, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil, &entity.ValidationError{Field: "amount", Message: "empty amount"}
	}

	d, err := decimal.NewFromString(trimmed)
	if err != nil {
		return nil, &entity.ValidationError{Field: "amount", Message: "not a number: " + trimmed}
	}
	if d.Sign() < 0 {
		return nil, &entity.ValidationError{Field: "amount", Message: "negative amount"}
	}
	if -d.Exponent() > decimals {
		scaled := d.Shift(decimals)
		if !scaled.IsInteger() {
			return nil, &entity.ValidationError{Field: "amount", Message: "too many decimal places"}
		}
	}

	return d.Shift(decimals).BigInt(), nil
}

// ToDisplayUnits converts integer base units back to a decimal string,
// trimming trailing zeros.
func ToDisplayUnits(base *big.Int, decimals int32) string {
	if base == nil {
		return "0"
	}
	return decimal.NewFromBigInt(base, -decimals).String()
}

// RequirePositive rejects zero amounts on top of ToBaseUnits validation.
// Mutations use it; read-side formatting does not.
func RequirePositive(base *big.Int) error {
	if base.Sign() <= 0 {
		return &entity.ValidationError{Field: "amount", Message: "amount must be positive"}
	}
	return nil
}
