package codec

import (
	// Local Packages
	errors "paybot-console/errors"

	// External Packages
	"github.com/shopspring/decimal"
)

// DefaultTokenDecimal is used when a transfer carries no tokenDecimal.
const DefaultTokenDecimal = 18

const fractionDigits = 6

// maxTokenDecimal bounds the scale; larger values are treated as unreadable.
const maxTokenDecimal = 77

// DecodeAmount renders a fixed-point integer string scaled by 10^tokenDecimal with exactly
// six fractional digits.
func DecodeAmount(value string, tokenDecimal int32) (string, error) {
	if value == "" {
		return decimal.Zero.StringFixed(fractionDigits), nil
	}

	raw, err := decimal.NewFromString(value)
	if err != nil {
		return "", errors.E(errors.Invalid, "malformed token amount "+value, err)
	}
	if !raw.Equal(raw.Truncate(0)) {
		return "", errors.E(errors.Invalid, "token amount is not an integer: "+value, nil)
	}
	return raw.Shift(-tokenDecimal).StringFixed(fractionDigits), nil
}

// ParseTokenDecimal reads a tokenDecimal field, falling back to DefaultTokenDecimal when absent
// or unreadable.
func ParseTokenDecimal(raw string) int32 {
	if raw == "" {
		return DefaultTokenDecimal
	}
	d, err := decimal.NewFromString(raw)
	if err != nil || d.IsNegative() || d.GreaterThan(decimal.NewFromInt(maxTokenDecimal)) {
		return DefaultTokenDecimal
	}
	return int32(d.IntPart())
}
