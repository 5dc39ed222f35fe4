// Package core provides the domain types of the budget report and the
// coercion of spreadsheet cells into them.
//
// This file contains the parsing of monetary cells. A cell that is not a
// number is worth zero: the report never fails because of a malformed value.
package core

import (
	"math"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a cell value to a decimal amount.
//
// It accepts Go numeric values, decimal.Decimal and strings holding a plain
// decimal number (optional sign and exponent, surrounding whitespace is
// ignored). Thousands separators are not accepted. The boolean reports
// whether the value was numeric; NaN, infinities and numbers beyond the
// finite float64 range are not.
//
// Examples:
//
//	ParseAmount("150")    -> 150, true
//	ParseAmount(" 12.5 ") -> 12.5, true
//	ParseAmount(2e3)      -> 2000, true
//	ParseAmount("abc")    -> 0, false
//	ParseAmount("1,234")  -> 0, false
//	ParseAmount("1e400")  -> 0, false
//	ParseAmount(nil)      -> 0, false
func ParseAmount(v any) (decimal.Decimal, bool) {
	switch x := v.(type) {
	case nil:
		return decimal.Zero, false
	case decimal.Decimal:
		return inRange(x)
	case *decimal.Decimal:
		if x == nil {
			return decimal.Zero, false
		}
		return inRange(*x)
	case int:
		return decimal.NewFromInt(int64(x)), true
	case int32:
		return decimal.NewFromInt32(x), true
	case int64:
		return decimal.NewFromInt(x), true
	case float32:
		return fromFloat(float64(x))
	case float64:
		return fromFloat(x)
	case string:
		return fromString(x)
	case []byte:
		return fromString(string(x))
	default:
		return decimal.Zero, false
	}
}

// AmountOrZero is ParseAmount without the flag: malformed or missing values
// are worth zero.
func AmountOrZero(v any) decimal.Decimal {
	d, _ := ParseAmount(v)
	return d
}

func fromFloat(f float64) (decimal.Decimal, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero, false
	}
	return inRange(decimal.NewFromFloat(f))
}

func fromString(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return inRange(d)
}

// Exponent bounds of a finite float64: its largest value is below 1e309 and
// its smallest subnormal is about 4.9e-324. The lower bound leaves room for
// long fractional digit runs.
const (
	maxAmountDigits   = 309
	minAmountExponent = -400
)

// inRange rejects amounts a float64 could not hold. Adding such a value to
// an ordinary one rescales both to the wider exponent, which for a cell like
// "1e50000000" means a coefficient of fifty million digits.
func inRange(d decimal.Decimal) (decimal.Decimal, bool) {
	exp := int64(d.Exponent())
	if exp < minAmountExponent || exp > maxAmountDigits {
		return decimal.Zero, false
	}
	digits := int64(len(new(big.Int).Abs(d.Coefficient()).Text(10)))
	if exp+digits > maxAmountDigits {
		return decimal.Zero, false
	}
	return d, true
}
