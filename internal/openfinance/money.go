package openfinance

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// ToMinorUnits converts a decimal currency amount to integer minor units
// (centavos). Rounding is half-to-even, so 0.125 becomes 12 and 0.135 becomes
// 14; this pins down the tie behavior instead of inheriting whatever IEEE-754
// would do on a float multiply.
func ToMinorUnits(d decimal.Decimal) int64 {
	return d.Mul(hundred).RoundBank(0).IntPart()
}
