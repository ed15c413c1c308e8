package token

import (
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// Codec converts between user-facing decimal strings and exact minor-unit
// integers for a token with a fixed number of fractional digits. All monetary
// arithmetic elsewhere in the module operates on the minor-unit integers; the
// decimal form exists only at the UI and wire boundaries.
type Codec struct {
	Decimals int
}

var (
	// USDT on TON uses six fractional digits.
	USDT = Codec{Decimals: 6}
	// TON gas values ("nanotons") use nine.
	TON = Codec{Decimals: 9}
)

func (c Codec) scale() *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(c.Decimals)), nil)
}

// ToMinorUnits parses a decimal string into minor units. Malformed input,
// negative values and values with more fractional digits than the codec
// carries all coerce to zero: the caller is a UI input field, and a zero
// amount is rejected downstream anyway. Precision is never rounded away.
func (c Codec) ToMinorUnits(s string) *big.Int {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return big.NewInt(0)
	}
	d, err := decimal.NewFromString(trimmed)
	if err != nil || d.Sign() < 0 {
		return big.NewInt(0)
	}
	shifted := d.Shift(int32(c.Decimals))
	if !shifted.IsInteger() {
		return big.NewInt(0)
	}
	return shifted.BigInt()
}

// Format renders minor units as a canonical decimal string with trailing
// fractional zeros trimmed. Nil is treated as zero. Format and ToMinorUnits
// round-trip exactly for every non-negative amount.
func (c Codec) Format(units *big.Int) string {
	if units == nil || units.Sign() == 0 {
		return "0"
	}
	abs := new(big.Int).Abs(units)
	quo, rem := new(big.Int).QuoRem(abs, c.scale(), new(big.Int))
	out := quo.String()
	if units.Sign() < 0 {
		out = "-" + out
	}
	if rem.Sign() == 0 {
		return out
	}
	frac := rem.String()
	if pad := c.Decimals - len(frac); pad > 0 {
		frac = strings.Repeat("0", pad) + frac
	}
	frac = strings.TrimRight(frac, "0")
	return out + "." + frac
}
