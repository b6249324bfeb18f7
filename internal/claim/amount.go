package claim

import (
	"math/big"
	"strings"
)

const tokenDecimals = 18

var tokenBase = new(big.Int).Exp(big.NewInt(10), big.NewInt(tokenDecimals), nil)

// ParseAmount parses a base-units decimal string; empty or malformed → 0.
func ParseAmount(s string) *big.Int {
	s = strings.TrimSpace(s)
	if s == "" {
		return big.NewInt(0)
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return big.NewInt(0)
	}
	return v
}

// FormatAmount renders a base-units value as a human decimal string with
// 18-decimal scaling. Zero (or nil/absent) is "0"; a whole-token value keeps
// one fractional digit, so 1e18 prints as "1.0".
func FormatAmount(x *big.Int) string {
	if x == nil || x.Sign() == 0 {
		return "0"
	}
	var intPart, frac big.Int
	intPart.QuoRem(x, tokenBase, &frac)

	fs := frac.String()
	if len(fs) < tokenDecimals {
		fs = strings.Repeat("0", tokenDecimals-len(fs)) + fs
	}
	fs = strings.TrimRight(fs, "0")
	if fs == "" {
		fs = "0"
	}
	return intPart.String() + "." + fs
}

// FormatAmountString is FormatAmount over the raw API string.
func FormatAmountString(s string) string {
	return FormatAmount(ParseAmount(s))
}
