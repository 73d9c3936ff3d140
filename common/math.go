package common

import (
	"fmt"
	"math/big"
	"strings"
)

// DecimalToMinor converts a human decimal amount string ("20.0", "0.000001")
// to token minor units as a big int, given the token's decimal count.
//
// The conversion is pure integer string arithmetic. Binary floats are never
// involved, so the result is exact: DecimalToMinor("20.0", 6) is precisely
// 20000000. Amounts with more fractional digits than the token supports are
// rejected instead of silently rounded.
func DecimalToMinor(amount string, decimals uint8) (*big.Int, error) {
	s := strings.TrimSpace(amount)
	neg := strings.HasPrefix(s, "-")
	if neg {
		return nil, fmt.Errorf("amount must not be negative: %s", amount)
	}
	s = strings.TrimPrefix(s, "+")

	whole, frac := s, ""
	if i := strings.Index(s, "."); i >= 0 {
		whole, frac = s[:i], s[i+1:]
	}
	if whole == "" && frac == "" {
		return nil, fmt.Errorf("empty amount")
	}
	if whole == "" {
		whole = "0"
	}
	if !isDigits(whole) || (frac != "" && !isDigits(frac)) {
		return nil, fmt.Errorf("malformed decimal amount: %s", amount)
	}
	if len(frac) > int(decimals) {
		extra := strings.TrimRight(frac[decimals:], "0")
		if extra != "" {
			return nil, fmt.Errorf(
				"amount %s has more than %d decimal places", amount, decimals,
			)
		}
		frac = frac[:decimals]
	}
	frac += strings.Repeat("0", int(decimals)-len(frac))

	result, ok := big.NewInt(0).SetString(whole+frac, 10)
	if !ok {
		return nil, fmt.Errorf("malformed decimal amount: %s", amount)
	}
	return result, nil
}

// MinorToDecimal renders minor units as a decimal string, trimming trailing
// fractional zeros. The inverse of DecimalToMinor up to formatting.
func MinorToDecimal(value *big.Int, decimals uint8) string {
	s := big.NewInt(0).Abs(value).String()
	if len(s) <= int(decimals) {
		s = strings.Repeat("0", int(decimals)-len(s)+1) + s
	}
	cut := len(s) - int(decimals)
	whole, frac := s[:cut], s[cut:]
	frac = strings.TrimRight(frac, "0")
	sign := ""
	if value.Sign() < 0 {
		sign = "-"
	}
	if frac == "" {
		return sign + whole
	}
	return sign + whole + "." + frac
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// BigToFloat converts a big int to float according to its number of decimal
// digits. Display only: it loses precision for large values by design of
// float64, never feed the result back into an on-chain amount.
func BigToFloat(b *big.Int, decimals uint8) float64 {
	f := new(big.Float).SetInt(b)
	power := new(big.Float).SetInt(new(big.Int).Exp(
		big.NewInt(10), big.NewInt(int64(decimals)), nil,
	))
	res := new(big.Float).Quo(f, power)
	result, _ := res.Float64()
	return result
}

// GweiToWei converts gwei expressed as a decimal string to wei.
func GweiToWei(gwei string) (*big.Int, error) {
	return DecimalToMinor(gwei, 9)
}
