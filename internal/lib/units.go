package lib

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
)

const EtherDecimals = 18

var ErrInvalidAmount = errors.New("invalid decimal amount")

// ParseUnits converts a decimal string into an integer amount scaled by 10^decimals
func ParseUnits(value string, decimals int) (*big.Int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, ErrInvalidAmount
	}

	whole, frac, _ := strings.Cut(value, ".")
	if len(frac) > decimals {
		return nil, fmt.Errorf("%w: %s has more than %d fractional digits", ErrInvalidAmount, value, decimals)
	}
	frac += strings.Repeat("0", decimals-len(frac))

	n, ok := new(big.Int).SetString(whole+frac, 10)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidAmount, value)
	}
	return n, nil
}

func MustParseUnits(value string, decimals int) *big.Int {
	n, err := ParseUnits(value, decimals)
	if err != nil {
		panic(err)
	}
	return n
}

func ParseEther(value string) (*big.Int, error) {
	return ParseUnits(value, EtherDecimals)
}

// FormatUnits is the inverse of ParseUnits, trailing fractional zeros are dropped
func FormatUnits(amount *big.Int, decimals int) string {
	if amount == nil {
		return "0"
	}
	sign := ""
	abs := new(big.Int).Set(amount)
	if abs.Sign() < 0 {
		sign = "-"
		abs.Neg(abs)
	}

	digits := abs.String()
	if len(digits) <= decimals {
		digits = strings.Repeat("0", decimals-len(digits)+1) + digits
	}
	whole := digits[:len(digits)-decimals]
	frac := strings.TrimRight(digits[len(digits)-decimals:], "0")
	if frac == "" {
		return sign + whole
	}
	return sign + whole + "." + frac
}
