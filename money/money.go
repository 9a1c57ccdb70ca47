// Package money converts between user-facing decimal strings and the integer
// minor units stored by the ledger.
package money

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// MinorDigits is the number of fractional digits of the ledger currency.
const MinorDigits = 2

var ErrInvalidAmount = errors.New("invalid amount")

// amountPattern bounds the input before it reaches the decimal parser, which
// would otherwise accept exponents and expand them into arbitrarily large numbers.
var amountPattern = regexp.MustCompile(`^[+-]?\d{1,17}(\.\d{1,2})?$`)

// ParseMinorUnits converts "12.34" to 1234. Non-numeric input, exponent
// notation and input with more than MinorDigits fractional digits are rejected. The sign is kept so the
// engine can report non-positive amounts itself.
func ParseMinorUnits(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if !amountPattern.MatchString(s) {
		return 0, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	minor := d.Shift(MinorDigits)
	if !minor.Equal(minor.Truncate(0)) {
		return 0, ErrInvalidAmount
	}
	if !minor.BigInt().IsInt64() {
		return 0, ErrInvalidAmount
	}
	return minor.IntPart(), nil
}

// FormatMinorUnits renders minor units as "-$1,234.56".
func FormatMinorUnits(minor int64) string {
	sign := ""
	if minor < 0 {
		sign = "-"
	}
	abs := decimal.NewFromInt(minor).Abs()
	whole := abs.Shift(-MinorDigits).Truncate(0)
	cents := abs.Sub(whole.Shift(MinorDigits)).IntPart()

	return sign + "$" + groupThousands(whole.String()) + "." + pad2(cents)
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

func pad2(n int64) string {
	if n < 10 {
		return "0" + strconv.FormatInt(n, 10)
	}
	return strconv.FormatInt(n, 10)
}
