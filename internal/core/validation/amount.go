package validation

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	MinAmount = decimal.New(1, -2) // 0.01
	MaxAmount = decimal.NewFromInt(1_000_000)

	amountText  = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)
	leadingZero = regexp.MustCompile(`^0\d`)
)

// Amount checks a positive amount between MinAmount and MaxAmount with at
// most two fractional digits.
func Amount(d decimal.Decimal) error {
	switch {
	case !d.IsPositive():
		return fail(FieldAmount, "must be positive")
	case d.LessThan(MinAmount):
		return fail(FieldAmount, "must be at least 0.01")
	case d.GreaterThan(MaxAmount):
		return fail(FieldAmount, "must not exceed 1000000")
	case !d.Equal(d.Round(2)):
		return fail(FieldAmount, "must have at most two decimal places")
	}
	return nil
}

// ParseAmount converts the textual amount of a request. Zero-padded text
// such as "007.50" is refused here even though it would parse.
func ParseAmount(text string) (decimal.Decimal, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return decimal.Zero, fail(FieldAmount, "is required")
	}
	if leadingZero.MatchString(s) {
		return decimal.Zero, fail(FieldAmount, "must not have leading zeros")
	}
	if strings.HasPrefix(s, "-") {
		return decimal.Zero, fail(FieldAmount, "must be positive")
	}
	if !amountText.MatchString(s) {
		return decimal.Zero, fail(FieldAmount, "must be a number with at most two decimal places")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fail(FieldAmount, "must be a number")
	}
	if err := Amount(d); err != nil {
		return decimal.Zero, err
	}
	return d, nil
}
