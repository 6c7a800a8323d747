package validation

import (
	"strings"

	"github.com/bankdemo/banking-api/internal/core/domain"
)

// CardBrand is the network a card number belongs to.
type CardBrand string

const (
	BrandVisa       CardBrand = "Visa"
	BrandMastercard CardBrand = "Mastercard"
	BrandAmex       CardBrand = "Amex"
	BrandDiscover   CardBrand = "Discover"
	BrandUnknown    CardBrand = "Unknown"
)

type brandRule struct {
	prefix string
	brand  CardBrand
}

// brandRules are evaluated top to bottom and the first match wins. A rule's
// prefix must never be a prefix of a later rule's prefix, or the later rule
// could never match.
var brandRules = []brandRule{
	{"4", BrandVisa},
	{"5", BrandMastercard},
	{"34", BrandAmex},
	{"37", BrandAmex},
	{"6011", BrandDiscover},
	{"65", BrandDiscover},
}

// ClassifyCard returns the brand for number, or BrandUnknown.
func ClassifyCard(number string) CardBrand {
	for _, rule := range brandRules {
		if strings.HasPrefix(number, rule.prefix) {
			return rule.brand
		}
	}
	return BrandUnknown
}

// Luhn reports whether number passes the Luhn checksum. Any non-digit
// character makes it fail.
func Luhn(number string) bool {
	if number == "" {
		return false
	}
	sum := 0
	double := false
	for i := len(number) - 1; i >= 0; i-- {
		c := number[i]
		if c < '0' || c > '9' {
			return false
		}
		d := int(c - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

// CardNumber strips spaces and hyphens, then requires 13-19 digits that pass Luhn.
func CardNumber(raw string) (string, error) {
	n := strings.NewReplacer(" ", "", "-", "").Replace(raw)
	if n == "" {
		return "", fail(FieldCardNumber, "is required")
	}
	if len(n) < 13 || len(n) > 19 {
		return "", fail(FieldCardNumber, "must be 13 to 19 digits")
	}
	if !Luhn(n) {
		return "", fail(FieldCardNumber, "failed checksum")
	}
	return n, nil
}

// SourceType accepts the two supported funding sources.
func SourceType(raw string) (domain.FundingSource, error) {
	switch s := domain.FundingSource(strings.ToLower(strings.TrimSpace(raw))); s {
	case domain.SourceCard, domain.SourceBank:
		return s, nil
	default:
		return "", fail(FieldSourceType, "must be card or bank")
	}
}

// RoutingNumber is required only for bank funding.
func RoutingNumber(source domain.FundingSource, raw string) error {
	if source == domain.SourceBank && strings.TrimSpace(raw) == "" {
		return fail(FieldRoutingNumber, "is required for bank funding")
	}
	return nil
}
