package validation

import (
	"strings"

	"github.com/bankdemo/banking-api/internal/core/domain"
)

const (
	minPasswordLen = 8
	// PasswordSpecials is the set that satisfies the special-character rule.
	PasswordSpecials = "!@#$%^&*(),.?\":{}|<>_-+=[]\\/~;'`"
)

// Password checks length and the four character classes. Letter and digit
// classes are ASCII only. Every failing check
// is reported, so one call can return several field errors.
func Password(raw string) error {
	var upper, lower, digit, special bool
	for _, r := range raw {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(PasswordSpecials, r):
			special = true
		}
	}

	var fields []domain.FieldError
	add := func(ok bool, reason string) {
		if !ok {
			fields = append(fields, domain.FieldError{Field: FieldPassword, Reason: reason})
		}
	}
	add(len([]rune(raw)) >= minPasswordLen, "must be at least 8 characters")
	add(upper, "must contain an uppercase letter")
	add(lower, "must contain a lowercase letter")
	add(digit, "must contain a digit")
	add(special, "must contain a special character")

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}
