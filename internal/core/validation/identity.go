package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	dateLayout   = "2006-01-02"
	minimumAge   = 18
	MaxNameLen   = 100
	MaxCityLen   = 100
	MaxAddrLen   = 200
	MaxDescLen   = 200
	markupTokens = "<>"
)

var (
	usPhone   = regexp.MustCompile(`^(\+1[-.]?)?(\(\d{3}\)|\d{3})?[-.]?\d{3}[-.]?\d{4}$`)
	intlPhone = regexp.MustCompile(`^\+\d{1,15}$`)
	ssnShape  = regexp.MustCompile(`^\d{3}-?\d{2}-?\d{4}$`)
	zipShape  = regexp.MustCompile(`^\d{5}$`)
	nonDigit  = regexp.MustCompile(`\D`)
)

// usStates holds the 50 state codes plus DC.
var usStates = map[string]struct{}{
	"AL": {}, "AK": {}, "AZ": {}, "AR": {}, "CA": {}, "CO": {}, "CT": {}, "DE": {}, "FL": {}, "GA": {},
	"HI": {}, "ID": {}, "IL": {}, "IN": {}, "IA": {}, "KS": {}, "KY": {}, "LA": {}, "ME": {}, "MD": {},
	"MA": {}, "MI": {}, "MN": {}, "MS": {}, "MO": {}, "MT": {}, "NE": {}, "NV": {}, "NH": {}, "NJ": {},
	"NM": {}, "NY": {}, "NC": {}, "ND": {}, "OH": {}, "OK": {}, "OR": {}, "PA": {}, "RI": {}, "SC": {},
	"SD": {}, "TN": {}, "TX": {}, "UT": {}, "VT": {}, "VA": {}, "WA": {}, "WV": {}, "WI": {}, "WY": {},
	"DC": {},
}

// DateOfBirth parses a YYYY-MM-DD date and enforces the adult-age rule
// relative to now.
func DateOfBirth(raw string, now time.Time) (time.Time, error) {
	dob, err := time.Parse(dateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, fail(FieldDateOfBirth, "must be a date in YYYY-MM-DD format")
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if dob.After(today) {
		return time.Time{}, fail(FieldDateOfBirth, "must not be in the future")
	}
	if Age(dob, now) < minimumAge {
		return time.Time{}, fail(FieldDateOfBirth, fmt.Sprintf("must be at least %d years old", minimumAge))
	}
	return dob, nil
}

// Age returns whole years between dob and now. The birthday itself counts.
func Age(dob, now time.Time) int {
	years := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		years--
	}
	return years
}

// State uppercases a two-letter code and checks it against the US set.
func State(raw string) (string, error) {
	code := strings.ToUpper(strings.TrimSpace(raw))
	if len(code) != 2 {
		return "", fail(FieldState, "must be a 2-letter state code")
	}
	if _, ok := usStates[code]; !ok {
		return "", fail(FieldState, "is not a recognized US state code")
	}
	return code, nil
}

// Phone accepts US or international formats and returns digits only.
func Phone(raw string) (string, error) {
	compact := strings.Join(strings.Fields(raw), "")
	if compact == "" {
		return "", fail(FieldPhone, "is required")
	}
	if !usPhone.MatchString(compact) && !intlPhone.MatchString(compact) {
		return "", fail(FieldPhone, "must be a valid US or international phone number")
	}
	return nonDigit.ReplaceAllString(compact, ""), nil
}

// SSN accepts nine digits with or without hyphens and returns the digits.
func SSN(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if !ssnShape.MatchString(s) {
		return "", fail(FieldSSN, "must be 9 digits")
	}
	return strings.ReplaceAll(s, "-", ""), nil
}

// Zip requires exactly five digits.
func Zip(raw string) (string, error) {
	z := strings.TrimSpace(raw)
	if !zipShape.MatchString(z) {
		return "", fail(FieldZip, "must be 5 digits")
	}
	return z, nil
}

// FreeText trims raw and checks 1..max characters without angle brackets.
// Apostrophes, hyphens and ampersands stay allowed.
func FreeText(field, raw string, max int) (string, error) {
	s := strings.TrimSpace(raw)
	n := utf8.RuneCountInString(s)
	switch {
	case n == 0:
		return "", fail(field, "is required")
	case n > max:
		return "", fail(field, fmt.Sprintf("must be at most %d characters", max))
	case strings.ContainsAny(s, markupTokens):
		return "", fail(field, "must not contain < or >")
	}
	return s, nil
}

// Description bounds an optional transaction note. The text is stored as
// given and is never interpreted.
func Description(raw string) (string, error) {
	if utf8.RuneCountInString(raw) > MaxDescLen {
		return "", fail(FieldDescription, fmt.Sprintf("must be at most %d characters", MaxDescLen))
	}
	return raw, nil
}
