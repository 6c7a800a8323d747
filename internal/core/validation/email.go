package validation

import (
	"regexp"
	"strings"
)

var (
	emailShape   = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	genericTLD   = regexp.MustCompile(`\.[a-z]{2,}$`)
	typoTLDs     = []string{".con", ".c0m", ".comm", ".netl", ".orgn"}
	knownGoodTLD = []string{".com", ".org", ".net", ".edu", ".gov", ".io", ".co", ".us"}
)

// EmailResult is a normalized address. CaseNormalized is set when the input
// differed from Address only by letter case; callers show it as a notice,
// it never rejects the input.
type EmailResult struct {
	Address        string
	CaseNormalized bool
}

// Email validates and lowercases an address.
func Email(raw string) (EmailResult, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return EmailResult{}, fail(FieldEmail, "is required")
	}
	if !emailShape.MatchString(trimmed) {
		return EmailResult{}, fail(FieldEmail, "must be a valid email address")
	}

	addr := strings.ToLower(trimmed)
	for _, typo := range typoTLDs {
		if strings.HasSuffix(addr, typo) {
			return EmailResult{}, fail(FieldEmail, "top-level domain "+typo+" looks like a typo")
		}
	}
	if !hasKnownTLD(addr) && !genericTLD.MatchString(addr) {
		return EmailResult{}, fail(FieldEmail, "must end with a valid top-level domain")
	}

	return EmailResult{Address: addr, CaseNormalized: addr != trimmed}, nil
}

func hasKnownTLD(addr string) bool {
	for _, tld := range knownGoodTLD {
		if strings.HasSuffix(addr, tld) {
			return true
		}
	}
	return false
}
