package validation

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/bankdemo/banking-api/internal/core/domain"
)

var fixedNow = time.Date(2026, 6, 15, 10, 0, 0, 0, time.UTC)

func fieldReasons(t *testing.T, err error) []string {
	t.Helper()
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	out := make([]string, 0, len(ve.Fields))
	for _, f := range ve.Fields {
		out = append(out, f.Field+":"+f.Reason)
	}
	return out
}

func TestEmail(t *testing.T) {
	cases := []struct {
		in         string
		want       string
		normalized bool
		ok         bool
	}{
		{"TEST@EXAMPLE.COM", "test@example.com", true, true},
		{"test@example.com", "test@example.com", false, true},
		{"  jane.doe@uni.edu ", "jane.doe@uni.edu", false, true},
		{"user@startup.dev", "user@startup.dev", false, true},
		{"test@example.con", "", false, false},
		{"test@example.c0m", "", false, false},
		{"test@example.comm", "", false, false},
		{"test@example.netl", "", false, false},
		{"test@example.orgn", "", false, false},
		{"test@example.c", "", false, false},
		{"no-at-sign.com", "", false, false},
		{"two@@example.com", "", false, false},
		{"", "", false, false},
	}

	for _, tc := range cases {
		res, err := Email(tc.in)
		if tc.ok {
			if err != nil {
				t.Errorf("Email(%q) unexpected error: %v", tc.in, err)
				continue
			}
			if res.Address != tc.want || res.CaseNormalized != tc.normalized {
				t.Errorf("Email(%q) = %+v, want %q normalized=%v", tc.in, res, tc.want, tc.normalized)
			}
			continue
		}
		if !errors.Is(err, domain.ErrValidation) {
			t.Errorf("Email(%q) expected validation error, got %v", tc.in, err)
		}
	}
}

func TestDateOfBirth(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"2008-06-15", true},  // 18th birthday today
		{"2008-06-16", false}, // turns 18 tomorrow
		{"2008-07-01", false},
		{"1990-01-01", true},
		{"2027-01-01", false}, // future
		{"2026-06-16", false}, // tomorrow
		{"15/06/1990", false},
		{"", false},
	}
	for _, tc := range cases {
		_, err := DateOfBirth(tc.in, fixedNow)
		if (err == nil) != tc.ok {
			t.Errorf("DateOfBirth(%q) err=%v, want ok=%v", tc.in, err, tc.ok)
		}
	}
}

func TestDateOfBirth_FutureReason(t *testing.T) {
	_, err := DateOfBirth("2030-01-01", fixedNow)
	got := fieldReasons(t, err)
	if len(got) != 1 || got[0] != "date_of_birth:must not be in the future" {
		t.Fatalf("unexpected reasons: %v", got)
	}
}

func TestAge_ExactAnniversary(t *testing.T) {
	dob := time.Date(2000, 6, 15, 0, 0, 0, 0, time.UTC)
	if got := Age(dob, fixedNow); got != 26 {
		t.Fatalf("expected 26 on anniversary, got %d", got)
	}
	if got := Age(dob, fixedNow.AddDate(0, 0, -1)); got != 25 {
		t.Fatalf("expected 25 the day before, got %d", got)
	}
}

func TestState(t *testing.T) {
	got, err := State("ca")
	if err != nil || got != "CA" {
		t.Fatalf("State(ca) = %q, %v", got, err)
	}
	if got, err := State("dc"); err != nil || got != "DC" {
		t.Fatalf("State(dc) = %q, %v", got, err)
	}
	for _, bad := range []string{"XX", "PR", "C", "CAL", ""} {
		if _, err := State(bad); err == nil {
			t.Errorf("State(%q) expected rejection", bad)
		}
	}
}

func TestState_AllTwoLetterCombinations(t *testing.T) {
	accepted := 0
	for a := 'A'; a <= 'Z'; a++ {
		for b := 'A'; b <= 'Z'; b++ {
			code := string([]rune{a, b})
			_, errUpper := State(code)
			_, errLower := State(strings.ToLower(code))
			if (errUpper == nil) != (errLower == nil) {
				t.Fatalf("case sensitivity mismatch for %s", code)
			}
			if errUpper == nil {
				accepted++
			}
		}
	}
	if accepted != 51 {
		t.Fatalf("expected 51 accepted codes, got %d", accepted)
	}
}

func TestPhone(t *testing.T) {
	cases := []struct {
		in, want string
		ok       bool
	}{
		{"(555) 123-4567", "5551234567", true},
		{"+1 555.123.4567", "15551234567", true},
		{"555-123-4567", "5551234567", true},
		{"1234567", "1234567", true},
		{"+442071838750", "442071838750", true},
		{"+1234567890123456", "", false},
		{"555-12-34567", "", false},
		{"phone", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := Phone(tc.in)
		if (err == nil) != tc.ok {
			t.Errorf("Phone(%q) err=%v, want ok=%v", tc.in, err, tc.ok)
			continue
		}
		if tc.ok && got != tc.want {
			t.Errorf("Phone(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestPassword_ReportsEveryFailure(t *testing.T) {
	if err := Password("Str0ng!pass"); err != nil {
		t.Fatalf("expected valid password, got %v", err)
	}

	got := fieldReasons(t, Password("abc"))
	want := []string{
		"password:must be at least 8 characters",
		"password:must contain an uppercase letter",
		"password:must contain a digit",
		"password:must contain a special character",
	}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("reasons = %v, want %v", got, want)
	}

	got = fieldReasons(t, Password("ALLUPPER123!"))
	if len(got) != 1 || got[0] != "password:must contain a lowercase letter" {
		t.Fatalf("unexpected reasons: %v", got)
	}
}

func TestPassword_ClassesAreASCII(t *testing.T) {
	got := fieldReasons(t, Password("ÉÉÉÉéééé1!"))
	want := []string{
		"password:must contain an uppercase letter",
		"password:must contain a lowercase letter",
	}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("reasons = %v, want %v", got, want)
	}

	got = fieldReasons(t, Password("Abcdefg٣!"))
	if len(got) != 1 || got[0] != "password:must contain a digit" {
		t.Fatalf("non-ASCII digit accepted: %v", got)
	}
}

func TestFreeText(t *testing.T) {
	if got, err := FreeText(FieldLastName, " O'Brien-Smith & Co ", MaxNameLen); err != nil || got != "O'Brien-Smith & Co" {
		t.Fatalf("FreeText accepted value mismatch: %q %v", got, err)
	}
	if _, err := FreeText(FieldAddress, "<script>alert(1)</script>", MaxAddrLen); err == nil {
		t.Fatal("expected markup rejection")
	}
	if _, err := FreeText(FieldCity, "a > b", MaxCityLen); err == nil {
		t.Fatal("expected > rejection")
	}
	if _, err := FreeText(FieldFirstName, "   ", MaxNameLen); err == nil {
		t.Fatal("expected empty rejection")
	}
	if _, err := FreeText(FieldFirstName, strings.Repeat("a", 101), MaxNameLen); err == nil {
		t.Fatal("expected length rejection")
	}
	if _, err := FreeText(FieldAddress, strings.Repeat("a", 200), MaxAddrLen); err != nil {
		t.Fatalf("200 chars should be accepted: %v", err)
	}
}

func TestSSNAndZip(t *testing.T) {
	if got, err := SSN("123-45-6789"); err != nil || got != "123456789" {
		t.Fatalf("SSN = %q, %v", got, err)
	}
	if _, err := SSN("12345678"); err == nil {
		t.Fatal("expected short SSN rejection")
	}
	if got, err := Zip("94105"); err != nil || got != "94105" {
		t.Fatalf("Zip = %q, %v", got, err)
	}
	if _, err := Zip("9410"); err == nil {
		t.Fatal("expected short zip rejection")
	}
}

func TestDescription(t *testing.T) {
	desc := "<b>rent</b> & bills"
	got, err := Description(desc)
	if err != nil || got != desc {
		t.Fatalf("description must be kept verbatim: %q %v", got, err)
	}
	if _, err := Description(strings.Repeat("x", 201)); err == nil {
		t.Fatal("expected length rejection")
	}
}

func TestCollect(t *testing.T) {
	if err := Collect(nil, nil); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}

	err := Collect(fail(FieldEmail, "bad"), nil, Password("x"), fail(FieldZip, "bad"))
	got := fieldReasons(t, err)
	if len(got) != 6 || got[0] != "email:bad" || got[5] != "zip:bad" {
		t.Fatalf("unexpected merge: %v", got)
	}

	other := errors.New("boom")
	if err := Collect(fail(FieldEmail, "bad"), other); err != other {
		t.Fatalf("expected non-validation error passthrough, got %v", err)
	}
}
