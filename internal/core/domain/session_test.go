package domain

import (
	"testing"
	"time"
)

func TestSession_Usable(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name      string
		expiresAt time.Time
		want      bool
	}{
		{"ten minutes left", now.Add(10 * time.Minute), true},
		{"three minutes left is inside buffer", now.Add(3 * time.Minute), false},
		{"exactly at buffer edge", now.Add(SessionExpiryBuffer), false},
		{"one ms past buffer edge", now.Add(SessionExpiryBuffer + time.Millisecond), true},
		{"already expired", now.Add(-time.Hour), false},
		{"fresh session", now.Add(SessionTTL), true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := Session{Token: "t", UserID: "u", CreatedAt: now, ExpiresAt: tc.expiresAt}
			if got := s.Usable(now); got != tc.want {
				t.Fatalf("Usable() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestSessionExpiryBuffer_Is300000ms(t *testing.T) {
	if SessionExpiryBuffer.Milliseconds() != 300000 {
		t.Fatalf("unexpected buffer: %v", SessionExpiryBuffer)
	}
}
