package ports

import "time"

// PasswordHasher is a one-way password verifier.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}

// SSNHasher derives a non-reversible digest of a social security number.
type SSNHasher interface {
	Hash(ssn string) string
}

// TokenIssuer signs and verifies session tokens.
type TokenIssuer interface {
	Issue(userID string, issuedAt time.Time) (token string, expiresAt time.Time, err error)
	// Verify checks the signature and returns the user id the token names.
	Verify(token string) (userID string, err error)
}
