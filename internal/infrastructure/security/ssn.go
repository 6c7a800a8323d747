package security

import (
	"encoding/hex"

	"golang.org/x/crypto/argon2"
)

const (
	ssnTime    = 1
	ssnMemory  = 64 * 1024
	ssnThreads = 2
	ssnKeyLen  = 32
)

// SSNHasher derives a deterministic argon2id digest of an SSN. The same salt
// must be used for the lifetime of the data set.
type SSNHasher struct {
	salt []byte
}

func NewSSNHasher(salt string) *SSNHasher {
	return &SSNHasher{salt: []byte(salt)}
}

// Hash returns the hex-encoded digest of ssn.
func (h *SSNHasher) Hash(ssn string) string {
	key := argon2.IDKey([]byte(ssn), h.salt, ssnTime, ssnMemory, ssnThreads, ssnKeyLen)
	return hex.EncodeToString(key)
}
