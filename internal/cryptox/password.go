// Package cryptox implements the one-way credential hashing used for user
// passwords.
package cryptox

import (
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// ErrPasswordTooLong is returned by Hash for input longer than bcrypt accepts.
var ErrPasswordTooLong = bcrypt.ErrPasswordTooLong

// BcryptHasher hashes passwords with bcrypt at a fixed cost. The zero value
// uses bcrypt.DefaultCost.
type BcryptHasher struct {
	cost int

	dummyOnce sync.Once
	dummy     []byte
}

// NewBcryptHasher returns a hasher for the given cost. Costs outside
// [bcrypt.MinCost, bcrypt.MaxCost] are clamped into range.
func NewBcryptHasher(cost int) *BcryptHasher {
	switch {
	case cost < bcrypt.MinCost:
		cost = bcrypt.MinCost
	case cost > bcrypt.MaxCost:
		cost = bcrypt.MaxCost
	}
	return &BcryptHasher{cost: cost}
}

// Cost reports the bcrypt cost used for new hashes.
func (h *BcryptHasher) Cost() int {
	if h.cost == 0 {
		return bcrypt.DefaultCost
	}
	return h.cost
}

// Hash returns a salted bcrypt hash of plaintext.
//
// bcrypt ignores input past 72 bytes; such passwords are rejected rather
// than silently truncated.
func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.Cost())
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

// Verify reports whether plaintext matches storedHash. A malformed hash
// never matches.
func (h *BcryptHasher) Verify(plaintext, storedHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(plaintext)) == nil
}

// VerifyNothing burns one comparison against a throwaway hash of the same
// cost. Callers use it when there is no stored hash to check, so a miss
// costs as much time as a wrong password.
func (h *BcryptHasher) VerifyNothing(plaintext string) {
	h.dummyOnce.Do(func() {
		h.dummy, _ = bcrypt.GenerateFromPassword([]byte("usersvc-dummy-password"), h.Cost())
	})
	_ = bcrypt.CompareHashAndPassword(h.dummy, []byte(plaintext))
}
