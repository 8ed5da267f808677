package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultKeyCost is the default bcrypt cost for room keys, matching the
// legacy server's 10 salt rounds.
const DefaultKeyCost = 10

// HashKey generates a bcrypt hash of a room key. A non-positive cost
// falls back to DefaultKeyCost.
func HashKey(key string, cost int) (string, error) {
	if cost <= 0 {
		cost = DefaultKeyCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(key), cost)
	if err != nil {
		return "", fmt.Errorf("hash key: %w", err)
	}
	return string(hash), nil
}

// CompareKey compares a bcrypt hashed room key with its plaintext version.
// The comparison inside bcrypt is constant-time.
func CompareKey(hashedKey, key string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedKey), []byte(key))
}
