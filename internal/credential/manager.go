// Package credential hashes, verifies and replaces user passwords.
// Raw passwords never leave this package in clear text: they are stored
// as salted bcrypt hashes and verified by re-hashing the candidate.
// Hash rejects inputs longer than 72 bytes, the most bcrypt will hash.
package credential

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// maxPasswordBytes is the longest input bcrypt will hash.
const maxPasswordBytes = 72

var (
	// ErrMalformedHash is returned by Verify when the stored value is not a
	// bcrypt hash (plaintext, truncated or corrupted).
	ErrMalformedHash = errors.New("credential: malformed hash")
	// ErrPasswordTooLong is returned by Hash for inputs over 72 bytes.
	ErrPasswordTooLong = errors.New("credential: password exceeds 72 bytes")
)

// Manager hashes and verifies passwords with a fixed bcrypt work factor.
// It holds no mutable state and is safe for concurrent use.
type Manager struct {
	// cost is the bcrypt work factor applied to every new hash.
	cost int
}

// NewManager returns a Manager hashing with the given bcrypt cost.
// cost must lie within [bcrypt.MinCost, bcrypt.MaxCost].
func NewManager(cost int) (*Manager, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("credential: cost %d outside [%d, %d]", cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	return &Manager{cost: cost}, nil
}

// Cost reports the work factor used for new hashes.
func (m *Manager) Cost() int {
	return m.cost
}

// Hash returns a salted bcrypt hash of raw. Two calls with the same input
// produce different outputs, both of which Verify accepts.
// Non-emptiness is the caller's concern.
func (m *Manager) Hash(raw string) (string, error) {
	if len(raw) > maxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(raw), m.cost)
	if err != nil {
		return "", fmt.Errorf("credential: hash password: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether raw matches stored. A mismatch is (false, nil).
// A stored value bcrypt cannot parse yields (false, ErrMalformedHash).
func (m *Manager) Verify(raw, stored string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(stored), []byte(raw))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %v", ErrMalformedHash, err)
	}
}

// Reconcile returns the hash to persist after an update. An empty supplied
// password keeps existing as is; anything else is hashed afresh.
func (m *Manager) Reconcile(existing, supplied string) (string, error) {
	if supplied == "" {
		return existing, nil
	}
	return m.Hash(supplied)
}
