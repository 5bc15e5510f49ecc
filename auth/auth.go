// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrEmptyIdentity = errors.New("voter identity is empty")
)

// NewID returns a random UUID string for database records
func NewID() string {
	return uuid.NewString()
}

// ValidID reports whether id looks like an ID produced by NewID
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// HashVoterToken derives the pseudonymous voter token stored on ballots.
// Same identity and salt always give the same token; the identity cannot be
// recovered from it without the salt.
func HashVoterToken(identity, salt string) (string, error) {
	identity = strings.TrimSpace(identity)
	if identity == "" {
		return "", ErrEmptyIdentity
	}
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(identity))
	return hex.EncodeToString(h.Sum(nil)), nil
}
