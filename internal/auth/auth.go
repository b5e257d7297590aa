// Package auth holds the credential checks gating the admin surface.
package auth

import (
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Verifier decides whether a presented credential is acceptable. The admin
// middleware and the login handler only see this interface, so the static
// secret can later give way to a token scheme without touching handlers.
type Verifier interface {
	Verify(presented string) bool
}

// SecretVerifier matches a single shared secret in constant time.
type SecretVerifier struct {
	secret []byte
}

func NewSecretVerifier(secret string) *SecretVerifier {
	return &SecretVerifier{secret: []byte(secret)}
}

func (v *SecretVerifier) Verify(presented string) bool {
	if len(v.secret) == 0 {
		return false
	}
	return subtle.ConstantTimeCompare(v.secret, []byte(presented)) == 1
}

// CredentialVerifier checks a username/password pair. The password side is a
// bcrypt hash when one is configured, otherwise a constant-time plaintext
// compare.
type CredentialVerifier struct {
	username     string
	password     string
	passwordHash string
}

func NewCredentialVerifier(username, password, passwordHash string) *CredentialVerifier {
	return &CredentialVerifier{
		username:     username,
		password:     password,
		passwordHash: passwordHash,
	}
}

func (v *CredentialVerifier) VerifyPair(username, password string) bool {
	if v.username == "" {
		return false
	}
	userOK := subtle.ConstantTimeCompare([]byte(v.username), []byte(strings.TrimSpace(username))) == 1

	var passOK bool
	if v.passwordHash != "" {
		passOK = bcrypt.CompareHashAndPassword([]byte(v.passwordHash), []byte(password)) == nil
	} else if v.password != "" {
		passOK = subtle.ConstantTimeCompare([]byte(v.password), []byte(password)) == 1
	}

	return userOK && passOK
}
