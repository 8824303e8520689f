package auth

import (
	"crypto/subtle"

	"github.com/alexedwards/argon2id"
)

// Verifier gates admin elevation. Join handlers ask it before letting
// a connection claim the admin slot.
type Verifier interface {
	Verify(password string) bool
}

// SecretVerifier compares against a plain configured secret in
// constant time.
type SecretVerifier struct {
	secret string
}

func NewSecretVerifier(secret string) *SecretVerifier {
	return &SecretVerifier{secret: secret}
}

func (v *SecretVerifier) Verify(password string) bool {
	if v.secret == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(v.secret), []byte(password)) == 1
}

// Argon2idVerifier compares against a stored argon2id hash, for
// deployments that would rather not keep the admin secret in plain
// text.
type Argon2idVerifier struct {
	hash string
}

func NewArgon2idVerifier(hash string) *Argon2idVerifier {
	return &Argon2idVerifier{hash: hash}
}

func (v *Argon2idVerifier) Verify(password string) bool {
	match, err := argon2id.ComparePasswordAndHash(password, v.hash)
	if err != nil {
		return false
	}
	return match
}

// FromConfig prefers the hashed form when both are configured.
func FromConfig(secret, hash string) Verifier {
	if hash != "" {
		return NewArgon2idVerifier(hash)
	}
	return NewSecretVerifier(secret)
}
