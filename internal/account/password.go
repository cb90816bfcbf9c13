package account

import (
	"crypto/rand"
	"crypto/subtle"

	"golang.org/x/crypto/argon2"
)

const saltLen = 16

// Credential is what is kept under store.PasswordKey: a salted argon2id hash,
// never the password itself.
type Credential struct {
	Salt []byte `json:"salt"`
	Hash []byte `json:"hash"`
}

func deriveKey(password string, salt []byte) []byte {
	return argon2.IDKey([]byte(password), salt, 1, 64*1024, 4, 32)
}

func newCredential(password string) (*Credential, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}
	return &Credential{Salt: salt, Hash: deriveKey(password, salt)}, nil
}

// Matches compares in constant time.
func (c *Credential) Matches(password string) bool {
	if c == nil || len(c.Salt) == 0 || len(c.Hash) == 0 {
		return false
	}
	return subtle.ConstantTimeCompare(deriveKey(password, c.Salt), c.Hash) == 1
}
