package services

import (
	cryptorand "crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"strings"

	"github.com/spf13/viper"
	"golang.org/x/crypto/argon2"
)

// CredentialChecker gates the on-demand payment path. Kept behind an
// interface so a real authenticator can replace the mock PIN check
// without touching the engine.
type CredentialChecker interface {
	VerifyPIN(pin string) bool
}

// PINChecker verifies against an argon2id hash when one is configured
// (payments.pin_hash), otherwise against the plain configured PIN.
type PINChecker struct {
	hash  string
	plain string
}

func NewPINChecker() *PINChecker {
	viper.SetDefault("payments.pin", "1234")
	return &PINChecker{
		hash:  viper.GetString("payments.pin_hash"),
		plain: viper.GetString("payments.pin"),
	}
}

func (c *PINChecker) VerifyPIN(pin string) bool {
	if c.hash != "" {
		return verifySecret(pin, c.hash)
	}
	return subtle.ConstantTimeCompare([]byte(pin), []byte(c.plain)) == 1
}

// HashSecret produces a salt$hash pair suitable for payments.pin_hash.
func HashSecret(secret string) (string, error) {
	return hashSecret(secret)
}

func hashSecret(secret string) (string, error) {
	salt := make([]byte, argonSaltLength())
	if _, err := cryptorand.Read(salt); err != nil {
		return "", err
	}

	t, m, p, k := argonParams()
	hash := argon2.IDKey([]byte(secret), salt, t, m, p, k)
	return base64.StdEncoding.EncodeToString(salt) + "$" + base64.StdEncoding.EncodeToString(hash), nil
}

func verifySecret(secret, hashed string) bool {
	parts := strings.Split(hashed, "$")
	if len(parts) != 2 {
		return false
	}

	salt, err := base64.StdEncoding.DecodeString(parts[0])
	if err != nil {
		return false
	}

	hash, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return false
	}

	t, m, p, k := argonParams()
	computed := argon2.IDKey([]byte(secret), salt, t, m, p, k)
	return subtle.ConstantTimeCompare(hash, computed) == 1
}

func argonParams() (t, m uint32, p uint8, k uint32) {
	viper.SetDefault("argon2.time", 1)
	viper.SetDefault("argon2.memory", 64*1024)
	viper.SetDefault("argon2.threads", 4)
	viper.SetDefault("argon2.key_length", 32)
	return uint32(viper.GetInt("argon2.time")),
		uint32(viper.GetInt("argon2.memory")),
		uint8(viper.GetInt("argon2.threads")),
		uint32(viper.GetInt("argon2.key_length"))
}

func argonSaltLength() int {
	if n := viper.GetInt("argon2.salt_length"); n > 0 {
		return n
	}
	return 16
}
