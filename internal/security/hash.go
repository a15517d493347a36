package security

import (
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/crypto/bcrypt"
)

func HashPassword(plain string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

func CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// HashOTP stores one-time codes the same way refresh tokens are stored
// elsewhere: never in the clear.
func HashOTP(code, email string) string {
	h := sha256.Sum256([]byte(code + ":" + email))
	return hex.EncodeToString(h[:])
}
