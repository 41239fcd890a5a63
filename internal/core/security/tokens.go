package security

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/google/uuid"
)

var ten = big.NewInt(10)

// NewActivationCode returns a numeric code of the given length drawn from
// crypto/rand.
func NewActivationCode(length int) (string, error) {
	buf := make([]byte, length)
	for i := range buf {
		n, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", fmt.Errorf("activation code: %w", err)
		}
		buf[i] = byte('0' + n.Int64())
	}
	return string(buf), nil
}

// NewResetToken returns an unguessable random token.
func NewResetToken() string {
	return uuid.NewString()
}

// IsActivationCode reports whether s has the shape of an activation code.
func IsActivationCode(s string, length int) bool {
	if len(s) != length {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// IsResetToken reports whether s has the shape of a reset token in its
// canonical hyphenated form.
func IsResetToken(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}
