package security

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"math/big"

	"github.com/google/uuid"
)

// NewVerificationToken returns a collision-resistant opaque identifier
// linking an unverified account to its pending OTP challenge.
func NewVerificationToken() string {
	return uuid.NewString()
}

var otpSpace = big.NewInt(1_000_000)

// NewOTP draws a 6-digit one-time code uniformly over 000000-999999.
func NewOTP() (string, error) {
	n, err := rand.Int(rand.Reader, otpSpace)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func NewRandomString(bytes int) (string, error) {
	buf := make([]byte, bytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
