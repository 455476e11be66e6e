package security

import (
	"crypto/rand"
	"fmt"
)

const codeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateShortCode produces a random uppercase alphanumeric code used for
// short links and referral codes.
func GenerateShortCode(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("length must be positive")
	}

	buff := make([]byte, length)
	if _, err := rand.Read(buff); err != nil {
		return "", err
	}
	result := make([]byte, length)
	for i, b := range buff {
		result[i] = codeCharset[int(b)%len(codeCharset)]
	}
	return string(result), nil
}
