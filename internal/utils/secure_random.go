package utils

import (
	"crypto/rand"
	"encoding/base32"
	"encoding/hex"
	"fmt"
	"strings"
)

// GenerateSecureRandomString generates a cryptographically secure random string
// of the specified byte length, hex encoded. lengthInBytes=32 yields 64 hex chars.
func GenerateSecureRandomString(lengthInBytes int) (string, error) {
	if lengthInBytes <= 0 {
		return "", fmt.Errorf("lengthInBytes must be positive")
	}
	b := make([]byte, lengthInBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// codeEncoding drops the padding and uses upper-case base32 so codes survive
// being read over the phone or printed on a scratch card.
var codeEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// GenerateRechargeCode generates an unguessable recharge code string with the
// given prefix, e.g. "RC-3K7Q2M5ZJ4X6W9YB". 10 random bytes give 80 bits of
// entropy, which is enough that brute-forcing codes is not practical even
// without the rate limiter in front.
func GenerateRechargeCode(prefix string) (string, error) {
	b := make([]byte, 10)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	code := codeEncoding.EncodeToString(b)
	if prefix == "" {
		prefix = "RC"
	}
	return strings.ToUpper(prefix) + "-" + code, nil
}
