package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateSecureRandomString(t *testing.T) {
	s, err := GenerateSecureRandomString(32)
	assert.NoError(t, err)
	assert.Len(t, s, 64, "32 bytes hex encode to 64 characters")

	other, err := GenerateSecureRandomString(32)
	assert.NoError(t, err)
	assert.NotEqual(t, s, other)

	_, err = GenerateSecureRandomString(0)
	assert.Error(t, err)
}

func TestGenerateRechargeCode(t *testing.T) {
	code, err := GenerateRechargeCode("")
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(code, "RC-"), "default prefix is RC, got %s", code)
	// 10 bytes of base32 without padding encode to 16 characters.
	assert.Len(t, code, len("RC-")+16)
	assert.Equal(t, code, strings.ToUpper(code))
	assert.NotContains(t, code, "=")
}

func TestGenerateRechargeCode_CustomPrefix(t *testing.T) {
	code, err := GenerateRechargeCode("promo")
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(code, "PROMO-"), "prefix is upper-cased, got %s", code)
}

func TestGenerateRechargeCode_Uniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		code, err := GenerateRechargeCode("")
		assert.NoError(t, err)
		assert.False(t, seen[code], "duplicate code %s", code)
		seen[code] = true
	}
}
