package crypto

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

func useMinCost(t *testing.T) {
	t.Helper()
	orig := hashCost
	hashCost = bcrypt.MinCost
	t.Cleanup(func() { hashCost = orig })
}

func TestHashAndCheckPassword(t *testing.T) {
	useMinCost(t)
	hash, err := HashPassword("Password123!")
	assert.NoError(t, err)
	assert.NotEmpty(t, hash)

	assert.True(t, CheckPassword("Password123!", hash))
	assert.False(t, CheckPassword("WrongPass", hash))
	assert.False(t, CheckPassword("Password123!", ""))
}

func TestValidatePasswordStrength(t *testing.T) {
	assert.NoError(t, ValidatePasswordStrength("escrow2026"))
	assert.ErrorIs(t, ValidatePasswordStrength("short1"), ErrWeakPassword)
	assert.ErrorIs(t, ValidatePasswordStrength("onlyletters"), ErrWeakPassword)
	assert.ErrorIs(t, ValidatePasswordStrength("1234567890"), ErrWeakPassword)
}

func TestHashPassword_Error(t *testing.T) {
	origBcrypt := bcryptGenerateFromPassword
	t.Cleanup(func() { bcryptGenerateFromPassword = origBcrypt })

	bcryptGenerateFromPassword = func([]byte, int) ([]byte, error) {
		return nil, errors.New("bcrypt failed")
	}
	_, err := HashPassword("Password123!")
	assert.Error(t, err)
}
