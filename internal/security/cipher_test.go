package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testKeyHex = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"
	testIVHex  = "30313233343536373839616263646566"
)

func newTestCipher(t *testing.T) *FieldCipher {
	t.Helper()

	c, err := NewFieldCipher(testKeyHex, testIVHex)
	require.NoError(t, err)
	return c
}

func TestFieldCipherRoundTrip(t *testing.T) {
	c := newTestCipher(t)

	for _, plaintext := range []string{
		"",
		"a",
		"ramesh@example.com",
		"+91 98765 43210",
		"Ångström straße 東京",
		strings.Repeat("x", 1000),
	} {
		encrypted, err := c.Encrypt(plaintext)
		require.NoError(t, err)

		decrypted, err := c.Decrypt(encrypted)
		require.NoError(t, err)
		assert.Equal(t, plaintext, decrypted)
	}
}

func TestFieldCipherDeterministic(t *testing.T) {
	c := newTestCipher(t)

	first, err := c.Encrypt("ramesh@example.com")
	require.NoError(t, err)
	second, err := c.Encrypt("ramesh@example.com")
	require.NoError(t, err)

	// Equality lookups on encrypted values depend on this.
	assert.Equal(t, first, second)
}

func TestNewFieldCipherRejectsBadKeyMaterial(t *testing.T) {
	_, err := NewFieldCipher("", testIVHex)
	assert.ErrorIs(t, err, ErrCipher)

	_, err = NewFieldCipher(testKeyHex, "")
	assert.ErrorIs(t, err, ErrCipher)

	_, err = NewFieldCipher("abcd", testIVHex)
	assert.ErrorIs(t, err, ErrCipher)

	_, err = NewFieldCipher("zz"+testKeyHex[2:], testIVHex)
	assert.ErrorIs(t, err, ErrCipher)

	_, err = NewFieldCipher(testKeyHex, "3031")
	assert.ErrorIs(t, err, ErrCipher)
}

func TestFieldCipherRejectsMalformedCiphertext(t *testing.T) {
	c := newTestCipher(t)

	_, err := c.Decrypt("not hex at all")
	assert.ErrorIs(t, err, ErrCipher)

	_, err = c.Decrypt("abcdef")
	assert.ErrorIs(t, err, ErrCipher)

	_, err = c.Decrypt("")
	assert.ErrorIs(t, err, ErrCipher)
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-password")
	require.NoError(t, err)
	assert.NotContains(t, hash, "s3cret-password")

	ok, err := VerifyPassword("s3cret-password", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("wrong-password", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}
