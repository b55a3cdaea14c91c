package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryptStringRoundTrip(t *testing.T) {
	key, err := KeyFromString("a-session-key-from-the-environment")
	require.NoError(t, err)
	enc, err := NewAESEncryptor(key)
	require.NoError(t, err)

	sealed, err := EncryptString(enc, "remote-session-secret")
	require.NoError(t, err)
	assert.NotContains(t, sealed, "remote-session-secret")

	plain, err := DecryptString(enc, sealed)
	require.NoError(t, err)
	assert.Equal(t, "remote-session-secret", plain)
}

func TestDecryptWithWrongKeyFails(t *testing.T) {
	k1, _ := KeyFromString("first")
	k2, _ := KeyFromString("second")
	e1, _ := NewAESEncryptor(k1)
	e2, _ := NewAESEncryptor(k2)

	sealed, err := EncryptString(e1, "secret")
	require.NoError(t, err)

	_, err = DecryptString(e2, sealed)
	assert.ErrorIs(t, err, ErrDecryption)
}

func TestKeyFromString(t *testing.T) {
	_, err := KeyFromString("")
	assert.ErrorIs(t, err, ErrInvalidKeySize)

	hexKey := strings.Repeat("ab", 32)
	key, err := KeyFromString(hexKey)
	require.NoError(t, err)
	assert.Len(t, key, 32)
	assert.Equal(t, byte(0xab), key[0])

	_, err = NewAESEncryptor([]byte("short"))
	assert.ErrorIs(t, err, ErrInvalidKeySize)
}
