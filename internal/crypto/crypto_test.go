package crypto

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	svc, err := NewService(bytes.Repeat([]byte{0x01}, 32), bytes.Repeat([]byte{0x02}, 32))
	require.NoError(t, err)
	return svc
}

func TestNewServiceRejectsBadKeys(t *testing.T) {
	_, err := NewService([]byte("short"), bytes.Repeat([]byte{0x02}, 32))
	assert.Error(t, err)
	_, err = NewService(bytes.Repeat([]byte{0x01}, 32), []byte("short"))
	assert.Error(t, err)
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	svc := newTestService(t)

	ciphertext, err := svc.Encrypt("I had a rough day at work")
	require.NoError(t, err)
	assert.NotEqual(t, "I had a rough day at work", ciphertext)

	plaintext, err := svc.Decrypt(ciphertext)
	require.NoError(t, err)
	assert.Equal(t, "I had a rough day at work", plaintext)
}

func TestEncryptEmptyStaysEmpty(t *testing.T) {
	svc := newTestService(t)

	ciphertext, err := svc.Encrypt("")
	require.NoError(t, err)
	assert.Empty(t, ciphertext)

	plaintext, err := svc.Decrypt("")
	require.NoError(t, err)
	assert.Empty(t, plaintext)
}

func TestDecryptRejectsTamperedCiphertext(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Decrypt("not base64!!")
	assert.Error(t, err)

	_, err = svc.Decrypt("c2hvcnQ=") // valid base64, shorter than a nonce
	assert.Error(t, err)
}

func TestBlindIndexDeterministic(t *testing.T) {
	svc := newTestService(t)

	first := svc.BlindIndex("user@example.com")
	second := svc.BlindIndex("user@example.com")
	assert.Equal(t, first, second)
	assert.NotEmpty(t, first)
	assert.NotEqual(t, first, svc.BlindIndex("other@example.com"))
	assert.Empty(t, svc.BlindIndex(""))
}

func TestEncryptWithBlindIndex(t *testing.T) {
	svc := newTestService(t)

	encrypted, blindIndex, err := svc.EncryptWithBlindIndex("user@example.com")
	require.NoError(t, err)
	assert.Equal(t, svc.BlindIndex("user@example.com"), blindIndex)

	plaintext, err := svc.Decrypt(encrypted)
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", plaintext)
}
