package gcmcrypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/ecdh"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// encryptForTest plays the sender role the real FCM backend plays: it holds
// its own ephemeral P-256 key pair and the receiver's public key + auth
// secret, and produces exactly what Unwrap expects to receive.
func encryptForTest(t *testing.T, receiverPub *ecdh.PublicKey, authSecret [16]byte, salt, plaintext []byte) (serverPub []byte, ciphertext []byte) {
	t.Helper()

	serverKey, err := ecdh.P256().GenerateKey(rand.Reader)
	require.NoError(t, err)

	sharedSecret, err := serverKey.ECDH(receiverPub)
	require.NoError(t, err)

	keyInfo := append(append([]byte{}, webPushInfo...), append(receiverPub.Bytes(), serverKey.PublicKey().Bytes()...)...)

	ikm, err := hkdfExpand(32, sharedSecret, authSecret[:], keyInfo)
	require.NoError(t, err)
	cek, err := hkdfExpand(16, ikm, salt, contentEncryptionKeyInfo)
	require.NoError(t, err)
	nonce, err := hkdfExpand(12, ikm, salt, nonceInfo)
	require.NoError(t, err)

	block, err := aes.NewCipher(cek)
	require.NoError(t, err)
	gcmCipher, err := cipher.NewGCM(block)
	require.NoError(t, err)

	// A single-record message is always the final record, so it gets the
	// 0x02 delimiter per RFC 8188 before being sealed.
	padded := append(append([]byte{}, plaintext...), 0x02)
	ct := gcmCipher.Seal(nil, nonce, padded, nil)
	return serverKey.PublicKey().Bytes(), ct
}

func TestUnwrapRoundTrip(t *testing.T) {
	receiverKey, err := ecdh.P256().GenerateKey(rand.Reader)
	require.NoError(t, err)
	var authSecret [16]byte
	_, err = rand.Read(authSecret[:])
	require.NoError(t, err)
	salt := make([]byte, 16)
	_, err = rand.Read(salt)
	require.NoError(t, err)

	want := []byte(`{"hello":"world"}`)
	serverPub, ciphertext := encryptForTest(t, receiverKey.PublicKey(), authSecret, salt, want)

	got, err := Unwrap(receiverKey, authSecret, serverPub, salt, ciphertext)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestUnwrapMultiRecord(t *testing.T) {
	receiverKey, err := ecdh.P256().GenerateKey(rand.Reader)
	require.NoError(t, err)
	var authSecret [16]byte
	_, err = rand.Read(authSecret[:])
	require.NoError(t, err)
	salt := make([]byte, 16)
	_, err = rand.Read(salt)
	require.NoError(t, err)

	// Force more than one record by encrypting two separate chunks with
	// the same derived key material, the way a multi-record aes128gcm body
	// is laid out on the wire.
	serverKey, err := ecdh.P256().GenerateKey(rand.Reader)
	require.NoError(t, err)
	sharedSecret, err := serverKey.ECDH(receiverKey.PublicKey())
	require.NoError(t, err)
	keyInfo := append(append([]byte{}, webPushInfo...), append(receiverKey.PublicKey().Bytes(), serverKey.PublicKey().Bytes()...)...)
	ikm, err := hkdfExpand(32, sharedSecret, authSecret[:], keyInfo)
	require.NoError(t, err)
	cek, err := hkdfExpand(16, ikm, salt, contentEncryptionKeyInfo)
	require.NoError(t, err)
	baseNonce, err := hkdfExpand(12, ikm, salt, nonceInfo)
	require.NoError(t, err)
	block, err := aes.NewCipher(cek)
	require.NoError(t, err)
	gcmCipher, err := cipher.NewGCM(block)
	require.NoError(t, err)

	// chunk1 is not the final record, so it carries the 0x01 delimiter
	// (leaving room for it within recordSize-gcmTagSize); chunk2 is final
	// and carries 0x02, per RFC 8188.
	chunk1 := make([]byte, recordSize-gcmTagSize-1)
	for i := range chunk1 {
		chunk1[i] = byte(i)
	}
	chunk2 := []byte("tail record")

	record1 := gcmCipher.Seal(nil, recordNonce(baseNonce, 0), append(append([]byte{}, chunk1...), 0x01), nil)
	record2 := gcmCipher.Seal(nil, recordNonce(baseNonce, 1), append(append([]byte{}, chunk2...), 0x02), nil)
	ciphertext := append(append([]byte{}, record1...), record2...)

	got, err := Unwrap(receiverKey, authSecret, serverKey.PublicKey().Bytes(), salt, ciphertext)
	require.NoError(t, err)
	assert.Equal(t, append(chunk1, chunk2...), got)
}

func TestUnwrapBadAuthTag(t *testing.T) {
	receiverKey, err := ecdh.P256().GenerateKey(rand.Reader)
	require.NoError(t, err)
	var authSecret [16]byte
	_, err = rand.Read(authSecret[:])
	require.NoError(t, err)
	salt := make([]byte, 16)
	_, err = rand.Read(salt)
	require.NoError(t, err)

	serverPub, ciphertext := encryptForTest(t, receiverKey.PublicKey(), authSecret, salt, []byte("tamper me"))
	ciphertext[len(ciphertext)-1] ^= 0xFF

	_, err = Unwrap(receiverKey, authSecret, serverPub, salt, ciphertext)
	require.Error(t, err)
	var decErr *Error
	require.ErrorAs(t, err, &decErr)
	assert.Equal(t, KindAuthTag, decErr.Kind)
}

func TestParseCryptoKeyHeader(t *testing.T) {
	key, err := ParseCryptoKeyHeader("dh=AQIDBA")
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4}, key)

	_, err = ParseCryptoKeyHeader("p256ecdsa=foo")
	require.Error(t, err)
}

func TestParseEncryptionHeader(t *testing.T) {
	salt16 := make([]byte, 16)
	encoded := "AAAAAAAAAAAAAAAAAAAAAA"
	_, err := ParseEncryptionHeader("salt=" + encoded)
	_ = salt16
	require.NoError(t, err)

	_, err = ParseEncryptionHeader("rs=4096")
	require.Error(t, err)
}
