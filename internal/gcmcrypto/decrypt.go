package gcmcrypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/ecdh"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"strings"

	"golang.org/x/crypto/hkdf"
)

// recordSize is the default Web Push record size (rs) when the sender
// doesn't otherwise negotiate one.
const recordSize = 4096

// gcmTagSize is the AES-128-GCM authentication tag length appended to every
// record.
const gcmTagSize = 16

var (
	webPushInfo              = []byte("WebPush: info\x00")
	contentEncryptionKeyInfo = []byte("Content-Encoding: aes128gcm\x00")
	nonceInfo                = []byte("Content-Encoding: nonce\x00")
)

// Kind classifies a decryption failure per the session's error taxonomy.
// None of these are fatal to an MCS session — the caller surfaces a
// DecryptError event for the offending message and keeps listening.
type Kind string

const (
	KindMalformedHeader Kind = "malformed_header"
	KindBadKey          Kind = "bad_key"
	KindAuthTag         Kind = "auth_tag"
)

// Error reports why Unwrap failed.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string { return fmt.Sprintf("gcmcrypto: %s: %v", e.Kind, e.Err) }
func (e *Error) Unwrap() error { return e.Err }

func malformed(format string, args ...any) error {
	return &Error{Kind: KindMalformedHeader, Err: fmt.Errorf(format, args...)}
}

func badKey(format string, args ...any) error {
	return &Error{Kind: KindBadKey, Err: fmt.Errorf(format, args...)}
}

func authTagFailure(err error) error {
	return &Error{Kind: KindAuthTag, Err: err}
}

// b64 decodes the permissive variants of base64url Google's servers emit:
// raw (no padding) is the common case, but padded input is tolerated too.
func b64(s string) ([]byte, error) {
	if data, err := base64.RawURLEncoding.DecodeString(s); err == nil {
		return data, nil
	}
	return base64.URLEncoding.DecodeString(s)
}

// ParseCryptoKeyHeader extracts the server's ephemeral P-256 public key from
// a DataMessage's "crypto-key" app_data value, e.g. "dh=BAbC...".
func ParseCryptoKeyHeader(header string) ([]byte, error) {
	dh, ok := findParam(header, "dh")
	if !ok {
		return nil, malformed("crypto-key header missing dh= parameter: %q", header)
	}
	key, err := b64(dh)
	if err != nil {
		return nil, malformed("crypto-key dh= is not valid base64: %w", err)
	}
	return key, nil
}

// ParseEncryptionHeader extracts the salt from a DataMessage's "encryption"
// app_data value, e.g. "salt=fZ..." or "salt=fZ...,salt=other" (only the
// first salt is honored, matching this client's documented behavior when a
// server lists more than one).
func ParseEncryptionHeader(header string) ([]byte, error) {
	salt, ok := findParam(header, "salt")
	if !ok {
		return nil, malformed("encryption header missing salt= parameter: %q", header)
	}
	decoded, err := b64(salt)
	if err != nil {
		return nil, malformed("encryption salt= is not valid base64: %w", err)
	}
	if len(decoded) != 16 {
		return nil, malformed("encryption salt must decode to 16 bytes, got %d", len(decoded))
	}
	return decoded, nil
}

// findParam extracts the first value of key=... from a ";" or ","
// separated header value.
func findParam(header, key string) (string, bool) {
	fields := strings.FieldsFunc(header, func(r rune) bool { return r == ';' || r == ',' })
	prefix := key + "="
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if v, ok := strings.CutPrefix(f, prefix); ok {
			return v, true
		}
	}
	return "", false
}

func hkdfExpand(length int, secret, salt, info []byte) ([]byte, error) {
	r := hkdf.New(sha256.New, secret, salt, info)
	out := make([]byte, length)
	if _, err := r.Read(out); err != nil {
		return nil, err
	}
	return out, nil
}

// Unwrap decrypts one DataMessage payload per RFC 8291 (key derivation) and
// RFC 8188 (aes128gcm content encoding). serverPublicKey is the server's
// ephemeral P-256 public key parsed from the crypto-key header, salt is from
// the encryption header, and ciphertext is raw_data.
//
// ciphertext may span multiple records of recordSize bytes each; the final,
// possibly-shorter record is decrypted on its own.
func Unwrap(receiverPrivateKey *ecdh.PrivateKey, authSecret [16]byte, serverPublicKey, salt, ciphertext []byte) ([]byte, error) {
	serverPub, err := ecdh.P256().NewPublicKey(serverPublicKey)
	if err != nil {
		return nil, badKey("invalid server ephemeral public key: %w", err)
	}

	sharedSecret, err := receiverPrivateKey.ECDH(serverPub)
	if err != nil {
		return nil, badKey("ECDH agreement failed: %w", err)
	}

	receiverPublicKeyBytes := receiverPrivateKey.PublicKey().Bytes()
	keyInfo := append(append([]byte{}, webPushInfo...), append(receiverPublicKeyBytes, serverPublicKey...)...)

	ikm, err := hkdfExpand(32, sharedSecret, authSecret[:], keyInfo)
	if err != nil {
		return nil, badKey("derive IKM: %w", err)
	}

	cek, err := hkdfExpand(16, ikm, salt, contentEncryptionKeyInfo)
	if err != nil {
		return nil, badKey("derive content encryption key: %w", err)
	}
	baseNonce, err := hkdfExpand(12, ikm, salt, nonceInfo)
	if err != nil {
		return nil, badKey("derive nonce: %w", err)
	}

	block, err := aes.NewCipher(cek)
	if err != nil {
		return nil, badKey("aes cipher: %w", err)
	}
	gcmCipher, err := cipher.NewGCM(block)
	if err != nil {
		return nil, badKey("gcm: %w", err)
	}

	var plaintext []byte
	for i, recordStart := 0, 0; recordStart < len(ciphertext); i++ {
		end := recordStart + recordSize
		if end > len(ciphertext) {
			end = len(ciphertext)
		}
		record := ciphertext[recordStart:end]
		if len(record) <= gcmTagSize {
			return nil, authTagFailure(fmt.Errorf("record %d too short (%d bytes)", i, len(record)))
		}

		nonce := recordNonce(baseNonce, uint64(i))
		plain, err := gcmCipher.Open(nil, nonce, record, nil)
		if err != nil {
			return nil, authTagFailure(err)
		}
		unpadded, err := stripPadding(plain)
		if err != nil {
			return nil, authTagFailure(fmt.Errorf("record %d: %w", i, err))
		}
		plaintext = append(plaintext, unpadded...)
		recordStart = end
	}

	return plaintext, nil
}

// stripPadding removes the RFC 8188 delimiter (0x02 for the final record,
// 0x01 for any record before it) and the zero padding that follows it,
// scanning backward from the end of the record for the first non-zero byte.
func stripPadding(record []byte) ([]byte, error) {
	for i := len(record) - 1; i >= 0; i-- {
		if record[i] != 0 {
			return record[:i], nil
		}
	}
	return nil, fmt.Errorf("no padding delimiter found")
}

// recordNonce XORs the record sequence number into the low 6 bytes of the
// base nonce, per RFC 8188 section 3.1.
func recordNonce(base []byte, seq uint64) []byte {
	nonce := append([]byte(nil), base...)
	var seqBytes [8]byte
	binary.BigEndian.PutUint64(seqBytes[:], seq)
	for i := 0; i < 6; i++ {
		nonce[len(nonce)-1-i] ^= seqBytes[7-i]
	}
	return nonce
}
