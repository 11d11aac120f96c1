package fcmreceiver

import (
	"crypto/ecdh"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Credentials is everything Listen needs to reconnect without running
// Register again: the Android-style identity, the FCM token, the Web Push
// key pair used to decrypt messages, and the dedup state carried across
// reconnects.
type Credentials struct {
	AndroidID     uint64   `json:"android_id"`
	SecurityToken uint64   `json:"security_token"`
	FCMToken      string   `json:"fcm_token"`
	PrivateKey    string   `json:"private_key"` // base64url, raw P-256 scalar
	PublicKey     string   `json:"public_key"`  // base64url, uncompressed point
	AuthSecret    string   `json:"auth_secret"` // base64url, 16 bytes
	PersistentIDs []string `json:"persistent_ids,omitempty"`
}

// ECDHPrivateKey parses PrivateKey back into a usable key, e.g. to pass to
// the decryption path.
func (c *Credentials) ECDHPrivateKey() (*ecdh.PrivateKey, error) {
	raw, err := base64.RawURLEncoding.DecodeString(c.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("decode private key: %w", err)
	}
	key, err := ecdh.P256().NewPrivateKey(raw)
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}
	return key, nil
}

// AuthSecretBytes decodes AuthSecret into the fixed-size array the
// decryption path expects.
func (c *Credentials) AuthSecretBytes() ([16]byte, error) {
	var out [16]byte
	raw, err := base64.RawURLEncoding.DecodeString(c.AuthSecret)
	if err != nil {
		return out, fmt.Errorf("decode auth secret: %w", err)
	}
	if len(raw) != 16 {
		return out, fmt.Errorf("auth secret must be 16 bytes, got %d", len(raw))
	}
	copy(out[:], raw)
	return out, nil
}

func credentialsPath(sessionDir string) string {
	return filepath.Join(sessionDir, "fcm_credentials.json")
}

// LoadCredentials reads previously-saved Credentials from sessionDir. The
// error satisfies os.IsNotExist when no credentials have been saved yet.
func LoadCredentials(sessionDir string) (*Credentials, error) {
	data, err := os.ReadFile(credentialsPath(sessionDir))
	if err != nil {
		return nil, err
	}
	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("parsing saved credentials: %w", err)
	}
	return &creds, nil
}

// SaveCredentials persists creds to sessionDir, creating it if needed.
func SaveCredentials(sessionDir string, creds *Credentials) error {
	if err := os.MkdirAll(sessionDir, 0o755); err != nil {
		return fmt.Errorf("creating session directory: %w", err)
	}
	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return fmt.Errorf("serializing credentials: %w", err)
	}
	if err := os.WriteFile(credentialsPath(sessionDir), data, 0o600); err != nil {
		return fmt.Errorf("writing credentials: %w", err)
	}
	return nil
}
