package gcm

import (
	"bytes"
	"context"
	"crypto/ecdh"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// installationsURLFmt and registrationsURLFmt are package-level vars so tests can
// point them at a fake server.
var (
	installationsURLFmt = "https://firebaseinstallations.googleapis.com/v1/projects/%s/installations"
	registrationsURLFmt = "https://fcmregistrations.googleapis.com/v1/projects/%s/registrations"
)

// FirebaseApp identifies the Firebase project the installation is minted
// for (distinct from AppIdentity, which identifies the Android package).
type FirebaseApp struct {
	ProjectID string
	APIKey    string
	AppID     string // Firebase "gmp_app_id", e.g. "1:1234567890:android:abcdef"
}

// Keys is the receiver's ECIES key material: a P-256 key pair plus a random
// authentication secret, both generated fresh per installation per RFC 8291.
type Keys struct {
	PrivateKey *ecdh.PrivateKey
	AuthSecret [16]byte
}

// PublicKeyBase64URL returns the uncompressed P-256 public key, base64url
// encoded without padding, as carried in a Web Push subscription's p256dh.
func (k Keys) PublicKeyBase64URL() string {
	return base64.RawURLEncoding.EncodeToString(k.PrivateKey.PublicKey().Bytes())
}

// AuthSecretBase64URL returns the auth secret, base64url encoded without
// padding, as carried in a Web Push subscription's auth.
func (k Keys) AuthSecretBase64URL() string {
	return base64.RawURLEncoding.EncodeToString(k.AuthSecret[:])
}

// GenerateKeys creates a fresh P-256 key pair and 16-byte auth secret.
func GenerateKeys() (Keys, error) {
	priv, err := ecdh.P256().GenerateKey(rand.Reader)
	if err != nil {
		return Keys{}, fmt.Errorf("gcm: generate ECDH key pair: %w", err)
	}
	var secret [16]byte
	if _, err := io.ReadFull(rand.Reader, secret[:]); err != nil {
		return Keys{}, fmt.Errorf("gcm: generate auth secret: %w", err)
	}
	return Keys{PrivateKey: priv, AuthSecret: secret}, nil
}

// generateFID creates a Firebase Installation ID: 17 random bytes with the
// top nibble of the first byte forced to 0111 (the FID version marker),
// base64url encoded without padding.
// https://github.com/firebase/firebase-js-sdk/blob/master/packages/installations/src/helpers/generate-fid.ts
func generateFID() (string, error) {
	buf := make([]byte, 17)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("gcm: generate installation id: %w", err)
	}
	buf[0] = 0b01110000 | (buf[0] & 0b00001111)
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

type installationResponse struct {
	Fid       string `json:"fid"`
	AuthToken struct {
		Token string `json:"token"`
	} `json:"authToken"`
}

// createInstallation registers a fresh Firebase installation and returns the
// auth token used to authorize the subsequent FCM registration call.
func createInstallation(ctx context.Context, httpClient *http.Client, app FirebaseApp) (fid, authToken string, err error) {
	fid, err = generateFID()
	if err != nil {
		return "", "", err
	}

	reqBody, err := json.Marshal(map[string]any{
		"fid":         fid,
		"appId":       app.AppID,
		"authVersion": "FIS_v2",
		"sdkVersion":  "a:17.0.0",
	})
	if err != nil {
		return "", "", fmt.Errorf("gcm: marshal installation request: %w", err)
	}

	url := fmt.Sprintf(installationsURLFmt, app.ProjectID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return "", "", fmt.Errorf("gcm: build installation request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", app.APIKey)

	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return "", "", fmt.Errorf("gcm: installation request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", "", fmt.Errorf("gcm: read installation response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("gcm: installation HTTP %d: %s", resp.StatusCode, string(respBody))
	}

	var parsed installationResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", "", fmt.Errorf("gcm: unmarshal installation response: %w", err)
	}
	if parsed.AuthToken.Token == "" {
		return "", "", fmt.Errorf("gcm: installation response missing auth token")
	}
	return parsed.Fid, parsed.AuthToken.Token, nil
}

type registrationResponse struct {
	Token string `json:"token"`
}

// registerFCMToken exchanges a GCM registration token plus the receiver's
// Web Push key material for the application-facing FCM token.
func registerFCMToken(ctx context.Context, httpClient *http.Client, app FirebaseApp, fid, installAuthToken, gcmToken string, keys Keys) (string, error) {
	reqBody, err := json.Marshal(map[string]any{
		"web": map[string]any{
			"applicationPubKey": "",
			"auth":              keys.AuthSecretBase64URL(),
			"endpoint":          fmt.Sprintf("https://fcm.googleapis.com/fcm/send/%s", gcmToken),
			"p256dh":            keys.PublicKeyBase64URL(),
		},
	})
	if err != nil {
		return "", fmt.Errorf("gcm: marshal registration request: %w", err)
	}

	url := fmt.Sprintf(registrationsURLFmt, app.ProjectID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return "", fmt.Errorf("gcm: build registration request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", app.APIKey)
	httpReq.Header.Set("x-goog-firebase-installations-auth", installAuthToken)

	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("gcm: registration request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("gcm: read registration response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gcm: registration HTTP %d: %s", resp.StatusCode, string(respBody))
	}

	var parsed registrationResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("gcm: unmarshal registration response: %w", err)
	}
	if parsed.Token == "" {
		return "", fmt.Errorf("gcm: registration response missing token")
	}
	return parsed.Token, nil
}

// InstallAndRegister performs the Firebase Installations + FCM registrations
// exchange (spec step 3): it mints an installation, generates a fresh P-256
// key pair and auth secret, and trades the GCM token for the application
// -facing FCM token.
func InstallAndRegister(ctx context.Context, httpClient *http.Client, app FirebaseApp, gcmToken string) (fcmToken string, keys Keys, err error) {
	keys, err = GenerateKeys()
	if err != nil {
		return "", Keys{}, err
	}

	fid, authToken, err := createInstallation(ctx, httpClient, app)
	if err != nil {
		return "", Keys{}, fmt.Errorf("gcm: create installation: %w", err)
	}

	fcmToken, err = registerFCMToken(ctx, httpClient, app, fid, authToken, gcmToken, keys)
	if err != nil {
		return "", Keys{}, fmt.Errorf("gcm: register fcm token: %w", err)
	}
	return fcmToken, keys, nil
}
