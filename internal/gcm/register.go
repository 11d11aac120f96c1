package gcm

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// registerURL is a package-level var so tests can point it at a fake server.
var registerURL = "https://android.clients.google.com/c2dm/register3"

// AppIdentity identifies the application registering for push delivery.
type AppIdentity struct {
	// PackageID is the Android application id (e.g. "com.example.app"),
	// sent as both "app" and "X-subtype".
	PackageID string
	// SenderID is the Firebase/GCM project sender id ("project_number").
	SenderID string
	// CertSHA1 is the APK signing certificate SHA-1, hex encoded.
	CertSHA1 string
	// AppVersionCode is the application's versionCode.
	AppVersionCode int
}

// generateInstanceID mimics Android's GCM instance-id generation: an
// 11-character hex string used as X-appid, derived from a fresh UUID
// rather than a dedicated random source since nothing about it needs to
// be cryptographically unpredictable, just unique per registration.
func generateInstanceID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:11]
}

// Register exchanges a checkin identity for a GCM registration token by
// POSTing to c2dm/register3, the way a real device does for its first FCM
// token. For Android-native registration the returned token already is a
// usable sender token; web-style callers still chain it through
// InstallAndRegister.
func Register(ctx context.Context, httpClient *http.Client, id Identity, device DeviceProfile, app AppIdentity) (string, error) {
	instanceID := generateInstanceID()

	form := url.Values{
		"app":      {app.PackageID},
		"sender":   {app.SenderID},
		"device":   {strconv.FormatUint(id.AndroidID, 10)},
		"cert":     {app.CertSHA1},
		"app_ver":  {strconv.Itoa(app.AppVersionCode)},
		"gcm_ver":  {strconv.Itoa(device.GMSVersion)},
		"X-scope":  {"GCM"},
		"X-subtype": {app.PackageID},
		"X-appid":  {instanceID},
		"X-osv":    {strconv.Itoa(device.SDKVersion)},
		"X-gmsv":   {strconv.Itoa(device.GMSVersion)},
		"X-cliv":   {"iid-" + device.ChromeVersion},
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, registerURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("gcm: build register request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.Header.Set("Authorization", fmt.Sprintf("AidLogin %d:%d", id.AndroidID, id.SecurityToken))
	httpReq.Header.Set("User-Agent", fmt.Sprintf("Android-GCM/1.5 (%s %s)", device.Device, device.Model))
	httpReq.Header.Set("app", app.PackageID)

	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("gcm: register: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("gcm: read register response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gcm: register HTTP %d: %s", resp.StatusCode, string(respBody))
	}

	body := string(respBody)
	if token, found := strings.CutPrefix(body, "token="); found {
		return strings.TrimSpace(token), nil
	}
	return "", fmt.Errorf("gcm: register: unexpected response: %s", body)
}
