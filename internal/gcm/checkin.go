package gcm

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/paradilldel90/fcmreceiver/internal/checkinpb"
)

// checkinURL is a package-level var so tests can point it at a fake server.
var checkinURL = "https://android.clients.google.com/checkin"

// Identity is the (android_id, security_token) pair minted by checkin.
type Identity struct {
	AndroidID     uint64
	SecurityToken uint64
}

// Checkin performs an Android device checkin. If existing is non-nil and
// non-zero it is sent as a re-checkin of that identity; otherwise the
// server mints a fresh android_id/security_token pair.
func Checkin(ctx context.Context, httpClient *http.Client, device DeviceProfile, existing *Identity) (Identity, error) {
	clientID := "android-google"
	req := &checkinpb.AndroidCheckinRequest{
		Checkin: &checkinpb.AndroidCheckinProto{
			Type: checkinpb.DeviceTypeAndroidOS.Enum(),
			Build: &checkinpb.AndroidBuildProto{
				Fingerprint:        strPtr(device.BuildFingerprint),
				Hardware:           strPtr(device.Hardware),
				Brand:              strPtr(device.Brand),
				Radio:              strPtr(device.Radio),
				Bootloader:         strPtr(device.Bootloader),
				ClientId:           strPtr(clientID),
				Time:               i64Ptr(device.BuildTime),
				PackageVersionCode: i32Ptr(int32(device.GMSVersion)),
				Device:             strPtr(device.Device),
				SdkVersion:         i32Ptr(int32(device.SDKVersion)),
				Model:              strPtr(device.Model),
				Manufacturer:       strPtr(device.Manufacturer),
				Product:            strPtr(device.Product),
				OtaInstalled:       boolPtr(false),
			},
		},
		Version:          i32Ptr(3),
		Fragment:         i32Ptr(0),
		Locale:           strPtr("en_US"),
		TimeZone:         strPtr("America/New_York"),
		UserSerialNumber: i32Ptr(0),
	}

	if existing != nil && existing.AndroidID != 0 {
		id := int64(existing.AndroidID)
		req.Id = &id
		req.SecurityToken = &existing.SecurityToken
	}

	body, err := req.Marshal()
	if err != nil {
		return Identity{}, fmt.Errorf("gcm: marshal checkin request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, checkinURL, bytes.NewReader(body))
	if err != nil {
		return Identity{}, fmt.Errorf("gcm: build checkin request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-protobuf")

	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return Identity{}, fmt.Errorf("gcm: checkin: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return Identity{}, fmt.Errorf("gcm: read checkin response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return Identity{}, fmt.Errorf("gcm: checkin HTTP %d: %s", resp.StatusCode, string(respBody))
	}

	var checkinResp checkinpb.AndroidCheckinResponse
	if err := checkinResp.Unmarshal(respBody); err != nil {
		return Identity{}, fmt.Errorf("gcm: unmarshal checkin response: %w", err)
	}

	return Identity{
		AndroidID:     uint64(checkinResp.GetAndroidId()),
		SecurityToken: checkinResp.GetSecurityToken(),
	}, nil
}

func strPtr(v string) *string { return &v }
func i32Ptr(v int32) *int32   { return &v }
func i64Ptr(v int64) *int64   { return &v }
func boolPtr(v bool) *bool    { return &v }
