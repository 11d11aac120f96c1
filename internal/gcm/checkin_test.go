package gcm

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/paradilldel90/fcmreceiver/internal/checkinpb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckin(t *testing.T) {
	var receivedBody []byte

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/x-protobuf", r.Header.Get("Content-Type"))

		var err error
		receivedBody, err = io.ReadAll(r.Body)
		require.NoError(t, err)

		resp := &checkinpb.AndroidCheckinResponse{
			StatsOk:       boolPtr(true),
			AndroidId:     i64Ptr(123456789),
			SecurityToken: func() *uint64 { v := uint64(987654321); return &v }(),
		}
		data, err := resp.Marshal()
		require.NoError(t, err)
		w.Header().Set("Content-Type", "application/x-protobuf")
		w.Write(data)
	}))
	defer srv.Close()

	origURL := checkinURL
	checkinURL = srv.URL
	defer func() { checkinURL = origURL }()

	device := DefaultDeviceProfile()
	id, err := Checkin(context.Background(), srv.Client(), device, nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(123456789), id.AndroidID)
	assert.Equal(t, uint64(987654321), id.SecurityToken)

	var req checkinpb.AndroidCheckinRequest
	require.NoError(t, req.Unmarshal(receivedBody))
	assert.Equal(t, checkinpb.DeviceTypeAndroidOS, *req.Checkin.Type)
	assert.Equal(t, int32(3), *req.Version)
	assert.Equal(t, "en_US", *req.Locale)
	assert.Equal(t, device.BuildFingerprint, *req.Checkin.Build.Fingerprint)
	assert.Equal(t, int32(device.SDKVersion), *req.Checkin.Build.SdkVersion)
	assert.Nil(t, req.Id, "fresh checkin must not carry an existing android id")
}

func TestCheckinRecheckin(t *testing.T) {
	var receivedBody []byte

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var err error
		receivedBody, err = io.ReadAll(r.Body)
		require.NoError(t, err)

		resp := &checkinpb.AndroidCheckinResponse{
			AndroidId:     i64Ptr(111),
			SecurityToken: func() *uint64 { v := uint64(222); return &v }(),
		}
		data, _ := resp.Marshal()
		w.Write(data)
	}))
	defer srv.Close()

	origURL := checkinURL
	checkinURL = srv.URL
	defer func() { checkinURL = origURL }()

	device := DefaultDeviceProfile()
	id, err := Checkin(context.Background(), srv.Client(), device, &Identity{AndroidID: 111, SecurityToken: 222})
	require.NoError(t, err)
	assert.Equal(t, uint64(111), id.AndroidID)

	var req checkinpb.AndroidCheckinRequest
	require.NoError(t, req.Unmarshal(receivedBody))
	assert.Equal(t, int64(111), *req.Id)
	assert.Equal(t, uint64(222), *req.SecurityToken)
}

func TestCheckinHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("internal error"))
	}))
	defer srv.Close()

	origURL := checkinURL
	checkinURL = srv.URL
	defer func() { checkinURL = origURL }()

	_, err := Checkin(context.Background(), srv.Client(), DefaultDeviceProfile(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}
