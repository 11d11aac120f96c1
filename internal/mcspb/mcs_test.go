package mcspb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginRequestRoundTrip(t *testing.T) {
	req := &LoginRequest{
		Id:                   String("android-3039"),
		Domain:               String("mcs.android.com"),
		User:                 String("12345"),
		Resource:             String("12345"),
		AuthToken:            String("67890"),
		DeviceId:             String("android-3039"),
		AuthService:          AuthServiceAndroidID.Enum(),
		AccountId:            Int64(1000000),
		UseRmq2:              Bool(true),
		LastRmqId:            Int64(1),
		ReceivedPersistentId: []string{"p1", "p2"},
		NetworkType:          Int32(1),
		AdaptiveHeartbeat:    Bool(false),
		Setting:              []*Setting{{Name: String("new_vc"), Value: String("1")}},
	}

	data, err := req.Marshal()
	require.NoError(t, err)

	got := &LoginRequest{}
	require.NoError(t, got.Unmarshal(data))

	assert.Equal(t, "android-3039", *got.Id)
	assert.Equal(t, "mcs.android.com", *got.Domain)
	assert.Equal(t, "12345", *got.User)
	assert.Equal(t, "67890", *got.AuthToken)
	assert.True(t, *got.UseRmq2)
	assert.Equal(t, int64(1), *got.LastRmqId)
	assert.Equal(t, AuthServiceAndroidID, *got.AuthService)
	assert.Equal(t, []string{"p1", "p2"}, got.ReceivedPersistentId)
	require.Len(t, got.Setting, 1)
	assert.Equal(t, "new_vc", got.Setting[0].GetName())
}

func TestLoginResponseRoundTripWithError(t *testing.T) {
	resp := &LoginResponse{
		Id:  String("server-1"),
		Jid: String("12345@mcs.android.com"),
		Error: &ErrorInfo{
			Code:    Int32(401),
			Message: String("authentication failure"),
		},
		HeartbeatConfig: &HeartbeatConfig{IntervalMs: Int32(60000)},
	}

	data, err := resp.Marshal()
	require.NoError(t, err)

	got := &LoginResponse{}
	require.NoError(t, got.Unmarshal(data))

	assert.Equal(t, "server-1", got.GetId())
	require.NotNil(t, got.GetError())
	assert.Equal(t, int32(401), got.GetError().GetCode())
	assert.Equal(t, int32(60000), got.GetHeartbeatConfig().GetIntervalMs())
}

func TestDataMessageStanzaRoundTrip(t *testing.T) {
	msg := &DataMessageStanza{
		From:         String("sender"),
		Category:     String("com.example.app"),
		PersistentId: String("persistent-123"),
		AppData: []*AppData{
			{Key: String("crypto-key"), Value: String("dh=AAAA")},
			{Key: String("encryption"), Value: String("salt=BBBB")},
		},
		RawData: []byte{0x01, 0x02, 0x03},
	}

	data, err := msg.Marshal()
	require.NoError(t, err)

	got := &DataMessageStanza{}
	require.NoError(t, got.Unmarshal(data))

	assert.Equal(t, "persistent-123", got.GetPersistentId())
	assert.Equal(t, []byte{0x01, 0x02, 0x03}, got.GetRawData())
	require.Len(t, got.GetAppData(), 2)
	assert.Equal(t, "crypto-key", got.GetAppData()[0].GetKey())
}

func TestUnknownFieldsAreSkipped(t *testing.T) {
	// A HeartbeatAck with an extra unknown field (number 99) should still parse.
	ack := &HeartbeatAck{StreamId: Int32(3)}
	data, err := ack.Marshal()
	require.NoError(t, err)
	data = appendString(data, 99, String("unexpected"))

	got := &HeartbeatAck{}
	require.NoError(t, got.Unmarshal(data))
	assert.Equal(t, int32(3), got.GetStreamId())
}
