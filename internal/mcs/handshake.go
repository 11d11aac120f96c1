package mcs

import (
	"fmt"
	"strconv"

	"github.com/paradilldel90/fcmreceiver/internal/mcspb"
)

// Identity is the minimal set of credentials the login handshake needs.
type Identity struct {
	AndroidID     uint64
	SecurityToken uint64
}

// BuildLoginRequest constructs the LoginRequest this client sends as the
// first frame of every connection. The field values mirror what a real
// Android GCM client sends: the resource/user identify the device by its
// decimal android id, auth_token is the decimal security token, and
// received_persistent_id carries forward ids from a previous connection so
// the server knows not to redeliver them.
func BuildLoginRequest(id Identity, carriedPersistentIDs []string) *mcspb.LoginRequest {
	androidID := strconv.FormatUint(id.AndroidID, 10)
	clientID := fmt.Sprintf("android-%x", id.AndroidID)

	return &mcspb.LoginRequest{
		Id:                   mcspb.String("fcmreceiver-1.0"),
		Domain:               mcspb.String("mcs.android.com"),
		User:                 mcspb.String(androidID),
		Resource:             mcspb.String(androidID),
		AuthToken:            mcspb.String(strconv.FormatUint(id.SecurityToken, 10)),
		DeviceId:             mcspb.String(clientID),
		AuthService:          mcspb.AuthServiceAndroidID.Enum(),
		AccountId:            mcspb.Int64(1000000),
		UseRmq2:              mcspb.Bool(true),
		LastRmqId:            mcspb.Int64(1),
		ReceivedPersistentId: carriedPersistentIDs,
		NetworkType:          mcspb.Int32(1),
		AdaptiveHeartbeat:    mcspb.Bool(false),
		Setting: []*mcspb.Setting{
			{Name: mcspb.String("new_vc"), Value: mcspb.String("1")},
		},
	}
}

// ValidateLoginResponse checks the server's LoginResponse for an
// authentication failure and, if login succeeded, applies any negotiated
// heartbeat interval to session.
func ValidateLoginResponse(resp *mcspb.LoginResponse, session *Session) error {
	if resp.GetError() != nil {
		errInfo := resp.GetError()
		return fmt.Errorf("%w: %s (code %d)", ErrAuthFailed, errInfo.GetMessage(), errInfo.GetCode())
	}
	if cfg := resp.GetHeartbeatConfig(); cfg != nil && cfg.GetIntervalMs() > 0 {
		session.SetHeartbeatIntervalMS(int64(cfg.GetIntervalMs()))
	}
	session.SetLastStreamIDAckedByPeer(resp.GetLastStreamIdReceived())
	return nil
}
