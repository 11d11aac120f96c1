package mcs

import (
	"context"
	"crypto/ecdh"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/paradilldel90/fcmreceiver/internal/gcmcrypto"
	"github.com/paradilldel90/fcmreceiver/internal/mcspb"
)

// DataMessage is a decoded, decrypted (when encrypted) push payload handed
// up to the application.
type DataMessage struct {
	From         string
	Category     string
	PersistentID string
	Payload      []byte
}

// DecryptFailure reports that a DataMessageStanza's raw_data could not be
// unwrapped. The stream keeps running — this is scoped to one message.
type DecryptFailure struct {
	PersistentID string
	Err          error
}

// Callbacks are invoked synchronously from the stream loop's goroutine;
// implementations must not block.
type Callbacks struct {
	OnConnected    func(heartbeatIntervalMS int64)
	OnDataMessage  func(DataMessage)
	OnDecryptError func(DecryptFailure)
	OnHeartbeat    func()
}

// Keys are the receiver's Web Push key material, used to unwrap encrypted
// DataMessageStanza.raw_data payloads.
type Keys struct {
	PrivateKey *ecdh.PrivateKey
	AuthSecret [16]byte
}

// StreamLoop owns one live MCS connection: it drives the login handshake,
// answers heartbeats, decrypts and surfaces data messages, and reports why
// the connection ended so the Supervisor can decide whether to retry.
type StreamLoop struct {
	conn     net.Conn
	session  *Session
	identity Identity
	keys     Keys
	logger   *slog.Logger
	cb       Callbacks

	writeMu      sync.Mutex
	lastActivity time.Time
	activityMu   sync.Mutex
}

// NewStreamLoop wraps an already-dialed, already-TLS-handshaken connection.
func NewStreamLoop(conn net.Conn, session *Session, identity Identity, keys Keys, logger *slog.Logger, cb Callbacks) *StreamLoop {
	if logger == nil {
		logger = slog.Default()
	}
	return &StreamLoop{conn: conn, session: session, identity: identity, keys: keys, logger: logger, cb: cb}
}

func (l *StreamLoop) touch() {
	l.activityMu.Lock()
	l.lastActivity = time.Now()
	l.activityMu.Unlock()
}

func (l *StreamLoop) idleFor() time.Duration {
	l.activityMu.Lock()
	defer l.activityMu.Unlock()
	return time.Since(l.lastActivity)
}

func (l *StreamLoop) writeFrame(tag Tag, msg mcspb.Message, includeVersion bool) error {
	l.writeMu.Lock()
	defer l.writeMu.Unlock()
	return WriteFrame(l.conn, tag, msg, includeVersion)
}

// Run drives the connection until ctx is canceled or an unrecoverable
// protocol/auth error occurs. It always closes conn before returning.
func (l *StreamLoop) Run(ctx context.Context) error {
	defer l.conn.Close()

	parentCtx := ctx
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	closedByCaller := make(chan struct{})
	go func() {
		defer close(closedByCaller)
		select {
		case <-parentCtx.Done():
			// Best-effort: tell the peer we're leaving before dropping the
			// socket. The write gets one second; if it can't complete the
			// connection is likely already dead, so the error is not
			// actionable.
			_ = l.conn.SetWriteDeadline(time.Now().Add(time.Second))
			_ = l.writeFrame(TagClose, &mcspb.Close{}, false)
			l.conn.Close()
		case <-ctx.Done():
		}
	}()

	req := BuildLoginRequest(l.identity, l.session.PersistentIDs())
	l.session.SetState(StateHandshakeSent)
	if err := l.writeFrame(TagLoginRequest, req, true); err != nil {
		return fmt.Errorf("send login: %w", err)
	}
	l.touch()

	tag, msg, err := ReadFrame(l.conn, true)
	if err != nil {
		return fmt.Errorf("read login response: %w", err)
	}
	if tag != TagLoginResponse {
		return fmt.Errorf("%w: first frame was tag %s, not LoginResponse", ErrProtocolViolation, tag)
	}
	loginResp, ok := msg.(*mcspb.LoginResponse)
	if !ok || loginResp == nil {
		return fmt.Errorf("%w: malformed LoginResponse", ErrProtocolViolation)
	}
	if err := ValidateLoginResponse(loginResp, l.session); err != nil {
		return err
	}
	l.session.SetState(StateLoginOK)
	l.session.ResetLastStreamIDReceived()
	l.touch()

	interval := time.Duration(l.session.HeartbeatIntervalMS()) * time.Millisecond
	if l.cb.OnConnected != nil {
		l.cb.OnConnected(l.session.HeartbeatIntervalMS())
	}

	heartbeatErrCh := make(chan error, 1)
	go l.heartbeatLoop(ctx, interval, heartbeatErrCh)

	readErrCh := make(chan error, 1)
	go func() { readErrCh <- l.readLoop(ctx) }()

	select {
	case err := <-readErrCh:
		return err
	case err := <-heartbeatErrCh:
		return err
	case <-parentCtx.Done():
		// Wait for the best-effort Close frame to be attempted before
		// returning, so the caller can rely on it having been tried.
		<-closedByCaller
		return parentCtx.Err()
	}
}

// heartbeatLoop sends periodic pings and declares the connection dead if no
// frame of any kind has arrived within twice the negotiated interval.
func (l *StreamLoop) heartbeatLoop(ctx context.Context, interval time.Duration, errCh chan<- error) {
	if interval <= 0 {
		interval = 60 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if l.idleFor() > 2*interval {
				errCh <- fmt.Errorf("%w: no frame in %s", ErrHeartbeatTimeout, l.idleFor())
				return
			}
			ping := &mcspb.HeartbeatPing{}
			if err := l.writeFrame(TagHeartbeatPing, ping, false); err != nil {
				errCh <- fmt.Errorf("send heartbeat ping: %w", err)
				return
			}
			if l.cb.OnHeartbeat != nil {
				l.cb.OnHeartbeat()
			}
		}
	}
}

// readLoop consumes frames until the connection closes or a fatal frame
// (Close, StreamErrorStanza, malformed data) is seen.
func (l *StreamLoop) readLoop(ctx context.Context) error {
	for {
		tag, msg, err := ReadFrame(l.conn, false)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if err == io.EOF {
				return fmt.Errorf("mcs: connection closed: %w", io.ErrUnexpectedEOF)
			}
			return err
		}
		l.touch()

		// Every inbound frame counts toward last_stream_id_received,
		// regardless of tag — this is a locally maintained count of frames
		// seen since the LoginResponse, not an echo of anything the peer
		// sends.
		streamID := l.session.IncrementLastStreamIDReceived()

		if err := l.handleFrame(tag, msg, streamID); err != nil {
			return err
		}
	}
}

func (l *StreamLoop) handleFrame(tag Tag, msg mcspb.Message, streamID int32) error {
	switch tag {
	case TagHeartbeatPing:
		ack := &mcspb.HeartbeatAck{LastStreamIdReceived: mcspb.Int32(streamID)}
		return l.writeFrame(TagHeartbeatAck, ack, false)

	case TagHeartbeatAck:
		l.logger.Debug("heartbeat ack received")
		return nil

	case TagClose:
		l.session.SetState(StateDraining)
		l.session.SetState(StateClosed)
		return ErrClosedByServer

	case TagLoginResponse:
		return fmt.Errorf("%w: unexpected LoginResponse after login", ErrProtocolViolation)

	case TagIqStanza:
		l.logger.Debug("iq stanza ignored")
		return nil

	case TagStreamErrorStanza:
		se, _ := msg.(*mcspb.StreamErrorStanza)
		return fmt.Errorf("mcs: stream error: type=%s text=%s code=%d", se.GetType(), se.GetText(), se.GetCode())

	case TagDataMessageStanza:
		dm, ok := msg.(*mcspb.DataMessageStanza)
		if !ok || dm == nil {
			return fmt.Errorf("mcs: malformed DataMessageStanza")
		}
		return l.handleDataMessage(dm, streamID)

	default:
		l.logger.Debug("ignoring unhandled tag", "tag", tag.String())
		return nil
	}
}

func (l *StreamLoop) handleDataMessage(dm *mcspb.DataMessageStanza, streamID int32) error {
	if l.session.SeenPersistentID(dm.GetPersistentId()) {
		l.logger.Debug("dropping duplicate persistent id", "persistent_id", dm.GetPersistentId())
	} else {
		payload, err := l.decryptPayload(dm)
		if err != nil {
			if l.cb.OnDecryptError != nil {
				l.cb.OnDecryptError(DecryptFailure{PersistentID: dm.GetPersistentId(), Err: err})
			}
		} else if l.cb.OnDataMessage != nil {
			l.cb.OnDataMessage(DataMessage{
				From:         dm.GetFrom(),
				Category:     dm.GetCategory(),
				PersistentID: dm.GetPersistentId(),
				Payload:      payload,
			})
		}
	}

	if l.session.NoteInboundStreamMessage() {
		ack := &mcspb.HeartbeatAck{LastStreamIdReceived: mcspb.Int32(streamID)}
		return l.writeFrame(TagHeartbeatAck, ack, false)
	}
	return nil
}

// decryptPayload returns raw_data unchanged when the message isn't
// encrypted (no crypto-key/encryption app_data), and unwraps it via
// gcmcrypto otherwise.
func (l *StreamLoop) decryptPayload(dm *mcspb.DataMessageStanza) ([]byte, error) {
	var cryptoKeyHeader, encryptionHeader string
	for _, kv := range dm.GetAppData() {
		switch kv.GetKey() {
		case "crypto-key":
			cryptoKeyHeader = kv.GetValue()
		case "encryption":
			encryptionHeader = kv.GetValue()
		}
	}

	if cryptoKeyHeader == "" && encryptionHeader == "" {
		return dm.GetRawData(), nil
	}
	if l.keys.PrivateKey == nil {
		return nil, fmt.Errorf("mcs: message is encrypted but no receiver key is configured")
	}

	serverPub, err := gcmcrypto.ParseCryptoKeyHeader(cryptoKeyHeader)
	if err != nil {
		return nil, err
	}
	salt, err := gcmcrypto.ParseEncryptionHeader(encryptionHeader)
	if err != nil {
		return nil, err
	}
	return gcmcrypto.Unwrap(l.keys.PrivateKey, l.keys.AuthSecret, serverPub, salt, dm.GetRawData())
}
