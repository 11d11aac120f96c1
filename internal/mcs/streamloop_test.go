package mcs

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/paradilldel90/fcmreceiver/internal/mcspb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeServer reads whatever the client writes and lets the test assert on
// it, while driving scripted responses back over the same pipe.
type fakeServer struct {
	conn net.Conn
	t    *testing.T
}

func (f fakeServer) readClientFrame(includeVersion bool) (Tag, interface{}) {
	tag, msg, err := ReadFrame(f.conn, includeVersion)
	require.NoError(f.t, err)
	return tag, msg
}

func (f fakeServer) sendLoginResponse(intervalMS int32) {
	resp := &mcspb.LoginResponse{
		Id:              mcspb.String("ok"),
		HeartbeatConfig: &mcspb.HeartbeatConfig{IntervalMs: mcspb.Int32(intervalMS)},
	}
	require.NoError(f.t, WriteFrame(f.conn, TagLoginResponse, resp, true))
}

func newLoopOverPipe(t *testing.T, cb Callbacks) (*StreamLoop, fakeServer) {
	clientConn, serverConn := net.Pipe()
	loop := NewStreamLoop(clientConn, NewSession(nil), Identity{AndroidID: 1, SecurityToken: 2}, Keys{}, nil, cb)
	return loop, fakeServer{conn: serverConn, t: t}
}

func TestStreamLoopLoginHandshake(t *testing.T) {
	connected := make(chan int64, 1)
	loop, srv := newLoopOverPipe(t, Callbacks{
		OnConnected: func(ms int64) { connected <- ms },
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()

	tag, msg := srv.readClientFrame(true)
	assert.Equal(t, TagLoginRequest, tag)
	req := msg.(*mcspb.LoginRequest)
	require.NotNil(t, req.User)
	assert.Equal(t, "1", *req.User)

	srv.sendLoginResponse(30000)

	select {
	case ms := <-connected:
		assert.Equal(t, int64(30000), ms)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for OnConnected")
	}

	cancel()
	<-done
}

func TestStreamLoopHeartbeatPingIsAcked(t *testing.T) {
	loop, srv := newLoopOverPipe(t, Callbacks{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()

	srv.readClientFrame(true)
	srv.sendLoginResponse(60000)

	// last_stream_id_received is this client's own count of inbound frames
	// since LoginResponse, not an echo of whatever stream_id the peer sent.
	require.NoError(t, WriteFrame(srv.conn, TagHeartbeatPing, &mcspb.HeartbeatPing{StreamId: mcspb.Int32(5)}, false))

	tag, msg := srv.readClientFrame(false)
	assert.Equal(t, TagHeartbeatAck, tag)
	ack := msg.(*mcspb.HeartbeatAck)
	assert.Equal(t, int32(1), ack.GetLastStreamIdReceived())

	cancel()
	<-done
}

func TestStreamLoopStreamIdCounterIncrementsForEveryFrame(t *testing.T) {
	loop, srv := newLoopOverPipe(t, Callbacks{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()

	srv.readClientFrame(true)
	srv.sendLoginResponse(60000)

	// An unrecognized tag still counts as one inbound frame toward
	// last_stream_id_received, even though the client can't act on it.
	require.NoError(t, WriteFrame(srv.conn, TagMessageStanza, &mcspb.IqStanza{}, false))
	require.NoError(t, WriteFrame(srv.conn, TagHeartbeatPing, &mcspb.HeartbeatPing{}, false))

	tag, msg := srv.readClientFrame(false)
	assert.Equal(t, TagHeartbeatAck, tag)
	ack := msg.(*mcspb.HeartbeatAck)
	assert.Equal(t, int32(2), ack.GetLastStreamIdReceived())

	cancel()
	<-done
}

func TestStreamLoopLoginResponseAfterLoginIsFatal(t *testing.T) {
	loop, srv := newLoopOverPipe(t, Callbacks{})

	done := make(chan error, 1)
	go func() { done <- loop.Run(context.Background()) }()

	srv.readClientFrame(true)
	srv.sendLoginResponse(60000)
	// A second LoginResponse mid-stream is a protocol violation, not a
	// legitimate frame — it isn't version-prefixed like the first one.
	require.NoError(t, WriteFrame(srv.conn, TagLoginResponse, &mcspb.LoginResponse{}, false))

	select {
	case err := <-done:
		assert.ErrorIs(t, err, ErrProtocolViolation)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for Run to return")
	}
}

func TestStreamLoopDataMessagePlaintext(t *testing.T) {
	var received DataMessage
	got := make(chan struct{}, 1)
	loop, srv := newLoopOverPipe(t, Callbacks{
		OnDataMessage: func(dm DataMessage) { received = dm; got <- struct{}{} },
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()

	srv.readClientFrame(true)
	srv.sendLoginResponse(60000)

	dm := &mcspb.DataMessageStanza{
		From:         mcspb.String("sender@fcm"),
		Category:     mcspb.String("com.example.app"),
		PersistentId: mcspb.String("msg-1"),
		RawData:      []byte("hello"),
		StreamId:     mcspb.Int32(1),
	}
	require.NoError(t, WriteFrame(srv.conn, TagDataMessageStanza, dm, false))

	select {
	case <-got:
		assert.Equal(t, "msg-1", received.PersistentID)
		assert.Equal(t, []byte("hello"), received.Payload)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for data message")
	}

	cancel()
	<-done
}

func TestStreamLoopCloseFrameEndsRun(t *testing.T) {
	loop, srv := newLoopOverPipe(t, Callbacks{})

	done := make(chan error, 1)
	go func() { done <- loop.Run(context.Background()) }()

	srv.readClientFrame(true)
	srv.sendLoginResponse(60000)
	require.NoError(t, WriteFrame(srv.conn, TagClose, &mcspb.Close{}, false))

	select {
	case err := <-done:
		assert.ErrorIs(t, err, ErrClosedByServer)
		assert.Equal(t, StateClosed, loop.session.State())
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for Run to return")
	}
}

func TestStreamLoopContextCancelStopsRun(t *testing.T) {
	loop, srv := newLoopOverPipe(t, Callbacks{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()

	srv.readClientFrame(true)
	srv.sendLoginResponse(60000)
	cancel()

	// Caller cancellation must, best-effort, send a Close frame before the
	// connection drops.
	tag, _ := srv.readClientFrame(false)
	assert.Equal(t, TagClose, tag)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for cancellation to stop Run")
	}
}
