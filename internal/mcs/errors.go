package mcs

import "errors"

// ErrAuthFailed means the server rejected the LoginRequest outright (bad
// android id / security token pair). The caller should not retry without
// fresh credentials from a new registration.
var ErrAuthFailed = errors.New("mcs: login rejected")

// ErrHeartbeatTimeout means no heartbeat ack (or any frame) arrived within
// twice the negotiated heartbeat interval — the connection is presumed
// dead and must be torn down and retried.
var ErrHeartbeatTimeout = errors.New("mcs: heartbeat timeout")

// ErrClosedByServer means the server sent a Close frame, cleanly ending
// the stream. This is a terminal condition — the Supervisor must not
// reconnect on its own account.
var ErrClosedByServer = errors.New("mcs: closed by server")

// ErrProtocolViolation means the server sent a frame that is not valid in
// the connection's current state (e.g. a second LoginResponse after login
// already succeeded). The connection cannot continue.
var ErrProtocolViolation = errors.New("mcs: protocol violation")
