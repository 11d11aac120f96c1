package mcs

import "sync"

// State is the lifecycle stage of one MCS connection.
type State int

const (
	StateConnecting State = iota
	StateHandshakeSent
	StateLoginOK
	StateDraining
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateHandshakeSent:
		return "handshake_sent"
	case StateLoginOK:
		return "login_ok"
	case StateDraining:
		return "draining"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// maxPersistentIDs bounds how many received_persistent_ids this client will
// carry across a reconnect. The server re-delivers anything it doesn't know
// we've seen, so past this cap we drop the oldest ids rather than grow
// without bound. Sending a StreamAck (see streamAckThreshold) does not
// remove ids from this list; the cap is the only thing that evicts them.
const maxPersistentIDs = 1000

// Session tracks the mutable state of one logical MCS stream: which
// messages have been seen (for dedup across reconnects), stream-id
// bookkeeping for acks, and the negotiated heartbeat interval.
type Session struct {
	mu sync.Mutex

	state                   State
	receivedPersistentIDs   []string
	seenPersistentIDs       map[string]struct{}
	lastStreamIDReceived    int32
	lastStreamIDAckedByPeer int32
	heartbeatIntervalMS     int64
	unackedSinceLastAck     int
}

// NewSession creates a fresh session, optionally seeded with
// persistent-message ids carried over from a prior connection.
func NewSession(carriedPersistentIDs []string) *Session {
	s := &Session{
		state:               StateConnecting,
		heartbeatIntervalMS: 60000,
		seenPersistentIDs:   make(map[string]struct{}, len(carriedPersistentIDs)),
	}
	for _, id := range carriedPersistentIDs {
		s.seenPersistentIDs[id] = struct{}{}
	}
	s.receivedPersistentIDs = append(s.receivedPersistentIDs, carriedPersistentIDs...)
	return s
}

func (s *Session) SetState(state State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SeenPersistentID reports whether a persistent id has already been
// delivered to the application in this or a carried-forward session, and
// records it if not.
func (s *Session) SeenPersistentID(id string) (alreadySeen bool) {
	if id == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.seenPersistentIDs[id]; ok {
		return true
	}
	s.seenPersistentIDs[id] = struct{}{}
	s.receivedPersistentIDs = append(s.receivedPersistentIDs, id)
	if len(s.receivedPersistentIDs) > maxPersistentIDs {
		dropped := s.receivedPersistentIDs[0]
		s.receivedPersistentIDs = s.receivedPersistentIDs[1:]
		delete(s.seenPersistentIDs, dropped)
	}
	return false
}

// PersistentIDs returns a snapshot of ids to present in the next
// LoginRequest (or to carry into a freshly reconnected session).
func (s *Session) PersistentIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.receivedPersistentIDs))
	copy(out, s.receivedPersistentIDs)
	return out
}

func (s *Session) SetHeartbeatIntervalMS(ms int64) {
	if ms <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.heartbeatIntervalMS = ms
}

func (s *Session) HeartbeatIntervalMS() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.heartbeatIntervalMS
}

// ResetLastStreamIDReceived zeroes the inbound-frame counter. Called once a
// fresh LoginResponse has been accepted, since the counter runs per
// connection, not across reconnects.
func (s *Session) ResetLastStreamIDReceived() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastStreamIDReceived = 0
}

// IncrementLastStreamIDReceived bumps the locally maintained count of
// inbound frames seen since the last LoginResponse and returns the new
// value. Every frame counts, regardless of tag.
func (s *Session) IncrementLastStreamIDReceived() int32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastStreamIDReceived++
	return s.lastStreamIDReceived
}

func (s *Session) LastStreamIDReceived() int32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastStreamIDReceived
}

func (s *Session) SetLastStreamIDAckedByPeer(id int32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastStreamIDAckedByPeer = id
}

// streamAckThreshold is how many unacked inbound stream messages accumulate
// before the stream loop proactively sends an ack, rather than waiting for
// the next heartbeat round trip to piggyback one.
const streamAckThreshold = 10

// NoteInboundStreamMessage records receipt of one stream-carrying frame and
// reports whether an explicit ack should be sent now.
func (s *Session) NoteInboundStreamMessage() (shouldAck bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unackedSinceLastAck++
	if s.unackedSinceLastAck >= streamAckThreshold {
		s.unackedSinceLastAck = 0
		return true
	}
	return false
}
