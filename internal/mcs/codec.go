// Package mcs implements the MTalk/MCS binary framing, login handshake, and
// stream multiplexing used to talk to mtalk.google.com:5228.
package mcs

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/paradilldel90/fcmreceiver/internal/mcspb"
)

// protocolVersion is the single byte mtalk.google.com expects as the very
// first byte of a connection. The server's own first frame starts with its
// version byte, which is checked against minAcceptedVersion.
const protocolVersion byte = 41

// minAcceptedVersion is the oldest server version byte this client will
// accept in reply. The server isn't required to echo back the exact 41
// this client writes — anything from 38 onward is a protocol revision this
// client can still speak.
const minAcceptedVersion byte = 38

// maxFrameSize bounds a single frame body; anything larger is almost
// certainly a desynced stream rather than a legitimate message.
const maxFrameSize = 4 << 20 // 4 MiB

// maxVarintBytes bounds how many bytes ReadFrame will consume while
// decoding a size varint before giving up.
const maxVarintBytes = 5

// Tag identifies the payload type of an MCS frame.
type Tag uint8

const (
	TagHeartbeatPing      Tag = 0
	TagHeartbeatAck       Tag = 1
	TagLoginRequest       Tag = 2
	TagLoginResponse      Tag = 3
	TagClose              Tag = 4
	TagMessageStanza      Tag = 5
	TagPresenceStanza     Tag = 6
	TagIqStanza           Tag = 7
	TagDataMessageStanza  Tag = 8
	TagBatchPresence      Tag = 9
	TagStreamErrorStanza  Tag = 10
	TagHttpRequest        Tag = 11
	TagHttpResponse       Tag = 12
	TagBindAccountRequest Tag = 13
	TagBindAccountRespose Tag = 14
	TagTalkMetadata       Tag = 15
)

func (t Tag) String() string {
	switch t {
	case TagHeartbeatPing:
		return "HeartbeatPing"
	case TagHeartbeatAck:
		return "HeartbeatAck"
	case TagLoginRequest:
		return "LoginRequest"
	case TagLoginResponse:
		return "LoginResponse"
	case TagClose:
		return "Close"
	case TagIqStanza:
		return "IqStanza"
	case TagDataMessageStanza:
		return "DataMessageStanza"
	case TagStreamErrorStanza:
		return "StreamErrorStanza"
	default:
		return fmt.Sprintf("Tag(%d)", t)
	}
}

// ErrorKind classifies a framing failure.
type ErrorKind string

const (
	ErrBadVersion     ErrorKind = "bad_version"
	ErrVarintTooLong  ErrorKind = "varint_too_long"
	ErrBodyTooLarge   ErrorKind = "body_too_large"
	ErrUnexpectedEOF  ErrorKind = "unexpected_eof"
	ErrUnknownMessage ErrorKind = "unknown_message"
)

// ProtocolError reports a malformed frame. These are always fatal to the
// connection — the caller must reconnect.
type ProtocolError struct {
	Kind ErrorKind
	Err  error
}

func (e *ProtocolError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("mcs: %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("mcs: %s", e.Kind)
}

func (e *ProtocolError) Unwrap() error { return e.Err }

func protoErr(kind ErrorKind, err error) error {
	return &ProtocolError{Kind: kind, Err: err}
}

// newMessageForTag constructs a zero-value mcspb.Message for the wire type
// carried by tag, or reports that the tag isn't one this client acts on.
func newMessageForTag(tag Tag) (mcspb.Message, bool) {
	switch tag {
	case TagHeartbeatPing:
		return &mcspb.HeartbeatPing{}, true
	case TagHeartbeatAck:
		return &mcspb.HeartbeatAck{}, true
	case TagLoginRequest:
		return &mcspb.LoginRequest{}, true
	case TagLoginResponse:
		return &mcspb.LoginResponse{}, true
	case TagClose:
		return &mcspb.Close{}, true
	case TagIqStanza:
		return &mcspb.IqStanza{}, true
	case TagDataMessageStanza:
		return &mcspb.DataMessageStanza{}, true
	case TagStreamErrorStanza:
		return &mcspb.StreamErrorStanza{}, true
	default:
		return nil, false
	}
}

// readVersionByte reads and validates the single leading protocol-version
// byte sent once per connection.
func readVersionByte(r io.Reader) error {
	var v [1]byte
	if _, err := io.ReadFull(r, v[:]); err != nil {
		return protoErr(ErrUnexpectedEOF, err)
	}
	if v[0] < minAcceptedVersion {
		return protoErr(ErrBadVersion, fmt.Errorf("got version %d, want >= %d", v[0], minAcceptedVersion))
	}
	return nil
}

// readVarint decodes a LEB128 varint, refusing to read past maxVarintBytes.
func readVarint(r io.Reader) (uint64, error) {
	var result uint64
	var shift uint
	var b [1]byte
	for i := 0; i < maxVarintBytes; i++ {
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return 0, protoErr(ErrUnexpectedEOF, err)
		}
		result |= uint64(b[0]&0x7f) << shift
		if b[0]&0x80 == 0 {
			return result, nil
		}
		shift += 7
	}
	return 0, protoErr(ErrVarintTooLong, fmt.Errorf("varint exceeds %d bytes", maxVarintBytes))
}

// readTagByte reads the single byte identifying a frame's payload type.
func readTagByte(r io.Reader) (Tag, error) {
	var b [1]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, protoErr(ErrUnexpectedEOF, err)
	}
	return Tag(b[0]), nil
}

// ReadFrame reads one frame from r. When includeVersion is true, the leading
// protocol-version byte is consumed first — callers pass true only for the
// very first frame of a connection.
func ReadFrame(r io.Reader, includeVersion bool) (Tag, mcspb.Message, error) {
	if includeVersion {
		if err := readVersionByte(r); err != nil {
			return 0, nil, err
		}
	}

	tag, err := readTagByte(r)
	if err != nil {
		return 0, nil, err
	}

	size, err := readVarint(r)
	if err != nil {
		return 0, nil, err
	}
	if size > maxFrameSize {
		return 0, nil, protoErr(ErrBodyTooLarge, fmt.Errorf("frame body of %d bytes exceeds %d", size, maxFrameSize))
	}

	body := make([]byte, size)
	if size > 0 {
		if _, err := io.ReadFull(r, body); err != nil {
			return 0, nil, protoErr(ErrUnexpectedEOF, err)
		}
	}

	msg, ok := newMessageForTag(tag)
	if !ok {
		return tag, nil, nil
	}
	if err := msg.Unmarshal(body); err != nil {
		return tag, nil, protoErr(ErrUnknownMessage, fmt.Errorf("unmarshal tag %s: %w", tag, err))
	}
	return tag, msg, nil
}

// WriteFrame marshals msg and writes one frame to w. includeVersion must be
// true for the very first frame written on a fresh connection (it always
// carries the LoginRequest) and false afterward.
func WriteFrame(w io.Writer, tag Tag, msg mcspb.Message, includeVersion bool) error {
	body, err := msg.Marshal()
	if err != nil {
		return fmt.Errorf("mcs: marshal tag %s: %w", tag, err)
	}

	var header []byte
	if includeVersion {
		header = append(header, protocolVersion)
	}
	header = append(header, byte(tag))

	var sizeBuf [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(sizeBuf[:], uint64(len(body)))
	header = append(header, sizeBuf[:n]...)

	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("mcs: write frame header: %w", err)
	}
	if len(body) > 0 {
		if _, err := w.Write(body); err != nil {
			return fmt.Errorf("mcs: write frame body: %w", err)
		}
	}
	return nil
}
