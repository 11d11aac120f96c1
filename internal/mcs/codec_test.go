package mcs

import (
	"bytes"
	"testing"

	"github.com/paradilldel90/fcmreceiver/internal/mcspb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReadFrameRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	req := &mcspb.LoginRequest{Id: mcspb.String("x"), AccountId: mcspb.Int64(42)}
	require.NoError(t, WriteFrame(&buf, TagLoginRequest, req, true))

	tag, msg, err := ReadFrame(&buf, true)
	require.NoError(t, err)
	assert.Equal(t, TagLoginRequest, tag)
	got, ok := msg.(*mcspb.LoginRequest)
	require.True(t, ok)
	assert.Equal(t, "x", got.GetId())
	assert.Equal(t, int64(42), *got.AccountId)
}

func TestReadFrameRejectsOldVersion(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteByte(1)
	buf.WriteByte(byte(TagClose))
	buf.WriteByte(0)

	_, _, err := ReadFrame(&buf, true)
	require.Error(t, err)
	var pe *ProtocolError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, ErrBadVersion, pe.Kind)
}

func TestReadFrameAcceptsVersionAtLowerBound(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteByte(minAcceptedVersion)
	buf.WriteByte(byte(TagClose))
	buf.WriteByte(0)

	tag, _, err := ReadFrame(&buf, true)
	require.NoError(t, err)
	assert.Equal(t, TagClose, tag)
}

func TestReadFrameRejectsVersionJustBelowLowerBound(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteByte(minAcceptedVersion - 1)
	buf.WriteByte(byte(TagClose))
	buf.WriteByte(0)

	_, _, err := ReadFrame(&buf, true)
	require.Error(t, err)
	var pe *ProtocolError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, ErrBadVersion, pe.Kind)
}

func TestReadFrameVarintTooLong(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteByte(byte(TagClose))
	for i := 0; i < 6; i++ {
		buf.WriteByte(0x80)
	}

	_, _, err := ReadFrame(&buf, false)
	require.Error(t, err)
	var pe *ProtocolError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, ErrVarintTooLong, pe.Kind)
}

func TestReadFrameBodyTooLarge(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteByte(byte(TagDataMessageStanza))
	var sizeBuf [10]byte
	n := writeUvarint(sizeBuf[:], maxFrameSize+1)
	buf.Write(sizeBuf[:n])

	_, _, err := ReadFrame(&buf, false)
	require.Error(t, err)
	var pe *ProtocolError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, ErrBodyTooLarge, pe.Kind)
}

func TestReadFrameUnknownTagSkipsPayload(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteByte(99)
	buf.WriteByte(0)

	tag, msg, err := ReadFrame(&buf, false)
	require.NoError(t, err)
	assert.Equal(t, Tag(99), tag)
	assert.Nil(t, msg)
}

func writeUvarint(buf []byte, v uint64) int {
	i := 0
	for v >= 0x80 {
		buf[i] = byte(v) | 0x80
		v >>= 7
		i++
	}
	buf[i] = byte(v)
	return i + 1
}
