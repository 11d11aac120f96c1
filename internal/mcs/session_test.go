package mcs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSessionSeenPersistentIDDedup(t *testing.T) {
	s := NewSession(nil)
	assert.False(t, s.SeenPersistentID("a"))
	assert.True(t, s.SeenPersistentID("a"))
	assert.False(t, s.SeenPersistentID("b"))
	assert.Equal(t, []string{"a", "b"}, s.PersistentIDs())
}

func TestSessionCarriesForwardPersistentIDs(t *testing.T) {
	s := NewSession([]string{"old-1", "old-2"})
	assert.True(t, s.SeenPersistentID("old-1"), "carried-forward ids must dedup across reconnect")
	assert.False(t, s.SeenPersistentID("new-1"))
}

func TestSessionNoteInboundStreamMessageCadence(t *testing.T) {
	s := NewSession(nil)
	for i := 0; i < streamAckThreshold-1; i++ {
		assert.False(t, s.NoteInboundStreamMessage())
	}
	assert.True(t, s.NoteInboundStreamMessage())
	assert.False(t, s.NoteInboundStreamMessage(), "counter resets after an ack fires")
}

func TestSessionPersistentIDCapEvictsOldest(t *testing.T) {
	s := NewSession(nil)
	for i := 0; i < maxPersistentIDs+10; i++ {
		s.SeenPersistentID(string(rune('a')) + string(rune(i)))
	}
	assert.LessOrEqual(t, len(s.PersistentIDs()), maxPersistentIDs)
	assert.Equal(t, string(rune('a'))+string(rune(10)), s.PersistentIDs()[0], "the 10 oldest ids are evicted")
}
