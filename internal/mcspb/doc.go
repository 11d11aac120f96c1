// Package mcspb holds the hand-written wire messages for Google's MCS
// (Mobile Connection Server) protocol: login, heartbeat, and data-message
// stanzas exchanged over the framed mtalk.google.com connection.
//
// There is no .proto source to generate from in this tree, so each message
// implements its own Marshal/Unmarshal using the low-level helpers in
// google.golang.org/protobuf/encoding/protowire rather than the full
// generated-code machinery.
package mcspb
