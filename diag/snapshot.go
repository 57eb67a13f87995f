package diag

import (
	"github.com/fxamacker/cbor/v2"

	"github.com/wiremq/codec/wire"
)

// Snapshot CBOR-encodes a decoded message for golden-corpus generation
// in suspend/resume property tests. Strictly test/dev tooling: never
// called from the assembler's decode path, and never persists
// anything on its own (promotes the teacher's store/pebble.go cbor
// dependency into codec-local, in-memory use).
func Snapshot(msg wire.Message) ([]byte, error) {
	return cbor.Marshal(msg)
}

// RestoreSnapshot decodes bytes produced by Snapshot back into a
// Message, for replaying a golden corpus entry in a test.
func RestoreSnapshot(data []byte) (wire.Message, error) {
	var msg wire.Message
	if err := cbor.Unmarshal(data, &msg); err != nil {
		return wire.Message{}, err
	}
	return msg, nil
}
