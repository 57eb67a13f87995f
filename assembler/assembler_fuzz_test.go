package assembler

import (
	"encoding/hex"
	"errors"
	"strings"
	"testing"

	mqttcodec "github.com/wiremq/codec"
	"github.com/wiremq/codec/diag"
	"github.com/wiremq/codec/wire"
)

func fuzzSeedHex(s string) []byte {
	b, err := hex.DecodeString(strings.ReplaceAll(s, " ", ""))
	if err != nil {
		panic(err)
	}
	return b
}

// snapshotRoundTrip exercises diag.Snapshot/RestoreSnapshot on every
// message the fuzzer decodes, the way a golden-corpus capture would
// persist a minimal reproduction case for later replay.
func snapshotRoundTrip(t *testing.T, msg wire.Message) {
	t.Helper()
	data, err := diag.Snapshot(msg)
	if err != nil {
		t.Fatalf("Snapshot failed on a message Next() just produced: %v", err)
	}
	restored, err := diag.RestoreSnapshot(data)
	if err != nil {
		t.Fatalf("RestoreSnapshot failed on Snapshot's own output: %v", err)
	}
	if restored.Type() != msg.Type() || restored.ProtocolVersion != msg.ProtocolVersion {
		t.Fatalf("snapshot round trip changed message identity: got %v/v%d, want %v/v%d",
			restored.Type(), restored.ProtocolVersion, msg.Type(), msg.ProtocolVersion)
	}
}

// FuzzAssembler drives the full decode state machine over arbitrary
// bytes. It never asserts a particular message comes out — only that
// the assembler never panics, never gets stuck consuming zero bytes
// per call outside of its terminal Discard state, and always
// eventually stops advancing (via ErrTruncated, entering Discard, or
// successful decodes).
func FuzzAssembler(f *testing.F) {
	seeds := [][]byte{
		fuzzSeedHex("10 10 00 04 4D 51 54 54 04 02 00 3C 00 04 74 65 73 74"),
		fuzzSeedHex("30 06 00 03 61 2F 62 FF"),
		fuzzSeedHex("82 0A 00 0A 00 01 78 01 00 03 79 2F 23 02"),
		fuzzSeedHex("E0 02 00 00"),
		fuzzSeedHex("32 0A 00 01 74 00 01 03 23 00 05 AA"),
		fuzzSeedHex("10 0E 00 04 4D 51 54 54 04 03 00 3C 00 02 69 64"),
		{0xFF, 0xFF, 0xFF, 0xFF, 0xFF},
		{0x00},
		{},
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, data []byte) {
		for _, version := range []wire.ProtocolVersion{wire.MQTT311, wire.MQTT5} {
			a := New(WithProtocolVersion(version), WithMaxMessageSize(DefaultMaxMessageSize))
			a.Write(data)

			const maxIterations = 10000
			for i := 0; i < maxIterations; i++ {
				before := a.r.Pos()
				msg, err := a.Next()
				if errors.Is(err, mqttcodec.ErrTruncated) {
					break
				}
				if a.state == stateDiscard {
					break
				}
				if err == nil && a.r.Pos() == before {
					t.Fatalf("Next() returned a message without advancing the cursor")
				}
				if msg != nil {
					snapshotRoundTrip(t, *msg)
				}
			}
		}
	})
}
