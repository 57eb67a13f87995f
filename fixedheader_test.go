package mqttcodec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wiremq/codec/wire"
)

func TestParseFixedHeaderPingreq(t *testing.T) {
	r := NewByteReader([]byte{0xC0, 0x00})
	fh, err := ParseFixedHeader(r)
	require.NoError(t, err)
	assert.Equal(t, wire.PINGREQ, fh.Type)
	assert.Equal(t, uint32(0), fh.RemainingLength)
}

func TestParseFixedHeaderPublishFlags(t *testing.T) {
	// type PUBLISH=3, DUP=1, QoS=1, RETAIN=1 -> 0011 1011 = 0x3B
	r := NewByteReader([]byte{0x3B, 0x05})
	fh, err := ParseFixedHeader(r)
	require.NoError(t, err)
	assert.Equal(t, wire.PUBLISH, fh.Type)
	assert.True(t, fh.Dup)
	assert.Equal(t, wire.AtLeastOnce, fh.QoS)
	assert.True(t, fh.Retain)
	assert.Equal(t, uint32(5), fh.RemainingLength)
}

func TestParseFixedHeaderInvalidQoS(t *testing.T) {
	// PUBLISH with QoS bits 11 (invalid QoS 3)
	r := NewByteReader([]byte{0x36, 0x00})
	_, err := ParseFixedHeader(r)
	assert.ErrorIs(t, err, ErrInvalidQoS)
}

func TestParseFixedHeaderQoS0WithDupIsProtocolViolation(t *testing.T) {
	// PUBLISH QoS0 with DUP set is illegal per the MQTT spec.
	r := NewByteReader([]byte{0x38, 0x00})
	_, err := ParseFixedHeader(r)
	assert.ErrorIs(t, err, ErrProtocolViolation)
}

func TestParseFixedHeaderReservedFlagsViolation(t *testing.T) {
	// PUBREL requires flags 0b0010; here it's 0b0000.
	r := NewByteReader([]byte{0x60, 0x00})
	_, err := ParseFixedHeader(r)
	assert.ErrorIs(t, err, ErrReservedFlags)
}

func TestParseFixedHeaderUnknownType(t *testing.T) {
	r := NewByteReader([]byte{0x00, 0x00})
	_, err := ParseFixedHeader(r)
	assert.ErrorIs(t, err, ErrUnknownMessageType)
}

func TestParseFixedHeaderTruncatedRewinds(t *testing.T) {
	r := NewByteReader([]byte{0x30})
	_, err := ParseFixedHeader(r)
	assert.ErrorIs(t, err, ErrTruncated)
	assert.Equal(t, 0, r.Pos())
}

func TestEncodeFixedHeaderRoundTrip(t *testing.T) {
	fh := wire.FixedHeader{
		Type:            wire.PUBLISH,
		Dup:             true,
		QoS:             wire.ExactlyOnce,
		Retain:          true,
		RemainingLength: 300,
	}
	encoded, err := EncodeFixedHeader(nil, fh)
	require.NoError(t, err)

	decoded, err := ParseFixedHeader(NewByteReader(encoded))
	require.NoError(t, err)
	assert.Equal(t, fh, decoded)
}

func TestEncodeFixedHeaderPubrelForcesReservedFlags(t *testing.T) {
	encoded, err := EncodeFixedHeader(nil, wire.FixedHeader{Type: wire.PUBREL, RemainingLength: 2})
	require.NoError(t, err)
	assert.Equal(t, byte(0x62), encoded[0])
}
