package v5

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mqttcodec "github.com/wiremq/codec"
	"github.com/wiremq/codec/wire"
)

func TestPropertiesRoundTrip(t *testing.T) {
	props := wire.Properties{Items: []wire.Property{
		{ID: wire.PropPayloadFormatIndicator, Byte: 1},
		{ID: wire.PropMessageExpiryInterval, Uint32: 3600},
		{ID: wire.PropContentType, String: "text/plain"},
		{ID: wire.PropSubscriptionIdentifier, VarInt: 42},
		{ID: wire.PropUserProperty, Pair: wire.UTF8Pair{Key: "k1", Value: "v1"}},
		{ID: wire.PropUserProperty, Pair: wire.UTF8Pair{Key: "k2", Value: "v2"}},
		{ID: wire.PropCorrelationData, Binary: []byte{0xDE, 0xAD}},
	}}

	encoded, err := EncodeProperties(nil, props)
	require.NoError(t, err)

	decoded, err := ParseProperties(mqttcodec.NewByteReader(encoded))
	require.NoError(t, err)

	require.Len(t, decoded.Items, len(props.Items))
	for i := range props.Items {
		assert.Equal(t, props.Items[i], decoded.Items[i])
	}

	userProps := decoded.GetAll(wire.PropUserProperty)
	assert.Len(t, userProps, 2)
}

func TestParsePropertiesEmptyBlock(t *testing.T) {
	encoded, err := EncodeProperties(nil, wire.Properties{})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00}, encoded)

	decoded, err := ParseProperties(mqttcodec.NewByteReader(encoded))
	require.NoError(t, err)
	assert.Empty(t, decoded.Items)
}

func TestParsePropertiesUnknownIDRejected(t *testing.T) {
	// length=1, unknown property id 0x7F
	encoded := []byte{0x01, 0x7F}
	_, err := ParseProperties(mqttcodec.NewByteReader(encoded))
	assert.ErrorIs(t, err, mqttcodec.ErrProtocolViolation)
}

func TestParsePropertiesDuplicateSingleValuedRejected(t *testing.T) {
	props := wire.Properties{Items: []wire.Property{
		{ID: wire.PropPayloadFormatIndicator, Byte: 0},
		{ID: wire.PropPayloadFormatIndicator, Byte: 1},
	}}
	encoded, err := EncodeProperties(nil, props)
	require.NoError(t, err)

	_, err = ParseProperties(mqttcodec.NewByteReader(encoded))
	assert.ErrorIs(t, err, mqttcodec.ErrProtocolViolation)
}

func TestParsePropertiesTruncated(t *testing.T) {
	// length says 4 bytes follow but only 1 is present.
	encoded := []byte{0x04, 0x01}
	_, err := ParseProperties(mqttcodec.NewByteReader(encoded))
	assert.ErrorIs(t, err, mqttcodec.ErrTruncated)
}
