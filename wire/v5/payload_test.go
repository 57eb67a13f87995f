package v5

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mqttcodec "github.com/wiremq/codec"
	"github.com/wiremq/codec/wire"
)

func TestSubscribePayloadReservedBitsRejected(t *testing.T) {
	body := []byte{}
	body = mqttcodec.WriteUTF8String(body, "a/b")
	body = append(body, 0x40) // bit 6 reserved
	_, err := ParseSubscribePayload(mqttcodec.NewByteReader(body), len(body))
	assert.ErrorIs(t, err, mqttcodec.ErrProtocolViolation)
}

func TestSubscribePayloadInvalidRetainHandlingRejected(t *testing.T) {
	body := []byte{}
	body = mqttcodec.WriteUTF8String(body, "a/b")
	body = append(body, 0x30) // RetainHandling = 3, invalid
	_, err := ParseSubscribePayload(mqttcodec.NewByteReader(body), len(body))
	assert.ErrorIs(t, err, mqttcodec.ErrProtocolViolation)
}

func TestSubscribePayloadRoundTripWithOptions(t *testing.T) {
	payload := wire.SubscribePayload{Subscriptions: []wire.SubscriptionOption{
		{TopicFilter: "a/b", QoS: wire.ExactlyOnce, NoLocal: true, RetainAsPublished: true, RetainHandling: 2},
	}}
	body := EncodeSubscribePayload(nil, payload)
	decoded, err := ParseSubscribePayload(mqttcodec.NewByteReader(body), len(body))
	require.NoError(t, err)
	assert.Equal(t, payload.Subscriptions, decoded.Subscriptions)
}

func TestUnsubAckPayloadRoundTrip(t *testing.T) {
	payload := wire.UnsubAckPayload{ReasonCodes: []wire.ReasonCode{wire.ReasonSuccess, wire.ReasonNoSubscriptionExisted}}
	body := EncodeUnsubAckPayload(nil, payload)
	decoded, err := ParseUnsubAckPayload(mqttcodec.NewByteReader(body), len(body))
	require.NoError(t, err)
	assert.Equal(t, payload.ReasonCodes, decoded.ReasonCodes)
}

func TestConnectPayloadRoundTripWithWillProperties(t *testing.T) {
	vh := wire.ConnectVariableHeader{HasWill: true}
	payload := wire.ConnectPayload{
		ClientID:    "c1",
		WillTopic:   "lwt/c1",
		WillPayload: []byte("bye"),
		WillProperties: wire.Properties{Items: []wire.Property{
			{ID: wire.PropWillDelayInterval, Uint32: 30},
		}},
	}
	body, err := EncodeConnectPayload(nil, vh, payload)
	require.NoError(t, err)
	decoded, err := ParseConnectPayload(mqttcodec.NewByteReader(body), vh)
	require.NoError(t, err)
	assert.Equal(t, payload.ClientID, decoded.ClientID)
	assert.Equal(t, payload.WillTopic, decoded.WillTopic)
	delay, ok := decoded.WillProperties.Get(wire.PropWillDelayInterval)
	require.True(t, ok)
	assert.Equal(t, uint32(30), delay.Uint32)
}
