package v3

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
	body = append(body, 0x80) // upper reserved bits set alongside QoS 0
	_, err := ParseSubscribePayload(mqttcodec.NewByteReader(body), len(body))
	assert.ErrorIs(t, err, mqttcodec.ErrProtocolViolation)
}

func TestSubscribePayloadEmptyFilterRejected(t *testing.T) {
	body := []byte{}
	body = mqttcodec.WriteUTF8String(body, "")
	body = append(body, 0x00)
	_, err := ParseSubscribePayload(mqttcodec.NewByteReader(body), len(body))
	assert.ErrorIs(t, err, mqttcodec.ErrInvalidTopic)
}

func TestSubscribePayloadNoSubscriptionsRejected(t *testing.T) {
	_, err := ParseSubscribePayload(mqttcodec.NewByteReader(nil), 0)
	assert.ErrorIs(t, err, mqttcodec.ErrProtocolViolation)
}

func TestSubscribePayloadRoundTrip(t *testing.T) {
	payload := wire.SubscribePayload{Subscriptions: []wire.SubscriptionOption{
		{TopicFilter: "x", QoS: wire.AtLeastOnce},
		{TopicFilter: "y/#", QoS: wire.ExactlyOnce},
	}}
	body := EncodeSubscribePayload(nil, payload)
	decoded, err := ParseSubscribePayload(mqttcodec.NewByteReader(body), len(body))
	require.NoError(t, err)
	assert.Equal(t, payload.Subscriptions, decoded.Subscriptions)
}

func TestUnsubscribePayloadEmptyRejected(t *testing.T) {
	_, err := ParseUnsubscribePayload(mqttcodec.NewByteReader(nil), 0)
	assert.ErrorIs(t, err, mqttcodec.ErrProtocolViolation)
}

func TestConnectPayloadV31RejectsOversizeClientID(t *testing.T) {
	vh := wire.ConnectVariableHeader{ProtocolVersion: wire.MQTT31}
	body := mqttcodec.WriteUTF8String(nil, "thisClientIdIs24CharsAbc")
	_, err := ParseConnectPayload(mqttcodec.NewByteReader(body), vh)
	assert.ErrorIs(t, err, mqttcodec.ErrIdentifierRejected)
}

func TestConnectPayloadV31RejectsNonAlphanumericClientID(t *testing.T) {
	vh := wire.ConnectVariableHeader{ProtocolVersion: wire.MQTT31}
	body := mqttcodec.WriteUTF8String(nil, "bad id!")
	_, err := ParseConnectPayload(mqttcodec.NewByteReader(body), vh)
	assert.ErrorIs(t, err, mqttcodec.ErrIdentifierRejected)
}

func TestConnectPayloadV31RejectsEmptyClientID(t *testing.T) {
	vh := wire.ConnectVariableHeader{ProtocolVersion: wire.MQTT31}
	body := mqttcodec.WriteUTF8String(nil, "")
	_, err := ParseConnectPayload(mqttcodec.NewByteReader(body), vh)
	assert.ErrorIs(t, err, mqttcodec.ErrIdentifierRejected)
}

func TestConnectPayloadV31AcceptsValidClientID(t *testing.T) {
	vh := wire.ConnectVariableHeader{ProtocolVersion: wire.MQTT31}
	body := mqttcodec.WriteUTF8String(nil, "client01AZaz")
	payload, err := ParseConnectPayload(mqttcodec.NewByteReader(body), vh)
	require.NoError(t, err)
	assert.Equal(t, "client01AZaz", payload.ClientID)
}

func TestConnectPayloadV311AllowsOversizeClientID(t *testing.T) {
	vh := wire.ConnectVariableHeader{ProtocolVersion: wire.MQTT311}
	body := mqttcodec.WriteUTF8String(nil, "this-client-id-is-longer-than-23-chars")
	payload, err := ParseConnectPayload(mqttcodec.NewByteReader(body), vh)
	require.NoError(t, err)
	assert.Equal(t, "this-client-id-is-longer-than-23-chars", payload.ClientID)
}

func TestConnectPayloadRoundTripWithWillAndCredentials(t *testing.T) {
	vh := wire.ConnectVariableHeader{HasWill: true, HasUsername: true, HasPassword: true}
	payload := wire.ConnectPayload{
		ClientID:    "c1",
		WillTopic:   "lwt/c1",
		WillPayload: []byte("bye"),
		Username:    "u",
		Password:    []byte("p"),
	}
	body := EncodeConnectPayload(nil, vh, payload)
	decoded, err := ParseConnectPayload(mqttcodec.NewByteReader(body), vh)
	require.NoError(t, err)
	assert.Equal(t, payload.ClientID, decoded.ClientID)
	assert.Equal(t, payload.WillTopic, decoded.WillTopic)
	assert.Equal(t, payload.WillPayload, decoded.WillPayload)
	assert.Equal(t, payload.Username, decoded.Username)
	assert.Equal(t, payload.Password, decoded.Password)
}
