package assembler

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mqttcodec "github.com/wiremq/codec"
	"github.com/wiremq/codec/wire"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(strings.ReplaceAll(s, " ", ""))
	require.NoError(t, err)
	return b
}

// decodeOne feeds the whole buffer to a fresh assembler and returns
// the first emitted message (or the first fatal error).
func decodeOne(t *testing.T, buf []byte, version wire.ProtocolVersion) (*wire.Message, error) {
	t.Helper()
	a := New(WithProtocolVersion(version))
	a.Write(buf)
	msg, err := a.Next()
	if err != nil && err != mqttcodec.ErrTruncated {
		return nil, err
	}
	return msg, nil
}

func TestScenarioA_V311Connect(t *testing.T) {
	buf := mustHex(t, "10 10 00 04 4D 51 54 54 04 02 00 3C 00 04 74 65 73 74")
	msg, err := decodeOne(t, buf, wire.MQTT311)
	require.NoError(t, err)
	require.NotNil(t, msg)

	assert.Equal(t, wire.CONNECT, msg.Type())
	assert.Equal(t, wire.MQTT311, msg.Connect.ProtocolVersion)
	assert.True(t, msg.Connect.CleanStart)
	assert.Equal(t, uint16(60), msg.Connect.KeepAlive)
	assert.False(t, msg.Connect.HasWill)
	assert.False(t, msg.Connect.HasUsername)
	assert.False(t, msg.Connect.HasPassword)
	assert.Equal(t, "test", msg.ConnectPayload.ClientID)
}

func TestScenarioB_V311PublishQoS0(t *testing.T) {
	buf := mustHex(t, "30 06 00 03 61 2F 62 FF")
	msg, err := decodeOne(t, buf, wire.MQTT311)
	require.NoError(t, err)
	require.NotNil(t, msg)

	assert.Equal(t, wire.PUBLISH, msg.Type())
	assert.False(t, msg.FixedHeader.Retain)
	assert.False(t, msg.FixedHeader.Dup)
	assert.Equal(t, wire.AtMostOnce, msg.FixedHeader.QoS)
	assert.Equal(t, "a/b", msg.Publish.TopicName)
	assert.False(t, msg.Publish.HasPacketID)
	assert.Equal(t, []byte{0xFF}, msg.PublishPayload.Bytes)
}

func TestScenarioC_V311Subscribe(t *testing.T) {
	buf := mustHex(t, "82 0C 00 0A 00 01 78 01 00 03 79 2F 23 02")
	msg, err := decodeOne(t, buf, wire.MQTT311)
	require.NoError(t, err)
	require.NotNil(t, msg)

	assert.Equal(t, wire.SUBSCRIBE, msg.Type())
	assert.Equal(t, uint16(10), msg.MessageID.PacketID)
	require.Len(t, msg.SubscribePayload.Subscriptions, 2)
	assert.Equal(t, "x", msg.SubscribePayload.Subscriptions[0].TopicFilter)
	assert.Equal(t, wire.AtLeastOnce, msg.SubscribePayload.Subscriptions[0].QoS)
	assert.Equal(t, "y/#", msg.SubscribePayload.Subscriptions[1].TopicFilter)
	assert.Equal(t, wire.ExactlyOnce, msg.SubscribePayload.Subscriptions[1].QoS)
}

func TestScenarioD_V5Disconnect(t *testing.T) {
	buf := mustHex(t, "E0 02 00 00")
	msg, err := decodeOne(t, buf, wire.MQTT5)
	require.NoError(t, err)
	require.NotNil(t, msg)

	assert.Equal(t, wire.DISCONNECT, msg.Type())
	assert.Equal(t, wire.ReasonSuccess, msg.ReasonProps.ReasonCode)
	assert.Empty(t, msg.ReasonProps.Properties.Items)
}

func TestScenarioE_V5PublishWithProperty(t *testing.T) {
	buf := mustHex(t, "32 0A 00 01 74 00 01 03 23 00 05 AA")
	msg, err := decodeOne(t, buf, wire.MQTT5)
	require.NoError(t, err)
	require.NotNil(t, msg)

	assert.Equal(t, wire.PUBLISH, msg.Type())
	assert.Equal(t, wire.AtLeastOnce, msg.FixedHeader.QoS)
	assert.Equal(t, "t", msg.Publish.TopicName)
	assert.Equal(t, uint16(1), msg.Publish.PacketID)
	assert.Equal(t, []byte{0xAA}, msg.PublishPayload.Bytes)

	alias, ok := msg.Publish.Properties.Get(wire.PropTopicAlias)
	require.True(t, ok)
	assert.Equal(t, uint16(5), alias.Uint16)
}

func TestScenarioF_ReservedFlagsViolation(t *testing.T) {
	buf := mustHex(t, "10 0E 00 04 4D 51 54 54 04 03 00 3C 00 02 69 64")
	a := New(WithProtocolVersion(wire.MQTT311))
	a.Write(buf)

	_, err := a.Next()
	assert.ErrorIs(t, err, mqttcodec.ErrReservedFlags)
}

// TestSuspendRestartDeterminism is invariant 4: splitting the input at
// any index, feeding the first part and then the rest a byte at a time,
// produces the same message as feeding the whole buffer at once.
func TestSuspendRestartDeterminism(t *testing.T) {
	buf := mustHex(t, "32 0A 00 01 74 00 01 03 23 00 05 AA")

	whole, err := decodeOne(t, buf, wire.MQTT5)
	require.NoError(t, err)
	require.NotNil(t, whole)

	for split := 1; split < len(buf); split++ {
		a := New(WithProtocolVersion(wire.MQTT5))
		a.Write(buf[:split])

		msg, err := a.Next()
		fed := split
		for err == mqttcodec.ErrTruncated {
			a.Write(buf[fed : fed+1])
			fed++
			if fed > len(buf) {
				t.Fatalf("ran out of input before a message was produced")
			}
			msg, err = a.Next()
		}
		require.NoError(t, err, "split at %d", split)
		require.NotNil(t, msg)
		assert.Equal(t, whole.Publish.TopicName, msg.Publish.TopicName)
		assert.Equal(t, whole.PublishPayload.Bytes, msg.PublishPayload.Bytes)
		snapshotRoundTrip(t, *msg)
	}
}

// TestWildcardRejection is invariant 6.
func TestWildcardRejection(t *testing.T) {
	for _, topic := range []string{"a/+", "a/#", "+", "#"} {
		a := New(WithProtocolVersion(wire.MQTT311))

		body := []byte{}
		body = mqttcodec.WriteUTF8String(body, topic)
		fh := []byte{0x30}
		remaining, err := mqttcodec.EncodeVariableByteInteger(nil, uint32(len(body)))
		require.NoError(t, err)
		a.Write(append(append(fh, remaining...), body...))

		_, err = a.Next()
		assert.ErrorIs(t, err, mqttcodec.ErrInvalidTopic, "topic %q", topic)
	}
}

// TestLengthAccounting is invariant 3: after a successful decode the
// reader's position exactly matches the fixed header's declared end.
func TestLengthAccounting(t *testing.T) {
	buf := mustHex(t, "30 06 00 03 61 2F 62 FF")
	a := New(WithProtocolVersion(wire.MQTT311))
	a.Write(buf)
	msg, err := a.Next()
	require.NoError(t, err)
	require.NotNil(t, msg)
	assert.Equal(t, len(buf), a.r.Pos())
}

func TestMessageTooLargeRejected(t *testing.T) {
	a := New(WithProtocolVersion(wire.MQTT311), WithMaxMessageSize(4))
	buf := mustHex(t, "30 06 00 03 61 2F 62 FF")
	a.Write(buf)
	_, err := a.Next()
	assert.ErrorIs(t, err, mqttcodec.ErrMessageTooLarge)
}

// TestDiscardIsTerminal covers the assembler's terminal Discard state:
// once framing is lost to a fatal decode error, the assembler never
// returns to decoding normal messages, even across further Write
// calls and repeated Next calls.
func TestDiscardIsTerminal(t *testing.T) {
	a := New(WithProtocolVersion(wire.MQTT311))
	bad := mustHex(t, "10 0E 00 04 4D 51 54 54 04 03 00 3C 00 02 69 64")
	good := mustHex(t, "30 06 00 03 61 2F 62 FF")
	a.Write(bad)

	_, err := a.Next()
	assert.ErrorIs(t, err, mqttcodec.ErrReservedFlags)

	a.Write(good)
	msg, err := a.Next()
	assert.Nil(t, msg)
	assert.ErrorIs(t, err, mqttcodec.ErrReservedFlags)
}
