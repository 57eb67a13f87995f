package builder

import (
	"github.com/wiremq/codec/wire"
	v3 "github.com/wiremq/codec/wire/v3"
	v5 "github.com/wiremq/codec/wire/v5"
)

// ConnectBuilder constructs a CONNECT packet.
type ConnectBuilder struct {
	version    wire.ProtocolVersion
	vh         wire.ConnectVariableHeader
	payload    wire.ConnectPayload
}

// Connect starts a CONNECT builder targeting the given protocol
// version.
func Connect(version wire.ProtocolVersion) *ConnectBuilder {
	return &ConnectBuilder{version: version}
}

func (b *ConnectBuilder) ClientID(id string) *ConnectBuilder {
	b.payload.ClientID = id
	return b
}

func (b *ConnectBuilder) CleanStart(clean bool) *ConnectBuilder {
	b.vh.CleanStart = clean
	return b
}

func (b *ConnectBuilder) KeepAlive(seconds uint16) *ConnectBuilder {
	b.vh.KeepAlive = seconds
	return b
}

func (b *ConnectBuilder) Credentials(username string, password []byte) *ConnectBuilder {
	b.vh.HasUsername = username != ""
	b.payload.Username = username
	b.vh.HasPassword = password != nil
	b.payload.Password = password
	return b
}

func (b *ConnectBuilder) Will(topic string, payload []byte, qos wire.QoS, retain bool) *ConnectBuilder {
	b.vh.HasWill = true
	b.vh.WillQoS = qos
	b.vh.WillRetain = retain
	b.payload.WillTopic = topic
	b.payload.WillPayload = payload
	return b
}

func (b *ConnectBuilder) WillProperties(props wire.Properties) *ConnectBuilder {
	b.payload.WillProperties = props
	return b
}

func (b *ConnectBuilder) Properties(props wire.Properties) *ConnectBuilder {
	b.vh.Properties = props
	return b
}

// Build encodes the accumulated fields into a complete CONNECT packet.
func (b *ConnectBuilder) Build() ([]byte, error) {
	b.vh.ProtocolVersion = b.version

	var body []byte
	var err error
	if b.version.IsV5() {
		body, err = v5.EncodeConnectVariableHeader(body, b.vh)
		if err != nil {
			return nil, err
		}
		body, err = v5.EncodeConnectPayload(body, b.vh, b.payload)
		if err != nil {
			return nil, err
		}
	} else {
		body = v3.EncodeConnectVariableHeader(body, b.vh)
		body = v3.EncodeConnectPayload(body, b.vh, b.payload)
	}

	return finish(wire.CONNECT, wire.FixedHeader{}, body)
}

// ConnAckBuilder constructs a CONNACK packet.
type ConnAckBuilder struct {
	version wire.ProtocolVersion
	vh      wire.ConnAckVariableHeader
}

// ConnAck starts a CONNACK builder targeting the given protocol
// version.
func ConnAck(version wire.ProtocolVersion) *ConnAckBuilder {
	return &ConnAckBuilder{version: version}
}

func (b *ConnAckBuilder) SessionPresent(present bool) *ConnAckBuilder {
	b.vh.SessionPresent = present
	return b
}

func (b *ConnAckBuilder) ReasonCode(rc wire.ReasonCode) *ConnAckBuilder {
	b.vh.ReasonCode = rc
	return b
}

func (b *ConnAckBuilder) Properties(props wire.Properties) *ConnAckBuilder {
	b.vh.Properties = props
	return b
}

// Build encodes the accumulated fields into a complete CONNACK packet.
func (b *ConnAckBuilder) Build() ([]byte, error) {
	var body []byte
	var err error
	if b.version.IsV5() {
		body, err = v5.EncodeConnAckVariableHeader(body, b.vh)
		if err != nil {
			return nil, err
		}
	} else {
		body = v3.EncodeConnAckVariableHeader(body, b.vh)
	}
	return finish(wire.CONNACK, wire.FixedHeader{}, body)
}
