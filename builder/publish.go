package builder

import (
	mqttcodec "github.com/wiremq/codec"
	"github.com/wiremq/codec/wire"
	v3 "github.com/wiremq/codec/wire/v3"
	v5 "github.com/wiremq/codec/wire/v5"
)

// PublishBuilder constructs a PUBLISH packet.
type PublishBuilder struct {
	version wire.ProtocolVersion
	fh      wire.FixedHeader
	vh      wire.PublishVariableHeader
	payload wire.PublishPayload
}

// Publish starts a PUBLISH builder targeting the given protocol
// version.
func Publish(version wire.ProtocolVersion) *PublishBuilder {
	return &PublishBuilder{version: version}
}

func (b *PublishBuilder) Topic(name string) *PublishBuilder {
	b.vh.TopicName = name
	return b
}

func (b *PublishBuilder) QoS(qos wire.QoS) *PublishBuilder {
	b.fh.QoS = qos
	return b
}

func (b *PublishBuilder) Dup(dup bool) *PublishBuilder {
	b.fh.Dup = dup
	return b
}

func (b *PublishBuilder) Retain(retain bool) *PublishBuilder {
	b.fh.Retain = retain
	return b
}

func (b *PublishBuilder) PacketID(id uint16) *PublishBuilder {
	b.vh.PacketID = id
	b.vh.HasPacketID = true
	return b
}

func (b *PublishBuilder) Payload(data []byte) *PublishBuilder {
	b.payload.Bytes = data
	return b
}

func (b *PublishBuilder) Properties(props wire.Properties) *PublishBuilder {
	b.vh.Properties = props
	return b
}

// Build encodes the accumulated fields into a complete PUBLISH packet.
// An explicit PacketID is required at QoS > 0 (ErrInvalidPacketID
// without one); at QoS 0 a PacketID set on the builder is dropped and
// not encoded.
func (b *PublishBuilder) Build() ([]byte, error) {
	if b.fh.QoS == wire.AtMostOnce {
		b.vh.HasPacketID = false
	} else if !b.vh.HasPacketID {
		return nil, mqttcodec.ErrInvalidPacketID
	}

	var body []byte
	var err error
	if b.version.IsV5() {
		body, err = v5.EncodePublishVariableHeader(body, b.vh)
		if err != nil {
			return nil, err
		}
		body = v5.EncodePublishPayload(body, b.payload)
	} else {
		body = v3.EncodePublishVariableHeader(body, b.vh)
		body = v3.EncodePublishPayload(body, b.payload)
	}

	return finish(wire.PUBLISH, b.fh, body)
}
