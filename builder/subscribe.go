package builder

import (
	"github.com/wiremq/codec/wire"
	v3 "github.com/wiremq/codec/wire/v3"
	v5 "github.com/wiremq/codec/wire/v5"
)

// SubscribeBuilder constructs a SUBSCRIBE packet.
type SubscribeBuilder struct {
	version       wire.ProtocolVersion
	packetID      uint16
	properties    wire.Properties
	subscriptions []wire.SubscriptionOption
}

// Subscribe starts a SUBSCRIBE builder.
func Subscribe(version wire.ProtocolVersion) *SubscribeBuilder {
	return &SubscribeBuilder{version: version}
}

func (b *SubscribeBuilder) PacketID(id uint16) *SubscribeBuilder {
	b.packetID = id
	return b
}

func (b *SubscribeBuilder) Properties(props wire.Properties) *SubscribeBuilder {
	b.properties = props
	return b
}

func (b *SubscribeBuilder) AddFilter(opt wire.SubscriptionOption) *SubscribeBuilder {
	b.subscriptions = append(b.subscriptions, opt)
	return b
}

// Build encodes the accumulated fields into a complete SUBSCRIBE
// packet. SUBSCRIBE always carries the reserved flag nibble 0b0010,
// applied automatically by EncodeFixedHeader.
func (b *SubscribeBuilder) Build() ([]byte, error) {
	var body []byte
	payload := wire.SubscribePayload{Subscriptions: b.subscriptions}

	if b.version.IsV5() {
		var err error
		body, err = v5.EncodeMessageIdPlusPropertiesVariableHeader(body, wire.MessageIdPlusPropertiesVariableHeader{
			PacketID:   b.packetID,
			Properties: b.properties,
		})
		if err != nil {
			return nil, err
		}
		body = v5.EncodeSubscribePayload(body, payload)
	} else {
		body = v3.EncodeMessageIdVariableHeader(body, wire.MessageIdVariableHeader{PacketID: b.packetID})
		body = v3.EncodeSubscribePayload(body, payload)
	}

	return finish(wire.SUBSCRIBE, wire.FixedHeader{}, body)
}

// SubAckBuilder constructs a SUBACK packet.
type SubAckBuilder struct {
	version     wire.ProtocolVersion
	packetID    uint16
	properties  wire.Properties
	reasonCodes []wire.ReasonCode
}

// SubAck starts a SUBACK builder.
func SubAck(version wire.ProtocolVersion) *SubAckBuilder {
	return &SubAckBuilder{version: version}
}

func (b *SubAckBuilder) PacketID(id uint16) *SubAckBuilder {
	b.packetID = id
	return b
}

func (b *SubAckBuilder) Properties(props wire.Properties) *SubAckBuilder {
	b.properties = props
	return b
}

func (b *SubAckBuilder) AddReasonCode(rc wire.ReasonCode) *SubAckBuilder {
	b.reasonCodes = append(b.reasonCodes, rc)
	return b
}

// Build encodes the accumulated fields into a complete SUBACK packet.
func (b *SubAckBuilder) Build() ([]byte, error) {
	var body []byte
	payload := wire.SubAckPayload{ReasonCodes: b.reasonCodes}

	if b.version.IsV5() {
		var err error
		body, err = v5.EncodeReasonCodePlusPropertiesVariableHeader(body, wire.ReasonCodePlusPropertiesVariableHeader{
			PacketID:    b.packetID,
			HasPacketID: true,
			Properties:  b.properties,
		})
		if err != nil {
			return nil, err
		}
		body = v5.EncodeSubAckPayload(body, payload)
	} else {
		body = v3.EncodeMessageIdVariableHeader(body, wire.MessageIdVariableHeader{PacketID: b.packetID})
		body = v3.EncodeSubAckPayload(body, payload)
	}

	return finish(wire.SUBACK, wire.FixedHeader{}, body)
}

// UnsubscribeBuilder constructs an UNSUBSCRIBE packet.
type UnsubscribeBuilder struct {
	version      wire.ProtocolVersion
	packetID     uint16
	topicFilters []string
}

// Unsubscribe starts an UNSUBSCRIBE builder.
func Unsubscribe(version wire.ProtocolVersion) *UnsubscribeBuilder {
	return &UnsubscribeBuilder{version: version}
}

func (b *UnsubscribeBuilder) PacketID(id uint16) *UnsubscribeBuilder {
	b.packetID = id
	return b
}

func (b *UnsubscribeBuilder) AddFilter(filter string) *UnsubscribeBuilder {
	b.topicFilters = append(b.topicFilters, filter)
	return b
}

// Build encodes the accumulated fields into a complete UNSUBSCRIBE
// packet. UNSUBSCRIBE always carries the reserved flag nibble 0b0010.
// Unlike SUBSCRIBE, its variable header is pid only under both v3.1.1
// and v5 — there is no properties block to attach.
func (b *UnsubscribeBuilder) Build() ([]byte, error) {
	body := v3.EncodeMessageIdVariableHeader(nil, wire.MessageIdVariableHeader{PacketID: b.packetID})
	payload := wire.UnsubscribePayload{TopicFilters: b.topicFilters}

	if b.version.IsV5() {
		body = v5.EncodeUnsubscribePayload(body, payload)
	} else {
		body = v3.EncodeUnsubscribePayload(body, payload)
	}

	return finish(wire.UNSUBSCRIBE, wire.FixedHeader{}, body)
}

// UnsubAckBuilder constructs an UNSUBACK packet.
type UnsubAckBuilder struct {
	version     wire.ProtocolVersion
	packetID    uint16
	properties  wire.Properties
	reasonCodes []wire.ReasonCode
}

// UnsubAck starts an UNSUBACK builder.
func UnsubAck(version wire.ProtocolVersion) *UnsubAckBuilder {
	return &UnsubAckBuilder{version: version}
}

func (b *UnsubAckBuilder) PacketID(id uint16) *UnsubAckBuilder {
	b.packetID = id
	return b
}

func (b *UnsubAckBuilder) Properties(props wire.Properties) *UnsubAckBuilder {
	b.properties = props
	return b
}

func (b *UnsubAckBuilder) AddReasonCode(rc wire.ReasonCode) *UnsubAckBuilder {
	b.reasonCodes = append(b.reasonCodes, rc)
	return b
}

// Build encodes the accumulated fields into a complete UNSUBACK
// packet. Under v3.1.1, UNSUBACK carries no payload at all; any
// reason codes added are only emitted when targeting v5.
func (b *UnsubAckBuilder) Build() ([]byte, error) {
	var body []byte

	if b.version.IsV5() {
		var err error
		body, err = v5.EncodeReasonCodePlusPropertiesVariableHeader(body, wire.ReasonCodePlusPropertiesVariableHeader{
			PacketID:    b.packetID,
			HasPacketID: true,
			Properties:  b.properties,
		})
		if err != nil {
			return nil, err
		}
		body = v5.EncodeUnsubAckPayload(body, wire.UnsubAckPayload{ReasonCodes: b.reasonCodes})
	} else {
		body = v3.EncodeMessageIdVariableHeader(body, wire.MessageIdVariableHeader{PacketID: b.packetID})
	}

	return finish(wire.UNSUBACK, wire.FixedHeader{}, body)
}
