package builder

import (
	"github.com/wiremq/codec/wire"
	v3 "github.com/wiremq/codec/wire/v3"
	v5 "github.com/wiremq/codec/wire/v5"
)

// PubReplyBuilder constructs PUBACK, PUBREC, PUBREL, or PUBCOMP —
// the four packet types sharing PubReplyVariableHeader's shape and,
// under v5, its remaining-length shortcut.
type PubReplyBuilder struct {
	version wire.ProtocolVersion
	msgType wire.MessageType
	vh      wire.PubReplyVariableHeader
}

func pubReply(version wire.ProtocolVersion, t wire.MessageType) *PubReplyBuilder {
	return &PubReplyBuilder{version: version, msgType: t, vh: wire.PubReplyVariableHeader{ReasonCode: wire.ReasonSuccess}}
}

// PubAck starts a PUBACK builder.
func PubAck(version wire.ProtocolVersion) *PubReplyBuilder { return pubReply(version, wire.PUBACK) }

// PubRec starts a PUBREC builder.
func PubRec(version wire.ProtocolVersion) *PubReplyBuilder { return pubReply(version, wire.PUBREC) }

// PubRel starts a PUBREL builder. PUBREL always carries the reserved
// flag nibble 0b0010, applied automatically by EncodeFixedHeader.
func PubRel(version wire.ProtocolVersion) *PubReplyBuilder { return pubReply(version, wire.PUBREL) }

// PubComp starts a PUBCOMP builder.
func PubComp(version wire.ProtocolVersion) *PubReplyBuilder {
	return pubReply(version, wire.PUBCOMP)
}

func (b *PubReplyBuilder) PacketID(id uint16) *PubReplyBuilder {
	b.vh.PacketID = id
	return b
}

func (b *PubReplyBuilder) ReasonCode(rc wire.ReasonCode) *PubReplyBuilder {
	b.vh.ReasonCode = rc
	return b
}

func (b *PubReplyBuilder) Properties(props wire.Properties) *PubReplyBuilder {
	b.vh.Properties = props
	return b
}

// Build encodes the accumulated fields into a complete packet.
func (b *PubReplyBuilder) Build() ([]byte, error) {
	var body []byte
	var err error
	if b.version.IsV5() {
		body, err = v5.EncodePubReplyVariableHeader(body, b.msgType, b.vh)
		if err != nil {
			return nil, err
		}
	} else {
		body = v3.EncodeMessageIdVariableHeader(body, wire.MessageIdVariableHeader{PacketID: b.vh.PacketID})
	}
	return finish(b.msgType, wire.FixedHeader{}, body)
}
