package builder

import (
	"github.com/wiremq/codec/wire"
	v5 "github.com/wiremq/codec/wire/v5"
)

// ReasonBuilder constructs DISCONNECT or AUTH, the two packet types
// with a bare reason code plus properties and no packet identifier.
// Both are v5-only; under v3.1.1, DISCONNECT has no variable header
// at all and Build ignores any reason code or properties set.
type ReasonBuilder struct {
	version    wire.ProtocolVersion
	msgType    wire.MessageType
	reasonCode wire.ReasonCode
	properties wire.Properties
}

func reasonOnly(version wire.ProtocolVersion, t wire.MessageType) *ReasonBuilder {
	return &ReasonBuilder{version: version, msgType: t, reasonCode: wire.ReasonSuccess}
}

// Disconnect starts a DISCONNECT builder.
func Disconnect(version wire.ProtocolVersion) *ReasonBuilder {
	return reasonOnly(version, wire.DISCONNECT)
}

// Auth starts an AUTH builder. AUTH exists only under v5.
func Auth(version wire.ProtocolVersion) *ReasonBuilder {
	return reasonOnly(version, wire.AUTH)
}

func (b *ReasonBuilder) ReasonCode(rc wire.ReasonCode) *ReasonBuilder {
	b.reasonCode = rc
	return b
}

func (b *ReasonBuilder) Properties(props wire.Properties) *ReasonBuilder {
	b.properties = props
	return b
}

// Build encodes the accumulated fields into a complete packet.
func (b *ReasonBuilder) Build() ([]byte, error) {
	var body []byte

	if b.version.IsV5() {
		var err error
		body, err = v5.EncodeReasonCodePlusPropertiesVariableHeader(body, wire.ReasonCodePlusPropertiesVariableHeader{
			ReasonCode: b.reasonCode,
			Properties: b.properties,
		})
		if err != nil {
			return nil, err
		}
	} else if b.msgType == wire.AUTH {
		return nil, errUnsupportedVersion
	}

	return finish(b.msgType, wire.FixedHeader{}, body)
}

// PingReq builds a complete PINGREQ packet: fixed header only.
func PingReq() ([]byte, error) {
	return finish(wire.PINGREQ, wire.FixedHeader{}, nil)
}

// PingResp builds a complete PINGRESP packet: fixed header only.
func PingResp() ([]byte, error) {
	return finish(wire.PINGRESP, wire.FixedHeader{}, nil)
}
