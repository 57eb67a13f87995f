package v5

import (
	mqttcodec "github.com/wiremq/codec"
	"github.com/wiremq/codec/wire"
)

const (
	flagUsername   = 0x80
	flagPassword   = 0x40
	flagWillRetain = 0x20
	flagWillQoS    = 0x18
	flagWillFlag   = 0x04
	flagCleanStart = 0x02
	flagReserved   = 0x01
)

// ParseConnectVariableHeader reads CONNECT's protocol name/level,
// connect flags, keep-alive, and properties block.
func ParseConnectVariableHeader(r *mqttcodec.ByteReader) (wire.ConnectVariableHeader, error) {
	name, err := mqttcodec.ReadUTF8String(r)
	if err != nil {
		return wire.ConnectVariableHeader{}, err
	}
	level, err := mqttcodec.ReadUint8(r)
	if err != nil {
		return wire.ConnectVariableHeader{}, err
	}
	version, ok := wire.ResolveProtocolVersion(name, level)
	if !ok {
		return wire.ConnectVariableHeader{}, mqttcodec.ErrInvalidProtocolInfo
	}

	flags, err := mqttcodec.ReadUint8(r)
	if err != nil {
		return wire.ConnectVariableHeader{}, err
	}
	if flags&flagReserved != 0 {
		return wire.ConnectVariableHeader{}, mqttcodec.ErrReservedFlags
	}

	keepAlive, err := mqttcodec.ReadUint16(r)
	if err != nil {
		return wire.ConnectVariableHeader{}, err
	}

	props, err := ParseProperties(r)
	if err != nil {
		return wire.ConnectVariableHeader{}, err
	}

	vh := wire.ConnectVariableHeader{
		ProtocolVersion: version,
		CleanStart:      flags&flagCleanStart != 0,
		HasWill:         flags&flagWillFlag != 0,
		WillQoS:         wire.QoS((flags & flagWillQoS) >> 3),
		WillRetain:      flags&flagWillRetain != 0,
		HasUsername:     flags&flagUsername != 0,
		HasPassword:     flags&flagPassword != 0,
		KeepAlive:       keepAlive,
		Properties:      props,
	}

	if !vh.HasWill && (vh.WillQoS != wire.AtMostOnce || vh.WillRetain) {
		return wire.ConnectVariableHeader{}, mqttcodec.ErrProtocolViolation
	}
	if !vh.WillQoS.IsValid() {
		return wire.ConnectVariableHeader{}, mqttcodec.ErrInvalidQoS
	}
	if vh.HasPassword && !vh.HasUsername {
		return wire.ConnectVariableHeader{}, mqttcodec.ErrProtocolViolation
	}

	return vh, nil
}

// EncodeConnectVariableHeader appends CONNECT's variable header.
func EncodeConnectVariableHeader(dst []byte, vh wire.ConnectVariableHeader) ([]byte, error) {
	dst = mqttcodec.WriteUTF8String(dst, vh.ProtocolVersion.ProtocolName())
	dst = mqttcodec.WriteUint8(dst, byte(vh.ProtocolVersion))

	var flags byte
	if vh.HasUsername {
		flags |= flagUsername
	}
	if vh.HasPassword {
		flags |= flagPassword
	}
	if vh.HasWill {
		flags |= flagWillFlag
		flags |= byte(vh.WillQoS) << 3
		if vh.WillRetain {
			flags |= flagWillRetain
		}
	}
	if vh.CleanStart {
		flags |= flagCleanStart
	}
	dst = mqttcodec.WriteUint8(dst, flags)
	dst = mqttcodec.WriteUint16(dst, vh.KeepAlive)
	return EncodeProperties(dst, vh.Properties)
}

// ParseConnAckVariableHeader reads CONNACK's session-present flag,
// reason code, and properties. Unlike PUBACK et al, CONNACK has no
// remaining-length shortcut: the reason code and properties are
// always present.
func ParseConnAckVariableHeader(r *mqttcodec.ByteReader) (wire.ConnAckVariableHeader, error) {
	ackFlags, err := mqttcodec.ReadUint8(r)
	if err != nil {
		return wire.ConnAckVariableHeader{}, err
	}
	if ackFlags&0xFE != 0 {
		return wire.ConnAckVariableHeader{}, mqttcodec.ErrProtocolViolation
	}
	rc, err := mqttcodec.ReadUint8(r)
	if err != nil {
		return wire.ConnAckVariableHeader{}, err
	}
	props, err := ParseProperties(r)
	if err != nil {
		return wire.ConnAckVariableHeader{}, err
	}
	return wire.ConnAckVariableHeader{
		SessionPresent: ackFlags&0x01 != 0,
		ReasonCode:     wire.ReasonCode(rc),
		Properties:     props,
	}, nil
}

// EncodeConnAckVariableHeader appends CONNACK's variable header.
func EncodeConnAckVariableHeader(dst []byte, vh wire.ConnAckVariableHeader) ([]byte, error) {
	var flags byte
	if vh.SessionPresent {
		flags = 0x01
	}
	dst = mqttcodec.WriteUint8(dst, flags)
	dst = mqttcodec.WriteUint8(dst, byte(vh.ReasonCode))
	return EncodeProperties(dst, vh.Properties)
}

// ParsePublishVariableHeader reads PUBLISH's topic name, packet
// identifier (at QoS > 0), and properties.
func ParsePublishVariableHeader(r *mqttcodec.ByteReader, fh wire.FixedHeader) (wire.PublishVariableHeader, error) {
	topic, err := mqttcodec.ReadUTF8String(r)
	if err != nil {
		return wire.PublishVariableHeader{}, err
	}
	if topic == "" || containsWildcard(topic) {
		return wire.PublishVariableHeader{}, mqttcodec.ErrInvalidTopic
	}

	vh := wire.PublishVariableHeader{TopicName: topic}
	if fh.QoS != wire.AtMostOnce {
		pid, err := mqttcodec.ReadUint16(r)
		if err != nil {
			return wire.PublishVariableHeader{}, err
		}
		if pid == 0 {
			return wire.PublishVariableHeader{}, mqttcodec.ErrInvalidPacketID
		}
		vh.PacketID = pid
		vh.HasPacketID = true
	}

	props, err := ParseProperties(r)
	if err != nil {
		return wire.PublishVariableHeader{}, err
	}
	vh.Properties = props
	return vh, nil
}

// EncodePublishVariableHeader appends PUBLISH's variable header.
func EncodePublishVariableHeader(dst []byte, vh wire.PublishVariableHeader) ([]byte, error) {
	dst = mqttcodec.WriteUTF8String(dst, vh.TopicName)
	if vh.HasPacketID {
		dst = mqttcodec.WriteUint16(dst, vh.PacketID)
	}
	return EncodeProperties(dst, vh.Properties)
}

// ParsePubReplyVariableHeader reads PUBACK/PUBREC/PUBREL/PUBCOMP's
// variable header, applying the remaining-length shortcut: if only 2
// bytes remain in the packet, the reason code is Success and there are
// no properties.
func ParsePubReplyVariableHeader(r *mqttcodec.ByteReader, payloadEnd int) (wire.PubReplyVariableHeader, error) {
	pid, err := mqttcodec.ReadUint16(r)
	if err != nil {
		return wire.PubReplyVariableHeader{}, err
	}
	if pid == 0 {
		return wire.PubReplyVariableHeader{}, mqttcodec.ErrInvalidPacketID
	}

	if r.Pos() == payloadEnd {
		return wire.PubReplyVariableHeader{PacketID: pid, ReasonCode: wire.ReasonSuccess}, nil
	}

	rc, err := mqttcodec.ReadUint8(r)
	if err != nil {
		return wire.PubReplyVariableHeader{}, err
	}

	vh := wire.PubReplyVariableHeader{PacketID: pid, ReasonCode: wire.ReasonCode(rc)}
	if r.Pos() < payloadEnd {
		props, err := ParseProperties(r)
		if err != nil {
			return wire.PubReplyVariableHeader{}, err
		}
		vh.Properties = props
	}
	return vh, nil
}

// EncodePubReplyVariableHeader appends PUBACK/PUBREC/PUBREL/PUBCOMP's
// variable header, applying the same shortcut on encode: a Success
// reason with no properties is written as just the packet identifier.
func EncodePubReplyVariableHeader(dst []byte, t wire.MessageType, vh wire.PubReplyVariableHeader) ([]byte, error) {
	dst = mqttcodec.WriteUint16(dst, vh.PacketID)
	d := New()
	if d.AckShortcutEligible(t, vh.ReasonCode, len(vh.Properties.Items) > 0) {
		return dst, nil
	}
	dst = mqttcodec.WriteUint8(dst, byte(vh.ReasonCode))
	return EncodeProperties(dst, vh.Properties)
}

// ParseMessageIdPlusPropertiesVariableHeader reads SUBSCRIBE's
// variable header: packet identifier then properties. (v5 UNSUBSCRIBE
// carries no properties block.)
func ParseMessageIdPlusPropertiesVariableHeader(r *mqttcodec.ByteReader) (wire.MessageIdPlusPropertiesVariableHeader, error) {
	pid, err := mqttcodec.ReadUint16(r)
	if err != nil {
		return wire.MessageIdPlusPropertiesVariableHeader{}, err
	}
	if pid == 0 {
		return wire.MessageIdPlusPropertiesVariableHeader{}, mqttcodec.ErrInvalidPacketID
	}
	props, err := ParseProperties(r)
	if err != nil {
		return wire.MessageIdPlusPropertiesVariableHeader{}, err
	}
	return wire.MessageIdPlusPropertiesVariableHeader{PacketID: pid, Properties: props}, nil
}

// EncodeMessageIdPlusPropertiesVariableHeader appends SUBSCRIBE's
// variable header.
func EncodeMessageIdPlusPropertiesVariableHeader(dst []byte, vh wire.MessageIdPlusPropertiesVariableHeader) ([]byte, error) {
	dst = mqttcodec.WriteUint16(dst, vh.PacketID)
	return EncodeProperties(dst, vh.Properties)
}

// ParseReasonCodePlusPropertiesVariableHeader reads SUBACK's and
// UNSUBACK's variable header (packet identifier, reason code carried
// per-entry in the payload instead here, properties block) as well as
// DISCONNECT's and AUTH's (no packet identifier, bare reason code,
// properties), selected by hasPacketID.
func ParseReasonCodePlusPropertiesVariableHeader(r *mqttcodec.ByteReader, hasPacketID bool, payloadEnd int) (wire.ReasonCodePlusPropertiesVariableHeader, error) {
	var vh wire.ReasonCodePlusPropertiesVariableHeader
	vh.HasPacketID = hasPacketID

	if hasPacketID {
		pid, err := mqttcodec.ReadUint16(r)
		if err != nil {
			return wire.ReasonCodePlusPropertiesVariableHeader{}, err
		}
		if pid == 0 {
			return wire.ReasonCodePlusPropertiesVariableHeader{}, mqttcodec.ErrInvalidPacketID
		}
		vh.PacketID = pid
		props, err := ParseProperties(r)
		if err != nil {
			return wire.ReasonCodePlusPropertiesVariableHeader{}, err
		}
		vh.Properties = props
		return vh, nil
	}

	// DISCONNECT/AUTH: reason code and properties are both optional
	// when the packet carries no further information (remaining length
	// may be 0 or 1).
	if r.Pos() >= payloadEnd {
		vh.ReasonCode = wire.ReasonSuccess
		return vh, nil
	}
	rc, err := mqttcodec.ReadUint8(r)
	if err != nil {
		return wire.ReasonCodePlusPropertiesVariableHeader{}, err
	}
	vh.ReasonCode = wire.ReasonCode(rc)
	if r.Pos() < payloadEnd {
		props, err := ParseProperties(r)
		if err != nil {
			return wire.ReasonCodePlusPropertiesVariableHeader{}, err
		}
		vh.Properties = props
	}
	return vh, nil
}

// EncodeReasonCodePlusPropertiesVariableHeader appends DISCONNECT's
// and AUTH's variable header, omitting the reason code and properties
// entirely when the reason is Success and there is nothing to say.
func EncodeReasonCodePlusPropertiesVariableHeader(dst []byte, vh wire.ReasonCodePlusPropertiesVariableHeader) ([]byte, error) {
	if vh.HasPacketID {
		dst = mqttcodec.WriteUint16(dst, vh.PacketID)
		return EncodeProperties(dst, vh.Properties)
	}
	if vh.ReasonCode == wire.ReasonSuccess && len(vh.Properties.Items) == 0 {
		return dst, nil
	}
	dst = mqttcodec.WriteUint8(dst, byte(vh.ReasonCode))
	return EncodeProperties(dst, vh.Properties)
}

func containsWildcard(topic string) bool {
	for i := 0; i < len(topic); i++ {
		if topic[i] == '#' || topic[i] == '+' {
			return true
		}
	}
	return false
}
