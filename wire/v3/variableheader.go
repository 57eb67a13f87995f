package v3

import (
	mqttcodec "github.com/wiremq/codec"
	"github.com/wiremq/codec/wire"
)

// connectFlags bit positions within CONNECT's connect-flags byte.
const (
	flagUsername   = 0x80
	flagPassword   = 0x40
	flagWillRetain = 0x20
	flagWillQoS    = 0x18
	flagWillFlag   = 0x04
	flagCleanStart = 0x02
	flagReserved   = 0x01
)

// ParseConnectVariableHeader reads CONNECT's protocol name, level,
// connect flags, and keep-alive. It resolves the (name, level) pair
// with wire.ResolveProtocolVersion and returns ErrInvalidProtocolInfo
// for an unknown pair; the assembler has already resolved the same
// pair once to choose this dialect.
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

	vh := wire.ConnectVariableHeader{
		ProtocolVersion: version,
		CleanStart:      flags&flagCleanStart != 0,
		HasWill:         flags&flagWillFlag != 0,
		WillQoS:         wire.QoS((flags & flagWillQoS) >> 3),
		WillRetain:      flags&flagWillRetain != 0,
		HasUsername:     flags&flagUsername != 0,
		HasPassword:     flags&flagPassword != 0,
		KeepAlive:       keepAlive,
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
func EncodeConnectVariableHeader(dst []byte, vh wire.ConnectVariableHeader) []byte {
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
	return mqttcodec.WriteUint16(dst, vh.KeepAlive)
}

// ParseConnAckVariableHeader reads CONNACK's session-present flag and
// return code.
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
	return wire.ConnAckVariableHeader{
		SessionPresent: ackFlags&0x01 != 0,
		ReasonCode:     wire.ReasonCode(rc),
	}, nil
}

// EncodeConnAckVariableHeader appends CONNACK's variable header.
func EncodeConnAckVariableHeader(dst []byte, vh wire.ConnAckVariableHeader) []byte {
	var flags byte
	if vh.SessionPresent {
		flags = 0x01
	}
	dst = mqttcodec.WriteUint8(dst, flags)
	return mqttcodec.WriteUint8(dst, byte(vh.ReasonCode))
}

// ParsePublishVariableHeader reads PUBLISH's topic name and, at QoS >
// 0, its packet identifier.
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
	return vh, nil
}

// EncodePublishVariableHeader appends PUBLISH's variable header.
func EncodePublishVariableHeader(dst []byte, vh wire.PublishVariableHeader) []byte {
	dst = mqttcodec.WriteUTF8String(dst, vh.TopicName)
	if vh.HasPacketID {
		dst = mqttcodec.WriteUint16(dst, vh.PacketID)
	}
	return dst
}

// ParseMessageIdVariableHeader reads a bare packet identifier, used by
// SUBSCRIBE, UNSUBSCRIBE, and the v3 forms of PUBACK/PUBREC/PUBREL/
// PUBCOMP.
func ParseMessageIdVariableHeader(r *mqttcodec.ByteReader) (wire.MessageIdVariableHeader, error) {
	pid, err := mqttcodec.ReadUint16(r)
	if err != nil {
		return wire.MessageIdVariableHeader{}, err
	}
	if pid == 0 {
		return wire.MessageIdVariableHeader{}, mqttcodec.ErrInvalidPacketID
	}
	return wire.MessageIdVariableHeader{PacketID: pid}, nil
}

// EncodeMessageIdVariableHeader appends a bare packet identifier.
func EncodeMessageIdVariableHeader(dst []byte, vh wire.MessageIdVariableHeader) []byte {
	return mqttcodec.WriteUint16(dst, vh.PacketID)
}

func containsWildcard(topic string) bool {
	for i := 0; i < len(topic); i++ {
		if topic[i] == '#' || topic[i] == '+' {
			return true
		}
	}
	return false
}
