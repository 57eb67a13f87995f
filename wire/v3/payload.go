package v3

import (
	mqttcodec "github.com/wiremq/codec"
	"github.com/wiremq/codec/wire"
)

// ParseConnectPayload reads CONNECT's payload fields in the fixed
// order the flags in vh dictate: client id, then will topic/message if
// present, then username/password if present.
func ParseConnectPayload(r *mqttcodec.ByteReader, vh wire.ConnectVariableHeader) (wire.ConnectPayload, error) {
	clientID, err := mqttcodec.ReadUTF8String(r)
	if err != nil {
		return wire.ConnectPayload{}, err
	}
	if vh.ProtocolVersion == wire.MQTT31 {
		if err := validateClientID(clientID); err != nil {
			return wire.ConnectPayload{}, err
		}
	}

	payload := wire.ConnectPayload{ClientID: clientID}

	if vh.HasWill {
		topic, err := mqttcodec.ReadUTF8String(r)
		if err != nil {
			return wire.ConnectPayload{}, err
		}
		msg, err := mqttcodec.ReadBinaryData(r)
		if err != nil {
			return wire.ConnectPayload{}, err
		}
		payload.WillTopic = topic
		payload.WillPayload = append([]byte(nil), msg...)
	}

	if vh.HasUsername {
		username, err := mqttcodec.ReadUTF8String(r)
		if err != nil {
			return wire.ConnectPayload{}, err
		}
		payload.Username = username
	}
	if vh.HasPassword {
		password, err := mqttcodec.ReadBinaryData(r)
		if err != nil {
			return wire.ConnectPayload{}, err
		}
		payload.Password = append([]byte(nil), password...)
	}

	return payload, nil
}

// validateClientID enforces MQTT 3.1's client identifier shape: 1 to
// 23 characters drawn from [0-9a-zA-Z]. 3.1.1 and 5 have no such
// restriction and never call this.
func validateClientID(id string) error {
	if len(id) < 1 || len(id) > 23 {
		return mqttcodec.ErrIdentifierRejected
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		default:
			return mqttcodec.ErrIdentifierRejected
		}
	}
	return nil
}

// EncodeConnectPayload appends CONNECT's payload.
func EncodeConnectPayload(dst []byte, vh wire.ConnectVariableHeader, payload wire.ConnectPayload) []byte {
	dst = mqttcodec.WriteUTF8String(dst, payload.ClientID)
	if vh.HasWill {
		dst = mqttcodec.WriteUTF8String(dst, payload.WillTopic)
		dst = mqttcodec.WriteBinaryData(dst, payload.WillPayload)
	}
	if vh.HasUsername {
		dst = mqttcodec.WriteUTF8String(dst, payload.Username)
	}
	if vh.HasPassword {
		dst = mqttcodec.WriteBinaryData(dst, payload.Password)
	}
	return dst
}

// ParseSubscribePayload reads subscriptions until remaining bytes are
// exhausted; SUBSCRIBE's payload carries no count, only an implicit
// list bounded by the fixed header's remaining length.
func ParseSubscribePayload(r *mqttcodec.ByteReader, payloadEnd int) (wire.SubscribePayload, error) {
	var subs []wire.SubscriptionOption
	for r.Pos() < payloadEnd {
		filter, err := mqttcodec.ReadUTF8String(r)
		if err != nil {
			return wire.SubscribePayload{}, err
		}
		if filter == "" {
			return wire.SubscribePayload{}, mqttcodec.ErrInvalidTopic
		}
		optByte, err := mqttcodec.ReadUint8(r)
		if err != nil {
			return wire.SubscribePayload{}, err
		}
		if optByte&0xFC != 0 {
			return wire.SubscribePayload{}, mqttcodec.ErrProtocolViolation
		}
		qos := wire.QoS(optByte & 0x03)
		if !qos.IsValid() {
			return wire.SubscribePayload{}, mqttcodec.ErrInvalidQoS
		}
		subs = append(subs, wire.SubscriptionOption{TopicFilter: filter, QoS: qos})
	}
	if len(subs) == 0 {
		return wire.SubscribePayload{}, mqttcodec.ErrProtocolViolation
	}
	return wire.SubscribePayload{Subscriptions: subs}, nil
}

// EncodeSubscribePayload appends SUBSCRIBE's payload.
func EncodeSubscribePayload(dst []byte, payload wire.SubscribePayload) []byte {
	for _, sub := range payload.Subscriptions {
		dst = mqttcodec.WriteUTF8String(dst, sub.TopicFilter)
		dst = mqttcodec.WriteUint8(dst, byte(sub.QoS))
	}
	return dst
}

// ParseSubAckPayload reads one return code per requested subscription.
func ParseSubAckPayload(r *mqttcodec.ByteReader, payloadEnd int) (wire.SubAckPayload, error) {
	var codes []wire.ReasonCode
	for r.Pos() < payloadEnd {
		b, err := mqttcodec.ReadUint8(r)
		if err != nil {
			return wire.SubAckPayload{}, err
		}
		codes = append(codes, wire.ReasonCode(b))
	}
	return wire.SubAckPayload{ReasonCodes: codes}, nil
}

// EncodeSubAckPayload appends SUBACK's payload.
func EncodeSubAckPayload(dst []byte, payload wire.SubAckPayload) []byte {
	for _, rc := range payload.ReasonCodes {
		dst = mqttcodec.WriteUint8(dst, byte(rc))
	}
	return dst
}

// ParseUnsubscribePayload reads topic filters until remaining bytes
// are exhausted.
func ParseUnsubscribePayload(r *mqttcodec.ByteReader, payloadEnd int) (wire.UnsubscribePayload, error) {
	var filters []string
	for r.Pos() < payloadEnd {
		filter, err := mqttcodec.ReadUTF8String(r)
		if err != nil {
			return wire.UnsubscribePayload{}, err
		}
		if filter == "" {
			return wire.UnsubscribePayload{}, mqttcodec.ErrInvalidTopic
		}
		filters = append(filters, filter)
	}
	if len(filters) == 0 {
		return wire.UnsubscribePayload{}, mqttcodec.ErrProtocolViolation
	}
	return wire.UnsubscribePayload{TopicFilters: filters}, nil
}

// EncodeUnsubscribePayload appends UNSUBSCRIBE's payload.
func EncodeUnsubscribePayload(dst []byte, payload wire.UnsubscribePayload) []byte {
	for _, filter := range payload.TopicFilters {
		dst = mqttcodec.WriteUTF8String(dst, filter)
	}
	return dst
}

// ParsePublishPayload takes the remaining bytes up to payloadEnd
// verbatim; PUBLISH's application payload has no internal framing.
// The returned slice aliases the assembler's read buffer.
func ParsePublishPayload(r *mqttcodec.ByteReader, payloadEnd int) (wire.PublishPayload, error) {
	n := payloadEnd - r.Pos()
	b, err := r.ReadN(n)
	if err != nil {
		return wire.PublishPayload{}, err
	}
	return wire.PublishPayload{Bytes: b}, nil
}

// EncodePublishPayload appends PUBLISH's application payload.
func EncodePublishPayload(dst []byte, payload wire.PublishPayload) []byte {
	return append(dst, payload.Bytes...)
}
