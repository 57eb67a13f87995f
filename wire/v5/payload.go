package v5

import (
	mqttcodec "github.com/wiremq/codec"
	"github.com/wiremq/codec/wire"
)

// ParseConnectPayload reads CONNECT's payload. Under v5, a present
// will carries its own will-properties block ahead of the will topic.
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
		willProps, err := ParseProperties(r)
		if err != nil {
			return wire.ConnectPayload{}, err
		}
		topic, err := mqttcodec.ReadUTF8String(r)
		if err != nil {
			return wire.ConnectPayload{}, err
		}
		msg, err := mqttcodec.ReadBinaryData(r)
		if err != nil {
			return wire.ConnectPayload{}, err
		}
		payload.WillProperties = willProps
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
// 23 characters drawn from [0-9a-zA-Z]. Unreachable under the normal
// v5 dialect (v3.1 always decodes through the v3 package) but kept
// here so a direct call with vh.ProtocolVersion == MQTT31 still
// enforces the rule.
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
func EncodeConnectPayload(dst []byte, vh wire.ConnectVariableHeader, payload wire.ConnectPayload) ([]byte, error) {
	dst = mqttcodec.WriteUTF8String(dst, payload.ClientID)
	if vh.HasWill {
		var err error
		dst, err = EncodeProperties(dst, payload.WillProperties)
		if err != nil {
			return dst, err
		}
		dst = mqttcodec.WriteUTF8String(dst, payload.WillTopic)
		dst = mqttcodec.WriteBinaryData(dst, payload.WillPayload)
	}
	if vh.HasUsername {
		dst = mqttcodec.WriteUTF8String(dst, payload.Username)
	}
	if vh.HasPassword {
		dst = mqttcodec.WriteBinaryData(dst, payload.Password)
	}
	return dst, nil
}

// ParseSubscribePayload reads v5 subscription options: topic filter,
// then an options byte carrying QoS, No Local, Retain As Published,
// and Retain Handling, with the top two bits reserved.
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
		if optByte&0xC0 != 0 {
			return wire.SubscribePayload{}, mqttcodec.ErrProtocolViolation
		}
		retainHandling := (optByte & 0x30) >> 4
		if retainHandling > 2 {
			return wire.SubscribePayload{}, mqttcodec.ErrProtocolViolation
		}
		qos := wire.QoS(optByte & 0x03)
		if !qos.IsValid() {
			return wire.SubscribePayload{}, mqttcodec.ErrInvalidQoS
		}
		subs = append(subs, wire.SubscriptionOption{
			TopicFilter:       filter,
			QoS:               qos,
			NoLocal:           optByte&0x04 != 0,
			RetainAsPublished: optByte&0x08 != 0,
			RetainHandling:    retainHandling,
		})
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
		opts := byte(sub.QoS)
		if sub.NoLocal {
			opts |= 0x04
		}
		if sub.RetainAsPublished {
			opts |= 0x08
		}
		opts |= sub.RetainHandling << 4
		dst = mqttcodec.WriteUint8(dst, opts)
	}
	return dst
}

// ParseSubAckPayload reads one reason code per requested subscription.
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
// are exhausted; v5 UNSUBSCRIBE carries no per-filter options.
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

// ParseUnsubAckPayload reads one reason code per requested filter,
// present only under v5 (v3.1.1 UNSUBACK has no payload at all).
func ParseUnsubAckPayload(r *mqttcodec.ByteReader, payloadEnd int) (wire.UnsubAckPayload, error) {
	var codes []wire.ReasonCode
	for r.Pos() < payloadEnd {
		b, err := mqttcodec.ReadUint8(r)
		if err != nil {
			return wire.UnsubAckPayload{}, err
		}
		codes = append(codes, wire.ReasonCode(b))
	}
	return wire.UnsubAckPayload{ReasonCodes: codes}, nil
}

// EncodeUnsubAckPayload appends UNSUBACK's payload.
func EncodeUnsubAckPayload(dst []byte, payload wire.UnsubAckPayload) []byte {
	for _, rc := range payload.ReasonCodes {
		dst = mqttcodec.WriteUint8(dst, byte(rc))
	}
	return dst
}

// ParsePublishPayload takes the remaining bytes up to payloadEnd
// verbatim. The returned slice aliases the assembler's read buffer.
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
