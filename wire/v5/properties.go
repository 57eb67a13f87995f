package v5

import (
	mqttcodec "github.com/wiremq/codec"
	"github.com/wiremq/codec/wire"
)

// propertyType is the wire shape a PropertyID's value takes, per
// spec.md §4.4's id-to-shape table (matches MQTT 5 section 2.2.2.2).
type propertyType int

const (
	typeByte propertyType = iota
	typeTwoByteInt
	typeFourByteInt
	typeVarInt
	typeUTF8String
	typeBinaryData
	typeUTF8Pair
)

var propertyShapes = map[wire.PropertyID]propertyType{
	wire.PropPayloadFormatIndicator:     typeByte,
	wire.PropMessageExpiryInterval:      typeFourByteInt,
	wire.PropContentType:                typeUTF8String,
	wire.PropResponseTopic:              typeUTF8String,
	wire.PropCorrelationData:            typeBinaryData,
	wire.PropSubscriptionIdentifier:     typeVarInt,
	wire.PropSessionExpiryInterval:      typeFourByteInt,
	wire.PropAssignedClientIdentifier:   typeUTF8String,
	wire.PropServerKeepAlive:            typeTwoByteInt,
	wire.PropAuthenticationMethod:       typeUTF8String,
	wire.PropAuthenticationData:         typeBinaryData,
	wire.PropRequestProblemInformation:  typeByte,
	wire.PropWillDelayInterval:          typeFourByteInt,
	wire.PropRequestResponseInformation: typeByte,
	wire.PropResponseInformation:        typeUTF8String,
	wire.PropServerReference:            typeUTF8String,
	wire.PropReasonString:               typeUTF8String,
	wire.PropReceiveMaximum:             typeTwoByteInt,
	wire.PropTopicAliasMaximum:          typeTwoByteInt,
	wire.PropTopicAlias:                 typeTwoByteInt,
	wire.PropMaximumQoS:                 typeByte,
	wire.PropRetainAvailable:            typeByte,
	wire.PropUserProperty:               typeUTF8Pair,
	wire.PropMaximumPacketSize:          typeFourByteInt,
	wire.PropWildcardSubAvailable:       typeByte,
	wire.PropSubscriptionIDAvailable:    typeByte,
	wire.PropSharedSubAvailable:         typeByte,
}

// ParseProperties reads a properties block: a variable byte integer
// length, then that many bytes of id/value pairs. An id outside
// propertyShapes, or a single-valued id repeated, is a protocol
// violation per spec.md's resolution of its "unknown property id" open
// question: reject rather than silently skip.
func ParseProperties(r *mqttcodec.ByteReader) (wire.Properties, error) {
	length, _, err := mqttcodec.DecodeVariableByteInteger(r)
	if err != nil {
		return wire.Properties{}, err
	}

	end := r.Pos() + int(length)
	var props wire.Properties
	seen := make(map[wire.PropertyID]bool)

	for r.Pos() < end {
		idByte, err := mqttcodec.ReadUint8(r)
		if err != nil {
			return wire.Properties{}, err
		}
		id := wire.PropertyID(idByte)

		shape, ok := propertyShapes[id]
		if !ok {
			return wire.Properties{}, mqttcodec.ErrProtocolViolation
		}
		if seen[id] && !wire.PropertyAllowsMultiple(id) {
			return wire.Properties{}, mqttcodec.ErrProtocolViolation
		}
		seen[id] = true

		prop := wire.Property{ID: id}
		switch shape {
		case typeByte:
			b, err := mqttcodec.ReadUint8(r)
			if err != nil {
				return wire.Properties{}, err
			}
			prop.Byte = b
		case typeTwoByteInt:
			v, err := mqttcodec.ReadUint16(r)
			if err != nil {
				return wire.Properties{}, err
			}
			prop.Uint16 = v
		case typeFourByteInt:
			v, err := mqttcodec.ReadUint32(r)
			if err != nil {
				return wire.Properties{}, err
			}
			prop.Uint32 = v
		case typeVarInt:
			v, _, err := mqttcodec.DecodeVariableByteInteger(r)
			if err != nil {
				return wire.Properties{}, err
			}
			prop.VarInt = v
		case typeUTF8String:
			s, err := mqttcodec.ReadUTF8String(r)
			if err != nil {
				return wire.Properties{}, err
			}
			prop.String = s
		case typeBinaryData:
			b, err := mqttcodec.ReadBinaryData(r)
			if err != nil {
				return wire.Properties{}, err
			}
			prop.Binary = append([]byte(nil), b...)
		case typeUTF8Pair:
			key, err := mqttcodec.ReadUTF8String(r)
			if err != nil {
				return wire.Properties{}, err
			}
			value, err := mqttcodec.ReadUTF8String(r)
			if err != nil {
				return wire.Properties{}, err
			}
			prop.Pair = wire.UTF8Pair{Key: key, Value: value}
		}

		if r.Pos() > end {
			return wire.Properties{}, mqttcodec.ErrProtocolViolation
		}
		props.Add(prop)
	}

	return props, nil
}

// EncodeProperties appends a length-prefixed properties block.
func EncodeProperties(dst []byte, props wire.Properties) ([]byte, error) {
	var body []byte
	for _, prop := range props.Items {
		body = append(body, byte(prop.ID))
		shape, ok := propertyShapes[prop.ID]
		if !ok {
			return dst, mqttcodec.ErrProtocolViolation
		}
		switch shape {
		case typeByte:
			body = mqttcodec.WriteUint8(body, prop.Byte)
		case typeTwoByteInt:
			body = mqttcodec.WriteUint16(body, prop.Uint16)
		case typeFourByteInt:
			body = mqttcodec.WriteUint32(body, prop.Uint32)
		case typeVarInt:
			var err error
			body, err = mqttcodec.EncodeVariableByteInteger(body, prop.VarInt)
			if err != nil {
				return dst, err
			}
		case typeUTF8String:
			body = mqttcodec.WriteUTF8String(body, prop.String)
		case typeBinaryData:
			body = mqttcodec.WriteBinaryData(body, prop.Binary)
		case typeUTF8Pair:
			body = mqttcodec.WriteUTF8String(body, prop.Pair.Key)
			body = mqttcodec.WriteUTF8String(body, prop.Pair.Value)
		}
	}

	dst, err := mqttcodec.EncodeVariableByteInteger(dst, uint32(len(body)))
	if err != nil {
		return dst, err
	}
	return append(dst, body...), nil
}

// PropertiesEncodedLength returns the byte length EncodeProperties
// would produce for props, including its own length prefix, without
// allocating the encoded bytes.
func PropertiesEncodedLength(props wire.Properties) (int, error) {
	encoded, err := EncodeProperties(nil, props)
	if err != nil {
		return 0, err
	}
	return len(encoded), nil
}
