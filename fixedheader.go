package mqttcodec

import "github.com/wiremq/codec/wire"

// ParseFixedHeader decodes the first byte (type + flags) and the
// variable byte integer remaining-length that follows. It validates
// the flag nibble for every type except PUBLISH, whose DUP/QoS/RETAIN
// bits are semantically meaningful and get their own checks here (a
// malformed QoS of 3 is ErrInvalidQoS, not ErrReservedFlags; DUP set at
// QoS 0 is ErrProtocolViolation). On any error the cursor is restored
// to where it was on entry.
func ParseFixedHeader(r *ByteReader) (wire.FixedHeader, error) {
	checkpoint := r.Pos()

	b, err := r.ReadByte()
	if err != nil {
		r.RewindTo(checkpoint)
		return wire.FixedHeader{}, err
	}

	msgType := wire.MessageType(b >> 4)
	flags := b & 0x0F

	if !msgType.IsValid() {
		r.RewindTo(checkpoint)
		return wire.FixedHeader{}, ErrUnknownMessageType
	}

	fh := wire.FixedHeader{Type: msgType}

	if msgType == wire.PUBLISH {
		fh.Dup = flags&0x08 != 0
		qos := wire.QoS((flags & 0x06) >> 1)
		if !qos.IsValid() {
			r.RewindTo(checkpoint)
			return wire.FixedHeader{}, ErrInvalidQoS
		}
		if qos == wire.AtMostOnce && fh.Dup {
			r.RewindTo(checkpoint)
			return wire.FixedHeader{}, ErrProtocolViolation
		}
		fh.QoS = qos
		fh.Retain = flags&0x01 != 0
	} else if expected, ok := wire.ExpectedFlags(msgType); ok && flags != expected {
		r.RewindTo(checkpoint)
		return wire.FixedHeader{}, ErrReservedFlags
	}

	remaining, _, err := DecodeVariableByteInteger(r)
	if err != nil {
		r.RewindTo(checkpoint)
		return wire.FixedHeader{}, err
	}
	fh.RemainingLength = remaining

	return fh, nil
}

// EncodeFixedHeader appends fh's first-byte and remaining-length
// encoding to dst.
func EncodeFixedHeader(dst []byte, fh wire.FixedHeader) ([]byte, error) {
	var flags byte
	if fh.Type == wire.PUBLISH {
		if fh.Dup {
			flags |= 0x08
		}
		flags |= byte(fh.QoS) << 1
		if fh.Retain {
			flags |= 0x01
		}
	} else if expected, ok := wire.ExpectedFlags(fh.Type); ok {
		flags = expected
	}

	dst = append(dst, byte(fh.Type)<<4|flags)
	return EncodeVariableByteInteger(dst, fh.RemainingLength)
}
