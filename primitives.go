package mqttcodec

// ReadUint8 consumes one byte.
func ReadUint8(r *ByteReader) (uint8, error) {
	return r.ReadByte()
}

// ReadUint16 consumes a big-endian two-byte integer.
func ReadUint16(r *ByteReader) (uint16, error) {
	b, err := r.ReadN(2)
	if err != nil {
		return 0, err
	}
	return uint16(b[0])<<8 | uint16(b[1]), nil
}

// ReadUint32 consumes a big-endian four-byte integer, used for MQTT 5
// Session/Message/Will Expiry Interval and Maximum Packet Size.
func ReadUint32(r *ByteReader) (uint32, error) {
	b, err := r.ReadN(4)
	if err != nil {
		return 0, err
	}
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]), nil
}

// ReadUTF8String consumes a two-byte length prefix followed by that
// many bytes of UTF-8 text, validating it per ValidateUTF8String.
func ReadUTF8String(r *ByteReader) (string, error) {
	length, err := ReadUint16(r)
	if err != nil {
		return "", err
	}
	b, err := r.ReadN(int(length))
	if err != nil {
		return "", err
	}
	s := string(b)
	if err := ValidateUTF8String(s); err != nil {
		return "", err
	}
	return s, nil
}

// ReadBinaryData consumes a two-byte length prefix followed by that
// many raw bytes, with no text validation. The returned slice aliases
// the reader's backing buffer; see ByteReader.ReadN.
func ReadBinaryData(r *ByteReader) ([]byte, error) {
	length, err := ReadUint16(r)
	if err != nil {
		return nil, err
	}
	return r.ReadN(int(length))
}

// WriteUint8 appends a single byte.
func WriteUint8(dst []byte, v uint8) []byte {
	return append(dst, v)
}

// WriteUint16 appends a big-endian two-byte integer.
func WriteUint16(dst []byte, v uint16) []byte {
	return append(dst, byte(v>>8), byte(v))
}

// WriteUint32 appends a big-endian four-byte integer.
func WriteUint32(dst []byte, v uint32) []byte {
	return append(dst, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}

// WriteUTF8String appends a two-byte length prefix and s's bytes. It
// does not validate s, and neither do the builders that call it: a
// string that is not well-formed MQTT UTF-8, or is longer than 65535
// bytes, is written as given.
func WriteUTF8String(dst []byte, s string) []byte {
	dst = WriteUint16(dst, uint16(len(s)))
	return append(dst, s...)
}

// WriteBinaryData appends a two-byte length prefix and b's bytes.
func WriteBinaryData(dst []byte, b []byte) []byte {
	dst = WriteUint16(dst, uint16(len(b)))
	return append(dst, b...)
}
