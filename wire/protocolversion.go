package wire

// ProtocolVersion identifies the (protocol name, protocol level) pair
// carried in every CONNECT packet. Resolution is by the pair together —
// a name/level mismatch is a protocol error, not a silent coercion.
type ProtocolVersion byte

const (
	// MQTT31 is MQTT 3.1 ("MQIsdp", level 3). It is accepted on decode,
	// and builders given it encode with the v3 dialect (a CONNECT
	// carries the "MQIsdp" name).
	MQTT31  ProtocolVersion = 3
	MQTT311 ProtocolVersion = 4
	MQTT5   ProtocolVersion = 5
)

// ProtocolName returns the wire protocol-name string associated with v.
func (v ProtocolVersion) ProtocolName() string {
	if v == MQTT31 {
		return "MQIsdp"
	}
	return "MQTT"
}

// ResolveProtocolVersion matches a decoded (name, level) pair against
// the three known combinations. ok is false for any other pairing,
// which callers must treat as ErrInvalidProtocolInfo.
func ResolveProtocolVersion(name string, level byte) (ProtocolVersion, bool) {
	switch {
	case name == "MQIsdp" && level == byte(MQTT31):
		return MQTT31, true
	case name == "MQTT" && level == byte(MQTT311):
		return MQTT311, true
	case name == "MQTT" && level == byte(MQTT5):
		return MQTT5, true
	default:
		return 0, false
	}
}

// IsV5 reports whether v uses the MQTT 5 dialect (properties, reason
// codes) rather than the 3.1/3.1.1 dialect.
func (v ProtocolVersion) IsV5() bool {
	return v == MQTT5
}
